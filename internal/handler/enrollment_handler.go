package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-enrollment-api/internal/dto"
	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
	"github.com/noah-isme/sis-enrollment-api/pkg/response"
)

type enrollmentService interface {
	Current(ctx context.Context, userID string) (*models.EnrollmentRecord, error)
	PreviousEnrollment(ctx context.Context, userID string) (*models.EnrollmentRecord, error)
	StageDeletion(ctx context.Context, userID string) (repository.DeleteConfirmation, error)
	Delete(ctx context.Context, userID, token string, acknowledged bool) error
}

type slipRenderer interface {
	Render(record models.EnrollmentRecord) ([]byte, error)
}

// EnrollmentHandler serves the enrollment record endpoints.
type EnrollmentHandler struct {
	service      enrollmentService
	slip         slipRenderer
	confirmDelay int64
}

// NewEnrollmentHandler constructs the handler. confirmDelayMs is echoed to
// clients so they know how long to hold the delete button.
func NewEnrollmentHandler(service enrollmentService, slip slipRenderer, confirmDelayMs int64) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, slip: slip, confirmDelay: confirmDelayMs}
}

// Current godoc
// @Summary Current school-year enrollment
// @Tags Enrollment
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollment [get]
func (h *EnrollmentHandler) Current(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	record, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Previous godoc
// @Summary Most recent enrollment on record
// @Tags Enrollment
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollment/previous [get]
func (h *EnrollmentHandler) Previous(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	record, err := h.service.PreviousEnrollment(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Slip godoc
// @Summary Download the enrollment slip as PDF
// @Tags Enrollment
// @Produce application/pdf
// @Param X-User-ID header string true "Student ID"
// @Success 200 {file} binary
// @Router /enrollment/slip [get]
func (h *EnrollmentHandler) Slip(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	record, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.slip.Render(*record)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render enrollment slip"))
		return
	}
	filename := fmt.Sprintf("enrollment-slip-%s.pdf", record.SchoolYear)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// StageDeletion godoc
// @Summary Stage an enrollment deletion
// @Tags Enrollment
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollment/delete-confirmation [post]
func (h *EnrollmentHandler) StageDeletion(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	confirmation, err := h.service.StageDeletion(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DeleteConfirmationResponse{
		Token:        confirmation.Token,
		IssuedAt:     confirmation.IssuedAt,
		ConfirmAfter: h.confirmDelay,
	}, nil)
}

// Delete godoc
// @Summary Delete the current enrollment
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.DeleteEnrollmentRequest true "Confirmation"
// @Success 204
// @Router /enrollment [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	var req dto.DeleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, req.Token, req.Acknowledged); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *EnrollmentHandler) user(c *gin.Context) (string, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return "", false
	}
	userID := userIDFromContext(c)
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "X-User-ID header is required"))
		return "", false
	}
	return userID, true
}
