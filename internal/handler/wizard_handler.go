package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-enrollment-api/internal/dto"
	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/service"
	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
	"github.com/noah-isme/sis-enrollment-api/pkg/response"
)

type wizardService interface {
	State(ctx context.Context, userID string) (wizard.State, error)
	AcknowledgeCompliance(ctx context.Context, userID string) (*service.TransitionResult, error)
	SelectLevel(ctx context.Context, userID string, level models.Level) (*service.TransitionResult, error)
	SelectGrade(ctx context.Context, userID, gradeID string) (*service.TransitionResult, error)
	ConfirmIrregular(ctx context.Context, userID string) (*service.TransitionResult, error)
	CancelIrregular(ctx context.Context, userID string) (*service.TransitionResult, error)
	SelectCourse(ctx context.Context, userID, courseCode string) (*service.TransitionResult, error)
	ConfirmCourseChange(ctx context.Context, userID string) (*service.TransitionResult, error)
	CancelCourseChange(ctx context.Context, userID string) (*service.TransitionResult, error)
	SelectYear(ctx context.Context, userID string, year int) (*service.TransitionResult, error)
	SelectSemester(ctx context.Context, userID string, semester models.Semester) (*service.TransitionResult, error)
	SetPersonalInfo(ctx context.Context, userID string, info models.PersonalInfo) (*service.TransitionResult, error)
	StartReEnroll(ctx context.Context, userID string) (*service.TransitionResult, error)
	Submit(ctx context.Context, userID string, documents models.DocumentStatus) (*service.TransitionResult, error)
	GoBack(ctx context.Context, userID string) (*service.TransitionResult, error)
	Reset(ctx context.Context, userID string) (*service.TransitionResult, error)
}

// WizardHandler wires the enrollment wizard to HTTP endpoints.
type WizardHandler struct {
	service wizardService
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(service wizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// State godoc
// @Summary Current wizard session
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard [get]
func (h *WizardHandler) State(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	state, err := h.service.State(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.WizardStateResponse{State: state}, nil)
}

// AcknowledgeCompliance godoc
// @Summary Accept the compliance notice
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/compliance [post]
func (h *WizardHandler) AcknowledgeCompliance(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.AcknowledgeCompliance(ctx, userID)
	})
}

// SelectLevel godoc
// @Summary Pick the schooling level
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SelectLevelRequest true "Level"
// @Success 200 {object} response.Envelope
// @Router /wizard/level [post]
func (h *WizardHandler) SelectLevel(c *gin.Context) {
	var req dto.SelectLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "level is required"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SelectLevel(ctx, userID, req.Level)
	})
}

// SelectGrade godoc
// @Summary Pick a high-school grade
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SelectGradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Router /wizard/grade [post]
func (h *WizardHandler) SelectGrade(c *gin.Context) {
	var req dto.SelectGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "gradeId is required"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SelectGrade(ctx, userID, req.GradeID)
	})
}

// ConfirmIrregular godoc
// @Summary Accept the irregular-standing prompt
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/irregular/confirm [post]
func (h *WizardHandler) ConfirmIrregular(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.ConfirmIrregular(ctx, userID)
	})
}

// CancelIrregular godoc
// @Summary Dismiss the irregular-standing prompt
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/irregular/cancel [post]
func (h *WizardHandler) CancelIrregular(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.CancelIrregular(ctx, userID)
	})
}

// SelectCourse godoc
// @Summary Pick a college course
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SelectCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /wizard/course [post]
func (h *WizardHandler) SelectCourse(c *gin.Context) {
	var req dto.SelectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseCode is required"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SelectCourse(ctx, userID, req.CourseCode)
	})
}

// ConfirmCourseChange godoc
// @Summary Commit a staged course switch
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/course-change/confirm [post]
func (h *WizardHandler) ConfirmCourseChange(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.ConfirmCourseChange(ctx, userID)
	})
}

// CancelCourseChange godoc
// @Summary Discard a staged course switch
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/course-change/cancel [post]
func (h *WizardHandler) CancelCourseChange(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.CancelCourseChange(ctx, userID)
	})
}

// SelectYear godoc
// @Summary Pick the college year level
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SelectYearRequest true "Year"
// @Success 200 {object} response.Envelope
// @Router /wizard/year [post]
func (h *WizardHandler) SelectYear(c *gin.Context) {
	var req dto.SelectYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be at least 1"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SelectYear(ctx, userID, req.Year)
	})
}

// SelectSemester godoc
// @Summary Pick a semester
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SelectSemesterRequest true "Semester"
// @Success 200 {object} response.Envelope
// @Router /wizard/semester [post]
func (h *WizardHandler) SelectSemester(c *gin.Context) {
	var req dto.SelectSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SelectSemester(ctx, userID, req.Semester)
	})
}

// SetPersonalInfo godoc
// @Summary Store the student's personal data
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.PersonalInfoRequest true "Personal information"
// @Success 200 {object} response.Envelope
// @Router /wizard/personal-info [post]
func (h *WizardHandler) SetPersonalInfo(c *gin.Context) {
	var req dto.PersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid personal information payload"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.SetPersonalInfo(ctx, userID, req.PersonalInfo)
	})
}

// StartReEnroll godoc
// @Summary Seed the wizard from the previous enrollment
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/re-enroll [post]
func (h *WizardHandler) StartReEnroll(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.StartReEnroll(ctx, userID)
	})
}

// Submit godoc
// @Summary Submit the enrollment
// @Tags Wizard
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Param request body dto.SubmitRequest true "Document checklist"
// @Success 200 {object} response.Envelope
// @Router /wizard/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
		return
	}
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.Submit(ctx, userID, req.Documents)
	})
}

// GoBack godoc
// @Summary Step backwards through the wizard
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/back [post]
func (h *WizardHandler) GoBack(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.GoBack(ctx, userID)
	})
}

// Reset godoc
// @Summary Discard the wizard session
// @Tags Wizard
// @Produce json
// @Param X-User-ID header string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /wizard [delete]
func (h *WizardHandler) Reset(c *gin.Context) {
	h.dispatch(c, func(ctx context.Context, userID string) (*service.TransitionResult, error) {
		return h.service.Reset(ctx, userID)
	})
}

func (h *WizardHandler) dispatch(c *gin.Context, fn func(context.Context, string) (*service.TransitionResult, error)) {
	userID, ok := h.user(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewWizardStateResponse(result), nil)
}

func (h *WizardHandler) user(c *gin.Context) (string, bool) {
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
