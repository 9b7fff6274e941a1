package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
	"github.com/noah-isme/sis-enrollment-api/pkg/response"
)

type catalogService interface {
	Courses(ctx context.Context) ([]models.Course, error)
	GradeLevels(ctx context.Context, department models.Department) ([]models.GradeLevel, error)
}

// CatalogHandler serves the course and grade-level catalogs.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Courses godoc
// @Summary List college courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// GradeLevels godoc
// @Summary List grade levels
// @Tags Catalog
// @Produce json
// @Param department query string false "Filter by department (JHS or SHS)"
// @Success 200 {object} response.Envelope
// @Router /grade-levels [get]
func (h *CatalogHandler) GradeLevels(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	department := models.Department(strings.TrimSpace(c.Query("department")))
	if department != "" && department != models.DepartmentJHS && department != models.DepartmentSHS {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "department must be JHS or SHS"))
		return
	}
	grades, err := h.service.GradeLevels(c.Request.Context(), department)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}
