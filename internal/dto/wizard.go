package dto

import (
	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/service"
	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
)

// SelectLevelRequest picks the schooling level.
type SelectLevelRequest struct {
	Level models.Level `json:"level" binding:"required" example:"college"`
}

// SelectGradeRequest picks a high-school grade by its catalog ID.
type SelectGradeRequest struct {
	GradeID string `json:"gradeId" binding:"required"`
}

// SelectCourseRequest picks a college course by code.
type SelectCourseRequest struct {
	CourseCode string `json:"courseCode" binding:"required" example:"BSIT"`
}

// SelectYearRequest picks the college year level.
type SelectYearRequest struct {
	Year int `json:"year" binding:"required,min=1" example:"1"`
}

// SelectSemesterRequest picks a semester.
type SelectSemesterRequest struct {
	Semester models.Semester `json:"semester" binding:"required" example:"first-sem"`
}

// PersonalInfoRequest carries the student's personal data.
type PersonalInfoRequest struct {
	models.PersonalInfo
}

// SubmitRequest carries the document checklist for final submission.
type SubmitRequest struct {
	Documents models.DocumentStatus `json:"documents"`
}

// WizardStateResponse is the wizard session as returned to the client. The
// transition delay and availability verdict appear only when the last
// interaction produced them.
type WizardStateResponse struct {
	State             wizard.State             `json:"state"`
	Availability      *AvailabilityResponse    `json:"availability,omitempty"`
	Enrollment        *models.EnrollmentRecord `json:"enrollment,omitempty"`
	Submitted         bool                     `json:"submitted,omitempty"`
	TransitionDelayMs int64                    `json:"transitionDelayMs,omitempty"`
}

// AvailabilityResponse is the outcome of a semester availability check.
type AvailabilityResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// NewWizardStateResponse maps a transition result onto the API shape.
func NewWizardStateResponse(result *service.TransitionResult) WizardStateResponse {
	resp := WizardStateResponse{
		State:             result.State,
		Enrollment:        result.Record,
		Submitted:         result.Submitted,
		TransitionDelayMs: result.TransitionDelayMs,
	}
	if result.Availability != nil {
		resp.Availability = &AvailabilityResponse{
			Valid:   result.Availability.Valid,
			Message: result.Availability.Message,
		}
	}
	return resp
}
