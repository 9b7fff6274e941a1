// Package wizard implements the enrollment wizard as an explicit state
// machine: a typed state struct plus a pure transition function that returns
// the next state and the side effects the caller must execute.
package wizard

import (
	"errors"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// Step identifies a wizard screen.
type Step string

// Wizard steps in flow order. Grade selection and course selection are
// mutually exclusive branches; year selection exists only for college.
const (
	StepCompliance        Step = "compliance"
	StepLevelSelection    Step = "level-selection"
	StepGradeSelection    Step = "grade-selection"
	StepCourseSelection   Step = "course-selection"
	StepYearSelection     Step = "year-selection"
	StepSemesterSelection Step = "semester-selection"
	StepPersonalInfo      Step = "personal-info"
	StepConfirmation      Step = "confirmation"
)

// Prompt identifies a confirmation the student must answer before the wizard
// proceeds.
type Prompt string

// Prompt kinds.
const (
	PromptNone         Prompt = ""
	PromptIrregular    Prompt = "irregular"
	PromptCourseChange Prompt = "course-change"
)

// State is the full wizard session. It is owned by the session store and
// mutated only by Transition.
type State struct {
	Step                 Step                 `json:"step"`
	Level                models.Level         `json:"level,omitempty"`
	Grade                *models.GradeLevel   `json:"grade,omitempty"`
	Course               *models.Course       `json:"course,omitempty"`
	Year                 int                  `json:"year,omitempty"`
	Semester             models.Semester      `json:"semester,omitempty"`
	StudentType          models.StudentType   `json:"student_type,omitempty"`
	PersonalInfo         *models.PersonalInfo `json:"personal_info,omitempty"`
	PendingGrade         *models.GradeLevel   `json:"pending_grade,omitempty"`
	PendingCourse        *models.Course       `json:"pending_course,omitempty"`
	Prompt               Prompt               `json:"prompt,omitempty"`
	PromptPreviousCourse string               `json:"prompt_previous_course,omitempty"`
	PendingAvailability  bool                 `json:"pending_availability,omitempty"`
	ReEnrollment         bool                 `json:"re_enrollment,omitempty"`
	Submitting           bool                 `json:"submitting,omitempty"`
}

// New returns the initial wizard state.
func New() State {
	return State{Step: StepCompliance}
}

// Context carries the read-only collaborator data a transition may need.
// CoursesLoaded distinguishes a catalog that was never fetched from one that
// was fetched and came back empty; the machine requests a load only for the
// former.
type Context struct {
	Previous      *models.EnrollmentRecord
	Existing      *models.EnrollmentRecord
	Courses       []models.Course
	CoursesLoaded bool
	GradeLevels   []models.GradeLevel
	OpenLevels    []models.Level
}

// Transition guard failures. The service layer maps these onto API errors.
var (
	ErrInvalidEvent         = errors.New("event not allowed in current step")
	ErrPromptPending        = errors.New("a confirmation prompt is pending")
	ErrLevelClosed          = errors.New("enrollment period closed for level")
	ErrSubmitInFlight       = errors.New("submission already in progress")
	ErrNoPreviousEnrollment = errors.New("no previous enrollment to re-enroll from")
)

func (c Context) levelOpen(level models.Level) bool {
	if len(c.OpenLevels) == 0 {
		return true
	}
	for _, l := range c.OpenLevels {
		if l == level {
			return true
		}
	}
	return false
}

func (c Context) findCourse(code string) *models.Course {
	for i := range c.Courses {
		if c.Courses[i].Code == code {
			course := c.Courses[i]
			return &course
		}
	}
	return nil
}

func (c Context) findGrade(gradeLevel int, strand string) *models.GradeLevel {
	for i := range c.GradeLevels {
		if c.GradeLevels[i].GradeLevel == gradeLevel && c.GradeLevels[i].Strand == strand {
			grade := c.GradeLevels[i]
			return &grade
		}
	}
	return nil
}
