package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
	"github.com/noah-isme/sis-enrollment-api/pkg/config"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
	"github.com/noah-isme/sis-enrollment-api/pkg/events"
)

type mockSessionStore struct {
	states       map[string]wizard.State
	lockDenied   bool
	lockAcquired int
	lockReleased int
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{states: make(map[string]wizard.State)}
}

func (m *mockSessionStore) Get(_ context.Context, userID string) (wizard.State, bool, error) {
	state, ok := m.states[userID]
	return state, ok, nil
}

func (m *mockSessionStore) Save(_ context.Context, userID string, state wizard.State) error {
	m.states[userID] = state
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, userID string) error {
	delete(m.states, userID)
	return nil
}

func (m *mockSessionStore) AcquireSubmitLock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if m.lockDenied {
		return false, nil
	}
	m.lockAcquired++
	return true, nil
}

func (m *mockSessionStore) ReleaseSubmitLock(_ context.Context, _ string) error {
	m.lockReleased++
	return nil
}

type mockEnrollmentOps struct {
	previous       *models.EnrollmentRecord
	availability   AvailabilityResult
	availCalls     int
	submitErr      error
	submitCalls    int
	lastSubmission SubmissionInput
}

func (m *mockEnrollmentOps) PreviousEnrollment(_ context.Context, _ string) (*models.EnrollmentRecord, error) {
	return m.previous, nil
}

func (m *mockEnrollmentOps) CheckAvailability(_ context.Context, _ string, _ models.Semester) (AvailabilityResult, error) {
	m.availCalls++
	return m.availability, nil
}

func (m *mockEnrollmentOps) Submit(_ context.Context, input SubmissionInput) (*models.EnrollmentRecord, error) {
	m.submitCalls++
	m.lastSubmission = input
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	record := &models.EnrollmentRecord{UserID: input.UserID}
	record.StudentType = input.StudentType
	record.Level = input.State.Level
	return record, nil
}

type mockCatalog struct {
	courses      []models.Course
	grades       []models.GradeLevel
	coursesCalls int
}

func (m *mockCatalog) Courses(_ context.Context) ([]models.Course, error) {
	m.coursesCalls++
	return m.courses, nil
}

func (m *mockCatalog) CourseByCode(_ context.Context, code string) (*models.Course, error) {
	for i := range m.courses {
		if m.courses[i].Code == code {
			return &m.courses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (m *mockCatalog) GradeLevels(_ context.Context, _ models.Department) ([]models.GradeLevel, error) {
	return m.grades, nil
}

func (m *mockCatalog) GradeByID(_ context.Context, id string) (*models.GradeLevel, error) {
	for i := range m.grades {
		if m.grades[i].ID == id {
			return &m.grades[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "grade level not found")
}

type mockPublisher struct {
	published []events.SubmittedEvent
}

func (m *mockPublisher) PublishSubmitted(_ context.Context, event events.SubmittedEvent) error {
	m.published = append(m.published, event)
	return nil
}

type wizardFixture struct {
	svc       *WizardService
	sessions  *mockSessionStore
	ops       *mockEnrollmentOps
	catalog   *mockCatalog
	publisher *mockPublisher
}

func newWizardFixture(cfg config.WizardConfig) *wizardFixture {
	f := &wizardFixture{
		sessions:  newMockSessionStore(),
		ops:       &mockEnrollmentOps{availability: AvailabilityResult{Valid: true}},
		catalog:   &mockCatalog{},
		publisher: &mockPublisher{},
	}
	f.svc = NewWizardService(f.sessions, f.ops, f.catalog, f.publisher, nil, cfg)
	return f
}

func completeDocuments() models.DocumentStatus {
	return models.DocumentStatus{BirthCertificate: true, ReportCard: true, GoodMoral: true}
}

func TestWizardFullCollegeFlow(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.catalog.courses = []models.Course{{ID: "c-1", Code: "BSIT", Name: "BS Information Technology"}}

	_, err := f.svc.AcknowledgeCompliance(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.SelectLevel(ctx, "user-1", models.LevelCollege)
	require.NoError(t, err)

	result, err := f.svc.SelectCourse(ctx, "user-1", "BSIT")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepYearSelection, result.State.Step)

	_, err = f.svc.SelectYear(ctx, "user-1", 1)
	require.NoError(t, err)

	result, err = f.svc.SelectSemester(ctx, "user-1", models.SemesterFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ops.availCalls)
	assert.Equal(t, wizard.StepPersonalInfo, result.State.Step)

	_, err = f.svc.SetPersonalInfo(ctx, "user-1", *validPersonalInfo())
	require.NoError(t, err)

	result, err = f.svc.Submit(ctx, "user-1", completeDocuments())
	require.NoError(t, err)
	assert.True(t, result.Submitted)
	require.NotNil(t, result.Record)
	assert.Equal(t, models.StudentTypeRegular, result.Record.StudentType)
	assert.Equal(t, wizard.StepCompliance, result.State.Step)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "user-1", f.publisher.published[0].UserID)
	assert.Equal(t, 1, f.sessions.lockAcquired)
	assert.Equal(t, 1, f.sessions.lockReleased)
}

func TestWizardAvailabilityConflictRollsBackSemester(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.ops.availability = AvailabilityResult{Valid: false, Message: "already enrolled for the first-sem of 2026-2027"}
	f.sessions.states["user-1"] = wizard.State{
		Step:   wizard.StepSemesterSelection,
		Level:  models.LevelCollege,
		Course: &models.Course{ID: "c-1", Code: "BSIT"},
		Year:   1,
	}

	result, err := f.svc.SelectSemester(ctx, "user-1", models.SemesterFirst)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSemesterSelection, result.State.Step)
	assert.Empty(t, result.State.Semester)
	require.NotNil(t, result.Availability)
	assert.False(t, result.Availability.Valid)
	assert.Contains(t, result.Availability.Message, "already enrolled")
}

func TestWizardSubmitSingleFlight(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.sessions.lockDenied = true
	f.sessions.states["user-1"] = wizard.State{
		Step:         wizard.StepConfirmation,
		Level:        models.LevelCollege,
		Course:       &models.Course{ID: "c-1", Code: "BSIT"},
		Year:         1,
		Semester:     models.SemesterFirst,
		PersonalInfo: validPersonalInfo(),
	}

	_, err := f.svc.Submit(ctx, "user-1", completeDocuments())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSubmitInFlight.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, f.ops.submitCalls)
	// The stored session must not be stuck in a submitting state.
	assert.False(t, f.sessions.states["user-1"].Submitting)
}

func TestWizardSubmitFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.ops.submitErr = errors.New("insert failed")
	f.sessions.states["user-1"] = wizard.State{
		Step:         wizard.StepConfirmation,
		Level:        models.LevelCollege,
		Course:       &models.Course{ID: "c-1", Code: "BSIT"},
		Year:         1,
		Semester:     models.SemesterFirst,
		PersonalInfo: validPersonalInfo(),
	}

	_, err := f.svc.Submit(ctx, "user-1", completeDocuments())
	require.Error(t, err)
	saved := f.sessions.states["user-1"]
	assert.False(t, saved.Submitting)
	assert.Equal(t, wizard.StepConfirmation, saved.Step)
	assert.Equal(t, 1, f.sessions.lockReleased)

	// A second attempt goes through once the collaborator recovers.
	f.ops.submitErr = nil
	result, err := f.svc.Submit(ctx, "user-1", completeDocuments())
	require.NoError(t, err)
	assert.True(t, result.Submitted)
}

func TestWizardSubmitReconcilesCourseSwitch(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.ops.previous = &models.EnrollmentRecord{
		UserID: "user-1",
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       models.LevelCollege,
			CourseCode:  "BSCS",
			YearLevel:   1,
			Semester:    models.SemesterFirst,
			StudentType: models.StudentTypeRegular,
		},
	}
	f.sessions.states["user-1"] = wizard.State{
		Step:         wizard.StepConfirmation,
		Level:        models.LevelCollege,
		Course:       &models.Course{ID: "c-1", Code: "BSIT"},
		Year:         1,
		Semester:     models.SemesterFirst,
		StudentType:  models.StudentTypeRegular,
		PersonalInfo: validPersonalInfo(),
	}

	result, err := f.svc.Submit(ctx, "user-1", completeDocuments())
	require.NoError(t, err)
	assert.Equal(t, models.StudentTypeIrregular, result.Record.StudentType)
	assert.Equal(t, models.StudentTypeIrregular, f.ops.lastSubmission.StudentType)
}

func TestWizardReEnrollCollegeLoadsCatalog(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.catalog.courses = []models.Course{{ID: "c-1", Code: "BSIT", Name: "BS Information Technology"}}
	f.ops.previous = &models.EnrollmentRecord{
		UserID: "user-1",
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       models.LevelCollege,
			CourseCode:  "BSIT",
			YearLevel:   1,
			Semester:    models.SemesterSecond,
			StudentType: models.StudentTypeRegular,
		},
	}

	result, err := f.svc.StartReEnroll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.catalog.coursesCalls)
	assert.Equal(t, wizard.StepSemesterSelection, result.State.Step)
	require.NotNil(t, result.State.Course)
	assert.Equal(t, "BSIT", result.State.Course.Code)
	// Finishing the second semester advances the year for the next enrollment.
	assert.Equal(t, 2, result.State.Year)
	assert.Equal(t, models.SemesterFirst, result.State.Semester)
	assert.True(t, result.State.ReEnrollment)
}

func TestWizardReEnrollEmptyCatalogTerminates(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.ops.previous = &models.EnrollmentRecord{
		UserID: "user-1",
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       models.LevelCollege,
			CourseCode:  "BSIT",
			YearLevel:   1,
			Semester:    models.SemesterFirst,
			StudentType: models.StudentTypeRegular,
		},
	}

	result, err := f.svc.StartReEnroll(ctx, "user-1")
	require.NoError(t, err)
	// The empty catalog is fetched exactly once, then the student picks a
	// course manually.
	assert.Equal(t, 1, f.catalog.coursesCalls)
	assert.Equal(t, wizard.StepCourseSelection, result.State.Step)
	assert.Equal(t, models.LevelCollege, result.State.Level)
	assert.Nil(t, result.State.Course)
}

func TestWizardStrandChangeAppliesTransitionDelay(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{TransitionDelay: 600 * time.Millisecond})
	f.catalog.grades = []models.GradeLevel{
		{ID: "g-11-abm", GradeLevel: 11, Department: models.DepartmentSHS, Strand: "ABM"},
		{ID: "g-12-stem", GradeLevel: 12, Department: models.DepartmentSHS, Strand: "STEM"},
	}
	f.ops.previous = &models.EnrollmentRecord{
		UserID: "user-1",
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       models.LevelHighSchool,
			GradeLevel:  11,
			Department:  models.DepartmentSHS,
			Strand:      "STEM",
			StudentType: models.StudentTypeRegular,
		},
	}
	f.sessions.states["user-1"] = wizard.State{
		Step:         wizard.StepGradeSelection,
		Level:        models.LevelHighSchool,
		ReEnrollment: true,
	}

	result, err := f.svc.SelectGrade(ctx, "user-1", "g-11-abm")
	require.NoError(t, err)
	assert.Equal(t, int64(600), result.TransitionDelayMs)
	require.NotNil(t, result.State.Grade)
	assert.Equal(t, 11, result.State.Grade.GradeLevel)
	assert.Equal(t, "ABM", result.State.Grade.Strand)
	assert.Equal(t, models.StudentTypeIrregular, result.State.StudentType)
	assert.Equal(t, wizard.StepSemesterSelection, result.State.Step)
}

func TestWizardClosedLevelMapsToPeriodClosed(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{OpenLevels: []string{"high-school"}})
	f.sessions.states["user-1"] = wizard.State{Step: wizard.StepLevelSelection}

	_, err := f.svc.SelectLevel(ctx, "user-1", models.LevelCollege)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPeriodClosed.Code, appErrors.FromError(err).Code)
}

func TestWizardResetDropsSession(t *testing.T) {
	ctx := context.Background()
	f := newWizardFixture(config.WizardConfig{})
	f.sessions.states["user-1"] = wizard.State{Step: wizard.StepPersonalInfo, Level: models.LevelCollege}

	result, err := f.svc.Reset(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepCompliance, result.State.Step)
	_, found := f.sessions.states["user-1"]
	assert.False(t, found)
}
