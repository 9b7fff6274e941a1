package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/repository"
	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
	"github.com/noah-isme/sis-enrollment-api/pkg/config"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
)

type enrollmentStore interface {
	FindLatestByUser(ctx context.Context, userID string) (*models.EnrollmentRecord, error)
	FindCurrent(ctx context.Context, userID, schoolYear string) (*models.EnrollmentRecord, error)
	ExistsEnrolled(ctx context.Context, userID string, semester models.Semester, schoolYear string) (bool, error)
	Create(ctx context.Context, record *models.EnrollmentRecord) error
	DeleteByUser(ctx context.Context, userID, schoolYear string) error
}

type deleteConfirmationStore interface {
	StageDeleteConfirmation(ctx context.Context, userID string, confirmation repository.DeleteConfirmation, ttl time.Duration) error
	GetDeleteConfirmation(ctx context.Context, userID string) (repository.DeleteConfirmation, bool, error)
	ClearDeleteConfirmation(ctx context.Context, userID string) error
}

// AvailabilityResult is the verdict of a duplicate-enrollment check.
type AvailabilityResult struct {
	Valid   bool
	Message string
}

// SubmissionInput carries everything needed to persist an enrollment.
type SubmissionInput struct {
	UserID      string
	State       wizard.State
	StudentType models.StudentType
	Documents   models.DocumentStatus
}

// EnrollmentService owns enrollment records: availability checks, final
// submission and guarded deletion.
type EnrollmentService struct {
	repo          enrollmentStore
	confirmations deleteConfirmationStore
	validator     *validator.Validate
	metrics       *MetricsService
	logger        *zap.Logger
	cfg           config.WizardConfig
	schoolYear    string
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(repo enrollmentStore, confirmations deleteConfirmationStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg config.WizardConfig, schoolYear string) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:          repo,
		confirmations: confirmations,
		validator:     validate,
		metrics:       metrics,
		logger:        logger,
		cfg:           cfg,
		schoolYear:    schoolYear,
	}
}

// PreviousEnrollment loads the student's most recent enrollment. A missing
// record is not an error: first-time enrollees simply have no history.
func (s *EnrollmentService) PreviousEnrollment(ctx context.Context, userID string) (*models.EnrollmentRecord, error) {
	record, err := s.repo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load previous enrollment")
	}
	return record, nil
}

// Current loads the student's enrollment for the active school year.
func (s *EnrollmentService) Current(ctx context.Context, userID string) (*models.EnrollmentRecord, error) {
	record, err := s.repo.FindCurrent(ctx, userID, s.schoolYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no enrollment for the current school year")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return record, nil
}

// CheckAvailability blocks a semester pick when the student already holds an
// enrolled record for it. Lookup failures degrade to available when the
// fail-open flag is set; that verdict is logged and counted, not surfaced.
func (s *EnrollmentService) CheckAvailability(ctx context.Context, userID string, semester models.Semester) (AvailabilityResult, error) {
	exists, err := s.repo.ExistsEnrolled(ctx, userID, semester, s.schoolYear)
	if err != nil {
		if s.cfg.AvailabilityFailOpen {
			s.logger.Warn("availability check failed, treating as available",
				zap.String("user_id", userID), zap.String("semester", string(semester)), zap.Error(err))
			s.metrics.RecordAvailabilityFailOpen()
			return AvailabilityResult{Valid: true}, nil
		}
		return AvailabilityResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment availability")
	}
	if exists {
		return AvailabilityResult{
			Valid:   false,
			Message: fmt.Sprintf("already enrolled for the %s of %s", semester, s.schoolYear),
		}, nil
	}
	return AvailabilityResult{Valid: true}, nil
}

// ValidateDocuments checks that every required document is present.
func (s *EnrollmentService) ValidateDocuments(documents models.DocumentStatus) error {
	if !documents.Complete() {
		return appErrors.Clone(appErrors.ErrIncompleteDocuments, "")
	}
	return nil
}

// ValidatePersonalInfo validates the personal-info payload.
func (s *EnrollmentService) ValidatePersonalInfo(info *models.PersonalInfo) error {
	if info == nil {
		return appErrors.Clone(appErrors.ErrValidation, "personal information is required")
	}
	if err := s.validator.Struct(info); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid personal information")
	}
	return nil
}

// Submit persists a reconciled enrollment. Validation is expected to have
// run already; Submit repeats the cheap checks as a guard.
func (s *EnrollmentService) Submit(ctx context.Context, input SubmissionInput) (*models.EnrollmentRecord, error) {
	if err := s.ValidateDocuments(input.Documents); err != nil {
		return nil, err
	}
	if err := s.ValidatePersonalInfo(input.State.PersonalInfo); err != nil {
		return nil, err
	}

	record := buildRecord(input, s.schoolYear)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save enrollment")
	}
	s.metrics.RecordSubmission(record.Level, record.StudentType)
	s.logger.Info("enrollment submitted",
		zap.String("user_id", record.UserID),
		zap.String("level", string(record.Level)),
		zap.String("student_type", string(record.StudentType)))
	return record, nil
}

// StageDeletion issues a deletion confirmation token. The deletion itself is
// rejected until the configured delay has elapsed, mirroring the countdown
// the enrollment screen shows before the delete button activates.
func (s *EnrollmentService) StageDeletion(ctx context.Context, userID string) (repository.DeleteConfirmation, error) {
	if _, err := s.Current(ctx, userID); err != nil {
		return repository.DeleteConfirmation{}, err
	}
	confirmation := repository.DeleteConfirmation{
		Token:    uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}
	if err := s.confirmations.StageDeleteConfirmation(ctx, userID, confirmation, s.cfg.DeleteConfirmTTL); err != nil {
		return repository.DeleteConfirmation{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage deletion")
	}
	return confirmation, nil
}

// Delete removes the current enrollment once the confirmation token is
// presented, the acknowledgment box is ticked and the delay has passed.
func (s *EnrollmentService) Delete(ctx context.Context, userID, token string, acknowledged bool) error {
	if !acknowledged {
		return appErrors.Clone(appErrors.ErrDeleteNotConfirmed, "deletion must be acknowledged")
	}
	confirmation, found, err := s.confirmations.GetDeleteConfirmation(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deletion confirmation")
	}
	if !found || confirmation.Token != token {
		return appErrors.Clone(appErrors.ErrDeleteNotConfirmed, "no matching deletion confirmation")
	}
	if elapsed := time.Since(confirmation.IssuedAt); elapsed < s.cfg.DeleteConfirmDelay {
		return appErrors.Clone(appErrors.ErrDeleteNotConfirmed,
			fmt.Sprintf("deletion allowed after %s", s.cfg.DeleteConfirmDelay-elapsed))
	}

	if err := s.repo.DeleteByUser(ctx, userID, s.schoolYear); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no enrollment to delete")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	if err := s.confirmations.ClearDeleteConfirmation(ctx, userID); err != nil {
		s.logger.Warn("failed to clear deletion confirmation", zap.String("user_id", userID), zap.Error(err))
	}
	s.metrics.RecordDeletion()
	s.logger.Info("enrollment deleted", zap.String("user_id", userID))
	return nil
}

func buildRecord(input SubmissionInput, schoolYear string) *models.EnrollmentRecord {
	state := input.State
	record := &models.EnrollmentRecord{
		UserID: input.UserID,
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       state.Level,
			StudentType: input.StudentType,
		},
		Status:     models.EnrollmentStatusEnrolled,
		SchoolYear: schoolYear,
	}
	if state.PersonalInfo != nil {
		record.PersonalInfo = *state.PersonalInfo
	}
	switch state.Level {
	case models.LevelCollege:
		if state.Course != nil {
			record.CourseID = state.Course.ID
			record.CourseCode = state.Course.Code
			record.CourseName = state.Course.Name
		}
		record.YearLevel = state.Year
		record.Semester = state.Semester
	case models.LevelHighSchool:
		if state.Grade != nil {
			record.GradeID = state.Grade.ID
			record.GradeLevel = state.Grade.GradeLevel
			record.Department = state.Grade.Department
			record.Strand = state.Grade.Strand
		}
		if state.Grade != nil && state.Grade.Department == models.DepartmentSHS {
			record.Semester = state.Semester
		}
	}
	return record
}
