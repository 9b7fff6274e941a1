package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
	"github.com/noah-isme/sis-enrollment-api/internal/wizard"
	"github.com/noah-isme/sis-enrollment-api/pkg/config"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
	"github.com/noah-isme/sis-enrollment-api/pkg/events"
)

const submitLockTTL = 30 * time.Second

type wizardSessionStore interface {
	Get(ctx context.Context, userID string) (wizard.State, bool, error)
	Save(ctx context.Context, userID string, state wizard.State) error
	Delete(ctx context.Context, userID string) error
	AcquireSubmitLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, userID string) error
}

type enrollmentOperations interface {
	PreviousEnrollment(ctx context.Context, userID string) (*models.EnrollmentRecord, error)
	CheckAvailability(ctx context.Context, userID string, semester models.Semester) (AvailabilityResult, error)
	Submit(ctx context.Context, input SubmissionInput) (*models.EnrollmentRecord, error)
}

type catalogReaders interface {
	Courses(ctx context.Context) ([]models.Course, error)
	CourseByCode(ctx context.Context, code string) (*models.Course, error)
	GradeLevels(ctx context.Context, department models.Department) ([]models.GradeLevel, error)
	GradeByID(ctx context.Context, id string) (*models.GradeLevel, error)
}

// TransitionResult is what one wizard interaction returns to the caller: the
// resulting state plus anything the effects produced along the way.
type TransitionResult struct {
	State             wizard.State
	Availability      *AvailabilityResult
	Record            *models.EnrollmentRecord
	Submitted         bool
	TransitionDelayMs int64
}

// WizardService drives the enrollment wizard: it loads the session, runs the
// transition, executes the returned effects against its collaborators, feeds
// the results back into the machine and persists the final state.
type WizardService struct {
	sessions    wizardSessionStore
	enrollments enrollmentOperations
	catalog     catalogReaders
	publisher   events.Publisher
	logger      *zap.Logger
	cfg         config.WizardConfig
	openLevels  []models.Level
}

// NewWizardService constructs the service.
func NewWizardService(sessions wizardSessionStore, enrollments enrollmentOperations, catalog catalogReaders, publisher events.Publisher, logger *zap.Logger, cfg config.WizardConfig) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	open := make([]models.Level, 0, len(cfg.OpenLevels))
	for _, l := range cfg.OpenLevels {
		open = append(open, models.Level(l))
	}
	return &WizardService{
		sessions:    sessions,
		enrollments: enrollments,
		catalog:     catalog,
		publisher:   publisher,
		logger:      logger,
		cfg:         cfg,
		openLevels:  open,
	}
}

// State returns the current wizard session, creating a fresh one when the
// student has none.
func (s *WizardService) State(ctx context.Context, userID string) (wizard.State, error) {
	return s.loadState(ctx, userID)
}

// AcknowledgeCompliance accepts the compliance notice.
func (s *WizardService) AcknowledgeCompliance(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.AcknowledgeCompliance{})
}

// SelectLevel picks the schooling level.
func (s *WizardService) SelectLevel(ctx context.Context, userID string, level models.Level) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.SelectLevel{Level: level})
}

// SelectGrade picks a high-school grade by catalog ID.
func (s *WizardService) SelectGrade(ctx context.Context, userID, gradeID string) (*TransitionResult, error) {
	grade, err := s.catalog.GradeByID(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, userID, wizard.SelectGrade{Grade: *grade})
}

// ConfirmIrregular accepts the irregular-standing prompt.
func (s *WizardService) ConfirmIrregular(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.ConfirmIrregular{})
}

// CancelIrregular dismisses the irregular-standing prompt.
func (s *WizardService) CancelIrregular(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.CancelIrregular{})
}

// SelectCourse picks a college course by code.
func (s *WizardService) SelectCourse(ctx context.Context, userID, courseCode string) (*TransitionResult, error) {
	course, err := s.catalog.CourseByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, userID, wizard.SelectCourse{Course: *course})
}

// ConfirmCourseChange commits a staged course switch.
func (s *WizardService) ConfirmCourseChange(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.ConfirmCourseChange{})
}

// CancelCourseChange discards a staged course switch.
func (s *WizardService) CancelCourseChange(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.CancelCourseChange{})
}

// SelectYear picks the college year level.
func (s *WizardService) SelectYear(ctx context.Context, userID string, year int) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.SelectYear{Year: year})
}

// SelectSemester picks a semester. The availability check runs as part of the
// transition, so the returned state already reflects its verdict.
func (s *WizardService) SelectSemester(ctx context.Context, userID string, semester models.Semester) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.SelectSemester{Semester: semester})
}

// SetPersonalInfo stores the student's personal data.
func (s *WizardService) SetPersonalInfo(ctx context.Context, userID string, info models.PersonalInfo) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.SetPersonalInfo{Info: info})
}

// StartReEnroll seeds a fresh session from the previous enrollment.
func (s *WizardService) StartReEnroll(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.StartReEnroll{})
}

// Submit performs the final submission.
func (s *WizardService) Submit(ctx context.Context, userID string, documents models.DocumentStatus) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.Submit{Documents: documents})
}

// GoBack steps backwards through the flow.
func (s *WizardService) GoBack(ctx context.Context, userID string) (*TransitionResult, error) {
	return s.dispatch(ctx, userID, wizard.GoBack{})
}

// Reset discards the wizard session.
func (s *WizardService) Reset(ctx context.Context, userID string) (*TransitionResult, error) {
	result, err := s.dispatch(ctx, userID, wizard.Reset{})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.Warn("failed to drop wizard session", zap.String("user_id", userID), zap.Error(err))
	}
	return result, nil
}

func (s *WizardService) dispatch(ctx context.Context, userID string, ev wizard.Event) (*TransitionResult, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	wctx, err := s.buildContext(ctx, userID, ev)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{}
	next, effects, err := wizard.Transition(state, ev, wctx)
	if err != nil {
		return nil, mapTransitionError(err)
	}

	// Effects may feed result events back into the machine, which in turn may
	// produce further effects; drain them in order.
	queue := effects
	for len(queue) > 0 {
		effect := queue[0]
		queue = queue[1:]

		switch e := effect.(type) {
		case wizard.ApplyTransitionDelay:
			result.TransitionDelayMs = s.cfg.TransitionDelay.Milliseconds()

		case wizard.CheckAvailability:
			verdict, checkErr := s.enrollments.CheckAvailability(ctx, userID, e.Semester)
			if checkErr != nil {
				return nil, checkErr
			}
			result.Availability = &verdict
			var more []wizard.Effect
			next, more, err = wizard.Transition(next, wizard.AvailabilityChecked{Valid: verdict.Valid, Message: verdict.Message}, wctx)
			if err != nil {
				return nil, mapTransitionError(err)
			}
			queue = append(queue, more...)

		case wizard.LoadCourses:
			courses, loadErr := s.catalog.Courses(ctx)
			if loadErr != nil {
				return nil, loadErr
			}
			wctx.Courses = courses
			wctx.CoursesLoaded = true
			var more []wizard.Effect
			next, more, err = wizard.Transition(next, ev, wctx)
			if err != nil {
				return nil, mapTransitionError(err)
			}
			queue = append(queue, more...)

		case wizard.SubmitEnrollment:
			var more []wizard.Effect
			next, more, err = s.executeSubmit(ctx, userID, next, wctx, e, result)
			if err != nil {
				return nil, err
			}
			queue = append(queue, more...)

		case wizard.PublishSubmitted:
			result.Submitted = true
			event := events.SubmittedEvent{UserID: userID, Status: string(models.EnrollmentStatusEnrolled), Timestamp: time.Now().UTC()}
			if pubErr := s.publisher.PublishSubmitted(ctx, event); pubErr != nil {
				s.logger.Warn("failed to publish submission event", zap.String("user_id", userID), zap.Error(pubErr))
			}
		}
	}

	if err := s.sessions.Save(ctx, userID, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard session")
	}
	result.State = next
	return result, nil
}

// executeSubmit runs the submission effect under a single-flight lock. On
// failure the session is rolled out of its submitting state and saved before
// the error is returned, so the student can retry.
func (s *WizardService) executeSubmit(ctx context.Context, userID string, state wizard.State, wctx wizard.Context, effect wizard.SubmitEnrollment, result *TransitionResult) (wizard.State, []wizard.Effect, error) {
	acquired, err := s.sessions.AcquireSubmitLock(ctx, userID, submitLockTTL)
	if err != nil {
		return state, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire submit lock")
	}
	if !acquired {
		return state, nil, appErrors.Clone(appErrors.ErrSubmitInFlight, "")
	}
	defer func() {
		if releaseErr := s.sessions.ReleaseSubmitLock(ctx, userID); releaseErr != nil {
			s.logger.Warn("failed to release submit lock", zap.String("user_id", userID), zap.Error(releaseErr))
		}
	}()

	record, submitErr := s.enrollments.Submit(ctx, SubmissionInput{
		UserID:      userID,
		State:       state,
		StudentType: effect.StudentType,
		Documents:   effect.Documents,
	})
	if submitErr != nil {
		rolledBack, _, rollbackErr := wizard.Transition(state, wizard.SubmitResolved{OK: false}, wctx)
		if rollbackErr == nil {
			if saveErr := s.sessions.Save(ctx, userID, rolledBack); saveErr != nil {
				s.logger.Warn("failed to save wizard session after submit failure", zap.String("user_id", userID), zap.Error(saveErr))
			}
		}
		return state, nil, submitErr
	}

	result.Record = record
	next, more, err := wizard.Transition(state, wizard.SubmitResolved{OK: true}, wctx)
	if err != nil {
		return state, nil, mapTransitionError(err)
	}
	return next, more, nil
}

func (s *WizardService) loadState(ctx context.Context, userID string) (wizard.State, error) {
	state, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return wizard.State{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load wizard session")
	}
	if !found {
		return wizard.New(), nil
	}
	return state, nil
}

// buildContext assembles only the collaborator data the event can need;
// history and catalogs are skipped for events that never consult them.
func (s *WizardService) buildContext(ctx context.Context, userID string, ev wizard.Event) (wizard.Context, error) {
	wctx := wizard.Context{OpenLevels: s.openLevels}

	switch ev.(type) {
	case wizard.SelectGrade, wizard.SelectCourse, wizard.SelectSemester, wizard.StartReEnroll, wizard.Submit:
		previous, err := s.enrollments.PreviousEnrollment(ctx, userID)
		if err != nil {
			return wizard.Context{}, err
		}
		wctx.Previous = previous
	}

	switch ev.(type) {
	case wizard.SelectGrade, wizard.StartReEnroll:
		grades, err := s.catalog.GradeLevels(ctx, "")
		if err != nil {
			return wizard.Context{}, err
		}
		wctx.GradeLevels = grades
	}

	return wctx, nil
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, wizard.ErrSubmitInFlight):
		return appErrors.Clone(appErrors.ErrSubmitInFlight, "")
	case errors.Is(err, wizard.ErrLevelClosed):
		return appErrors.Clone(appErrors.ErrPeriodClosed, "")
	case errors.Is(err, wizard.ErrPromptPending):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "answer the pending confirmation first")
	case errors.Is(err, wizard.ErrNoPreviousEnrollment):
		return appErrors.Clone(appErrors.ErrNotFound, "no previous enrollment on record")
	case errors.Is(err, wizard.ErrInvalidEvent):
		return appErrors.Wrap(err, appErrors.ErrInvalidTransition.Code, appErrors.ErrInvalidTransition.Status, appErrors.ErrInvalidTransition.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "wizard transition failed")
	}
}
