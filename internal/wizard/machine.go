package wizard

import (
	"fmt"

	"github.com/noah-isme/sis-enrollment-api/internal/classify"
	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// Transition applies one event to the wizard state and returns the next
// state plus the effects the caller must execute. It never mutates its
// arguments and performs no I/O.
func Transition(s State, ev Event, ctx Context) (State, []Effect, error) {
	if s.Submitting {
		switch ev.(type) {
		case SubmitResolved, Reset:
		default:
			return s, nil, ErrSubmitInFlight
		}
	}

	switch ev := ev.(type) {
	case AcknowledgeCompliance:
		if s.Step != StepCompliance {
			return s, nil, invalid(s, "acknowledge-compliance")
		}
		s.Step = StepLevelSelection
		return s, nil, nil

	case SelectLevel:
		return selectLevel(s, ev, ctx)

	case SelectGrade:
		return selectGrade(s, ev, ctx)

	case ConfirmIrregular:
		if s.Prompt != PromptIrregular || s.PendingGrade == nil {
			return s, nil, invalid(s, "confirm-irregular")
		}
		s.Grade = s.PendingGrade
		s.StudentType = models.StudentTypeIrregular
		s.PendingGrade = nil
		s.Prompt = PromptNone
		s.Step = afterGradeStep(*s.Grade)
		return s, nil, nil

	case CancelIrregular:
		if s.Prompt != PromptIrregular {
			return s, nil, invalid(s, "cancel-irregular")
		}
		s.PendingGrade = nil
		s.Prompt = PromptNone
		return s, nil, nil

	case SelectCourse:
		return selectCourse(s, ev, ctx)

	case ConfirmCourseChange:
		if s.Prompt != PromptCourseChange || s.PendingCourse == nil {
			return s, nil, invalid(s, "confirm-course-change")
		}
		s.Course = s.PendingCourse
		s.StudentType = models.StudentTypeIrregular
		s.PendingCourse = nil
		s.Prompt = PromptNone
		s.PromptPreviousCourse = ""
		s.Step = StepYearSelection
		return s, nil, nil

	case CancelCourseChange:
		if s.Prompt != PromptCourseChange {
			return s, nil, invalid(s, "cancel-course-change")
		}
		s.PendingCourse = nil
		s.Prompt = PromptNone
		s.PromptPreviousCourse = ""
		return s, nil, nil

	case SelectYear:
		if s.Step != StepYearSelection || s.Level != models.LevelCollege || s.Prompt != PromptNone {
			return s, nil, invalid(s, "select-year")
		}
		if ev.Year < 1 {
			return s, nil, invalid(s, "select-year")
		}
		s.Year = ev.Year
		s.Step = StepSemesterSelection
		return s, nil, nil

	case SelectSemester:
		return selectSemester(s, ev, ctx)

	case AvailabilityChecked:
		if !s.PendingAvailability {
			return s, nil, invalid(s, "availability-checked")
		}
		s.PendingAvailability = false
		if ev.Valid {
			s.Step = StepPersonalInfo
			return s, nil, nil
		}
		// Conflict: roll back the semester pick and hold the step.
		s.Semester = ""
		return s, nil, nil

	case SetPersonalInfo:
		if s.Step != StepPersonalInfo || s.Prompt != PromptNone {
			return s, nil, invalid(s, "set-personal-info")
		}
		info := ev.Info
		s.PersonalInfo = &info
		s.Step = StepConfirmation
		return s, nil, nil

	case StartReEnroll:
		return startReEnroll(s, ctx)

	case Submit:
		if s.Step != StepConfirmation || s.Prompt != PromptNone {
			return s, nil, invalid(s, "submit")
		}
		s.Submitting = true
		final := FinalStudentType(s, ctx.Previous)
		return s, []Effect{SubmitEnrollment{StudentType: final, Documents: ev.Documents}}, nil

	case SubmitResolved:
		if !s.Submitting {
			return s, nil, invalid(s, "submit-resolved")
		}
		if ev.OK {
			return New(), []Effect{PublishSubmitted{}}, nil
		}
		s.Submitting = false
		return s, nil, nil

	case GoBack:
		if s.Prompt != PromptNone {
			return s, nil, ErrPromptPending
		}
		s.Step = previousStep(s)
		s.PendingAvailability = false
		// Drop the selections the student is stepping back to redo so stale
		// values do not resurface on the earlier screen.
		switch s.Step {
		case StepSemesterSelection:
			s.Semester = ""
		case StepYearSelection:
			s.Year = 0
			s.Semester = ""
		case StepCourseSelection:
			s.Course = nil
			s.Year = 0
			s.Semester = ""
		case StepGradeSelection:
			s.Grade = nil
			s.Semester = ""
		}
		return s, nil, nil

	case Reset:
		return New(), nil, nil
	}

	return s, nil, fmt.Errorf("%w: unknown event %T", ErrInvalidEvent, ev)
}

func selectLevel(s State, ev SelectLevel, ctx Context) (State, []Effect, error) {
	if s.Step == StepCompliance {
		return s, nil, invalid(s, "select-level")
	}
	if s.Prompt != PromptNone {
		return s, nil, ErrPromptPending
	}
	if ev.Level != models.LevelHighSchool && ev.Level != models.LevelCollege {
		return s, nil, invalid(s, "select-level")
	}
	if !ctx.levelOpen(ev.Level) {
		return s, nil, ErrLevelClosed
	}

	// Picking a level discards every downstream selection.
	s.Level = ev.Level
	s.Grade = nil
	s.Course = nil
	s.Year = 0
	s.Semester = ""
	s.StudentType = ""
	s.PendingGrade = nil
	s.PendingCourse = nil
	s.PromptPreviousCourse = ""
	s.PendingAvailability = false

	if ev.Level == models.LevelHighSchool {
		s.Step = StepGradeSelection
	} else {
		s.Step = StepCourseSelection
	}
	return s, nil, nil
}

func selectGrade(s State, ev SelectGrade, ctx Context) (State, []Effect, error) {
	if s.Step != StepGradeSelection || s.Level != models.LevelHighSchool {
		return s, nil, invalid(s, "select-grade")
	}
	if s.Prompt != PromptNone {
		return s, nil, ErrPromptPending
	}

	// Re-enrolling SHS students who switch strands restart at Grade 11 as
	// irregular and go straight to semester selection.
	if s.ReEnrollment && strandChanged(ev.Grade, ctx.Previous) {
		grade := ctx.findGrade(11, ev.Grade.Strand)
		if grade == nil {
			g := ev.Grade
			g.GradeLevel = 11
			grade = &g
		}
		s.Grade = grade
		s.StudentType = models.StudentTypeIrregular
		s.Step = StepSemesterSelection
		return s, []Effect{ApplyTransitionDelay{}}, nil
	}

	if !classify.IsRegularGradeLevel(ev.Grade.GradeLevel) {
		grade := ev.Grade
		s.PendingGrade = &grade
		s.Prompt = PromptIrregular
		return s, nil, nil
	}

	grade := ev.Grade
	s.Grade = &grade
	s.StudentType = classify.DetermineStudentType(classifyInput(s, ctx))
	s.Step = afterGradeStep(grade)
	return s, nil, nil
}

func selectCourse(s State, ev SelectCourse, ctx Context) (State, []Effect, error) {
	if s.Step != StepCourseSelection || s.Level != models.LevelCollege {
		return s, nil, invalid(s, "select-course")
	}
	if s.Prompt != PromptNone {
		return s, nil, ErrPromptPending
	}

	course := ev.Course
	check := classify.CheckCourseChangeRequired(models.LevelCollege, &course, ctx.Previous, ctx.Existing)
	if check.RequiresConfirmation {
		// Stage the switch; nothing commits until the student confirms.
		s.PendingCourse = &course
		s.Prompt = PromptCourseChange
		s.PromptPreviousCourse = check.PreviousCourseCode
		return s, nil, nil
	}

	s.Course = &course
	s.Step = StepYearSelection
	return s, nil, nil
}

func selectSemester(s State, ev SelectSemester, ctx Context) (State, []Effect, error) {
	if s.Step != StepSemesterSelection || s.Prompt != PromptNone {
		return s, nil, invalid(s, "select-semester")
	}
	if ev.Semester != models.SemesterFirst && ev.Semester != models.SemesterSecond {
		return s, nil, invalid(s, "select-semester")
	}

	s.Semester = ev.Semester
	s.StudentType = rederiveStudentType(s, ctx)
	s.PendingAvailability = true
	return s, []Effect{CheckAvailability{Semester: ev.Semester}}, nil
}

func startReEnroll(s State, ctx Context) (State, []Effect, error) {
	prev := ctx.Previous
	if prev == nil {
		return s, nil, ErrNoPreviousEnrollment
	}

	next := New()
	next.ReEnrollment = true
	// Re-enrolling into the natural next period is regular by definition;
	// later steps may still override this to irregular.
	next.StudentType = models.StudentTypeRegular

	switch prev.Level {
	case models.LevelCollege:
		if len(ctx.Courses) == 0 && !ctx.CoursesLoaded {
			// Need the catalog to resolve the previous course by code.
			return s, []Effect{LoadCourses{}}, nil
		}
		next.Level = models.LevelCollege
		course := ctx.findCourse(prev.CourseCode)
		if course == nil {
			next.Step = StepCourseSelection
			return next, nil, nil
		}
		next.Course = course
		next.Year = prev.YearLevel
		if prev.Semester == models.SemesterSecond {
			next.Year++
		}
		next.Semester = prev.Semester.Opposite()
		next.Step = StepSemesterSelection
		return next, nil, nil

	case models.LevelHighSchool:
		next.Level = models.LevelHighSchool
		if prev.Department == models.DepartmentJHS {
			target := prev.GradeLevel + 1
			if target > 12 {
				target = 12
			}
			if target >= 11 {
				// Entering senior high: the strand still has to be chosen.
				next.Step = StepGradeSelection
				return next, nil, nil
			}
			grade := ctx.findGrade(target, "")
			if grade == nil {
				grade = &models.GradeLevel{GradeLevel: target, Department: models.DepartmentJHS}
			}
			next.Grade = grade
			next.Step = StepPersonalInfo
			return next, nil, nil
		}
		// SHS: leave the grade open so strand-change detection can run.
		next.Step = StepGradeSelection
		return next, nil, nil
	}

	return s, nil, fmt.Errorf("%w: previous enrollment has unknown level %q", ErrInvalidEvent, prev.Level)
}

// FinalStudentType is the submission-time reconciliation: it re-derives the
// student type from scratch rather than trusting staged state. A confirmed
// irregular standing always wins; a college course switch relative to the
// previous enrollment forces irregular; everything else is regular.
//
// The current-term enrollment record is knowingly not cross-checked here.
func FinalStudentType(s State, previous *models.EnrollmentRecord) models.StudentType {
	if s.StudentType == models.StudentTypeIrregular {
		return models.StudentTypeIrregular
	}
	if s.Level == models.LevelCollege && previous != nil && previous.Level == models.LevelCollege &&
		s.Course != nil && previous.CourseCode != "" && previous.CourseCode != s.Course.Code {
		return models.StudentTypeIrregular
	}
	return models.StudentTypeRegular
}

// rederiveStudentType mirrors the classifier's continuity rules at semester
// selection without ever downgrading a confirmed irregular standing. Unlike
// the full classifier it compares only strand (SHS) and course (college)
// continuity, so natural grade and year advancement stays regular.
func rederiveStudentType(s State, ctx Context) models.StudentType {
	if s.StudentType == models.StudentTypeIrregular {
		return models.StudentTypeIrregular
	}
	prev := ctx.Previous
	if prev == nil {
		if s.StudentType != "" {
			return s.StudentType
		}
		return classify.DetermineStudentType(classifyInput(s, ctx))
	}

	switch s.Level {
	case models.LevelHighSchool:
		if s.Grade != nil && s.Grade.Department == models.DepartmentSHS &&
			prev.Level == models.LevelHighSchool && prev.Strand != "" && s.Grade.Strand != prev.Strand {
			return models.StudentTypeIrregular
		}
	case models.LevelCollege:
		if s.Course != nil && prev.Level == models.LevelCollege &&
			prev.CourseCode != "" && s.Course.Code != prev.CourseCode {
			return models.StudentTypeIrregular
		}
	}

	if prev.StudentType == models.StudentTypeIrregular {
		// Prior irregular standing resets only at a fresh starting point.
		return classify.DetermineStudentType(classifyInput(s, ctx))
	}
	if s.StudentType != "" {
		return s.StudentType
	}
	return models.StudentTypeRegular
}

func classifyInput(s State, ctx Context) classify.Input {
	return classify.Input{
		Level:         s.Level,
		Grade:         s.Grade,
		Course:        s.Course,
		Year:          s.Year,
		Semester:      s.Semester,
		Previous:      ctx.Previous,
		Existing:      ctx.Existing,
		PendingCourse: s.PendingCourse,
		Current:       s.StudentType,
	}
}

func strandChanged(selected models.GradeLevel, prev *models.EnrollmentRecord) bool {
	if prev == nil || prev.Level != models.LevelHighSchool || prev.Strand == "" {
		return false
	}
	return selected.Department == models.DepartmentSHS && selected.Strand != prev.Strand
}

func afterGradeStep(grade models.GradeLevel) Step {
	// JHS has no semester dimension.
	if grade.Department == models.DepartmentSHS {
		return StepSemesterSelection
	}
	return StepPersonalInfo
}

func previousStep(s State) Step {
	switch s.Step {
	case StepConfirmation:
		return StepPersonalInfo
	case StepPersonalInfo:
		if s.Level == models.LevelCollege {
			return StepSemesterSelection
		}
		if s.Grade != nil && s.Grade.Department == models.DepartmentSHS {
			return StepSemesterSelection
		}
		return StepGradeSelection
	case StepSemesterSelection:
		if s.Level == models.LevelCollege {
			return StepYearSelection
		}
		return StepGradeSelection
	case StepYearSelection:
		return StepCourseSelection
	case StepGradeSelection, StepCourseSelection:
		return StepLevelSelection
	default:
		return s.Step
	}
}

func invalid(s State, action string) error {
	return fmt.Errorf("%w: %s at step %s", ErrInvalidEvent, action, s.Step)
}
