package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

var (
	grade7  = models.GradeLevel{ID: "g7", GradeLevel: 7, Department: models.DepartmentJHS}
	grade9  = models.GradeLevel{ID: "g9", GradeLevel: 9, Department: models.DepartmentJHS}
	grade11 = models.GradeLevel{ID: "g11-stem", GradeLevel: 11, Department: models.DepartmentSHS, Strand: "STEM"}
	grade12 = models.GradeLevel{ID: "g12-abm", GradeLevel: 12, Department: models.DepartmentSHS, Strand: "ABM"}

	bsit = models.Course{ID: "c1", Code: "BSIT", Name: "BS Information Technology"}
	bscs = models.Course{ID: "c2", Code: "BSCS", Name: "BS Computer Science"}
)

func previous(info models.EnrollmentInfo) *models.EnrollmentRecord {
	return &models.EnrollmentRecord{ID: "prev", UserID: "user-1", EnrollmentInfo: info}
}

func advance(t *testing.T, s State, ev Event, ctx Context) State {
	t.Helper()
	next, _, err := Transition(s, ev, ctx)
	require.NoError(t, err)
	return next
}

func atCourseSelection(t *testing.T, ctx Context) State {
	t.Helper()
	s := advance(t, New(), AcknowledgeCompliance{}, ctx)
	return advance(t, s, SelectLevel{Level: models.LevelCollege}, ctx)
}

func atGradeSelection(t *testing.T, ctx Context) State {
	t.Helper()
	s := advance(t, New(), AcknowledgeCompliance{}, ctx)
	return advance(t, s, SelectLevel{Level: models.LevelHighSchool}, ctx)
}

func TestComplianceMustBeAcknowledgedFirst(t *testing.T) {
	_, _, err := Transition(New(), SelectLevel{Level: models.LevelCollege}, Context{})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	s := advance(t, New(), AcknowledgeCompliance{}, Context{})
	assert.Equal(t, StepLevelSelection, s.Step)
}

func TestSelectLevelClosedPeriod(t *testing.T) {
	ctx := Context{OpenLevels: []models.Level{models.LevelHighSchool}}
	s := advance(t, New(), AcknowledgeCompliance{}, ctx)

	_, _, err := Transition(s, SelectLevel{Level: models.LevelCollege}, ctx)
	assert.ErrorIs(t, err, ErrLevelClosed)
}

func TestSelectLevelResetsDownstreamSelections(t *testing.T) {
	ctx := Context{}
	s := atCourseSelection(t, ctx)
	s = advance(t, s, SelectCourse{Course: bsit}, ctx)
	s = advance(t, s, SelectYear{Year: 2}, ctx)
	require.Equal(t, StepSemesterSelection, s.Step)

	s = advance(t, s, SelectLevel{Level: models.LevelHighSchool}, ctx)
	assert.Equal(t, StepGradeSelection, s.Step)
	assert.Nil(t, s.Course)
	assert.Zero(t, s.Year)
	assert.Empty(t, s.Semester)
	assert.Empty(t, s.StudentType)
}

func TestSelectGradeStartingPoints(t *testing.T) {
	ctx := Context{}

	s := advance(t, atGradeSelection(t, ctx), SelectGrade{Grade: grade7}, ctx)
	assert.Equal(t, StepPersonalInfo, s.Step, "JHS skips semester selection")
	assert.Equal(t, models.StudentTypeRegular, s.StudentType)

	s = advance(t, atGradeSelection(t, ctx), SelectGrade{Grade: grade11}, ctx)
	assert.Equal(t, StepSemesterSelection, s.Step)
	assert.Equal(t, models.StudentTypeRegular, s.StudentType)
}

func TestSelectGradeIrregularPrompt(t *testing.T) {
	ctx := Context{}
	s := advance(t, atGradeSelection(t, ctx), SelectGrade{Grade: grade9}, ctx)
	assert.Equal(t, PromptIrregular, s.Prompt)
	assert.Equal(t, StepGradeSelection, s.Step, "selection must not advance while the prompt is open")
	assert.Nil(t, s.Grade)

	confirmed := advance(t, s, ConfirmIrregular{}, ctx)
	assert.Equal(t, models.StudentTypeIrregular, confirmed.StudentType)
	assert.Equal(t, StepPersonalInfo, confirmed.Step)
	assert.Equal(t, grade9.ID, confirmed.Grade.ID)

	cancelled := advance(t, s, CancelIrregular{}, ctx)
	assert.Equal(t, PromptNone, cancelled.Prompt)
	assert.Nil(t, cancelled.Grade)
	assert.Equal(t, StepGradeSelection, cancelled.Step)
}

func TestStrandChangeForcesGradeElevenIrregular(t *testing.T) {
	prev := previous(models.EnrollmentInfo{
		Level: models.LevelHighSchool, GradeLevel: 11, Department: models.DepartmentSHS,
		Strand: "STEM", StudentType: models.StudentTypeRegular, Semester: models.SemesterSecond,
	})
	ctx := Context{Previous: prev, GradeLevels: []models.GradeLevel{grade11, {ID: "g11-abm", GradeLevel: 11, Department: models.DepartmentSHS, Strand: "ABM"}}}

	s := advance(t, New(), StartReEnroll{}, ctx)
	require.Equal(t, StepGradeSelection, s.Step)
	require.True(t, s.ReEnrollment)

	next, effects, err := Transition(s, SelectGrade{Grade: grade12}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, next.Grade.GradeLevel, "strand change restarts at grade 11")
	assert.Equal(t, "ABM", next.Grade.Strand)
	assert.Equal(t, models.StudentTypeIrregular, next.StudentType)
	assert.Equal(t, StepSemesterSelection, next.Step, "jumps past the normal irregular prompt")
	require.Len(t, effects, 1)
	assert.IsType(t, ApplyTransitionDelay{}, effects[0])
}

func TestCourseChangeStagedUntilConfirmed(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterSecond, StudentType: models.StudentTypeRegular})
	ctx := Context{Previous: prev}

	s := advance(t, atCourseSelection(t, ctx), SelectCourse{Course: bscs}, ctx)
	assert.Equal(t, PromptCourseChange, s.Prompt)
	assert.Equal(t, "BSIT", s.PromptPreviousCourse)
	assert.Nil(t, s.Course, "nothing commits before confirmation")

	confirmed := advance(t, s, ConfirmCourseChange{}, ctx)
	assert.Equal(t, "BSCS", confirmed.Course.Code)
	assert.Equal(t, models.StudentTypeIrregular, confirmed.StudentType)
	assert.Equal(t, StepYearSelection, confirmed.Step)

	cancelled := advance(t, s, CancelCourseChange{}, ctx)
	assert.Nil(t, cancelled.Course)
	assert.Nil(t, cancelled.PendingCourse)
	assert.Equal(t, StepCourseSelection, cancelled.Step)
}

func TestConfirmedIrregularSurvivesLaterSteps(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterSecond, StudentType: models.StudentTypeRegular})
	ctx := Context{Previous: prev}

	s := advance(t, atCourseSelection(t, ctx), SelectCourse{Course: bscs}, ctx)
	s = advance(t, s, ConfirmCourseChange{}, ctx)
	s = advance(t, s, SelectYear{Year: 1}, ctx)

	next, effects, err := Transition(s, SelectSemester{Semester: models.SemesterFirst}, ctx)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.StudentTypeIrregular, next.StudentType, "semester re-derivation must not downgrade a confirmed change")
	assert.Equal(t, models.StudentTypeIrregular, FinalStudentType(next, prev))
}

func TestSemesterSelectionAvailabilityFlow(t *testing.T) {
	ctx := Context{Previous: previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterFirst, StudentType: models.StudentTypeRegular})}

	s := atCourseSelection(t, ctx)
	s = advance(t, s, SelectCourse{Course: bsit}, ctx)
	s = advance(t, s, SelectYear{Year: 2}, ctx)

	next, effects, err := Transition(s, SelectSemester{Semester: models.SemesterSecond}, ctx)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, CheckAvailability{Semester: models.SemesterSecond}, effects[0])
	assert.True(t, next.PendingAvailability)
	assert.Equal(t, models.StudentTypeRegular, next.StudentType)

	blocked := advance(t, next, AvailabilityChecked{Valid: false, Message: "already enrolled"}, ctx)
	assert.Empty(t, blocked.Semester, "conflict rolls back the semester pick")
	assert.Equal(t, StepSemesterSelection, blocked.Step)

	allowed := advance(t, next, AvailabilityChecked{Valid: true}, ctx)
	assert.Equal(t, StepPersonalInfo, allowed.Step)
	assert.Equal(t, models.SemesterSecond, allowed.Semester)
}

func TestReEnrollSeedsCollegeSelection(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterFirst, StudentType: models.StudentTypeRegular})

	// Without the catalog the machine asks for it first.
	_, effects, err := Transition(New(), StartReEnroll{}, Context{Previous: prev})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.IsType(t, LoadCourses{}, effects[0])

	ctx := Context{Previous: prev, Courses: []models.Course{bsit, bscs}}
	s := advance(t, New(), StartReEnroll{}, ctx)
	assert.Equal(t, models.LevelCollege, s.Level)
	assert.Equal(t, "BSIT", s.Course.Code)
	assert.Equal(t, 1, s.Year)
	assert.Equal(t, models.SemesterSecond, s.Semester, "opposite of the previous semester")
	assert.Equal(t, models.StudentTypeRegular, s.StudentType)
	assert.Equal(t, StepSemesterSelection, s.Step)
}

func TestReEnrollAdvancesYearAfterSecondSemester(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 2, Semester: models.SemesterSecond, StudentType: models.StudentTypeRegular})
	ctx := Context{Previous: prev, Courses: []models.Course{bsit}}

	s := advance(t, New(), StartReEnroll{}, ctx)
	assert.Equal(t, 3, s.Year)
	assert.Equal(t, models.SemesterFirst, s.Semester)
}

func TestReEnrollSeedsNextJHSGrade(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 8, Department: models.DepartmentJHS, StudentType: models.StudentTypeRegular})
	ctx := Context{Previous: prev, GradeLevels: []models.GradeLevel{{ID: "g9", GradeLevel: 9, Department: models.DepartmentJHS}}}

	s := advance(t, New(), StartReEnroll{}, ctx)
	assert.Equal(t, 9, s.Grade.GradeLevel)
	assert.Equal(t, StepPersonalInfo, s.Step)
	assert.Equal(t, models.StudentTypeRegular, s.StudentType)
}

func TestReEnrollIntoSeniorHighLeavesGradeOpen(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 10, Department: models.DepartmentJHS, StudentType: models.StudentTypeRegular})

	s := advance(t, New(), StartReEnroll{}, Context{Previous: prev})
	assert.Equal(t, StepGradeSelection, s.Step, "strand must still be chosen")
	assert.Nil(t, s.Grade)
}

func TestGoBackDropsReselectedValues(t *testing.T) {
	ctx := Context{}
	s := atCourseSelection(t, ctx)
	s = advance(t, s, SelectCourse{Course: bsit}, ctx)
	s = advance(t, s, SelectYear{Year: 2}, ctx)
	s = advance(t, s, SelectSemester{Semester: models.SemesterFirst}, ctx)
	s = advance(t, s, AvailabilityChecked{Valid: true}, ctx)
	require.Equal(t, StepPersonalInfo, s.Step)

	s = advance(t, s, GoBack{}, ctx)
	assert.Equal(t, StepSemesterSelection, s.Step)
	assert.Empty(t, s.Semester)

	s = advance(t, s, GoBack{}, ctx)
	assert.Equal(t, StepYearSelection, s.Step)
	assert.Zero(t, s.Year)

	s = advance(t, s, GoBack{}, ctx)
	assert.Equal(t, StepCourseSelection, s.Step)
	assert.Nil(t, s.Course)
	// The level survives; picking it again is what resets everything.
	assert.Equal(t, models.LevelCollege, s.Level)
}

func TestReEnrollWithEmptyCatalogFallsBackToCourseSelection(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterFirst, StudentType: models.StudentTypeRegular})

	// A loaded-but-empty catalog must not be asked for again.
	s, effects, err := Transition(New(), StartReEnroll{}, Context{Previous: prev, CoursesLoaded: true})
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, models.LevelCollege, s.Level)
	assert.Equal(t, StepCourseSelection, s.Step)
	assert.Nil(t, s.Course)
}

func TestReEnrollWithoutHistory(t *testing.T) {
	_, _, err := Transition(New(), StartReEnroll{}, Context{})
	assert.ErrorIs(t, err, ErrNoPreviousEnrollment)
}

func TestSubmitReconcilesAndGuardsReentry(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterFirst, StudentType: models.StudentTypeRegular})
	ctx := Context{Previous: prev}

	s := atCourseSelection(t, ctx)
	s = advance(t, s, SelectCourse{Course: bsit}, ctx)
	s = advance(t, s, SelectYear{Year: 2}, ctx)
	s = advance(t, s, SelectSemester{Semester: models.SemesterSecond}, ctx)
	s = advance(t, s, AvailabilityChecked{Valid: true}, ctx)
	s = advance(t, s, SetPersonalInfo{Info: models.PersonalInfo{FirstName: "Juan", LastName: "dela Cruz"}}, ctx)
	require.Equal(t, StepConfirmation, s.Step)

	docs := models.DocumentStatus{BirthCertificate: true, ReportCard: true, GoodMoral: true}
	next, effects, err := Transition(s, Submit{Documents: docs}, ctx)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	submit, ok := effects[0].(SubmitEnrollment)
	require.True(t, ok)
	assert.Equal(t, models.StudentTypeRegular, submit.StudentType)
	assert.True(t, next.Submitting)

	_, _, err = Transition(next, Submit{Documents: docs}, ctx)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	done, effects, err := Transition(next, SubmitResolved{OK: true}, ctx)
	require.NoError(t, err)
	assert.Equal(t, New(), done, "success resets the session")
	require.Len(t, effects, 1)
	assert.IsType(t, PublishSubmitted{}, effects[0])

	failed, effects, err := Transition(next, SubmitResolved{OK: false}, ctx)
	require.NoError(t, err)
	assert.False(t, failed.Submitting)
	assert.Equal(t, StepConfirmation, failed.Step, "failure keeps the wizard state intact")
	assert.Empty(t, effects)
}

func TestFinalStudentTypeReconciliation(t *testing.T) {
	prev := previous(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", StudentType: models.StudentTypeRegular})

	changed := State{Level: models.LevelCollege, Course: &bscs, StudentType: models.StudentTypeRegular}
	assert.Equal(t, models.StudentTypeIrregular, FinalStudentType(changed, prev))

	confirmed := State{Level: models.LevelCollege, Course: &bsit, StudentType: models.StudentTypeIrregular}
	assert.Equal(t, models.StudentTypeIrregular, FinalStudentType(confirmed, prev))

	steady := State{Level: models.LevelCollege, Course: &bsit, StudentType: models.StudentTypeRegular}
	assert.Equal(t, models.StudentTypeRegular, FinalStudentType(steady, prev))

	// Idempotent: the same inputs always reconcile to the same type.
	first := FinalStudentType(changed, prev)
	second := FinalStudentType(changed, prev)
	assert.Equal(t, first, second)
}

func TestResetDiscardsSession(t *testing.T) {
	ctx := Context{}
	s := atCourseSelection(t, ctx)
	s = advance(t, s, SelectCourse{Course: bsit}, ctx)

	reset := advance(t, s, Reset{}, ctx)
	assert.Equal(t, New(), reset)
}
