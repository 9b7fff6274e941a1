// Package classify decides whether a student's enrollment selection continues
// an expected progression (regular) or deviates from it (irregular).
package classify

import "github.com/noah-isme/sis-enrollment-api/internal/models"

// Input carries everything the classifier needs about the current selection
// and the student's enrollment history. Any pointer field may be nil.
type Input struct {
	Level         models.Level
	Grade         *models.GradeLevel
	Course        *models.Course
	Year          int
	Semester      models.Semester
	Previous      *models.EnrollmentRecord
	Existing      *models.EnrollmentRecord
	PendingCourse *models.Course
	Current       models.StudentType
}

// CourseChangeCheck is the result of evaluating a college course switch.
type CourseChangeCheck struct {
	RequiresConfirmation bool
	PreviousCourseCode   string
}

// IsRegularGradeLevel reports whether a grade level is a recognized entry
// point (Grade 1, Grade 7 and Grade 11).
func IsRegularGradeLevel(gradeLevel int) bool {
	switch gradeLevel {
	case 1, 7, 11:
		return true
	}
	return false
}

// IsRegularYearSemester reports whether a college year and semester pair is
// the canonical college entry point.
func IsRegularYearSemester(year int, semester models.Semester) bool {
	return year == 1 && semester == models.SemesterFirst
}

// DetermineStudentType classifies the current selection. Rules are evaluated
// in order and the first match wins:
//
//  1. a student type already confirmed as irregular is authoritative
//  2. a previously irregular student regains regular standing only by
//     entering the next schooling level at its starting point
//  3. a previously regular student stays regular while continuity holds
//  4. without usable history, starting points are regular
func DetermineStudentType(in Input) models.StudentType {
	if in.Current == models.StudentTypeIrregular {
		return models.StudentTypeIrregular
	}

	if in.Previous != nil && in.Previous.StudentType == models.StudentTypeIrregular {
		return fromIrregularHistory(in)
	}

	if in.Previous != nil {
		if continuityHolds(in) {
			return models.StudentTypeRegular
		}
		if !atStartingPoint(in) {
			return models.StudentTypeIrregular
		}
	}

	return startingPointType(in)
}

// fromIrregularHistory applies rule 2: irregular standing carries over unless
// the student enters the next level at its starting point.
func fromIrregularHistory(in Input) models.StudentType {
	prev := in.Previous
	switch in.Level {
	case models.LevelHighSchool:
		// JHS repeaters entering senior high reset their standing.
		if prev.GradeLevel >= 8 && prev.GradeLevel <= 10 && in.Grade != nil && in.Grade.GradeLevel == 11 {
			return models.StudentTypeRegular
		}
	case models.LevelCollege:
		// High-school completers entering first year, first semester.
		if prev.GradeLevel == 12 && IsRegularYearSemester(in.Year, in.Semester) {
			return models.StudentTypeRegular
		}
	}
	return models.StudentTypeIrregular
}

// continuityHolds applies rule 3: the selection continues the previous
// enrollment without a course or strand shift.
func continuityHolds(in Input) bool {
	prev := in.Previous
	switch in.Level {
	case models.LevelCollege:
		return in.Course != nil && prev.CourseCode != "" && in.Course.Code == prev.CourseCode
	case models.LevelHighSchool:
		return in.Grade != nil && in.Grade.GradeLevel == prev.GradeLevel && in.Grade.Strand == prev.Strand
	}
	return false
}

func atStartingPoint(in Input) bool {
	switch in.Level {
	case models.LevelHighSchool:
		return in.Grade != nil && IsRegularGradeLevel(in.Grade.GradeLevel)
	case models.LevelCollege:
		return IsRegularYearSemester(in.Year, in.Semester)
	}
	return false
}

// startingPointType applies rule 4. A course change at a nominal college
// starting point still forces irregular standing.
func startingPointType(in Input) models.StudentType {
	switch in.Level {
	case models.LevelHighSchool:
		if in.Grade == nil {
			return models.StudentTypeRegular
		}
		if IsRegularGradeLevel(in.Grade.GradeLevel) {
			return models.StudentTypeRegular
		}
		return models.StudentTypeIrregular
	case models.LevelCollege:
		if !IsRegularYearSemester(in.Year, in.Semester) {
			return models.StudentTypeIrregular
		}
		if in.Course != nil && in.Previous != nil && in.Previous.CourseCode != "" && in.Course.Code != in.Previous.CourseCode {
			return models.StudentTypeIrregular
		}
		return models.StudentTypeRegular
	}
	return models.StudentTypeRegular
}

// CheckCourseChangeRequired reports whether switching to the selected college
// course needs explicit confirmation from the student.
//
// The existing current-term enrollment is intentionally not consulted here;
// duplicate-enrollment handling is deferred to the final submission pass.
func CheckCourseChangeRequired(level models.Level, selected *models.Course, previous, existing *models.EnrollmentRecord) CourseChangeCheck {
	_ = existing

	if level != models.LevelCollege || selected == nil || previous == nil {
		return CourseChangeCheck{}
	}
	if previous.Level != models.LevelCollege || previous.CourseCode == "" {
		return CourseChangeCheck{}
	}
	if previous.CourseCode == selected.Code {
		return CourseChangeCheck{}
	}
	return CourseChangeCheck{RequiresConfirmation: true, PreviousCourseCode: previous.CourseCode}
}
