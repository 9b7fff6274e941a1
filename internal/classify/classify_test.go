package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

func prevRecord(info models.EnrollmentInfo) *models.EnrollmentRecord {
	return &models.EnrollmentRecord{ID: "prev", UserID: "user-1", EnrollmentInfo: info}
}

func TestIsRegularGradeLevel(t *testing.T) {
	for g := 0; g <= 13; g++ {
		expected := g == 1 || g == 7 || g == 11
		assert.Equal(t, expected, IsRegularGradeLevel(g), "grade %d", g)
	}
}

func TestIsRegularYearSemester(t *testing.T) {
	assert.True(t, IsRegularYearSemester(1, models.SemesterFirst))
	assert.False(t, IsRegularYearSemester(1, models.SemesterSecond))
	assert.False(t, IsRegularYearSemester(2, models.SemesterFirst))
	assert.False(t, IsRegularYearSemester(0, models.SemesterFirst))
}

func TestDetermineStudentTypeIrregularOverride(t *testing.T) {
	// A confirmed irregular standing wins regardless of everything else.
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     1,
		Semester: models.SemesterFirst,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", StudentType: models.StudentTypeRegular}),
		Current:  models.StudentTypeIrregular,
	})
	assert.Equal(t, models.StudentTypeIrregular, result)
}

func TestDetermineStudentTypeIrregularResetOnSHSEntry(t *testing.T) {
	result := DetermineStudentType(Input{
		Level:    models.LevelHighSchool,
		Grade:    &models.GradeLevel{GradeLevel: 11, Department: models.DepartmentSHS, Strand: "STEM"},
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 9, Department: models.DepartmentJHS, StudentType: models.StudentTypeIrregular}),
	})
	assert.Equal(t, models.StudentTypeRegular, result)
}

func TestDetermineStudentTypeIrregularResetOnCollegeEntry(t *testing.T) {
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     1,
		Semester: models.SemesterFirst,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 12, Department: models.DepartmentSHS, StudentType: models.StudentTypeIrregular}),
	})
	assert.Equal(t, models.StudentTypeRegular, result)
}

func TestDetermineStudentTypeIrregularCarriesOver(t *testing.T) {
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     2,
		Semester: models.SemesterFirst,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 2, StudentType: models.StudentTypeIrregular}),
	})
	assert.Equal(t, models.StudentTypeIrregular, result)
}

func TestDetermineStudentTypeCollegeContinuity(t *testing.T) {
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     2,
		Semester: models.SemesterSecond,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 2, Semester: models.SemesterFirst, StudentType: models.StudentTypeRegular}),
	})
	assert.Equal(t, models.StudentTypeRegular, result)
}

func TestDetermineStudentTypeCourseChangeMidProgram(t *testing.T) {
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSCS"},
		Year:     2,
		Semester: models.SemesterFirst,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, StudentType: models.StudentTypeRegular}),
	})
	assert.Equal(t, models.StudentTypeIrregular, result)
}

func TestDetermineStudentTypeCourseChangeAtStartingPoint(t *testing.T) {
	// Even at year 1 first semester, switching programs is irregular.
	result := DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSCS"},
		Year:     1,
		Semester: models.SemesterFirst,
		Previous: prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", YearLevel: 1, Semester: models.SemesterSecond, StudentType: models.StudentTypeRegular}),
	})
	assert.Equal(t, models.StudentTypeIrregular, result)
}

func TestDetermineStudentTypeStrandContinuity(t *testing.T) {
	prev := prevRecord(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 11, Department: models.DepartmentSHS, Strand: "STEM", StudentType: models.StudentTypeRegular})

	same := DetermineStudentType(Input{
		Level:    models.LevelHighSchool,
		Grade:    &models.GradeLevel{GradeLevel: 11, Department: models.DepartmentSHS, Strand: "STEM"},
		Previous: prev,
	})
	assert.Equal(t, models.StudentTypeRegular, same)

	shifted := DetermineStudentType(Input{
		Level:    models.LevelHighSchool,
		Grade:    &models.GradeLevel{GradeLevel: 12, Department: models.DepartmentSHS, Strand: "ABM"},
		Previous: prev,
	})
	assert.Equal(t, models.StudentTypeIrregular, shifted)
}

func TestDetermineStudentTypeNoHistory(t *testing.T) {
	assert.Equal(t, models.StudentTypeRegular, DetermineStudentType(Input{
		Level: models.LevelHighSchool,
		Grade: &models.GradeLevel{GradeLevel: 7, Department: models.DepartmentJHS},
	}))
	assert.Equal(t, models.StudentTypeIrregular, DetermineStudentType(Input{
		Level: models.LevelHighSchool,
		Grade: &models.GradeLevel{GradeLevel: 9, Department: models.DepartmentJHS},
	}))
	assert.Equal(t, models.StudentTypeRegular, DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     1,
		Semester: models.SemesterFirst,
	}))
	assert.Equal(t, models.StudentTypeIrregular, DetermineStudentType(Input{
		Level:    models.LevelCollege,
		Course:   &models.Course{Code: "BSIT"},
		Year:     3,
		Semester: models.SemesterFirst,
	}))
}

func TestDetermineStudentTypeTolerantOfEmptyInput(t *testing.T) {
	assert.NotPanics(t, func() {
		result := DetermineStudentType(Input{})
		assert.Equal(t, models.StudentTypeRegular, result)
	})
}

func TestCheckCourseChangeRequired(t *testing.T) {
	prev := prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", StudentType: models.StudentTypeRegular})

	check := CheckCourseChangeRequired(models.LevelCollege, &models.Course{Code: "BSCS"}, prev, nil)
	assert.True(t, check.RequiresConfirmation)
	assert.Equal(t, "BSIT", check.PreviousCourseCode)
}

func TestCheckCourseChangeNotRequired(t *testing.T) {
	prev := prevRecord(models.EnrollmentInfo{Level: models.LevelCollege, CourseCode: "BSIT", StudentType: models.StudentTypeRegular})

	assert.False(t, CheckCourseChangeRequired(models.LevelCollege, &models.Course{Code: "BSIT"}, prev, nil).RequiresConfirmation)
	assert.False(t, CheckCourseChangeRequired(models.LevelCollege, nil, prev, nil).RequiresConfirmation)
	assert.False(t, CheckCourseChangeRequired(models.LevelCollege, &models.Course{Code: "BSCS"}, nil, nil).RequiresConfirmation)
	assert.False(t, CheckCourseChangeRequired(models.LevelHighSchool, &models.Course{Code: "BSCS"}, prev, nil).RequiresConfirmation)

	hsPrev := prevRecord(models.EnrollmentInfo{Level: models.LevelHighSchool, GradeLevel: 12, StudentType: models.StudentTypeRegular})
	assert.False(t, CheckCourseChangeRequired(models.LevelCollege, &models.Course{Code: "BSCS"}, hsPrev, nil).RequiresConfirmation)
}
