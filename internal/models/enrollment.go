package models

import "time"

// Level identifies the schooling level a student enrolls into.
type Level string

// Supported schooling levels.
const (
	LevelHighSchool Level = "high-school"
	LevelCollege    Level = "college"
)

// Department splits high school into junior and senior departments.
type Department string

// High school departments.
const (
	DepartmentJHS Department = "JHS"
	DepartmentSHS Department = "SHS"
)

// Semester identifies one half of an academic year.
type Semester string

// Possible semesters.
const (
	SemesterFirst  Semester = "first-sem"
	SemesterSecond Semester = "second-sem"
)

// Opposite returns the other semester of the academic year.
func (s Semester) Opposite() Semester {
	if s == SemesterFirst {
		return SemesterSecond
	}
	return SemesterFirst
}

// StudentType classifies a student's progression standing.
type StudentType string

// Possible student types.
const (
	StudentTypeRegular   StudentType = "regular"
	StudentTypeIrregular StudentType = "irregular"
)

// EnrollmentStatus represents the lifecycle of a submitted enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// EnrollmentInfo captures the academic placement of an enrollment.
type EnrollmentInfo struct {
	Level       Level       `db:"level" json:"level"`
	GradeID     string      `db:"grade_id" json:"grade_id,omitempty"`
	GradeLevel  int         `db:"grade_level" json:"grade_level,omitempty"`
	Department  Department  `db:"department" json:"department,omitempty"`
	Strand      string      `db:"strand" json:"strand,omitempty"`
	CourseID    string      `db:"course_id" json:"course_id,omitempty"`
	CourseCode  string      `db:"course_code" json:"course_code,omitempty"`
	CourseName  string      `db:"course_name" json:"course_name,omitempty"`
	YearLevel   int         `db:"year_level" json:"year_level,omitempty"`
	Semester    Semester    `db:"semester" json:"semester,omitempty"`
	StudentType StudentType `db:"student_type" json:"student_type"`
}

// EnrollmentRecord is a persisted enrollment with its personal-info snapshot.
type EnrollmentRecord struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
	EnrollmentInfo
	Status       EnrollmentStatus `db:"status" json:"status"`
	SchoolYear   string           `db:"school_year" json:"school_year"`
	PersonalInfo PersonalInfo     `db:"-" json:"personal_info"`
	SubmittedAt  time.Time        `db:"submitted_at" json:"submitted_at"`
}

// DocumentStatus tracks which required documents a student has provided.
type DocumentStatus struct {
	BirthCertificate bool `json:"birth_certificate"`
	ReportCard       bool `json:"report_card"`
	GoodMoral        bool `json:"good_moral"`
}

// Complete reports whether every required document is present.
func (d DocumentStatus) Complete() bool {
	return d.BirthCertificate && d.ReportCard && d.GoodMoral
}
