package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID           string                  `db:"id"`
	UserID       string                  `db:"user_id"`
	Level        models.Level            `db:"level"`
	GradeID      sql.NullString          `db:"grade_id"`
	GradeLevel   sql.NullInt64           `db:"grade_level"`
	Department   sql.NullString          `db:"department"`
	Strand       sql.NullString          `db:"strand"`
	CourseID     sql.NullString          `db:"course_id"`
	CourseCode   sql.NullString          `db:"course_code"`
	CourseName   sql.NullString          `db:"course_name"`
	YearLevel    sql.NullInt64           `db:"year_level"`
	Semester     sql.NullString          `db:"semester"`
	StudentType  models.StudentType      `db:"student_type"`
	Status       models.EnrollmentStatus `db:"status"`
	SchoolYear   string                  `db:"school_year"`
	PersonalInfo []byte                  `db:"personal_info"`
	SubmittedAt  time.Time               `db:"submitted_at"`
}

func (r enrollmentRow) toRecord() (*models.EnrollmentRecord, error) {
	record := &models.EnrollmentRecord{
		ID:     r.ID,
		UserID: r.UserID,
		EnrollmentInfo: models.EnrollmentInfo{
			Level:       r.Level,
			GradeID:     r.GradeID.String,
			GradeLevel:  int(r.GradeLevel.Int64),
			Department:  models.Department(r.Department.String),
			Strand:      r.Strand.String,
			CourseID:    r.CourseID.String,
			CourseCode:  r.CourseCode.String,
			CourseName:  r.CourseName.String,
			YearLevel:   int(r.YearLevel.Int64),
			Semester:    models.Semester(r.Semester.String),
			StudentType: r.StudentType,
		},
		Status:      r.Status,
		SchoolYear:  r.SchoolYear,
		SubmittedAt: r.SubmittedAt,
	}
	if len(r.PersonalInfo) > 0 {
		if err := json.Unmarshal(r.PersonalInfo, &record.PersonalInfo); err != nil {
			return nil, fmt.Errorf("decode personal info for %s: %w", r.ID, err)
		}
	}
	return record, nil
}

const enrollmentColumns = `id, user_id, level, grade_id, grade_level, department, strand,
        course_id, course_code, course_name, year_level, semester, student_type,
        status, school_year, personal_info, submitted_at`

// FindLatestByUser returns the user's most recent enrollment, or
// sql.ErrNoRows when none exists.
func (r *EnrollmentRepository) FindLatestByUser(ctx context.Context, userID string) (*models.EnrollmentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT 1`, enrollmentColumns)
	var row enrollmentRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, err
	}
	return row.toRecord()
}

// FindCurrent returns the user's enrollment for the given school year, or
// sql.ErrNoRows when none exists.
func (r *EnrollmentRepository) FindCurrent(ctx context.Context, userID, schoolYear string) (*models.EnrollmentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments
        WHERE user_id = $1 AND school_year = $2 AND status <> $3
        ORDER BY submitted_at DESC LIMIT 1`, enrollmentColumns)
	var row enrollmentRow
	if err := r.db.GetContext(ctx, &row, query, userID, schoolYear, models.EnrollmentStatusCancelled); err != nil {
		return nil, err
	}
	return row.toRecord()
}

// ExistsEnrolled reports whether the user already holds an enrolled record
// for the semester within the school year.
func (r *EnrollmentRepository) ExistsEnrolled(ctx context.Context, userID string, semester models.Semester, schoolYear string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM enrollments
        WHERE user_id = $1 AND semester = $2 AND school_year = $3 AND status = $4)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, string(semester), schoolYear, models.EnrollmentStatusEnrolled); err != nil {
		return false, fmt.Errorf("check enrolled: %w", err)
	}
	return exists, nil
}

// Create inserts a new enrollment record, assigning its ID and timestamp.
func (r *EnrollmentRepository) Create(ctx context.Context, record *models.EnrollmentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}
	personalInfo, err := json.Marshal(record.PersonalInfo)
	if err != nil {
		return fmt.Errorf("encode personal info: %w", err)
	}

	query := `INSERT INTO enrollments (id, user_id, level, grade_id, grade_level, department, strand,
        course_id, course_code, course_name, year_level, semester, student_type,
        status, school_year, personal_info, submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		string(record.Level),
		nullString(record.GradeID),
		nullInt(record.GradeLevel),
		nullString(string(record.Department)),
		nullString(record.Strand),
		nullString(record.CourseID),
		nullString(record.CourseCode),
		nullString(record.CourseName),
		nullInt(record.YearLevel),
		nullString(string(record.Semester)),
		string(record.StudentType),
		string(record.Status),
		record.SchoolYear,
		personalInfo,
		record.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// DeleteByUser removes the user's enrollment for the school year.
func (r *EnrollmentRepository) DeleteByUser(ctx context.Context, userID, schoolYear string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = $1 AND school_year = $2`, userID, schoolYear)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
