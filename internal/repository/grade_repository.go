package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
)

// GradeLevelRepository reads the high-school grade catalog.
type GradeLevelRepository struct {
	db *sqlx.DB
}

// NewGradeLevelRepository constructs the repository.
func NewGradeLevelRepository(db *sqlx.DB) *GradeLevelRepository {
	return &GradeLevelRepository{db: db}
}

// List returns all grade levels, optionally filtered by department.
func (r *GradeLevelRepository) List(ctx context.Context, department models.Department) ([]models.GradeLevel, error) {
	query := `SELECT id, grade_level, department, COALESCE(strand, '') AS strand FROM grade_levels`
	args := []interface{}{}
	if department != "" {
		query += ` WHERE department = $1`
		args = append(args, string(department))
	}
	query += ` ORDER BY grade_level, strand`

	var grades []models.GradeLevel
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grade levels: %w", err)
	}
	return grades, nil
}

// FindByID returns a grade level by its ID, or sql.ErrNoRows.
func (r *GradeLevelRepository) FindByID(ctx context.Context, id string) (*models.GradeLevel, error) {
	var grade models.GradeLevel
	query := `SELECT id, grade_level, department, COALESCE(strand, '') AS strand FROM grade_levels WHERE id = $1`
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}
