package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/sis-enrollment-api/pkg/errors"
)

const coursesCacheKey = "catalog:courses"

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type gradeLevelReader interface {
	List(ctx context.Context, department models.Department) ([]models.GradeLevel, error)
	FindByID(ctx context.Context, id string) (*models.GradeLevel, error)
}

// CatalogService serves the course and grade-level catalogs with caching.
type CatalogService struct {
	courses  courseReader
	grades   gradeLevelReader
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(courses courseReader, grades gradeLevelReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{courses: courses, grades: grades, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Courses returns the course catalog, served from cache when possible.
func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, err := s.cache.Get(ctx, coursesCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if err := s.cache.Set(ctx, coursesCacheKey, courses, s.cacheTTL); err != nil {
		s.logger.Warn("course cache refresh failed", zap.Error(err))
	}
	return courses, nil
}

// CourseByCode resolves a single course by its code.
func (s *CatalogService) CourseByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// GradeByID resolves a single grade level by its ID.
func (s *CatalogService) GradeByID(ctx context.Context, id string) (*models.GradeLevel, error) {
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade level")
	}
	return grade, nil
}

// GradeLevels returns the grade catalog, optionally filtered by department.
func (s *CatalogService) GradeLevels(ctx context.Context, department models.Department) ([]models.GradeLevel, error) {
	grades, err := s.grades.List(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade levels")
	}
	return grades, nil
}
