package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/classifier"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
)

// CourseService defines the interface for catalog course operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	GetCourses(ctx context.Context, category string) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	courseRepo CourseStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore) CourseService {
	return &courseServiceImpl{courseRepo: courseRepo}
}

// NewCourse builds a catalog course from a name, classifying it once
func NewCourse(name string, description *string) (*models.Course, error) {
	name, slug, err := slugFromName(name)
	if err != nil {
		return nil, err
	}
	c := classifier.Classify(name)
	return &models.Course{
		Name:          name,
		Slug:          slug,
		Category:      c.Category,
		Degree:        c.Degree,
		DurationYears: c.DurationYears,
		Description:   helpers.NilIfBlank(description),
	}, nil
}

// CreateCourse creates a course with category, degree and duration derived from its name
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course, err := NewCourse(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return course, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetCourseBySlug retrieves a course by slug
func (s *courseServiceImpl) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetCourses lists the catalog, optionally restricted to one category
func (s *courseServiceImpl) GetCourses(ctx context.Context, category string) ([]*models.Course, error) {
	filter := repositories.CourseFilter{Category: strings.TrimSpace(category)}
	courses, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse applies a partial update. A new name regenerates the slug but keeps the
// stored category, degree and duration.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name, slug, err := slugFromName(*req.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
		fields["slug"] = slug
	}
	if req.Description != nil {
		fields["description"] = helpers.NilIfBlank(req.Description)
	}

	if len(fields) > 0 {
		if err := s.courseRepo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, apperrors.ErrCourseNotFound) {
				return nil, apperrors.ErrCourseNotFound
			}
			return nil, fmt.Errorf("error updating course: %w", err)
		}
	}
	return s.GetCourseByID(ctx, id)
}

// DeleteCourse deletes a course and, through the database cascade, its college links
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validateID(id, "course"); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}
