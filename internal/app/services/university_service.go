package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/mediastore"
)

// UniversityService defines the interface for university-related operations
type UniversityService interface {
	CreateUniversity(ctx context.Context, req *dto.CreateUniversityRequest) (*models.University, error)
	GetUniversityByID(ctx context.Context, id int64) (*models.University, error)
	GetUniversityBySlug(ctx context.Context, slug string) (*models.University, error)
	GetUniversities(ctx context.Context, cityID *int64) ([]*models.University, error)
	UpdateUniversity(ctx context.Context, id int64, req *dto.UpdateUniversityRequest) (*models.University, error)
	DeleteUniversity(ctx context.Context, id int64) ([]string, error)
}

type universityServiceImpl struct {
	universityRepo UniversityStore
	media          mediastore.Store
}

// NewUniversityService creates a new university service instance
func NewUniversityService(universityRepo UniversityStore, media mediastore.Store) UniversityService {
	return &universityServiceImpl{universityRepo: universityRepo, media: media}
}

// CreateUniversity creates a university under an existing city
func (s *universityServiceImpl) CreateUniversity(ctx context.Context, req *dto.CreateUniversityRequest) (*models.University, error) {
	name, slug, err := slugFromName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateID(req.CityID, "city"); err != nil {
		return nil, err
	}

	university := &models.University{Name: name, Slug: slug, CityID: req.CityID}
	if err := s.universityRepo.Create(ctx, university); err != nil {
		if errors.Is(err, apperrors.ErrCityNotFound) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error creating university: %w", err)
	}
	return s.GetUniversityByID(ctx, university.ID)
}

// GetUniversityByID retrieves a university with its city and state
func (s *universityServiceImpl) GetUniversityByID(ctx context.Context, id int64) (*models.University, error) {
	if err := validateID(id, "university"); err != nil {
		return nil, err
	}

	university, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUniversityNotFound) {
			return nil, apperrors.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("error retrieving university: %w", err)
	}
	return university, nil
}

// GetUniversityBySlug retrieves a university by slug
func (s *universityServiceImpl) GetUniversityBySlug(ctx context.Context, slug string) (*models.University, error) {
	university, err := s.universityRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrUniversityNotFound) {
			return nil, apperrors.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("error retrieving university: %w", err)
	}
	return university, nil
}

// GetUniversities lists universities, optionally only those of one city
func (s *universityServiceImpl) GetUniversities(ctx context.Context, cityID *int64) ([]*models.University, error) {
	universities, err := s.universityRepo.List(ctx, repositories.UniversityFilter{CityID: cityID})
	if err != nil {
		return nil, fmt.Errorf("error retrieving universities: %w", err)
	}
	return universities, nil
}

// UpdateUniversity applies a partial update. A new name regenerates the slug.
func (s *universityServiceImpl) UpdateUniversity(ctx context.Context, id int64, req *dto.UpdateUniversityRequest) (*models.University, error) {
	if err := validateID(id, "university"); err != nil {
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
	if req.CityID != nil {
		if err := validateID(*req.CityID, "city"); err != nil {
			return nil, err
		}
		fields["city_id"] = *req.CityID
	}

	if len(fields) > 0 {
		if err := s.universityRepo.Update(ctx, id, fields); err != nil {
			if apperrors.Is(err, apperrors.ErrUniversityNotFound, apperrors.ErrCityNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("error updating university: %w", err)
		}
	}
	return s.GetUniversityByID(ctx, id)
}

// DeleteUniversity deletes a university that has no colleges and then its image
func (s *universityServiceImpl) DeleteUniversity(ctx context.Context, id int64) ([]string, error) {
	university, err := s.GetUniversityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.universityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrUniversityNotFound) {
			return nil, apperrors.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("error deleting university: %w", err)
	}

	var warnings []string
	if w := destroyAsset(ctx, s.media, university.ImageURL, university.ImagePublicID, mediastore.KindImage); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}
