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

// CityService defines the interface for city-related operations
type CityService interface {
	CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*models.City, error)
	GetCityByID(ctx context.Context, id int64) (*models.City, error)
	GetCityBySlug(ctx context.Context, slug string) (*models.City, error)
	GetCities(ctx context.Context, stateID *int64) ([]*models.City, error)
	UpdateCity(ctx context.Context, id int64, req *dto.UpdateCityRequest) (*models.City, error)
	DeleteCity(ctx context.Context, id int64) ([]string, error)
}

// cityServiceImpl implements the CityService interface
type cityServiceImpl struct {
	cityRepo CityStore
	media    mediastore.Store
}

// NewCityService creates a new city service instance
func NewCityService(cityRepo CityStore, media mediastore.Store) CityService {
	return &cityServiceImpl{cityRepo: cityRepo, media: media}
}

// CreateCity creates a city under an existing state
func (s *cityServiceImpl) CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*models.City, error) {
	name, slug, err := slugFromName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateID(req.StateID, "state"); err != nil {
		return nil, err
	}

	city := &models.City{Name: name, Slug: slug, StateID: req.StateID}
	if err := s.cityRepo.Create(ctx, city); err != nil {
		if errors.Is(err, apperrors.ErrStateNotFound) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("error creating city: %w", err)
	}
	return s.GetCityByID(ctx, city.ID)
}

// GetCityByID retrieves a city with its state
func (s *cityServiceImpl) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	if err := validateID(id, "city"); err != nil {
		return nil, err
	}

	city, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCityNotFound) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error retrieving city: %w", err)
	}
	return city, nil
}

// GetCityBySlug retrieves a city by slug
func (s *cityServiceImpl) GetCityBySlug(ctx context.Context, slug string) (*models.City, error) {
	city, err := s.cityRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCityNotFound) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error retrieving city: %w", err)
	}
	return city, nil
}

// GetCities lists cities, optionally only those of one state
func (s *cityServiceImpl) GetCities(ctx context.Context, stateID *int64) ([]*models.City, error) {
	cities, err := s.cityRepo.List(ctx, repositories.CityFilter{StateID: stateID})
	if err != nil {
		return nil, fmt.Errorf("error retrieving cities: %w", err)
	}
	return cities, nil
}

// UpdateCity applies a partial update. A new name regenerates the slug.
func (s *cityServiceImpl) UpdateCity(ctx context.Context, id int64, req *dto.UpdateCityRequest) (*models.City, error) {
	if err := validateID(id, "city"); err != nil {
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
	if req.StateID != nil {
		if err := validateID(*req.StateID, "state"); err != nil {
			return nil, err
		}
		fields["state_id"] = *req.StateID
	}

	if len(fields) > 0 {
		if err := s.cityRepo.Update(ctx, id, fields); err != nil {
			if apperrors.Is(err, apperrors.ErrCityNotFound, apperrors.ErrStateNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("error updating city: %w", err)
		}
	}
	return s.GetCityByID(ctx, id)
}

// DeleteCity deletes a city that has no universities, then removes its image from the
// media store. A failed image delete is returned as a warning.
func (s *cityServiceImpl) DeleteCity(ctx context.Context, id int64) ([]string, error) {
	city, err := s.GetCityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCityNotFound) {
			return nil, apperrors.ErrCityNotFound
		}
		return nil, fmt.Errorf("error deleting city: %w", err)
	}

	var warnings []string
	if w := destroyAsset(ctx, s.media, city.ImageURL, city.ImagePublicID, mediastore.KindImage); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}
