package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

// StateService defines the interface for state-related operations
type StateService interface {
	CreateState(ctx context.Context, req *dto.CreateStateRequest) (*models.State, error)
	GetStateByID(ctx context.Context, id int64) (*models.State, error)
	GetStateBySlug(ctx context.Context, slug string) (*models.State, error)
	GetAllStates(ctx context.Context) ([]*models.State, error)
	UpdateState(ctx context.Context, id int64, req *dto.UpdateStateRequest) (*models.State, error)
	DeleteState(ctx context.Context, id int64) error
}

// stateServiceImpl implements the StateService interface
type stateServiceImpl struct {
	stateRepo StateStore
}

// NewStateService creates a new state service instance
func NewStateService(stateRepo StateStore) StateService {
	return &stateServiceImpl{stateRepo: stateRepo}
}

// CreateState creates a new state with a slug derived from its name
func (s *stateServiceImpl) CreateState(ctx context.Context, req *dto.CreateStateRequest) (*models.State, error) {
	name, slug, err := slugFromName(req.Name)
	if err != nil {
		return nil, err
	}

	state := &models.State{Name: name, Slug: slug}
	if err := s.stateRepo.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("error creating state: %w", err)
	}
	return state, nil
}

// GetStateByID retrieves a state by ID
func (s *stateServiceImpl) GetStateByID(ctx context.Context, id int64) (*models.State, error) {
	if err := validateID(id, "state"); err != nil {
		return nil, err
	}

	state, err := s.stateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStateNotFound) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("error retrieving state: %w", err)
	}
	return state, nil
}

// GetStateBySlug retrieves a state by slug
func (s *stateServiceImpl) GetStateBySlug(ctx context.Context, slug string) (*models.State, error) {
	state, err := s.stateRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrStateNotFound) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("error retrieving state: %w", err)
	}
	return state, nil
}

// GetAllStates retrieves all states ordered by name
func (s *stateServiceImpl) GetAllStates(ctx context.Context) ([]*models.State, error) {
	states, err := s.stateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving states: %w", err)
	}
	return states, nil
}

// UpdateState renames a state. A new name regenerates the slug.
func (s *stateServiceImpl) UpdateState(ctx context.Context, id int64, req *dto.UpdateStateRequest) (*models.State, error) {
	if err := validateID(id, "state"); err != nil {
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

	if len(fields) > 0 {
		if err := s.stateRepo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, apperrors.ErrStateNotFound) {
				return nil, apperrors.ErrStateNotFound
			}
			return nil, fmt.Errorf("error updating state: %w", err)
		}
	}
	return s.GetStateByID(ctx, id)
}

// DeleteState deletes a state that has no cities
func (s *stateServiceImpl) DeleteState(ctx context.Context, id int64) error {
	if err := validateID(id, "state"); err != nil {
		return err
	}

	if err := s.stateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrStateNotFound) {
			return apperrors.ErrStateNotFound
		}
		return fmt.Errorf("error deleting state: %w", err)
	}
	return nil
}
