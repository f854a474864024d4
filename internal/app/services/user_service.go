package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
	"github.com/yigit/edudirectory/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const minPasswordLength = 8

var validate = validator.New()

// UserService defines the interface for console account administration. The
// super-admin is the single account that may grant admin rights and that can never be
// deleted or demoted.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, createdBy string) (*models.User, error)
	GetUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role, updatedBy string) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID, deletedBy string) error
	IsSuperAdmin(email string) bool
}

type userServiceImpl struct {
	identityRepo    IdentityStore
	profileRepo     ProfileStore
	superAdminEmail string
}

// NewUserService creates a new user service instance
func NewUserService(identityRepo IdentityStore, profileRepo ProfileStore, superAdminEmail string) UserService {
	return &userServiceImpl{
		identityRepo:    identityRepo,
		profileRepo:     profileRepo,
		superAdminEmail: normalizeEmail(superAdminEmail),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSuperAdmin reports whether email designates the super-admin
func (s *userServiceImpl) IsSuperAdmin(email string) bool {
	return s.superAdminEmail != "" && normalizeEmail(email) == s.superAdminEmail
}

// toUser joins an identity with its optional profile
func (s *userServiceImpl) toUser(identity *models.Identity, profile *models.UserProfile) *models.User {
	u := &models.User{
		ID:               identity.ID,
		Email:            identity.Email,
		Role:             models.RoleUser,
		IsSuperAdmin:     s.IsSuperAdmin(identity.Email),
		EmailConfirmedAt: identity.EmailConfirmedAt,
		CreatedAt:        identity.CreatedAt,
	}
	if profile != nil {
		u.Role = profile.Role
		u.FullName = profile.FullName
		u.HasProfile = true
	}
	if u.IsSuperAdmin {
		u.Role = models.RoleAdmin
	}
	return u
}

// CreateUser creates a pre-confirmed identity and its profile. Only the super-admin
// may create admins or the super-admin account itself. If the profile cannot be
// stored the identity is removed again.
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest, createdBy string) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrValidationFailed)
	}
	if s.IsSuperAdmin(email) && !s.IsSuperAdmin(createdBy) {
		return nil, apperrors.NewProtectedError("the super admin account can only be created by the super admin")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidationFailed, minPasswordLength)
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}
	if role == models.RoleAdmin && !s.IsSuperAdmin(createdBy) {
		return nil, apperrors.NewForbiddenError("only the super admin can create admin users")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	identity := &models.Identity{Email: email, PasswordHash: hash}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating identity: %w", err)
	}

	profile := &models.UserProfile{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     role,
		FullName: helpers.NilIfBlank(req.FullName),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if delErr := s.identityRepo.Delete(context.WithoutCancel(ctx), identity.ID); delErr != nil {
			logger.Error().Err(delErr).Str("userID", identity.ID.String()).Msg("Failed to remove identity after profile insert failed")
		}
		return nil, fmt.Errorf("error creating user profile: %w", err)
	}

	logger.Info().Str("userID", identity.ID.String()).Str("role", string(role)).Str("createdBy", createdBy).Msg("User created")
	return s.toUser(identity, profile), nil
}

// GetUsers lists every identity joined with its profile. Identities without a profile
// are listed with role user.
func (s *userServiceImpl) GetUsers(ctx context.Context) ([]*models.User, error) {
	var (
		identities []*models.Identity
		profiles   []*models.UserProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identities, err = s.identityRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profileRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}

	byID := make(map[uuid.UUID]*models.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	users := make([]*models.User, 0, len(identities))
	for _, identity := range identities {
		users = append(users, s.toUser(identity, byID[identity.ID]))
	}
	return users, nil
}

// GetUserByID retrieves one user
func (s *userServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("error retrieving user profile: %w", err)
		}
		profile = nil
	}
	return s.toUser(identity, profile), nil
}

// UpdateUserRole changes a user's role. Granting or revoking admin is reserved to the
// super-admin, whose own role is fixed.
func (s *userServiceImpl) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role, updatedBy string) (*models.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, role)
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsSuperAdmin {
		return nil, apperrors.NewProtectedError("the super admin's role cannot be changed")
	}
	if user.Role == role && user.HasProfile {
		return user, nil
	}
	if !s.IsSuperAdmin(updatedBy) {
		return nil, apperrors.NewForbiddenError("only the super admin can change user roles")
	}

	if user.HasProfile {
		err = s.profileRepo.UpdateRole(ctx, id, role)
	} else {
		err = s.profileRepo.Create(ctx, &models.UserProfile{ID: id, Email: user.Email, Role: role})
	}
	if err != nil {
		return nil, fmt.Errorf("error updating user role: %w", err)
	}

	logger.Info().Str("userID", id.String()).Str("role", string(role)).Str("updatedBy", updatedBy).Msg("User role changed")
	return s.GetUserByID(ctx, id)
}

// DeleteUser deletes an identity; its profile goes with it. The super-admin can never
// be deleted and admins can only be deleted by the super-admin.
func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID, deletedBy string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsSuperAdmin {
		return apperrors.NewProtectedError("the super admin cannot be deleted")
	}
	if user.Role == models.RoleAdmin && !s.IsSuperAdmin(deletedBy) {
		return apperrors.NewForbiddenError("only the super admin can delete admin users")
	}

	if err := s.identityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	logger.Info().Str("userID", id.String()).Str("deletedBy", deletedBy).Msg("User deleted")
	return nil
}
