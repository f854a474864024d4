package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
	"github.com/yigit/edudirectory/internal/pkg/logger"
	"github.com/yigit/edudirectory/internal/pkg/tokenstore"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, email, role string) (*auth.IssuedToken, error)
}

// AuthService handles console login and logout
type AuthService struct {
	identityRepo IdentityStore
	users        UserService
	jwtService   TokenIssuer
	revocations  tokenstore.Store
}

// NewAuthService creates a new AuthService
func NewAuthService(identityRepo IdentityStore, users UserService, jwtService TokenIssuer, revocations tokenstore.Store) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		users:        users,
		jwtService:   jwtService,
		revocations:  revocations,
	}
}

// Login checks the credentials and issues an access token. Only admins may sign in to
// the console.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidationFailed)
	}

	identity, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving identity: %w", err)
	}

	if !auth.CheckPassword(identity.PasswordHash, req.Password) {
		logger.Warn().Str("email", email).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("admin access required")
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	logger.Info().Str("userID", user.ID.String()).Msg("Admin logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(token.ExpiresIn),
		},
		User: user,
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return apperrors.ErrTokenInvalid
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// CurrentRole reports the role a user holds right now, so that deleted or demoted
// users lose access before their token expires
func (s *AuthService) CurrentRole(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return string(user.Role), nil
}
