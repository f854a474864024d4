package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
)

type memoryRevocations struct {
	revoked map[string]time.Time
}

func (m *memoryRevocations) Revoke(_ context.Context, jti string, _ uuid.UUID, expiresAt time.Time) error {
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

type authFixture struct {
	users       *userFixture
	revocations *memoryRevocations
	svc         *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newUserFixture()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "edudirectory.test",
	})
	revocations := &memoryRevocations{revoked: map[string]time.Time{}}
	return &authFixture{
		users:       users,
		revocations: revocations,
		svc:         NewAuthService(users.identities, users.svc, jwtService, revocations),
	}
}

func (f *authFixture) account(t *testing.T, email, password string, role models.Role) uuid.UUID {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, f.users.identities.Create(context.Background(), &models.Identity{ID: id, Email: email, PasswordHash: hash}))
	require.NoError(t, f.users.profiles.Create(context.Background(), &models.UserProfile{ID: id, Email: email, Role: role}))
	return id
}

func TestLoginAdmin(t *testing.T) {
	f := newAuthFixture(t)
	id := f.account(t, "admin@edu.test", "password123", models.RoleAdmin)

	resp, err := f.svc.Login(context.Background(), &dto.LoginRequest{Email: "Admin@Edu.test", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
	assert.Equal(t, id, resp.User.ID)
}

func TestLoginRejectsNonAdmins(t *testing.T) {
	f := newAuthFixture(t)
	f.account(t, "user@edu.test", "password123", models.RoleUser)

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Email: "user@edu.test", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.account(t, "admin@edu.test", "password123", models.RoleAdmin)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "admin@edu.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@edu.test", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	exp := time.Now().Add(time.Hour)
	claims := &auth.Claims{
		UserID:           uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", ExpiresAt: jwt.NewNumericDate(exp)},
	}

	require.NoError(t, f.svc.Logout(context.Background(), claims))
	revoked, err := f.revocations.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), &auth.Claims{}), apperrors.ErrTokenInvalid)
}

func TestCurrentRoleFollowsProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.account(t, "admin@edu.test", "password123", models.RoleAdmin)

	role, err := f.svc.CurrentRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	require.NoError(t, f.users.profiles.UpdateRole(ctx, id, models.RoleUser))
	role, err = f.svc.CurrentRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "user", role)

	_, err = f.svc.CurrentRole(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
