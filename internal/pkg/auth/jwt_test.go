package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "edudirectory.test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWT()
	id := uuid.New()

	issued, err := svc.GenerateAccessToken(id, "admin@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, 3600, issued.ExpiresIn)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidateExpired(t *testing.T) {
	svc := newTestJWT()
	issued, err := svc.GenerateAccessToken(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(issued.Token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestValidateWrongSecret(t *testing.T) {
	issued, err := newTestJWT().GenerateAccessToken(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "edudirectory.test"})
	_, err = other.ValidateToken(issued.Token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("Basic Zm9vOmJhcg==")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
