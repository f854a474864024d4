package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestErrorResponseMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewValidationError("name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrCollegeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("deleting state: %w", apperrors.ErrHasDependents), http.StatusConflict, dto.ErrorCodeHasDependents},
		{apperrors.ErrSlugTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.NewProtectedError("super-admin cannot be deleted"), http.StatusForbidden, dto.ErrorCodeProtected},
		{apperrors.NewForbiddenError("only the super-admin may create admins"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
		{apperrors.NewUpstreamError("insert failed", errors.New("boom"), nil), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{apperrors.NewUploadError(errors.New("timeout")), http.StatusBadGateway, dto.ErrorCodeUploadFailed},
		{apperrors.NewPersistError(apperrors.ErrCollegeNotFound), http.StatusInternalServerError, dto.ErrorCodePersistFailed},
		{errors.New("unexpected"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		status, detail := ErrorResponse(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, detail.Code, tc.err.Error())
	}
}

func TestErrorResponseHidesInternalMessages(t *testing.T) {
	_, detail := ErrorResponse(errors.New("pq: connection refused on 10.0.0.3"))
	assert.Equal(t, "Internal server error", detail.Message)
}

func TestHandleAPIErrorWritesEnvelope(t *testing.T) {
	router := gin.New()
	router.GET("/colleges/:id", func(c *gin.Context) {
		HandleAPIError(c, apperrors.ErrCollegeNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colleges/7", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "college not found", env.Error.Message)
}

type memoryRevocations struct {
	revoked map[string]bool
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, jti string, _ uuid.UUID, _ time.Time) error {
	m.revoked[jti] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], m.err
}

type staticRoles map[uuid.UUID]string

func (r staticRoles) CurrentRole(_ context.Context, id uuid.UUID) (string, error) {
	role, ok := r[id]
	if !ok {
		return "", apperrors.ErrUserNotFound
	}
	return role, nil
}

type authFixture struct {
	jwt         *auth.JWTService
	revocations *memoryRevocations
	roles       staticRoles
	router      *gin.Engine
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "middleware-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "edudirectory.test",
		}),
		revocations: &memoryRevocations{revoked: map[string]bool{}},
		roles:       staticRoles{},
	}
	m := NewAuthMiddleware(f.jwt, f.revocations, f.roles)

	f.router = gin.New()
	admin := f.router.Group("/admin", m.JWTAuth(), m.RoleRequired("admin"))
	admin.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"email": CurrentEmail(c)}))
	})
	return f
}

func (f *authFixture) token(t *testing.T, id uuid.UUID, role string) *auth.IssuedToken {
	t.Helper()
	issued, err := f.jwt.GenerateAccessToken(id, "admin@edu.test", role)
	require.NoError(t, err)
	return issued
}

func (f *authFixture) call(header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsAdmin(t *testing.T) {
	f := newAuthFixture()
	id := uuid.New()
	f.roles[id] = "admin"

	w := f.call("Bearer " + f.token(t, id, "admin").Token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@edu.test")
}

func TestJWTAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	f := newAuthFixture()

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		w := f.call(header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.False(t, decode(t, w).Success, header)
	}
}

func TestJWTAuthRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture()
	id := uuid.New()
	f.roles[id] = "admin"
	issued := f.token(t, id, "admin")
	f.revocations.revoked[issued.ID] = true

	w := f.call("Bearer " + issued.Token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.Equal(t, dto.ErrorCodeRevokedToken, env.Error.Code)
	assert.Equal(t, apperrors.ErrTokenRevoked.Error(), env.Error.Message)
}

func TestJWTAuthRevocationStoreFailure(t *testing.T) {
	f := newAuthFixture()
	id := uuid.New()
	f.roles[id] = "admin"
	f.revocations.err = errors.New("redis down")

	w := f.call("Bearer " + f.token(t, id, "admin").Token)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRoleRequiredUsesCurrentRole(t *testing.T) {
	f := newAuthFixture()
	demoted := uuid.New()
	f.roles[demoted] = "user"

	w := f.call("Bearer " + f.token(t, demoted, "admin").Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.call("Bearer " + f.token(t, uuid.New(), "admin").Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"contactEmail" binding:"omitempty,email"`
}

func TestBindJSONReportsJSONFieldNames(t *testing.T) {
	RegisterValidation()
	router := gin.New()
	router.POST("/things", func(c *gin.Context) {
		var body bindTarget
		if !BindJSON(c, &body) {
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"contactEmail":"nope"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"name"`)
	assert.Contains(t, w.Body.String(), `"field":"contactEmail"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":"ok"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestParseParams(t *testing.T) {
	router := gin.New()
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParseIDParam(c, "id")
		if !ok {
			return
		}
		parent, ok := OptionalInt64Query(c, "parentId")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "hasParent": parent != nil})
	})

	for path, want := range map[string]int{
		"/items/5":             http.StatusOK,
		"/items/5?parentId=2":  http.StatusOK,
		"/items/0":             http.StatusBadRequest,
		"/items/abc":           http.StatusBadRequest,
		"/items/5?parentId=-1": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}
