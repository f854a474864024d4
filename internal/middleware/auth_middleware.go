package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
	"github.com/yigit/edudirectory/internal/pkg/tokenstore"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RoleResolver looks up the role a user holds now
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID uuid.UUID) (string, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService  TokenValidator
	revocations tokenstore.Store
	roles       RoleResolver
}

// NewAuthMiddleware creates a new AuthMiddleware. roles may be nil, in which case the
// role claim of the token is trusted.
func NewAuthMiddleware(jwtService TokenValidator, revocations tokenstore.Store, roles RoleResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		revocations: revocations,
		roles:       roles,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		if err := m.checkRevoked(c.Request.Context(), claims.ID); err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// checkRevoked returns ErrTokenRevoked for a token that was logged out
func (m *AuthMiddleware) checkRevoked(ctx context.Context, jti string) error {
	if m.revocations == nil {
		return nil
	}
	revoked, err := m.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return apperrors.NewUpstreamError("failed to check token revocation", err, nil)
	}
	if revoked {
		return apperrors.ErrTokenRevoked
	}
	return nil
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ensure JWTAuth middleware has run first
		role := c.GetString(ContextRole)
		userID, ok := CurrentUserID(c)
		if !ok || role == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		if m.roles != nil {
			current, err := m.roles.CurrentRole(c.Request.Context(), userID)
			if err != nil {
				if errors.Is(err, apperrors.ErrResourceNotFound) {
					abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Account no longer exists")
					return
				}
				HandleAPIError(c, err)
				return
			}
			role = current
			c.Set(ContextRole, role)
		}

		if role != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// CurrentEmail returns the authenticated user's email or ""
func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// CurrentClaims returns the validated token claims
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
