package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// --- Central Error Handling Middleware/Function ---

type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// errorMappings is checked in order. Upload and persist errors wrap their cause, so
// they come before the categories the cause may belong to.
var errorMappings = []errorMapping{
	{apperrors.ErrUpload, http.StatusBadGateway, dto.ErrorCodeUploadFailed},
	{apperrors.ErrPersist, http.StatusInternalServerError, dto.ErrorCodePersistFailed},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrHasDependents, http.StatusConflict, dto.ErrorCodeHasDependents},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrProtected, http.StatusForbidden, dto.ErrorCodeProtected},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrUpstream, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
}

// HandleAPIError maps err onto an HTTP status and writes the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorResponse(err)

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", status).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// ErrorResponse returns the status and error detail for err
func ErrorResponse(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, apperrors.Message(err))
		if details := apperrors.Details(err); details != nil {
			detail.WithDetails(details)
		}
		return m.status, detail
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}
