package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models/dto"
)

// RegisterValidation makes gin's validator report json field names
func RegisterValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.UseJSONFieldNames(v)
	}
}

func abortBadRequest(c *gin.Context, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// BindJSON binds and validates the request body into obj. On failure the 400 response
// is already written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortBadRequest(c, dto.HandleValidationError(err))
		return false
	}
	return true
}

// ParseIDParam reads a positive integer path parameter
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortBadRequest(c, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails(name+" must be a positive number"))
		return 0, false
	}
	return id, true
}

// ParseUUIDParam reads a uuid path parameter
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortBadRequest(c, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails(name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// OptionalInt64Query reads an optional positive integer query parameter. A missing
// parameter yields nil.
func OptionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		abortBadRequest(c, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails(name+" must be a positive number"))
		return nil, false
	}
	return &v, true
}
