package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrProtected        = errors.New("resource is protected")

	// External collaborator errors
	ErrUpstream = errors.New("upstream service error")
	ErrUpload   = errors.New("media upload failed")
	ErrPersist  = errors.New("failed to persist record")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Directory errors
var (
	ErrStateNotFound      = NewResourceNotFoundError("state not found")
	ErrCityNotFound       = NewResourceNotFoundError("city not found")
	ErrUniversityNotFound = NewResourceNotFoundError("university not found")
	ErrCollegeNotFound    = NewResourceNotFoundError("college not found")
	ErrCourseNotFound     = NewResourceNotFoundError("course not found")
	ErrImageNotFound      = NewResourceNotFoundError("college image not found")
	ErrVideoNotFound      = NewResourceNotFoundError("college video not found")
	ErrUserNotFound       = NewResourceNotFoundError("user not found")

	ErrHasDependents = NewConflictError("record has dependent records and cannot be deleted")
	ErrSlugTaken     = NewConflictError("slug already in use")
	ErrEmailTaken    = NewConflictError("email already registered")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewProtectedError reports an operation refused because the target is protected
func NewProtectedError(message string) error {
	return &CustomError{
		Err:     ErrProtected,
		Message: message,
	}
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewUpstreamError wraps a failed call to the database or media store. Details carry
// whatever diagnostic fields the collaborator reported.
func NewUpstreamError(message string, cause error, details map[string]interface{}) error {
	return &CustomError{
		Err:     ErrUpstream,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewUploadError reports a failed media upload
func NewUploadError(cause error) error {
	return &CustomError{
		Err:     ErrUpload,
		Message: "media upload failed: " + cause.Error(),
		Cause:   cause,
	}
}

// NewPersistError reports a failed insert after a successful upload
func NewPersistError(cause error) error {
	return &CustomError{
		Err:     ErrPersist,
		Message: "uploaded media could not be saved: " + cause.Error(),
		Cause:   cause,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the category sentinel and the underlying cause
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Message returns the human-readable message of the outermost CustomError in the chain,
// or err.Error() when there is none.
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

// Details returns the details map of the outermost CustomError in the chain
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
