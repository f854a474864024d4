package dto

import "time"

// APIResponse is the envelope of every response. Warnings report best-effort cleanup
// that failed while the operation itself succeeded.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}, warnings ...string) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Warnings:  warnings,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse wraps an error detail in a failure envelope
func NewErrorResponse(errorDetail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// DeleteResponse reports a deleted record
type DeleteResponse struct {
	ID      interface{} `json:"id"`
	Deleted bool        `json:"deleted"`
}
