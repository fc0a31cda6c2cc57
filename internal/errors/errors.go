package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError describes a single validation violation. Validation responses
// carry every violation, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope shared by every error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, message string, detail interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, message, nil)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, message, nil)
}

// ValidationFailed sends a 400 response listing every violation.
func ValidationFailed(c *gin.Context, fields []FieldError) {
	RespondWithError(c, http.StatusBadRequest, "Validation failed", fields)
}

// InternalError sends a 500 response. The underlying error is surfaced only
// in debug mode; release mode leaks no internal detail.
func InternalError(c *gin.Context, err error) {
	var detail interface{}
	if gin.Mode() == gin.DebugMode && err != nil {
		detail = err.Error()
	}
	RespondWithError(c, http.StatusInternalServerError, "Internal server error", detail)
}
