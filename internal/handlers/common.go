package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/services"
)

// respondData sends a success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondMessage sends a success envelope with a message instead of data.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

// respondServiceError maps service errors onto the HTTP error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		fields := make([]apierrors.FieldError, len(validationErr.Violations))
		for i, v := range validationErr.Violations {
			fields[i] = apierrors.FieldError{Field: v.Field, Message: v.Message}
		}
		apierrors.ValidationFailed(c, fields)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAdminExists):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDeactivated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAttachmentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err)
	}
}

func respondNotAuthenticated(c *gin.Context) {
	apierrors.Unauthorized(c, "Not authenticated")
}
