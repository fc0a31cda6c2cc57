package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/policy"
)

// RequireAdmin gates the user-management surface behind the access policy.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !policy.Allow(user.Role, user.ID, policy.Ownership{}, policy.ActionManageUsers) {
			apierrors.Forbidden(c, "Not authorized to manage users")
			c.Abort()
			return
		}

		c.Next()
	}
}
