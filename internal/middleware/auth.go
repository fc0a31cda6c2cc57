package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/task-assignment-api/internal/constants"
	"github.com/taskdesk/task-assignment-api/internal/database"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/token"
)

// RequireAuth verifies the bearer token, resolves the user it was issued
// for, and rejects deactivated accounts.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "Not authorized to access this route")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				apierrors.Unauthorized(c, "Token expired")
			} else {
				apierrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if !user.Active {
			apierrors.Unauthorized(c, "Account is deactivated")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}
