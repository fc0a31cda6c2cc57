package dto

import (
	"time"

	"github.com/taskdesk/task-assignment-api/internal/models"
)

// UserRefDTO is the minimal user reference embedded in task responses
type UserRefDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	Active      bool        `json:"active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuthUserDTO is a user plus the bearer token issued for them
type AuthUserDTO struct {
	UserDTO
	Token string `json:"token"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users       []UserDTO `json:"users"`
	Total       int64     `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// ToUserRefDTO converts a User model to UserRefDTO
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToAuthUserDTO converts a User model and token to AuthUserDTO
func ToAuthUserDTO(user models.User, token string) AuthUserDTO {
	return AuthUserDTO{
		UserDTO: ToUserDTO(user),
		Token:   token,
	}
}

// ToUserListResponse converts a page of users to UserListResponse
func ToUserListResponse(users []models.User, page, pageSize int, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return UserListResponse{
		Users:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}
