package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/task-assignment-api/internal/dto"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/services"
	"github.com/taskdesk/task-assignment-api/internal/utils"
)

// UserHandler coordinates the admin-only account management handlers.
// Authorization happens in the admin middleware, not here.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns a paginated page of users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserListResponse(users, params.Page, params.Limit, total))
}

// GetUser returns a single user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates an account on behalf of an administrator
func (h *UserHandler) CreateUser(c *gin.Context) {
	type createUserRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial account update
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type updateUserRequest struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Update(userID, services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser soft deletes a user account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "User deleted successfully")
}

// ToggleUserStatus flips a user's active flag
func (h *UserHandler) ToggleUserStatus(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ToggleActive(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUserRole changes a user's role
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type updateRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.ChangeRole(userID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}
