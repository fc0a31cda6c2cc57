package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/task-assignment-api/internal/dto"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/middleware"
	"github.com/taskdesk/task-assignment-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a new user account. No token is issued; the client logs
// in afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful. Please log in.",
		"data":    dto.ToUserDTO(*user),
	})
}

// CreateFirstAdmin bootstraps the first admin account and returns a token
// for it. Fails once any admin exists.
func (h *AuthHandler) CreateFirstAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, signed, err := h.authService.CreateFirstAdmin(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToAuthUserDTO(*user, signed))
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type loginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, signed, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToAuthUserDTO(*user, signed))
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	respondData(c, http.StatusOK, dto.ToUserDTO(*user))
}
