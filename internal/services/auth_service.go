package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/taskdesk/task-assignment-api/internal/constants"
	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/repository"
	"github.com/taskdesk/task-assignment-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminExists          = errors.New("an admin user already exists")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a new user account. The role defaults to "user"; no token
// is issued, registration is followed by a login.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	role := models.RoleUser
	if input.Role != "" {
		role = models.Role(input.Role)
	}

	violations := validateUserFields(input.Name, input.Email, input.Password, role, true)
	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	return s.createUser(input.Name, input.Email, input.Password, role)
}

// CreateFirstAdmin bootstraps the very first admin account and issues a
// token for it. Fails once any admin exists.
func (s *AuthService) CreateFirstAdmin(input RegisterInput) (*models.User, string, error) {
	violations := validateUserFields(input.Name, input.Email, input.Password, models.RoleAdmin, true)
	if len(violations) > 0 {
		return nil, "", newValidationError(violations)
	}

	exists, err := s.userRepo.AdminExists()
	if err != nil {
		return nil, "", fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		return nil, "", ErrAdminExists
	}

	user, err := s.createUser(input.Name, input.Email, input.Password, models.RoleAdmin)
	if err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials, records the login time, and issues a token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Active {
		return nil, "", ErrAccountDeactivated
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", fmt.Errorf("failed to record login: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) createUser(name, email, password string, role models.Role) (*models.User, error) {
	email = strings.TrimSpace(email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Active:       true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// validateUserFields collects every violation in the given account fields.
// passwordRequired is false for updates, where an empty password means
// "unchanged".
func validateUserFields(name, email, password string, role models.Role, passwordRequired bool) []FieldViolation {
	var violations []FieldViolation

	if strings.TrimSpace(name) == "" {
		violations = append(violations, FieldViolation{Field: "name", Message: "Name is required"})
	}

	email = strings.TrimSpace(email)
	if email == "" {
		violations = append(violations, FieldViolation{Field: "email", Message: "Email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		violations = append(violations, FieldViolation{Field: "email", Message: "Please enter a valid email"})
	}

	if password == "" {
		if passwordRequired {
			violations = append(violations, FieldViolation{Field: "password", Message: "Password is required"})
		}
	} else if len(password) < constants.MinPasswordLength {
		violations = append(violations, FieldViolation{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters long", constants.MinPasswordLength),
		})
	}

	if !role.Valid() {
		violations = append(violations, FieldViolation{Field: "role", Message: "Invalid role"})
	}

	return violations
}
