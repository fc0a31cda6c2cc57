package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles the admin-only account management surface.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns a page of users, newest first.
func (s *UserService) List(page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for an admin-created account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create creates a user account on behalf of an administrator.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	role := models.RoleUser
	if input.Role != "" {
		role = models.Role(input.Role)
	}

	violations := validateUserFields(input.Name, input.Email, input.Password, role, true)
	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	email := strings.TrimSpace(input.Email)
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
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

// UpdateUserInput represents a partial account update. Nil fields retain
// their prior values; an empty password is never stored.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// Update overwrites only the supplied account fields.
func (s *UserService) Update(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if input.Name != nil {
		name = *input.Name
	}
	email := user.Email
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
	}
	role := user.Role
	if input.Role != nil {
		role = models.Role(*input.Role)
	}
	password := ""
	if input.Password != nil {
		password = *input.Password
	}

	violations := validateUserFields(name, email, password, role, false)
	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	if email != user.Email {
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	user.Name = strings.TrimSpace(name)
	user.Email = email
	user.Role = role

	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete soft deletes a user. Tasks referencing the account keep their
// references; integrity is advisory, not enforced by the store.
func (s *UserService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ToggleActive flips a user's active flag and returns the updated account.
func (s *UserService) ToggleActive(id uint64) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(id, map[string]interface{}{"active": !user.Active}); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	return s.Get(id)
}

// ChangeRole sets a user's role.
func (s *UserService) ChangeRole(id uint64, role string) (*models.User, error) {
	r := models.Role(role)
	if !r.Valid() {
		return nil, newValidationError([]FieldViolation{{Field: "role", Message: "Invalid role"}})
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"role": r}); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return s.Get(id)
}
