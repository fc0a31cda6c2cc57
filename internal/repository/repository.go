package repository

import (
	"github.com/taskdesk/task-assignment-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its attachment metadata
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists a modified task
	Update(task *models.Task) error

	// Delete soft deletes a task and its attachment records
	Delete(id uint64) error

	// AddAttachments appends attachment records to a task
	AddAttachments(taskID uint64, attachments []models.Attachment) error

	// FindAttachment finds an attachment belonging to a task
	FindAttachment(taskID, attachmentID uint64) (*models.Attachment, error)

	// DeleteAttachment removes a single attachment record
	DeleteAttachment(attachmentID uint64) error
}

// TaskFilter holds filtering options for listing tasks. All predicates are
// optional and combined as a conjunction.
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToID *uint64
	Search       string
	Page         int
	PageSize     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// Update persists a modified user
	Update(user *models.User) error

	// UpdateFields updates selected columns on a user. Needed for boolean
	// flags, which GORM's Save skips at their zero value.
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// AdminExists reports whether any admin account exists
	AdminExists() (bool, error)
}
