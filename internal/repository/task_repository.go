package repository

import (
	"github.com/taskdesk/task-assignment-api/internal/database"
	"github.com/taskdesk/task-assignment-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task. Attachment metadata present on the task is
// persisted in the same transaction.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.
		Preload("AssignedTo").
		Preload("AssignedBy").
		Preload("CreatedBy").
		Preload("Attachments").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists a modified task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task and its attachment records
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AddAttachments appends attachment records to a task
func (r *GormTaskRepository) AddAttachments(taskID uint64, attachments []models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	for i := range attachments {
		attachments[i].TaskID = taskID
	}

	return r.db.Create(&attachments).Error
}

// FindAttachment finds an attachment belonging to a task
func (r *GormTaskRepository) FindAttachment(taskID, attachmentID uint64) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.Where("task_id = ?", taskID).
		First(&attachment, attachmentID).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment removes a single attachment record
func (r *GormTaskRepository) DeleteAttachment(attachmentID uint64) error {
	return r.db.Delete(&models.Attachment{}, attachmentID).Error
}
