package dto

import (
	"time"

	"github.com/taskdesk/task-assignment-api/internal/models"
)

// AttachmentDTO represents an attachment metadata record in API responses
type AttachmentDTO struct {
	ID           uint64    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// TaskDTO represents a task in API responses, with user references expanded
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     time.Time           `json:"due_date"`
	AssignedTo  *UserRefDTO         `json:"assigned_to,omitempty"`
	AssignedBy  *UserRefDTO         `json:"assigned_by,omitempty"`
	CreatedBy   *UserRefDTO         `json:"created_by,omitempty"`
	Attachments []AttachmentDTO     `json:"attachments"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks       []TaskDTO `json:"tasks"`
	Total       int64     `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// Conversion functions

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(a models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:           a.ID,
		Filename:     a.StoredName,
		OriginalName: a.OriginalName,
		Path:         a.Path,
		UploadedAt:   a.UploadedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Attachments: make([]AttachmentDTO, 0, len(task.Attachments)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include user references if preloaded
	if task.AssignedTo.ID != 0 {
		ref := ToUserRefDTO(task.AssignedTo)
		dto.AssignedTo = &ref
	}
	if task.AssignedBy.ID != 0 {
		ref := ToUserRefDTO(task.AssignedBy)
		dto.AssignedBy = &ref
	}
	if task.CreatedBy.ID != 0 {
		ref := ToUserRefDTO(task.CreatedBy)
		dto.CreatedBy = &ref
	}

	for _, a := range task.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(a))
	}

	return dto
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
}
