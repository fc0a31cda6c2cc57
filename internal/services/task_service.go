package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/policy"
	"github.com/taskdesk/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskForbidden      = errors.New("not authorized to access this task")
	ErrAttachmentNotFound = errors.New("document not found")
)

// taskPreloads are the relations expanded in task responses.
var taskPreloads = []string{"AssignedTo", "AssignedBy", "CreatedBy", "Attachments"}

// TaskService enforces creation, update, delete, and query rules on top of
// the task repository, gated by the access policy.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	attachments *AttachmentService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, attachments *AttachmentService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		attachments: attachments,
	}
}

// ListTasksInput represents filters for listing tasks. Enum and ID fields
// arrive raw from the query string and are validated here.
type ListTasksInput struct {
	Requester  *models.User
	Status     string
	Priority   string
	AssignedTo string
	Search     string
	Page       int
	PageSize   int
}

// List returns a page of tasks, newest created first. Non-admin requesters
// only ever see tasks assigned to themselves, regardless of the requested
// filter.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, int64, error) {
	var violations []FieldViolation

	filter := repository.TaskFilter{
		Search:   strings.TrimSpace(input.Search),
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			violations = append(violations, FieldViolation{Field: "status", Message: "Invalid status"})
		} else {
			filter.Status = &status
		}
	}
	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		if !priority.Valid() {
			violations = append(violations, FieldViolation{Field: "priority", Message: "Invalid priority"})
		} else {
			filter.Priority = &priority
		}
	}

	if input.Requester.Role == models.RoleAdmin {
		if input.AssignedTo != "" {
			id, err := strconv.ParseUint(input.AssignedTo, 10, 64)
			if err != nil {
				violations = append(violations, FieldViolation{Field: "assignedTo", Message: "Invalid user ID"})
			} else {
				filter.AssignedToID = &id
			}
		}
	} else {
		// Server-side override, not a client trust boundary.
		filter.AssignedToID = &input.Requester.ID
	}

	if len(violations) > 0 {
		return nil, 0, newValidationError(violations)
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Get returns a task with its relations expanded, if the requester may view it.
func (s *TaskService) Get(requester *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionView) {
		return nil, ErrTaskForbidden
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task. Enum, date, and
// reference fields arrive raw from the multipart form.
type CreateTaskInput struct {
	Requester   *models.User
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	AssignedTo  string
	Files       []*multipart.FileHeader
}

// Create validates all fields at once, stores the attachments, and persists
// the task with createdBy = assignedBy = requester.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	// Explicit default-filling before validation; never silent at the
	// storage layer.
	if input.Status == "" {
		input.Status = string(models.TaskStatusPending)
	}
	if input.Priority == "" {
		input.Priority = string(models.TaskPriorityMedium)
	}

	var violations []FieldViolation

	if strings.TrimSpace(input.Title) == "" {
		violations = append(violations, FieldViolation{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(input.Description) == "" {
		violations = append(violations, FieldViolation{Field: "description", Message: "Description is required"})
	}

	status := models.TaskStatus(input.Status)
	if !status.Valid() {
		violations = append(violations, FieldViolation{Field: "status", Message: "Invalid status"})
	}
	priority := models.TaskPriority(input.Priority)
	if !priority.Valid() {
		violations = append(violations, FieldViolation{Field: "priority", Message: "Invalid priority"})
	}

	var dueDate time.Time
	if input.DueDate == "" {
		violations = append(violations, FieldViolation{Field: "dueDate", Message: "Due date is required"})
	} else {
		parsed, err := parseDueDate(input.DueDate)
		if err != nil {
			violations = append(violations, FieldViolation{Field: "dueDate", Message: "Invalid date format"})
		} else {
			dueDate = parsed
		}
	}

	var assignee *models.User
	if input.AssignedTo == "" {
		violations = append(violations, FieldViolation{Field: "assignedTo", Message: "Assigned user is required"})
	} else {
		found, violation := s.resolveAssignee(input.AssignedTo)
		if violation != nil {
			violations = append(violations, *violation)
		} else {
			assignee = found
		}
	}

	violations = append(violations, s.attachments.ValidateFiles("attachments", input.Files)...)

	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	own := policy.Ownership{CreatedBy: input.Requester.ID, AssignedTo: assignee.ID}
	if !policy.Allow(input.Requester.Role, input.Requester.ID, own, policy.ActionCreate) {
		return nil, ErrTaskForbidden
	}

	attachments, err := s.attachments.StoreFiles(input.Files)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       status,
		Priority:     priority,
		DueDate:      dueDate,
		AssignedToID: assignee.ID,
		AssignedByID: input.Requester.ID,
		CreatedByID:  input.Requester.ID,
		Attachments:  attachments,
	}

	if err := s.taskRepo.Create(task); err != nil {
		for _, a := range attachments {
			s.attachments.Remove(a.StoredName)
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateTaskInput represents a partial update. Nil fields retain their prior
// values; new attachments append to the existing list.
type UpdateTaskInput struct {
	Requester   *models.User
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	AssignedTo  *string
	Files       []*multipart.FileHeader
}

// Update overwrites only the supplied fields. Creator and assignee may edit;
// changing the assignee is the assign action and needs admin rights.
func (s *TaskService) Update(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	requester := input.Requester
	if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionEdit) {
		return nil, ErrTaskForbidden
	}

	var violations []FieldViolation

	if input.Status != nil && !models.TaskStatus(*input.Status).Valid() {
		violations = append(violations, FieldViolation{Field: "status", Message: "Invalid status"})
	}
	if input.Priority != nil && !models.TaskPriority(*input.Priority).Valid() {
		violations = append(violations, FieldViolation{Field: "priority", Message: "Invalid priority"})
	}

	var dueDate *time.Time
	if input.DueDate != nil {
		parsed, err := parseDueDate(*input.DueDate)
		if err != nil {
			violations = append(violations, FieldViolation{Field: "dueDate", Message: "Invalid date format"})
		} else {
			dueDate = &parsed
		}
	}

	var assignee *models.User
	if input.AssignedTo != nil {
		found, violation := s.resolveAssignee(*input.AssignedTo)
		if violation != nil {
			violations = append(violations, *violation)
		} else {
			assignee = found
		}
	}

	violations = append(violations, s.attachments.ValidateFiles("attachments", input.Files)...)

	if len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	if assignee != nil && assignee.ID != task.AssignedToID {
		if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionAssign) {
			return nil, ErrTaskForbidden
		}
		task.AssignedToID = assignee.ID
		task.AssignedByID = requester.ID
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if dueDate != nil {
		task.DueDate = *dueDate
	}

	// Blobs are written before any metadata so a task never references a
	// blob that failed to write.
	attachments, err := s.attachments.StoreFiles(input.Files)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		for _, a := range attachments {
			s.attachments.Remove(a.StoredName)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.taskRepo.AddAttachments(task.ID, attachments); err != nil {
		for _, a := range attachments {
			s.attachments.Remove(a.StoredName)
		}
		return nil, fmt.Errorf("failed to save attachments: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// Delete removes a task. Restricted to the creator for non-admins, stricter
// than edit. Attachment blobs are removed best-effort before the record.
func (s *TaskService) Delete(requester *models.User, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID, "Attachments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionDelete) {
		return ErrTaskForbidden
	}

	for _, a := range task.Attachments {
		s.attachments.Remove(a.StoredName)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AddDocuments appends uploaded documents to a task. Same authorization
// surface as update.
func (s *TaskService) AddDocuments(requester *models.User, taskID uint64, files []*multipart.FileHeader) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionEdit) {
		return nil, ErrTaskForbidden
	}

	if len(files) == 0 {
		return nil, newValidationError([]FieldViolation{{Field: "documents", Message: "No file uploaded"}})
	}

	if violations := s.attachments.ValidateFiles("documents", files); len(violations) > 0 {
		return nil, newValidationError(violations)
	}

	attachments, err := s.attachments.StoreFiles(files)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.AddAttachments(task.ID, attachments); err != nil {
		for _, a := range attachments {
			s.attachments.Remove(a.StoredName)
		}
		return nil, fmt.Errorf("failed to save documents: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// RemoveDocument deletes one attachment record and its blob. The metadata
// removal is authoritative; the blob delete is best-effort.
func (s *TaskService) RemoveDocument(requester *models.User, taskID, attachmentID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.Allow(requester.Role, requester.ID, ownershipOf(task), policy.ActionEdit) {
		return nil, ErrTaskForbidden
	}

	attachment, err := s.taskRepo.FindAttachment(taskID, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	if err := s.taskRepo.DeleteAttachment(attachment.ID); err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}

	s.attachments.Remove(attachment.StoredName)

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// resolveAssignee parses a raw user ID and checks the referenced account is
// a valid assignment target.
func (s *TaskService) resolveAssignee(raw string) (*models.User, *FieldViolation) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &FieldViolation{Field: "assignedTo", Message: "Invalid user ID"}
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &FieldViolation{Field: "assignedTo", Message: "Assigned user does not exist"}
		}
		return nil, &FieldViolation{Field: "assignedTo", Message: "Failed to verify assigned user"}
	}
	if !user.Active {
		return nil, &FieldViolation{Field: "assignedTo", Message: "Assigned user is deactivated"}
	}

	return user, nil
}

func ownershipOf(task *models.Task) policy.Ownership {
	return policy.Ownership{
		CreatedBy:  task.CreatedByID,
		AssignedTo: task.AssignedToID,
	}
}

// parseDueDate accepts a plain date or a full RFC3339 timestamp.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
