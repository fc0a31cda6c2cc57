package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/task-assignment-api/internal/dto"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/middleware"
	"github.com/taskdesk/task-assignment-api/internal/services"
	"github.com/taskdesk/task-assignment-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a filtered, paginated page of tasks. Non-admins only
// ever see tasks assigned to themselves.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(services.ListTasksInput{
		Requester:  user,
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assignedTo"),
		Search:     c.Query("search"),
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(user, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task from a multipart form with optional attachments
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Requester:   user,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
		Priority:    c.PostForm("priority"),
		DueDate:     c.PostForm("dueDate"),
		AssignedTo:  c.PostForm("assignedTo"),
		Files:       formFiles(c, "attachments"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; omitted fields retain their values
// and new attachments are appended.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Update(taskID, services.UpdateTaskInput{
		Requester:   user,
		Title:       formValue(c, "title"),
		Description: formValue(c, "description"),
		Status:      formValue(c, "status"),
		Priority:    formValue(c, "priority"),
		DueDate:     formValue(c, "dueDate"),
		AssignedTo:  formValue(c, "assignedTo"),
		Files:       formFiles(c, "attachments"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its attachment blobs
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(user, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Task deleted successfully")
}

// AddDocuments uploads documents to an existing task
func (h *TaskHandler) AddDocuments(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files := formFiles(c, "documents")
	if len(files) == 0 {
		files = formFiles(c, "document")
	}

	task, err := h.taskService.AddDocuments(user, taskID, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// RemoveDocument deletes a single document from a task
func (h *TaskHandler) RemoveDocument(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondNotAuthenticated(c)
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "docId")
	if !ok {
		return
	}

	task, err := h.taskService.RemoveDocument(user, taskID, docID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// parseIDParam parses a numeric URL parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// formValue returns a multipart form field if it was supplied non-empty.
// Empty values are treated as omitted, they never blank out stored fields.
func formValue(c *gin.Context, key string) *string {
	if v := c.PostForm(key); v != "" {
		return &v
	}
	return nil
}

// formFiles returns the uploaded files for a multipart field, if any.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
