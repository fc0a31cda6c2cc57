package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/task-assignment-api/internal/database"
	"github.com/taskdesk/task-assignment-api/internal/middleware"
	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/repository"
	"github.com/taskdesk/task-assignment-api/internal/services"
	"github.com/taskdesk/task-assignment-api/internal/storage"
	"github.com/taskdesk/task-assignment-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

// testEnv wires the full router the way cmd/server does, against an
// in-memory database and a temp-dir blob store.
type testEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	tokens    *token.Service
	uploadDir string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Attachment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadDir)
	require.NoError(t, err)

	tokens := token.NewService("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	attachmentService := services.NewAttachmentService(store)
	authService := services.NewAuthService(userRepo, tokens)
	taskService := services.NewTaskService(taskRepo, userRepo, attachmentService)
	userService := services.NewUserService(userRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(userService)

	r := gin.New()

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/create-first-admin", authHandler.CreateFirstAdmin)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(tokens))
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.POST("/:id/documents", taskHandler.AddDocuments)
	tasks.DELETE("/:id/documents/:docId", taskHandler.RemoveDocument)

	users := api.Group("/users")
	users.Use(middleware.RequireAuth(tokens), middleware.RequireAdmin())
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.PUT("/:id/toggle-status", userHandler.ToggleUserStatus)
	users.PUT("/:id/role", userHandler.UpdateUserRole)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{
		db:        db,
		router:    r,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	signed, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return signed
}

func (e *testEnv) createTask(t *testing.T, title string, creatorID, assigneeID uint64, status models.TaskStatus, priority models.TaskPriority) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		Description:  "Test description",
		Status:       status,
		Priority:     priority,
		DueDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AssignedToID: assigneeID,
		AssignedByID: creatorID,
		CreatedByID:  creatorID,
	}
	require.NoError(t, e.db.Create(task).Error)
	return task
}

// doJSON performs a JSON request, optionally authenticated.
func (e *testEnv) doJSON(t *testing.T, method, url string, payload interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, url, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// testFile is a file part for multipart requests.
type testFile struct {
	field       string
	name        string
	contentType string
	content     string
}

func pdfFile(field, name string) testFile {
	return testFile{
		field:       field,
		name:        name,
		contentType: "application/pdf",
		content:     "%PDF-1.4 test content",
	}
}

// doMultipart performs a multipart form request.
func (e *testEnv) doMultipart(t *testing.T, method, url string, fields map[string]string, files []testFile, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// dataOf returns the data object of a success envelope.
func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"], "expected success envelope, got %s", w.Body.String())
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %s", w.Body.String())
	return data
}

// violationFields returns the field names listed in a validation response.
func violationFields(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
	raw, ok := body["error"].([]interface{})
	require.True(t, ok, "expected error detail list, got %s", w.Body.String())

	fields := make([]string, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		require.True(t, ok)
		fields = append(fields, m["field"].(string))
	}
	return fields
}
