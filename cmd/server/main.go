package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/task-assignment-api/internal/config"
	"github.com/taskdesk/task-assignment-api/internal/constants"
	"github.com/taskdesk/task-assignment-api/internal/database"
	apierrors "github.com/taskdesk/task-assignment-api/internal/errors"
	"github.com/taskdesk/task-assignment-api/internal/handlers"
	"github.com/taskdesk/task-assignment-api/internal/middleware"
	"github.com/taskdesk/task-assignment-api/internal/repository"
	"github.com/taskdesk/task-assignment-api/internal/services"
	"github.com/taskdesk/task-assignment-api/internal/storage"
	"github.com/taskdesk/task-assignment-api/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Blob store for attachments
	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	tokens := token.NewService(cfg.JWTSecret, constants.TokenTTL)

	// Repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	attachmentService := services.NewAttachmentService(store)
	authService := services.NewAuthService(userRepo, tokens)
	taskService := services.NewTaskService(taskRepo, userRepo, attachmentService)
	userService := services.NewUserService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)

	// Router. Panics become a generic 500 with no internal detail leaked
	// outside debug mode.
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("panic recovered: %v", recovered)
		apierrors.InternalError(c, nil)
		c.Abort()
	}))

	// Uploaded attachment blobs
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Assignment API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/create-first-admin", authHandler.CreateFirstAdmin)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/documents", taskHandler.AddDocuments)
			tasks.DELETE("/:id/documents/:docId", taskHandler.RemoveDocument)
		}

		// User management routes (admin only)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(tokens), middleware.RequireAdmin())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PUT("/:id/toggle-status", userHandler.ToggleUserStatus)
			users.PUT("/:id/role", userHandler.UpdateUserRole)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
