package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the closed set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the closed set.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority     TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate      time.Time      `gorm:"not null;index" json:"due_date"`
	AssignedToID uint64         `gorm:"not null;index" json:"assigned_to_id"`
	AssignedByID uint64         `gorm:"not null" json:"assigned_by_id"`
	CreatedByID  uint64         `gorm:"not null;index" json:"created_by_id"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo  User         `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy  User         `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	CreatedBy   User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}
