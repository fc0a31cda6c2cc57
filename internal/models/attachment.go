package models

import (
	"time"

	"gorm.io/gorm"
)

// Attachment is a stored PDF blob's metadata record, scoped to one task.
type Attachment struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	TaskID       uint64         `gorm:"not null;index" json:"task_id"`
	StoredName   string         `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName string         `gorm:"type:varchar(255);not null" json:"original_name"`
	Path         string         `gorm:"type:varchar(512);not null" json:"path"`
	UploadedAt   time.Time      `json:"uploaded_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
