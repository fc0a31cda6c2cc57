package constants

import "time"

// Authentication
const (
	MinPasswordLength = 6
	TokenTTL          = 30 * 24 * time.Hour
)

// Attachments
const (
	MaxAttachmentSize     = 5 << 20 // 5MB per file
	AttachmentContentType = "application/pdf"
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Context keys
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
)
