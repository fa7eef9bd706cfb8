package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound     = errors.New("notification not found")
	ErrInvalidInput = errors.New("invalid notification input")
)

// Type represents the type of notification
type Type string

const (
	TaskAssigned     Type = "task_assigned"
	TaskUpdated      Type = "task_updated"
	CommentMention   Type = "comment_mention"
	DeadlineReminder Type = "deadline_reminder"
	StatusChange     Type = "status_change"
	ReviewRequest    Type = "review_request"
)

// Notification represents a notification entity. Only IsRead is mutable after
// creation.
type Notification struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Type       Type       `json:"type" gorm:"not null"`
	Title      string     `json:"title" gorm:"not null"`
	Message    string     `json:"message" gorm:"not null"`
	TaskID     *uuid.UUID `json:"task_id,omitempty" gorm:"type:uuid;index"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty" gorm:"type:uuid;index"`
	FromUserID *uuid.UUID `json:"from_user_id,omitempty" gorm:"type:uuid"`
	IsRead     bool       `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

// TableName specifies the table name for notifications
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate hook to set default values
func (n *Notification) BeforeCreate() error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}
