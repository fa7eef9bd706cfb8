package task

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidStatus   = errors.New("invalid task status")
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusBlocked:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type UUIDSlice []uuid.UUID

// Value implements the driver.Valuer interface for UUIDSlice
func (u UUIDSlice) Value() (driver.Value, error) {
	if len(u) == 0 {
		return "[]", nil
	}
	return json.Marshal(u)
}

// Scan implements the sql.Scanner interface for UUIDSlice
func (u *UUIDSlice) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal UUIDSlice value: %v", value)
	}
	return json.Unmarshal(bytes, u)
}

type StringSlice []string

// Value implements the driver.Valuer interface for StringSlice
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for StringSlice
func (s *StringSlice) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal StringSlice value: %v", value)
	}
	return json.Unmarshal(bytes, s)
}

// Task represents a task on a project board
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	ProjectID   uuid.UUID    `json:"project_id" gorm:"type:uuid;not null;index:idx_task_project"`
	AssigneeID  uuid.UUID    `json:"assignee_id" gorm:"type:uuid;not null;index:idx_task_assignee"`
	CreatedBy   uuid.UUID    `json:"created_by" gorm:"type:uuid;not null;index:idx_task_creator"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'todo';index:idx_task_status"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'medium';index:idx_task_priority"`
	DueDate     time.Time    `json:"due_date" gorm:"not null;index:idx_task_dates"`
	StartDate   *time.Time   `json:"start_date,omitempty" gorm:"index:idx_task_dates"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`

	Tags           StringSlice `json:"tags" gorm:"type:jsonb"`
	EstimatedHours float64     `json:"estimated_hours,omitempty"`
	ActualHours    float64     `json:"actual_hours,omitempty"`

	// Dependencies are informational only; no scheduling is enforced on them.
	Dependencies UUIDSlice `json:"dependencies" gorm:"type:jsonb"`

	Subtasks []Subtask `json:"subtasks" gorm:"foreignKey:TaskID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:TaskID"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// Subtask is a checklist item embedded in a task's lifecycle
type Subtask struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TaskID     uuid.UUID  `json:"task_id" gorm:"type:uuid;not null;index:idx_subtask_task"`
	Title      string     `json:"title" gorm:"not null"`
	Completed  bool       `json:"completed" gorm:"not null;default:false"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:uuid"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Position   int        `json:"position" gorm:"not null;default:0"`
}

// Comment is an append-only child of a task
type Comment struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	TaskID    uuid.UUID   `json:"task_id" gorm:"type:uuid;not null;index:idx_comment_task"`
	UserID    uuid.UUID   `json:"user_id" gorm:"type:uuid;not null"`
	Content   string      `json:"content" gorm:"not null"`
	Mentions  StringSlice `json:"mentions" gorm:"type:jsonb"`
	CreatedAt time.Time   `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"not null"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// TableName specifies the table name for the Subtask model
func (Subtask) TableName() string {
	return "subtasks"
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	if t.ProjectID == uuid.Nil || t.CreatedBy == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// BeforeUpdate is called before updating a task record
func (t *Task) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// SubtaskCompletionRatio is the share of completed subtasks, 0 when there are
// none.
func (t *Task) SubtaskCompletionRatio() float64 {
	if len(t.Subtasks) == 0 {
		return 0
	}
	completed := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(t.Subtasks))
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ParseMentions extracts @name tokens from comment content
func ParseMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		mentions = append(mentions, m[1])
	}
	return mentions
}

// MentionsUser reports whether a mention token refers to the given user name.
// Tokens carry no spaces, so they are matched against the first word of the
// name, case-insensitively.
func MentionsUser(token, name string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
	return strings.EqualFold(token, first)
}
