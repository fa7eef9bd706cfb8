package timelog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrEntryNotFound = errors.New("time entry not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTimerRunning  = errors.New("a timer is already running for this user")
	ErrNoActiveTimer = errors.New("no active timer for this user")
	ErrUnknownTask   = errors.New("unknown task for time entry")
)

// EntrySource distinguishes how an entry was produced
type EntrySource string

const (
	SourceTimer  EntrySource = "timer"
	SourceManual EntrySource = "manual"
)

// DateLayout is the day-bucket key format for aggregation
const DateLayout = "2006-01-02"

// TimeEntry is one recorded block of work on a task. Date is the day bucket
// the entry counts toward, kept as a plain date string so aggregation is a
// string comparison rather than timezone arithmetic.
type TimeEntry struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	TaskID          uuid.UUID   `json:"task_id" gorm:"type:uuid;not null;index:idx_entry_task"`
	UserID          uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index:idx_entry_user"`
	Date            string      `json:"date" gorm:"not null;index:idx_entry_date"`
	DurationMinutes int         `json:"duration_minutes" gorm:"not null"`
	Notes           string      `json:"notes"`
	Source          EntrySource `json:"source" gorm:"not null;default:'manual'"`
	StartedAt       *time.Time  `json:"started_at,omitempty"`
	EndedAt         *time.Time  `json:"ended_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at" gorm:"not null"`
}

// TableName specifies the table name for the TimeEntry model
func (TimeEntry) TableName() string {
	return "time_entries"
}

// BeforeCreate is called before creating a new time entry record
func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Source == "" {
		e.Source = SourceManual
	}
	e.CreatedAt = time.Now()
	if e.TaskID == uuid.Nil || e.UserID == uuid.Nil || e.DurationMinutes <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// TimerSession is an in-memory running timer for a user
type TimerSession struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
	Notes     string    `json:"notes,omitempty"`
}
