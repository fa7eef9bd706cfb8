package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest is the task creation payload
type CreateTaskRequest struct {
	Title          string      `json:"title" binding:"required"`
	Description    string      `json:"description,omitempty"`
	ProjectID      uuid.UUID   `json:"project_id" binding:"required"`
	AssigneeID     uuid.UUID   `json:"assignee_id" binding:"required"`
	Status         string      `json:"status,omitempty"`
	Priority       string      `json:"priority,omitempty"`
	DueDate        time.Time   `json:"due_date" binding:"required"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	EstimatedHours float64     `json:"estimated_hours,omitempty"`
	Dependencies   []uuid.UUID `json:"dependencies,omitempty"`
}

// UpdateTaskRequest is the partial task update payload
type UpdateTaskRequest struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Priority       *string     `json:"priority,omitempty"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`
	Dependencies   []uuid.UUID `json:"dependencies,omitempty"`
}

// UpdateTaskStatusRequest moves a task to a new status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignTaskRequest reassigns a task
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// CreateCommentRequest adds a comment to a task
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateSubtaskRequest adds a subtask to a task
type CreateSubtaskRequest struct {
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}
