package dto

import "github.com/google/uuid"

// StartTimerRequest begins a timer on a task
type StartTimerRequest struct {
	TaskID uuid.UUID `json:"task_id" binding:"required"`
	Notes  string    `json:"notes,omitempty"`
}

// ManualEntryRequest records a manually entered duration
type ManualEntryRequest struct {
	TaskID  uuid.UUID `json:"task_id" binding:"required"`
	Hours   int       `json:"hours" binding:"min=0"`
	Minutes int       `json:"minutes" binding:"min=0,max=59"`
	Date    string    `json:"date,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}
