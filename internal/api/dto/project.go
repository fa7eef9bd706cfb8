package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest is the project creation payload
type CreateProjectRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description,omitempty"`
	Department  string      `json:"department,omitempty"`
	Status      string      `json:"status,omitempty"`
	Color       string      `json:"color,omitempty"`
	Members     []uuid.UUID `json:"members,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
}

// UpdateProjectRequest is the partial project update payload
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Color       *string    `json:"color,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// ProjectMemberRequest adds or removes a project member
type ProjectMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}
