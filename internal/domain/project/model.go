package project

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyMember   = errors.New("user is already a project member")
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type MemberList []uuid.UUID

// Value implements the driver.Valuer interface for MemberList
func (m MemberList) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for MemberList
func (m *MemberList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal MemberList value: %v", value)
	}
	return json.Unmarshal(bytes, m)
}

// Contains reports whether the list holds the given user
func (m MemberList) Contains(userID uuid.UUID) bool {
	for _, id := range m {
		if id == userID {
			return true
		}
	}
	return false
}

// Project groups tasks under a department with a member roster
type Project struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description"`
	Department  string        `json:"department" gorm:"index:idx_project_department"`
	Status      ProjectStatus `json:"status" gorm:"not null;default:'active';index:idx_project_status"`
	Color       string        `json:"color"`
	CreatedBy   uuid.UUID     `json:"created_by" gorm:"type:uuid;not null"`
	Members     MemberList    `json:"members" gorm:"type:jsonb"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"not null"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// Validate checks if the project data is valid
func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrInvalidInput
	}
	if !p.Status.IsValid() {
		return ErrInvalidInput
	}
	if p.CreatedBy == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new project record
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return p.Validate()
}

// BeforeUpdate is called before updating a project record
func (p *Project) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return p.Validate()
}
