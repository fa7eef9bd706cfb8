package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EntityType identifies what kind of record an activity entry refers to
type EntityType string

const (
	EntityTask    EntityType = "task"
	EntityProject EntityType = "project"
	EntityUser    EntityType = "user"
	EntityComment EntityType = "comment"
)

// Log is a single audit entry: who did what to which entity
type Log struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_activity_user"`
	Action     string         `json:"action" gorm:"type:varchar(255);not null"`
	EntityType EntityType     `json:"entity_type" gorm:"type:varchar(32);not null;index:idx_activity_entity"`
	EntityID   uuid.UUID      `json:"entity_id" gorm:"type:uuid;not null;index:idx_activity_entity"`
	Details    datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null;index:idx_activity_created"`
}

// TableName specifies the table name for activity logs
func (Log) TableName() string {
	return "activity_logs"
}
