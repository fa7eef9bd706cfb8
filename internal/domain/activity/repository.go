package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Recorder appends audit entries. Mutating services depend on this rather than
// the full repository.
type Recorder interface {
	Record(ctx context.Context, userID uuid.UUID, action string, entityType EntityType, entityID uuid.UUID, details map[string]interface{}) error
}

// Repository defines persistence operations for activity logs
type Repository interface {
	Recorder
	FindByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, limit int) ([]Log, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Log, error)
}

type activityRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, userID uuid.UUID, action string, entityType EntityType, entityID uuid.UUID, details map[string]interface{}) error {
	var payload datatypes.JSON
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(b)
	}

	entry := &Log{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
		CreatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) FindByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, limit int) ([]Log, error) {
	var logs []Log
	if limit <= 0 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *activityRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Log, error) {
	var logs []Log
	if limit <= 0 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
