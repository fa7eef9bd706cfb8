package timelog

import (
	"context"
	"errors"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryFilter defines filtering options for time entries
type EntryFilter struct {
	TaskID    *uuid.UUID
	UserID    *uuid.UUID
	DateStart string
	DateEnd   string
	Page      int
	PageSize  int
}

// Repository defines the interface for time entry persistence operations
type Repository interface {
	Create(ctx context.Context, entry *TimeEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]TimeEntry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]TimeEntry, error)
	FindAll(ctx context.Context, filter EntryFilter) ([]TimeEntry, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type entryRepository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error) {
	var entry TimeEntry
	result := r.db.WithContext(ctx).First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

func (r *entryRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]TimeEntry, error) {
	var entries []TimeEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]TimeEntry, error) {
	var entries []TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepository) FindAll(ctx context.Context, filter EntryFilter) ([]TimeEntry, int64, error) {
	var entries []TimeEntry
	var total int64

	query := r.db.WithContext(ctx)

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.DateStart != "" {
		query = query.Where("date >= ?", filter.DateStart)
	}
	if filter.DateEnd != "" {
		query = query.Where("date <= ?", filter.DateEnd)
	}

	if err := query.Model(&TimeEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}
	query = query.Offset(filter.Page * filter.PageSize).Limit(filter.PageSize)

	if err := query.Order("date ASC, created_at ASC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *entryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&TimeEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *entryRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&TimeEntry{}).Error
}
