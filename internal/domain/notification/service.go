package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service defines the notification service interface
type Service interface {
	Create(ctx context.Context, notification *Notification) error

	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)

	GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)

	MarkAsRead(ctx context.Context, id uuid.UUID) error

	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceConfig holds the configuration for the notification service
type ServiceConfig struct {
	Repository Repository
	Logger     *logrus.Logger
}

// serviceImpl implements the notification Service interface
type serviceImpl struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new notification service
func NewService(config ServiceConfig) Service {
	return &serviceImpl{
		repo:   config.Repository,
		logger: config.Logger,
	}
}

// Create creates a new notification
func (s *serviceImpl) Create(ctx context.Context, notification *Notification) error {
	if notification.UserID == uuid.Nil || notification.Type == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.WithError(err).Error("Failed to create notification")
		return err
	}
	return nil
}

// GetByID retrieves a notification by its ID
func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUserID retrieves all notifications for a user
func (s *serviceImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

// GetUnreadByUserID retrieves unread notifications for a user
func (s *serviceImpl) GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	return s.repo.GetUnreadByUserID(ctx, userID, limit, offset)
}

// MarkAsRead marks a notification as read
func (s *serviceImpl) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *serviceImpl) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread counts unread notifications for a user
func (s *serviceImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Delete deletes a notification
func (s *serviceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
