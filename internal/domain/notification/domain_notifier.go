package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Ref ties a notification to the records it is about
type Ref struct {
	TaskID     *uuid.UUID
	ProjectID  *uuid.UUID
	FromUserID *uuid.UUID
}

// DomainNotifier provides a generic way for domains to create notifications.
// Delivery beyond persistence is the concern of external consumers.
type DomainNotifier interface {
	// NotifyUser sends a notification to a specific user
	NotifyUser(ctx context.Context, userID uuid.UUID, notificationType Type, title, message string, ref Ref) error

	// NotifyUsers fans a notification out to several recipients
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, notificationType Type, title, message string, ref Ref) error
}

// domainNotifierImpl implements DomainNotifier
type domainNotifierImpl struct {
	service Service
	logger  *logrus.Logger
}

// NewDomainNotifier creates a new domain notifier
func NewDomainNotifier(service Service, logger *logrus.Logger) DomainNotifier {
	return &domainNotifierImpl{
		service: service,
		logger:  logger,
	}
}

// NotifyUser sends a notification to a specific user
func (n *domainNotifierImpl) NotifyUser(ctx context.Context, userID uuid.UUID, notificationType Type, title, message string, ref Ref) error {
	notification := &Notification{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       notificationType,
		Title:      title,
		Message:    message,
		TaskID:     ref.TaskID,
		ProjectID:  ref.ProjectID,
		FromUserID: ref.FromUserID,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}
	return n.service.Create(ctx, notification)
}

// NotifyUsers fans a notification out to several recipients. One failed
// recipient does not abort the rest; the first error is reported.
func (n *domainNotifierImpl) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, notificationType Type, title, message string, ref Ref) error {
	var firstErr error
	for _, id := range userIDs {
		if err := n.NotifyUser(ctx, id, notificationType, title, message, ref); err != nil {
			n.logger.WithError(err).WithField("user_id", id).Error("Failed to notify user")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
