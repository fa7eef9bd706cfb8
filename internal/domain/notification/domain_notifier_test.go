package notification

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	Service
	created []*Notification
	failFor uuid.UUID
}

func (m *mockService) Create(ctx context.Context, n *Notification) error {
	if n.UserID == m.failFor {
		return errors.New("store unavailable")
	}
	m.created = append(m.created, n)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNotifyUser(t *testing.T) {
	svc := &mockService{}
	notifier := NewDomainNotifier(svc, quietLogger())

	userID := uuid.New()
	taskID := uuid.New()
	sender := uuid.New()

	err := notifier.NotifyUser(context.Background(), userID, TaskAssigned,
		"New Task Assigned", "You have been assigned \"Ship release\"",
		Ref{TaskID: &taskID, FromUserID: &sender})
	require.NoError(t, err)

	require.Len(t, svc.created, 1)
	n := svc.created[0]
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, TaskAssigned, n.Type)
	assert.Equal(t, "New Task Assigned", n.Title)
	assert.Equal(t, &taskID, n.TaskID)
	assert.Equal(t, &sender, n.FromUserID)
	assert.False(t, n.IsRead)
	assert.NotEqual(t, uuid.Nil, n.ID)
}

func TestNotifyUsersContinuesPastFailure(t *testing.T) {
	failing := uuid.New()
	first := uuid.New()
	last := uuid.New()

	svc := &mockService{failFor: failing}
	notifier := NewDomainNotifier(svc, quietLogger())

	err := notifier.NotifyUsers(context.Background(), []uuid.UUID{first, failing, last},
		ReviewRequest, "Task Ready for Review", "Dana marked \"Ship release\" as ready for review", Ref{})

	assert.Error(t, err)
	require.Len(t, svc.created, 2)
	assert.Equal(t, first, svc.created[0].UserID)
	assert.Equal(t, last, svc.created[1].UserID)
}
