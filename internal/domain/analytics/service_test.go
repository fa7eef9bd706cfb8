package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/project"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTasks struct {
	tasks []task.Task
	calls int
}

func (s *stubTasks) FindAll(ctx context.Context, filter task.TaskFilter) ([]task.Task, int64, error) {
	s.calls++
	return s.tasks, int64(len(s.tasks)), nil
}

type stubProjects struct {
	projects []project.Project
}

func (s *stubProjects) FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error) {
	return s.projects, int64(len(s.projects)), nil
}

type stubUsers struct {
	users []user.User
}

func (s *stubUsers) FindAll(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	return s.users, int64(len(s.users)), nil
}

type stubEntries struct {
	entries []timelog.TimeEntry
}

func (s *stubEntries) FindAll(ctx context.Context, filter timelog.EntryFilter) ([]timelog.TimeEntry, int64, error) {
	return s.entries, int64(len(s.entries)), nil
}

type mapCache struct {
	values map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return cache.ErrCacheNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func TestOverviewCacheTracksClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := &stubTasks{tasks: []task.Task{
		{Status: task.TaskStatusTodo, Priority: task.TaskPriorityLow, DueDate: now.Add(45 * time.Second)},
	}}
	svc := NewService(tasks, &stubProjects{}, &stubUsers{}, &stubEntries{}, newMapCache(), zap.NewNop())

	first, err := svc.Overview(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, first.Overdue)

	second, err := svc.Overview(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Overdue, "a task crossing its due date shows up without a mutation")

	calls := tasks.calls
	_, err = svc.Overview(ctx, now.Add(2*time.Minute+10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, calls, tasks.calls, "same-minute calls are served from cache")
}

func TestEmployeesOrderedByRequestedKey(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)

	behind := user.User{ID: uuid.New(), Name: "Dana Reyes"}
	ahead := user.User{ID: uuid.New(), Name: "Priya Nair"}

	tasks := &stubTasks{tasks: []task.Task{
		{AssigneeID: behind.ID, Status: task.TaskStatusTodo, DueDate: future},
		{AssigneeID: ahead.ID, Status: task.TaskStatusDone, DueDate: future},
	}}
	users := &stubUsers{users: []user.User{behind, ahead}}
	svc := NewService(tasks, &stubProjects{}, users, &stubEntries{}, newMapCache(), zap.NewNop())

	employees, err := svc.Employees(ctx, now, OrderByCompletionDesc)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, ahead.Name, employees[0].Name, "best performing first")
	assert.Equal(t, behind.Name, employees[1].Name)

	employees, err = svc.Employees(ctx, now, OrderByCompletionAsc)
	require.NoError(t, err)
	assert.Equal(t, behind.Name, employees[0].Name)
}
