package task

import (
	"context"
	"testing"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/notification"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTaskRepository struct {
	tasks    map[uuid.UUID]*Task
	comments map[uuid.UUID][]Comment
	deletes  []string
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:    make(map[uuid.UUID]*Task),
		comments: make(map[uuid.UUID][]Comment),
	}
}

func (m *mockTaskRepository) Create(ctx context.Context, task *Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskRepository) FindAll(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	var out []Task
	for _, t := range m.tasks {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AssigneeID != nil && t.AssigneeID != *filter.AssigneeID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(m.tasks, id)
	m.deletes = append(m.deletes, "task")
	return nil
}

func (m *mockTaskRepository) SetActualHours(ctx context.Context, id uuid.UUID, hours float64) error {
	if t, ok := m.tasks[id]; ok {
		t.ActualHours = hours
	}
	return nil
}

func (m *mockTaskRepository) CreateSubtask(ctx context.Context, subtask *Subtask) error {
	t, ok := m.tasks[subtask.TaskID]
	if !ok {
		return ErrTaskNotFound
	}
	t.Subtasks = append(t.Subtasks, *subtask)
	return nil
}

func (m *mockTaskRepository) UpdateSubtask(ctx context.Context, subtask *Subtask) error {
	t, ok := m.tasks[subtask.TaskID]
	if !ok {
		return ErrTaskNotFound
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtask.ID {
			t.Subtasks[i] = *subtask
			return nil
		}
	}
	return ErrSubtaskNotFound
}

func (m *mockTaskRepository) DeleteSubtasksByTask(ctx context.Context, taskID uuid.UUID) error {
	if t, ok := m.tasks[taskID]; ok {
		t.Subtasks = nil
	}
	m.deletes = append(m.deletes, "subtasks")
	return nil
}

func (m *mockTaskRepository) CreateComment(ctx context.Context, comment *Comment) error {
	if _, ok := m.tasks[comment.TaskID]; !ok {
		return ErrTaskNotFound
	}
	m.comments[comment.TaskID] = append(m.comments[comment.TaskID], *comment)
	return nil
}

func (m *mockTaskRepository) DeleteCommentsByTask(ctx context.Context, taskID uuid.UUID) error {
	delete(m.comments, taskID)
	m.deletes = append(m.deletes, "comments")
	return nil
}

type sentNotification struct {
	UserID uuid.UUID
	Type   notification.Type
	Title  string
}

type mockNotifier struct {
	sent []sentNotification
}

func (m *mockNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, notificationType notification.Type, title, message string, ref notification.Ref) error {
	m.sent = append(m.sent, sentNotification{UserID: userID, Type: notificationType, Title: title})
	return nil
}

func (m *mockNotifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, notificationType notification.Type, title, message string, ref notification.Ref) error {
	for _, id := range userIDs {
		_ = m.NotifyUser(ctx, id, notificationType, title, message, ref)
	}
	return nil
}

type mockUserDirectory struct {
	users    []user.User
	managers []user.User
}

func (m *mockUserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserDirectory) ListUsers(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range m.users {
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserDirectory) ActiveManagers(ctx context.Context) ([]user.User, error) {
	return m.managers, nil
}

type mockEntryPurge struct {
	repo *mockTaskRepository
}

func (m *mockEntryPurge) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	m.repo.deletes = append(m.repo.deletes, "entries")
	return nil
}

func newTestService(repo *mockTaskRepository, users *mockUserDirectory, notifier *mockNotifier) Service {
	return NewService(repo, users, notifier, nil, &mockEntryPurge{repo: repo}, nil, zap.NewNop())
}

func seedTask(repo *mockTaskRepository, assigneeID, createdBy uuid.UUID) *Task {
	t := &Task{
		ID:         uuid.New(),
		Title:      "Prepare quarterly report",
		ProjectID:  uuid.New(),
		AssigneeID: assigneeID,
		CreatedBy:  createdBy,
		Status:     TaskStatusInProgress,
		Priority:   TaskPriorityMedium,
		DueDate:    time.Now().AddDate(0, 0, 7),
	}
	repo.tasks[t.ID] = t
	return t
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()
	assignee := uuid.New()

	t.Run("Assignee is notified when someone else creates the task", func(t *testing.T) {
		repo := newMockTaskRepository()
		notifier := &mockNotifier{}
		svc := newTestService(repo, &mockUserDirectory{}, notifier)

		created, err := svc.CreateTask(ctx, CreateTaskInput{
			Title:      "Set up staging environment",
			ProjectID:  uuid.New(),
			AssigneeID: assignee,
			CreatedBy:  creator,
			DueDate:    time.Now().AddDate(0, 0, 5),
		})
		require.NoError(t, err)
		assert.Equal(t, TaskStatusTodo, created.Status)
		assert.Equal(t, TaskPriorityMedium, created.Priority)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, assignee, notifier.sent[0].UserID)
		assert.Equal(t, notification.TaskAssigned, notifier.sent[0].Type)
	})

	t.Run("Self-assigned task sends no notification", func(t *testing.T) {
		repo := newMockTaskRepository()
		notifier := &mockNotifier{}
		svc := newTestService(repo, &mockUserDirectory{}, notifier)

		_, err := svc.CreateTask(ctx, CreateTaskInput{
			Title:      "Review my own backlog",
			ProjectID:  uuid.New(),
			AssigneeID: creator,
			CreatedBy:  creator,
			DueDate:    time.Now().AddDate(0, 0, 5),
		})
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})

	t.Run("Blank title is rejected", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})

		_, err := svc.CreateTask(ctx, CreateTaskInput{Title: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, repo.tasks)
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	employee := &user.User{ID: uuid.New(), Name: "Dana Reyes", Role: user.RoleEmployee, IsActive: true}
	manager := &user.User{ID: uuid.New(), Name: "Priya Nair", Role: user.RoleManagement, IsActive: true}
	admin := &user.User{ID: uuid.New(), Name: "Sam Okafor", Role: user.RoleAdmin, IsActive: true}

	t.Run("Moving to done stamps the completion time", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, employee.ID, manager.ID)

		updated, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatusDone, employee)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusDone, updated.Status)
		require.NotNil(t, updated.CompletedAt)
		assert.WithinDuration(t, time.Now(), *updated.CompletedAt, time.Second)
	})

	t.Run("Reverting from done keeps the completion time", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, employee.ID, manager.ID)

		_, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatusDone, employee)
		require.NoError(t, err)

		reverted, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatusInProgress, employee)
		require.NoError(t, err)
		assert.Equal(t, TaskStatusInProgress, reverted.Status)
		assert.NotNil(t, reverted.CompletedAt, "completion time is a historical record")
	})

	t.Run("Any transition is allowed, including done back to todo", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, employee.ID, manager.ID)

		for _, status := range []TaskStatus{TaskStatusDone, TaskStatusTodo, TaskStatusBlocked, TaskStatusReview} {
			_, err := svc.UpdateTaskStatus(ctx, seeded.ID, status, manager)
			require.NoError(t, err)
		}
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, employee.ID, manager.ID)

		_, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatus("archived"), manager)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Employee requesting review notifies every active manager once", func(t *testing.T) {
		repo := newMockTaskRepository()
		notifier := &mockNotifier{}
		users := &mockUserDirectory{managers: []user.User{*manager, *admin}}
		svc := newTestService(repo, users, notifier)
		seeded := seedTask(repo, employee.ID, manager.ID)

		_, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatusReview, employee)
		require.NoError(t, err)

		require.Len(t, notifier.sent, 2)
		recipients := map[uuid.UUID]int{}
		for _, n := range notifier.sent {
			assert.Equal(t, notification.ReviewRequest, n.Type)
			assert.Equal(t, "Task Ready for Review", n.Title)
			recipients[n.UserID]++
		}
		assert.Equal(t, 1, recipients[manager.ID])
		assert.Equal(t, 1, recipients[admin.ID])
	})

	t.Run("Manager moving a task to review triggers no fan-out", func(t *testing.T) {
		repo := newMockTaskRepository()
		notifier := &mockNotifier{}
		users := &mockUserDirectory{managers: []user.User{*manager, *admin}}
		svc := newTestService(repo, users, notifier)
		seeded := seedTask(repo, employee.ID, manager.ID)

		_, err := svc.UpdateTaskStatus(ctx, seeded.ID, TaskStatusReview, manager)
		require.NoError(t, err)
		assert.Empty(t, notifier.sent)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	author := user.User{ID: uuid.New(), Name: "Dana Reyes", IsActive: true}
	colleague := user.User{ID: uuid.New(), Name: "Priya Nair", IsActive: true}
	inactive := user.User{ID: uuid.New(), Name: "Lee Park", IsActive: false}

	t.Run("Blank content is a no-op", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, author.ID, author.ID)

		c, err := svc.AddComment(ctx, seeded.ID, author.ID, "   ")
		assert.NoError(t, err)
		assert.Nil(t, c)
		assert.Empty(t, repo.comments[seeded.ID])
	})

	t.Run("Mentioned active user is notified, the author is not", func(t *testing.T) {
		repo := newMockTaskRepository()
		notifier := &mockNotifier{}
		users := &mockUserDirectory{users: []user.User{author, colleague, inactive}}
		svc := newTestService(repo, users, notifier)
		seeded := seedTask(repo, author.ID, author.ID)

		c, err := svc.AddComment(ctx, seeded.ID, author.ID, "@Priya can you look at this? cc @Dana @Lee")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, StringSlice{"Priya", "Dana", "Lee"}, c.Mentions)

		require.Len(t, notifier.sent, 1, "self-mentions and inactive users are skipped")
		assert.Equal(t, colleague.ID, notifier.sent[0].UserID)
		assert.Equal(t, notification.CommentMention, notifier.sent[0].Type)
	})
}

func TestSubtasks(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("Blank subtask title is a no-op", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, owner, owner)

		sub, err := svc.AddSubtask(ctx, seeded.ID, CreateSubtaskInput{Title: ""})
		assert.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("Subtasks are appended in order and toggle in place", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, owner, owner)

		first, err := svc.AddSubtask(ctx, seeded.ID, CreateSubtaskInput{Title: "Draft outline"})
		require.NoError(t, err)
		second, err := svc.AddSubtask(ctx, seeded.ID, CreateSubtaskInput{Title: "Collect figures"})
		require.NoError(t, err)
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, 1, second.Position)

		toggled, err := svc.ToggleSubtask(ctx, seeded.ID, first.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Completed)

		toggled, err = svc.ToggleSubtask(ctx, seeded.ID, first.ID)
		require.NoError(t, err)
		assert.False(t, toggled.Completed)
	})

	t.Run("Toggling a missing subtask fails", func(t *testing.T) {
		repo := newMockTaskRepository()
		svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
		seeded := seedTask(repo, owner, owner)

		_, err := svc.ToggleSubtask(ctx, seeded.ID, uuid.New())
		assert.ErrorIs(t, err, ErrSubtaskNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	actor := &user.User{ID: uuid.New(), Name: "Sam Okafor", Role: user.RoleAdmin}

	repo := newMockTaskRepository()
	svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
	seeded := seedTask(repo, actor.ID, actor.ID)

	err := svc.DeleteTask(ctx, seeded.ID, actor)
	require.NoError(t, err)

	assert.Equal(t, []string{"comments", "subtasks", "entries", "task"}, repo.deletes,
		"children go before the task row")
	assert.Empty(t, repo.tasks)
}

func TestDeleteTasksByAssignee(t *testing.T) {
	ctx := context.Background()
	target := uuid.New()
	other := uuid.New()

	repo := newMockTaskRepository()
	svc := newTestService(repo, &mockUserDirectory{}, &mockNotifier{})
	seedTask(repo, target, other)
	seedTask(repo, target, other)
	kept := seedTask(repo, other, other)

	deleted, err := svc.DeleteTasksByAssignee(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = svc.GetTask(ctx, kept.ID)
	assert.NoError(t, err)
}
