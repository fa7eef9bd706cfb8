package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/activity"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/events"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/notification"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes dashboard invalidation events. Implemented by the
// Redis cache client.
type EventPublisher interface {
	PublishDashboardEvent(ctx context.Context, event *events.DashboardEvent) error
}

// UserDirectory resolves users for notification fan-out. Implemented by the
// user service.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	ListUsers(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error)
	ActiveManagers(ctx context.Context) ([]user.User, error)
}

// TimeEntryPurge removes a task's time entries during cascade deletion.
// Implemented by the timelog repository.
type TimeEntryPurge interface {
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	GetProjectTasks(ctx context.Context, projectID uuid.UUID, filter TaskFilter) ([]Task, int64, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput, actor *user.User) (*Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, actor *user.User) (*Task, error)
	AssignTask(ctx context.Context, id, assigneeID uuid.UUID, actor *user.User) (*Task, error)
	AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*Comment, error)
	AddSubtask(ctx context.Context, taskID uuid.UUID, input CreateSubtaskInput) (*Subtask, error)
	ToggleSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) (*Subtask, error)
	DeleteTask(ctx context.Context, id uuid.UUID, actor *user.User) error
	DeleteTasksByProject(ctx context.Context, projectID uuid.UUID) (int, error)
	DeleteTasksByAssignee(ctx context.Context, assigneeID uuid.UUID) (int, error)
	AtRiskTasks(ctx context.Context, now time.Time) ([]Task, error)
}

type CreateTaskInput struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ProjectID      uuid.UUID    `json:"project_id"`
	AssigneeID     uuid.UUID    `json:"assignee_id"`
	CreatedBy      uuid.UUID    `json:"created_by"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        time.Time    `json:"due_date"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	EstimatedHours float64      `json:"estimated_hours,omitempty"`
	Dependencies   []uuid.UUID  `json:"dependencies,omitempty"`
}

type UpdateTaskInput struct {
	Title          *string       `json:"title,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Priority       *TaskPriority `json:"priority,omitempty"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	StartDate      *time.Time    `json:"start_date,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	EstimatedHours *float64      `json:"estimated_hours,omitempty"`
	Dependencies   []uuid.UUID   `json:"dependencies,omitempty"`
}

type CreateSubtaskInput struct {
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

type service struct {
	repo     TaskRepository
	users    UserDirectory
	notifier notification.DomainNotifier
	audit    activity.Recorder
	entries  TimeEntryPurge
	publish  EventPublisher
	logger   *zap.Logger
}

func NewService(repo TaskRepository, users UserDirectory, notifier notification.DomainNotifier, audit activity.Recorder, entries TimeEntryPurge, publish EventPublisher, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		audit:    audit,
		entries:  entries,
		publish:  publish,
		logger:   logger,
	}
}

func (s *service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = TaskPriorityMedium
	}

	t := &Task{
		ID:             uuid.New(),
		Title:          input.Title,
		Description:    input.Description,
		ProjectID:      input.ProjectID,
		AssigneeID:     input.AssigneeID,
		CreatedBy:      input.CreatedBy,
		Status:         input.Status,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		StartDate:      input.StartDate,
		Tags:           input.Tags,
		EstimatedHours: input.EstimatedHours,
		Dependencies:   input.Dependencies,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	if t.AssigneeID != uuid.Nil && t.AssigneeID != t.CreatedBy {
		err := s.notifier.NotifyUser(ctx, t.AssigneeID, notification.TaskAssigned,
			"New Task Assigned",
			fmt.Sprintf("You have been assigned %q", t.Title),
			notification.Ref{TaskID: &t.ID, ProjectID: &t.ProjectID, FromUserID: &t.CreatedBy})
		if err != nil {
			s.logger.Error("Failed to notify assignee", zap.String("task_id", t.ID.String()), zap.Error(err))
		}
	}

	s.record(ctx, t.CreatedBy, "task_created", t.ID, map[string]interface{}{
		"title":  t.Title,
		"status": string(t.Status),
	})
	s.publishInvalidate(ctx, t.CreatedBy, t.ID, "task_created")

	return t, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) GetProjectTasks(ctx context.Context, projectID uuid.UUID, filter TaskFilter) ([]Task, int64, error) {
	filter.ProjectID = &projectID
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput, actor *user.User) (*Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidInput
		}
		t.Priority = *input.Priority
	}
	if input.DueDate != nil {
		t.DueDate = *input.DueDate
	}
	if input.StartDate != nil {
		t.StartDate = input.StartDate
	}
	if input.Tags != nil {
		t.Tags = input.Tags
	}
	if input.EstimatedHours != nil {
		t.EstimatedHours = *input.EstimatedHours
	}
	if input.Dependencies != nil {
		t.Dependencies = input.Dependencies
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.record(ctx, actor.ID, "task_updated", t.ID, map[string]interface{}{
		"title": t.Title,
	})
	s.publishInvalidate(ctx, actor.ID, t.ID, "task_updated")

	return t, nil
}

// UpdateTaskStatus moves a task to a new status. Transitions are deliberately
// permissive (any status to any other); what stays fixed is the set of side
// effects: updated_at always, completed_at when the task lands on done, a
// review-request fan-out when an employee asks for review, and an audit entry
// for every change.
func (s *service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, actor *user.User) (*Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := t.Status
	now := time.Now()
	t.Status = status
	t.UpdatedAt = now
	if status == TaskStatusDone {
		t.CompletedAt = &now
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	if status == TaskStatusReview && actor.Role == user.RoleEmployee {
		s.requestReview(ctx, t, actor)
	}

	s.record(ctx, actor.ID, fmt.Sprintf("Updated task status to %s", status), t.ID, map[string]interface{}{
		"from": string(oldStatus),
		"to":   string(status),
	})
	s.publishInvalidate(ctx, actor.ID, t.ID, "task_status_updated")

	return t, nil
}

// requestReview notifies every active management and admin user that a task is
// ready for review.
func (s *service) requestReview(ctx context.Context, t *Task, actor *user.User) {
	managers, err := s.users.ActiveManagers(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve review audience", zap.String("task_id", t.ID.String()), zap.Error(err))
		return
	}

	recipients := make([]uuid.UUID, 0, len(managers))
	for _, m := range managers {
		recipients = append(recipients, m.ID)
	}

	err = s.notifier.NotifyUsers(ctx, recipients, notification.ReviewRequest,
		"Task Ready for Review",
		fmt.Sprintf("%s marked %q as ready for review", actor.Name, t.Title),
		notification.Ref{TaskID: &t.ID, ProjectID: &t.ProjectID, FromUserID: &actor.ID})
	if err != nil {
		s.logger.Error("Failed to send review requests", zap.String("task_id", t.ID.String()), zap.Error(err))
	}
}

func (s *service) AssignTask(ctx context.Context, id, assigneeID uuid.UUID, actor *user.User) (*Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, assigneeID); err != nil {
		return nil, err
	}

	oldAssignee := t.AssigneeID
	t.AssigneeID = assigneeID
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	if assigneeID != actor.ID {
		err := s.notifier.NotifyUser(ctx, assigneeID, notification.TaskAssigned,
			"New Task Assigned",
			fmt.Sprintf("You have been assigned %q", t.Title),
			notification.Ref{TaskID: &t.ID, ProjectID: &t.ProjectID, FromUserID: &actor.ID})
		if err != nil {
			s.logger.Error("Failed to notify assignee", zap.String("task_id", t.ID.String()), zap.Error(err))
		}
	}

	s.record(ctx, actor.ID, "task_assigned", t.ID, map[string]interface{}{
		"old_assignee": oldAssignee.String(),
		"new_assignee": assigneeID.String(),
	})
	s.publishInvalidate(ctx, actor.ID, t.ID, "task_assigned")

	return t, nil
}

// AddComment appends a comment to a task. Empty content is treated as nothing
// to do and yields no comment and no error. Mentions are parsed from @name
// tokens and mentioned active users are notified.
func (s *service) AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.New(),
		TaskID:    t.ID,
		UserID:    authorID,
		Content:   content,
		Mentions:  ParseMentions(content),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	if len(c.Mentions) > 0 {
		s.notifyMentions(ctx, t, c, authorID)
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to touch task after comment", zap.String("task_id", t.ID.String()), zap.Error(err))
	}

	s.publishInvalidate(ctx, authorID, t.ID, "comment_added")

	return c, nil
}

func (s *service) notifyMentions(ctx context.Context, t *Task, c *Comment, authorID uuid.UUID) {
	active := true
	users, _, err := s.users.ListUsers(ctx, user.UserFilter{IsActive: &active})
	if err != nil {
		s.logger.Error("Failed to resolve mentioned users", zap.Error(err))
		return
	}

	for _, token := range c.Mentions {
		for _, u := range users {
			if u.ID == authorID || !MentionsUser(token, u.Name) {
				continue
			}
			err := s.notifier.NotifyUser(ctx, u.ID, notification.CommentMention,
				"You Were Mentioned",
				fmt.Sprintf("You were mentioned in a comment on %q", t.Title),
				notification.Ref{TaskID: &t.ID, ProjectID: &t.ProjectID, FromUserID: &authorID})
			if err != nil {
				s.logger.Error("Failed to notify mention", zap.String("user_id", u.ID.String()), zap.Error(err))
			}
		}
	}
}

// AddSubtask appends a subtask. An empty title is a no-op.
func (s *service) AddSubtask(ctx context.Context, taskID uuid.UUID, input CreateSubtaskInput) (*Subtask, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	sub := &Subtask{
		ID:         uuid.New(),
		TaskID:     t.ID,
		Title:      input.Title,
		Completed:  false,
		AssigneeID: input.AssigneeID,
		DueDate:    input.DueDate,
		Position:   len(t.Subtasks),
	}

	if err := s.repo.CreateSubtask(ctx, sub); err != nil {
		return nil, err
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to touch task after subtask", zap.String("task_id", t.ID.String()), zap.Error(err))
	}

	return sub, nil
}

func (s *service) ToggleSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) (*Subtask, error) {
	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	var target *Subtask
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			target = &t.Subtasks[i]
			break
		}
	}
	if target == nil {
		return nil, ErrSubtaskNotFound
	}

	target.Completed = !target.Completed
	if err := s.repo.UpdateSubtask(ctx, target); err != nil {
		return nil, err
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to touch task after subtask toggle", zap.String("task_id", t.ID.String()), zap.Error(err))
	}

	return target, nil
}

// DeleteTask removes a task and its children as an explicit ordered sequence:
// comments, subtasks, time entries, then the task row itself.
func (s *service) DeleteTask(ctx context.Context, id uuid.UUID, actor *user.User) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deleteWithChildren(ctx, t.ID); err != nil {
		return err
	}

	s.record(ctx, actor.ID, "task_deleted", t.ID, map[string]interface{}{
		"title": t.Title,
	})
	s.publishInvalidate(ctx, actor.ID, t.ID, "task_deleted")

	return nil
}

func (s *service) deleteWithChildren(ctx context.Context, taskID uuid.UUID) error {
	if err := s.repo.DeleteCommentsByTask(ctx, taskID); err != nil {
		return err
	}
	if err := s.repo.DeleteSubtasksByTask(ctx, taskID); err != nil {
		return err
	}
	if s.entries != nil {
		if err := s.entries.DeleteByTask(ctx, taskID); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, taskID)
}

// DeleteTasksByProject removes every task belonging to a project, reporting
// how many were deleted. Used by the project cascade.
func (s *service) DeleteTasksByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	tasks, _, err := s.repo.FindAll(ctx, TaskFilter{ProjectID: &projectID})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range tasks {
		if err := s.deleteWithChildren(ctx, tasks[i].ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// DeleteTasksByAssignee removes every task assigned to a user. Used by the
// user cascade.
func (s *service) DeleteTasksByAssignee(ctx context.Context, assigneeID uuid.UUID) (int, error) {
	tasks, _, err := s.repo.FindAll(ctx, TaskFilter{AssigneeID: &assigneeID})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range tasks {
		if err := s.deleteWithChildren(ctx, tasks[i].ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// AtRiskTasks loads all tasks and scores them against the given reference
// time.
func (s *service) AtRiskTasks(ctx context.Context, now time.Time) ([]Task, error) {
	tasks, _, err := s.repo.FindAll(ctx, TaskFilter{})
	if err != nil {
		return nil, err
	}
	return AtRiskTasks(tasks, now), nil
}

func (s *service) record(ctx context.Context, userID uuid.UUID, action string, taskID uuid.UUID, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, userID, action, activity.EntityTask, taskID, details); err != nil {
		s.logger.Error("Failed to record activity", zap.String("task_id", taskID.String()), zap.Error(err))
	}
}

func (s *service) publishInvalidate(ctx context.Context, userID, taskID uuid.UUID, action string) {
	if s.publish == nil {
		return
	}
	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  taskID,
		Timestamp: time.Now().UTC(),
		Details:   map[string]interface{}{"action": action},
	}
	if err := s.publish.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}
