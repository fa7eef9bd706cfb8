package project

import (
	"context"
	"strings"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/activity"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskCascade removes a project's tasks during project deletion. Implemented
// by the task service.
type TaskCascade interface {
	DeleteTasksByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

// EventPublisher publishes dashboard invalidation events
type EventPublisher interface {
	PublishDashboardEvent(ctx context.Context, event *events.DashboardEvent) error
}

type Service interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, int64, error)
	UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput, actorID uuid.UUID) (*Project, error)
	AddMember(ctx context.Context, id, userID uuid.UUID) (*Project, error)
	RemoveMember(ctx context.Context, id, userID uuid.UUID) (*Project, error)
	DeleteProject(ctx context.Context, id, actorID uuid.UUID) error
}

type CreateProjectInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Department  string        `json:"department"`
	Status      ProjectStatus `json:"status"`
	Color       string        `json:"color"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	Members     []uuid.UUID   `json:"members,omitempty"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
}

type UpdateProjectInput struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Department  *string        `json:"department,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Color       *string        `json:"color,omitempty"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
}

type service struct {
	repo    Repository
	tasks   TaskCascade
	audit   activity.Recorder
	publish EventPublisher
	logger  *zap.Logger
}

func NewService(repo Repository, tasks TaskCascade, audit activity.Recorder, publish EventPublisher, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		tasks:   tasks,
		audit:   audit,
		publish: publish,
		logger:  logger,
	}
}

func (s *service) CreateProject(ctx context.Context, input CreateProjectInput) (*Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = ProjectStatusActive
	}

	members := MemberList(input.Members)
	if !members.Contains(input.CreatedBy) {
		members = append(members, input.CreatedBy)
	}

	p := &Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Department:  input.Department,
		Status:      input.Status,
		Color:       input.Color,
		CreatedBy:   input.CreatedBy,
		Members:     members,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.record(ctx, input.CreatedBy, "project_created", p.ID, map[string]interface{}{"name": p.Name})
	s.publishInvalidate(ctx, input.CreatedBy, p.ID, "project_created")

	return p, nil
}

func (s *service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput, actorID uuid.UUID) (*Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Department != nil {
		p.Department = *input.Department
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidInput
		}
		p.Status = *input.Status
	}
	if input.Color != nil {
		p.Color = *input.Color
	}
	if input.StartDate != nil {
		p.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		p.EndDate = input.EndDate
	}

	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, "project_updated", p.ID, map[string]interface{}{"name": p.Name})
	s.publishInvalidate(ctx, actorID, p.ID, "project_updated")

	return p, nil
}

func (s *service) AddMember(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Members.Contains(userID) {
		return nil, ErrAlreadyMember
	}

	p.Members = append(p.Members, userID)
	p.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) RemoveMember(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filtered := make(MemberList, 0, len(p.Members))
	for _, m := range p.Members {
		if m != userID {
			filtered = append(filtered, m)
		}
	}
	p.Members = filtered
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes a project and every task under it. Tasks go first so
// a failed cascade leaves the project visible rather than orphaning its tasks.
func (s *service) DeleteProject(ctx context.Context, id, actorID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.tasks.DeleteTasksByProject(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("Project cascade removed tasks",
		zap.String("project_id", id.String()), zap.Int("tasks_deleted", deleted))

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actorID, "project_deleted", p.ID, map[string]interface{}{
		"name":          p.Name,
		"tasks_deleted": deleted,
	})
	s.publishInvalidate(ctx, actorID, p.ID, "project_deleted")

	return nil
}

func (s *service) record(ctx context.Context, userID uuid.UUID, action string, projectID uuid.UUID, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, userID, action, activity.EntityProject, projectID, details); err != nil {
		s.logger.Error("Failed to record activity", zap.String("project_id", projectID.String()), zap.Error(err))
	}
}

func (s *service) publishInvalidate(ctx context.Context, userID, projectID uuid.UUID, action string) {
	if s.publish == nil {
		return
	}
	event := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  projectID,
		Timestamp: time.Now().UTC(),
		Details:   map[string]interface{}{"action": action},
	}
	if err := s.publish.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}
