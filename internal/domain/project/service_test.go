package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepository struct {
	projects map[uuid.UUID]*Project
}

func newMockRepository() *mockRepository {
	return &mockRepository{projects: make(map[uuid.UUID]*Project)}
}

func (m *mockRepository) Create(ctx context.Context, p *Project) error {
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter ProjectFilter) ([]Project, int64, error) {
	var out []Project
	for _, p := range m.projects {
		if filter.Department != nil && p.Department != *filter.Department {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) Update(ctx context.Context, p *Project) error {
	if _, ok := m.projects[p.ID]; !ok {
		return ErrProjectNotFound
	}
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

type mockTaskCascade struct {
	deleted   map[uuid.UUID]int
	taskCount int
}

func (m *mockTaskCascade) DeleteTasksByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	if m.deleted == nil {
		m.deleted = make(map[uuid.UUID]int)
	}
	m.deleted[projectID] = m.taskCount
	return m.taskCount, nil
}

func newTestService(repo *mockRepository, cascade *mockTaskCascade) Service {
	return NewService(repo, cascade, nil, nil, zap.NewNop())
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	t.Run("Creator is always on the member roster", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo, &mockTaskCascade{})

		member := uuid.New()
		p, err := svc.CreateProject(ctx, CreateProjectInput{
			Name:       "Website Relaunch",
			Department: "Marketing",
			CreatedBy:  creator,
			Members:    []uuid.UUID{member},
		})
		require.NoError(t, err)

		assert.Equal(t, ProjectStatusActive, p.Status)
		assert.True(t, p.Members.Contains(creator))
		assert.True(t, p.Members.Contains(member))
	})

	t.Run("Blank name is rejected", func(t *testing.T) {
		svc := newTestService(newMockRepository(), &mockTaskCascade{})

		_, err := svc.CreateProject(ctx, CreateProjectInput{Name: "  ", CreatedBy: creator})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestProjectMembers(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	repo := newMockRepository()
	svc := newTestService(repo, &mockTaskCascade{})

	p, err := svc.CreateProject(ctx, CreateProjectInput{Name: "Internal Tools", CreatedBy: creator})
	require.NoError(t, err)

	member := uuid.New()
	p, err = svc.AddMember(ctx, p.ID, member)
	require.NoError(t, err)
	assert.True(t, p.Members.Contains(member))

	_, err = svc.AddMember(ctx, p.ID, member)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	p, err = svc.RemoveMember(ctx, p.ID, member)
	require.NoError(t, err)
	assert.False(t, p.Members.Contains(member))
	assert.True(t, p.Members.Contains(creator), "removing one member leaves the rest")
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	t.Run("Deletion cascades to the project's tasks first", func(t *testing.T) {
		repo := newMockRepository()
		cascade := &mockTaskCascade{taskCount: 10}
		svc := newTestService(repo, cascade)

		p, err := svc.CreateProject(ctx, CreateProjectInput{Name: "Doomed Initiative", CreatedBy: creator})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProject(ctx, p.ID, creator))

		assert.Equal(t, 10, cascade.deleted[p.ID])
		_, err = svc.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("Deleting a missing project fails without touching tasks", func(t *testing.T) {
		cascade := &mockTaskCascade{taskCount: 3}
		svc := newTestService(newMockRepository(), cascade)

		err := svc.DeleteProject(ctx, uuid.New(), creator)
		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.Empty(t, cascade.deleted)
	})
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	repo := newMockRepository()
	svc := newTestService(repo, &mockTaskCascade{})

	p, err := svc.CreateProject(ctx, CreateProjectInput{Name: "Platform Migration", CreatedBy: creator})
	require.NoError(t, err)

	completed := ProjectStatusCompleted
	desc := "Move everything to the new cluster"
	p, err = svc.UpdateProject(ctx, p.ID, UpdateProjectInput{
		Status:      &completed,
		Description: &desc,
	}, creator)
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusCompleted, p.Status)
	assert.Equal(t, desc, p.Description)

	bogus := ProjectStatus("cancelled")
	_, err = svc.UpdateProject(ctx, p.ID, UpdateProjectInput{Status: &bogus}, creator)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
