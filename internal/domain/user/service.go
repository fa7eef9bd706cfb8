package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TaskCascade removes the tasks owned by a user being deleted. Implemented by
// the task service; deletes run as an explicit ordered sequence, not a DB
// transaction.
type TaskCascade interface {
	DeleteTasksByAssignee(ctx context.Context, assigneeID uuid.UUID) (int, error)
}

type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ActiveManagers(ctx context.Context) ([]User, error)
}

type service struct {
	repo    Repository
	cascade TaskCascade
	logger  *zap.Logger
}

func NewService(repo Repository, cascade TaskCascade, logger *zap.Logger) Service {
	return &service{repo: repo, cascade: cascade, logger: logger}
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	if existing, err := s.repo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RoleEmployee
	}

	u := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   input.Department,
		Position:     input.Position,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves a login attempt. Deactivated accounts are reported
// distinctly from bad credentials so the API layer can surface the right
// message.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}

	now := time.Now()
	u.LastLogin = &now
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("Failed to stamp last login", zap.String("user_id", u.ID.String()), zap.Error(err))
	}

	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, filter UserFilter) ([]User, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		u.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" {
		u.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, ErrInvalidInput
		}
		u.Role = *input.Role
	}
	if input.Department != nil {
		u.Department = *input.Department
	}
	if input.Position != nil {
		u.Position = *input.Position
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}

	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user and, first, the tasks assigned to them. A failure
// mid-cascade leaves the user in place so the operation can be retried.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if s.cascade != nil {
		removed, err := s.cascade.DeleteTasksByAssignee(ctx, id)
		if err != nil {
			return err
		}
		if removed > 0 {
			s.logger.Info("Removed tasks for deleted user",
				zap.String("user_id", id.String()),
				zap.Int("task_count", removed))
		}
	}

	return s.repo.Delete(ctx, id)
}

// ActiveManagers returns every active management or admin user, the audience
// for review requests.
func (s *service) ActiveManagers(ctx context.Context) ([]User, error) {
	active := true
	users, _, err := s.repo.FindAll(ctx, UserFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	managers := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role.IsManagement() {
			managers = append(managers, u)
		}
	}
	return managers, nil
}
