package analytics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/events"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/project"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/infrastructure/cache"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache keys for computed rollups
const (
	cacheKeyOverview    = "analytics:overview"
	cacheKeyDepartments = "analytics:departments"
	cacheKeyEmployees   = "analytics:employees"
)

// TaskSource provides the task snapshot for aggregation
type TaskSource interface {
	FindAll(ctx context.Context, filter task.TaskFilter) ([]task.Task, int64, error)
}

// ProjectSource provides the project snapshot for aggregation
type ProjectSource interface {
	FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error)
}

// UserSource provides the user snapshot for aggregation
type UserSource interface {
	FindAll(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error)
}

// EntrySource provides the time entry snapshot for aggregation
type EntrySource interface {
	FindAll(ctx context.Context, filter timelog.EntryFilter) ([]timelog.TimeEntry, int64, error)
}

// Cache stores computed rollups between invalidations. Implemented by the
// Redis client.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// EventStream delivers dashboard events for cache invalidation
type EventStream interface {
	SubscribeDashboardEvents(ctx context.Context) *redis.PubSub
}

type Service interface {
	Overview(ctx context.Context, now time.Time) (*Overview, error)
	Departments(ctx context.Context, now time.Time, order RollupOrder) ([]DepartmentPerformance, error)
	Employees(ctx context.Context, now time.Time, order RollupOrder) ([]EmployeePerformance, error)
	ExportDepartmentsCSV(ctx context.Context, now time.Time, w io.Writer) error
	Invalidate(ctx context.Context)
	WatchInvalidation(ctx context.Context, stream EventStream)
}

type service struct {
	tasks    TaskSource
	projects ProjectSource
	users    UserSource
	entries  EntrySource
	cache    Cache
	logger   *zap.Logger
}

func NewService(tasks TaskSource, projects ProjectSource, users UserSource, entries EntrySource, cache Cache, logger *zap.Logger) Service {
	return &service{
		tasks:    tasks,
		projects: projects,
		users:    users,
		entries:  entries,
		cache:    cache,
		logger:   logger,
	}
}

// cachedRollup pins a cached rollup to the minute it was computed for.
// Overdue and at-risk counts change with the clock alone, so a rollup from an
// earlier minute is treated as a miss even before any mutation invalidates it.
type cachedRollup struct {
	Bucket string          `json:"bucket"`
	Data   json.RawMessage `json:"data"`
}

func timeBucket(now time.Time) string {
	return now.UTC().Format("2006-01-02T15:04")
}

// Overview returns the KPI snapshot at the given time, from cache when a
// same-minute computation is available
func (s *service) Overview(ctx context.Context, now time.Time) (*Overview, error) {
	bucket := timeBucket(now)

	var cached Overview
	if s.cacheGet(ctx, cacheKeyOverview, bucket, &cached) {
		return &cached, nil
	}

	tasks, projects, _, entries, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	overview := ComputeOverview(tasks, projects, entries, now)
	s.cacheSet(ctx, cacheKeyOverview, bucket, overview)
	return &overview, nil
}

// Departments returns the per-department rollup at the given time, ordered by
// the requested key. The cache holds the department-name ordering; the
// requested order is applied after retrieval.
func (s *service) Departments(ctx context.Context, now time.Time, order RollupOrder) ([]DepartmentPerformance, error) {
	bucket := timeBucket(now)

	var departments []DepartmentPerformance
	if !s.cacheGet(ctx, cacheKeyDepartments, bucket, &departments) {
		tasks, projects, users, entries, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		departments = ComputeDepartmentPerformance(tasks, projects, users, entries, now)
		s.cacheSet(ctx, cacheKeyDepartments, bucket, departments)
	}

	SortDepartments(departments, order)
	return departments, nil
}

// Employees returns the per-employee rollup at the given time, ordered by the
// requested key
func (s *service) Employees(ctx context.Context, now time.Time, order RollupOrder) ([]EmployeePerformance, error) {
	bucket := timeBucket(now)

	var employees []EmployeePerformance
	if !s.cacheGet(ctx, cacheKeyEmployees, bucket, &employees) {
		tasks, _, users, entries, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		employees = ComputeEmployeePerformance(tasks, users, entries, now)
		s.cacheSet(ctx, cacheKeyEmployees, bucket, employees)
	}

	SortEmployees(employees, order)
	return employees, nil
}

func (s *service) snapshot(ctx context.Context) ([]task.Task, []project.Project, []user.User, []timelog.TimeEntry, error) {
	tasks, _, err := s.tasks.FindAll(ctx, task.TaskFilter{})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	projects, _, err := s.projects.FindAll(ctx, project.ProjectFilter{})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	users, _, err := s.users.FindAll(ctx, user.UserFilter{})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	entries, _, err := s.entries.FindAll(ctx, timelog.EntryFilter{})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return tasks, projects, users, entries, nil
}

// ExportDepartmentsCSV streams the department rollup as CSV, best performing
// first
func (s *service) ExportDepartmentsCSV(ctx context.Context, now time.Time, w io.Writer) error {
	departments, err := s.Departments(ctx, now, OrderByCompletionDesc)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"department", "members", "total_tasks", "completed", "in_progress", "overdue", "completion_rate", "hours_logged"}); err != nil {
		return err
	}

	for _, d := range departments {
		record := []string{
			d.Department,
			strconv.Itoa(d.Members),
			strconv.Itoa(d.TotalTasks),
			strconv.Itoa(d.Completed),
			strconv.Itoa(d.InProgress),
			strconv.Itoa(d.Overdue),
			strconv.Itoa(d.CompletionRate),
			fmt.Sprintf("%.2f", d.HoursLogged),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Invalidate drops all cached rollups
func (s *service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyOverview, cacheKeyDepartments, cacheKeyEmployees); err != nil {
		s.logger.Error("Failed to invalidate analytics cache", zap.Error(err))
	}
}

// WatchInvalidation consumes dashboard events and drops cached rollups when
// any arrive. Blocks until the context is cancelled.
func (s *service) WatchInvalidation(ctx context.Context, stream EventStream) {
	pubsub := stream.SubscribeDashboardEvents(ctx)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event events.DashboardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("Ignoring malformed dashboard event", zap.Error(err))
				continue
			}
			s.logger.Debug("Invalidating analytics cache",
				zap.String("event_type", event.EventType))
			s.Invalidate(ctx)
		}
	}
}

func (s *service) cacheGet(ctx context.Context, key, bucket string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	var envelope cachedRollup
	err := s.cache.Get(ctx, key, &envelope)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheNotFound) {
			s.logger.Debug("Analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if envelope.Bucket != bucket {
		return false
	}
	return json.Unmarshal(envelope.Data, dest) == nil
}

func (s *service) cacheSet(ctx context.Context, key, bucket string, value interface{}) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, cachedRollup{Bucket: bucket, Data: data}); err != nil {
		s.logger.Debug("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
