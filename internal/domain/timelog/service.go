package timelog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStore is the slice of the task repository the ledger needs: referential
// and title lookups plus the derived-hours writeback.
type TaskStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	SetActualHours(ctx context.Context, id uuid.UUID, hours float64) error
}

// UserDirectory resolves user names for the export projection. Implemented by
// the user repository.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Service interface {
	StartTimer(ctx context.Context, userID, taskID uuid.UUID, notes string) (*TimerSession, error)
	StopTimer(ctx context.Context, userID uuid.UUID) (*TimeEntry, error)
	ActiveTimer(userID uuid.UUID) (*TimerSession, bool)
	LogManual(ctx context.Context, input ManualEntryInput) (*TimeEntry, error)
	TaskEntries(ctx context.Context, taskID uuid.UUID) ([]TimeEntry, error)
	UserEntries(ctx context.Context, userID uuid.UUID) ([]TimeEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]TimeEntry, int64, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	WeeklyTotals(ctx context.Context, userID uuid.UUID, now time.Time) ([]DayTotal, error)
	ExportCSV(ctx context.Context, filter EntryFilter, w io.Writer) error
}

type ManualEntryInput struct {
	TaskID  uuid.UUID `json:"task_id"`
	UserID  uuid.UUID `json:"user_id"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Date    string    `json:"date,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}

type service struct {
	repo   Repository
	tasks  TaskStore
	users  UserDirectory
	logger *zap.Logger
	now    func() time.Time

	// one running timer per user
	timerMu sync.Mutex
	timers  map[uuid.UUID]*TimerSession

	// serializes appends per task so the derived hours stay consistent
	taskMu    sync.Mutex
	taskLocks map[uuid.UUID]*sync.Mutex
}

func NewService(repo Repository, tasks TaskStore, users UserDirectory, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		tasks:     tasks,
		users:     users,
		logger:    logger,
		now:       time.Now,
		timers:    make(map[uuid.UUID]*TimerSession),
		taskLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// StartTimer begins an in-memory timer for a user. Only one timer may run per
// user at a time.
func (s *service) StartTimer(ctx context.Context, userID, taskID uuid.UUID, notes string) (*TimerSession, error) {
	if userID == uuid.Nil || taskID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if err := s.checkTask(ctx, taskID); err != nil {
		return nil, err
	}

	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if _, running := s.timers[userID]; running {
		return nil, ErrTimerRunning
	}

	session := &TimerSession{
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: s.now(),
		Notes:     notes,
	}
	s.timers[userID] = session

	copied := *session
	return &copied, nil
}

// StopTimer ends the user's running timer and persists the interval as a time
// entry. Intervals that round to zero minutes are discarded: the timer is
// cleared but no entry is created and nil is returned.
func (s *service) StopTimer(ctx context.Context, userID uuid.UUID) (*TimeEntry, error) {
	s.timerMu.Lock()
	session, running := s.timers[userID]
	if running {
		delete(s.timers, userID)
	}
	s.timerMu.Unlock()

	if !running {
		return nil, ErrNoActiveTimer
	}

	end := s.now()
	minutes := TimerMinutes(session.StartedAt, end)
	if minutes <= 0 {
		s.logger.Debug("Discarding sub-minute timer interval",
			zap.String("user_id", userID.String()),
			zap.String("task_id", session.TaskID.String()))
		return nil, nil
	}

	start := session.StartedAt
	entry := &TimeEntry{
		ID:              uuid.New(),
		TaskID:          session.TaskID,
		UserID:          userID,
		Date:            end.Format(DateLayout),
		DurationMinutes: minutes,
		Notes:           session.Notes,
		Source:          SourceTimer,
		StartedAt:       &start,
		EndedAt:         &end,
		CreatedAt:       end,
	}

	if err := s.appendEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ActiveTimer reports the user's running timer, if any
func (s *service) ActiveTimer(userID uuid.UUID) (*TimerSession, bool) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	session, ok := s.timers[userID]
	if !ok {
		return nil, false
	}
	copied := *session
	return &copied, true
}

// LogManual records a manually entered duration. A total of zero minutes or
// less is nothing to record and yields no entry and no error.
func (s *service) LogManual(ctx context.Context, input ManualEntryInput) (*TimeEntry, error) {
	if input.TaskID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	minutes := ManualMinutes(input.Hours, input.Minutes)
	if minutes <= 0 {
		return nil, nil
	}

	date := input.Date
	if date == "" {
		date = s.now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidInput
	}

	if err := s.checkTask(ctx, input.TaskID); err != nil {
		return nil, err
	}

	entry := &TimeEntry{
		ID:              uuid.New(),
		TaskID:          input.TaskID,
		UserID:          input.UserID,
		Date:            date,
		DurationMinutes: minutes,
		Notes:           input.Notes,
		Source:          SourceManual,
		CreatedAt:       s.now(),
	}

	if err := s.appendEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// appendEntry persists an entry and refreshes the owning task's actual hours
// from the full entry set, under a per-task lock.
func (s *service) appendEntry(ctx context.Context, entry *TimeEntry) error {
	lock := s.taskLock(entry.TaskID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}
	return s.refreshTaskHours(ctx, entry.TaskID)
}

// checkTask verifies the entry's task actually exists before anything is
// recorded against it
func (s *service) checkTask(ctx context.Context, taskID uuid.UUID) error {
	_, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, task.ErrTaskNotFound) {
		return ErrUnknownTask
	}
	return err
}

func (s *service) refreshTaskHours(ctx context.Context, taskID uuid.UUID) error {
	entries, err := s.repo.FindByTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.SetActualHours(ctx, taskID, TotalHours(entries)); err != nil {
		s.logger.Error("Failed to update task hours",
			zap.String("task_id", taskID.String()), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) taskLock(taskID uuid.UUID) *sync.Mutex {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	lock, ok := s.taskLocks[taskID]
	if !ok {
		lock = &sync.Mutex{}
		s.taskLocks[taskID] = lock
	}
	return lock
}

func (s *service) TaskEntries(ctx context.Context, taskID uuid.UUID) ([]TimeEntry, error) {
	return s.repo.FindByTask(ctx, taskID)
}

func (s *service) UserEntries(ctx context.Context, userID uuid.UUID) ([]TimeEntry, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) ListEntries(ctx context.Context, filter EntryFilter) ([]TimeEntry, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

// DeleteEntry removes an entry and refreshes the owning task's hours
func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	lock := s.taskLock(entry.TaskID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.refreshTaskHours(ctx, entry.TaskID)
}

// WeeklyTotals buckets a user's entries into the trailing seven days
func (s *service) WeeklyTotals(ctx context.Context, userID uuid.UUID, now time.Time) ([]DayTotal, error) {
	entries, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return DailyTotals(entries, now), nil
}

// ExportCSV streams the filtered entries as CSV, joined with the task title
// and user name each entry belongs to. Entries whose task or user is gone
// fall back to the raw id so the export still completes.
func (s *service) ExportCSV(ctx context.Context, filter EntryFilter, w io.Writer) error {
	entries, _, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return err
	}

	titles := make(map[uuid.UUID]string)
	taskTitle := func(id uuid.UUID) string {
		if title, ok := titles[id]; ok {
			return title
		}
		title := id.String()
		if t, err := s.tasks.FindByID(ctx, id); err == nil {
			title = t.Title
		}
		titles[id] = title
		return title
	}

	names := make(map[uuid.UUID]string)
	userName := func(id uuid.UUID) string {
		if name, ok := names[id]; ok {
			return name
		}
		name := id.String()
		if u, err := s.users.FindByID(ctx, id); err == nil {
			name = u.Name
		}
		names[id] = name
		return name
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "task", "user", "duration_minutes", "notes"}); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			e.Date,
			taskTitle(e.TaskID),
			userName(e.UserID),
			strconv.Itoa(e.DurationMinutes),
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
