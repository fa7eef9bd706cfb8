package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     *Task
		expected bool
	}{
		{
			name:     "Due date in the past is overdue",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.Add(-time.Hour)},
			expected: true,
		},
		{
			name:     "Due date in the future is not overdue",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.Add(time.Hour)},
			expected: false,
		},
		{
			name:     "Done task is never overdue even past its due date",
			task:     &Task{Status: TaskStatusDone, DueDate: now.AddDate(0, 0, -30)},
			expected: false,
		},
		{
			name:     "Blocked task past due date is overdue",
			task:     &Task{Status: TaskStatusBlocked, DueDate: now.AddDate(0, 0, -1)},
			expected: true,
		},
		{
			name:     "Due exactly now is not overdue",
			task:     &Task{Status: TaskStatusTodo, DueDate: now},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOverdue(tt.task, now))
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     *Task
		window   int
		expected bool
	}{
		{
			name:     "Due tomorrow is within the default window",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.AddDate(0, 0, 1)},
			window:   DueSoonWindowDays,
			expected: true,
		},
		{
			name:     "Due in five days is outside a three day window",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.AddDate(0, 0, 5)},
			window:   DueSoonWindowDays,
			expected: false,
		},
		{
			name:     "Past due date is not due soon",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.Add(-time.Hour)},
			window:   DueSoonWindowDays,
			expected: false,
		},
		{
			name:     "Due exactly at the window boundary is excluded",
			task:     &Task{Status: TaskStatusTodo, DueDate: now.AddDate(0, 0, 3)},
			window:   DueSoonWindowDays,
			expected: false,
		},
		{
			name:     "Due exactly now is excluded",
			task:     &Task{Status: TaskStatusTodo, DueDate: now},
			window:   DueSoonWindowDays,
			expected: false,
		},
		{
			name:     "Done task is never due soon",
			task:     &Task{Status: TaskStatusDone, DueDate: now.AddDate(0, 0, 1)},
			window:   DueSoonWindowDays,
			expected: false,
		},
		{
			name:     "Wider window catches a due date further out",
			task:     &Task{Status: TaskStatusInProgress, DueDate: now.AddDate(0, 0, 5)},
			window:   7,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDueSoon(tt.task, now, tt.window))
		})
	}
}

func TestOverdueTasks(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "late", Status: TaskStatusTodo, DueDate: now.AddDate(0, 0, -2)},
		{Title: "done late", Status: TaskStatusDone, DueDate: now.AddDate(0, 0, -2)},
		{Title: "on time", Status: TaskStatusInProgress, DueDate: now.AddDate(0, 0, 2)},
	}

	overdue := OverdueTasks(tasks, now)
	assert.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].Title)
}
