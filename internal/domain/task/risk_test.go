package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRiskScore(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     *Task
		expected int
	}{
		{
			name:     "Low priority task due far out scores zero",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 30)},
			expected: 0,
		},
		{
			name:     "Overdue adds fifty",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.Add(-time.Hour)},
			expected: 50,
		},
		{
			name:     "Due within a day adds forty",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.Add(12 * time.Hour)},
			expected: 40,
		},
		{
			name:     "Due within three days adds twenty five",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 2)},
			expected: 25,
		},
		{
			name:     "Due within seven days adds ten",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 5)},
			expected: 10,
		},
		{
			name:     "Only the tightest deadline tier counts",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.Add(2 * time.Hour)},
			expected: 40,
		},
		{
			name:     "Urgent priority adds thirty",
			task:     &Task{Status: TaskStatusTodo, Priority: TaskPriorityUrgent, DueDate: now.AddDate(0, 0, 30)},
			expected: 30,
		},
		{
			name:     "Blocked adds twenty",
			task:     &Task{Status: TaskStatusBlocked, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 30)},
			expected: 20,
		},
		{
			name: "Stalled in-progress task adds fifteen",
			task: &Task{
				Status:   TaskStatusInProgress,
				Priority: TaskPriorityLow,
				DueDate:  now.AddDate(0, 0, 30),
				Subtasks: []Subtask{{Completed: false}, {Completed: false}},
			},
			expected: 15,
		},
		{
			name: "In-progress task with enough subtask progress is not stalled",
			task: &Task{
				Status:   TaskStatusInProgress,
				Priority: TaskPriorityLow,
				DueDate:  now.AddDate(0, 0, 30),
				Subtasks: []Subtask{{Completed: true}, {Completed: false}},
			},
			expected: 0,
		},
		{
			name: "Overdue high priority in-progress task with no progress",
			task: &Task{
				Status:   TaskStatusInProgress,
				Priority: TaskPriorityHigh,
				DueDate:  now.AddDate(0, 0, -1),
				Subtasks: []Subtask{{Completed: false}, {Completed: false}},
			},
			expected: 85,
		},
		{
			name: "Score is clamped at one hundred",
			task: &Task{
				Status:   TaskStatusBlocked,
				Priority: TaskPriorityUrgent,
				DueDate:  now.AddDate(0, 0, -5),
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskScore(tt.task, now))
		})
	}
}

func TestAtRiskTasks(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "safe", Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 30)},
		{Title: "overdue done", Status: TaskStatusDone, Priority: TaskPriorityUrgent, DueDate: now.AddDate(0, 0, -5)},
		{Title: "blocked urgent", Status: TaskStatusBlocked, Priority: TaskPriorityUrgent, DueDate: now.AddDate(0, 0, -5)},
		{Title: "due soon", Status: TaskStatusTodo, Priority: TaskPriorityLow, DueDate: now.AddDate(0, 0, 2)},
		{Title: "just under", Status: TaskStatusTodo, Priority: TaskPriorityMedium, DueDate: now.AddDate(0, 0, 5)},
	}

	atRisk := AtRiskTasks(tasks, now)

	assert.Len(t, atRisk, 1, "only scores at or above the threshold qualify")
	assert.Equal(t, "blocked urgent", atRisk[0].Title)
}

func TestAtRiskTasksOrdering(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		{Title: "moderate", Status: TaskStatusTodo, Priority: TaskPriorityMedium, DueDate: now.Add(12 * time.Hour)},
		{Title: "critical", Status: TaskStatusBlocked, Priority: TaskPriorityUrgent, DueDate: now.AddDate(0, 0, -1)},
		{Title: "also moderate", Status: TaskStatusTodo, Priority: TaskPriorityMedium, DueDate: now.Add(13 * time.Hour)},
	}

	atRisk := AtRiskTasks(tasks, now)

	assert.Len(t, atRisk, 3)
	assert.Equal(t, "critical", atRisk[0].Title)
	assert.Equal(t, "moderate", atRisk[1].Title, "ties keep their original order")
	assert.Equal(t, "also moderate", atRisk[2].Title)
}
