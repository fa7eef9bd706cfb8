package task

import (
	"sort"
	"time"
)

// RiskThreshold is the minimum score for a task to count as at risk
const RiskThreshold = 30

// stalledProgressRatio is the subtask completion ratio below which an
// in-progress task is considered stalled
const stalledProgressRatio = 0.25

// RiskScore computes a bounded [0, 100] risk score for a task at the given
// time. Four signals contribute: deadline proximity (highest applicable tier
// only, so the same lateness is not counted twice), priority, blocked status,
// and stalled progress.
func RiskScore(t *Task, now time.Time) int {
	score := 0

	switch {
	case IsOverdue(t, now):
		score += 50
	case IsDueSoon(t, now, 1):
		score += 40
	case IsDueSoon(t, now, 3):
		score += 25
	case IsDueSoon(t, now, 7):
		score += 10
	}

	switch t.Priority {
	case TaskPriorityUrgent:
		score += 30
	case TaskPriorityHigh:
		score += 20
	case TaskPriorityMedium:
		score += 10
	}

	if t.Status == TaskStatusBlocked {
		score += 20
	}

	if t.Status == TaskStatusInProgress && t.SubtaskCompletionRatio() < stalledProgressRatio {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

// AtRiskTasks returns the non-done tasks scoring at or above the risk
// threshold, sorted by descending score. Ties keep their original relative
// order.
func AtRiskTasks(tasks []Task, now time.Time) []Task {
	type scored struct {
		task  Task
		score int
	}

	candidates := make([]scored, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Status == TaskStatusDone {
			continue
		}
		if s := RiskScore(&tasks[i], now); s >= RiskThreshold {
			candidates = append(candidates, scored{task: tasks[i], score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	result := make([]Task, len(candidates))
	for i, c := range candidates {
		result[i] = c.task
	}
	return result
}
