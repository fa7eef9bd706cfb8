package task

import "time"

// DueSoonWindowDays is the default forward window for due-soon classification
const DueSoonWindowDays = 3

// IsOverdue reports whether the task's due date has passed. Done tasks are
// never overdue, regardless of the reference time.
func IsOverdue(t *Task, now time.Time) bool {
	if t.Status == TaskStatusDone {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueSoon reports whether the task's due date falls strictly between now and
// now+windowDays. Done tasks are never due soon. Both boundaries are
// exclusive.
func IsDueSoon(t *Task, now time.Time, windowDays int) bool {
	if t.Status == TaskStatusDone {
		return false
	}
	return t.DueDate.After(now) && t.DueDate.Before(now.AddDate(0, 0, windowDays))
}

// OverdueTasks filters the given tasks down to the overdue ones
func OverdueTasks(tasks []Task, now time.Time) []Task {
	overdue := make([]Task, 0)
	for i := range tasks {
		if IsOverdue(&tasks[i], now) {
			overdue = append(overdue, tasks[i])
		}
	}
	return overdue
}
