package analytics

import (
	"testing"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/project"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		done     int
		total    int
		expected int
	}{
		{"No tasks yields zero", 0, 0, 0},
		{"All done is one hundred", 5, 5, 100},
		{"Four of ten is forty", 4, 10, 40},
		{"One of three rounds to thirty three", 1, 3, 33},
		{"Two of three rounds to sixty seven", 2, 3, 67},
		{"One of eight rounds to thirteen", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompletionRate(tt.done, tt.total))
		})
	}
}

func TestCompletionRateMonotonic(t *testing.T) {
	future := time.Now().AddDate(0, 0, 30)
	tasks := make([]task.Task, 9)
	for i := range tasks {
		tasks[i] = task.Task{Status: task.TaskStatusTodo, DueDate: future}
	}

	previous := 0
	for i := range tasks {
		tasks[i].Status = task.TaskStatusDone
		o := ComputeOverview(tasks, nil, nil, time.Now())
		assert.GreaterOrEqual(t, o.CompletionRate, previous, "rate never drops as tasks flip to done")
		previous = o.CompletionRate
	}
	assert.Equal(t, 100, previous)
}

func TestWorkloadFor(t *testing.T) {
	assert.Equal(t, WorkloadLight, WorkloadFor(0))
	assert.Equal(t, WorkloadLight, WorkloadFor(3))
	assert.Equal(t, WorkloadMedium, WorkloadFor(4))
	assert.Equal(t, WorkloadMedium, WorkloadFor(5))
	assert.Equal(t, WorkloadHigh, WorkloadFor(6))
	assert.Equal(t, WorkloadHigh, WorkloadFor(12))
}

func TestComputeOverview(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)

	tasks := []task.Task{
		{Status: task.TaskStatusDone, Priority: task.TaskPriorityLow, DueDate: future},
		{Status: task.TaskStatusDone, Priority: task.TaskPriorityLow, DueDate: now.AddDate(0, 0, -1)},
		{Status: task.TaskStatusInProgress, Priority: task.TaskPriorityLow, DueDate: future},
		{Status: task.TaskStatusTodo, Priority: task.TaskPriorityUrgent, DueDate: now.AddDate(0, 0, -1)},
		{Status: task.TaskStatusBlocked, Priority: task.TaskPriorityLow, DueDate: future},
	}
	projects := []project.Project{
		{Status: project.ProjectStatusActive},
		{Status: project.ProjectStatusArchived},
		{Status: project.ProjectStatusActive},
	}
	entries := []timelog.TimeEntry{
		{DurationMinutes: 60},
		{DurationMinutes: 90},
	}

	o := ComputeOverview(tasks, projects, entries, now)

	assert.Equal(t, 5, o.TotalTasks)
	assert.Equal(t, 2, o.Completed)
	assert.Equal(t, 1, o.InProgress)
	assert.Equal(t, 1, o.Overdue, "done tasks past their due date do not count")
	assert.Equal(t, 40, o.CompletionRate)
	assert.Equal(t, 1, o.AtRisk, "only the overdue urgent task crosses the threshold")
	assert.Equal(t, 2, o.ActiveProjects)
	assert.InDelta(t, 2.5, o.HoursLogged, 0.001)
}

func TestComputeOverviewEmpty(t *testing.T) {
	o := ComputeOverview(nil, nil, nil, time.Now())
	assert.Zero(t, o.TotalTasks)
	assert.Zero(t, o.CompletionRate)
	assert.Zero(t, o.HoursLogged)
}

func TestComputeDepartmentPerformance(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)

	eng := user.User{ID: uuid.New(), Name: "Dana Reyes", Department: "Engineering"}
	eng2 := user.User{ID: uuid.New(), Name: "Priya Nair", Department: "Engineering"}
	sales := user.User{ID: uuid.New(), Name: "Sam Okafor", Department: "Sales"}
	drifter := user.User{ID: uuid.New(), Name: "Lee Park"}
	users := []user.User{eng, eng2, sales, drifter}

	engProject := project.Project{ID: uuid.New(), Name: "Platform", Department: "Engineering"}
	salesProject := project.Project{ID: uuid.New(), Name: "Pipeline", Department: "Sales"}
	projects := []project.Project{engProject, salesProject}

	crossDept := task.Task{ID: uuid.New(), ProjectID: engProject.ID, AssigneeID: sales.ID, Status: task.TaskStatusInProgress, DueDate: now.AddDate(0, 0, -1)}
	tasks := []task.Task{
		{ID: uuid.New(), ProjectID: engProject.ID, AssigneeID: eng.ID, Status: task.TaskStatusDone, DueDate: future},
		{ID: uuid.New(), ProjectID: engProject.ID, AssigneeID: eng2.ID, Status: task.TaskStatusDone, DueDate: future},
		crossDept,
		{ID: uuid.New(), ProjectID: salesProject.ID, AssigneeID: sales.ID, Status: task.TaskStatusTodo, DueDate: future},
	}
	entries := []timelog.TimeEntry{
		{TaskID: tasks[0].ID, UserID: eng.ID, DurationMinutes: 120},
		{TaskID: crossDept.ID, UserID: sales.ID, DurationMinutes: 30},
	}

	departments := ComputeDepartmentPerformance(tasks, projects, users, entries, now)
	require.Len(t, departments, 3)

	byName := make(map[string]DepartmentPerformance)
	for _, d := range departments {
		byName[d.Department] = d
	}

	engineering := byName["Engineering"]
	assert.Equal(t, 2, engineering.Members)
	assert.Equal(t, 3, engineering.TotalTasks, "tasks follow their project's department, not the assignee's")
	assert.Equal(t, 2, engineering.Completed)
	assert.Equal(t, 1, engineering.InProgress)
	assert.Equal(t, 1, engineering.Overdue)
	assert.Equal(t, 67, engineering.CompletionRate)
	assert.InDelta(t, 2.5, engineering.HoursLogged, 0.001, "hours follow the entry's task, not the entry's user")

	s := byName["Sales"]
	assert.Equal(t, 1, s.TotalTasks)
	assert.Zero(t, s.InProgress)
	assert.Zero(t, s.Overdue)
	assert.Zero(t, s.CompletionRate)

	assert.Equal(t, 1, byName["Unassigned"].Members, "users without a department still count")
	assert.Zero(t, byName["Unassigned"].TotalTasks)
}

func TestSortRollups(t *testing.T) {
	departments := []DepartmentPerformance{
		{Department: "Engineering", CompletionRate: 40},
		{Department: "Marketing", CompletionRate: 80},
		{Department: "Sales", CompletionRate: 40},
	}

	SortDepartments(departments, OrderByCompletionDesc)
	assert.Equal(t, "Marketing", departments[0].Department)
	assert.Equal(t, "Engineering", departments[1].Department, "ties keep their relative order")
	assert.Equal(t, "Sales", departments[2].Department)

	SortDepartments(departments, OrderByCompletionAsc)
	assert.Equal(t, "Marketing", departments[2].Department)

	employees := []EmployeePerformance{
		{Name: "Dana Reyes", CompletionRate: 0},
		{Name: "Priya Nair", CompletionRate: 100},
		{Name: "Sam Okafor", CompletionRate: 50},
	}

	SortEmployees(employees, OrderByCompletionDesc)
	assert.Equal(t, "Priya Nair", employees[0].Name)
	assert.Equal(t, "Sam Okafor", employees[1].Name)
	assert.Equal(t, "Dana Reyes", employees[2].Name)

	SortEmployees(employees, OrderByName)
	assert.Equal(t, "Dana Reyes", employees[0].Name)
}

func TestComputeEmployeePerformance(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)

	busy := user.User{ID: uuid.New(), Name: "Dana Reyes", Department: "Engineering"}
	idle := user.User{ID: uuid.New(), Name: "Priya Nair", Department: "Engineering"}
	users := []user.User{busy, idle}

	var tasks []task.Task
	for i := 0; i < 6; i++ {
		tasks = append(tasks, task.Task{AssigneeID: busy.ID, Status: task.TaskStatusTodo, DueDate: future})
	}
	tasks = append(tasks,
		task.Task{AssigneeID: busy.ID, Status: task.TaskStatusDone, DueDate: future},
		task.Task{AssigneeID: busy.ID, Status: task.TaskStatusInProgress, DueDate: now.AddDate(0, 0, -1)},
	)
	entries := []timelog.TimeEntry{{UserID: busy.ID, DurationMinutes: 45}}

	employees := ComputeEmployeePerformance(tasks, users, entries, now)
	require.Len(t, employees, 2, "every user appears in the rollup")

	byID := make(map[uuid.UUID]EmployeePerformance)
	for _, e := range employees {
		byID[e.UserID] = e
	}

	b := byID[busy.ID]
	assert.Equal(t, 8, b.TotalTasks)
	assert.Equal(t, 1, b.Completed)
	assert.Equal(t, 1, b.InProgress)
	assert.Equal(t, 1, b.Overdue)
	assert.Equal(t, 13, b.CompletionRate)
	assert.Equal(t, WorkloadHigh, b.Workload, "seven active tasks is a high workload")
	assert.InDelta(t, 0.75, b.HoursLogged, 0.001)

	i := byID[idle.ID]
	assert.Zero(t, i.TotalTasks)
	assert.Zero(t, i.CompletionRate)
	assert.Equal(t, WorkloadLight, i.Workload)
}
