package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/project"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/task"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/timelog"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
)

// WorkloadTier classifies how loaded an employee is by their active task count
type WorkloadTier string

const (
	WorkloadHigh   WorkloadTier = "High"
	WorkloadMedium WorkloadTier = "Medium"
	WorkloadLight  WorkloadTier = "Light"
)

// WorkloadFor maps an active task count to a tier: more than five is High,
// more than three is Medium, anything else is Light.
func WorkloadFor(activeTasks int) WorkloadTier {
	switch {
	case activeTasks > 5:
		return WorkloadHigh
	case activeTasks > 3:
		return WorkloadMedium
	default:
		return WorkloadLight
	}
}

// CompletionRate is the share of done tasks as a rounded whole percentage.
// An empty task set yields zero rather than a division error.
func CompletionRate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Overview is the top-level KPI snapshot
type Overview struct {
	TotalTasks     int     `json:"total_tasks"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Overdue        int     `json:"overdue"`
	AtRisk         int     `json:"at_risk"`
	CompletionRate int     `json:"completion_rate"`
	ActiveProjects int     `json:"active_projects"`
	HoursLogged    float64 `json:"hours_logged"`
}

// DepartmentPerformance is the task rollup for one department
type DepartmentPerformance struct {
	Department     string  `json:"department"`
	Members        int     `json:"members"`
	TotalTasks     int     `json:"total_tasks"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Overdue        int     `json:"overdue"`
	CompletionRate int     `json:"completion_rate"`
	HoursLogged    float64 `json:"hours_logged"`
}

// RollupOrder selects the sort key for performance rollups
type RollupOrder string

const (
	OrderByName           RollupOrder = "name"
	OrderByCompletionAsc  RollupOrder = "completion_asc"
	OrderByCompletionDesc RollupOrder = "completion_desc"
)

// EmployeePerformance is the task rollup for one employee
type EmployeePerformance struct {
	UserID         uuid.UUID    `json:"user_id"`
	Name           string       `json:"name"`
	Department     string       `json:"department"`
	TotalTasks     int          `json:"total_tasks"`
	Completed      int          `json:"completed"`
	InProgress     int          `json:"in_progress"`
	Overdue        int          `json:"overdue"`
	CompletionRate int          `json:"completion_rate"`
	HoursLogged    float64      `json:"hours_logged"`
	Workload       WorkloadTier `json:"workload"`
}

// ComputeOverview rolls tasks, projects and time entries up into the KPI
// snapshot at the given reference time.
func ComputeOverview(tasks []task.Task, projects []project.Project, entries []timelog.TimeEntry, now time.Time) Overview {
	o := Overview{TotalTasks: len(tasks)}

	for i := range tasks {
		switch tasks[i].Status {
		case task.TaskStatusDone:
			o.Completed++
		case task.TaskStatusInProgress:
			o.InProgress++
		}
		if task.IsOverdue(&tasks[i], now) {
			o.Overdue++
		}
	}
	o.AtRisk = len(task.AtRiskTasks(tasks, now))
	o.CompletionRate = CompletionRate(o.Completed, o.TotalTasks)

	for _, p := range projects {
		if p.Status == project.ProjectStatusActive {
			o.ActiveProjects++
		}
	}

	o.HoursLogged = timelog.TotalHours(entries)
	return o
}

// ComputeDepartmentPerformance rolls tasks up by department at the given
// reference time. A task belongs to the department of its project, not its
// assignee, so cross-department assignments count toward the owning
// department. Projects and users without a department are grouped under
// "Unassigned". The result is in department-name order; callers pick a
// different key with SortDepartments.
func ComputeDepartmentPerformance(tasks []task.Task, projects []project.Project, users []user.User, entries []timelog.TimeEntry, now time.Time) []DepartmentPerformance {
	departments := make(map[string]*DepartmentPerformance)

	deptFor := func(name string) *DepartmentPerformance {
		if name == "" {
			name = "Unassigned"
		}
		d, ok := departments[name]
		if !ok {
			d = &DepartmentPerformance{Department: name}
			departments[name] = d
		}
		return d
	}

	projectDept := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		projectDept[p.ID] = p.Department
		deptFor(p.Department)
	}

	for _, u := range users {
		deptFor(u.Department).Members++
	}

	taskDept := make(map[uuid.UUID]string, len(tasks))
	for i := range tasks {
		dept := projectDept[tasks[i].ProjectID]
		taskDept[tasks[i].ID] = dept

		d := deptFor(dept)
		d.TotalTasks++
		switch tasks[i].Status {
		case task.TaskStatusDone:
			d.Completed++
		case task.TaskStatusInProgress:
			d.InProgress++
		}
		if task.IsOverdue(&tasks[i], now) {
			d.Overdue++
		}
	}

	for _, e := range entries {
		deptFor(taskDept[e.TaskID]).HoursLogged += float64(e.DurationMinutes) / 60
	}

	out := make([]DepartmentPerformance, 0, len(departments))
	for _, d := range departments {
		d.CompletionRate = CompletionRate(d.Completed, d.TotalTasks)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// SortDepartments reorders a department rollup by the given key. Ties keep
// their existing relative order.
func SortDepartments(rollups []DepartmentPerformance, order RollupOrder) {
	switch order {
	case OrderByName:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].Department < rollups[j].Department
		})
	case OrderByCompletionAsc:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].CompletionRate < rollups[j].CompletionRate
		})
	case OrderByCompletionDesc:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].CompletionRate > rollups[j].CompletionRate
		})
	}
}

// SortEmployees reorders an employee rollup by the given key. Ties keep their
// existing relative order.
func SortEmployees(rollups []EmployeePerformance, order RollupOrder) {
	switch order {
	case OrderByName:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].Name < rollups[j].Name
		})
	case OrderByCompletionAsc:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].CompletionRate < rollups[j].CompletionRate
		})
	case OrderByCompletionDesc:
		sort.SliceStable(rollups, func(i, j int) bool {
			return rollups[i].CompletionRate > rollups[j].CompletionRate
		})
	}
}

// ComputeEmployeePerformance rolls tasks up per user at the given reference
// time. Every user appears even with no tasks assigned. The result keeps the
// input user order; callers pick a key with SortEmployees.
func ComputeEmployeePerformance(tasks []task.Task, users []user.User, entries []timelog.TimeEntry, now time.Time) []EmployeePerformance {
	byUser := make(map[uuid.UUID]*EmployeePerformance, len(users))
	out := make([]EmployeePerformance, 0, len(users))

	for _, u := range users {
		byUser[u.ID] = &EmployeePerformance{
			UserID:     u.ID,
			Name:       u.Name,
			Department: u.Department,
		}
	}

	active := make(map[uuid.UUID]int)
	for i := range tasks {
		p, ok := byUser[tasks[i].AssigneeID]
		if !ok {
			continue
		}
		p.TotalTasks++
		switch tasks[i].Status {
		case task.TaskStatusDone:
			p.Completed++
		case task.TaskStatusInProgress:
			p.InProgress++
		}
		if tasks[i].Status != task.TaskStatusDone {
			active[tasks[i].AssigneeID]++
		}
		if task.IsOverdue(&tasks[i], now) {
			p.Overdue++
		}
	}

	for _, e := range entries {
		if p, ok := byUser[e.UserID]; ok {
			p.HoursLogged += float64(e.DurationMinutes) / 60
		}
	}

	for _, u := range users {
		p := byUser[u.ID]
		p.CompletionRate = CompletionRate(p.Completed, p.TotalTasks)
		p.Workload = WorkloadFor(active[u.ID])
		out = append(out, *p)
	}
	return out
}
