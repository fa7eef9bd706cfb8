package access

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/google/uuid"
)

// Action is a capability a role may hold
type Action string

const (
	ActionManageTasks   Action = "manage_tasks"
	ActionDeleteTasks   Action = "delete_tasks"
	ActionManageUsers   Action = "manage_users"
	ActionInviteUsers   Action = "invite_users"
	ActionViewAllTasks  Action = "view_all_tasks"
	ActionViewAnalytics Action = "view_analytics"
)

// capabilities maps each role to the actions it may perform
var capabilities = map[user.Role]map[Action]bool{
	user.RoleAdmin: {
		ActionManageTasks:   true,
		ActionDeleteTasks:   true,
		ActionManageUsers:   true,
		ActionInviteUsers:   true,
		ActionViewAllTasks:  true,
		ActionViewAnalytics: true,
	},
	user.RoleManagement: {
		ActionManageTasks:   true,
		ActionDeleteTasks:   true,
		ActionInviteUsers:   true,
		ActionViewAllTasks:  true,
		ActionViewAnalytics: true,
	},
	user.RoleEmployee: {},
}

// Can reports whether the role holds the given capability. Unknown roles hold
// nothing.
func Can(role user.Role, action Action) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	return caps[action]
}

// CanActOnTask reports whether a user may mutate a task: management always,
// the assignee for their own tasks.
func CanActOnTask(u *user.User, assigneeID uuid.UUID) bool {
	if Can(u.Role, ActionManageTasks) {
		return true
	}
	return u.ID == assigneeID
}
