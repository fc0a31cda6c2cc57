// Package policy is the single decision point for role and ownership checks.
// Handlers and services must not re-implement role logic; they ask this
// package so the rules cannot drift between enforcement points.
package policy

import "github.com/taskdesk/task-assignment-api/internal/models"

// Action is a requested operation on a resource.
type Action string

const (
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
	ActionAssign      Action = "assign"
	ActionManageUsers Action = "manage_users"
)

// Ownership captures a task's relationship to users. For ActionCreate,
// AssignedTo is the intended assignee of the task being created.
type Ownership struct {
	CreatedBy  uint64
	AssignedTo uint64
}

// Allow decides whether an actor may perform an action on a resource.
// It is pure: no I/O, deterministic given its inputs.
func Allow(role models.Role, actorID uint64, own Ownership, action Action) bool {
	if role == models.RoleAdmin {
		return true
	}
	if role != models.RoleUser {
		return false
	}

	switch action {
	case ActionView, ActionEdit:
		return actorID == own.CreatedBy || actorID == own.AssignedTo
	case ActionDelete:
		return actorID == own.CreatedBy
	case ActionCreate:
		// Non-admins may only create tasks assigned to themselves.
		return actorID == own.AssignedTo
	case ActionAssign, ActionManageUsers:
		return false
	}
	return false
}
