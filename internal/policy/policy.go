// Package policy is the single place that decides what a principal may do
// with a task. Every task operation consults it; no handler carries its own
// role checks.
package policy

import "task-manager/internal/models"

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// CanAccess reports whether p may perform action on task. Pure, no side effects.
// Admins may do everything. Non-admins may always create; view/edit/delete only
// on tasks assigned to them. A nil principal may do nothing.
func CanAccess(p *models.Principal, action Action, task *models.Task) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	if action == ActionCreate {
		return true
	}
	if task == nil {
		return false
	}
	return task.AssignedPersonID == p.UserID
}

// CanAssign reports whether p may set a task's assignee to the given user.
// Non-admins must never assign to an Admin.
func CanAssign(p *models.Principal, assignee *models.User) bool {
	if p == nil || assignee == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return assignee.Role != models.RoleAdmin
}
