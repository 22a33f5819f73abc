// Package authz is the authorization engine: pure functions mapping a
// caller's role and identity to the query scope they may read and the
// assignment operations they may perform. Every role-conditional rule in the
// service is defined here, once, as a table over the three roles.
package authz

import (
	"errors"

	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/store"
)

// Errors returned by authorization decisions.
var (
	// ErrForbidden is returned when the caller's role or management chain
	// does not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotAssignable is returned when the assignment target does not hold
	// the user role.
	ErrNotAssignable = errors.New("user is not eligible for task assignment")
)

// scopeRule describes how one role's listing scope is constrained.
type scopeRule struct {
	// byAssigner pins the filter to tasks the caller assigned while
	// holding their current role.
	byAssigner bool
	// byAssignee pins the filter to tasks assigned to the caller.
	byAssignee bool
}

// listScopeRules is the scope table for assigned-task listing and search.
// Note that admins are pinned to their own assignments here, unlike the
// stats table below where they see everything.
var listScopeRules = map[domain.Role]scopeRule{
	domain.RoleAdmin:   {byAssigner: true},
	domain.RoleManager: {byAssigner: true},
	domain.RoleUser:    {byAssignee: true},
}

// statsScopeRules is the scope table for the stats aggregation. Admins are
// unconstrained; managers and users match the listing scope.
var statsScopeRules = map[domain.Role]scopeRule{
	domain.RoleAdmin:   {},
	domain.RoleManager: {byAssigner: true},
	domain.RoleUser:    {byAssignee: true},
}

// applyScope materializes a scope rule into a task filter for the caller.
func applyScope(caller *domain.User, rule scopeRule) store.TaskFilter {
	var filter store.TaskFilter
	if rule.byAssigner {
		id := caller.ID
		role := caller.Role
		filter.AssignedBy = &id
		filter.AssigneeRole = &role
	}
	if rule.byAssignee {
		id := caller.ID
		filter.AssigneeID = &id
	}
	return filter
}

// ListScope returns the filter restricting assigned-task listing and search
// to exactly the tasks the caller may see:
//
//	admin   => assignedBy = caller AND assigneeRole = admin
//	manager => assignedBy = caller AND assigneeRole = manager
//	user    => user = caller
func ListScope(caller *domain.User) store.TaskFilter {
	return applyScope(caller, listScopeRules[caller.Role])
}

// StatsScope returns the filter restricting the stats aggregation. Unlike
// ListScope, admins are unconstrained here. The asymmetry is inherited
// behavior and deliberate; do not unify the two scopes without a product
// decision.
func StatsScope(caller *domain.User) store.TaskFilter {
	return applyScope(caller, statsScopeRules[caller.Role])
}

// CanAssignToUser decides whether the caller may assign tasks to the target
// user. Admins may assign to any user-role target; managers only to members
// of their own team. Returns ErrNotAssignable if the target does not hold
// the user role, ErrForbidden on a management-chain violation.
func CanAssignToUser(caller, target *domain.User) error {
	if target == nil || target.Role != domain.RoleUser {
		return ErrNotAssignable
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleManager:
		if !caller.Manages(target) {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// CanUpdateStatusFor decides whether the caller may update the status of a
// task belonging to the given owner. Admins may update any task; managers
// only tasks of users under their management. User-role callers pass: their
// reads are already pinned to their own tasks, so no chain check applies.
func CanUpdateStatusFor(caller, owner *domain.User) error {
	if caller.Role == domain.RoleManager && !caller.Manages(owner) {
		return ErrForbidden
	}
	return nil
}
