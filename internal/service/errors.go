// Package service implements the application's use cases on top of the
// stores, the authorization engine and the cache.
package service

import (
	"errors"
	"fmt"

	"github.com/nikhil240896/tms-api/internal/store"
)

// Common service errors.
var (
	// ErrInvalidInput is the root of the invalid-input family: malformed or
	// missing required fields, bad date formats, empty bulk targets.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on login with an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Invalid-input specializations.

	// ErrMissingUserID is returned when an operation requires a target user id.
	ErrMissingUserID = fmt.Errorf("%w: user ID is required", ErrInvalidInput)

	// ErrEmptyTaskIDs is returned when a bulk task operation receives no task ids.
	ErrEmptyTaskIDs = fmt.Errorf("%w: enter task(s)", ErrInvalidInput)

	// ErrEmptyUserIDs is returned when a bulk user operation receives no user ids.
	ErrEmptyUserIDs = fmt.Errorf("%w: enter user data to update", ErrInvalidInput)

	// ErrMissingManagerID is returned when assigning users to a manager
	// without naming the manager.
	ErrMissingManagerID = fmt.Errorf("%w: managerId is required", ErrInvalidInput)

	// ErrMissingStatus is returned when a status update names no status.
	ErrMissingStatus = fmt.Errorf("%w: task ID and task status are required", ErrInvalidInput)

	// ErrMissingSearchCriteria is returned when a manager search provides
	// neither an email nor a user name.
	ErrMissingSearchCriteria = fmt.Errorf(
		"%w: please provide either an email or a username to search", ErrInvalidInput)

	// Not-found specializations, wrapping the store family.

	// ErrNoAssignedTasks is returned when a caller's assigned-task scope is empty.
	ErrNoAssignedTasks = fmt.Errorf("%w: no assigned tasks found", store.ErrNotFound)

	// ErrNoManagersFound is returned when a manager listing or search matches nothing.
	ErrNoManagersFound = fmt.Errorf("%w: no managers found", store.ErrNotFound)

	// ErrNoMatchingUsers is returned when a bulk user operation matched zero
	// user-role rows among its targets.
	ErrNoMatchingUsers = fmt.Errorf(
		"%w: no users with the role 'user' found for the provided IDs", store.ErrNotFound)
)
