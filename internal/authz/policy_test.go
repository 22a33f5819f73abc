package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/authz"
	"github.com/nikhil240896/tms-api/internal/domain"
)

func newTestUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser("tester", "tester-"+uuid.NewString()[:8]+"@example.com", "hashed")
	require.NoError(t, err)
	user.Role = role
	return user
}

func TestListScope(t *testing.T) {
	t.Parallel()

	t.Run("admin sees own admin assignments", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleAdmin)
		filter := authz.ListScope(caller)

		require.NotNil(t, filter.AssignedBy)
		require.NotNil(t, filter.AssigneeRole)
		assert.Equal(t, caller.ID, *filter.AssignedBy)
		assert.Equal(t, domain.RoleAdmin, *filter.AssigneeRole)
		assert.Nil(t, filter.AssigneeID)
	})

	t.Run("manager sees own manager assignments", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleManager)
		filter := authz.ListScope(caller)

		require.NotNil(t, filter.AssignedBy)
		require.NotNil(t, filter.AssigneeRole)
		assert.Equal(t, caller.ID, *filter.AssignedBy)
		assert.Equal(t, domain.RoleManager, *filter.AssigneeRole)
		assert.Nil(t, filter.AssigneeID)
	})

	t.Run("user sees tasks assigned to them", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleUser)
		filter := authz.ListScope(caller)

		require.NotNil(t, filter.AssigneeID)
		assert.Equal(t, caller.ID, *filter.AssigneeID)
		assert.Nil(t, filter.AssignedBy)
		assert.Nil(t, filter.AssigneeRole)
	})
}

func TestStatsScope(t *testing.T) {
	t.Parallel()

	t.Run("admin is unconstrained", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleAdmin)
		filter := authz.StatsScope(caller)

		assert.Nil(t, filter.AssignedBy)
		assert.Nil(t, filter.AssigneeRole)
		assert.Nil(t, filter.AssigneeID)
	})

	t.Run("manager matches the listing scope", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleManager)
		assert.Equal(t, authz.ListScope(caller), authz.StatsScope(caller))
	})

	t.Run("user matches the listing scope", func(t *testing.T) {
		t.Parallel()

		caller := newTestUser(t, domain.RoleUser)
		assert.Equal(t, authz.ListScope(caller), authz.StatsScope(caller))
	})
}

func TestCanAssignToUser(t *testing.T) {
	t.Parallel()

	admin := newTestUser(t, domain.RoleAdmin)
	manager := newTestUser(t, domain.RoleManager)

	teamMember := newTestUser(t, domain.RoleUser)
	teamMember.ManagerID = &manager.ID

	stranger := newTestUser(t, domain.RoleUser)

	t.Run("admin may assign to any user", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, authz.CanAssignToUser(admin, teamMember))
		assert.NoError(t, authz.CanAssignToUser(admin, stranger))
	})

	t.Run("manager may assign only within their team", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, authz.CanAssignToUser(manager, teamMember))
		assert.ErrorIs(t, authz.CanAssignToUser(manager, stranger), authz.ErrForbidden)
	})

	t.Run("target must hold the user role", func(t *testing.T) {
		t.Parallel()

		otherManager := newTestUser(t, domain.RoleManager)
		assert.ErrorIs(t, authz.CanAssignToUser(admin, otherManager), authz.ErrNotAssignable)
		assert.ErrorIs(t, authz.CanAssignToUser(admin, nil), authz.ErrNotAssignable)
	})

	t.Run("user-role caller is forbidden", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, authz.CanAssignToUser(stranger, teamMember), authz.ErrForbidden)
	})
}

func TestCanUpdateStatusFor(t *testing.T) {
	t.Parallel()

	admin := newTestUser(t, domain.RoleAdmin)
	manager := newTestUser(t, domain.RoleManager)

	teamMember := newTestUser(t, domain.RoleUser)
	teamMember.ManagerID = &manager.ID

	stranger := newTestUser(t, domain.RoleUser)

	assert.NoError(t, authz.CanUpdateStatusFor(admin, stranger), "admins may update any task")
	assert.NoError(t, authz.CanUpdateStatusFor(manager, teamMember))
	assert.ErrorIs(t, authz.CanUpdateStatusFor(manager, stranger), authz.ErrForbidden)
	assert.NoError(t, authz.CanUpdateStatusFor(stranger, stranger),
		"user callers are already scope-restricted to their own tasks")
}
