package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/domain"
)

func TestParseDueDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date", func(t *testing.T) {
		t.Parallel()

		due, err := domain.ParseDueDate("2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), due)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		for _, value := range []string{
			"",
			"2026-9-15",
			"15-09-2026",
			"2026/09/15",
			"2026-09-15T00:00:00Z",
			"2026-13-45",
			"yesterday",
		} {
			_, err := domain.ParseDueDate(value)
			assert.ErrorIs(t, err, domain.ErrInvalidDueDate, "value %q", value)
		}
	})
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask("Ship release", "Cut and tag the release", "2026-09-15", domain.PriorityHigh)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, domain.StatusPending, task.Status, "new tasks start pending")
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.False(t, task.Assigned())
	assert.Nil(t, task.AssigneeID)
	assert.Nil(t, task.AssignedBy)
	assert.Nil(t, task.AssigneeRole)
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	_, err := domain.NewTask("", "desc", "2026-09-15", domain.PriorityLow)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = domain.NewTask("title", "", "2026-09-15", domain.PriorityLow)
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)

	_, err = domain.NewTask("title", "desc", "bad-date", domain.PriorityLow)
	assert.ErrorIs(t, err, domain.ErrInvalidDueDate)

	_, err = domain.NewTask("title", "desc", "2026-09-15", domain.TaskPriority("urgent"))
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestTaskValidateAssignmentTriple(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask("title", "desc", "2026-09-15", domain.PriorityMedium)
	require.NoError(t, err)

	// A partial assignment triple is invalid.
	assignee := uuid.New()
	task.AssigneeID = &assignee
	assert.ErrorIs(t, task.Validate(), domain.ErrInvalidAssignment)

	assigner := uuid.New()
	role := domain.RoleManager
	task.AssignedBy = &assigner
	task.AssigneeRole = &role
	require.NoError(t, task.Validate())
	assert.True(t, task.Assigned())
}
