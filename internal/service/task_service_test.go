package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/mocks"
	"github.com/nikhil240896/tms-api/internal/service"
	"github.com/nikhil240896/tms-api/internal/store"
)

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("persists a pending unassigned task", func(t *testing.T) {
		t.Parallel()

		taskStore := &mocks.MockTaskStore{}
		svc := service.NewTaskService(taskStore, nil)

		task, err := svc.Create(ctx, service.TaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
			DueDate:     "2026-09-30",
			Priority:    domain.PriorityMedium,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusPending, task.Status)
		assert.False(t, task.Assigned())
		assert.Len(t, taskStore.CreateCalls, 1)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		taskStore := &mocks.MockTaskStore{}
		svc := service.NewTaskService(taskStore, nil)

		_, err := svc.Create(ctx, service.TaskInput{
			Title:       "Write report",
			Description: "Quarterly numbers",
			DueDate:     "30-09-2026",
			Priority:    domain.PriorityMedium,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
		assert.Empty(t, taskStore.CreateCalls)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("revalidates a supplied due date", func(t *testing.T) {
		t.Parallel()

		svc := service.NewTaskService(&mocks.MockTaskStore{}, nil)

		bad := "soon"
		_, err := svc.Update(ctx, uuid.New(), service.TaskPatch{DueDate: &bad})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
	})

	t.Run("passes parsed fields to the store", func(t *testing.T) {
		t.Parallel()

		var gotUpdate store.TaskUpdate
		taskStore := &mocks.MockTaskStore{
			UpdateFn: func(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
				gotUpdate = update
				task, err := domain.NewTask("t", "d", "2026-10-01", domain.PriorityHigh)
				require.NoError(t, err)
				return task, nil
			},
		}
		svc := service.NewTaskService(taskStore, nil)

		title := "New title"
		due := "2026-10-01"
		priority := domain.PriorityHigh
		_, err := svc.Update(ctx, uuid.New(), service.TaskPatch{
			Title:    &title,
			DueDate:  &due,
			Priority: &priority,
		})
		require.NoError(t, err)

		require.NotNil(t, gotUpdate.Title)
		assert.Equal(t, "New title", *gotUpdate.Title)
		assert.Nil(t, gotUpdate.Description)
		require.NotNil(t, gotUpdate.DueDate)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *gotUpdate.DueDate)
		require.NotNil(t, gotUpdate.Priority)
		assert.Equal(t, domain.PriorityHigh, *gotUpdate.Priority)
	})

	t.Run("rejects blank required fields", func(t *testing.T) {
		t.Parallel()

		svc := service.NewTaskService(&mocks.MockTaskStore{}, nil)

		empty := ""
		_, err := svc.Update(ctx, uuid.New(), service.TaskPatch{Title: &empty})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	})

	t.Run("missing task surfaces not found", func(t *testing.T) {
		t.Parallel()

		svc := service.NewTaskService(&mocks.MockTaskStore{}, nil)

		title := "x"
		_, err := svc.Update(ctx, uuid.New(), service.TaskPatch{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	taskStore := &mocks.MockTaskStore{
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			return store.ErrTaskNotFound
		},
	}
	svc := service.NewTaskService(taskStore, nil)

	err := svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
