package api

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nikhil240896/tms-api/internal/api/shared"
	"github.com/nikhil240896/tms-api/internal/domain"
	"github.com/nikhil240896/tms-api/internal/service"
)

// AssignmentHandler handles task assignment and status transition requests.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	validator         *validator.Validate
}

// NewAssignmentHandler creates a new AssignmentHandler with the given
// dependencies.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		validator:         validator.New(),
	}
}

// AssignTasks handles POST /tasks/assign. The task id field accepts a single
// id or a list.
func (h *AssignmentHandler) AssignTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AssignTasksRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}

	userID, err := parseUUID(req.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	count, err := h.assignmentService.AssignTasksToUser(r.Context(), caller, req.TaskIDs, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK,
		fmt.Sprintf("%d task(s) assigned successfully", count), map[string]any{
			"assignedCount": count,
		})
}

// UpdateStatus handles PATCH /tasks/status.
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	taskID, err := parseUUID(req.TaskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	userID, err := parseUUID(req.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.assignmentService.UpdateTaskStatus(r.Context(), caller, taskID, userID,
		domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Task status updated successfully", map[string]any{
		"task": task,
	})
}
