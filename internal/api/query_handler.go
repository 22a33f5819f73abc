package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/nikhil240896/tms-api/internal/api/shared"
	"github.com/nikhil240896/tms-api/internal/service"
)

// QueryHandler handles the scoped task read endpoints: the cached
// assigned-task listing, stats and search.
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new QueryHandler with the given dependencies.
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// AssignedTasks handles GET /tasks/assigned. The response notes whether it
// was served from the cache.
func (h *QueryHandler) AssignedTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	tasks, cached, err := h.queryService.GetAssignedTasks(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"tasks":  tasks,
		"count":  len(tasks),
		"cached": cached,
	})
}

// Stats handles GET /tasks/stats.
func (h *QueryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.queryService.GetTaskStats(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"stats": stats,
		"role":  caller.Role,
	})
}

// Search handles POST /tasks/search. All predicates are optional and
// applied on top of the caller's scope.
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireUser(w, r)
	if !ok {
		return
	}

	// An empty body means no predicates, just the caller's scope.
	var req SearchTasksRequest
	if err := DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	input := service.SearchInput{
		Status:   req.Status,
		Priority: req.Priority,
		DueDate:  req.DueDate,
		Assigned: req.Assigned,
		Search:   req.Search,
	}

	tasks, err := h.queryService.SearchTasks(r.Context(), caller, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}
