package api

import (
	"fmt"
	"net/http"

	"github.com/nikhil240896/tms-api/internal/api/shared"
	"github.com/nikhil240896/tms-api/internal/service"
)

// AdminHandler handles the user-administration API requests: user listing,
// manager directory, promotion and team assignment.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles GET /users with page/limit query parameters.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.adminService.ListUsers(r.Context(), page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"users":       NewUserResponses(result.Users),
		"totalUsers":  result.TotalUsers,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}

// ListManagers handles GET /managers.
func (h *AdminHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.adminService.ListManagers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"managers": NewUserResponses(managers),
		"count":    len(managers),
	})
}

// SearchManagers handles GET /managers/search with email/userName query
// parameters.
func (h *AdminHandler) SearchManagers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	managers, err := h.adminService.SearchManagers(r.Context(), q.Get("email"), q.Get("userName"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "", map[string]any{
		"managers": NewUserResponses(managers),
		"count":    len(managers),
	})
}

// PromoteUsers handles POST /managers/promote. The user id field accepts a
// single id or a list.
func (h *AdminHandler) PromoteUsers(w http.ResponseWriter, r *http.Request) {
	var req PromoteUsersRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}

	count, err := h.adminService.PromoteToManagers(r.Context(), req.UserIDs)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK,
		fmt.Sprintf("%d user(s) promoted to manager", count), map[string]any{
			"promotedCount": count,
		})
}

// AssignUsersToManager handles POST /managers/assign-users.
func (h *AdminHandler) AssignUsersToManager(w http.ResponseWriter, r *http.Request) {
	var req AssignUsersToManagerRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}

	managerID, err := parseUUID(req.ManagerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	count, err := h.adminService.AssignUsersToManager(r.Context(), req.UserIDs, managerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK,
		fmt.Sprintf("%d user(s) assigned to manager", count), map[string]any{
			"assignedCount": count,
		})
}
