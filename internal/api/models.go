package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikhil240896/tms-api/internal/domain"
)

// Common request/response structures

// IDList accepts either a single ID string or an array of ID strings in the
// request body, so callers may write "taskIds": "..." or "taskIds": [...].
type IDList []uuid.UUID

// UnmarshalJSON implements the scalar-or-array decoding for IDList.
func (l *IDList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		id, err := uuid.Parse(single)
		if err != nil {
			return fmt.Errorf("%w: %q", domain.ErrInvalidID, single)
		}
		*l = IDList{id}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("%w: expected an ID or a list of IDs", domain.ErrInvalidID)
	}

	ids := make(IDList, 0, len(many))
	for _, raw := range many {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	UserName        string `json:"userName"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the client-facing projection of a user.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserName  string     `json:"userName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewUserResponse builds the client projection of a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		Role:      string(user.Role),
		ManagerID: user.ManagerID,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses builds the client projections for a user list.
func NewUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"dueDate"     validate:"required"`
	Priority    string `json:"priority"    validate:"required,oneof=low medium high"`
}

// UpdateTaskRequest defines the payload for the partial task update
// endpoint. Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
}

// AssignTasksRequest defines the payload for the bulk task assignment
// endpoint.
type AssignTasksRequest struct {
	TaskIDs IDList `json:"taskIds"`
	UserID  string `json:"userId"`
}

// UpdateTaskStatusRequest defines the payload for the status update endpoint.
// UserID names the user the chain check runs against; an unknown or omitted
// id reads as a missing user.
type UpdateTaskStatusRequest struct {
	TaskID string `json:"taskId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending overdue completed"`
	UserID string `json:"userId"`
}

// SearchTasksRequest defines the optional predicates for the scoped task
// search endpoint. Omitted fields match everything.
type SearchTasksRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Assigned *bool  `json:"assigned,omitempty"`
	Search   string `json:"search,omitempty"`
}

// PromoteUsersRequest defines the payload for bulk user promotion.
type PromoteUsersRequest struct {
	UserIDs IDList `json:"userIds"`
}

// AssignUsersToManagerRequest defines the payload for linking users to
// a manager.
type AssignUsersToManagerRequest struct {
	UserIDs   IDList `json:"userIds"`
	ManagerID string `json:"managerId"`
}
