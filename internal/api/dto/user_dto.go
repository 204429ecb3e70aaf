package dto

import (
	"time"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
)

// CreateUserRequest payload for admin-provisioned accounts.
type CreateUserRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	CreatedBy *string     `json:"createdBy"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListUsersRequest payload for the user listing endpoint.
type ListUsersRequest struct {
	CreatedBy string `json:"createdBy"`
}

// UpdateUserRequest carries a partial account update. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}

// BulkUpdateRequest payload for the bulk status endpoint.
type BulkUpdateRequest struct {
	IsActive *bool `json:"isActive"`
}

// UserResponse exposes public account fields; the password hash never
// leaves the service.
type UserResponse struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedBy *string     `json:"createdBy,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// LoginResponse bundles the issued token with the account's public view.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedBy: user.CreatedBy,
		CreatedAt: user.CreatedAt,
	}
}
