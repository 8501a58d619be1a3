package dto

import "github.com/spec-kit/intake-service/internal/domain"

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	Team         string      `json:"team"`
	AllowedTypes string      `json:"allowed_types"`
}

// ChangePasswordRequest payload. Username defaults to the caller.
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// SetUserStatusRequest payload.
type SetUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// UserView is the account projection; credentials never leave the service.
type UserView struct {
	Username     string            `json:"username"`
	Role         domain.Role       `json:"role"`
	Status       domain.UserStatus `json:"status"`
	Team         string            `json:"team"`
	AllowedTypes string            `json:"allowed_types"`
}

// TeamRequest payload.
type TeamRequest struct {
	Name string `json:"name"`
}

// TeamView projection.
type TeamView struct {
	Name string `json:"name"`
}

// AuditEntryView projection.
type AuditEntryView struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}
