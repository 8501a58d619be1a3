package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/intake-service/internal/api/dto"
	"github.com/spec-kit/intake-service/internal/auth"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/events"
	"github.com/spec-kit/intake-service/internal/service"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// UsersHandler serves login, password changes and account administration.
type UsersHandler struct {
	users      *service.UserService
	tokens     *auth.TokenManager
	audit      *service.AuditService
	dispatcher events.Dispatcher
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, tokens *auth.TokenManager, audit *service.AuditService, dispatcher events.Dispatcher) *UsersHandler {
	return &UsersHandler{users: users, tokens: tokens, audit: audit, dispatcher: dispatcher}
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return util.NewValidationError("username and password required", nil)
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	token, expiresAt, err := h.tokens.GenerateToken(user)
	if err != nil {
		return util.NewInternalError(err)
	}
	h.audit.Record(c.UserContext(), user.Username, "login", "")
	if h.dispatcher != nil {
		_ = h.dispatcher.Publish(c.UserContext(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserLoggedIn,
			Actor:     user.Username,
			Timestamp: time.Now(),
			Payload:   events.UserLoggedInPayload{Username: user.Username, Role: user.Role},
		})
	}

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: domain.FormatTime(expiresAt),
		Username:  user.Username,
		Role:      user.Role,
	}})
}

// ChangePassword POST /auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	target := req.Username
	if target == "" {
		target = principal.User.Username
	}
	if err := h.users.ChangePassword(c.UserContext(), principal.User, target, req.NewPassword); err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), principal.User.Username, "password_changed", target)
	return c.JSON(fiber.Map{"data": fiber.Map{"username": target}})
}

// Create POST /admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), service.CreateUserInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		Team:         req.Team,
		AllowedTypes: req.AllowedTypes,
	})
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), actorName(principal), "user_created", user.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userView(user)})
}

// List GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]dto.UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// SetStatus POST /admin/users/:username/status.
func (h *UsersHandler) SetStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SetUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	username := c.Params("username")
	if err := h.users.SetStatus(c.UserContext(), username, req.Status); err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), actorName(principal), "user_status_changed", username+" -> "+string(req.Status))
	return c.JSON(fiber.Map{"data": fiber.Map{"username": username, "status": req.Status}})
}

func userView(user *domain.User) dto.UserView {
	return dto.UserView{
		Username:     user.Username,
		Role:         user.Role,
		Status:       user.Status,
		Team:         user.Team,
		AllowedTypes: user.AllowedTypes,
	}
}

func actorName(principal *auth.Principal) string {
	if principal == nil || principal.User == nil {
		return "unknown"
	}
	return principal.User.Username
}
