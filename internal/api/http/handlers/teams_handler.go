package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/api/dto"
	"github.com/spec-kit/intake-service/internal/auth"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/service"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// TeamsHandler serves team administration and the audit trail listing.
type TeamsHandler struct {
	teams *service.TeamService
	audit *service.AuditService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService, audit *service.AuditService) *TeamsHandler {
	return &TeamsHandler{teams: teams, audit: audit}
}

// Add POST /admin/teams.
func (h *TeamsHandler) Add(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	team, err := h.teams.Add(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), actorName(principal), "team_added", team.Name)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TeamView{Name: team.Name}})
}

// List GET /admin/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	teams, err := h.teams.List(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]dto.TeamView, 0, len(teams))
	for _, team := range teams {
		views = append(views, dto.TeamView{Name: team.Name})
	}
	return c.JSON(fiber.Map{"data": views})
}

// Delete DELETE /admin/teams/:name.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	name := c.Params("name")
	if err := h.teams.Delete(c.UserContext(), name); err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), actorName(principal), "team_deleted", name)
	return c.JSON(fiber.Map{"data": fiber.Map{"name": name}})
}

// AuditLog GET /admin/audit.
func (h *TeamsHandler) AuditLog(c *fiber.Ctx) error {
	entries, err := h.audit.List(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	views := make([]dto.AuditEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, dto.AuditEntryView{
			Timestamp: domain.FormatTime(entry.Timestamp),
			Actor:     entry.Actor,
			Action:    entry.Action,
			Details:   entry.Details,
		})
	}
	return c.JSON(fiber.Map{"data": views})
}
