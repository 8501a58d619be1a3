package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/api/dto"
	"github.com/spec-kit/intake-service/internal/auth"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/service"
	util "github.com/spec-kit/intake-service/pkg/util"
)

const filterDateLayout = "2006-01-02"

// AdminTicketsHandler serves the triage surface: the update protocol, the
// dashboard aggregation, and bulk export.
type AdminTicketsHandler struct {
	tickets   *service.TicketService
	dashboard *service.DashboardService
	export    *service.ExportService
	audit     *service.AuditService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(tickets *service.TicketService, dashboard *service.DashboardService, export *service.ExportService, audit *service.AuditService) *AdminTicketsHandler {
	return &AdminTicketsHandler{tickets: tickets, dashboard: dashboard, export: export, audit: audit}
}

// Update POST /admin/tickets/:id.
func (h *AdminTicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.UpdateInput{
		TicketID:         c.Params("id"),
		NewStatus:        req.Status,
		InternalComment:  req.InternalComment,
		PublicComment:    req.PublicComment,
		AssignedTo:       req.AssignedTo,
		AdminAttachments: attachmentUploads(req.AdminAttachments),
	}
	commentLog, err := h.tickets.Update(c.UserContext(), principal.User.Username, input)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), principal.User.Username, "ticket_updated", input.TicketID)

	return c.JSON(fiber.Map{"data": dto.UpdateTicketResponse{CommentLog: commentLog}})
}

// Dashboard GET /admin/dashboard.
func (h *AdminTicketsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("authentication required")
	}
	query := service.DashboardQuery{
		Filter: parseTicketFilter(c),
		Search: c.Query("search"),
		Page:   parsePage(c.Query("page")),
	}
	result, err := h.dashboard.Query(c.UserContext(), principal.User, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboardResponse(result)})
}

// Export GET /admin/export.
func (h *AdminTicketsHandler) Export(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("authentication required")
	}
	rows, err := h.export.Export(c.UserContext(), parseTicketFilter(c))
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), principal.User.Username, "tickets_exported", strconv.Itoa(max(len(rows)-1, 0))+" rows")
	return c.JSON(fiber.Map{"data": dto.ExportResponse{Rows: rows}})
}

func parseTicketFilter(c *fiber.Ctx) service.TicketFilter {
	filter := service.TicketFilter{
		Type:       domain.TicketType(strings.ToUpper(strings.TrimSpace(c.Query("type")))),
		AssignedTo: strings.TrimSpace(c.Query("assigned_to")),
		Status:     domain.TicketStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		DateRange:  service.DateRangeKey(strings.ToLower(strings.TrimSpace(c.Query("date_range")))),
	}
	if from, err := time.ParseInLocation(filterDateLayout, c.Query("from"), time.Local); err == nil {
		filter.CustomFrom = from
	}
	if to, err := time.ParseInLocation(filterDateLayout, c.Query("to"), time.Local); err == nil {
		filter.CustomTo = to
	}
	return filter
}

func parsePage(val string) int {
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func dashboardResponse(result *service.DashboardResult) dto.DashboardResponse {
	perf := make([]dto.AssigneePerformanceView, 0, len(result.AssigneePerformance))
	for _, row := range result.AssigneePerformance {
		perf = append(perf, dto.AssigneePerformanceView{
			Assignee:  row.Assignee,
			Active:    row.Active,
			Completed: row.Completed,
			Cancelled: row.Cancelled,
			Total:     row.Total,
		})
	}
	return dto.DashboardResponse{
		TotalsByType: dto.TypeCountsView{
			Complaints:   result.TotalsByType.Complaints,
			Suggestions:  result.TotalsByType.Suggestions,
			IssueReports: result.TotalsByType.IssueReports,
		},
		TotalsByStatus:       statusCountsView(result.TotalsByStatus),
		FilteredStatusCounts: statusCountsView(result.FilteredStatusCounts),
		SLA: dto.SLAView{
			Critical: result.SLA.Critical,
			Warning:  result.SLA.Warning,
		},
		AssigneePerformance: perf,
		UnassignedQueue:     ticketViews(result.UnassignedQueue),
		Recent:              ticketViews(result.Recent),
		Rows:                ticketViews(result.Rows),
		Pagination: dto.PaginationView{
			Page:       result.Pagination.Page,
			PageSize:   result.Pagination.PageSize,
			TotalPages: result.Pagination.TotalPages,
			TotalRows:  result.Pagination.TotalRows,
		},
	}
}

func statusCountsView(counts service.StatusCounts) dto.StatusCountsView {
	return dto.StatusCountsView{
		New:        counts.New,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
		Cancelled:  counts.Cancelled,
	}
}

func ticketViews(tickets []domain.Ticket) []dto.TicketView {
	views := make([]dto.TicketView, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		views = append(views, dto.TicketView{
			ID:               t.ID,
			CreatedAt:        domain.FormatTime(t.CreatedAt),
			LastUpdatedAt:    domain.FormatTime(t.LastUpdatedAt),
			Type:             domain.TypeLabel(t.Type),
			Topic:            t.Topic,
			Details:          t.Details,
			Location:         t.Location,
			Status:           domain.StatusLabel(t.Status),
			AssignedTo:       t.AssigneeOrUnassigned(),
			Attachments:      t.AttachmentURLs,
			AdminCommentLog:  t.AdminCommentLog,
			PublicComment:    t.PublicComment,
			AdminAttachments: t.AdminAttachmentURLs,
		})
	}
	return views
}
