package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/api/dto"
	"github.com/spec-kit/intake-service/internal/service"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// TicketsHandler serves the public intake surface: ticket submission and
// the access-key status check.
type TicketsHandler struct {
	tickets *service.TicketService
	audit   *service.AuditService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, audit *service.AuditService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, audit: audit}
}

// Submit POST /tickets.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.SubmitInput{
		Type:        req.Type,
		Topic:       req.Topic,
		Details:     req.Details,
		Location:    req.Location,
		Attachments: attachmentUploads(req.Attachments),
	}
	ticket, err := h.tickets.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), "public", "ticket_submitted", ticket.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SubmitTicketResponse{
		ID:        ticket.ID,
		AccessKey: ticket.AccessKey,
		Status:    string(ticket.Status),
	}})
}

// Status GET /tickets/status?key=...
func (h *TicketsHandler) Status(c *fiber.Ctx) error {
	view, err := h.tickets.StatusByAccessKey(c.UserContext(), c.Query("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketStatusResponse{
		ID:               view.ID,
		LastUpdated:      view.LastUpdated,
		Type:             view.TypeLabel,
		Status:           view.StatusLabel,
		PublicComment:    view.PublicComment,
		AdminAttachments: view.AdminAttachmentURLs,
	}})
}

func attachmentUploads(reqs []dto.AttachmentRequest) []service.AttachmentUpload {
	uploads := make([]service.AttachmentUpload, 0, len(reqs))
	for _, req := range reqs {
		uploads = append(uploads, service.AttachmentUpload{
			FileName: req.FileName,
			MimeType: req.MimeType,
			Data:     req.Data,
		})
	}
	return uploads
}
