package events

import (
	"time"

	"github.com/spec-kit/intake-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted EventType = "ticket_submitted"
	EventTicketUpdated   EventType = "ticket_updated"
	EventUserLoggedIn    EventType = "user_logged_in"
)

// Event represents a domain event emitted by services. Events are
// fire-and-forget: ticket correctness never depends on their delivery.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	Type        domain.TicketType `json:"type"`
	Topic       string            `json:"topic"`
	Location    string            `json:"location,omitempty"`
	Attachments int               `json:"attachments"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	AssignedTo string              `json:"assigned_to,omitempty"`
	Reopened   bool                `json:"reopened"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}
