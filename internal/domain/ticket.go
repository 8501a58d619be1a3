package domain

import (
	"strings"
	"time"
)

// TimeLayout is the fixed-width format used for every timestamp cell.
// Cells store exactly what admins see, so search and export compare the
// same strings.
const TimeLayout = "2006-01-02 15:04:05"

// TicketType enumerates the intake categories.
type TicketType string

const (
	TicketTypeComplaint   TicketType = "COMPLAINT"
	TicketTypeSuggestion  TicketType = "SUGGESTION"
	TicketTypeIssueReport TicketType = "ISSUE_REPORT"
)

// TicketTypes lists all valid categories.
var TicketTypes = []TicketType{TicketTypeComplaint, TicketTypeSuggestion, TicketTypeIssueReport}

// ValidTicketType reports whether t is a known category.
func ValidTicketType(t TicketType) bool {
	for _, candidate := range TicketTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// TypeLabel returns the display label for a ticket type.
func TypeLabel(t TicketType) string {
	switch t {
	case TicketTypeComplaint:
		return "Complaint"
	case TicketTypeSuggestion:
		return "Suggestion"
	case TicketTypeIssueReport:
		return "Issue Report"
	default:
		return string(t)
	}
}

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// TicketStatuses lists all valid states.
var TicketStatuses = []TicketStatus{TicketStatusNew, TicketStatusInProgress, TicketStatusCompleted, TicketStatusCancelled}

// ValidTicketStatus reports whether s is a known state.
func ValidTicketStatus(s TicketStatus) bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsClosedStatus reports whether s is a terminal state.
func IsClosedStatus(s TicketStatus) bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

// IsActiveStatus reports whether s is a working state.
func IsActiveStatus(s TicketStatus) bool {
	return s == TicketStatusNew || s == TicketStatusInProgress
}

// StatusLabel returns the display label for a ticket status.
func StatusLabel(s TicketStatus) string {
	switch s {
	case TicketStatusNew:
		return "New"
	case TicketStatusInProgress:
		return "In Progress"
	case TicketStatusCompleted:
		return "Completed"
	case TicketStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Ticket is one intake record and its full mutation history.
type Ticket struct {
	ID                  string
	CreatedAt           time.Time
	LastUpdatedAt       time.Time
	Type                TicketType
	Topic               string
	Details             string
	Location            string
	Status              TicketStatus
	AttachmentURLs      []string
	AdminCommentLog     string
	AccessKey           string
	PublicComment       string
	AssignedTo          string
	AdminAttachmentURLs []string
}

// AssigneeOrUnassigned normalizes the empty assignee to its display form.
func (t *Ticket) AssigneeOrUnassigned() string {
	if strings.TrimSpace(t.AssignedTo) == "" {
		return "Unassigned"
	}
	return t.AssignedTo
}

// JoinList comma-joins URL lists for cell storage.
func JoinList(values []string) string {
	return strings.Join(values, ",")
}

// SplitList undoes JoinList, dropping empty segments.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// FormatTime renders a timestamp cell; zero times render empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// ParseTime reads a timestamp cell, returning the zero time for anything
// unparseable.
func ParseTime(value string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
