package dto

import (
	"github.com/spec-kit/intake-service/internal/domain"
)

// AttachmentRequest carries one base64-encoded file payload.
type AttachmentRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	Type        domain.TicketType   `json:"type"`
	Topic       string              `json:"topic"`
	Details     string              `json:"details"`
	Location    string              `json:"location"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// SubmitTicketResponse returns the new ID and the access key the submitter
// needs for later status checks.
type SubmitTicketResponse struct {
	ID        string `json:"id"`
	AccessKey string `json:"access_key"`
	Status    string `json:"status"`
}

// TicketStatusResponse is the public access-key view.
type TicketStatusResponse struct {
	ID               string   `json:"id"`
	LastUpdated      string   `json:"last_updated"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	PublicComment    string   `json:"public_comment,omitempty"`
	AdminAttachments []string `json:"admin_attachments,omitempty"`
}

// UpdateTicketRequest payload for the admin write protocol.
type UpdateTicketRequest struct {
	Status           domain.TicketStatus `json:"status"`
	InternalComment  string              `json:"internal_comment"`
	PublicComment    string              `json:"public_comment"`
	AssignedTo       string              `json:"assigned_to"`
	AdminAttachments []AttachmentRequest `json:"admin_attachments"`
}

// UpdateTicketResponse returns the full comment log after the update.
type UpdateTicketResponse struct {
	CommentLog string `json:"comment_log"`
}

// TicketView is the admin-facing row projection.
type TicketView struct {
	ID               string   `json:"id"`
	CreatedAt        string   `json:"created_at"`
	LastUpdatedAt    string   `json:"last_updated_at"`
	Type             string   `json:"type"`
	Topic            string   `json:"topic"`
	Details          string   `json:"details"`
	Location         string   `json:"location"`
	Status           string   `json:"status"`
	AssignedTo       string   `json:"assigned_to"`
	Attachments      []string `json:"attachments,omitempty"`
	AdminCommentLog  string   `json:"admin_comment_log,omitempty"`
	PublicComment    string   `json:"public_comment,omitempty"`
	AdminAttachments []string `json:"admin_attachments,omitempty"`
}

// StatusCountsView tallies per status.
type StatusCountsView struct {
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// TypeCountsView tallies per category.
type TypeCountsView struct {
	Complaints   int `json:"complaints"`
	Suggestions  int `json:"suggestions"`
	IssueReports int `json:"issue_reports"`
}

// SLAView counts breaches.
type SLAView struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// AssigneePerformanceView is one workload row.
type AssigneePerformanceView struct {
	Assignee  string `json:"assignee"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
	Total     int    `json:"total"`
}

// PaginationView describes the returned page.
type PaginationView struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalRows  int `json:"total_rows"`
}

// DashboardResponse is the aggregated dashboard payload.
type DashboardResponse struct {
	TotalsByType         TypeCountsView            `json:"totals_by_type"`
	TotalsByStatus       StatusCountsView          `json:"totals_by_status"`
	FilteredStatusCounts StatusCountsView          `json:"filtered_status_counts"`
	SLA                  SLAView                   `json:"sla"`
	AssigneePerformance  []AssigneePerformanceView `json:"assignee_performance"`
	UnassignedQueue      []TicketView              `json:"unassigned_queue"`
	Recent               []TicketView              `json:"recent"`
	Rows                 []TicketView              `json:"rows"`
	Pagination           PaginationView            `json:"pagination"`
}

// ExportResponse is the bulk export: header row plus matching rows.
type ExportResponse struct {
	Rows [][]string `json:"rows"`
}
