package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/intake-service/internal/blob"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/events"
	"github.com/spec-kit/intake-service/internal/store"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation, the admin update
// protocol, and the public access-key status check. All mutations serialize
// through the shared MutationLock; reads never take it.
type TicketService struct {
	store      store.TabularStore
	schema     *SchemaCache
	blobs      blob.BlobStore
	lock       *MutationLock
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      store.TabularStore
	Schema     *SchemaCache
	Blobs      blob.BlobStore
	Lock       *MutationLock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		store:      deps.Store,
		schema:     deps.Schema,
		blobs:      deps.Blobs,
		lock:       deps.Lock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// AttachmentUpload carries one file payload to be stored.
type AttachmentUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// SubmitInput describes a public ticket submission.
type SubmitInput struct {
	Type        domain.TicketType
	Topic       string
	Details     string
	Location    string
	Attachments []AttachmentUpload
}

// UpdateInput describes an admin ticket update. Empty comment fields are
// no-ops for their change category; AssignedTo is always applied, with the
// empty string meaning Unassigned.
type UpdateInput struct {
	TicketID         string
	NewStatus        domain.TicketStatus
	InternalComment  string
	PublicComment    string
	AssignedTo       string
	AdminAttachments []AttachmentUpload
}

// StatusView is the public, access-key-gated projection of one ticket.
type StatusView struct {
	ID                  string
	LastUpdated         string
	TypeLabel           string
	StatusLabel         string
	PublicComment       string
	AdminAttachmentURLs []string
}

// Submit validates, uploads attachments best-effort, then creates the ticket
// under the mutation lock. ID generation and the row append share the lock
// so the sequence never gaps or repeats; uploads stay outside it because
// creation correctness never depends on them.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	if !domain.ValidTicketType(input.Type) {
		return nil, util.NewValidationError("invalid ticket type", map[string]any{"type": string(input.Type)})
	}
	topic := strings.TrimSpace(input.Topic)
	details := strings.TrimSpace(input.Details)
	if topic == "" || details == "" {
		return nil, util.NewValidationError("topic and details are required", nil)
	}

	now := s.now()
	ticket := &domain.Ticket{
		CreatedAt:     now,
		LastUpdatedAt: now,
		Type:          input.Type,
		Topic:         topic,
		Details:       details,
		Location:      strings.TrimSpace(input.Location),
		Status:        domain.TicketStatusNew,
		AccessKey:     newAccessKey(),
	}
	ticket.AttachmentURLs = s.uploadAll(ctx, "submissions", input.Attachments)

	err := s.locked(ctx, func(ctx context.Context) error {
		cols, err := s.schema.TicketColumns(ctx)
		if err != nil {
			return util.NewStorageCorruption("ticket sheet header unreadable", err)
		}
		lastID, err := s.lastTicketID(ctx, cols)
		if err != nil {
			return err
		}
		ticket.ID = NextTicketID(now, lastID)
		if err := s.store.AppendRow(ctx, domain.SheetTickets, domain.TicketToRow(ticket, cols)); err != nil {
			return err
		}
		s.schema.InvalidateTickets(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Actor:    "public",
		Payload: events.TicketSubmittedPayload{
			Type:        ticket.Type,
			Topic:       ticket.Topic,
			Location:    ticket.Location,
			Attachments: len(ticket.AttachmentURLs),
		},
	})
	return ticket, nil
}

// Update applies the admin write protocol to one ticket and returns the
// full comment log after the change. Each distinct change category appends
// exactly one timestamped, attributed log entry; an update that changes
// nothing leaves the log untouched.
func (s *TicketService) Update(ctx context.Context, actor string, input UpdateInput) (string, error) {
	if strings.TrimSpace(input.TicketID) == "" {
		return "", util.NewValidationError("ticket id is required", nil)
	}
	if !domain.ValidTicketStatus(input.NewStatus) {
		return "", util.NewValidationError("invalid ticket status", map[string]any{"status": string(input.NewStatus)})
	}

	var (
		commentLog string
		reopened   bool
		oldStatus  domain.TicketStatus
	)
	err := s.locked(ctx, func(ctx context.Context) error {
		cols, err := s.schema.TicketColumns(ctx)
		if err != nil {
			return util.NewStorageCorruption("ticket sheet header unreadable", err)
		}
		rowNum, err := s.store.FindRow(ctx, domain.SheetTickets, cols.ID, input.TicketID)
		if errors.Is(err, store.ErrRowNotFound) {
			return util.NewNotFound("ticket", map[string]any{"id": input.TicketID})
		}
		if err != nil {
			return err
		}
		rows, err := s.store.ReadRange(ctx, domain.SheetTickets, rowNum, 1, cols.Width())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return util.NewNotFound("ticket", map[string]any{"id": input.TicketID})
		}
		ticket := domain.TicketFromRow(rows[0], cols)
		oldStatus = ticket.Status

		now := s.now()
		stamp := fmt.Sprintf("[%s - %s]: ", domain.FormatTime(now), actor)
		var entries []string

		// status change
		if input.NewStatus != ticket.Status {
			entries = append(entries, stamp+fmt.Sprintf("changed status from '%s' to '%s'",
				domain.StatusLabel(ticket.Status), domain.StatusLabel(input.NewStatus)))
			if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.Status, string(input.NewStatus)); err != nil {
				return err
			}
		}

		// re-open: archive closure artifacts before clearing them
		if domain.IsClosedStatus(ticket.Status) && domain.IsActiveStatus(input.NewStatus) {
			reopened = true
			if strings.TrimSpace(ticket.PublicComment) != "" {
				entries = append(entries, stamp+"archived public comment on re-open: "+ticket.PublicComment)
				if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.PublicComment, ""); err != nil {
					return err
				}
				ticket.PublicComment = ""
			}
			if len(ticket.AdminAttachmentURLs) > 0 && cols.HasAdminAttachments() {
				entries = append(entries, stamp+"archived resolution attachments on re-open: "+domain.JoinList(ticket.AdminAttachmentURLs))
				if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.AdminAttachments, ""); err != nil {
					return err
				}
				ticket.AdminAttachmentURLs = nil
			}
		}
		ticket.Status = input.NewStatus

		// internal note
		if note := strings.TrimSpace(input.InternalComment); note != "" {
			entries = append(entries, stamp+"added internal note: "+note)
		}

		// public resolution note; an empty input never clears an existing one
		// and resubmitting the same note is not a change
		if public := strings.TrimSpace(input.PublicComment); public != "" && public != ticket.PublicComment {
			if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.PublicComment, public); err != nil {
				return err
			}
			ticket.PublicComment = public
			entries = append(entries, stamp+"saved a public resolution note")
		}

		// reassignment
		if assignee := strings.TrimSpace(input.AssignedTo); assignee != ticket.AssignedTo {
			oldName := ticket.AssignedTo
			if oldName == "" {
				oldName = "Unassigned"
			}
			newName := assignee
			if newName == "" {
				newName = "Unassigned"
			}
			entries = append(entries, stamp+fmt.Sprintf("changed assignee from '%s' to '%s'", oldName, newName))
			if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.AssignedTo, assignee); err != nil {
				return err
			}
			ticket.AssignedTo = assignee
		}

		// resolution attachments: best-effort, never fail the update
		if len(input.AdminAttachments) > 0 {
			if !cols.HasAdminAttachments() {
				s.logger.Warn("admin attachment column absent, uploads skipped",
					zap.String("ticket_id", ticket.ID))
			} else {
				uploaded := s.uploadAll(ctx, ticket.ID, input.AdminAttachments)
				if len(uploaded) > 0 {
					ticket.AdminAttachmentURLs = append(ticket.AdminAttachmentURLs, uploaded...)
					if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.AdminAttachments, domain.JoinList(ticket.AdminAttachmentURLs)); err != nil {
						return err
					}
					entries = append(entries, stamp+fmt.Sprintf("uploaded %d resolution attachment(s)", len(uploaded)))
				}
			}
		}

		// append the batch to the log, blank-line separated
		commentLog = ticket.AdminCommentLog
		if len(entries) > 0 {
			batch := strings.Join(entries, "\n\n")
			if commentLog != "" {
				commentLog = commentLog + "\n\n" + batch
			} else {
				commentLog = batch
			}
			if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.CommentLog, commentLog); err != nil {
				return err
			}
		}

		if err := s.store.WriteCell(ctx, domain.SheetTickets, rowNum, cols.LastUpdatedAt, domain.FormatTime(now)); err != nil {
			return err
		}
		s.schema.InvalidateTickets(ctx)
		return nil
	})
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: input.TicketID,
		Actor:    actor,
		Payload: events.TicketUpdatedPayload{
			OldStatus:  oldStatus,
			NewStatus:  input.NewStatus,
			AssignedTo: strings.TrimSpace(input.AssignedTo),
			Reopened:   reopened,
		},
	})
	return commentLog, nil
}

// StatusByAccessKey is the sole unauthenticated read of one ticket's state.
// It is lock-free and may race with an in-flight mutation, observing either
// the pre- or post-mutation row.
func (s *TicketService) StatusByAccessKey(ctx context.Context, accessKey string) (*StatusView, error) {
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" {
		return nil, util.NewValidationError("access key is required", nil)
	}
	cols, err := s.schema.TicketColumns(ctx)
	if err != nil {
		return nil, util.NewStorageCorruption("ticket sheet header unreadable", err)
	}
	rowNum, err := s.store.FindRow(ctx, domain.SheetTickets, cols.AccessKey, accessKey)
	if errors.Is(err, store.ErrRowNotFound) {
		return nil, util.NewNotFound("ticket", nil)
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetTickets, rowNum, 1, cols.Width())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.NewNotFound("ticket", nil)
	}
	ticket := domain.TicketFromRow(rows[0], cols)
	return &StatusView{
		ID:                  ticket.ID,
		LastUpdated:         domain.FormatTime(ticket.LastUpdatedAt),
		TypeLabel:           domain.TypeLabel(ticket.Type),
		StatusLabel:         domain.StatusLabel(ticket.Status),
		PublicComment:       ticket.PublicComment,
		AdminAttachmentURLs: ticket.AdminAttachmentURLs,
	}, nil
}

// locked runs fn inside the mutation gate, releasing it on every exit path.
func (s *TicketService) locked(ctx context.Context, fn func(context.Context) error) error {
	if err := s.lock.Acquire(ctx); err != nil {
		return util.NewLockTimeout()
	}
	defer s.lock.Release()
	return fn(ctx)
}

func (s *TicketService) lastTicketID(ctx context.Context, cols domain.TicketColumns) (string, error) {
	count, err := s.store.RowCount(ctx, domain.SheetTickets)
	if err != nil {
		return "", err
	}
	if count <= 1 {
		return "", nil
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetTickets, count, 1, cols.Width())
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0][cols.ID-1], nil
}

func (s *TicketService) uploadAll(ctx context.Context, folder string, uploads []AttachmentUpload) []string {
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if len(upload.Data) == 0 {
			continue
		}
		url, err := s.blobs.Upload(ctx, folder, upload.FileName, upload.Data, upload.MimeType)
		if err != nil {
			s.logger.Warn("attachment upload failed",
				zap.String("folder", folder),
				zap.String("file", upload.FileName),
				zap.Error(err))
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func newAccessKey() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
