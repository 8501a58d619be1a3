package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

// AuditService appends trail entries for every admin-visible action. The
// trail is append-only; nothing in the system mutates or deletes it.
type AuditService struct {
	store  store.TabularStore
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService constructs the service.
func NewAuditService(tabular store.TabularStore, logger *zap.Logger, now func() time.Time) *AuditService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: tabular, logger: logger, now: now}
}

// Record appends one entry. Failures are logged and swallowed: the audit
// trail never blocks the action it describes.
func (s *AuditService) Record(ctx context.Context, actor, action, details string) {
	row := []string{domain.FormatTime(s.now()), actor, action, details}
	if err := s.store.AppendRow(ctx, domain.SheetAuditLog, row); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Error(err))
	}
}

// List returns up to limit entries, newest first.
func (s *AuditService) List(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	rows, err := s.store.ReadRange(ctx, domain.SheetAuditLog, 2, 0, 4)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}
	entries := make([]domain.AuditLogEntry, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(entries) < limit; i-- {
		row := rows[i]
		entries = append(entries, domain.AuditLogEntry{
			Timestamp: domain.ParseTime(row[0]),
			Actor:     row[1],
			Action:    row[2],
			Details:   row[3],
		})
	}
	return entries, nil
}
