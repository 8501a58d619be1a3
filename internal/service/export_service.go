package service

import (
	"context"
	"time"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// ExportService produces bulk exports of the ticket sheet. It reapplies the
// dashboard's filter predicates over the complete dataset: no search term,
// no allowed-types restriction (export is a full-privilege operation), and
// no pagination.
type ExportService struct {
	store  store.TabularStore
	schema *SchemaCache
	now    func() time.Time
}

// NewExportService constructs the service.
func NewExportService(tabular store.TabularStore, schema *SchemaCache, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{store: tabular, schema: schema, now: now}
}

// Export returns the header row followed by every matching ticket row, with
// dates already in their fixed-width display form.
func (s *ExportService) Export(ctx context.Context, filter TicketFilter) ([][]string, error) {
	cols, err := s.schema.TicketColumns(ctx)
	if err != nil {
		return nil, util.NewStorageCorruption("ticket sheet header unreadable", err)
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetTickets, 1, 0, cols.Width())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	now := s.now()
	result := make([][]string, 0, len(rows))
	result = append(result, rows[0])
	for _, row := range rows[1:] {
		ticket := domain.TicketFromRow(row, cols)
		if !matchesType(&ticket, filter) || !matchesAssignee(&ticket, filter) || !matchesDateRange(&ticket, filter, now) {
			continue
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}
