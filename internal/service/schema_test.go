package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

func TestSchemaCacheResolvesReorderedHeader(t *testing.T) {
	headers := domain.SheetHeaders()
	headers[domain.SheetTickets] = []string{
		"Status", "ID", "Created At", "Type", "Topic", "Details", "Location",
		"Attachments", "Admin Comment Log", "Access Key", "Public Comment",
		"Assigned To", "Last Updated At",
	}
	tabular := store.NewMemoryStore(headers)
	schema := NewSchemaCache(tabular, cache.NewMemoryCache())

	cols, err := schema.TicketColumns(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cols.Status)
	require.Equal(t, 2, cols.ID)
	require.False(t, cols.HasAdminAttachments())
}

func TestSchemaCacheServesFromCacheUntilInvalidated(t *testing.T) {
	tabular := store.NewMemoryStore(domain.SheetHeaders())
	schema := NewSchemaCache(tabular, cache.NewMemoryCache())

	cols, err := schema.TicketColumns(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cols.ID)

	// a stale cached mapping survives a header edit until invalidation
	require.NoError(t, tabular.WriteCell(context.Background(), domain.SheetTickets, 1, 1, "Ticket Ref"))
	cols, err = schema.TicketColumns(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cols.ID)

	schema.InvalidateTickets(context.Background())
	_, err = schema.TicketColumns(context.Background())
	require.Error(t, err)
}

func TestSchemaCacheMissingRequiredColumn(t *testing.T) {
	headers := domain.SheetHeaders()
	headers[domain.SheetTickets] = []string{"ID", "Type"}
	schema := NewSchemaCache(store.NewMemoryStore(headers), cache.NewMemoryCache())

	_, err := schema.TicketColumns(context.Background())
	require.Error(t, err)
}
