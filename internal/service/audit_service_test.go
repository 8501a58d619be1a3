package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

func TestAuditRecordAndListNewestFirst(t *testing.T) {
	tabular := store.NewMemoryStore(domain.SheetHeaders())
	now := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local)
	audit := NewAuditService(tabular, nil, func() time.Time { return now })

	audit.Record(context.Background(), "carol", "login", "")
	now = now.Add(time.Minute)
	audit.Record(context.Background(), "carol", "ticket_updated", "REQ-2406001")
	now = now.Add(time.Minute)
	audit.Record(context.Background(), "dave", "login", "")

	entries, err := audit.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "dave", entries[0].Actor)
	require.Equal(t, "ticket_updated", entries[1].Action)
	require.Equal(t, "REQ-2406001", entries[1].Details)
	require.Equal(t, time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local), entries[2].Timestamp)

	limited, err := audit.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "dave", limited[0].Actor)
}
