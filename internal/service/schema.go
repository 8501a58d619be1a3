package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

const (
	ticketHeaderCacheKey = "sheet:header:tickets"
	userHeaderCacheKey   = "sheet:header:users"
	headerCacheTTL       = 10 * time.Minute
)

// SchemaCache resolves header rows into typed column mappings once per table
// access and caches the result. Only header metadata is ever cached; row
// data is always read fresh. Every mutation invalidates the ticket header
// entry synchronously.
type SchemaCache struct {
	store store.TabularStore
	cache cache.KeyValueCache
}

// NewSchemaCache builds the cache.
func NewSchemaCache(tabular store.TabularStore, kv cache.KeyValueCache) *SchemaCache {
	return &SchemaCache{store: tabular, cache: kv}
}

// TicketColumns returns the ticket sheet mapping, from cache when possible.
func (s *SchemaCache) TicketColumns(ctx context.Context) (domain.TicketColumns, error) {
	if raw, ok := s.cache.Get(ctx, ticketHeaderCacheKey); ok {
		var cols domain.TicketColumns
		if err := json.Unmarshal([]byte(raw), &cols); err == nil {
			return cols, nil
		}
	}
	header, err := s.readHeader(ctx, domain.SheetTickets)
	if err != nil {
		return domain.TicketColumns{}, err
	}
	cols, err := domain.ResolveTicketColumns(header)
	if err != nil {
		return domain.TicketColumns{}, err
	}
	if raw, err := json.Marshal(cols); err == nil {
		s.cache.Put(ctx, ticketHeaderCacheKey, string(raw), headerCacheTTL)
	}
	return cols, nil
}

// UserColumns returns the user sheet mapping, from cache when possible.
func (s *SchemaCache) UserColumns(ctx context.Context) (domain.UserColumns, error) {
	if raw, ok := s.cache.Get(ctx, userHeaderCacheKey); ok {
		var cols domain.UserColumns
		if err := json.Unmarshal([]byte(raw), &cols); err == nil {
			return cols, nil
		}
	}
	header, err := s.readHeader(ctx, domain.SheetUsers)
	if err != nil {
		return domain.UserColumns{}, err
	}
	cols, err := domain.ResolveUserColumns(header)
	if err != nil {
		return domain.UserColumns{}, err
	}
	if raw, err := json.Marshal(cols); err == nil {
		s.cache.Put(ctx, userHeaderCacheKey, string(raw), headerCacheTTL)
	}
	return cols, nil
}

// InvalidateTickets drops the cached ticket header mapping.
func (s *SchemaCache) InvalidateTickets(ctx context.Context) {
	s.cache.Remove(ctx, ticketHeaderCacheKey)
}

// InvalidateUsers drops the cached user header mapping.
func (s *SchemaCache) InvalidateUsers(ctx context.Context) {
	s.cache.Remove(ctx, userHeaderCacheKey)
}

func (s *SchemaCache) readHeader(ctx context.Context, sheet string) ([]string, error) {
	rows, err := s.store.ReadRange(ctx, sheet, 1, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
