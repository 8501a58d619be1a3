package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

type dashboardFixture struct {
	store     *store.MemoryStore
	schema    *SchemaCache
	dashboard *DashboardService
	now       time.Time
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	tabular := store.NewMemoryStore(domain.SheetHeaders())
	f := &dashboardFixture{
		store:  tabular,
		schema: NewSchemaCache(tabular, cache.NewMemoryCache()),
		now:    time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local),
	}
	f.dashboard = NewDashboardService(tabular, f.schema, func() time.Time { return f.now })
	return f
}

func (f *dashboardFixture) seed(t *testing.T, tickets ...domain.Ticket) {
	t.Helper()
	cols, err := f.schema.TicketColumns(context.Background())
	require.NoError(t, err)
	for i := range tickets {
		ticket := tickets[i]
		if ticket.CreatedAt.IsZero() {
			ticket.CreatedAt = f.now
		}
		if ticket.LastUpdatedAt.IsZero() {
			ticket.LastUpdatedAt = ticket.CreatedAt
		}
		if ticket.Status == "" {
			ticket.Status = domain.TicketStatusNew
		}
		if ticket.Type == "" {
			ticket.Type = domain.TicketTypeComplaint
		}
		require.NoError(t, f.store.AppendRow(context.Background(), domain.SheetTickets, domain.TicketToRow(&ticket, cols)))
	}
}

func (f *dashboardFixture) query(t *testing.T, viewer *domain.User, q DashboardQuery) *DashboardResult {
	t.Helper()
	result, err := f.dashboard.Query(context.Background(), viewer, q)
	require.NoError(t, err)
	return result
}

func TestDashboardEmptySheet(t *testing.T) {
	f := newDashboardFixture(t)

	result := f.query(t, nil, DashboardQuery{Page: 1})
	require.Equal(t, TypeCounts{}, result.TotalsByType)
	require.Equal(t, StatusCounts{}, result.TotalsByStatus)
	require.Equal(t, SLASummary{}, result.SLA)
	require.Empty(t, result.Rows)
	require.Empty(t, result.Recent)
	require.Equal(t, 0, result.Pagination.TotalRows)
	require.Equal(t, 0, result.Pagination.TotalPages)

	// the requested page clamps to 1 even when there are no pages at all
	result = f.query(t, nil, DashboardQuery{Page: 7})
	require.Equal(t, 1, result.Pagination.Page)
	require.Empty(t, result.Rows)
}

func TestDashboardTotalsAndSLA(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", Status: domain.TicketStatusNew, CreatedAt: f.now.Add(-25 * time.Hour)},
		domain.Ticket{ID: "REQ-2406002", Status: domain.TicketStatusNew, CreatedAt: f.now.Add(-time.Hour)},
		domain.Ticket{ID: "REQ-2406003", Status: domain.TicketStatusInProgress, CreatedAt: f.now.Add(-80 * time.Hour), Type: domain.TicketTypeSuggestion},
		domain.Ticket{ID: "REQ-2406004", Status: domain.TicketStatusCompleted, CreatedAt: f.now.Add(-200 * time.Hour), Type: domain.TicketTypeIssueReport},
		domain.Ticket{ID: "REQ-2406005", Status: domain.TicketStatusCancelled},
	)

	result := f.query(t, nil, DashboardQuery{Page: 1})
	require.Equal(t, TypeCounts{Complaints: 3, Suggestions: 1, IssueReports: 1}, result.TotalsByType)
	require.Equal(t, StatusCounts{New: 2, InProgress: 1, Completed: 1, Cancelled: 1}, result.TotalsByStatus)

	// only the day-old New ticket and the three-day-old InProgress one breach
	require.Equal(t, SLASummary{Critical: 1, Warning: 1}, result.SLA)
}

func TestDashboardAllowedTypesRestriction(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", Type: domain.TicketTypeComplaint},
		domain.Ticket{ID: "REQ-2406002", Type: domain.TicketTypeSuggestion},
		domain.Ticket{ID: "REQ-2406003", Type: domain.TicketTypeIssueReport},
	)

	restricted := &domain.User{Username: "eve", Role: domain.RoleUser, AllowedTypes: "COMPLAINT,SUGGESTION"}
	result := f.query(t, restricted, DashboardQuery{Page: 1})
	require.Equal(t, TypeCounts{Complaints: 1, Suggestions: 1}, result.TotalsByType)
	require.Len(t, result.Rows, 2)
	for _, row := range result.Rows {
		require.NotEqual(t, domain.TicketTypeIssueReport, row.Type)
	}

	wildcard := &domain.User{Username: "root", Role: domain.RoleAdmin, AllowedTypes: domain.AllowedTypesWildcard}
	result = f.query(t, wildcard, DashboardQuery{Page: 1})
	require.Len(t, result.Rows, 3)
}

func TestDashboardDateRangeTodayBoundary(t *testing.T) {
	f := newDashboardFixture(t)
	todayStart := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", CreatedAt: todayStart.Add(-time.Second)},
		domain.Ticket{ID: "REQ-2406002", CreatedAt: todayStart},
		domain.Ticket{ID: "REQ-2406003", CreatedAt: todayStart.Add(23*time.Hour + 59*time.Minute)},
	)

	result := f.query(t, nil, DashboardQuery{Filter: TicketFilter{DateRange: DateRangeToday}, Page: 1})
	require.Equal(t, 2, result.Pagination.TotalRows)
	for _, row := range result.Rows {
		require.NotEqual(t, "REQ-2406001", row.ID)
	}
}

func TestDashboardCustomDateRangeInclusiveEnd(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", CreatedAt: time.Date(2024, time.June, 9, 23, 0, 0, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406002", CreatedAt: time.Date(2024, time.June, 10, 8, 0, 0, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406003", CreatedAt: time.Date(2024, time.June, 12, 23, 59, 59, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406004", CreatedAt: time.Date(2024, time.June, 13, 0, 0, 0, 0, time.Local)},
	)

	result := f.query(t, nil, DashboardQuery{Filter: TicketFilter{
		DateRange:  DateRangeCustom,
		CustomFrom: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local),
		CustomTo:   time.Date(2024, time.June, 12, 0, 0, 0, 0, time.Local),
	}, Page: 1})
	require.Equal(t, 2, result.Pagination.TotalRows)
}

func TestDashboardFilteredStatusCountsIgnoreStatusFilter(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", Status: domain.TicketStatusNew, AssignedTo: "Facilities"},
		domain.Ticket{ID: "REQ-2406002", Status: domain.TicketStatusCompleted, AssignedTo: "Facilities"},
		domain.Ticket{ID: "REQ-2406003", Status: domain.TicketStatusNew, AssignedTo: "IT"},
	)

	result := f.query(t, nil, DashboardQuery{
		Filter: TicketFilter{AssignedTo: "Facilities", Status: domain.TicketStatusNew},
		Page:   1,
	})
	// the assignee filter applies before the counts, the status filter after
	require.Equal(t, StatusCounts{New: 1, Completed: 1}, result.FilteredStatusCounts)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "REQ-2406001", result.Rows[0].ID)
}

func TestDashboardSearchMatchesDisplayValues(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", Topic: "Leaking roof", Status: domain.TicketStatusInProgress},
		domain.Ticket{ID: "REQ-2406002", Topic: "Parking permit"},
	)

	result := f.query(t, nil, DashboardQuery{Search: "leaking", Page: 1})
	require.Len(t, result.Rows, 1)
	require.Equal(t, "REQ-2406001", result.Rows[0].ID)

	// status searches hit the display label, not the storage token
	result = f.query(t, nil, DashboardQuery{Search: "in progress", Page: 1})
	require.Len(t, result.Rows, 1)

	result = f.query(t, nil, DashboardQuery{Search: "IN_PROGRESS", Page: 1})
	require.Empty(t, result.Rows)
}

func TestDashboardNewestFirstAndPagination(t *testing.T) {
	f := newDashboardFixture(t)
	tickets := make([]domain.Ticket, 0, 35)
	last := ""
	for i := 0; i < 35; i++ {
		last = NextTicketID(f.now, last)
		tickets = append(tickets, domain.Ticket{
			ID:        last,
			CreatedAt: f.now.Add(time.Duration(i) * time.Minute),
		})
	}
	f.seed(t, tickets...)

	page1 := f.query(t, nil, DashboardQuery{Page: 1})
	require.Len(t, page1.Rows, DashboardPageSize)
	require.Equal(t, "REQ-2406035", page1.Rows[0].ID)
	require.Equal(t, 2, page1.Pagination.TotalPages)
	require.Equal(t, 35, page1.Pagination.TotalRows)

	page2 := f.query(t, nil, DashboardQuery{Page: 2})
	require.Len(t, page2.Rows, 5)
	require.Equal(t, "REQ-2406001", page2.Rows[4].ID)

	// out-of-range pages clamp to the last page
	clamped := f.query(t, nil, DashboardQuery{Page: 99})
	require.Equal(t, 2, clamped.Pagination.Page)
	require.Len(t, clamped.Rows, 5)

	require.Len(t, page1.Recent, 5)
	require.Equal(t, "REQ-2406035", page1.Recent[0].ID)
}

func TestDashboardUnassignedQueueCap(t *testing.T) {
	f := newDashboardFixture(t)
	tickets := make([]domain.Ticket, 0, 25)
	last := ""
	for i := 0; i < 25; i++ {
		id := NextTicketID(f.now, last)
		last = id
		tickets = append(tickets, domain.Ticket{ID: id})
	}
	tickets = append(tickets, domain.Ticket{ID: "REQ-2406900", AssignedTo: "IT"})
	tickets = append(tickets, domain.Ticket{ID: "REQ-2406901", Status: domain.TicketStatusCompleted})
	f.seed(t, tickets...)

	result := f.query(t, nil, DashboardQuery{Page: 1})
	require.Len(t, result.UnassignedQueue, unassignedQueueCap)
	for _, ticket := range result.UnassignedQueue {
		require.Empty(t, ticket.AssignedTo)
		require.True(t, domain.IsActiveStatus(ticket.Status))
	}
}

func TestDashboardAssigneePerformanceOrdering(t *testing.T) {
	f := newDashboardFixture(t)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", AssignedTo: "IT", Status: domain.TicketStatusNew},
		domain.Ticket{ID: "REQ-2406002", AssignedTo: "IT", Status: domain.TicketStatusCompleted},
		domain.Ticket{ID: "REQ-2406003", AssignedTo: "Facilities", Status: domain.TicketStatusInProgress},
		domain.Ticket{ID: "REQ-2406004", AssignedTo: "Facilities", Status: domain.TicketStatusInProgress},
		domain.Ticket{ID: "REQ-2406005", Status: domain.TicketStatusCancelled},
	)

	result := f.query(t, nil, DashboardQuery{Page: 1})
	require.Len(t, result.AssigneePerformance, 3)

	// most active first, then total, then name
	require.Equal(t, "Facilities", result.AssigneePerformance[0].Assignee)
	require.Equal(t, 2, result.AssigneePerformance[0].Active)
	require.Equal(t, "IT", result.AssigneePerformance[1].Assignee)
	require.Equal(t, "Unassigned", result.AssigneePerformance[2].Assignee)
	require.Equal(t, 1, result.AssigneePerformance[2].Cancelled)
}

func TestDashboardWeekRunsMondayThroughSunday(t *testing.T) {
	f := newDashboardFixture(t)
	// 2024-06-15 is a Saturday; the week is 2024-06-10 (Mon) .. 2024-06-16 (Sun)
	f.seed(t,
		domain.Ticket{ID: "REQ-2406001", CreatedAt: time.Date(2024, time.June, 9, 23, 59, 59, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406002", CreatedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406003", CreatedAt: time.Date(2024, time.June, 16, 23, 59, 59, 0, time.Local)},
		domain.Ticket{ID: "REQ-2406004", CreatedAt: time.Date(2024, time.June, 17, 0, 0, 0, 0, time.Local)},
	)

	result := f.query(t, nil, DashboardQuery{Filter: TicketFilter{DateRange: DateRangeThisWeek}, Page: 1})
	require.Equal(t, 2, result.Pagination.TotalRows)
}
