package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// DashboardPageSize is the fixed page length for dashboard listings.
const DashboardPageSize = 30

// unassignedQueueCap bounds the triage queue surfaced on the dashboard.
const unassignedQueueCap = 20

// SLA thresholds: a New ticket older than a day is critical, an InProgress
// ticket older than three days is a warning.
const (
	slaCriticalAge = 24 * time.Hour
	slaWarningAge  = 72 * time.Hour
)

// DateRangeKey selects one of the fixed creation-date windows.
type DateRangeKey string

const (
	DateRangeAll       DateRangeKey = ""
	DateRangeToday     DateRangeKey = "today"
	DateRangeThisWeek  DateRangeKey = "this_week"
	DateRangeThisMonth DateRangeKey = "this_month"
	DateRangeLastMonth DateRangeKey = "last_month"
	DateRangeCustom    DateRangeKey = "custom"
)

// TicketFilter is the predicate set shared by the dashboard and export.
// Zero values mean "no restriction" for their dimension.
type TicketFilter struct {
	Type       domain.TicketType
	AssignedTo string
	Status     domain.TicketStatus
	DateRange  DateRangeKey
	CustomFrom time.Time // custom range start, inclusive
	CustomTo   time.Time // custom range end date, inclusive (exclusive day-after boundary)
}

// DashboardQuery is one dashboard read.
type DashboardQuery struct {
	Filter TicketFilter
	Search string
	Page   int
}

// StatusCounts tallies tickets per lifecycle state.
type StatusCounts struct {
	New        int
	InProgress int
	Completed  int
	Cancelled  int
}

func (c *StatusCounts) add(status domain.TicketStatus) {
	switch status {
	case domain.TicketStatusNew:
		c.New++
	case domain.TicketStatusInProgress:
		c.InProgress++
	case domain.TicketStatusCompleted:
		c.Completed++
	case domain.TicketStatusCancelled:
		c.Cancelled++
	}
}

// TypeCounts tallies tickets per intake category.
type TypeCounts struct {
	Complaints   int
	Suggestions  int
	IssueReports int
}

func (c *TypeCounts) add(t domain.TicketType) {
	switch t {
	case domain.TicketTypeComplaint:
		c.Complaints++
	case domain.TicketTypeSuggestion:
		c.Suggestions++
	case domain.TicketTypeIssueReport:
		c.IssueReports++
	}
}

// SLASummary counts breached tickets by severity.
type SLASummary struct {
	Critical int // New beyond 24h
	Warning  int // InProgress beyond 72h
}

// AssigneePerformance is one row of the per-team workload table.
type AssigneePerformance struct {
	Assignee  string
	Active    int
	Completed int
	Cancelled int
	Total     int
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
	TotalRows  int
}

// DashboardResult is the full aggregation for one dashboard read.
type DashboardResult struct {
	TotalsByType         TypeCounts
	TotalsByStatus       StatusCounts
	FilteredStatusCounts StatusCounts
	SLA                  SLASummary
	AssigneePerformance  []AssigneePerformance
	UnassignedQueue      []domain.Ticket
	Recent               []domain.Ticket
	Rows                 []domain.Ticket
	Pagination           Pagination
}

// DashboardService computes derived views over the full ticket sheet.
// Queries are lock-free: they may race with an in-flight mutation and
// observe either its pre- or post-state, never a torn row.
type DashboardService struct {
	store  store.TabularStore
	schema *SchemaCache
	now    func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(tabular store.TabularStore, schema *SchemaCache, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{store: tabular, schema: schema, now: now}
}

// Query runs the aggregation pipeline. The viewer's allowed-types
// restriction is applied before anything else, so every summary reflects
// only what the viewer may see. An empty sheet yields zero-valued
// summaries, never an error.
func (s *DashboardService) Query(ctx context.Context, viewer *domain.User, query DashboardQuery) (*DashboardResult, error) {
	tickets, err := s.loadTickets(ctx)
	if err != nil {
		return nil, err
	}
	tickets = restrictToAllowedTypes(tickets, viewer)

	now := s.now()
	result := &DashboardResult{}

	for i := range tickets {
		t := &tickets[i]
		result.TotalsByType.add(t.Type)
		result.TotalsByStatus.add(t.Status)

		age := now.Sub(t.CreatedAt)
		if t.Status == domain.TicketStatusNew && age > slaCriticalAge {
			result.SLA.Critical++
		}
		if t.Status == domain.TicketStatusInProgress && age > slaWarningAge {
			result.SLA.Warning++
		}

		if domain.IsActiveStatus(t.Status) && strings.TrimSpace(t.AssignedTo) == "" && len(result.UnassignedQueue) < unassignedQueueCap {
			result.UnassignedQueue = append(result.UnassignedQueue, *t)
		}
	}
	result.AssigneePerformance = assigneePerformance(tickets)
	result.Recent = newestFirst(tickets, 5)

	// type, assignee and date-range filters come before the filtered status
	// counts; the status filter and search come after
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !matchesType(&t, query.Filter) || !matchesAssignee(&t, query.Filter) || !matchesDateRange(&t, query.Filter, now) {
			continue
		}
		filtered = append(filtered, t)
	}
	for i := range filtered {
		result.FilteredStatusCounts.add(filtered[i].Status)
	}

	final := filtered[:0:0]
	search := strings.ToLower(strings.TrimSpace(query.Search))
	for _, t := range filtered {
		if query.Filter.Status != "" && t.Status != query.Filter.Status {
			continue
		}
		if search != "" && !matchesSearch(&t, search) {
			continue
		}
		final = append(final, t)
	}

	final = newestFirst(final, 0)

	totalRows := len(final)
	totalPages := (totalRows + DashboardPageSize - 1) / DashboardPageSize
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = max(totalPages, 1)
	}
	start := (page - 1) * DashboardPageSize
	end := start + DashboardPageSize
	if start > totalRows {
		start = totalRows
	}
	if end > totalRows {
		end = totalRows
	}

	result.Rows = final[start:end]
	result.Pagination = Pagination{
		Page:       page,
		PageSize:   DashboardPageSize,
		TotalPages: totalPages,
		TotalRows:  totalRows,
	}
	return result, nil
}

func (s *DashboardService) loadTickets(ctx context.Context) ([]domain.Ticket, error) {
	cols, err := s.schema.TicketColumns(ctx)
	if err != nil {
		return nil, util.NewStorageCorruption("ticket sheet header unreadable", err)
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetTickets, 2, 0, cols.Width())
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, domain.TicketFromRow(row, cols))
	}
	return tickets, nil
}

func restrictToAllowedTypes(tickets []domain.Ticket, viewer *domain.User) []domain.Ticket {
	if viewer == nil {
		return tickets
	}
	allowed := viewer.AllowedTypeSet()
	if allowed == nil {
		return tickets
	}
	visible := tickets[:0:0]
	for _, t := range tickets {
		if _, ok := allowed[t.Type]; ok {
			visible = append(visible, t)
		}
	}
	return visible
}

func assigneePerformance(tickets []domain.Ticket) []AssigneePerformance {
	byAssignee := make(map[string]*AssigneePerformance)
	for i := range tickets {
		t := &tickets[i]
		name := t.AssigneeOrUnassigned()
		perf, ok := byAssignee[name]
		if !ok {
			perf = &AssigneePerformance{Assignee: name}
			byAssignee[name] = perf
		}
		perf.Total++
		switch {
		case domain.IsActiveStatus(t.Status):
			perf.Active++
		case t.Status == domain.TicketStatusCompleted:
			perf.Completed++
		case t.Status == domain.TicketStatusCancelled:
			perf.Cancelled++
		}
	}
	result := make([]AssigneePerformance, 0, len(byAssignee))
	for _, perf := range byAssignee {
		result = append(result, *perf)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Active != result[j].Active {
			return result[i].Active > result[j].Active
		}
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Assignee < result[j].Assignee
	})
	return result
}

// newestFirst reverses storage (append) order; limit 0 means all.
func newestFirst(tickets []domain.Ticket, limit int) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	for i := len(tickets) - 1; i >= 0; i-- {
		result = append(result, tickets[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

func matchesType(t *domain.Ticket, filter TicketFilter) bool {
	return filter.Type == "" || t.Type == filter.Type
}

func matchesAssignee(t *domain.Ticket, filter TicketFilter) bool {
	if strings.TrimSpace(filter.AssignedTo) == "" {
		return true
	}
	return t.AssigneeOrUnassigned() == filter.AssignedTo
}

func matchesDateRange(t *domain.Ticket, filter TicketFilter, now time.Time) bool {
	start, end, bounded := dateRangeBounds(filter, now)
	if !bounded {
		return true
	}
	return !t.CreatedAt.Before(start) && t.CreatedAt.Before(end)
}

// dateRangeBounds resolves a range key to [start, end). Boundaries sit at
// local midnight; weeks run Monday through Sunday.
func dateRangeBounds(filter TicketFilter, now time.Time) (time.Time, time.Time, bool) {
	today := startOfDay(now)
	switch filter.DateRange {
	case DateRangeToday:
		return today, today.AddDate(0, 0, 1), true
	case DateRangeThisWeek:
		monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		return monday, monday.AddDate(0, 0, 7), true
	case DateRangeThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), true
	case DateRangeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0), first, true
	case DateRangeCustom:
		if filter.CustomFrom.IsZero() && filter.CustomTo.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		start := startOfDay(filter.CustomFrom)
		end := startOfDay(filter.CustomTo).AddDate(0, 0, 1)
		if filter.CustomTo.IsZero() {
			end = today.AddDate(0, 0, 1)
		}
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// matchesSearch compares the lowercased needle against every displayed cell
// value, dates via their display-formatted strings.
func matchesSearch(t *domain.Ticket, needle string) bool {
	cells := []string{
		t.ID,
		domain.FormatTime(t.CreatedAt),
		domain.FormatTime(t.LastUpdatedAt),
		domain.TypeLabel(t.Type),
		t.Topic,
		t.Details,
		t.Location,
		domain.StatusLabel(t.Status),
		t.AssigneeOrUnassigned(),
		t.PublicComment,
	}
	for _, cell := range cells {
		if strings.Contains(strings.ToLower(cell), needle) {
			return true
		}
	}
	return false
}
