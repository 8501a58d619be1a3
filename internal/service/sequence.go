package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Ticket IDs look like REQ-2406001: a REQ- prefix, the year-month, and a
// zero-padded counter that resets each month. A legacy dash between the
// year-month and the counter is tolerated on parse.
var ticketIDPattern = regexp.MustCompile(`REQ-(\d{4})-?(\d{3})`)

// TicketIDParts is the parsed form of a ticket ID.
type TicketIDParts struct {
	YearMonth string
	Counter   int
}

// ParseTicketID extracts the year-month and counter from an ID. A malformed
// ID returns ok=false; callers treat that as "start a fresh sequence", not
// as an error.
func ParseTicketID(id string) (TicketIDParts, bool) {
	match := ticketIDPattern.FindStringSubmatch(id)
	if match == nil {
		return TicketIDParts{}, false
	}
	counter, err := strconv.Atoi(match[2])
	if err != nil {
		return TicketIDParts{}, false
	}
	return TicketIDParts{YearMonth: match[1], Counter: counter}, true
}

// NextTicketID derives the next ID from the last written one. The counter
// continues within the current month and restarts at 1 on a month rollover
// or when the last ID does not parse. Must only be called while the
// mutation lock is held, since it depends on the true last row.
//
// The counter is only well-defined up to 999 per month: past that, %03d
// widens to four digits and the fixed three-digit parse reads the extra
// digit into the year-month side, so the sequence wraps. Uniqueness holds
// for fewer than 1000 tickets per month.
func NextTicketID(now time.Time, lastID string) string {
	yearMonth := now.Format("0601")
	counter := 1
	if parts, ok := ParseTicketID(lastID); ok && parts.YearMonth == yearMonth {
		counter = parts.Counter + 1
	}
	return fmt.Sprintf("REQ-%s%03d", yearMonth, counter)
}
