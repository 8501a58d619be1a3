package domain

import (
	"fmt"
	"strings"
)

// Sheet names inside the tabular store.
const (
	SheetTickets  = "tickets"
	SheetUsers    = "users"
	SheetTeams    = "teams"
	SheetAuditLog = "audit_log"
)

// Header rows seeded when a sheet is bootstrapped.
var (
	TicketHeader = []string{
		"ID", "Created At", "Type", "Topic", "Details", "Location", "Status",
		"Attachments", "Admin Comment Log", "Access Key", "Public Comment",
		"Assigned To", "Last Updated At", "Admin Attachments",
	}
	UserHeader  = []string{"Username", "Password Hash", "Salt", "Role", "Status", "Team", "Allowed Types"}
	TeamHeader  = []string{"Name"}
	AuditHeader = []string{"Timestamp", "Actor", "Action", "Details"}
)

// SheetHeaders returns the bootstrap header row for every sheet.
func SheetHeaders() map[string][]string {
	return map[string][]string{
		SheetTickets:  TicketHeader,
		SheetUsers:    UserHeader,
		SheetTeams:    TeamHeader,
		SheetAuditLog: AuditHeader,
	}
}

// TicketColumns maps ticket sheet headers to 1-based column numbers,
// resolved once per table access instead of re-derived ad hoc.
type TicketColumns struct {
	ID               int
	CreatedAt        int
	Type             int
	Topic            int
	Details          int
	Location         int
	Status           int
	Attachments      int
	CommentLog       int
	AccessKey        int
	PublicComment    int
	AssignedTo       int
	LastUpdatedAt    int
	AdminAttachments int // -1 when the sheet has no such column
}

// Width returns the number of columns a full ticket row spans.
func (c TicketColumns) Width() int {
	max := 0
	for _, col := range []int{
		c.ID, c.CreatedAt, c.Type, c.Topic, c.Details, c.Location, c.Status,
		c.Attachments, c.CommentLog, c.AccessKey, c.PublicComment,
		c.AssignedTo, c.LastUpdatedAt, c.AdminAttachments,
	} {
		if col > max {
			max = col
		}
	}
	return max
}

// HasAdminAttachments reports whether the sheet carries the optional
// admin-attachment column. When absent the feature is treated as missing
// rather than indexing past the row bounds.
func (c TicketColumns) HasAdminAttachments() bool {
	return c.AdminAttachments > 0
}

// ResolveTicketColumns derives the column mapping from a header row. All
// columns except Admin Attachments are required.
func ResolveTicketColumns(header []string) (TicketColumns, error) {
	find := func(name string) int {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				return i + 1
			}
		}
		return 0
	}
	cols := TicketColumns{
		ID:            find("ID"),
		CreatedAt:     find("Created At"),
		Type:          find("Type"),
		Topic:         find("Topic"),
		Details:       find("Details"),
		Location:      find("Location"),
		Status:        find("Status"),
		Attachments:   find("Attachments"),
		CommentLog:    find("Admin Comment Log"),
		AccessKey:     find("Access Key"),
		PublicComment: find("Public Comment"),
		AssignedTo:    find("Assigned To"),
		LastUpdatedAt: find("Last Updated At"),
	}
	required := map[string]int{
		"ID": cols.ID, "Created At": cols.CreatedAt, "Type": cols.Type,
		"Topic": cols.Topic, "Details": cols.Details, "Location": cols.Location,
		"Status": cols.Status, "Attachments": cols.Attachments,
		"Admin Comment Log": cols.CommentLog, "Access Key": cols.AccessKey,
		"Public Comment": cols.PublicComment, "Assigned To": cols.AssignedTo,
		"Last Updated At": cols.LastUpdatedAt,
	}
	for name, col := range required {
		if col == 0 {
			return TicketColumns{}, fmt.Errorf("ticket sheet header missing column %q", name)
		}
	}

	cols.AdminAttachments = -1
	for i, cell := range header {
		if strings.Contains(strings.ToLower(cell), "admin attachment") {
			cols.AdminAttachments = i + 1
			break
		}
	}
	return cols, nil
}

// TicketToRow serializes a ticket into a row sized for the given schema.
func TicketToRow(t *Ticket, cols TicketColumns) []string {
	row := make([]string, cols.Width())
	set := func(col int, value string) {
		if col > 0 {
			row[col-1] = value
		}
	}
	set(cols.ID, t.ID)
	set(cols.CreatedAt, FormatTime(t.CreatedAt))
	set(cols.Type, string(t.Type))
	set(cols.Topic, t.Topic)
	set(cols.Details, t.Details)
	set(cols.Location, t.Location)
	set(cols.Status, string(t.Status))
	set(cols.Attachments, JoinList(t.AttachmentURLs))
	set(cols.CommentLog, t.AdminCommentLog)
	set(cols.AccessKey, t.AccessKey)
	set(cols.PublicComment, t.PublicComment)
	set(cols.AssignedTo, t.AssignedTo)
	set(cols.LastUpdatedAt, FormatTime(t.LastUpdatedAt))
	set(cols.AdminAttachments, JoinList(t.AdminAttachmentURLs))
	return row
}

// TicketFromRow deserializes a row. Malformed cells degrade to zero values
// rather than failing the read.
func TicketFromRow(row []string, cols TicketColumns) Ticket {
	get := func(col int) string {
		if col > 0 && col <= len(row) {
			return row[col-1]
		}
		return ""
	}
	return Ticket{
		ID:                  get(cols.ID),
		CreatedAt:           ParseTime(get(cols.CreatedAt)),
		LastUpdatedAt:       ParseTime(get(cols.LastUpdatedAt)),
		Type:                TicketType(get(cols.Type)),
		Topic:               get(cols.Topic),
		Details:             get(cols.Details),
		Location:            get(cols.Location),
		Status:              TicketStatus(get(cols.Status)),
		AttachmentURLs:      SplitList(get(cols.Attachments)),
		AdminCommentLog:     get(cols.CommentLog),
		AccessKey:           get(cols.AccessKey),
		PublicComment:       get(cols.PublicComment),
		AssignedTo:          get(cols.AssignedTo),
		AdminAttachmentURLs: SplitList(get(cols.AdminAttachments)),
	}
}

// UserColumns maps user sheet headers to 1-based column numbers.
type UserColumns struct {
	Username     int
	PasswordHash int
	Salt         int
	Role         int
	Status       int
	Team         int
	AllowedTypes int
}

// ResolveUserColumns derives the user column mapping. Any missing column is
// an error: a misaligned user sheet must fail closed, since writing past a
// shifted header would silently misplace credentials.
func ResolveUserColumns(header []string) (UserColumns, error) {
	find := func(name string) int {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				return i + 1
			}
		}
		return 0
	}
	cols := UserColumns{
		Username:     find("Username"),
		PasswordHash: find("Password Hash"),
		Salt:         find("Salt"),
		Role:         find("Role"),
		Status:       find("Status"),
		Team:         find("Team"),
		AllowedTypes: find("Allowed Types"),
	}
	for name, col := range map[string]int{
		"Username": cols.Username, "Password Hash": cols.PasswordHash,
		"Salt": cols.Salt, "Role": cols.Role, "Status": cols.Status,
		"Team": cols.Team, "Allowed Types": cols.AllowedTypes,
	} {
		if col == 0 {
			return UserColumns{}, fmt.Errorf("user sheet header missing column %q", name)
		}
	}
	return cols, nil
}

// UserToRow serializes a user record.
func UserToRow(u *User, cols UserColumns) []string {
	width := 0
	for _, col := range []int{cols.Username, cols.PasswordHash, cols.Salt, cols.Role, cols.Status, cols.Team, cols.AllowedTypes} {
		if col > width {
			width = col
		}
	}
	row := make([]string, width)
	row[cols.Username-1] = u.Username
	row[cols.PasswordHash-1] = u.PasswordHash
	row[cols.Salt-1] = u.Salt
	row[cols.Role-1] = string(u.Role)
	row[cols.Status-1] = string(u.Status)
	row[cols.Team-1] = u.Team
	row[cols.AllowedTypes-1] = u.AllowedTypes
	return row
}

// UserFromRow deserializes a user record.
func UserFromRow(row []string, cols UserColumns) User {
	get := func(col int) string {
		if col > 0 && col <= len(row) {
			return row[col-1]
		}
		return ""
	}
	return User{
		Username:     get(cols.Username),
		PasswordHash: get(cols.PasswordHash),
		Salt:         get(cols.Salt),
		Role:         Role(get(cols.Role)),
		Status:       UserStatus(get(cols.Status)),
		Team:         get(cols.Team),
		AllowedTypes: get(cols.AllowedTypes),
	}
}
