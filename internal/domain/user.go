package domain

import "strings"

// Role enumerates account roles.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// AllowedTypesWildcard marks a user who may view every ticket type.
const AllowedTypesWildcard = "all"

// User is an account that can sign in to the admin dashboard.
type User struct {
	Username     string
	PasswordHash string
	Salt         string
	Role         Role
	Status       UserStatus
	Team         string
	AllowedTypes string
}

// CanViewAll reports whether the user has the wildcard view restriction.
func (u *User) CanViewAll() bool {
	return strings.EqualFold(strings.TrimSpace(u.AllowedTypes), AllowedTypesWildcard)
}

// AllowedTypeSet expands the comma list into ticket types; nil means all.
func (u *User) AllowedTypeSet() map[TicketType]struct{} {
	if u.CanViewAll() {
		return nil
	}
	set := make(map[TicketType]struct{})
	for _, part := range strings.Split(u.AllowedTypes, ",") {
		trimmed := TicketType(strings.ToUpper(strings.TrimSpace(part)))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// CanViewType reports whether the user may see tickets of the given type.
func (u *User) CanViewType(t TicketType) bool {
	set := u.AllowedTypeSet()
	if set == nil {
		return true
	}
	_, ok := set[t]
	return ok
}
