package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role is the closed access-level enumeration. Values are persisted as
// integers (0/1/2) and must never hold anything outside the three constants.
type Role int

const (
	RoleRequester     Role = 0
	RoleAttendant     Role = 1
	RoleAdministrator Role = 2
)

// Valid reports whether the role is one of the three known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleAttendant, RoleAdministrator:
		return true
	}
	return false
}

// IsStaff reports whether the role may work tickets (claim, close, hide).
func (r Role) IsStaff() bool {
	return r == RoleAttendant || r == RoleAdministrator
}

func (r Role) String() string {
	switch r {
	case RoleRequester:
		return "REQUESTER"
	case RoleAttendant:
		return "ATTENDANT"
	case RoleAdministrator:
		return "ADMINISTRATOR"
	}
	return "UNKNOWN"
}

// Account is the domain model for anyone who logs into the help desk.
type Account struct {
	ID           int64
	Handle       string
	Email        *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

var handlePattern = regexp.MustCompile(`^[a-z0-9]+\.[a-z0-9]+$`)

// NormalizeHandle lowercases and trims a raw handle before validation or lookup.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// ValidHandle reports whether a normalized handle matches the
// name.surname convention (lowercase alphanumerics, exactly one dot).
func ValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}
