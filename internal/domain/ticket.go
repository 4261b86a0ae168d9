package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The flow is strictly
// forward: OPEN -> IN_PROGRESS -> CLOSED.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
//
// RequesterHandle, AttendantHandle and HiddenByHandle are joined from the
// accounts table on read; they are not stored on the ticket row.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus

	RequesterID int64
	AttendantID *int64

	CreatedAt time.Time
	StartedAt *time.Time
	ClosedAt  *time.Time

	Hidden   bool
	HiddenBy *int64
	HiddenAt *time.Time

	// Status-change audit, overwritten on every transition.
	LastStatusAt time.Time
	LastStatusBy int64

	// Per-role seen markers. Markers are shared by every holder of the role:
	// any attendant viewing the ticket marks it seen for all attendants.
	RequesterSeenCommentID int64
	AttendantSeenCommentID int64
	AdminSeenCommentID     int64
	RequesterSeenStatusAt  *time.Time
	AttendantSeenStatusAt  *time.Time
	AdminSeenStatusAt      *time.Time

	RequesterHandle string
	AttendantHandle *string
	HiddenByHandle  *string
}

// SeenCommentID returns the seen-comment marker for the given role.
func (t *Ticket) SeenCommentID(role Role) int64 {
	switch role {
	case RoleAttendant:
		return t.AttendantSeenCommentID
	case RoleAdministrator:
		return t.AdminSeenCommentID
	default:
		return t.RequesterSeenCommentID
	}
}

// SeenStatusAt returns the seen-status marker for the given role, nil when
// the role has never viewed the ticket.
func (t *Ticket) SeenStatusAt(role Role) *time.Time {
	switch role {
	case RoleAttendant:
		return t.AttendantSeenStatusAt
	case RoleAdministrator:
		return t.AdminSeenStatusAt
	default:
		return t.RequesterSeenStatusAt
	}
}

// HasUnseenStatus reports whether the last status transition happened after
// the role's marker and was made by someone other than the actor. A nil
// marker means the role never viewed the ticket, which counts as unseen.
func (t *Ticket) HasUnseenStatus(role Role, actorID int64) bool {
	if t.LastStatusAt.IsZero() || t.LastStatusBy == actorID {
		return false
	}
	seen := t.SeenStatusAt(role)
	return seen == nil || t.LastStatusAt.After(*seen)
}
