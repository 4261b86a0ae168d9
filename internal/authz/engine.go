// Package authz decides which tickets an actor may see or act on. Every
// predicate is a pure function over the actor and the current ticket row;
// the repository applies the same rules to list queries via ListScope.
package authz

import "github.com/chamados/helpdesk-service/internal/domain"

// Actor identifies the authenticated caller for a core operation. Identity
// and role are always passed explicitly, never read from ambient state.
type Actor struct {
	ID   int64
	Role domain.Role
}

// CanView reports whether the actor may open the ticket detail.
//
//   - Requesters see their own tickets while not hidden.
//   - Attendants see open tickets and tickets they claimed, while not hidden.
//   - Administrators see everything, hidden included.
func CanView(actor Actor, t *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleAdministrator:
		return true
	case domain.RoleAttendant:
		if t.Hidden {
			return false
		}
		return t.Status == domain.TicketStatusOpen || isAttendant(actor.ID, t)
	case domain.RoleRequester:
		return !t.Hidden && t.RequesterID == actor.ID
	}
	return false
}

// CanComment mirrors CanView for every role.
func CanComment(actor Actor, t *domain.Ticket) bool {
	return CanView(actor, t)
}

// CanClaim reports whether the actor may start working the ticket.
func CanClaim(actor Actor, t *domain.Ticket) bool {
	if !actor.Role.IsStaff() {
		return false
	}
	return !t.Hidden && t.Status == domain.TicketStatusOpen
}

// CanClose reports whether the actor may close the ticket. Attendants may
// only close tickets they claimed; administrators may close any.
func CanClose(actor Actor, t *domain.Ticket) bool {
	if t.Hidden || t.Status != domain.TicketStatusInProgress {
		return false
	}
	if actor.Role == domain.RoleAdministrator {
		return true
	}
	return actor.Role == domain.RoleAttendant && isAttendant(actor.ID, t)
}

// CanHide reports whether the actor may soft-delete the ticket. Hiding is
// only legal once the ticket is closed.
func CanHide(actor Actor, t *domain.Ticket) bool {
	if t.Hidden || t.Status != domain.TicketStatusClosed {
		return false
	}
	if actor.Role == domain.RoleAdministrator {
		return true
	}
	return actor.Role == domain.RoleAttendant && isAttendant(actor.ID, t)
}

// CanUnhide reports whether the actor may restore a hidden ticket.
// Administrators only.
func CanUnhide(actor Actor) bool {
	return actor.Role == domain.RoleAdministrator
}

// ListScope narrows a dashboard query to the tickets the actor may list.
// A nil-field scope (administrator) lists everything including hidden rows.
type ListScope struct {
	// RequesterID restricts results to tickets created by this account.
	RequesterID *int64
	// AttendantID widens results to open tickets plus tickets claimed by
	// this account.
	AttendantID *int64
	// IncludeHidden keeps soft-deleted tickets in the result set.
	IncludeHidden bool
}

// ScopeFor builds the list scope matching the actor's role.
func ScopeFor(actor Actor) ListScope {
	switch actor.Role {
	case domain.RoleAdministrator:
		return ListScope{IncludeHidden: true}
	case domain.RoleAttendant:
		id := actor.ID
		return ListScope{AttendantID: &id}
	default:
		id := actor.ID
		return ListScope{RequesterID: &id}
	}
}

func isAttendant(actorID int64, t *domain.Ticket) bool {
	return t.AttendantID != nil && *t.AttendantID == actorID
}
