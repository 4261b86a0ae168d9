package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamados/helpdesk-service/internal/domain"
)

const (
	aliceID int64 = 1 // requester
	bobID   int64 = 2 // attendant
	carolID int64 = 3 // another attendant
	rootID  int64 = 4 // administrator
)

func requester(id int64) Actor     { return Actor{ID: id, Role: domain.RoleRequester} }
func attendant(id int64) Actor     { return Actor{ID: id, Role: domain.RoleAttendant} }
func administrator(id int64) Actor { return Actor{ID: id, Role: domain.RoleAdministrator} }

func openTicket(requesterID int64) *domain.Ticket {
	return &domain.Ticket{ID: 10, Status: domain.TicketStatusOpen, RequesterID: requesterID}
}

func claimedTicket(requesterID, attendantID int64) *domain.Ticket {
	t := openTicket(requesterID)
	t.Status = domain.TicketStatusInProgress
	t.AttendantID = &attendantID
	return t
}

func closedTicket(requesterID, attendantID int64) *domain.Ticket {
	t := claimedTicket(requesterID, attendantID)
	t.Status = domain.TicketStatusClosed
	return t
}

func hiddenTicket(requesterID, attendantID int64) *domain.Ticket {
	t := closedTicket(requesterID, attendantID)
	t.Hidden = true
	t.HiddenBy = &attendantID
	return t
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		ticket *domain.Ticket
		want   bool
	}{
		{"requester sees own ticket", requester(aliceID), openTicket(aliceID), true},
		{"requester cannot see others", requester(aliceID), openTicket(bobID), false},
		{"requester never sees hidden, even own", requester(aliceID), hiddenTicket(aliceID, bobID), false},
		{"attendant sees open tickets", attendant(bobID), openTicket(aliceID), true},
		{"attendant sees own claimed ticket", attendant(bobID), claimedTicket(aliceID, bobID), true},
		{"attendant cannot see another attendants claim", attendant(carolID), claimedTicket(aliceID, bobID), false},
		{"attendant cannot see hidden", attendant(bobID), hiddenTicket(aliceID, bobID), false},
		{"admin sees everything", administrator(rootID), claimedTicket(aliceID, bobID), true},
		{"admin sees hidden", administrator(rootID), hiddenTicket(aliceID, bobID), true},
		{"invalid role sees nothing", Actor{ID: 9, Role: domain.Role(5)}, openTicket(aliceID), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.actor, tt.ticket))
			// commenting mirrors viewing for every role
			assert.Equal(t, tt.want, CanComment(tt.actor, tt.ticket))
		})
	}
}

func TestCanClaim(t *testing.T) {
	assert.True(t, CanClaim(attendant(bobID), openTicket(aliceID)))
	assert.True(t, CanClaim(administrator(rootID), openTicket(aliceID)))
	assert.False(t, CanClaim(requester(aliceID), openTicket(aliceID)))
	assert.False(t, CanClaim(attendant(bobID), claimedTicket(aliceID, carolID)))
	assert.False(t, CanClaim(attendant(bobID), closedTicket(aliceID, bobID)))
}

func TestCanClose(t *testing.T) {
	assert.True(t, CanClose(attendant(bobID), claimedTicket(aliceID, bobID)))
	assert.False(t, CanClose(attendant(carolID), claimedTicket(aliceID, bobID)))
	assert.True(t, CanClose(administrator(rootID), claimedTicket(aliceID, bobID)))
	assert.False(t, CanClose(requester(aliceID), claimedTicket(aliceID, bobID)))
	assert.False(t, CanClose(attendant(bobID), openTicket(aliceID)))
	assert.False(t, CanClose(attendant(bobID), closedTicket(aliceID, bobID)))
}

func TestCanHide(t *testing.T) {
	assert.True(t, CanHide(attendant(bobID), closedTicket(aliceID, bobID)))
	assert.False(t, CanHide(attendant(carolID), closedTicket(aliceID, bobID)))
	assert.True(t, CanHide(administrator(rootID), closedTicket(aliceID, bobID)))
	// hiding is only legal once closed
	assert.False(t, CanHide(attendant(bobID), openTicket(aliceID)))
	assert.False(t, CanHide(attendant(bobID), claimedTicket(aliceID, bobID)))
	assert.False(t, CanHide(administrator(rootID), hiddenTicket(aliceID, bobID)))
}

func TestCanUnhide(t *testing.T) {
	assert.True(t, CanUnhide(administrator(rootID)))
	assert.False(t, CanUnhide(attendant(bobID)))
	assert.False(t, CanUnhide(requester(aliceID)))
}

func TestScopeFor(t *testing.T) {
	adminScope := ScopeFor(administrator(rootID))
	assert.True(t, adminScope.IncludeHidden)
	assert.Nil(t, adminScope.RequesterID)
	assert.Nil(t, adminScope.AttendantID)

	attendantScope := ScopeFor(attendant(bobID))
	assert.False(t, attendantScope.IncludeHidden)
	require.NotNil(t, attendantScope.AttendantID)
	assert.Equal(t, bobID, *attendantScope.AttendantID)
	assert.Nil(t, attendantScope.RequesterID)

	requesterScope := ScopeFor(requester(aliceID))
	assert.False(t, requesterScope.IncludeHidden)
	require.NotNil(t, requesterScope.RequesterID)
	assert.Equal(t, aliceID, *requesterScope.RequesterID)
	assert.Nil(t, requesterScope.AttendantID)
}
