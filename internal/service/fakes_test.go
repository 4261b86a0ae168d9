package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/repository"
)

// In-memory repository fakes. The ticket fake mirrors the conditional-update
// semantics of the Postgres implementation: a transition succeeds only when
// the expected prior state still holds, so a second claimer loses.

type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int64]domain.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	account.ID = f.nextID
	account.CreatedAt = time.Now()
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &account, nil
}

func (f *fakeAccountRepo) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Handle == handle {
			copied := account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ticket.ID = f.nextID
	ticket.CreatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (f *fakeTicketRepo) matches(ticket domain.Ticket, filter repository.TicketFilter) bool {
	if !filter.Scope.IncludeHidden && ticket.Hidden {
		return false
	}
	if filter.Scope.RequesterID != nil && ticket.RequesterID != *filter.Scope.RequesterID {
		return false
	}
	if filter.Scope.AttendantID != nil {
		mine := ticket.AttendantID != nil && *ticket.AttendantID == *filter.Scope.AttendantID
		if ticket.Status != domain.TicketStatusOpen && !mine {
			return false
		}
	}
	if filter.Status != nil && ticket.Status != *filter.Status {
		return false
	}
	return true
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Ticket
	for _, ticket := range f.tickets {
		if f.matches(ticket, filter) {
			all = append(all, ticket)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	offset := filter.Offset
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + filter.Limit
	if filter.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeTicketRepo) Count(_ context.Context, filter repository.TicketFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, ticket := range f.tickets {
		if f.matches(ticket, filter) {
			total++
		}
	}
	return total, nil
}

func (f *fakeTicketRepo) Claim(_ context.Context, ticketID, attendantID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusOpen || ticket.Hidden {
		return false, nil
	}
	now := time.Now()
	ticket.Status = domain.TicketStatusInProgress
	ticket.AttendantID = &attendantID
	ticket.StartedAt = &now
	ticket.LastStatusAt = now
	ticket.LastStatusBy = attendantID
	f.tickets[ticketID] = ticket
	return true, nil
}

func (f *fakeTicketRepo) Close(_ context.Context, ticketID, actorID int64, asAdmin bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusInProgress || ticket.Hidden {
		return false, nil
	}
	if !asAdmin && (ticket.AttendantID == nil || *ticket.AttendantID != actorID) {
		return false, nil
	}
	now := time.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	ticket.LastStatusAt = now
	ticket.LastStatusBy = actorID
	f.tickets[ticketID] = ticket
	return true, nil
}

func (f *fakeTicketRepo) Hide(_ context.Context, ticketID, actorID int64, asAdmin bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != domain.TicketStatusClosed || ticket.Hidden {
		return false, nil
	}
	if !asAdmin && (ticket.AttendantID == nil || *ticket.AttendantID != actorID) {
		return false, nil
	}
	now := time.Now()
	ticket.Hidden = true
	ticket.HiddenBy = &actorID
	ticket.HiddenAt = &now
	f.tickets[ticketID] = ticket
	return true, nil
}

func (f *fakeTicketRepo) Unhide(_ context.Context, ticketID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return false, nil
	}
	ticket.Hidden = false
	ticket.HiddenBy = nil
	ticket.HiddenAt = nil
	f.tickets[ticketID] = ticket
	return true, nil
}

func (f *fakeTicketRepo) MarkSeen(_ context.Context, ticketID int64, role domain.Role, seenCommentID int64, seenAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	switch role {
	case domain.RoleAttendant:
		ticket.AttendantSeenCommentID = seenCommentID
		ticket.AttendantSeenStatusAt = &seenAt
	case domain.RoleAdministrator:
		ticket.AdminSeenCommentID = seenCommentID
		ticket.AdminSeenStatusAt = &seenAt
	default:
		ticket.RequesterSeenCommentID = seenCommentID
		ticket.RequesterSeenStatusAt = &seenAt
	}
	f.tickets[ticketID] = ticket
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments []domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// comment IDs increase globally, not per ticket
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Comment
	for _, comment := range f.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) LatestID(_ context.Context, ticketID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest int64
	for _, comment := range f.comments {
		if comment.TicketID == ticketID && comment.ID > latest {
			latest = comment.ID
		}
	}
	return latest, nil
}

func (f *fakeCommentRepo) CountUnread(_ context.Context, ticketID, afterID, excludeAuthor int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, comment := range f.comments {
		if comment.TicketID == ticketID && comment.ID > afterID && comment.AuthorID != excludeAuthor {
			count++
		}
	}
	return count, nil
}
