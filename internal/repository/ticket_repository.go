package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamados/helpdesk-service/internal/authz"
	"github.com/chamados/helpdesk-service/internal/domain"
)

// TicketFilter captures dashboard query parameters. Scope carries the
// actor's visibility restriction; the zero scope with IncludeHidden lists
// everything (administrator view).
type TicketFilter struct {
	Scope  authz.ListScope
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// TicketRepository encapsulates ticket persistence. Every transition is a
// single conditional UPDATE keyed on the expected prior state; the returned
// bool is false when the precondition no longer held (zero rows affected).
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int64, error)

	Claim(ctx context.Context, ticketID, attendantID int64) (bool, error)
	Close(ctx context.Context, ticketID, actorID int64, asAdmin bool) (bool, error)
	Hide(ctx context.Context, ticketID, actorID int64, asAdmin bool) (bool, error)
	Unhide(ctx context.Context, ticketID int64) (bool, error)

	MarkSeen(ctx context.Context, ticketID int64, role domain.Role, seenCommentID int64, seenAt time.Time) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `
        t.id, t.title, t.description, t.status, t.requester_id, t.attendant_id,
        t.created_at, t.started_at, t.closed_at,
        t.hidden, t.hidden_by, t.hidden_at,
        t.last_status_at, t.last_status_by,
        t.requester_seen_comment_id, t.attendant_seen_comment_id, t.admin_seen_comment_id,
        t.requester_seen_status_at, t.attendant_seen_status_at, t.admin_seen_status_at,
        requester.handle, attendant.handle, hider.handle`

const ticketJoins = `
        FROM tickets t
        JOIN accounts requester ON t.requester_id = requester.id
        LEFT JOIN accounts attendant ON t.attendant_id = attendant.id
        LEFT JOIN accounts hider ON t.hidden_by = hider.id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, requester_id, last_status_at, last_status_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.RequesterID,
		ticket.LastStatusAt,
		ticket.LastStatusBy,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT` + ticketColumns + ticketJoins + ` WHERE t.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT%s%s WHERE %s ORDER BY t.created_at DESC, t.id DESC LIMIT %d OFFSET %d`,
		ticketColumns, ticketJoins, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int64, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets t WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// filterClauses builds parameterized WHERE fragments from the filter; the
// same fragments back both the page query and the count query.
func filterClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.Scope.IncludeHidden {
		clauses = append(clauses, "t.hidden = FALSE")
	}
	if filter.Scope.RequesterID != nil {
		args = append(args, *filter.Scope.RequesterID)
		clauses = append(clauses, fmt.Sprintf("t.requester_id=$%d", len(args)))
	}
	if filter.Scope.AttendantID != nil {
		args = append(args, *filter.Scope.AttendantID)
		clauses = append(clauses, fmt.Sprintf("(t.status='OPEN' OR t.attendant_id=$%d)", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	return clauses, args
}

func (r *ticketRepository) Claim(ctx context.Context, ticketID, attendantID int64) (bool, error) {
	const query = `
        UPDATE tickets
        SET status='IN_PROGRESS', attendant_id=$1, started_at=NOW(),
            last_status_at=NOW(), last_status_by=$1
        WHERE id=$2 AND status='OPEN' AND hidden=FALSE`
	cmd, err := r.pool.Exec(ctx, query, attendantID, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) Close(ctx context.Context, ticketID, actorID int64, asAdmin bool) (bool, error) {
	const query = `
        UPDATE tickets
        SET status='CLOSED', closed_at=NOW(),
            last_status_at=NOW(), last_status_by=$1
        WHERE id=$2 AND status='IN_PROGRESS' AND hidden=FALSE
          AND (attendant_id=$1 OR $3)`
	cmd, err := r.pool.Exec(ctx, query, actorID, ticketID, asAdmin)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) Hide(ctx context.Context, ticketID, actorID int64, asAdmin bool) (bool, error) {
	const query = `
        UPDATE tickets
        SET hidden=TRUE, hidden_by=$1, hidden_at=NOW()
        WHERE id=$2 AND status='CLOSED' AND hidden=FALSE
          AND (attendant_id=$1 OR $3)`
	cmd, err := r.pool.Exec(ctx, query, actorID, ticketID, asAdmin)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) Unhide(ctx context.Context, ticketID int64) (bool, error) {
	const query = `
        UPDATE tickets
        SET hidden=FALSE, hidden_by=NULL, hidden_at=NULL
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) MarkSeen(ctx context.Context, ticketID int64, role domain.Role, seenCommentID int64, seenAt time.Time) error {
	var query string
	switch role {
	case domain.RoleAttendant:
		query = `UPDATE tickets SET attendant_seen_comment_id=$1, attendant_seen_status_at=$2 WHERE id=$3`
	case domain.RoleAdministrator:
		query = `UPDATE tickets SET admin_seen_comment_id=$1, admin_seen_status_at=$2 WHERE id=$3`
	default:
		query = `UPDATE tickets SET requester_seen_comment_id=$1, requester_seen_status_at=$2 WHERE id=$3`
	}
	_, err := r.pool.Exec(ctx, query, seenCommentID, seenAt, ticketID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.RequesterID,
		&ticket.AttendantID,
		&ticket.CreatedAt,
		&ticket.StartedAt,
		&ticket.ClosedAt,
		&ticket.Hidden,
		&ticket.HiddenBy,
		&ticket.HiddenAt,
		&ticket.LastStatusAt,
		&ticket.LastStatusBy,
		&ticket.RequesterSeenCommentID,
		&ticket.AttendantSeenCommentID,
		&ticket.AdminSeenCommentID,
		&ticket.RequesterSeenStatusAt,
		&ticket.AttendantSeenStatusAt,
		&ticket.AdminSeenStatusAt,
		&ticket.RequesterHandle,
		&ticket.AttendantHandle,
		&ticket.HiddenByHandle,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
