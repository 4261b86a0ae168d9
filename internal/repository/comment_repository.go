package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamados/helpdesk-service/internal/domain"
)

// CommentRepository encapsulates the append-only comment log.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error)
	// LatestID returns the highest comment ID on the ticket, 0 when none.
	LatestID(ctx context.Context, ticketID int64) (int64, error)
	// CountUnread counts comments newer than afterID written by anyone
	// other than excludeAuthor.
	CountUnread(ctx context.Context, ticketID, afterID, excludeAuthor int64) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, body)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.author_id, c.body, c.created_at, a.handle
        FROM ticket_comments c
        JOIN accounts a ON c.author_id = a.id
        WHERE c.ticket_id=$1
        ORDER BY c.id ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.AuthorHandle,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) LatestID(ctx context.Context, ticketID int64) (int64, error) {
	const query = `SELECT COALESCE(MAX(id), 0) FROM ticket_comments WHERE ticket_id=$1`
	var latest int64
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&latest); err != nil {
		return 0, err
	}
	return latest, nil
}

func (r *commentRepository) CountUnread(ctx context.Context, ticketID, afterID, excludeAuthor int64) (int, error) {
	const query = `
        SELECT COUNT(*) FROM ticket_comments
        WHERE ticket_id=$1 AND id > $2 AND author_id <> $3`
	var count int
	if err := r.pool.QueryRow(ctx, query, ticketID, afterID, excludeAuthor).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
