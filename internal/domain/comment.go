package domain

import "time"

// Comment is an append-only message on a ticket thread. IDs increase
// globally across all tickets, so "id greater than a seen marker" is a valid
// staleness test.
type Comment struct {
	ID        int64
	TicketID  int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time

	AuthorHandle string
}
