package dto

import (
	"time"

	"github.com/chamados/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// TicketSummary is one dashboard row.
type TicketSummary struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	Status          domain.TicketStatus `json:"status"`
	RequesterHandle string              `json:"requester_handle"`
	AttendantHandle *string             `json:"attendant_handle,omitempty"`
	Hidden          bool                `json:"hidden,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
}

// TicketListResponse is one dashboard page.
type TicketListResponse struct {
	Items   []TicketSummary `json:"items"`
	Page    int             `json:"page"`
	HasPrev bool            `json:"has_prev"`
	HasNext bool            `json:"has_next"`
}

// TicketDetailResponse provides full ticket info plus the viewer's unread
// signals.
type TicketDetailResponse struct {
	ID                 int64               `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Status             domain.TicketStatus `json:"status"`
	RequesterHandle    string              `json:"requester_handle"`
	AttendantHandle    *string             `json:"attendant_handle,omitempty"`
	Hidden             bool                `json:"hidden"`
	HiddenByHandle     *string             `json:"hidden_by_handle,omitempty"`
	HiddenAt           *time.Time          `json:"hidden_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	StartedAt          *time.Time          `json:"started_at,omitempty"`
	ClosedAt           *time.Time          `json:"closed_at,omitempty"`
	Comments           []CommentResponse   `json:"comments"`
	UnreadComments     int                 `json:"unread_comments"`
	UnseenStatusUpdate bool                `json:"unseen_status_update"`
}

// CommentResponse represents a thread message.
type CommentResponse struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"author_id"`
	AuthorHandle string    `json:"author_handle"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}
