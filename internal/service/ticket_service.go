package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chamados/helpdesk-service/internal/authz"
	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/events"
	"github.com/chamados/helpdesk-service/internal/repository"
	apperrors "github.com/chamados/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle, visibility filtering and
// notification signals.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketPage is one dashboard page plus its pagination cursors.
type TicketPage struct {
	Items   []domain.Ticket
	Page    int
	HasPrev bool
	HasNext bool
}

// TicketDetail is a full ticket view: thread plus the actor's unread
// signals, computed before the view marked the ticket seen.
type TicketDetail struct {
	Ticket             *domain.Ticket
	Comments           []domain.Comment
	UnreadComments     int
	UnseenStatusUpdate bool
}

// Create opens a new ticket for the requester.
func (s *TicketService) Create(ctx context.Context, requesterID int64, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		Title:        title,
		Description:  description,
		Status:       domain.TicketStatusOpen,
		RequesterID:  requesterID,
		LastStatusAt: now,
		LastStatusBy: requesterID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{AccountID: requesterID, Role: domain.RoleRequester},
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			RequesterID: requesterID,
		},
	})
	return ticket, nil
}

// List returns one dashboard page scoped to the actor's visibility.
func (s *TicketService) List(ctx context.Context, actor authz.Actor, status *domain.TicketStatus, page, pageSize int) (*TicketPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := repository.TicketFilter{
		Scope:  authz.ScopeFor(actor),
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	items, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	return &TicketPage{
		Items:   items,
		Page:    page,
		HasPrev: page > 1,
		HasNext: int64(page)*int64(pageSize) < total,
	}, nil
}

// Get fetches a ticket the actor may view, with no seen-marker side effect.
// A missing ticket and an invisible ticket are the same NotFound.
func (s *TicketService) Get(ctx context.Context, actor authz.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.NewStorageError(err)
	}
	if !authz.CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}

// Detail returns the full ticket view and, as a side effect, advances the
// viewing role's seen markers to the newest comment and the current time.
// The returned signals reflect the state before the markers moved.
func (s *TicketService) Detail(ctx context.Context, actor authz.Actor, ticketID int64) (*TicketDetail, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	unread, err := s.comments.CountUnread(ctx, ticket.ID, ticket.SeenCommentID(actor.Role), actor.ID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	unseenStatus := ticket.HasUnseenStatus(actor.Role, actor.ID)

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	latest, err := s.comments.LatestID(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if err := s.tickets.MarkSeen(ctx, ticket.ID, actor.Role, latest, time.Now()); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	return &TicketDetail{
		Ticket:             ticket,
		Comments:           comments,
		UnreadComments:     unread,
		UnseenStatusUpdate: unseenStatus,
	}, nil
}

// AddComment appends a comment to a ticket the actor may view.
func (s *TicketService) AddComment(ctx context.Context, actor authz.Actor, ticketID int64, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewEmptyComment()
	}

	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanComment(actor, ticket) {
		return nil, apperrors.NewForbidden("cannot comment on this ticket")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{AccountID: actor.ID, Role: actor.Role},
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    actor.ID,
			BodyPreview: bodyPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// Claim moves an open ticket to in-progress and assigns the actor as its
// attendant. Losing the claim race yields PreconditionFailed.
func (s *TicketService) Claim(ctx context.Context, actor authz.Actor, ticketID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("only attendants may claim tickets")
	}
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return err
	}

	ok, err := s.tickets.Claim(ctx, ticket.ID, actor.ID)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if !ok {
		return apperrors.NewPreconditionFailed("ticket is no longer open", nil)
	}

	s.publishStatusEvent(ctx, events.EventTicketClaimed, actor, ticket.ID,
		domain.TicketStatusOpen, domain.TicketStatusInProgress)
	return nil
}

// Close moves an in-progress ticket to closed. Attendants may only close
// tickets they claimed; administrators may close any.
func (s *TicketService) Close(ctx context.Context, actor authz.Actor, ticketID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("only attendants may close tickets")
	}
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return err
	}

	ok, err := s.tickets.Close(ctx, ticket.ID, actor.ID, actor.Role == domain.RoleAdministrator)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if !ok {
		return apperrors.NewPreconditionFailed("ticket is not in progress under you", nil)
	}

	s.publishStatusEvent(ctx, events.EventTicketClosed, actor, ticket.ID,
		domain.TicketStatusInProgress, domain.TicketStatusClosed)
	return nil
}

// Hide soft-deletes a closed ticket. Status is untouched; only the hidden
// flag and its audit pair change.
func (s *TicketService) Hide(ctx context.Context, actor authz.Actor, ticketID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("only attendants may hide tickets")
	}
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return err
	}

	ok, err := s.tickets.Hide(ctx, ticket.ID, actor.ID, actor.Role == domain.RoleAdministrator)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if !ok {
		return apperrors.NewPreconditionFailed("ticket must be closed and visible", nil)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketHidden,
		TicketID: ticket.ID,
		Actor:    events.Actor{AccountID: actor.ID, Role: actor.Role},
		Payload:  events.TicketVisibilityChangedPayload{Hidden: true},
	})
	return nil
}

// Unhide restores a hidden ticket. Administrators only; unhiding an already
// visible ticket is a no-op success.
func (s *TicketService) Unhide(ctx context.Context, actor authz.Actor, ticketID int64) error {
	if !authz.CanUnhide(actor) {
		return apperrors.NewForbidden("only administrators may unhide tickets")
	}

	ok, err := s.tickets.Unhide(ctx, ticketID)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if !ok {
		return apperrors.NewNotFound("ticket")
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUnhidden,
		TicketID: ticketID,
		Actor:    events.Actor{AccountID: actor.ID, Role: actor.Role},
		Payload:  events.TicketVisibilityChangedPayload{Hidden: false},
	})
	return nil
}

// UnreadCommentCount returns how many comments on the ticket the actor's
// role has not seen, excluding the actor's own.
func (s *TicketService) UnreadCommentCount(ctx context.Context, actor authz.Actor, ticketID int64) (int, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return 0, err
	}
	count, err := s.comments.CountUnread(ctx, ticket.ID, ticket.SeenCommentID(actor.Role), actor.ID)
	if err != nil {
		return 0, apperrors.NewStorageError(err)
	}
	return count, nil
}

// HasUnseenStatusUpdate reports whether the ticket's last transition is news
// to the actor's role.
func (s *TicketService) HasUnseenStatusUpdate(actor authz.Actor, ticket *domain.Ticket) bool {
	return ticket.HasUnseenStatus(actor.Role, actor.ID)
}

func (s *TicketService) publishStatusEvent(ctx context.Context, eventType events.EventType, actor authz.Actor, ticketID int64, oldStatus, newStatus domain.TicketStatus) {
	s.publishEvent(ctx, events.Event{
		Type:     eventType,
		TicketID: ticketID,
		Actor:    events.Actor{AccountID: actor.ID, Role: actor.Role},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
