package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chamados/helpdesk-service/internal/api/dto"
	"github.com/chamados/helpdesk-service/internal/auth"
	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/service"
	apperrors "github.com/chamados/helpdesk-service/pkg/util"
)

// TicketsHandler manages the dashboard, ticket detail and comment endpoints
// shared by every role.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.Context(), principal.Account.ID, req.Title, req.Description)
	if err != nil {
		return err
	}
	ticket.RequesterHandle = principal.Account.Handle
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var status *domain.TicketStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		candidate := domain.TicketStatus(strings.ToUpper(raw))
		if !candidate.Valid() {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
		}
		status = &candidate
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	result, err := h.service.List(c.Context(), principal.Actor(), status, page, pageSize)
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ticketSummary(&result.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Items:   items,
		Page:    result.Page,
		HasPrev: result.HasPrev,
		HasNext: result.HasNext,
	}})
}

// GetTicket GET /tickets/:id. Viewing marks the ticket seen for the
// viewer's role; the response carries the signals from before the view.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Detail(c.Context(), principal.Actor(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetailResponse(detail)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.AddComment(c.Context(), principal.Actor(), ticketID, req.Body)
	if err != nil {
		return err
	}
	comment.AuthorHandle = principal.Account.Handle
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Status:          ticket.Status,
		RequesterHandle: ticket.RequesterHandle,
		AttendantHandle: ticket.AttendantHandle,
		Hidden:          ticket.Hidden,
		CreatedAt:       ticket.CreatedAt,
		StartedAt:       ticket.StartedAt,
		ClosedAt:        ticket.ClosedAt,
	}
}

func ticketDetailResponse(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	comments := make([]dto.CommentResponse, 0, len(detail.Comments))
	for i := range detail.Comments {
		comments = append(comments, commentResponse(&detail.Comments[i]))
	}
	return dto.TicketDetailResponse{
		ID:                 ticket.ID,
		Title:              ticket.Title,
		Description:        ticket.Description,
		Status:             ticket.Status,
		RequesterHandle:    ticket.RequesterHandle,
		AttendantHandle:    ticket.AttendantHandle,
		Hidden:             ticket.Hidden,
		HiddenByHandle:     ticket.HiddenByHandle,
		HiddenAt:           ticket.HiddenAt,
		CreatedAt:          ticket.CreatedAt,
		StartedAt:          ticket.StartedAt,
		ClosedAt:           ticket.ClosedAt,
		Comments:           comments,
		UnreadComments:     detail.UnreadComments,
		UnseenStatusUpdate: detail.UnseenStatusUpdate,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:           comment.ID,
		AuthorID:     comment.AuthorID,
		AuthorHandle: comment.AuthorHandle,
		Body:         comment.Body,
		CreatedAt:    comment.CreatedAt,
	}
}
