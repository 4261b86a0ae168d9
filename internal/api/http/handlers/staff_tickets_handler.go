package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/chamados/helpdesk-service/internal/auth"
	"github.com/chamados/helpdesk-service/internal/authz"
	"github.com/chamados/helpdesk-service/internal/service"
	apperrors "github.com/chamados/helpdesk-service/pkg/util"
)

// StaffTicketsHandler exposes lifecycle transitions for attendants and
// administrators.
type StaffTicketsHandler struct {
	service *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: ticketService}
}

// Claim POST /staff/tickets/:id/claim.
func (h *StaffTicketsHandler) Claim(c *fiber.Ctx) error {
	return h.transition(c, h.service.Claim)
}

// Close POST /staff/tickets/:id/close.
func (h *StaffTicketsHandler) Close(c *fiber.Ctx) error {
	return h.transition(c, h.service.Close)
}

// Hide POST /staff/tickets/:id/hide.
func (h *StaffTicketsHandler) Hide(c *fiber.Ctx) error {
	return h.transition(c, h.service.Hide)
}

// Unhide POST /staff/tickets/:id/unhide.
func (h *StaffTicketsHandler) Unhide(c *fiber.Ctx) error {
	return h.transition(c, h.service.Unhide)
}

// transition runs one lifecycle operation. When the conditional update lost
// a race, the ticket is re-read so the caller learns the current real state
// instead of a bare conflict.
func (h *StaffTicketsHandler) transition(c *fiber.Ctx, op func(context.Context, authz.Actor, int64) error) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	actor := principal.Actor()

	if err := op(c.Context(), actor, ticketID); err != nil {
		if apperrors.IsCode(err, "PRECONDITION_FAILED") {
			return h.withCurrentState(c, actor, ticketID, err)
		}
		return err
	}

	ticket, err := h.service.Get(c.Context(), actor, ticketID)
	if err != nil {
		// a just-hidden ticket drops out of the attendant's own view
		if apperrors.IsCode(err, "NOT_FOUND") {
			return c.JSON(fiber.Map{"data": fiber.Map{"id": ticketID}})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

func (h *StaffTicketsHandler) withCurrentState(c *fiber.Ctx, actor authz.Actor, ticketID int64, origErr error) error {
	ticket, err := h.service.Get(c.Context(), actor, ticketID)
	if err != nil {
		return origErr
	}

	domainErr := apperrors.ToDomainError(origErr)
	details := map[string]any{"status": ticket.Status}
	if ticket.AttendantHandle != nil {
		details["attendant_handle"] = *ticket.AttendantHandle
	}
	return apperrors.NewPreconditionFailed(domainErr.Message, details)
}
