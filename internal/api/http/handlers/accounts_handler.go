package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/chamados/helpdesk-service/internal/api/dto"
	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/service"
	apperrors "github.com/chamados/helpdesk-service/pkg/util"
)

// AccountsHandler exposes registration and login endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Handle == "" || req.Password == "" {
		return apperrors.NewValidationError("handle and password required", nil)
	}

	account, token, exp, err := h.auth.Register(c.Context(), req.Handle, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": accountResponse(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Handle == "" || req.Password == "" {
		return apperrors.NewValidationError("handle and password required", nil)
	}

	account, token, exp, err := h.auth.Authenticate(c.Context(), req.Handle, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": accountResponse(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

func accountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:     account.ID,
		Handle: account.Handle,
		Role:   account.Role.String(),
	}
}
