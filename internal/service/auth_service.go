package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chamados/helpdesk-service/internal/auth"
	"github.com/chamados/helpdesk-service/internal/config"
	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/repository"
	apperrors "github.com/chamados/helpdesk-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a requester account. The handle is normalized before
// validation, so "Joao.Silva" and "joao.silva" collide.
func (s *AuthService) Register(ctx context.Context, handle, password string) (*domain.Account, string, time.Time, error) {
	handle = domain.NormalizeHandle(handle)
	if !domain.ValidHandle(handle) {
		return nil, "", time.Time{}, apperrors.NewInvalidHandle(handle)
	}
	if password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("password required", nil)
	}

	if _, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		return nil, "", time.Time{}, apperrors.NewHandleTaken(handle)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewStorageError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	account := &domain.Account{
		Handle:       handle,
		PasswordHash: hash,
		Role:         domain.RoleRequester,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", time.Time{}, apperrors.NewStorageError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// Authenticate verifies credentials and returns the account with a signed
// token. Unknown handles and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, handle, password string) (*domain.Account, string, time.Time, error) {
	handle = domain.NormalizeHandle(handle)

	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.NewStorageError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
