// Command seed creates the default demo accounts. Existing handles are left
// untouched, so the command is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/chamados/helpdesk-service/internal/auth"
	"github.com/chamados/helpdesk-service/internal/config"
	"github.com/chamados/helpdesk-service/internal/domain"
	"github.com/chamados/helpdesk-service/internal/observability"
	"github.com/chamados/helpdesk-service/internal/persistence"
	"github.com/chamados/helpdesk-service/internal/repository"
)

type seedAccount struct {
	handle   string
	password string
	role     domain.Role
}

var defaultAccounts = []seedAccount{
	{handle: "admin.master", password: "admin@123", role: domain.RoleAdministrator},
	{handle: "atendente.suporte", password: "atendente@123", role: domain.RoleAttendant},
	{handle: "atendente2.suporte", password: "atendente@123", role: domain.RoleAttendant},
	{handle: "usuario.teste", password: "usuario@123", role: domain.RoleRequester},
	{handle: "usuario2.teste", password: "usuario@123", role: domain.RoleRequester},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	accounts := repository.NewAccountRepository(pg.PoolHandle())

	created, skipped := 0, 0
	for _, seed := range defaultAccounts {
		_, err := accounts.GetByHandle(ctx, seed.handle)
		if err == nil {
			skipped++
			logger.Info("account already exists", zap.String("handle", seed.handle))
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Fatal("lookup failed", zap.String("handle", seed.handle), zap.Error(err))
		}

		hash, err := auth.HashPassword(seed.password, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("hash password", zap.Error(err))
		}
		account := &domain.Account{
			Handle:       seed.handle,
			PasswordHash: hash,
			Role:         seed.role,
		}
		if err := accounts.Create(ctx, account); err != nil {
			logger.Fatal("create account", zap.String("handle", seed.handle), zap.Error(err))
		}
		created++
		logger.Info("account created",
			zap.String("handle", seed.handle),
			zap.String("role", seed.role.String()))
	}

	logger.Info("seed finished", zap.Int("created", created), zap.Int("skipped", skipped))
}
