package background

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/models"
	"github.com/foliohq/folio-api/internal/repositories"
)

// TokenJanitor periodically prunes expired refresh tokens from every admin's
// session set. Expired tokens are already unusable; pruning keeps the stored
// arrays from growing without bound.
type TokenJanitor struct {
	adminRepo *repositories.AdminRepository
	tm        *auth.TokenManager
	logger    *slog.Logger
	interval  time.Duration
	stopCh    chan struct{}
}

// NewTokenJanitor creates a new token janitor
func NewTokenJanitor(
	adminRepo *repositories.AdminRepository,
	tm *auth.TokenManager,
	logger *slog.Logger,
	interval time.Duration,
) *TokenJanitor {
	return &TokenJanitor{
		adminRepo: adminRepo,
		tm:        tm,
		logger:    logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning task
func (tj *TokenJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(tj.interval)
	defer ticker.Stop()

	// Run immediately on startup
	tj.runPrune(ctx)

	for {
		select {
		case <-ticker.C:
			tj.runPrune(ctx)
		case <-tj.stopCh:
			tj.logger.Info("token janitor stopped")
			return
		case <-ctx.Done():
			tj.logger.Info("token janitor context cancelled")
			return
		}
	}
}

// runPrune walks every admin's refresh-token set and removes entries that no
// longer verify. Removal is idempotent, so a token consumed between the list
// and the removal is harmless.
func (tj *TokenJanitor) runPrune(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	admins, err := tj.adminRepo.List(pruneCtx)
	if err != nil {
		tj.logger.Error("token janitor failed to list admins", slog.Any("error", err))
		return
	}

	var pruned int
	for _, admin := range admins {
		for _, token := range admin.RefreshTokens {
			_, err := tj.tm.VerifyRefreshToken(token)
			if err == nil {
				continue
			}
			if !errors.Is(err, models.ErrTokenExpired) && !errors.Is(err, models.ErrTokenInvalid) {
				continue
			}

			if err := tj.adminRepo.RemoveRefreshToken(pruneCtx, admin.ID, token); err != nil {
				tj.logger.Error("token janitor failed to remove token",
					slog.String("admin_id", admin.ID), slog.Any("error", err))
				continue
			}
			pruned++
		}
	}

	if pruned > 0 {
		tj.logger.Info("expired refresh tokens pruned", slog.Int("count", pruned))
	}
}

// Stop signals the janitor to stop
func (tj *TokenJanitor) Stop() {
	close(tj.stopCh)
}
