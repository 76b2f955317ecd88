package service

import (
	"context"
	"time"

	"npl-dashboard/internal/logger"

	"go.uber.org/zap"
)

// StartCodeCleanupJob purges used and expired reset codes on a fixed
// interval until the context is cancelled. Run it in its own goroutine; the
// owning lifecycle cancels the context during shutdown.
func (s *AccountService) StartCodeCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reset code cleanup job started",
		zap.Duration("interval", interval),
	)

	s.cleanupStaleCodes(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset code cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupStaleCodes(ctx)
		}
	}
}

func (s *AccountService) cleanupStaleCodes(ctx context.Context) {
	if err := s.repo.DeleteStaleResetCodes(ctx); err != nil {
		logger.Error("Failed to delete stale reset codes", zap.Error(err))
		return
	}

	logger.Debug("Stale reset codes cleaned up")
}
