package workers

import (
	"context"
	"time"

	"digivera_backend/internal/logger"
	"digivera_backend/internal/repositories"
)

const tokenCleanupInterval = 24 * time.Hour

// CleanupWorker purges refresh tokens whose expiry has passed. Expired
// rows are already rejected at refresh time; this keeps the table from
// growing without bound.
type CleanupWorker struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
}

func NewCleanupWorker(refreshTokenRepo repositories.RefreshTokenRepository) *CleanupWorker {
	return &CleanupWorker{
		refreshTokenRepo: refreshTokenRepo,
		interval:         tokenCleanupInterval,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.WorkerLog("cleanup", "worker started", "interval", w.interval.String())

	// Sweep once on startup so restarts never postpone the purge
	w.sweep()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("cleanup", "worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CleanupWorker) sweep() {
	if err := w.refreshTokenRepo.CleanExpired(); err != nil {
		logger.WorkerLog("cleanup", "expired token purge failed", "error", err)
		return
	}
	logger.WorkerLog("cleanup", "expired tokens purged")
}
