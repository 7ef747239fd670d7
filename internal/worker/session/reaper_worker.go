package session

import (
	"context"
	"time"

	"github.com/parkrun-map/internal/worker"
	"go.uber.org/zap"
)

// IdleReaper закрывает простаивающие сессии карты
type IdleReaper interface {
	ReapIdle(maxIdle time.Duration) int
}

// ReaperWorker периодически закрывает сессии без событий дольше maxIdle
type ReaperWorker struct {
	*worker.BaseWorker
	sessions IdleReaper
	interval time.Duration
	maxIdle  time.Duration
}

// NewReaperWorker создает новый ReaperWorker
func NewReaperWorker(sessions IdleReaper, interval, maxIdle time.Duration, logger *zap.Logger) *ReaperWorker {
	return &ReaperWorker{
		BaseWorker: worker.NewBaseWorker("session-reaper", logger),
		sessions:   sessions,
		interval:   interval,
		maxIdle:    maxIdle,
	}
}

// Start запускает воркер
func (w *ReaperWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ReaperWorker",
		zap.Duration("interval", w.interval),
		zap.Duration("max_idle", w.maxIdle))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if n := w.sessions.ReapIdle(w.maxIdle); n > 0 {
				logger.Info("Idle map sessions closed", zap.Int("count", n))
			}
		}
	}
}
