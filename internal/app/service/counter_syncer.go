package service

import (
	"context"
	"time"

	apprepository "github.com/linkdeck/linkdeck/internal/app/repository"
	"go.uber.org/zap"
)

// CounterSyncer periodically rewrites link click counters from the click log.
// Hot-path increments are fire-and-forget and tolerate lost updates, so the
// counters can drift low; this worker repairs them in the background.
type CounterSyncer struct {
	logger   *zap.Logger
	repo     apprepository.AnalyticsRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewCounterSyncer creates a counter reconciliation worker.
func NewCounterSyncer(logger *zap.Logger, repo apprepository.AnalyticsRepository, interval time.Duration) *CounterSyncer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CounterSyncer{
		logger:   logger,
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic reconciliation.
func (c *CounterSyncer) Start() {
	go c.run()
}

// Stop stops the periodic reconciliation.
func (c *CounterSyncer) Stop() {
	close(c.stopChan)
}

func (c *CounterSyncer) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.reconcile()
		case <-c.stopChan:
			c.logger.Info("counter syncer stopped")
			return
		}
	}
}

func (c *CounterSyncer) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	corrected, err := c.repo.ReconcileClickCounts(ctx)
	if err != nil {
		c.logger.Error("failed to reconcile click counters", zap.Error(err))
		return
	}

	if corrected > 0 {
		c.logger.Info("reconciled drifted click counters",
			zap.Int64("count", corrected),
		)
	}
}
