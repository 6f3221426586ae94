package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/observability/metrics"
	"github.com/yourorg/propmanager/internal/service"
)

// ConsistencyWorker periodically cross-checks rooms, tenants and leases and
// logs any inconsistencies. It never mutates data; the report also feeds
// the incoherence gauge.
type ConsistencyWorker struct {
	propmanager *service.PropManagerService
	logger      *slog.Logger
	interval    time.Duration
}

// NewConsistencyWorker creates a new consistency worker
func NewConsistencyWorker(propmanager *service.PropManagerService, logger *slog.Logger, interval time.Duration) *ConsistencyWorker {
	return &ConsistencyWorker{
		propmanager: propmanager,
		logger:      logger,
		interval:    interval,
	}
}

// Start begins the worker loop until the context is cancelled.
func (w *ConsistencyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("consistency worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("consistency worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single consistency pass.
func (w *ConsistencyWorker) RunOnce(ctx context.Context) {
	resp := w.propmanager.SynchroniserDonnees(ctx)
	if !resp.Success || resp.Data == nil {
		w.logger.Error("consistency check failed", slog.String("error", resp.Error))
		metrics.ObserveWorkerRun("consistency", "error")
		return
	}

	rapport := resp.Data
	if rapport.Coherent {
		w.logger.Debug("data coherent")
	} else {
		for _, inc := range rapport.Incoherences {
			w.logger.Warn("incoherence detected", slog.String("detail", inc))
		}
	}
	metrics.ObserveWorkerRun("consistency", "success")
}
