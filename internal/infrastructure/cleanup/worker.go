// Package cleanup runs the view-log retention sweep in the background.
package cleanup

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// Pruner removes view records older than the retention period.
type Pruner interface {
	CleanupOldViews(retention time.Duration) (int, error)
}

// Worker sweeps the view log on a fixed interval until its context ends.
type Worker struct {
	pruner    Pruner
	interval  time.Duration
	retention time.Duration
	logger    *logging.ChanneledLogger
}

// NewWorker creates a retention sweep worker.
func NewWorker(pruner Pruner, interval, retention time.Duration, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		pruner:    pruner,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Start launches the sweep loop. It returns immediately; the loop exits
// when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Cleanup().Info("View retention sweep started", "interval", w.interval.String(), "retention", w.retention.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.Cleanup().Info("View retention sweep stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Worker) sweep() {
	deleted, err := w.pruner.CleanupOldViews(w.retention)
	if err != nil {
		w.logger.Cleanup().Error("Retention sweep failed", "error", err)
		return
	}
	if deleted > 0 || config.CleanupVerbose {
		w.logger.Cleanup().Info("Retention sweep completed", "deleted", deleted)
	}
}
