// Package rank implements the background worker that keeps leaderboard ranks
// and engagement counters fresh.
package rank

import (
	"context"
	"time"

	"github.com/memegrid/memegrid/internal/database"
	"github.com/memegrid/memegrid/internal/setup"
	"github.com/memegrid/memegrid/internal/worker/core"
	"go.uber.org/zap"
)

const (
	defaultRankInterval      = 30 * time.Second
	defaultReconcileInterval = 5 * time.Minute
	defaultReconcileBatch    = 200
	defaultReconcileWorkers  = 4
)

// Worker periodically recomputes leaderboard ranks and reconciles meme
// counters. Multiple instances can run safely; the refresh bookkeeping row
// serializes snapshot recomputation.
type Worker struct {
	db                database.Client
	reporter          *core.StatusReporter
	logger            *zap.Logger
	rankInterval      time.Duration
	rankStale         time.Duration
	reconcileInterval time.Duration
	reconcileBatch    int
	reconcileWorkers  int
}

// New creates a new rank worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	reporter := core.NewStatusReporter(app.StatusClient, "rank", logger)

	rankInterval := defaultRankInterval
	if s := app.Config.Worker.RankIntervalSeconds; s > 0 {
		rankInterval = time.Duration(s) * time.Second
	}

	// The staleness window defaults to just under the refresh interval so a
	// healthy worker always finds the snapshot stale on its own schedule.
	rankStale := rankInterval - rankInterval/10
	if s := app.Config.Worker.RankStaleSeconds; s > 0 {
		rankStale = time.Duration(s) * time.Second
	}

	reconcileInterval := defaultReconcileInterval
	if s := app.Config.Worker.ReconcileIntervalSeconds; s > 0 {
		reconcileInterval = time.Duration(s) * time.Second
	}

	reconcileBatch := defaultReconcileBatch
	if s := app.Config.Worker.ReconcileBatchSize; s > 0 {
		reconcileBatch = s
	}

	reconcileWorkers := defaultReconcileWorkers
	if s := app.Config.Worker.ReconcileConcurrency; s > 0 {
		reconcileWorkers = s
	}

	return &Worker{
		db:                app.DB,
		reporter:          reporter,
		logger:            logger,
		rankInterval:      rankInterval,
		rankStale:         rankStale,
		reconcileInterval: reconcileInterval,
		reconcileBatch:    reconcileBatch,
		reconcileWorkers:  reconcileWorkers,
	}
}

// Start begins the rank worker's main loop. It blocks until ctx ends.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Rank Worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)

	defer w.reporter.Stop()

	rankTicker := time.NewTicker(w.rankInterval)
	defer rankTicker.Stop()

	reconcileTicker := time.NewTicker(w.reconcileInterval)
	defer reconcileTicker.Stop()

	// Run one refresh immediately so a fresh deployment has ranks
	w.refreshRanks(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Rank Worker stopped")
			return
		case <-rankTicker.C:
			w.refreshRanks(ctx)
		case <-reconcileTicker.C:
			w.reconcileCounters(ctx)
		}
	}
}

func (w *Worker) refreshRanks(ctx context.Context) {
	w.reporter.UpdateStatus("refreshing ranks", 0)

	err := w.db.Service().Leaderboard().RefreshRanks(ctx, w.rankStale)
	if err != nil {
		w.logger.Error("Failed to refresh ranks", zap.Error(err))
		w.reporter.SetHealthy(false)
		w.reporter.UpdateStatus("rank refresh failed", 0)

		return
	}

	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("waiting", 100)
}

func (w *Worker) reconcileCounters(ctx context.Context) {
	w.reporter.UpdateStatus("reconciling counters", 0)

	err := w.db.Service().Engagement().ReconcileAll(ctx, w.reconcileBatch, w.reconcileWorkers)
	if err != nil {
		w.logger.Error("Failed to reconcile counters", zap.Error(err))
		w.reporter.SetHealthy(false)
		w.reporter.UpdateStatus("reconciliation failed", 0)

		return
	}

	w.reporter.SetHealthy(true)
	w.reporter.UpdateStatus("waiting", 100)
}
