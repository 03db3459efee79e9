package app

import (
	"context"
	"log/slog"
	"time"
)

// defaultSyncInterval matches the cadence the collection was always
// reconciled at.
const defaultSyncInterval = 30 * time.Second

// Syncer owns the periodic reconciliation loop: one cycle immediately
// at start, then one per interval until stopped. A failed cycle is
// logged by the service and has no effect on later cycles; there is
// no backoff and no error accumulation.
type Syncer struct {
	service  *CollectionService
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// SyncerConfig contains the dependencies for the syncer.
type SyncerConfig struct {
	// Service runs the actual sync cycles. Required.
	Service *CollectionService

	// Interval between cycles. Defaults to 30s.
	Interval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewSyncer creates a stopped syncer.
func NewSyncer(cfg SyncerConfig) *Syncer {
	if cfg.Service == nil {
		panic("app: SyncerConfig.Service is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Syncer{
		service:  cfg.Service,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the loop in its own goroutine and returns
// immediately. The loop stops when Stop is called or the parent
// context is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.InfoContext(ctx, "starting sync loop",
		slog.Duration("interval", s.interval),
	)

	go s.run(ctx)
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync loop stopped")

			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Syncer) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	// Failures are already recorded in the service's sync status.
	_, _ = s.service.ApplySync(ctx)
}

// Stop cancels the loop and waits for any in-flight cycle to finish.
// Safe to call before Start and more than once.
func (s *Syncer) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
}
