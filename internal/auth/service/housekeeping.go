package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

// HousekeepingService periodically deletes authorization codes that expired
// without being redeemed. Redeemed codes are kept so their access tokens
// still resolve.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Metrics  metrics.Recorder
	Clock    Clock

	// Internal channels for lifecycle management
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Only the first call starts a worker, and none does once Stop was called.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started = true
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup. Stop is safe
// to call more than once and before Start.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		// Claim startOnce so a later Start is a no-op.
		s.startOnce.Do(func() {})
		close(s.stopCh)
		if !s.started {
			return
		}
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run cleanup immediately on startup
	s.Purge(ctx)

	for {
		select {
		case <-ticker.C:
			s.Purge(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// Purge deletes expired, unredeemed codes once and returns how many went.
func (s *HousekeepingService) Purge(ctx context.Context) int64 {
	n, err := s.Store.AuthorizationCodes().DeleteExpiredAuthorizationCodes(ctx, s.Clock.now())
	if err != nil {
		s.Logger.Error("failed to delete expired authorization codes", "error", err)
		return 0
	}

	recorder(s.Metrics).RecordCodesPurged(n)
	s.Logger.Info("housekeeping cleanup completed", "deleted_codes", n)
	return n
}
