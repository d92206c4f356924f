package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically runs SyncWorker.ProcessPending until stopped.
type Sweeper struct {
	worker   *SyncWorker
	interval time.Duration

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSweeper(worker *SyncWorker, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{worker: worker, interval: interval}
}

// Start begins the sweep loop. Returns an error if already running.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("sweeper is already running")
	}
	s.running = true
	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	s.stopCh, s.doneCh = stopCh, doneCh
	s.mu.Unlock()

	go s.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Pending sync sweeper started", "interval", s.interval)
	return nil
}

// Stop signals the loop and waits for the current sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Pending sync sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Pending sync sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.worker.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending sync sweep failed", "error", err)
			}
		}
	}
}
