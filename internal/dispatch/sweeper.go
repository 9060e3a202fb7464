package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/store"
)

// SweeperConfig holds the periodic sweep knobs.
type SweeperConfig struct {
	// Interval is how often the sweeper looks for due reminders.
	Interval time.Duration

	// BatchSize caps how many reminders a single sweep claims.
	BatchSize int
}

// Sweeper periodically claims due reminders and hands them to the
// dispatcher. A sweep that is still running when the next tick fires is
// left alone; the tick is skipped rather than stacked.
type Sweeper struct {
	dispatcher *Dispatcher
	reminders  store.ReminderStore
	cfg        SweeperConfig
	now        func() time.Time

	running sync.Mutex // held for the duration of one sweep
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewSweeper creates a Sweeper.
func NewSweeper(dispatcher *Dispatcher, reminders store.ReminderStore, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Sweeper{
		dispatcher: dispatcher,
		reminders:  reminders,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the sweep loop in a goroutine. It returns immediately.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		log := logger.FromContext(ctx)
		log.Info("reminder sweeper started",
			"interval", s.cfg.Interval,
			"batch_size", s.cfg.BatchSize)

		for {
			select {
			case <-ctx.Done():
				log.Info("reminder sweeper stopped")
				return
			case <-ticker.C:
				s.sweepIfIdle(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// sweepIfIdle runs one sweep unless a previous one is still in progress.
func (s *Sweeper) sweepIfIdle(ctx context.Context) {
	if !s.running.TryLock() {
		logger.FromContext(ctx).Debug("previous sweep still running, skipping tick")
		return
	}
	defer s.running.Unlock()

	s.Sweep(ctx)
}

// Sweep claims one batch of due reminders and dispatches them sequentially.
// It returns how many reminders were processed. Exported so operational
// tooling and tests can trigger a sweep without waiting for a tick.
func (s *Sweeper) Sweep(ctx context.Context) int {
	log := logger.FromContext(ctx)

	claimed, err := s.reminders.ClaimDue(ctx, s.now(), s.cfg.BatchSize)
	if err != nil {
		log.Error("failed to claim due reminders", "error", err)
		return 0
	}

	processed := 0
	for i, rem := range claimed {
		if ctx.Err() != nil {
			s.failRemaining(ctx, claimed[i:])
			return processed
		}
		if _, err := s.dispatcher.DispatchOne(ctx, rem); err != nil {
			log.Error("failed to dispatch reminder",
				"reminder_id", rem.ID,
				"error", err)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.Debug("sweep finished", "processed", processed)
	}
	return processed
}

// failRemaining resolves claims the interrupted sweep will never attempt.
// Claimed reminders are invisible to future sweeps, so leaving them in
// processing would lose them silently; marking them failed keeps the
// delivery state unambiguous and visible to operators.
func (s *Sweeper) failRemaining(ctx context.Context, remaining []*domain.Reminder) {
	log := logger.FromContext(ctx)
	markCtx := context.WithoutCancel(ctx)

	for _, rem := range remaining {
		err := s.reminders.MarkOutcome(markCtx, rem.ID,
			domain.ReminderOutcomeFailed, "shutdown before dispatch")
		if err != nil {
			log.Error("failed to resolve interrupted claim",
				"reminder_id", rem.ID,
				"error", err)
		}
	}

	log.Warn("sweep interrupted by shutdown", "failed", len(remaining))
}
