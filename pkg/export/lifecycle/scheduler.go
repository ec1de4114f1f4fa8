package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reclamation sweep on a cron schedule, independently
// of any single export request.
type Scheduler struct {
	manager *Manager
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool

	// OnSweep, when set, is called after each sweep with the number of
	// artifacts deleted and whether the sweep errored. Set before Start.
	OnSweep func(deleted int, failed bool)
}

// NewScheduler creates a sweep scheduler for the manager.
func NewScheduler(manager *Manager) *Scheduler {
	return &Scheduler{
		manager: manager,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "export.scheduler"),
	}
}

// Start begins scheduled sweeping based on the manager's configured cron
// expression. If the schedule is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.manager.config.SweepSchedule
	if schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		s.runSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export sweep scheduler started",
		"schedule", schedule,
		"retention", s.manager.config.Retention.String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one reclamation cycle.
func (s *Scheduler) runSweep(ctx context.Context) {
	deleted, err := s.manager.Reclaim(ctx, time.Now(), s.manager.config.Retention)
	if s.OnSweep != nil {
		s.OnSweep(deleted, err != nil)
	}
	if err != nil {
		s.logger.Error("scheduled sweep failed", "error", err)
		return
	}
	if deleted == 0 {
		s.logger.Debug("scheduled sweep completed, no artifacts deleted")
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("export sweep scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
