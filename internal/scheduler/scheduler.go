// Package scheduler runs the periodic board refresh, weekly recap and
// share-card capture on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "streetartlist/internal/log"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Jobs are the scheduled tasks. Capture is optional and runs right after
// every successful refresh.
type Jobs struct {
	Refresh Job
	Recap   Job
	Capture Job
}

// Scheduler wraps a cron instance bound to the display timezone.
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs

	ctx    context.Context
	cancel context.CancelFunc

	// refreshMu keeps a slow refresh from overlapping the next tick.
	refreshMu sync.Mutex
}

// New validates both specs (standard 5-field cron) and registers the jobs.
func New(loc *time.Location, refreshSpec, recapSpec string, jobs Jobs) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if jobs.Refresh == nil || jobs.Recap == nil {
		return nil, fmt.Errorf("scheduler: refresh and recap jobs are required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   jobs,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(refreshSpec, func() { s.RunRefresh(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: refresh spec %q: %w", refreshSpec, err)
	}
	if _, err := s.cron.AddFunc(recapSpec, func() { s.RunRecap(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: recap spec %q: %w", recapSpec, err)
	}

	return s, nil
}

// Start runs the cron loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		appLog.Info("scheduler entry", "id", e.ID, "next", e.Next.Format(time.RFC3339))
	}
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunRefresh runs the refresh job, then capture when the refresh
// succeeded. A refresh already in flight makes this a no-op.
func (s *Scheduler) RunRefresh(ctx context.Context) {
	if !s.refreshMu.TryLock() {
		appLog.Warn("scheduler: refresh already running, skipping tick")
		return
	}
	defer s.refreshMu.Unlock()

	start := time.Now()
	if err := s.jobs.Refresh(ctx); err != nil {
		appLog.Error("scheduler: refresh failed", err, "took", time.Since(start).String())
		return
	}
	appLog.Info("scheduler: refresh done", "took", time.Since(start).String())

	if s.jobs.Capture == nil {
		return
	}
	if err := s.jobs.Capture(ctx); err != nil {
		appLog.Error("scheduler: capture failed", err)
	}
}

// RunRecap runs the recap job once.
func (s *Scheduler) RunRecap(ctx context.Context) {
	if err := s.jobs.Recap(ctx); err != nil {
		appLog.Error("scheduler: recap failed", err)
	}
}
