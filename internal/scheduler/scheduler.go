// Package scheduler re-runs blocking-debugger jobs on a cron schedule —
// an operational concern a library call never needs but a long-running
// debugging service does, since the candidate set a blocker emits tends to
// drift as the underlying tables change.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"blockdebug/internal/httpapi"
)

// Job is one periodically re-submitted debug-blocker request.
type Job struct {
	Name    string
	Cron    string
	Request httpapi.RunRequest
}

// Scheduler wraps a cron.Cron, triggering a RunLauncher for every
// configured Job on its own schedule.
type Scheduler struct {
	cron    *cron.Cron
	runner  httpapi.RunLauncher
	jobs    []Job
	logger  *slog.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New constructs a Scheduler over a fixed set of jobs. Unlike a
// database-backed job registry, jobs are supplied once at startup; adding or
// removing one requires a restart.
func New(runner httpapi.RunLauncher, jobs []Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		runner:  runner,
		jobs:    jobs,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers every job's cron entry and starts the underlying
// scheduler. An invalid cron expression is logged and skipped rather than
// failing the whole start, so one bad job never blocks the rest.
func (s *Scheduler) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		job := job
		entryID, err := s.cron.AddFunc(job.Cron, func() {
			ctx := context.Background()
			result, err := s.runner.Launch(ctx, job.Request)
			if err != nil {
				s.logger.Warn("scheduled run failed", "job", job.Name, "error", err)
				return
			}
			s.logger.Info("scheduled run completed", "job", job.Name, "run_id", result.ID, "pairs", len(result.Pairs))
		})
		if err != nil {
			s.logger.Warn("invalid cron schedule", "job", job.Name, "schedule", job.Cron, "error", err)
			continue
		}
		s.entries[job.Name] = entryID
		s.logger.Info("scheduled job", "job", job.Name, "schedule", job.Cron)
	}

	s.cron.Start()
	return nil
}

// Stop gracefully stops the scheduler, waiting for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
