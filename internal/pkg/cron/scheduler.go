package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron with logging and context-aware jobs.
type Scheduler struct {
	cron *cron.Cron
	jobs []job
}

type job struct {
	name string
	spec string
	fn   func(ctx context.Context) error
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

// AddJob registers a job with a cron spec (e.g. "@every 1h").
func (s *Scheduler) AddJob(name string, spec string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		slog.Debug("Cron job starting", "name", name)

		if err := fn(context.Background()); err != nil {
			slog.Error("Cron job failed", "name", name, "error", err, "duration", time.Since(start))
			return
		}
		slog.Debug("Cron job completed", "name", name, "duration", time.Since(start))
	})
	if err != nil {
		return err
	}

	s.jobs = append(s.jobs, job{name: name, spec: spec, fn: fn})
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Start begins running all scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

// RunOnce runs all jobs once (useful for testing).
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		if err := j.fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", j.name, "error", err)
		}
	}
}
