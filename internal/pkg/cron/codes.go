package cron

import "context"

// CodeSweeper is the slice of the invitation-code service the scheduler
// needs.
type CodeSweeper interface {
	SweepExpired(ctx context.Context) error
}

// CodeJobs contains invitation-code cron jobs.
type CodeJobs struct {
	codes CodeSweeper
}

func NewCodeJobs(codes CodeSweeper) *CodeJobs {
	return &CodeJobs{codes: codes}
}

// RegisterJobs registers the expiry sweep. Expired codes stop being
// usable immediately through query-time checks; the sweep only keeps
// storage tidy.
func (j *CodeJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("sweep_expired_codes", "@every 1h", j.codes.SweepExpired)
}
