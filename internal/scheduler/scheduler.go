package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is an in-process task fired on a cron schedule.
type Job func(ctx context.Context)

// Scheduler runs jobs on standard 5-field cron expressions.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Add registers a job. The expression is validated up front so a bad
// schedule fails at startup, not silently at runtime.
func (s *Scheduler) Add(schedule, name string, job Job) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug("scheduled job firing", zap.String("job", name))
		job(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.log.Info("job scheduled", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

// Start begins firing jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
