// Package scheduler runs the periodic debt reminder job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds a single reminder run
const jobTimeout = 10 * time.Minute

// Notifier sends the reminder emails and reports how many went out
type Notifier interface {
	SendDebtReminders(ctx context.Context) (int, error)
}

// Scheduler triggers debt reminders on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifier
	log      *logrus.Logger
}

// New registers the reminder job for a standard five-field cron expression
func New(schedule string, notifier Notifier, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		notifier: notifier,
		log:      log,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Infof("Debt reminder scheduler started, next run at %s", e.Next.Format(time.RFC3339))
	}
}

// Stop prevents new runs and waits for a running job up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Debt reminder job still running at shutdown")
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	sent, err := s.notifier.SendDebtReminders(ctx)
	entry := s.log.WithFields(logrus.Fields{
		"sent":        sent,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.Errorf("Debt reminder run finished with errors: %v", err)
		return
	}
	entry.Info("Debt reminder run finished")
}
