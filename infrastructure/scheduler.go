package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs periodic tasks. Overlapping runs of the same task are skipped
// and panics are recovered.
type Scheduler struct {
	cron    *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewScheduler(log logrus.FieldLogger, timeout time.Duration) *Scheduler {
	log = log.WithField("component", "scheduler")
	logger := cron.PrintfLogger(log)
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		log:     log,
		timeout: timeout,
	}
}

// Add registers task under a cron spec such as "*/5 * * * *" or "@every 15m".
func (s *Scheduler) Add(name, spec string, task func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := task(ctx); err != nil {
			s.log.WithError(err).WithField("task", name).Error("Scheduled task failed")
			return
		}
		s.log.WithFields(logrus.Fields{"task": name, "took": time.Since(start)}).Debug("Scheduled task done")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for running tasks to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
