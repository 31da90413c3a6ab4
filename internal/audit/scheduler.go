package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the auditor on a cron spec (with a seconds field).
type Scheduler struct {
	auditor *Auditor
	spec    string
	cron    *cron.Cron
}

func NewScheduler(auditor *Auditor, spec string) *Scheduler {
	return &Scheduler{auditor: auditor, spec: spec}
}

// Start registers the cron entry and starts the scheduler.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.auditor.Run(ctx); err != nil {
			slog.Error("cart orphan audit failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	slog.Info("cart orphan audit scheduled", slog.String("spec", s.spec))
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the scheduler; running jobs finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
