package cron

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCron schedules every registered job and starts the scheduler.
// overrides replaces the schedule of a job by name. Jobs run with ctx, skip
// a tick while a previous run is still going and recover from panics.
func StartCron(ctx context.Context, log *zap.Logger, overrides map[string]string) (*cron.Cron, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	c := cron.New(cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)))

	for name, j := range Jobs() {
		name, run := name, j.Run
		sched := j.Schedule
		if s, ok := overrides[name]; ok && s != "" {
			sched = s
		}
		_, err := c.AddFunc(sched, func() {
			if err := run(ctx); err != nil {
				log.Error("cron job failed", zap.String("job", name), zap.Error(err))
				return
			}
			log.Debug("cron job done", zap.String("job", name))
		})
		if err != nil {
			return nil, fmt.Errorf("cron: register job %s: %w", name, err)
		}
		log.Info("cron job scheduled", zap.String("job", name), zap.String("schedule", sched))
	}
	c.Start()
	return c, nil
}
