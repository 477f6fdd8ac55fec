package dashboard

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a periodic job that can be stopped on its own.
type Task interface {
	Stop()
}

// Scheduler runs fn every d until the returned Task is stopped.
type Scheduler interface {
	Every(d time.Duration, fn func()) (Task, error)
}

// CronScheduler schedules tasks as robfig/cron entries. Each task is its
// own entry, so stopping one never affects the other.
type CronScheduler struct {
	cron *cron.Cron
}

// NewCronScheduler creates and starts a cron-backed scheduler. A run that
// is still executing when its next tick arrives causes that tick to be skipped.
func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	c.Start()
	return &CronScheduler{cron: c}
}

// Every schedules fn at a fixed period. Periods under a second are rounded
// up to one second.
func (s *CronScheduler) Every(d time.Duration, fn func()) (Task, error) {
	if d <= 0 {
		return nil, fmt.Errorf("invalid period %s", d)
	}
	id := s.cron.Schedule(cron.Every(d), cron.FuncJob(fn))
	return &cronTask{cron: s.cron, id: id}, nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

type cronTask struct {
	cron *cron.Cron
	id   cron.EntryID
}

func (t *cronTask) Stop() {
	t.cron.Remove(t.id)
}
