package cron

import (
	"context"
	"fmt"
	"time"

	"medication-adherence/internal/domain/reminders"
	"medication-adherence/internal/platform/logger"

	robfig "github.com/robfig/cron/v3"
)

// Scheduler implementa reminders.Scheduler sobre robfig/cron con specs diarias "M H * * *".
type Scheduler struct {
	c   *robfig.Cron
	log logger.Logger
}

type Options struct {
	Location *time.Location // default time.Local
	Logger   logger.Logger
}

func New(opts Options) *Scheduler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "cron"})

	cl := cronLogger{log: log}
	return &Scheduler{
		c: robfig.New(
			robfig.WithLocation(loc),
			robfig.WithLogger(cl),
			robfig.WithChain(robfig.Recover(cl)),
		),
		log: log,
	}
}

var _ reminders.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) Every(at reminders.Clock, job func()) error {
	if job == nil {
		return fmt.Errorf("cron: nil job for %s", at.String())
	}
	if _, err := s.c.AddFunc(at.CronSpec(), job); err != nil {
		return fmt.Errorf("cron: add %q: %w", at.CronSpec(), err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.c.Start()
	s.log.Info("cron scheduler started", map[string]any{"entries": s.Len()})
}

// Stop detiene el cron y espera a los jobs en curso hasta que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.c.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) Len() int {
	return len(s.c.Entries())
}

// cronLogger adapta logger.Logger a robfig.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kv(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kv(keysAndValues)
	fields["error"] = err
	l.log.Error(msg, fields)
}

func kv(keysAndValues []interface{}) map[string]any {
	out := map[string]any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		k, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out[k] = keysAndValues[i+1]
	}
	return out
}
