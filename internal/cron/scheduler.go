// Package cron runs the analysis passes on configured cron schedules.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"
)

// cronParser parses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow,
)

// Config holds the dependencies for the cron scheduler. A pass with an
// empty expression is disabled.
type Config struct {
	Logger   *slog.Logger
	Interval time.Duration // tick interval; defaults to 1 minute if zero

	Bottlenecks string // cron expression for the bottleneck pass
	Suggestions string // cron expression for the suggestion pass

	RunBottlenecks func(context.Context) error
	RunSuggestions func(context.Context) error
}

// job is one scheduled pass with its next due time.
type job struct {
	name     string
	schedule cronlib.Schedule
	next     time.Time
	run      func(context.Context) error
}

// Scheduler ticks at a fixed interval and fires each pass whose cron
// schedule has come due.
type Scheduler struct {
	logger   *slog.Logger
	interval time.Duration
	jobs     []*job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New parses the configured cron expressions and returns a Scheduler.
// With no expressions configured the scheduler is a no-op.
func New(cfg Config) (*Scheduler, error) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 1 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{logger: logger, interval: interval}

	for _, spec := range []struct {
		name string
		expr string
		run  func(context.Context) error
	}{
		{"bottlenecks", cfg.Bottlenecks, cfg.RunBottlenecks},
		{"suggestions", cfg.Suggestions, cfg.RunSuggestions},
	} {
		if spec.expr == "" {
			continue
		}
		if spec.run == nil {
			return nil, fmt.Errorf("cron: %s schedule configured without a runner", spec.name)
		}
		schedule, err := cronParser.Parse(spec.expr)
		if err != nil {
			return nil, fmt.Errorf("cron: parse %s expression %q: %w", spec.name, spec.expr, err)
		}
		s.jobs = append(s.jobs, &job{name: spec.name, schedule: schedule, run: spec.run})
	}

	return s, nil
}

// Start begins the scheduler loop. It runs in a background goroutine
// and respects the provided context for shutdown.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.jobs) == 0 {
		return
	}
	now := time.Now()
	for _, j := range s.jobs {
		j.next = j.schedule.Next(now)
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	s.logger.Info("cron scheduler started", "jobs", len(s.jobs), "interval", s.interval)
}

// Stop cancels the scheduler loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, time.Now())
		}
	}
}

// tick fires every job whose due time has passed and advances it to the
// next occurrence.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	for _, j := range s.jobs {
		if j.next.After(now) {
			continue
		}
		s.logger.Info("cron: pass due", "job", j.name)
		if err := j.run(ctx); err != nil {
			s.logger.Error("cron: pass failed", "job", j.name, "error", err)
		}
		j.next = j.schedule.Next(now)
	}
}

// NextRunTime parses the cron expression and returns the next run time after the given time.
func NextRunTime(cronExpr string, after time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(after), nil
}
