package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const defaultInterval = 5 * time.Minute

// Scheduler runs source probes periodically.
type Scheduler struct {
	scheduler gocron.Scheduler
	prober    *Prober
	interval  time.Duration
}

// Config holds scheduler configuration.
type Config struct {
	Prober   *Prober
	Interval time.Duration
	Clock    clockwork.Clock
}

// New creates a new scheduler.
func New(cfg Config) (*Scheduler, error) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	var opts []gocron.SchedulerOption
	if cfg.Clock != nil {
		opts = append(opts, gocron.WithClock(cfg.Clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		prober:    cfg.Prober,
		interval:  interval,
	}, nil
}

// Start registers the probe job, runs it once immediately and starts the
// scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.prober.ProbeAll(ctx)
		}),
		gocron.WithName("source-probes"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register probe job: %w", err)
	}

	slog.Info("starting probe scheduler", "interval", s.interval)
	s.scheduler.Start()
	return nil
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	slog.Info("probe scheduler shutting down")
	if err := s.Shutdown(); err != nil {
		return err
	}
	return ctx.Err()
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
