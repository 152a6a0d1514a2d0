package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// TimeOfDay is a civil wall-clock time of day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour "HH:MM" time of day string.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, expected HH:MM: %w", value, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// BatchScheduler arms a single one-shot job for the next batch run and
// re-arms itself after every run. At most one job handle is ever
// outstanding: rescheduling cancels the previous handle before arming
// a new one. A one-shot chain is used instead of a periodic job so each
// re-arm reads the currently configured run time rather than a value
// captured at startup.
type BatchScheduler struct {
	log       *slog.Logger
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	location  *time.Location
	batchTime func() TimeOfDay
	run       func(ctx context.Context)

	mu  sync.Mutex
	job gocron.Job
}

// NewBatchScheduler creates a stopped scheduler. batchTime is consulted
// at every re-arm; run is invoked synchronously when the job fires.
func NewBatchScheduler(
	log *slog.Logger,
	clock clockwork.Clock,
	location *time.Location,
	batchTime func() TimeOfDay,
	run func(ctx context.Context),
) (*BatchScheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &BatchScheduler{
		log:       log.With("component", "batch_scheduler"),
		scheduler: s,
		clock:     clock,
		location:  location,
		batchTime: batchTime,
		run:       run,
	}, nil
}

// Start begins the scheduler's internal ticking. Reschedule must be
// called separately to arm the first run.
func (s *BatchScheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running job to finish.
// An in-flight batch run is never cancelled mid-way.
func (s *BatchScheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

// NextRun computes the next absolute run instant for the given time of
// day: today at that time if still strictly in the future, otherwise
// tomorrow. The result is always strictly after the current clock time.
func (s *BatchScheduler) NextRun(tod TimeOfDay) time.Time {
	now := s.clock.Now().In(s.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour, tod.Minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Reschedule cancels any outstanding job handle and arms a new one for
// the next occurrence of tod. An arming failure leaves no job pending
// and must be treated as fatal to the moderation subsystem by the
// caller.
func (s *BatchScheduler) Reschedule(tod TimeOfDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil {
		if err := s.scheduler.RemoveJob(s.job.ID()); err != nil {
			// The job may have already fired and been collected.
			s.log.Debug("Could not remove previous batch job", "error", err)
		}
		s.job = nil
	}

	next := s.NextRun(tod)
	job, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(next)),
		gocron.NewTask(s.fire, context.Background()),
		gocron.WithName("batch_deletion"),
	)
	if err != nil {
		return fmt.Errorf("failed to arm batch job for %s: %w", next, err)
	}

	s.job = job
	s.log.Info("Batch deletion run armed", "next_run", next, "batch_time", tod.String())
	return nil
}

// fire runs one batch cycle and re-arms for the following one. The
// re-arm happens even when the run panics; a single failed run must
// never silently stop future runs.
func (s *BatchScheduler) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Batch run panicked", "panic", r)
		}
		if err := s.Reschedule(s.batchTime()); err != nil {
			s.log.Error("Failed to re-arm batch job after run", "error", err)
		}
	}()

	s.log.Info("Batch deletion run starting")
	start := s.clock.Now()
	s.run(ctx)
	s.log.Info("Batch deletion run finished", "duration", s.clock.Since(start))
}
