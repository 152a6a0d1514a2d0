package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    TimeOfDay
		wantErr bool
	}{
		{value: "00:00", want: TimeOfDay{}},
		{value: "03:00", want: TimeOfDay{Hour: 3}},
		{value: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{value: "3:00", want: TimeOfDay{Hour: 3}},
		{value: "24:00", wantErr: true},
		{value: "12:60", wantErr: true},
		{value: "12:00:00", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) accepted invalid input", tc.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) error: %v", tc.value, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func newTestScheduler(t *testing.T, now time.Time, batchTime func() TimeOfDay, run func(ctx context.Context)) *BatchScheduler {
	t.Helper()
	if run == nil {
		run = func(context.Context) {}
	}
	s, err := NewBatchScheduler(discardLogger(), clockwork.NewFakeClockAt(now), time.UTC, batchTime, run)
	if err != nil {
		t.Fatalf("NewBatchScheduler() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestNextRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 10, 30, 0, 0, time.UTC)
	batchTime := func() TimeOfDay { return TimeOfDay{Hour: 3} }

	tests := []struct {
		name string
		tod  TimeOfDay
		want time.Time
	}{
		{
			name: "later today",
			tod:  TimeOfDay{Hour: 10, Minute: 31},
			want: time.Date(2025, time.March, 10, 10, 31, 0, 0, time.UTC),
		},
		{
			name: "already passed today",
			tod:  TimeOfDay{Hour: 10, Minute: 29},
			want: time.Date(2025, time.March, 11, 10, 29, 0, 0, time.UTC),
		},
		{
			name: "exactly now rolls to tomorrow",
			tod:  TimeOfDay{Hour: 10, Minute: 30},
			want: time.Date(2025, time.March, 11, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "midnight",
			tod:  TimeOfDay{},
			want: time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	scheduler := newTestScheduler(t, now, batchTime, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scheduler.NextRun(tc.tod)
			if !got.Equal(tc.want) {
				t.Errorf("NextRun(%v) = %v, want %v", tc.tod, got, tc.want)
			}
			if !got.After(now) {
				t.Errorf("NextRun(%v) = %v is not strictly after now %v", tc.tod, got, now)
			}
		})
	}
}

func TestRescheduleKeepsSingleJob(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(t, now, func() TimeOfDay { return TimeOfDay{Hour: 3} }, nil)

	if err := scheduler.Reschedule(TimeOfDay{Hour: 3}); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}
	if err := scheduler.Reschedule(TimeOfDay{Hour: 4}); err != nil {
		t.Fatalf("second Reschedule() error: %v", err)
	}
	if err := scheduler.Reschedule(TimeOfDay{Hour: 5}); err != nil {
		t.Fatalf("third Reschedule() error: %v", err)
	}

	if jobs := scheduler.scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("scheduler holds %d job handles after repeated reschedules, want 1", len(jobs))
	}
}

func TestFireRunsAndRearms(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 3, 0, 0, 0, time.UTC)
	ran := 0
	scheduler := newTestScheduler(t, now, func() TimeOfDay { return TimeOfDay{Hour: 3} }, func(context.Context) { ran++ })

	scheduler.fire(context.Background())

	if ran != 1 {
		t.Fatalf("batch run invoked %d times, want 1", ran)
	}
	if jobs := scheduler.scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("scheduler holds %d job handles after run, want a re-armed job", len(jobs))
	}
}

func TestFireRearmsAfterPanic(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 3, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(t, now, func() TimeOfDay { return TimeOfDay{Hour: 3} }, func(context.Context) {
		panic("boom")
	})

	scheduler.fire(context.Background())

	if jobs := scheduler.scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("scheduler holds %d job handles after panicking run, want a re-armed job", len(jobs))
	}
}
