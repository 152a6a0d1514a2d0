package moderation

import (
	"context"
	"testing"

	"github.com/sweepbot/sweepbot/internal/database"
)

func TestQueueEnqueueOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	queue := NewDeletionQueue(discardLogger(), store)

	entries := []database.QueueEntry{
		{ChatID: 1, MessageID: 100},
		{ChatID: 2, MessageID: 200},
		{ChatID: 1, MessageID: 101},
	}
	for _, e := range entries {
		queue.Enqueue(ctx, e)
	}

	if queue.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", queue.Len())
	}

	snapshot := queue.Snapshot()
	for i, want := range entries {
		if snapshot[i] != want {
			t.Errorf("Snapshot()[%d] = %+v, want %+v", i, snapshot[i], want)
		}
	}

	// Each enqueue rewrites the persisted snapshot in full.
	saved := store.savedQueue()
	if len(saved) != 3 || saved[2] != entries[2] {
		t.Fatalf("store holds %+v, want full queue", saved)
	}
}

func TestQueueDuplicatesKept(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := NewDeletionQueue(discardLogger(), newFakeStore())

	entry := database.QueueEntry{ChatID: 1, MessageID: 100}
	queue.Enqueue(ctx, entry)
	queue.Enqueue(ctx, entry)

	if queue.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 independent entries", queue.Len())
	}
}

func TestQueueDrainAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	queue := NewDeletionQueue(discardLogger(), store)

	queue.Enqueue(ctx, database.QueueEntry{ChatID: 1, MessageID: 100})
	queue.Enqueue(ctx, database.QueueEntry{ChatID: 1, MessageID: 101})

	drained := queue.DrainAndClear(ctx)
	if len(drained) != 2 {
		t.Fatalf("DrainAndClear() returned %d entries, want 2", len(drained))
	}
	if queue.Len() != 0 {
		t.Fatalf("Len() = %d after drain, want 0", queue.Len())
	}
	if saved := store.savedQueue(); len(saved) != 0 {
		t.Fatalf("store holds %+v after drain, want empty", saved)
	}

	// A second drain owns nothing.
	if again := queue.DrainAndClear(ctx); len(again) != 0 {
		t.Fatalf("second DrainAndClear() returned %d entries, want 0", len(again))
	}
}

func TestQueueLoadDropsInvalidEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	store.loadQueueResult = []database.QueueEntry{
		{ChatID: 1, MessageID: 100},
		{ChatID: 0, MessageID: 200},
		{ChatID: 2, MessageID: 0},
		{ChatID: 3, MessageID: 300},
	}

	queue := NewDeletionQueue(discardLogger(), store)
	if err := queue.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	snapshot := queue.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Load() kept %d entries, want 2", len(snapshot))
	}
	if snapshot[0].MessageID != 100 || snapshot[1].MessageID != 300 {
		t.Errorf("Load() kept %+v, want the two valid entries in order", snapshot)
	}
}
