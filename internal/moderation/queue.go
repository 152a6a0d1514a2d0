package moderation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sweepbot/sweepbot/internal/database"
)

// DeletionQueue is the durable, append-only work list of messages
// awaiting batch deletion. Entries live until a batch run drains them;
// once drained they are owned by the caller for exactly one attempt
// and are never re-enqueued, win or lose. Duplicate entries for the
// same message may exist and are each attempted independently.
//
// Every mutation rewrites the full persisted queue snapshot. A failed
// write is logged and the in-memory queue stays authoritative.
type DeletionQueue struct {
	log   *slog.Logger
	store database.Store

	mu      sync.Mutex
	entries []database.QueueEntry
}

// NewDeletionQueue creates an empty queue backed by the given store.
func NewDeletionQueue(log *slog.Logger, store database.Store) *DeletionQueue {
	return &DeletionQueue{
		log:   log.With("component", "deletion_queue"),
		store: store,
	}
}

// Load restores the queue from the store, dropping entries that fail
// the structural validity check so one corrupt record cannot block the
// whole queue. Called once at startup.
func (q *DeletionQueue) Load(ctx context.Context) error {
	entries, err := q.store.LoadQueue(ctx)
	if err != nil {
		return err
	}

	valid := make([]database.QueueEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Valid() {
			q.log.WarnContext(ctx, "Dropping invalid deletion queue entry",
				"chat_id", entry.ChatID, "message_id", entry.MessageID)
			continue
		}
		valid = append(valid, entry)
	}

	q.mu.Lock()
	q.entries = valid
	q.mu.Unlock()

	q.log.Info("Loaded deletion queue", "pending", len(valid), "dropped", len(entries)-len(valid))
	return nil
}

// Enqueue appends an entry and persists the full queue snapshot.
func (q *DeletionQueue) Enqueue(ctx context.Context, entry database.QueueEntry) {
	q.mu.Lock()
	q.entries = append(q.entries, entry)
	snapshot := append([]database.QueueEntry(nil), q.entries...)
	q.mu.Unlock()

	q.log.InfoContext(ctx, "Message queued for batch deletion",
		"chat_id", entry.ChatID, "message_id", entry.MessageID, "pending", len(snapshot))
	q.persist(ctx, snapshot)
}

// Snapshot returns the pending entries in insertion order.
func (q *DeletionQueue) Snapshot() []database.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]database.QueueEntry(nil), q.entries...)
}

// Len returns the number of pending entries.
func (q *DeletionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// DrainAndClear atomically returns the current contents and empties
// the queue, persisting the empty state. The returned entries are
// owned by the caller for exactly one deletion attempt; the queue does
// not retain them even if the attempt later fails. Retrying a
// now-impossible deletion forever would grow the queue without bound,
// so the occasional un-deletable message is left permanently un-queued
// instead.
func (q *DeletionQueue) DrainAndClear(ctx context.Context) []database.QueueEntry {
	q.mu.Lock()
	drained := q.entries
	q.entries = nil
	q.mu.Unlock()

	q.persist(ctx, nil)
	return drained
}

func (q *DeletionQueue) persist(ctx context.Context, snapshot []database.QueueEntry) {
	if err := q.store.ReplaceQueue(ctx, snapshot); err != nil {
		q.log.ErrorContext(ctx, "Failed to persist deletion queue", "error", err)
	}
}
