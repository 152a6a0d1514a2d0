package database

import "time"

// Group represents a chat group under active moderation.
// It records who enabled moderation and when, for status reporting.
type Group struct {
	ChatID    int64     `db:"chat_id"`
	Name      string    `db:"name"`
	EnabledBy int64     `db:"enabled_by"`
	EnabledAt time.Time `db:"enabled_at"`
}

// QueueEntry identifies a single message awaiting batch deletion.
// Entries are attempted exactly once; the queue never retains them
// past the batch run that drained them.
type QueueEntry struct {
	ChatID    int64 `db:"chat_id"`
	MessageID int   `db:"message_id"`
}

// Valid reports whether the entry carries the fields required to
// attempt a deletion. Entries failing this check are dropped on load
// so one corrupt record cannot block the whole queue.
func (e QueueEntry) Valid() bool {
	return e.ChatID != 0 && e.MessageID != 0
}

// Settings holds the process-wide moderation configuration mutated by
// admin commands and persisted after every change.
type Settings struct {
	BatchTime     string `db:"batch_time"`
	Prompt        string `db:"prompt"`
	LLMEndpoint   string `db:"llm_endpoint"`
	LLMModel      string `db:"llm_model"`
	LLMCredential string `db:"llm_credential"`
}
