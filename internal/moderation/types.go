// Package moderation implements the moderation decision engine and
// deletion scheduler: reaction classification, the monitored-group
// registry, the durable deletion queue, the self-rescheduling batch
// job, and the permission sweep.
package moderation

import "context"

// Verdict is the outcome of classifying a moderation event.
type Verdict int

const (
	// VerdictIgnore means the event requires no action.
	VerdictIgnore Verdict = iota
	// VerdictQueueDelete means the message is queued for the next batch run.
	VerdictQueueDelete
	// VerdictImmediateDelete means the message is deleted right away.
	VerdictImmediateDelete
)

func (v Verdict) String() string {
	switch v {
	case VerdictQueueDelete:
		return "queue_delete"
	case VerdictImmediateDelete:
		return "immediate_delete"
	default:
		return "ignore"
	}
}

// Permission is the platform's answer to a delete-capability query.
type Permission int

const (
	// PermissionDenied means the bot cannot delete messages in the chat.
	PermissionDenied Permission = iota
	// PermissionGranted means the bot can delete messages in the chat.
	PermissionGranted
)

// ReactionEvent is a normalized reaction or reaction-count update.
// Anonymous marks pre-aggregated count updates without per-user
// attribution.
type ReactionEvent struct {
	ChatID      int64
	MessageID   int
	EmojiCounts map[string]int
	Anonymous   bool
}

// ChatClient is the chat-platform collaborator the engine depends on.
// SendMessage and ReactToMessage are best-effort: callers log failures
// and move on.
type ChatClient interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	ReactToMessage(ctx context.Context, chatID int64, messageID int, emoji string) error
	// DeletePermission reports whether the bot currently holds
	// delete-message capability in the chat. An error means the query
	// itself failed, which callers treat as capability lost.
	DeletePermission(ctx context.Context, chatID int64) (Permission, error)
}

// ContentVerdict is the classification collaborator's answer for a
// message text.
type ContentVerdict string

const (
	// ContentDelete means the message should be queued for deletion.
	ContentDelete ContentVerdict = "DELETE"
	// ContentKeep means the message is acceptable.
	ContentKeep ContentVerdict = "KEEP"
)

// ContentClassifier is the language-model collaborator. Classification
// errors are fail-open: callers treat them as ContentKeep.
type ContentClassifier interface {
	Classify(ctx context.Context, prompt, text string) (ContentVerdict, error)
}
