package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BatchResult summarizes one batch deletion run. Succeeded plus Failed
// always equals Drained.
type BatchResult struct {
	Drained   int
	Succeeded int
	Failed    int
}

// BatchProcessor drains the deletion queue and attempts every entry
// exactly once. Failed entries are not re-enqueued: the queue is empty
// after a run regardless of how many attempts failed.
type BatchProcessor struct {
	log      *slog.Logger
	queue    *DeletionQueue
	registry *GroupRegistry
	client   ChatClient

	// delay is the fixed pause between deletion attempts, applied
	// regardless of outcome as rate-limit courtesy to the platform.
	delay time.Duration
	// timeout bounds each individual platform call; expiry counts as
	// attempt failure.
	timeout time.Duration
}

// NewBatchProcessor creates a processor over the given queue, registry,
// and platform client.
func NewBatchProcessor(
	log *slog.Logger,
	queue *DeletionQueue,
	registry *GroupRegistry,
	client ChatClient,
	delay, timeout time.Duration,
) *BatchProcessor {
	return &BatchProcessor{
		log:      log.With("component", "batch_processor"),
		queue:    queue,
		registry: registry,
		client:   client,
		delay:    delay,
		timeout:  timeout,
	}
}

// Run executes one batch deletion pass: drain the queue, notify each
// monitored chat that deletion is starting, attempt every entry in
// drain order, then report per-chat success and failure counts.
// Notifications are best-effort; a failed send is logged only.
func (p *BatchProcessor) Run(ctx context.Context) BatchResult {
	entries := p.queue.DrainAndClear(ctx)
	if len(entries) == 0 {
		p.log.InfoContext(ctx, "Deletion queue empty, nothing to do")
		return BatchResult{}
	}

	pendingByChat := make(map[int64]int)
	for _, entry := range entries {
		pendingByChat[entry.ChatID]++
	}

	for chatID, count := range pendingByChat {
		if !p.registry.IsMonitored(chatID) {
			continue
		}
		p.notify(ctx, chatID, fmt.Sprintf("Starting batch deletion of %d flagged messages.", count))
	}

	result := BatchResult{Drained: len(entries)}
	succeededByChat := make(map[int64]int)
	failedByChat := make(map[int64]int)

	for i, entry := range entries {
		if err := p.deleteOne(ctx, entry.ChatID, entry.MessageID); err != nil {
			result.Failed++
			failedByChat[entry.ChatID]++
			p.log.WarnContext(ctx, "Batch deletion attempt failed",
				"chat_id", entry.ChatID, "message_id", entry.MessageID, "error", err)
		} else {
			result.Succeeded++
			succeededByChat[entry.ChatID]++
			p.log.DebugContext(ctx, "Deleted queued message",
				"chat_id", entry.ChatID, "message_id", entry.MessageID)
		}

		if i < len(entries)-1 {
			p.pause(ctx)
		}
	}

	for chatID := range pendingByChat {
		if !p.registry.IsMonitored(chatID) {
			continue
		}
		p.notify(ctx, chatID, fmt.Sprintf(
			"Batch deletion finished: %d deleted, %d failed.",
			succeededByChat[chatID], failedByChat[chatID]))
	}

	p.log.InfoContext(ctx, "Batch deletion run complete",
		"drained", result.Drained, "deleted", result.Succeeded, "failed", result.Failed)
	return result
}

func (p *BatchProcessor) deleteOne(ctx context.Context, chatID int64, messageID int) error {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.DeleteMessage(callCtx, chatID, messageID)
}

func (p *BatchProcessor) notify(ctx context.Context, chatID int64, text string) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.client.SendMessage(callCtx, chatID, text); err != nil {
		p.log.WarnContext(ctx, "Failed to send batch notification", "chat_id", chatID, "error", err)
	}
}

func (p *BatchProcessor) pause(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
	}
}
