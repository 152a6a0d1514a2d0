package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sweepbot/sweepbot/internal/database"
	"github.com/sweepbot/sweepbot/internal/moderation"
)

// NewDispatchHandler returns the default update handler. It routes
// named reaction updates, anonymous reaction-count updates, and plain
// text messages to the moderation engine; everything else is ignored.
func NewDispatchHandler(deps HandlerDeps) bot.HandlerFunc {
	h := dispatchHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		switch {
		case update.MessageReaction != nil:
			h.handleReaction(ctx, update.MessageReaction)
		case update.MessageReactionCount != nil:
			h.handleReactionCount(ctx, update.MessageReactionCount)
		case update.Message != nil:
			h.handleMessage(ctx, update.Message)
		}
	}
}

type dispatchHandler struct {
	deps HandlerDeps
}

// handleReaction processes a named (attributed) reaction update.
func (h dispatchHandler) handleReaction(ctx context.Context, reaction *models.MessageReactionUpdated) {
	counts := make(map[string]int)
	for _, r := range reaction.NewReaction {
		if r.ReactionTypeEmoji != nil {
			counts[r.ReactionTypeEmoji.Emoji]++
		}
	}

	h.applyVerdict(ctx, moderation.ReactionEvent{
		ChatID:      reaction.Chat.ID,
		MessageID:   reaction.MessageID,
		EmojiCounts: counts,
		Anonymous:   false,
	})
}

// handleReactionCount processes an anonymous aggregate reaction-count
// update. Counts arrive pre-aggregated and cannot be tracked across
// updates, so the verdict acts on totals alone.
func (h dispatchHandler) handleReactionCount(ctx context.Context, reactionCount *models.MessageReactionCountUpdated) {
	counts := make(map[string]int)
	for _, rc := range reactionCount.Reactions {
		if rc.Type.ReactionTypeEmoji != nil {
			counts[rc.Type.ReactionTypeEmoji.Emoji] = rc.TotalCount
		}
	}

	h.applyVerdict(ctx, moderation.ReactionEvent{
		ChatID:      reactionCount.Chat.ID,
		MessageID:   reactionCount.MessageID,
		EmojiCounts: counts,
		Anonymous:   true,
	})
}

func (h dispatchHandler) applyVerdict(ctx context.Context, event moderation.ReactionEvent) {
	log := h.deps.Logger.With("handler", "reaction", "chat_id", event.ChatID, "message_id", event.MessageID)

	verdict := h.deps.Classifier.Classify(event)
	if verdict == moderation.VerdictIgnore {
		return
	}
	log.InfoContext(ctx, "Reaction verdict", "verdict", verdict.String(), "anonymous", event.Anonymous)

	switch verdict {
	case moderation.VerdictImmediateDelete:
		callCtx, cancel := h.deps.callCtx(ctx)
		err := h.deps.Chat.DeleteMessage(callCtx, event.ChatID, event.MessageID)
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to delete message", "error", err)
			return
		}
		log.InfoContext(ctx, "Deleted message on reaction verdict")
		h.notify(ctx, event.ChatID)
	case moderation.VerdictQueueDelete:
		h.deps.Queue.Enqueue(ctx, database.QueueEntry{
			ChatID:    event.ChatID,
			MessageID: event.MessageID,
		})
	}
}

// handleMessage runs the content-classification path on plain text
// messages in monitored groups. Classification errors are fail-open:
// the message is treated as KEEP.
func (h dispatchHandler) handleMessage(ctx context.Context, message *models.Message) {
	if !h.deps.Registry.IsMonitored(message.Chat.ID) {
		return
	}
	text := message.Text
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}
	prompt := h.deps.Settings.Prompt()
	if prompt == "" {
		return
	}

	log := h.deps.Logger.With("handler", "content", "chat_id", message.Chat.ID, "message_id", message.ID)

	callCtx, cancel := h.deps.callCtx(ctx)
	verdict, err := h.deps.LLM.Classify(callCtx, prompt, text)
	cancel()
	if err != nil {
		log.WarnContext(ctx, "Content classification failed, keeping message", "error", err)
		return
	}
	if verdict != moderation.ContentDelete {
		return
	}

	log.InfoContext(ctx, "Message flagged by content classifier")
	h.deps.Queue.Enqueue(ctx, database.QueueEntry{
		ChatID:    message.Chat.ID,
		MessageID: message.ID,
	})

	// Cosmetic marker only; a failure here never escalates.
	callCtx, cancel = h.deps.callCtx(ctx)
	if err := h.deps.Chat.ReactToMessage(callCtx, message.Chat.ID, message.ID, flagEmoji); err != nil {
		log.WarnContext(ctx, "Failed to apply flag reaction", "error", err)
	}
	cancel()
}

func (h dispatchHandler) notify(ctx context.Context, chatID int64) {
	callCtx, cancel := h.deps.callCtx(ctx)
	defer cancel()
	if err := h.deps.Chat.SendMessage(callCtx, chatID, msgMessageRemoved); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to send removal notice", "chat_id", chatID, "error", err)
	}
}
