package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSweepNowHandler returns a handler for the /sweepnow command,
// which runs the batch deletion pass immediately. The scheduled daily
// run stays armed; it will simply find an empty queue.
func NewSweepNowHandler(deps HandlerDeps) bot.HandlerFunc {
	return sweepNowHandler{deps}.Handle
}

type sweepNowHandler struct {
	deps HandlerDeps
}

func (h sweepNowHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "sweep_now")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Sweep now handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Manual batch deletion requested", "chat_id", chatID, "user_id", update.Message.From.ID)

	result := h.deps.Processor.Run(ctx)

	text := "The deletion queue is empty."
	if result.Drained > 0 {
		text = fmt.Sprintf("Batch deletion finished: %d deleted, %d failed.", result.Succeeded, result.Failed)
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send sweep reply", "error", err, "chat_id", chatID)
	}
}
