package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStopMonitorHandler returns a handler for the /stopmonitor command.
// Disabling an unmonitored group is a no-op that just reports so.
func NewStopMonitorHandler(deps HandlerDeps) bot.HandlerFunc {
	return stopMonitorHandler{deps}.Handle
}

type stopMonitorHandler struct {
	deps HandlerDeps
}

func (h stopMonitorHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stop_monitor")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Stop monitor handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	text := msgMonitorStopped
	if !h.deps.Registry.Disable(ctx, chatID) {
		text = msgNotMonitored
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send stop monitor reply", "error", err, "chat_id", chatID)
	}
}
