package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatusHandler returns a handler for the /status command.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	now := h.deps.Clock.Now().In(h.deps.Location)

	var text string
	if group, ok := h.deps.Registry.Get(chatID); ok {
		text = fmt.Sprintf(
			"This group is being moderated.\nMonitored since: %s\nPending batch deletions: %d\nDaily batch time: %s\nCurrent time: %s",
			group.EnabledAt.In(h.deps.Location).Format("2006-01-02 15:04:05"),
			h.deps.Queue.Len(),
			h.deps.Settings.BatchTime().String(),
			now.Format("2006-01-02 15:04:05"),
		)
	} else {
		text = msgNotMonitored
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send status reply", "error", err, "chat_id", chatID)
	}
}
