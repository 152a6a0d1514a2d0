package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetTimeHandler returns a handler for the /settime command. A
// malformed time is rejected synchronously without mutating anything.
func NewSetTimeHandler(deps HandlerDeps) bot.HandlerFunc {
	return setTimeHandler{deps}.Handle
}

type setTimeHandler struct {
	deps HandlerDeps
}

func (h setTimeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_time")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set time handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) != 2 {
		h.reply(ctx, b, chatID, msgBadTimeFormat)
		return
	}

	tod, err := h.deps.Settings.SetBatchTime(ctx, args[1])
	if err != nil {
		log.InfoContext(ctx, "Rejected batch time", "input", args[1], "error", err)
		h.reply(ctx, b, chatID, msgBadTimeFormat)
		return
	}

	if err := h.deps.Scheduler.Reschedule(tod); err != nil {
		// Arming failure means no batch run is pending; surface it.
		log.ErrorContext(ctx, "Failed to reschedule batch run", "batch_time", tod.String(), "error", err)
		h.reply(ctx, b, chatID, "The new time was saved but scheduling failed. Contact the operator.")
		return
	}

	next := h.deps.Scheduler.NextRun(tod)
	h.reply(ctx, b, chatID, fmt.Sprintf(
		"Daily batch deletion time set to %s. Next run: %s",
		tod.String(), next.Format("2006-01-02 15:04")))
}

func (h setTimeHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send set time reply", "error", err, "chat_id", chatID)
	}
}
