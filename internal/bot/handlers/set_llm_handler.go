package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetLLMHandler returns a handler for the admin-only /setllm
// command. The classification client is rebuilt before the settings
// are persisted; a rebuild failure mutates nothing.
func NewSetLLMHandler(deps HandlerDeps) bot.HandlerFunc {
	return setLLMHandler{deps}.Handle
}

type setLLMHandler struct {
	deps HandlerDeps
}

func (h setLLMHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_llm")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set LLM handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) != 4 {
		h.reply(ctx, b, chatID, msgSetLLMUsage)
		return
	}
	endpoint, model, credential := args[1], args[2], args[3]

	if err := h.deps.LLM.Configure(ctx, endpoint, model, credential); err != nil {
		log.ErrorContext(ctx, "Failed to configure classification client", "endpoint", endpoint, "model", model, "error", err)
		h.reply(ctx, b, chatID, fmt.Sprintf("Could not configure the classification endpoint: %v", err))
		return
	}

	h.deps.Settings.SetLLM(ctx, endpoint, model, credential)
	h.reply(ctx, b, chatID, fmt.Sprintf("Classification endpoint set to %s (model %s).", endpoint, model))
}

func (h setLLMHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send set LLM reply", "error", err, "chat_id", chatID)
	}
}
