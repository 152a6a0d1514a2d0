package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetPromptHandler returns a handler for the admin-only /setprompt
// command. An empty prompt disables content classification.
func NewSetPromptHandler(deps HandlerDeps) bot.HandlerFunc {
	return setPromptHandler{deps}.Handle
}

type setPromptHandler struct {
	deps HandlerDeps
}

func (h setPromptHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_prompt")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set prompt handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	_, prompt, _ := strings.Cut(update.Message.Text, " ")
	prompt = strings.TrimSpace(prompt)

	h.deps.Settings.SetPrompt(ctx, prompt)

	text := msgSetPromptCleared
	if prompt != "" {
		text = "Classification prompt updated; content classification is enabled."
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send set prompt reply", "error", err, "chat_id", chatID)
	}
}
