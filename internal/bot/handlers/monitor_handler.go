package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sweepbot/sweepbot/internal/database"
	"github.com/sweepbot/sweepbot/internal/moderation"
)

// NewMonitorHandler returns a handler for the /monitor command. It
// verifies the bot's delete capability before registering the group;
// enabling is rejected when the capability is absent or unverifiable.
func NewMonitorHandler(deps HandlerDeps) bot.HandlerFunc {
	return monitorHandler{deps}.Handle
}

type monitorHandler struct {
	deps HandlerDeps
}

func (h monitorHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "monitor")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Monitor handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chat := update.Message.Chat
	userID := update.Message.From.ID

	if chat.Type != models.ChatTypeGroup && chat.Type != models.ChatTypeSupergroup {
		h.reply(ctx, b, chat.ID, msgGroupsOnly)
		return
	}

	callCtx, cancel := h.deps.callCtx(ctx)
	permission, err := h.deps.Chat.DeletePermission(callCtx, chat.ID)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to verify delete permission", "chat_id", chat.ID, "error", err)
		h.reply(ctx, b, chat.ID, msgPermissionErr)
		return
	}
	if permission != moderation.PermissionGranted {
		log.InfoContext(ctx, "Enable rejected, no delete permission", "chat_id", chat.ID)
		h.reply(ctx, b, chat.ID, msgNeedPermission)
		return
	}

	h.deps.Registry.Enable(ctx, database.Group{
		ChatID:    chat.ID,
		Name:      chat.Title,
		EnabledBy: userID,
		EnabledAt: h.deps.Clock.Now().In(h.deps.Location),
	})
	h.reply(ctx, b, chat.ID, msgMonitorStarted)
}

func (h monitorHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send monitor reply", "error", err, "chat_id", chatID)
	}
}
