package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sweepbot/sweepbot/internal/moderation"
)

// Client adapts a go-telegram/bot instance to the moderation.ChatClient
// contract. botID is the bot's own user ID, needed for capability
// queries.
type Client struct {
	bot   *bot.Bot
	botID int64
	log   *slog.Logger
}

// NewClient wraps the given bot instance.
func NewClient(b *bot.Bot, botID int64, logger *slog.Logger) *Client {
	return &Client{
		bot:   b,
		botID: botID,
		log:   logger.With("component", "telegram_client"),
	}
}

// DeleteMessage removes a message from a chat.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	ok, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined to delete message %d in chat %d", messageID, chatID)
	}
	return nil
}

// SendMessage sends a plain-text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// ReactToMessage applies a single emoji reaction to a message.
func (c *Client) ReactToMessage(ctx context.Context, chatID int64, messageID int, emoji string) error {
	_, err := c.bot.SetMessageReaction(ctx, &bot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Reaction: []models.ReactionType{
			{
				Type: models.ReactionTypeTypeEmoji,
				ReactionTypeEmoji: &models.ReactionTypeEmoji{
					Type:  "emoji",
					Emoji: emoji,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to react to message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// DeletePermission queries whether the bot can delete messages in the
// chat. Owners always can; administrators only with the explicit
// can_delete_messages right; everyone else cannot.
func (c *Client) DeletePermission(ctx context.Context, chatID int64) (moderation.Permission, error) {
	member, err := c.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: c.botID,
	})
	if err != nil {
		return moderation.PermissionDenied, fmt.Errorf("failed to query chat member in chat %d: %w", chatID, err)
	}
	if member == nil {
		return moderation.PermissionDenied, fmt.Errorf("empty chat member response for chat %d", chatID)
	}

	switch {
	case member.Owner != nil:
		return moderation.PermissionGranted, nil
	case member.Administrator != nil && member.Administrator.CanDeleteMessages:
		return moderation.PermissionGranted, nil
	default:
		return moderation.PermissionDenied, nil
	}
}
