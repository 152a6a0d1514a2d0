// Package bot implements the core bot lifecycle and component
// orchestration for sweepbot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/sweepbot/sweepbot/internal/moderation"
)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	settings  *moderation.Settings
	scheduler *moderation.BatchScheduler
	monitor   *moderation.PermissionMonitor
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(
	logger *slog.Logger,
	tgBot *tgbot.Bot,
	settings *moderation.Settings,
	scheduler *moderation.BatchScheduler,
	monitor *moderation.PermissionMonitor,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		tgBot:     tgBot,
		settings:  settings,
		scheduler: scheduler,
		monitor:   monitor,
	}
}

// Run starts the bot and all its components, handling graceful shutdown
// on context cancellation. It returns an error if any component fails
// during startup or execution.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	// Arm the first batch run before anything else; a moderation bot
	// that cannot schedule its batch pass must not come up.
	if err := b.scheduler.Reschedule(b.settings.BatchTime()); err != nil {
		return fmt.Errorf("failed to arm initial batch run: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting batch scheduler...")
		b.scheduler.Start()

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping batch scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping batch scheduler", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting permission monitor...")
		b.monitor.Start()

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping permission monitor...")

		if err := b.monitor.Stop(); err != nil {
			b.logger.Error("Error stopping permission monitor", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
