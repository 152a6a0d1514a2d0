// Package main contains the entrypoint for the sweepbot Telegram
// moderation bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jonboulle/clockwork"

	"github.com/sweepbot/sweepbot/internal/bot"
	"github.com/sweepbot/sweepbot/internal/bot/handlers"
	"github.com/sweepbot/sweepbot/internal/config"
	"github.com/sweepbot/sweepbot/internal/database"
	"github.com/sweepbot/sweepbot/internal/gemini"
	"github.com/sweepbot/sweepbot/internal/logger"
	"github.com/sweepbot/sweepbot/internal/moderation"
	"github.com/sweepbot/sweepbot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config,
// logger, db, clients, moderation engine, bot), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	location, err := cfg.Moderation.Location()
	if err != nil {
		log.Error("Failed to resolve moderation timezone", "error", err)
		return 1
	}
	clock := clockwork.NewRealClock()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	registry := moderation.NewGroupRegistry(log, store)
	if err := registry.Load(ctx); err != nil {
		log.Error("Failed to load monitored groups", "error", err)
		return 1
	}

	queue := moderation.NewDeletionQueue(log, store)
	if err := queue.Load(ctx); err != nil {
		log.Error("Failed to load deletion queue", "error", err)
		return 1
	}

	settings := moderation.NewSettings(log, store)
	seed := database.Settings{
		BatchTime:     cfg.Moderation.BatchTime,
		Prompt:        cfg.Moderation.Prompt,
		LLMEndpoint:   cfg.Gemini.BaseURL,
		LLMModel:      cfg.Gemini.Model,
		LLMCredential: cfg.Gemini.APIKey,
	}
	if err := settings.Load(ctx, seed); err != nil {
		log.Error("Failed to load moderation settings", "error", err)
		return 1
	}

	active := settings.Current()
	llm, err := gemini.NewClient(ctx, active.LLMEndpoint, active.LLMModel, active.LLMCredential, log)
	if err != nil {
		log.Error("Failed to initialize classification client", "error", err)
		return 1
	}

	// The dispatch handler needs the chat client, which needs the bot's
	// own ID, which is only known after the bot is created. Late-bind
	// the default handler through a closure.
	var dispatch tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if dispatch != nil {
				dispatch(ctx, b, update)
			}
		}),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates{
			"message",
			"message_reaction",
			"message_reaction_count",
		}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	chatClient := telegram.NewClient(tg, me.ID, log)

	processor := moderation.NewBatchProcessor(
		log, queue, registry, chatClient,
		cfg.Moderation.DeleteDelay, cfg.Moderation.CallTimeout,
	)

	scheduler, err := moderation.NewBatchScheduler(
		log, clock, location,
		settings.BatchTime,
		func(ctx context.Context) { processor.Run(ctx) },
	)
	if err != nil {
		log.Error("Failed to create batch scheduler", "error", err)
		return 1
	}

	monitor, err := moderation.NewPermissionMonitor(
		log, registry, chatClient,
		cfg.Moderation.PermissionInterval, cfg.Moderation.CallTimeout,
	)
	if err != nil {
		log.Error("Failed to create permission monitor", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Registry:   registry,
		Classifier: moderation.NewReactionClassifier(registry),
		Queue:      queue,
		Settings:   settings,
		Processor:  processor,
		Scheduler:  scheduler,
		Chat:       chatClient,
		LLM:        llm,
		Clock:      clock,
		Location:   location,
	}
	dispatch = handlers.NewDispatchHandler(hDeps)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, settings, scheduler, monitor)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
