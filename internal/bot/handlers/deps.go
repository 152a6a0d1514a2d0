package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sweepbot/sweepbot/internal/config"
	"github.com/sweepbot/sweepbot/internal/moderation"
)

// LLMClient is the classification collaborator as seen by handlers:
// classify messages, and swap the endpoint at runtime.
type LLMClient interface {
	moderation.ContentClassifier
	Configure(ctx context.Context, endpoint, model, credential string) error
}

// HandlerDeps provides dependencies for Telegram command and event handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Registry   *moderation.GroupRegistry
	Classifier *moderation.ReactionClassifier
	Queue      *moderation.DeletionQueue
	Settings   *moderation.Settings
	Processor  *moderation.BatchProcessor
	Scheduler  *moderation.BatchScheduler
	Chat       moderation.ChatClient
	LLM        LLMClient
	Clock      clockwork.Clock
	Location   *time.Location
}

// callCtx derives a bounded context for a single external call.
func (d HandlerDeps) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.Config.Moderation.CallTimeout)
}
