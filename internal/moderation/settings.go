package moderation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sweepbot/sweepbot/internal/database"
)

// Settings owns the process-wide moderation configuration: the batch
// run time, the classification prompt, and the LLM endpoint. It is
// mutated only by privileged commands and persisted after every
// mutation. A failed write is logged; the in-memory value stays
// authoritative.
type Settings struct {
	log   *slog.Logger
	store database.Store

	mu      sync.RWMutex
	current database.Settings
}

// NewSettings creates a settings holder backed by the given store.
func NewSettings(log *slog.Logger, store database.Store) *Settings {
	return &Settings{
		log:   log.With("component", "settings"),
		store: store,
	}
}

// Load restores persisted settings, seeding and persisting the given
// defaults when nothing has been stored yet. Called once at startup.
func (s *Settings) Load(ctx context.Context, defaults database.Settings) error {
	stored, err := s.store.LoadSettings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if stored != nil {
		s.current = *stored
	} else {
		s.current = defaults
	}
	s.mu.Unlock()

	if stored == nil {
		s.log.Info("No stored moderation settings, seeding defaults", "batch_time", defaults.BatchTime)
		s.persist(ctx)
	}
	return nil
}

// Current returns a copy of the active settings.
func (s *Settings) Current() database.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// BatchTime returns the configured batch run time of day.
func (s *Settings) BatchTime() TimeOfDay {
	s.mu.RLock()
	raw := s.current.BatchTime
	s.mu.RUnlock()

	tod, err := ParseTimeOfDay(raw)
	if err != nil {
		// Stored value is validated on the way in; fall back to midnight
		// rather than failing the scheduler.
		s.log.Error("Stored batch time is malformed", "batch_time", raw, "error", err)
		return TimeOfDay{}
	}
	return tod
}

// SetBatchTime validates and stores a new batch run time. Malformed
// input is rejected without mutating any state.
func (s *Settings) SetBatchTime(ctx context.Context, value string) (TimeOfDay, error) {
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		return TimeOfDay{}, err
	}

	s.mu.Lock()
	s.current.BatchTime = tod.String()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Batch run time updated", "batch_time", tod.String())
	s.persist(ctx)
	return tod, nil
}

// SetPrompt stores a new classification prompt. An empty prompt
// disables content classification.
func (s *Settings) SetPrompt(ctx context.Context, prompt string) {
	s.mu.Lock()
	s.current.Prompt = prompt
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Classification prompt updated", "enabled", prompt != "")
	s.persist(ctx)
}

// Prompt returns the active classification prompt.
func (s *Settings) Prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Prompt
}

// SetLLM stores a new classification endpoint, model, and credential.
func (s *Settings) SetLLM(ctx context.Context, endpoint, model, credential string) {
	s.mu.Lock()
	s.current.LLMEndpoint = endpoint
	s.current.LLMModel = model
	s.current.LLMCredential = credential
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Classification endpoint updated", "endpoint", endpoint, "model", model)
	s.persist(ctx)
}

func (s *Settings) persist(ctx context.Context) {
	current := s.Current()
	if err := s.store.SaveSettings(ctx, &current); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist moderation settings", "error", err)
	}
}
