package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for durable moderation state.
//
// Each document (groups, deletion queue, settings) is fully rewritten
// on every save: saves replace the whole table contents in one
// transaction rather than appending incrementally. In-memory state is
// authoritative between successful writes.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// LoadGroups retrieves all monitored groups.
	LoadGroups(ctx context.Context) ([]Group, error)

	// ReplaceGroups overwrites the stored group set with the given one.
	ReplaceGroups(ctx context.Context, groups []Group) error

	// LoadQueue retrieves all deletion queue entries in insertion order.
	LoadQueue(ctx context.Context) ([]QueueEntry, error)

	// ReplaceQueue overwrites the stored deletion queue with the given
	// entries, preserving their order.
	ReplaceQueue(ctx context.Context, entries []QueueEntry) error

	// LoadSettings retrieves the moderation settings. Returns nil, nil
	// when no settings have been persisted yet.
	LoadSettings(ctx context.Context) (*Settings, error)

	// SaveSettings overwrites the stored moderation settings.
	SaveSettings(ctx context.Context, settings *Settings) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadGroups retrieves all monitored groups.
func (s *sqlxStore) LoadGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	query := `SELECT chat_id, name, enabled_by, enabled_at FROM monitored_groups ORDER BY chat_id;`
	if err := s.db.SelectContext(ctx, &groups, query); err != nil {
		s.logger.ErrorContext(ctx, "Error loading groups", "error", err)
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	return groups, nil
}

// ReplaceGroups overwrites the stored group set.
func (s *sqlxStore) ReplaceGroups(ctx context.Context, groups []Group) error {
	return s.replaceAll(ctx, "monitored_groups", func(tx *sqlx.Tx) error {
		if len(groups) == 0 {
			return nil
		}
		query := `
            INSERT INTO monitored_groups (chat_id, name, enabled_by, enabled_at)
            VALUES (:chat_id, :name, :enabled_by, :enabled_at);
        `
		if _, err := tx.NamedExecContext(ctx, query, groups); err != nil {
			return fmt.Errorf("failed to insert groups: %w", err)
		}
		return nil
	})
}

// LoadQueue retrieves all deletion queue entries in insertion order.
func (s *sqlxStore) LoadQueue(ctx context.Context) ([]QueueEntry, error) {
	var entries []QueueEntry
	query := `SELECT chat_id, message_id FROM deletion_queue ORDER BY position;`
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		s.logger.ErrorContext(ctx, "Error loading deletion queue", "error", err)
		return nil, fmt.Errorf("failed to load deletion queue: %w", err)
	}
	return entries, nil
}

// ReplaceQueue overwrites the stored deletion queue.
func (s *sqlxStore) ReplaceQueue(ctx context.Context, entries []QueueEntry) error {
	return s.replaceAll(ctx, "deletion_queue", func(tx *sqlx.Tx) error {
		if len(entries) == 0 {
			return nil
		}
		// Insert one at a time so AUTOINCREMENT positions follow slice order.
		query := `INSERT INTO deletion_queue (chat_id, message_id) VALUES (:chat_id, :message_id);`
		for _, entry := range entries {
			if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
				return fmt.Errorf("failed to insert queue entry (chat %d, message %d): %w", entry.ChatID, entry.MessageID, err)
			}
		}
		return nil
	})
}

// LoadSettings retrieves the moderation settings, or nil when unset.
func (s *sqlxStore) LoadSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	query := `SELECT batch_time, prompt, llm_endpoint, llm_model, llm_credential FROM moderation_settings WHERE id = 1;`
	if err := s.db.GetContext(ctx, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error loading moderation settings", "error", err)
		return nil, fmt.Errorf("failed to load moderation settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings overwrites the stored moderation settings.
func (s *sqlxStore) SaveSettings(ctx context.Context, settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("cannot save nil settings")
	}
	query := `
        INSERT INTO moderation_settings (id, batch_time, prompt, llm_endpoint, llm_model, llm_credential)
        VALUES (1, :batch_time, :prompt, :llm_endpoint, :llm_model, :llm_credential)
        ON CONFLICT (id) DO UPDATE SET
            batch_time     = excluded.batch_time,
            prompt         = excluded.prompt,
            llm_endpoint   = excluded.llm_endpoint,
            llm_model      = excluded.llm_model,
            llm_credential = excluded.llm_credential;
    `
	if _, err := s.db.NamedExecContext(ctx, query, settings); err != nil {
		s.logger.ErrorContext(ctx, "Error saving moderation settings", "error", err)
		return fmt.Errorf("failed to save moderation settings: %w", err)
	}
	return nil
}

// replaceAll clears the named table and runs insert inside one transaction.
func (s *sqlxStore) replaceAll(ctx context.Context, table string, insert func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "table", table, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.WarnContext(ctx, "Error rolling back transaction", "table", table, "error", rollbackErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
		s.logger.ErrorContext(ctx, "Error clearing table", "table", table, "error", err)
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	if err := insert(tx); err != nil {
		s.logger.ErrorContext(ctx, "Error rewriting table", "table", table, "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Error committing transaction", "table", table, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
