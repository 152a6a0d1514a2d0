package moderation

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/sweepbot/sweepbot/internal/database"
)

// GroupRegistry owns the set of chat groups under moderation. Every
// mutation rewrites the full persisted group set; a failed write is
// logged and the in-memory state stays authoritative until the next
// successful write.
type GroupRegistry struct {
	log   *slog.Logger
	store database.Store

	mu     sync.RWMutex
	groups map[int64]database.Group
}

// NewGroupRegistry creates an empty registry backed by the given store.
func NewGroupRegistry(log *slog.Logger, store database.Store) *GroupRegistry {
	return &GroupRegistry{
		log:    log.With("component", "group_registry"),
		store:  store,
		groups: make(map[int64]database.Group),
	}
}

// Load restores the registry from the store. Called once at startup.
func (r *GroupRegistry) Load(ctx context.Context) error {
	groups, err := r.store.LoadGroups(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = make(map[int64]database.Group, len(groups))
	for _, g := range groups {
		r.groups[g.ChatID] = g
	}
	r.log.Info("Loaded monitored groups", "count", len(r.groups))
	return nil
}

// Enable registers the group for moderation. The caller must already
// have confirmed the bot's delete capability in the chat. Re-enabling
// an already-monitored group overwrites its recorded metadata.
func (r *GroupRegistry) Enable(ctx context.Context, group database.Group) {
	r.mu.Lock()
	r.groups[group.ChatID] = group
	r.mu.Unlock()

	r.log.InfoContext(ctx, "Group enabled for moderation", "chat_id", group.ChatID, "name", group.Name)
	r.persist(ctx)
}

// Disable removes the group from moderation. It reports false, without
// touching persisted state, when the group was not monitored.
func (r *GroupRegistry) Disable(ctx context.Context, chatID int64) bool {
	r.mu.Lock()
	_, found := r.groups[chatID]
	if found {
		delete(r.groups, chatID)
	}
	r.mu.Unlock()

	if !found {
		return false
	}

	r.log.InfoContext(ctx, "Group disabled", "chat_id", chatID)
	r.persist(ctx)
	return true
}

// IsMonitored reports whether events for the chat are in scope.
func (r *GroupRegistry) IsMonitored(chatID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.groups[chatID]
	return ok
}

// Get returns the group record for the chat, if monitored.
func (r *GroupRegistry) Get(chatID int64) (database.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[chatID]
	return g, ok
}

// All returns every monitored group, ordered by chat ID.
func (r *GroupRegistry) All() []database.Group {
	r.mu.RLock()
	groups := make([]database.Group, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, g)
	}
	r.mu.RUnlock()

	sort.Slice(groups, func(i, j int) bool { return groups[i].ChatID < groups[j].ChatID })
	return groups
}

func (r *GroupRegistry) persist(ctx context.Context) {
	if err := r.store.ReplaceGroups(ctx, r.All()); err != nil {
		r.log.ErrorContext(ctx, "Failed to persist monitored groups", "error", err)
	}
}
