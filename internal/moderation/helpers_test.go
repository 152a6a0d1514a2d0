package moderation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sweepbot/sweepbot/internal/database"
)

// fakeStore is an in-memory database.Store for tests. It records the
// last saved state of each document.
type fakeStore struct {
	mu sync.Mutex

	groups   []database.Group
	queue    []database.QueueEntry
	settings *database.Settings

	groupSaves int
	queueSaves int

	loadQueueResult []database.QueueEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) LoadGroups(context.Context) ([]database.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]database.Group(nil), s.groups...), nil
}

func (s *fakeStore) ReplaceGroups(_ context.Context, groups []database.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append([]database.Group(nil), groups...)
	s.groupSaves++
	return nil
}

func (s *fakeStore) LoadQueue(context.Context) ([]database.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadQueueResult != nil {
		return append([]database.QueueEntry(nil), s.loadQueueResult...), nil
	}
	return append([]database.QueueEntry(nil), s.queue...), nil
}

func (s *fakeStore) ReplaceQueue(_ context.Context, entries []database.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append([]database.QueueEntry(nil), entries...)
	s.queueSaves++
	return nil
}

func (s *fakeStore) LoadSettings(context.Context) (*database.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, nil
	}
	copied := *s.settings
	return &copied, nil
}

func (s *fakeStore) SaveSettings(_ context.Context, settings *database.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *settings
	s.settings = &copied
	return nil
}

func (s *fakeStore) savedQueue() []database.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]database.QueueEntry(nil), s.queue...)
}

func (s *fakeStore) savedGroups() []database.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]database.Group(nil), s.groups...)
}

// fakeChatClient records platform calls and answers them from
// per-chat scripted results.
type fakeChatClient struct {
	mu sync.Mutex

	// deleteErr, when set for a key, fails DeleteMessage for that
	// chat/message pair.
	deleteErr map[[2]int64]error
	// permissions scripts DeletePermission per chat; permissionErr
	// takes precedence.
	permissions   map[int64]Permission
	permissionErr map[int64]error

	deleted   [][2]int64
	messages  map[int64][]string
	reactions [][2]int64
}

func newFakeChatClient() *fakeChatClient {
	return &fakeChatClient{
		deleteErr:     make(map[[2]int64]error),
		permissions:   make(map[int64]Permission),
		permissionErr: make(map[int64]error),
		messages:      make(map[int64][]string),
	}
}

func (c *fakeChatClient) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]int64{chatID, int64(messageID)}
	if err := c.deleteErr[key]; err != nil {
		return err
	}
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeChatClient) SendMessage(_ context.Context, chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[chatID] = append(c.messages[chatID], text)
	return nil
}

func (c *fakeChatClient) ReactToMessage(_ context.Context, chatID int64, messageID int, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions = append(c.reactions, [2]int64{chatID, int64(messageID)})
	return nil
}

func (c *fakeChatClient) DeletePermission(_ context.Context, chatID int64) (Permission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.permissionErr[chatID]; err != nil {
		return PermissionDenied, err
	}
	return c.permissions[chatID], nil
}

func (c *fakeChatClient) sentTo(chatID int64) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages[chatID]...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// monitoredRegistry returns a registry with the given chats enabled,
// backed by a fresh fake store.
func monitoredRegistry(chatIDs ...int64) *GroupRegistry {
	registry := NewGroupRegistry(discardLogger(), newFakeStore())
	for _, id := range chatIDs {
		registry.Enable(context.Background(), database.Group{ChatID: id, Name: "test group"})
	}
	return registry
}
