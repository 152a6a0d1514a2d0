package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error: %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func TestStorePing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestStoreGroupsRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	loaded, err := store.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups() on fresh database error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("fresh database holds %d groups, want 0", len(loaded))
	}

	enabledAt := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	groups := []Group{
		{ChatID: -100200, Name: "second", EnabledBy: 7, EnabledAt: enabledAt},
		{ChatID: -100100, Name: "first", EnabledBy: 8, EnabledAt: enabledAt},
	}
	if err := store.ReplaceGroups(ctx, groups); err != nil {
		t.Fatalf("ReplaceGroups() error: %v", err)
	}

	loaded, err = store.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups() error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadGroups() returned %d groups, want 2", len(loaded))
	}
	// Load order is by chat ID.
	if loaded[0].ChatID != -100200 || loaded[0].Name != "second" {
		t.Errorf("LoadGroups()[0] = %+v, want chat -100200", loaded[0])
	}
	if !loaded[0].EnabledAt.Equal(enabledAt) {
		t.Errorf("EnabledAt = %v, want %v", loaded[0].EnabledAt, enabledAt)
	}

	// A replace is a full rewrite, not a merge.
	if err := store.ReplaceGroups(ctx, []Group{{ChatID: -100300, Name: "only", EnabledAt: enabledAt}}); err != nil {
		t.Fatalf("second ReplaceGroups() error: %v", err)
	}
	loaded, err = store.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups() after rewrite error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ChatID != -100300 {
		t.Fatalf("LoadGroups() after rewrite = %+v, want only chat -100300", loaded)
	}
}

func TestStoreQueueOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	entries := []QueueEntry{
		{ChatID: 1, MessageID: 30},
		{ChatID: 1, MessageID: 10},
		{ChatID: 2, MessageID: 20},
		{ChatID: 1, MessageID: 10},
	}
	if err := store.ReplaceQueue(ctx, entries); err != nil {
		t.Fatalf("ReplaceQueue() error: %v", err)
	}

	loaded, err := store.LoadQueue(ctx)
	if err != nil {
		t.Fatalf("LoadQueue() error: %v", err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("LoadQueue() returned %d entries, want %d", len(loaded), len(entries))
	}
	for i, want := range entries {
		if loaded[i] != want {
			t.Errorf("LoadQueue()[%d] = %+v, want %+v in insertion order", i, loaded[i], want)
		}
	}

	if err := store.ReplaceQueue(ctx, nil); err != nil {
		t.Fatalf("ReplaceQueue(nil) error: %v", err)
	}
	loaded, err = store.LoadQueue(ctx)
	if err != nil {
		t.Fatalf("LoadQueue() after clear error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("LoadQueue() after clear returned %d entries, want 0", len(loaded))
	}
}

func TestStoreSettingsUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	loaded, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() on fresh database error: %v", err)
	}
	if loaded != nil {
		t.Fatalf("LoadSettings() on fresh database = %+v, want nil", loaded)
	}

	first := &Settings{BatchTime: "03:00", Prompt: "no spam"}
	if err := store.SaveSettings(ctx, first); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	second := &Settings{
		BatchTime:     "22:15",
		Prompt:        "no spam or scams",
		LLMEndpoint:   "https://example.invalid/v1",
		LLMModel:      "gemini-2.0-flash",
		LLMCredential: "secret",
	}
	if err := store.SaveSettings(ctx, second); err != nil {
		t.Fatalf("second SaveSettings() error: %v", err)
	}

	loaded, err = store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if loaded == nil || *loaded != *second {
		t.Fatalf("LoadSettings() = %+v, want the second save", loaded)
	}

	if err := store.SaveSettings(ctx, nil); err == nil {
		t.Fatal("SaveSettings(nil) did not error")
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "sweepbot.db", want: "sweepbot.db"},
		{path: "file:sweepbot.db", want: "sweepbot.db"},
		{path: "file:sweepbot.db?cache=shared", want: "sweepbot.db"},
		{path: "/var/lib/sweepbot/data%20dir/sweepbot.db", want: "/var/lib/sweepbot/data dir/sweepbot.db"},
	}

	for _, tc := range tests {
		if got := ExtractDBNameFromPath(tc.path); got != tc.want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
