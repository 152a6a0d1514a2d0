package moderation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSweepEvictsOnLostPermission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := monitoredRegistry(1, 2, 3)
	client := newFakeChatClient()
	client.permissions[1] = PermissionGranted
	client.permissions[2] = PermissionDenied
	client.permissionErr[3] = errors.New("chat not found")

	monitor, err := NewPermissionMonitor(discardLogger(), registry, client, time.Hour, time.Second)
	if err != nil {
		t.Fatalf("NewPermissionMonitor() error: %v", err)
	}
	monitor.Sweep(ctx)

	if !registry.IsMonitored(1) {
		t.Error("chat with delete permission was evicted")
	}
	if registry.IsMonitored(2) {
		t.Error("chat without delete permission was not evicted")
	}
	// A failed permission query counts as permission lost.
	if registry.IsMonitored(3) {
		t.Error("chat with unverifiable permission was not evicted")
	}

	if len(client.sentTo(1)) != 0 {
		t.Error("surviving chat received a permission-lost notice")
	}
	for _, chatID := range []int64{2, 3} {
		sent := client.sentTo(chatID)
		if len(sent) != 1 || sent[0] != permissionLostNotice {
			t.Errorf("evicted chat %d received %v, want the permission-lost notice", chatID, sent)
		}
	}
}

func TestSweepNoMonitoredGroups(t *testing.T) {
	t.Parallel()

	registry := NewGroupRegistry(discardLogger(), newFakeStore())
	client := newFakeChatClient()

	monitor, err := NewPermissionMonitor(discardLogger(), registry, client, time.Hour, time.Second)
	if err != nil {
		t.Fatalf("NewPermissionMonitor() error: %v", err)
	}
	monitor.Sweep(context.Background())

	if len(client.deleted) != 0 || len(client.messages) != 0 {
		t.Error("sweep over empty registry touched the platform")
	}
}
