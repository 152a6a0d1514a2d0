package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sweepbot/sweepbot/internal/database"
)

// permissionLostNotice is sent to a group before it is evicted.
const permissionLostNotice = "I no longer have permission to delete messages here, so I've stopped moderating this group."

// PermissionMonitor periodically re-verifies the bot's delete
// capability in every monitored group and evicts groups where it is
/// gone. A failed capability query counts as capability lost: eviction
// is fail-safe, not retried. The sweep runs on its own fixed cadence,
// independent of the batch scheduler.
type PermissionMonitor struct {
	log       *slog.Logger
	registry  *GroupRegistry
	client    ChatClient
	scheduler gocron.Scheduler
	timeout   time.Duration
}

// NewPermissionMonitor creates a monitor that sweeps every interval
// once started.
func NewPermissionMonitor(
	log *slog.Logger,
	registry *GroupRegistry,
	client ChatClient,
	interval, timeout time.Duration,
) (*PermissionMonitor, error) {
	m := &PermissionMonitor{
		log:      log.With("component", "permission_monitor"),
		registry: registry,
		client:   client,
		timeout:  timeout,
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(m.Sweep, context.Background()),
		gocron.WithName("permission_sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule permission sweep: %w", err)
	}

	m.scheduler = s
	m.log.Info("Permission sweep scheduled", "interval", interval)
	return m, nil
}

// Start begins the periodic sweeps.
func (m *PermissionMonitor) Start() {
	m.scheduler.Start()
}

// Stop halts the periodic sweeps, waiting for a running sweep to finish.
func (m *PermissionMonitor) Stop() error {
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down sweep scheduler: %w", err)
	}
	return nil
}

// Sweep checks every monitored group once and evicts all groups whose
// delete capability is absent or unverifiable, sending each a
// best-effort notice before eviction.
func (m *PermissionMonitor) Sweep(ctx context.Context) {
	var evict []database.Group

	for _, group := range m.registry.All() {
		permission, err := m.queryPermission(ctx, group.ChatID)
		switch {
		case err != nil:
			m.log.ErrorContext(ctx, "Permission query failed, evicting group",
				"chat_id", group.ChatID, "name", group.Name, "error", err)
			evict = append(evict, group)
		case permission != PermissionGranted:
			m.log.WarnContext(ctx, "Delete permission lost, evicting group",
				"chat_id", group.ChatID, "name", group.Name)
			evict = append(evict, group)
		}
	}

	for _, group := range evict {
		m.notify(ctx, group.ChatID)
		m.registry.Disable(ctx, group.ChatID)
	}

	if len(evict) > 0 {
		m.log.InfoContext(ctx, "Permission sweep evicted groups", "evicted", len(evict))
	}
}

func (m *PermissionMonitor) queryPermission(ctx context.Context, chatID int64) (Permission, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.client.DeletePermission(callCtx, chatID)
}

func (m *PermissionMonitor) notify(ctx context.Context, chatID int64) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.client.SendMessage(callCtx, chatID, permissionLostNotice); err != nil {
		m.log.WarnContext(ctx, "Failed to send permission-lost notice", "chat_id", chatID, "error", err)
	}
}
