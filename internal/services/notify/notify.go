// Package notify announces finalized characters and committed levels on an
// rpg-toolkit event bus. Publishing is fire-and-forget: failures are logged
// and never undo the state change that triggered them.
package notify

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

//go:generate mockgen -destination=mock/mock_notifier.go -package=notifymock github.com/KirkDiggler/charforge/internal/services/notify Notifier

// Kind is the bus event type of a notification
type Kind string

const (
	KindFinalized      Kind = "character.finalized"
	KindLevelCommitted Kind = "character.level_committed"
)

// Event context keys
const (
	ContextKeyCharacter = "character"
	ContextKeyLevel     = "level"
	ContextKeySnapshot  = "snapshot"
)

// Notification describes a committed change
type Notification struct {
	Kind      Kind
	Character *entities.Character
	Level     int
	// Snapshot is the record written for Level
	Snapshot *entities.LevelSnapshot
}

// Notifier receives committed changes
type Notifier interface {
	Notify(ctx context.Context, n *Notification)
}

// Config holds the dependencies of a BusNotifier
type Config struct {
	Bus events.EventBus
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Bus == nil {
		vb.RequiredField("Bus")
	}
	return vb.Build()
}

// BusNotifier publishes notifications on an event bus
type BusNotifier struct {
	bus events.EventBus
}

// New creates a BusNotifier
func New(cfg *Config) (*BusNotifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &BusNotifier{bus: cfg.Bus}, nil
}

// Notify publishes n. Subscribers see a copy of the character.
func (b *BusNotifier) Notify(ctx context.Context, n *Notification) {
	if n == nil || n.Character == nil {
		slog.Warn("dropping empty notification")
		return
	}

	character := n.Character.Clone()
	event := events.NewGameEvent(string(n.Kind), WrapCharacter(character), nil)
	event.Context().Set(ContextKeyCharacter, character)
	event.Context().Set(ContextKeyLevel, n.Level)
	if n.Snapshot != nil {
		snapshot := n.Snapshot.Clone()
		event.Context().Set(ContextKeySnapshot, &snapshot)
	}

	if err := b.bus.Publish(ctx, event); err != nil {
		slog.Error("failed to publish notification",
			"kind", n.Kind,
			"character_id", character.ID,
			"level", n.Level,
			"error", err)
		return
	}
	slog.Debug("published notification", "kind", n.Kind, "character_id", character.ID, "level", n.Level)
}

// CharacterFromEvent extracts the character a notification carried
func CharacterFromEvent(e events.Event) (*entities.Character, int, bool) {
	raw, ok := e.Context().Get(ContextKeyCharacter)
	if !ok {
		return nil, 0, false
	}
	character, ok := raw.(*entities.Character)
	if !ok || character == nil {
		return nil, 0, false
	}
	level := character.CurrentLevel
	if rawLevel, ok := e.Context().Get(ContextKeyLevel); ok {
		if l, ok := rawLevel.(int); ok && l > 0 {
			level = l
		}
	}
	return character, level, true
}

// SnapshotFromEvent extracts the level snapshot a notification carried
func SnapshotFromEvent(e events.Event) (*entities.LevelSnapshot, bool) {
	raw, ok := e.Context().Get(ContextKeySnapshot)
	if !ok {
		return nil, false
	}
	snapshot, ok := raw.(*entities.LevelSnapshot)
	return snapshot, ok && snapshot != nil
}

var _ Notifier = (*BusNotifier)(nil)
