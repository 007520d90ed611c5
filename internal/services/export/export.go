// Package export writes a JSON character sheet whenever a character is
// finalized or gains a level.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/services/notify"
)

// Sheet is the exported form of a character at one level
type Sheet struct {
	CharacterID    string          `json:"characterId"`
	Name           string          `json:"name,omitempty"`
	RulesetID      string          `json:"rulesetId"`
	RulesetVersion string          `json:"rulesetVersion"`
	Event          string          `json:"event"`
	Level          int             `json:"level"`
	Experience     int             `json:"experience"`
	Facets         entities.Facets `json:"facets"`
	Levels         []int           `json:"levels"`
	ExportedAt     time.Time       `json:"exportedAt"`
}

// Config holds the exporter settings
type Config struct {
	Bus   events.EventBus
	Dir   string
	Clock clock.Clock
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Bus == nil {
		vb.RequiredField("Bus")
	}
	errors.ValidateRequired("Dir", c.Dir, vb)
	return vb.Build()
}

// Exporter subscribes to character notifications and writes sheets
type Exporter struct {
	bus   events.EventBus
	dir   string
	clock clock.Clock

	mu     sync.Mutex
	subIDs []string
}

// New creates an Exporter. Call Start to subscribe.
func New(cfg *Config) (*Exporter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	e := &Exporter{bus: cfg.Bus, dir: cfg.Dir, clock: cfg.Clock}
	if e.clock == nil {
		e.clock = clock.New()
	}
	return e, nil
}

// Start creates the export directory and subscribes to both kinds
func (e *Exporter) Start() error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create export directory %s", e.dir)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.subIDs) > 0 {
		return nil
	}
	for _, kind := range []notify.Kind{notify.KindFinalized, notify.KindLevelCommitted} {
		e.subIDs = append(e.subIDs, e.bus.SubscribeFunc(string(kind), 0, e.handle))
	}

	slog.Info("Sheet exporter started", "dir", e.dir)
	return nil
}

// Stop removes the subscriptions
func (e *Exporter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range e.subIDs {
		if err := e.bus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe exporter", "subscription_id", id, "error", err)
		}
	}
	e.subIDs = nil
}

func (e *Exporter) handle(_ context.Context, event events.Event) error {
	character, level, ok := notify.CharacterFromEvent(event)
	if !ok {
		slog.Warn("Ignoring event without a character", "type", event.Type())
		return nil
	}

	path, err := e.Write(BuildSheet(character, level, event.Type(), e.clock.Now()))
	if err != nil {
		slog.Error("Failed to export sheet",
			"character_id", character.ID,
			"level", level,
			"error", err)
		return err
	}

	slog.Info("Exported sheet", "character_id", character.ID, "level", level, "path", path)
	return nil
}

// Write stores sheet as <character>-L<level>.json. The file is written to a
// temporary name first so readers never see a partial sheet.
func (e *Exporter) Write(sheet *Sheet) (string, error) {
	if sheet == nil {
		return "", errors.InvalidArgument("sheet is required")
	}

	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode sheet")
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s-L%d.json", sheet.CharacterID, sheet.Level))
	tmp, err := os.CreateTemp(e.dir, ".sheet-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create sheet file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", errors.Wrap(err, "failed to write sheet")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close sheet")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(err, "failed to move sheet into place")
	}
	return path, nil
}

// BuildSheet flattens a character into a sheet
func BuildSheet(character *entities.Character, level int, kind string, now time.Time) *Sheet {
	sheet := &Sheet{
		CharacterID:    character.ID,
		Name:           characterName(character.Facets),
		RulesetID:      character.RulesetID,
		RulesetVersion: character.RulesetVersion,
		Event:          kind,
		Level:          level,
		Experience:     character.Experience,
		Facets:         character.Facets.Clone(),
		Levels:         make([]int, 0, len(character.Snapshots)),
		ExportedAt:     now,
	}
	for _, s := range character.Snapshots {
		sheet.Levels = append(sheet.Levels, s.Level)
	}
	return sheet
}

func characterName(facets entities.Facets) string {
	var concept struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(facets[entities.FacetConcept], &concept); err != nil {
		return ""
	}
	return concept.Name
}
