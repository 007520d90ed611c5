package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/services/export"
	"github.com/KirkDiggler/charforge/internal/services/notify"
)

type ExportTestSuite struct {
	suite.Suite
	bus      events.EventBus
	dir      string
	exporter *export.Exporter
	notifier *notify.BusNotifier
	ctx      context.Context
}

func TestExportSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (s *ExportTestSuite) SetupTest() {
	s.bus = events.NewBus()
	s.dir = filepath.Join(s.T().TempDir(), "sheets")
	s.ctx = context.Background()

	e, err := export.New(&export.Config{
		Bus:   s.bus,
		Dir:   s.dir,
		Clock: clock.NewStepping(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	})
	s.Require().NoError(err)
	s.Require().NoError(e.Start())
	s.exporter = e

	n, err := notify.New(&notify.Config{Bus: s.bus})
	s.Require().NoError(err)
	s.notifier = n
}

func (s *ExportTestSuite) TearDownTest() {
	s.exporter.Stop()
}

func (s *ExportTestSuite) character(level int) *entities.Character {
	c := &entities.Character{
		ID:             "draft_1",
		RulesetID:      "dnd5e-srd",
		RulesetVersion: "2014",
		CurrentLevel:   level,
		Experience:     6500,
		Facets: entities.Facets{
			entities.FacetConcept: json.RawMessage(`{"name":"Brakka"}`),
		},
	}
	for l := 1; l <= level; l++ {
		c.Snapshots = append(c.Snapshots, entities.LevelSnapshot{Level: l})
	}
	return c
}

func (s *ExportTestSuite) readSheet(name string) *export.Sheet {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	s.Require().NoError(err)
	var sheet export.Sheet
	s.Require().NoError(json.Unmarshal(data, &sheet))
	return &sheet
}

func (s *ExportTestSuite) TestNewValidation() {
	_, err := export.New(nil)
	s.Error(err)

	_, err = export.New(&export.Config{Bus: s.bus})
	s.Require().Error(err)
	s.Contains(err.Error(), "Dir")
}

func (s *ExportTestSuite) TestWritesSheetOnFinalize() {
	s.notifier.Notify(s.ctx, &notify.Notification{
		Kind:      notify.KindFinalized,
		Character: s.character(1),
		Level:     1,
	})

	sheet := s.readSheet("draft_1-L1.json")
	s.Equal("draft_1", sheet.CharacterID)
	s.Equal("Brakka", sheet.Name)
	s.Equal(string(notify.KindFinalized), sheet.Event)
	s.Equal(1, sheet.Level)
	s.Equal([]int{1}, sheet.Levels)
}

func (s *ExportTestSuite) TestWritesSheetPerLevel() {
	for level := 1; level <= 3; level++ {
		kind := notify.KindLevelCommitted
		if level == 1 {
			kind = notify.KindFinalized
		}
		s.notifier.Notify(s.ctx, &notify.Notification{Kind: kind, Character: s.character(level), Level: level})
	}

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	s.ElementsMatch([]string{"draft_1-L1.json", "draft_1-L2.json", "draft_1-L3.json"}, names)

	sheet := s.readSheet("draft_1-L3.json")
	s.Equal([]int{1, 2, 3}, sheet.Levels)
	s.Equal(6500, sheet.Experience)
}

func (s *ExportTestSuite) TestStopUnsubscribes() {
	s.exporter.Stop()

	s.notifier.Notify(s.ctx, &notify.Notification{
		Kind:      notify.KindFinalized,
		Character: s.character(1),
		Level:     1,
	})

	_, err := os.Stat(filepath.Join(s.dir, "draft_1-L1.json"))
	s.True(os.IsNotExist(err))
}

func (s *ExportTestSuite) TestBuildSheetWithoutConcept() {
	c := s.character(2)
	delete(c.Facets, entities.FacetConcept)

	sheet := export.BuildSheet(c, 2, string(notify.KindLevelCommitted), time.Time{})
	s.Empty(sheet.Name)
	s.Equal([]int{1, 2}, sheet.Levels)
}
