package characterdraft_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	characterdraft "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/testutils"
)

// RepositoryTestSuite runs the same contract against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) characterdraft.Repository
	repo    characterdraft.Repository
	ctx     context.Context
	now     time.Time
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(*testing.T) characterdraft.Repository { return characterdraft.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) characterdraft.Repository {
			client, _ := testutils.CreateTestRedisClient(t)
			return characterdraft.NewRedisRepository(client)
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) characterdraft.Repository {
			repo, err := characterdraft.OpenSQLite(filepath.Join(t.TempDir(), "charforge.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) draft() *entities.CharacterDraft {
	return &entities.CharacterDraft{
		ID:             "draft_1",
		RulesetID:      "dnd5e",
		RulesetVersion: "1.0",
		Mode:           entities.ModeBalanced,
		CurrentStep:    entities.StepAbilities,
		Facets: entities.Facets{
			entities.FacetConcept: json.RawMessage(`{"name":"Mira"}`),
		},
		CompletedSteps: []entities.Step{entities.StepConcept},
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
}

func (s *RepositoryTestSuite) character(level int) *entities.Character {
	return &entities.Character{
		ID:             "draft_1",
		RulesetID:      "dnd5e",
		RulesetVersion: "1.0",
		Mode:           entities.ModeBalanced,
		CurrentLevel:   level,
		Facets: entities.Facets{
			entities.FacetConcept: json.RawMessage(`{"name":"Mira"}`),
		},
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
}

func (s *RepositoryTestSuite) snapshot(level int) entities.LevelSnapshot {
	return entities.LevelSnapshot{
		Level:     level,
		Facets:    entities.Facets{entities.FacetHitPoints: json.RawMessage(`{"max":12}`)},
		CreatedAt: s.now,
	}
}

func (s *RepositoryTestSuite) TestSaveAndLoad() {
	_, err := s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: s.draft()})
	s.Require().NoError(err)

	out, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, out.Draft.CurrentStep)
	s.JSONEq(`{"name":"Mira"}`, string(out.Draft.Facets[entities.FacetConcept]))
	s.Equal([]entities.Step{entities.StepConcept}, out.Draft.CompletedSteps)
	s.True(s.now.Equal(out.Draft.CreatedAt))
}

func (s *RepositoryTestSuite) TestSaveOverwrites() {
	d := s.draft()
	_, err := s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d})
	s.Require().NoError(err)

	d.CurrentStep = entities.StepRace
	d.Facets[entities.FacetAbilities] = json.RawMessage(`{"method":"standard_array"}`)
	d.CompletedSteps = append(d.CompletedSteps, entities.StepAbilities)
	_, err = s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d})
	s.Require().NoError(err)

	out, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(entities.StepRace, out.Draft.CurrentStep)
	s.True(out.Draft.Facets.Has(entities.FacetAbilities))
}

func (s *RepositoryTestSuite) TestLoadByStep() {
	d := s.draft()
	_, err := s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d})
	s.Require().NoError(err)

	d.CurrentStep = entities.StepRace
	d.CompletedSteps = append(d.CompletedSteps, entities.StepAbilities)
	_, err = s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d})
	s.Require().NoError(err)

	out, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1", Step: entities.StepConcept})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, out.Draft.CurrentStep)

	out, err = s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1", Step: entities.StepAbilities})
	s.Require().NoError(err)
	s.Equal(entities.StepRace, out.Draft.CurrentStep)

	_, err = s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1", Step: entities.StepClass})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestCursorOnlyKeepsStepCopy() {
	d := s.draft()
	_, err := s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d})
	s.Require().NoError(err)

	d.CurrentStep = entities.StepConcept
	_, err = s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: d, CursorOnly: true})
	s.Require().NoError(err)

	latest, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(entities.StepConcept, latest.Draft.CurrentStep)

	asCommitted, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1", Step: entities.StepConcept})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, asCommitted.Draft.CurrentStep)
}

func (s *RepositoryTestSuite) TestLoadMissing() {
	_, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestInputValidation() {
	_, err := s.repo.Save(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, &characterdraft.SaveInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Load(s.ctx, &characterdraft.LoadInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{CharacterID: "c"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
		CharacterID: "other",
		Snapshot:    s.snapshot(1),
		Character:   s.character(1),
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.SaveCharacter(s.ctx, &characterdraft.SaveCharacterInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestAppendSnapshotWritesAllOrNothing() {
	d := s.draft()
	d.CurrentStep = entities.StepFinalized
	_, err := s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
		CharacterID: "draft_1",
		Snapshot:    s.snapshot(1),
		Character:   s.character(1),
		Draft:       d,
	})
	s.Require().NoError(err)

	charOut, err := s.repo.LoadCharacter(s.ctx, &characterdraft.LoadCharacterInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(1, charOut.Character.CurrentLevel)
	s.Require().Len(charOut.Character.Snapshots, 1)
	s.Equal(1, charOut.Character.Snapshots[0].Level)

	draftOut, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.True(draftOut.Draft.IsFinalized())
}

func (s *RepositoryTestSuite) TestAppendSnapshotDuplicateLevel() {
	_, err := s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
		CharacterID: "draft_1",
		Snapshot:    s.snapshot(1),
		Character:   s.character(1),
	})
	s.Require().NoError(err)

	changed := s.character(1)
	changed.Experience = 999
	_, err = s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
		CharacterID: "draft_1",
		Snapshot:    s.snapshot(1),
		Character:   changed,
	})
	s.Require().Error(err)
	s.True(errors.IsDuplicateLevel(err))

	// the rejected append must not have touched the character
	out, err := s.repo.LoadCharacter(s.ctx, &characterdraft.LoadCharacterInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(0, out.Character.Experience)
}

func (s *RepositoryTestSuite) TestSnapshotsInLevelOrder() {
	for _, level := range []int{1, 3, 2} {
		_, err := s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
			CharacterID: "draft_1",
			Snapshot:    s.snapshot(level),
			Character:   s.character(level),
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListSnapshots(s.ctx, &characterdraft.ListSnapshotsInput{CharacterID: "draft_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Snapshots, 3)
	for i, snap := range out.Snapshots {
		s.Equal(i+1, snap.Level)
	}
}

func (s *RepositoryTestSuite) TestListSnapshotsEmpty() {
	out, err := s.repo.ListSnapshots(s.ctx, &characterdraft.ListSnapshotsInput{CharacterID: "nobody"})
	s.Require().NoError(err)
	s.Empty(out.Snapshots)
}

func (s *RepositoryTestSuite) TestSaveCharacterKeepsSnapshots() {
	_, err := s.repo.AppendSnapshot(s.ctx, &characterdraft.AppendSnapshotInput{
		CharacterID: "draft_1",
		Snapshot:    s.snapshot(1),
		Character:   s.character(1),
	})
	s.Require().NoError(err)

	c := s.character(1)
	c.Experience = 300
	_, err = s.repo.SaveCharacter(s.ctx, &characterdraft.SaveCharacterInput{Character: c})
	s.Require().NoError(err)

	out, err := s.repo.LoadCharacter(s.ctx, &characterdraft.LoadCharacterInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(300, out.Character.Experience)
	s.Len(out.Character.Snapshots, 1)
}

func (s *RepositoryTestSuite) TestLoadCharacterMissing() {
	_, err := s.repo.LoadCharacter(s.ctx, &characterdraft.LoadCharacterInput{ID: "nobody"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestLoadReturnsCopies() {
	_, err := s.repo.Save(s.ctx, &characterdraft.SaveInput{Draft: s.draft()})
	s.Require().NoError(err)

	out, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	out.Draft.CurrentStep = entities.StepReview

	again, err := s.repo.Load(s.ctx, &characterdraft.LoadInput{ID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, again.Draft.CurrentStep)
}

func (s *RepositoryTestSuite) TestRollSessionReplaced() {
	_, err := s.repo.LoadRollSession(s.ctx, &characterdraft.LoadRollSessionInput{DraftID: "draft_1"})
	s.True(errors.IsNotFound(err))

	first := &entities.AbilityRollSession{
		DraftID:   "draft_1",
		Rolls:     []entities.AbilityRoll{{ID: "roll_1", Kept: []int{6, 5, 4}, Dropped: 1, Total: 15}},
		CreatedAt: s.now,
	}
	_, err = s.repo.SaveRollSession(s.ctx, &characterdraft.SaveRollSessionInput{Session: first})
	s.Require().NoError(err)

	second := first.Clone()
	second.Rolls[0].Total = 9
	second.Rolls[0].Kept = []int{3, 3, 3}
	_, err = s.repo.SaveRollSession(s.ctx, &characterdraft.SaveRollSessionInput{Session: second})
	s.Require().NoError(err)

	out, err := s.repo.LoadRollSession(s.ctx, &characterdraft.LoadRollSessionInput{DraftID: "draft_1"})
	s.Require().NoError(err)
	s.Equal(second, out.Session)

	_, err = s.repo.SaveRollSession(s.ctx, &characterdraft.SaveRollSessionInput{})
	s.True(errors.IsInvalidArgument(err))
	_, err = s.repo.LoadRollSession(s.ctx, &characterdraft.LoadRollSessionInput{})
	s.True(errors.IsInvalidArgument(err))
}
