package srd_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	apientities "github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/charforge/internal/clients/srd"
	srdmock "github.com/KirkDiggler/charforge/internal/clients/srd/mock"
	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/rules"
)

type LoaderTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mockAPI *srdmock.MockAPI
	loader  *srd.Loader
	ctx     context.Context
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (s *LoaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAPI = srdmock.NewMockAPI(s.ctrl)
	s.ctx = context.Background()

	loader, err := srd.New(&srd.Config{API: s.mockAPI, BaseURL: "http://srd.test/api/"})
	s.Require().NoError(err)
	s.loader = loader
}

func (s *LoaderTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func ref(key, name string) *apientities.ReferenceItem {
	return &apientities.ReferenceItem{Key: key, Name: name}
}

func (s *LoaderTestSuite) expectLists(races, classes []*apientities.ReferenceItem) {
	s.mockAPI.EXPECT().ListRaces().Return(races, nil)
	s.mockAPI.EXPECT().ListClasses().Return(classes, nil)
}

// expectNoLevelData answers every level lookup for key without data
func (s *LoaderTestSuite) expectNoLevelData(key string) {
	s.mockAPI.EXPECT().GetClassLevel(key, gomock.Any()).Return(nil, nil).AnyTimes()
}

func (s *LoaderTestSuite) TestLoadMergesRacesAndClasses() {
	s.expectLists(
		[]*apientities.ReferenceItem{ref("human", "Human"), ref("kenku", "Kenku")},
		[]*apientities.ReferenceItem{ref("fighter", "Fighter"), ref("artificer", "Artificer")},
	)
	s.mockAPI.EXPECT().GetRace("human").Return(&apientities.Race{
		Key:  "human",
		Name: "Human",
		AbilityBonuses: []*apientities.AbilityBonus{
			{AbilityScore: ref("str", "STR"), Bonus: 1},
			{AbilityScore: ref("con", "CON"), Bonus: 1},
		},
	}, nil)
	s.mockAPI.EXPECT().GetRace("kenku").Return(&apientities.Race{
		Key:  "kenku",
		Name: "Kenku",
		AbilityBonuses: []*apientities.AbilityBonus{
			{AbilityScore: ref("dex", "DEX"), Bonus: 2},
			{AbilityScore: ref("wis", "WIS"), Bonus: 1},
		},
	}, nil)
	s.mockAPI.EXPECT().GetClass("fighter").Return(&apientities.Class{
		Key:          "fighter",
		Name:         "Fighter",
		HitDie:       12,
		SavingThrows: []*apientities.ReferenceItem{ref("str", "STR"), ref("con", "CON")},
	}, nil)
	s.expectNoLevelData("fighter")
	s.mockAPI.EXPECT().GetClass("artificer").Return(&apientities.Class{Key: "artificer", Name: "Artificer", HitDie: 8}, nil)

	ruleset, err := s.loader.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(srd.RulesetID, ruleset.ID())
	s.Equal(srd.RulesetVersion, ruleset.Version())
	s.Equal("http://srd.test/api/", ruleset.Describe().Source)

	result, err := ruleset.Validate(&rules.ValidateInput{
		Facet:   entities.FacetRace,
		Payload: json.RawMessage(`{"raceId":"kenku"}`),
	})
	s.Require().NoError(err)
	s.Empty(result.Violations)
	s.Contains(result.LegalChoices, "kenku")
	s.Contains(result.LegalChoices, "elf")

	classResult, err := ruleset.Validate(&rules.ValidateInput{Facet: entities.FacetClass})
	s.Require().NoError(err)
	s.NotContains(classResult.LegalChoices, "artificer")

	facets := entities.Facets{
		entities.FacetClass: json.RawMessage(`{"classes":[{"classId":"fighter","level":4}]}`),
	}
	plan, err := ruleset.PlanLevelUp(&rules.PlanInput{Facets: facets, CurrentLevel: 4})
	s.Require().NoError(err)
	s.Equal(12, plan.HitDie)
}

func (s *LoaderTestSuite) TestLoadMergesClassLevelFeatures() {
	s.expectLists(nil, []*apientities.ReferenceItem{ref("fighter", "Fighter")})
	s.mockAPI.EXPECT().GetClass("fighter").Return(&apientities.Class{Key: "fighter", Name: "Fighter", HitDie: 10}, nil)
	s.mockAPI.EXPECT().GetClassLevel("fighter", 2).Return(&apientities.Level{
		Features: []*apientities.ReferenceItem{
			ref("action-surge-1-use", "Action Surge (1 use)"),
			ref("ability-score-improvement-1", "Ability Score Improvement"),
		},
	}, nil)
	s.expectNoLevelData("fighter")

	ruleset, err := s.loader.Load(s.ctx)
	s.Require().NoError(err)

	facets := entities.Facets{
		entities.FacetClass: json.RawMessage(`{"classes":[{"classId":"fighter","level":1}]}`),
	}
	plan, err := ruleset.PlanLevelUp(&rules.PlanInput{Facets: facets, CurrentLevel: 1})
	s.Require().NoError(err)
	s.Equal([]string{"action-surge-1-use"}, plan.GrantedFeatures)
}

func (s *LoaderTestSuite) TestLoadMergesLevelOneSpellcasting() {
	s.expectLists(nil, []*apientities.ReferenceItem{ref("bard", "Bard")})
	s.mockAPI.EXPECT().GetClass("bard").Return(&apientities.Class{Key: "bard", Name: "Bard", HitDie: 8}, nil)
	s.mockAPI.EXPECT().GetClassLevel("bard", 1).Return(&apientities.Level{
		SpellCasting: &apientities.SpellCasting{CantripsKnown: 3, SpellsKnown: 5, SpellSlotsLevel1: 2},
	}, nil)
	s.expectNoLevelData("bard")

	ruleset, err := s.loader.Load(s.ctx)
	s.Require().NoError(err)

	result, err := ruleset.Validate(&rules.ValidateInput{
		Facets: entities.Facets{
			entities.FacetClass: json.RawMessage(`{"classes":[{"classId":"bard","level":1}]}`),
		},
		Step:    entities.StepSpells,
		Facet:   entities.FacetSpells,
		Payload: json.RawMessage(`{"cantrips":[],"spells":[]}`),
	})
	s.Require().NoError(err)
	s.Require().Len(result.Violations, 1)
	s.Equal("UNSPENT_SPELLS", result.Violations[0].Code)
	s.Contains(result.Violations[0].Message, "0 of 3 cantrips and 0 of 5 spells")
}

func (s *LoaderTestSuite) TestClassLevelFailure() {
	s.expectLists(nil, []*apientities.ReferenceItem{ref("fighter", "Fighter")})
	s.mockAPI.EXPECT().GetClass("fighter").Return(&apientities.Class{Key: "fighter", Name: "Fighter"}, nil).AnyTimes()
	s.mockAPI.EXPECT().GetClassLevel("fighter", 3).Return(nil, fmt.Errorf("status 502"))
	s.expectNoLevelData("fighter")

	_, err := s.loader.Load(s.ctx)
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
	s.Contains(err.Error(), "fighter level 3")
}

func (s *LoaderTestSuite) TestListFailure() {
	s.mockAPI.EXPECT().ListRaces().Return(nil, fmt.Errorf("connection refused"))

	_, err := s.loader.Load(s.ctx)
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *LoaderTestSuite) TestDetailFailure() {
	s.expectLists([]*apientities.ReferenceItem{ref("human", "Human")}, nil)
	s.mockAPI.EXPECT().GetRace("human").Return(nil, fmt.Errorf("status 500"))

	_, err := s.loader.Load(s.ctx)
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
	s.Contains(err.Error(), "human")
}

func (s *LoaderTestSuite) TestCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.expectLists([]*apientities.ReferenceItem{ref("human", "Human")}, nil)

	_, err := s.loader.Load(ctx)
	s.Require().Error(err)
	s.True(errors.IsCanceled(err))
}
