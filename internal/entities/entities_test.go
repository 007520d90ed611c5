package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/entities"
)

type EntitiesTestSuite struct {
	suite.Suite
}

func TestEntitiesSuite(t *testing.T) {
	suite.Run(t, new(EntitiesTestSuite))
}

func (s *EntitiesTestSuite) TestStepOrder() {
	s.Equal(entities.StepAbilities, entities.StepConcept.Next())
	s.Equal(entities.StepReview, entities.StepSpells.Next())
	s.Equal(entities.StepFinalized, entities.StepReview.Next())
	s.Equal(-1, entities.StepFinalized.Index())
	s.False(entities.StepFinalized.IsValid())
}

func (s *EntitiesTestSuite) TestStepFacet() {
	s.Equal(entities.FacetRace, entities.StepRace.Facet())
	s.Equal(entities.Facet(""), entities.StepReview.Facet())

	step, ok := entities.FacetSpells.Step()
	s.True(ok)
	s.Equal(entities.StepSpells, step)

	_, ok = entities.FacetHitPoints.Step()
	s.False(ok)
}

func (s *EntitiesTestSuite) TestBlockingByMode() {
	result := &entities.ValidationResult{
		Violations: []entities.Violation{
			{Code: "POINT_BUY_BUDGET", Severity: entities.SeverityBlock},
			{Code: "ARMOR_NOT_PROFICIENT", Severity: entities.SeverityWarn},
			{Code: "SCORE_OUT_OF_RANGE", Severity: entities.SeverityBlock, AlwaysBlocking: true},
		},
	}

	balanced := result.Blocking(entities.ModeBalanced)
	s.Len(balanced, 2)
	s.Len(result.Advisory(entities.ModeBalanced), 1)

	free := result.Blocking(entities.ModeFreeForAll)
	s.Require().Len(free, 1)
	s.Equal("SCORE_OUT_OF_RANGE", free[0].Code)
	s.Len(result.Advisory(entities.ModeFreeForAll), 2)
}

func (s *EntitiesTestSuite) TestNilResult() {
	var result *entities.ValidationResult
	s.Nil(result.Blocking(entities.ModeBalanced))
	s.False(result.HasBlocking(entities.ModeBalanced))
}

func (s *EntitiesTestSuite) TestDraftCloneIsDeep() {
	draft := &entities.CharacterDraft{
		ID:             "draft_1",
		Facets:         entities.Facets{entities.FacetConcept: json.RawMessage(`{"name":"Vex"}`)},
		CompletedSteps: []entities.Step{entities.StepConcept},
		Flags: map[entities.Facet][]entities.Violation{
			entities.FacetSpells: {{Code: "X"}},
		},
	}

	clone := draft.Clone()
	clone.Facets[entities.FacetConcept][2] = 'X'
	clone.CompletedSteps[0] = entities.StepRace
	clone.Flags[entities.FacetSpells][0].Code = "Y"

	s.JSONEq(`{"name":"Vex"}`, string(draft.Facets[entities.FacetConcept]))
	s.Equal(entities.StepConcept, draft.CompletedSteps[0])
	s.Equal("X", draft.Flags[entities.FacetSpells][0].Code)
}

func (s *EntitiesTestSuite) TestFacetsHas() {
	facets := entities.Facets{
		entities.FacetSpells: json.RawMessage(`{}`),
		entities.FacetRace:   json.RawMessage(`null`),
	}
	s.True(facets.Has(entities.FacetSpells))
	s.False(facets.Has(entities.FacetRace))
	s.False(facets.Has(entities.FacetClass))
}
