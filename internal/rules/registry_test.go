package rules_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/rules"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *rules.Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	registry, err := rules.NewRegistry(dnd5e.New())
	s.Require().NoError(err)
	s.registry = registry
}

func (s *RegistryTestSuite) TestGet() {
	rs, err := s.registry.Get(dnd5e.RulesetID, dnd5e.RulesetVersion)
	s.Require().NoError(err)
	s.Equal(dnd5e.RulesetID, rs.ID())

	_, err = s.registry.Get(dnd5e.RulesetID, "9.9")
	s.Error(err)
	s.True(errors.IsRulesetNotFound(err))
	s.True(errors.IsNotFound(err))
}

func (s *RegistryTestSuite) TestRegisterDuplicate() {
	err := s.registry.Register(dnd5e.New())
	s.Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RegistryTestSuite) TestList() {
	homebrew, err := dnd5e.NewWithData(&dnd5e.Config{ID: "a-homebrew", Version: "0.1", Data: dnd5e.DefaultData()})
	s.Require().NoError(err)
	s.Require().NoError(s.registry.Register(homebrew))

	list := s.registry.List()
	s.Require().Len(list, 2)
	s.Equal("a-homebrew", list[0].ID)
	s.Equal(dnd5e.RulesetID, list[1].ID)
}

func (s *RegistryTestSuite) TestValidateDispatches() {
	result, err := s.registry.Validate(context.Background(), &rules.ValidateInput{
		RulesetID:      dnd5e.RulesetID,
		RulesetVersion: dnd5e.RulesetVersion,
		Step:           entities.StepConcept,
		Facet:          entities.FacetConcept,
		Payload:        json.RawMessage(`{"name":""}`),
	})
	s.Require().NoError(err)
	s.Len(result.Blocking(entities.ModeFreeForAll), 1)
}

func (s *RegistryTestSuite) TestValidateUnknownRuleset() {
	_, err := s.registry.Validate(context.Background(), &rules.ValidateInput{
		RulesetID:      "pathfinder",
		RulesetVersion: "2",
		Step:           entities.StepConcept,
	})
	s.True(errors.IsRulesetNotFound(err))
}

func (s *RegistryTestSuite) TestValidateCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.registry.Validate(ctx, &rules.ValidateInput{
		RulesetID:      dnd5e.RulesetID,
		RulesetVersion: dnd5e.RulesetVersion,
	})
	s.True(errors.IsCanceled(err))
}

func (s *RegistryTestSuite) TestNilInput() {
	_, err := s.registry.Validate(context.Background(), nil)
	s.True(errors.IsInvalidArgument(err))
}
