package character_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	mockdice "github.com/KirkDiggler/rpg-toolkit/dice/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	wizard "github.com/KirkDiggler/charforge/internal/orchestrators/character"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/pkg/idgen"
	draftrepo "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/rules"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
	"github.com/KirkDiggler/charforge/internal/services/character"
	"github.com/KirkDiggler/charforge/internal/services/notify"
	notifymock "github.com/KirkDiggler/charforge/internal/services/notify/mock"
	"github.com/KirkDiggler/charforge/internal/testutils"
	"github.com/KirkDiggler/charforge/internal/testutils/mocks"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockNotifier *notifymock.MockNotifier
	mockRoller   *mockdice.MockRoller
	repo         *draftrepo.InMemoryRepository
	registry     *rules.Registry
	orchestrator *wizard.Orchestrator
	ctx          context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockNotifier = notifymock.NewMockNotifier(s.ctrl)
	s.mockRoller = mockdice.NewMockRoller(s.ctrl)
	s.repo = draftrepo.NewInMemory()
	s.ctx = context.Background()

	registry, err := rules.NewRegistry(dnd5e.New())
	s.Require().NoError(err)
	s.registry = registry
	s.orchestrator = s.newOrchestrator(0)
}

// newOrchestrator builds a wizard over the suite's store, as a second
// process would
func (s *OrchestratorTestSuite) newOrchestrator(cacheSize int) *wizard.Orchestrator {
	o, err := wizard.New(&wizard.Config{
		DraftRepo:       s.repo,
		Rules:           s.registry,
		Notifier:        s.mockNotifier,
		DiceRoller:      s.mockRoller,
		IDGenerator:     idgen.NewSequential("draft"),
		Clock:           clock.NewStepping(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
		ResultCacheSize: cacheSize,
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) start(mode entities.Mode) *entities.CharacterDraft {
	out, err := s.orchestrator.StartDraft(s.ctx, &character.StartDraftInput{
		RulesetID:      dnd5e.RulesetID,
		RulesetVersion: dnd5e.RulesetVersion,
		Mode:           mode,
	})
	s.Require().NoError(err)
	return out.Draft
}

func (s *OrchestratorTestSuite) submit(draftID string, step entities.Step, payload string) *character.SubmitStepOutput {
	out, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: draftID,
		Step:    step,
		Payload: json.RawMessage(payload),
	})
	s.Require().NoError(err)
	s.Require().True(out.Committed, "step %s blocked: %v", step, out.Blocking)
	return out
}

func (s *OrchestratorTestSuite) load(draftID string) *entities.CharacterDraft {
	out, err := s.orchestrator.GetDraft(s.ctx, &character.GetDraftInput{DraftID: draftID})
	s.Require().NoError(err)
	return out.Draft
}

// throughProficiencies commits a fighter up to and including proficiencies
func (s *OrchestratorTestSuite) throughProficiencies() *entities.CharacterDraft {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	s.submit(d.ID, entities.StepAbilities, testutils.FighterAbilities)
	s.submit(d.ID, entities.StepRace, testutils.HumanRace)
	s.submit(d.ID, entities.StepClass, testutils.FighterClass)
	s.submit(d.ID, entities.StepBackground, testutils.SoldierBackground)
	s.submit(d.ID, entities.StepProficiencies, testutils.FighterProficiencies)
	return s.load(d.ID)
}

func (s *OrchestratorTestSuite) TestNewValidatesConfig() {
	_, err := wizard.New(&wizard.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = wizard.New(nil)
	s.Error(err)
}

func (s *OrchestratorTestSuite) TestStartDraft() {
	out, err := s.orchestrator.StartDraft(s.ctx, &character.StartDraftInput{
		RulesetID:      dnd5e.RulesetID,
		RulesetVersion: dnd5e.RulesetVersion,
	})
	s.Require().NoError(err)

	s.Equal("draft_1", out.Draft.ID)
	s.Equal(entities.StepConcept, out.Draft.CurrentStep)
	s.Equal(entities.ModeBalanced, out.Draft.Mode)
	s.Empty(out.Draft.CompletedSteps)
	s.Contains(out.Choices.LegalChoices, "lawful-good")

	stored := s.load("draft_1")
	s.Equal(entities.StepConcept, stored.CurrentStep)
}

func (s *OrchestratorTestSuite) TestStartDraftErrors() {
	_, err := s.orchestrator.StartDraft(s.ctx, &character.StartDraftInput{RulesetID: "dnd5e", RulesetVersion: "9.9"})
	s.True(errors.IsRulesetNotFound(err))

	_, err = s.orchestrator.StartDraft(s.ctx, &character.StartDraftInput{
		RulesetID:      dnd5e.RulesetID,
		RulesetVersion: dnd5e.RulesetVersion,
		Mode:           "anything_goes",
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.StartDraft(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSubmitWrongStep() {
	d := s.start(entities.ModeBalanced)

	_, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID,
		Step:    entities.StepRace,
		Payload: json.RawMessage(testutils.HumanRace),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidTransition(err))
}

func (s *OrchestratorTestSuite) TestSubmitAdvances() {
	d := s.start(entities.ModeBalanced)

	out := s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	s.Equal(entities.StepAbilities, out.Draft.CurrentStep)
	s.Equal([]entities.Step{entities.StepConcept}, out.Draft.CompletedSteps)
	s.JSONEq(testutils.ConceptPayload, string(out.Draft.Facets[entities.FacetConcept]))

	stored := s.load(d.ID)
	s.Equal(entities.StepAbilities, stored.CurrentStep)
	s.False(stored.Facets.Has(entities.FacetAbilities))
}

func (s *OrchestratorTestSuite) TestBlockingViolationLeavesDraftUnchanged() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	before := s.load(d.ID)

	out, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID,
		Step:    entities.StepAbilities,
		Payload: json.RawMessage(`{"method":"point_buy","scores":{"strength":15,"dexterity":15,"constitution":15,"intelligence":15,"wisdom":8,"charisma":8}}`),
	})
	s.Require().NoError(err)
	s.False(out.Committed)
	s.Require().NotEmpty(out.Blocking)
	s.Equal("POINT_BUY_BUDGET", out.Blocking[0].Code)

	s.Equal(before, s.load(d.ID))
}

func (s *OrchestratorTestSuite) TestSchemaMismatchIsAnError() {
	d := s.start(entities.ModeBalanced)

	_, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID,
		Step:    entities.StepConcept,
		Payload: json.RawMessage(`{"name":"Brakka","hairColor":"red"}`),
	})
	s.Require().Error(err)
	s.True(errors.IsSchemaMismatch(err))
	s.Equal(entities.StepConcept, s.load(d.ID).CurrentStep)
}

func (s *OrchestratorTestSuite) TestFreeForAllRecordsAdvisories() {
	d := s.start(entities.ModeFreeForAll)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)

	out := s.submit(d.ID, entities.StepAbilities,
		`{"method":"point_buy","scores":{"strength":15,"dexterity":15,"constitution":15,"intelligence":15,"wisdom":8,"charisma":8}}`)
	s.Require().NotEmpty(out.Advisory)
	s.Equal("POINT_BUY_BUDGET", out.Advisory[0].Code)
	s.Equal(entities.StepRace, out.Draft.CurrentStep)
	s.NotEmpty(s.load(d.ID).Advisories[entities.FacetAbilities])
}

func (s *OrchestratorTestSuite) TestFreeForAllStillBlocksImpossible() {
	d := s.start(entities.ModeFreeForAll)

	out, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID,
		Step:    entities.StepConcept,
		Payload: json.RawMessage(`{"name":"  "}`),
	})
	s.Require().NoError(err)
	s.False(out.Committed)
	s.Equal("NAME_REQUIRED", out.Blocking[0].Code)
}

func (s *OrchestratorTestSuite) TestFighterSkipsSpellsAndFinalizes() {
	d := s.throughProficiencies()

	out := s.submit(d.ID, entities.StepEquipment, testutils.FighterEquipment)
	s.Equal([]entities.Step{entities.StepSpells}, out.Skipped)
	s.Equal(entities.StepReview, out.Draft.CurrentStep)
	s.JSONEq(`{}`, string(out.Draft.Facets[entities.FacetSpells]))

	notified := mocks.ExpectNotifications(s.mockNotifier, notify.KindFinalized, 1)

	fin, err := s.orchestrator.Finalize(s.ctx, &character.FinalizeInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Require().True(fin.Finalized, "blocked: %v", fin.Blocking)

	s.Equal(d.ID, fin.Character.ID)
	s.Equal(1, fin.Character.CurrentLevel)
	s.Require().Len(fin.Character.Snapshots, 1)
	s.Equal(1, fin.Character.Snapshots[0].Level)
	s.True(fin.Character.Facets.Has(entities.FacetHitPoints))
	s.True(fin.Character.Facets.Has(entities.FacetSpellSlots))
	s.True(fin.Draft.IsFinalized())

	s.Require().Len(notified.All(), 1)
	s.Equal(1, notified.Last().Level)
	s.Equal(d.ID, notified.Last().Character.ID)
	s.Require().NotNil(notified.Last().Snapshot)
	s.Equal(1, notified.Last().Snapshot.Level)

	stored, err := s.orchestrator.GetCharacter(s.ctx, &character.GetCharacterInput{CharacterID: d.ID})
	s.Require().NoError(err)
	s.Len(stored.Character.Snapshots, 1)
	s.True(s.load(d.ID).IsFinalized())
}

func (s *OrchestratorTestSuite) TestWizardStopsAtSpells() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	s.submit(d.ID, entities.StepAbilities,
		`{"method":"standard_array","scores":{"strength":8,"dexterity":14,"constitution":13,"intelligence":15,"wisdom":12,"charisma":10}}`)
	s.submit(d.ID, entities.StepRace, testutils.HumanRace)
	s.submit(d.ID, entities.StepClass, testutils.WizardClass)
	s.submit(d.ID, entities.StepBackground, `{"backgroundId":"sage"}`)
	s.submit(d.ID, entities.StepProficiencies, `{"skills":["investigation","medicine"]}`)

	out := s.submit(d.ID, entities.StepEquipment, `{"items":[{"itemId":"quarterstaff","quantity":1},{"itemId":"spellbook","quantity":1}]}`)
	s.Empty(out.Skipped)
	s.Equal(entities.StepSpells, out.Draft.CurrentStep)
}

func (s *OrchestratorTestSuite) TestFinalizeOutsideReview() {
	d := s.start(entities.ModeBalanced)

	_, err := s.orchestrator.Finalize(s.ctx, &character.FinalizeInput{DraftID: d.ID})
	s.Require().Error(err)
	s.True(errors.IsInvalidTransition(err))
}

func (s *OrchestratorTestSuite) TestFinalizeTwice() {
	d := s.throughProficiencies()
	s.submit(d.ID, entities.StepEquipment, testutils.FighterEquipment)
	s.mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	_, err := s.orchestrator.Finalize(s.ctx, &character.FinalizeInput{DraftID: d.ID})
	s.Require().NoError(err)

	_, err = s.orchestrator.Finalize(s.ctx, &character.FinalizeInput{DraftID: d.ID})
	s.True(errors.IsInvalidTransition(err))

	_, err = s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID, Step: entities.StepReview, Payload: json.RawMessage(`{}`),
	})
	s.True(errors.IsInvalidTransition(err))
}

func (s *OrchestratorTestSuite) TestGoBackKeepsDataAndFlagsDownstream() {
	d := s.throughProficiencies()
	s.Equal(entities.StepEquipment, d.CurrentStep)

	for _, want := range []entities.Step{entities.StepProficiencies, entities.StepBackground, entities.StepClass} {
		out, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: d.ID})
		s.Require().NoError(err)
		s.Equal(want, out.Draft.CurrentStep)
		s.True(out.Draft.Facets.Has(entities.FacetProficiencies))
	}

	out := s.submit(d.ID, entities.StepClass, testutils.WizardClass)
	s.Equal(entities.StepBackground, out.Draft.CurrentStep)
	s.Contains(out.Flagged, entities.FacetProficiencies)

	stored := s.load(d.ID)
	s.NotEmpty(stored.Flags[entities.FacetProficiencies])
	s.JSONEq(testutils.FighterProficiencies, string(stored.Facets[entities.FacetProficiencies]))
	// class was appended again as the most recent commit
	last, ok := stored.LastCommittedStep()
	s.True(ok)
	s.Equal(entities.StepClass, last)
}

func (s *OrchestratorTestSuite) TestResubmitClearsFlag() {
	d := s.throughProficiencies()
	for i := 0; i < 3; i++ {
		_, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: d.ID})
		s.Require().NoError(err)
	}
	s.submit(d.ID, entities.StepClass, testutils.WizardClass)
	s.submit(d.ID, entities.StepBackground, testutils.SoldierBackground)

	out := s.submit(d.ID, entities.StepProficiencies, `{"skills":["investigation","medicine"]}`)
	s.Empty(out.Draft.Flags[entities.FacetProficiencies])
}

func (s *OrchestratorTestSuite) TestGoBackAtStart() {
	d := s.start(entities.ModeBalanced)

	_, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: d.ID})
	s.Require().Error(err)
	s.True(errors.IsInvalidTransition(err))
}

func (s *OrchestratorTestSuite) TestGoBackFromReviewSkipsSkippedSpells() {
	d := s.throughProficiencies()
	s.submit(d.ID, entities.StepEquipment, testutils.FighterEquipment)

	out, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Equal(entities.StepEquipment, out.Draft.CurrentStep)
}

func (s *OrchestratorTestSuite) TestGoBackThenResubmitIsNoOp() {
	testCases := []struct {
		name    string
		setup   func() *entities.CharacterDraft
		step    entities.Step
		payload string
	}{
		{
			name: "abilities mid sequence",
			setup: func() *entities.CharacterDraft {
				d := s.start(entities.ModeBalanced)
				s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
				s.submit(d.ID, entities.StepAbilities, testutils.FighterAbilities)
				return s.load(d.ID)
			},
			step:    entities.StepAbilities,
			payload: testutils.FighterAbilities,
		},
		{
			name:    "proficiencies before equipment",
			setup:   s.throughProficiencies,
			step:    entities.StepProficiencies,
			payload: testutils.FighterProficiencies,
		},
		{
			name: "equipment after skipped spells",
			setup: func() *entities.CharacterDraft {
				d := s.throughProficiencies()
				s.submit(d.ID, entities.StepEquipment, testutils.FighterEquipment)
				return s.load(d.ID)
			},
			step:    entities.StepEquipment,
			payload: testutils.FighterEquipment,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			before := tc.setup()

			back, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: before.ID})
			s.Require().NoError(err)
			s.Require().Equal(tc.step, back.Draft.CurrentStep)

			s.submit(before.ID, tc.step, tc.payload)

			after := s.load(before.ID)
			s.Equal(before.CurrentStep, after.CurrentStep)
			s.Equal(before.CompletedSteps, after.CompletedSteps)
			s.Equal(before.Facets, after.Facets)
			s.Empty(after.Flags)
		})
	}
}

func (s *OrchestratorTestSuite) TestSkippedSpellsKeepExistingData() {
	d := s.throughProficiencies()
	d.Facets[entities.FacetSpells] = json.RawMessage(`{"cantrips":["light"]}`)
	_, err := s.repo.Save(s.ctx, &draftrepo.SaveInput{Draft: d})
	s.Require().NoError(err)

	out := s.submit(d.ID, entities.StepEquipment, testutils.FighterEquipment)

	s.Equal([]entities.Step{entities.StepSpells}, out.Skipped)
	s.Equal(entities.StepReview, out.Draft.CurrentStep)
	s.JSONEq(`{"cantrips":["light"]}`, string(out.Draft.Facets[entities.FacetSpells]))
	s.Equal(entities.StepSpells, out.Draft.CompletedSteps[len(out.Draft.CompletedSteps)-1])
}

func (s *OrchestratorTestSuite) TestGetDraftByStep() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	s.submit(d.ID, entities.StepAbilities, testutils.FighterAbilities)

	out, err := s.orchestrator.GetDraft(s.ctx, &character.GetDraftInput{DraftID: d.ID, Step: entities.StepConcept})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, out.Draft.CurrentStep)
	s.False(out.Draft.Facets.Has(entities.FacetAbilities))
}

func (s *OrchestratorTestSuite) TestGoBackKeepsStepHistory() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, testutils.ConceptPayload)
	s.submit(d.ID, entities.StepAbilities, testutils.FighterAbilities)

	_, err := s.orchestrator.GoBack(s.ctx, &character.GoBackInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Equal(entities.StepAbilities, s.load(d.ID).CurrentStep)

	out, err := s.orchestrator.GetDraft(s.ctx, &character.GetDraftInput{DraftID: d.ID, Step: entities.StepAbilities})
	s.Require().NoError(err)
	s.Equal(entities.StepRace, out.Draft.CurrentStep)
}

func (s *OrchestratorTestSuite) TestValidateStepIsDryRun() {
	d := s.start(entities.ModeBalanced)

	out, err := s.orchestrator.ValidateStep(s.ctx, &character.ValidateStepInput{
		DraftID: d.ID,
		Step:    entities.StepConcept,
		Payload: json.RawMessage(`{"name":""}`),
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Blocking)
	s.Equal(entities.StepConcept, s.load(d.ID).CurrentStep)

	last, err := s.orchestrator.LastValidation(s.ctx, &character.LastValidationInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Equal(out.Result, last.Result)
	s.False(last.Recomputed)

	_, err = s.orchestrator.LastValidation(s.ctx, &character.LastValidationInput{DraftID: "unknown"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestLastValidationRebuiltFromStore() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, `{"name":"Brakka"}`)

	stored := s.load(d.ID)
	stored.Facets[entities.FacetConcept] = json.RawMessage(`{"name":""}`)
	_, err := s.repo.Save(s.ctx, &draftrepo.SaveInput{Draft: stored, CursorOnly: true})
	s.Require().NoError(err)

	fresh := s.newOrchestrator(0)
	last, err := fresh.LastValidation(s.ctx, &character.LastValidationInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.True(last.Recomputed)
	s.Contains(last.Result.LegalChoices, "point_buy")
	s.Require().Len(last.Result.Violations, 1)
	s.Equal("NAME_REQUIRED", last.Result.Violations[0].Code)

	again, err := fresh.LastValidation(s.ctx, &character.LastValidationInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.False(again.Recomputed)
	s.Equal(last.Result, again.Result)
}

func (s *OrchestratorTestSuite) TestLastValidationCacheIsBounded() {
	o := s.newOrchestrator(1)
	first := s.start(entities.ModeBalanced)
	second := s.start(entities.ModeBalanced)

	for _, id := range []string{first.ID, second.ID} {
		_, err := o.ValidateStep(s.ctx, &character.ValidateStepInput{
			DraftID: id,
			Step:    entities.StepConcept,
			Payload: json.RawMessage(`{"name":"Brakka"}`),
		})
		s.Require().NoError(err)
	}

	last, err := o.LastValidation(s.ctx, &character.LastValidationInput{DraftID: second.ID})
	s.Require().NoError(err)
	s.False(last.Recomputed)

	evicted, err := o.LastValidation(s.ctx, &character.LastValidationInput{DraftID: first.ID})
	s.Require().NoError(err)
	s.True(evicted.Recomputed)
}

func (s *OrchestratorTestSuite) TestLastValidationRequiresDraftID() {
	_, err := s.orchestrator.LastValidation(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.LastValidation(s.ctx, &character.LastValidationInput{})
	s.True(errors.IsInvalidArgument(err))
}

// expectRolls queues one RollN(4, 6) result per entry
func (s *OrchestratorTestSuite) expectRolls(rolls ...[]int) {
	calls := make([]any, 0, len(rolls))
	for _, r := range rolls {
		calls = append(calls, s.mockRoller.EXPECT().RollN(4, 6).Return(r, nil))
	}
	gomock.InOrder(calls...)
}

func (s *OrchestratorTestSuite) TestRollAbilityScores() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, `{"name":"Brakka"}`)
	s.expectRolls(
		[]int{1, 4, 5, 6},
		[]int{6, 6, 4, 2},
		[]int{3, 4, 5, 2},
		[]int{2, 2, 3, 1},
		[]int{5, 5, 4, 3},
		[]int{6, 3, 1, 1},
	)

	out, err := s.orchestrator.RollAbilityScores(s.ctx, &character.RollAbilityScoresInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Session.Rolls, 6)
	s.Equal(entities.AbilityRoll{ID: d.ID + "_roll_1", Kept: []int{4, 5, 6}, Dropped: 1, Total: 15}, out.Session.Rolls[0])
	s.Equal([]int{16, 15, 14, 12, 10, 7}, out.Session.Totals())

	stored, err := s.repo.LoadRollSession(s.ctx, &draftrepo.LoadRollSessionInput{DraftID: d.ID})
	s.Require().NoError(err)
	s.Equal(out.Session, stored.Session)

	cheated, err := s.orchestrator.ValidateStep(s.ctx, &character.ValidateStepInput{
		DraftID: d.ID,
		Step:    entities.StepAbilities,
		Payload: json.RawMessage(`{"method":"rolled","scores":{"strength":18,"dexterity":15,"constitution":14,"intelligence":12,"wisdom":10,"charisma":7}}`),
	})
	s.Require().NoError(err)
	s.Require().Len(cheated.Blocking, 1)
	s.Equal("ROLLS_MISMATCH", cheated.Blocking[0].Code)

	submitted := s.submit(d.ID, entities.StepAbilities,
		`{"method":"rolled","scores":{"strength":16,"dexterity":15,"constitution":14,"intelligence":12,"wisdom":10,"charisma":7}}`)
	s.True(submitted.Committed)
	s.Equal(entities.StepRace, submitted.Draft.CurrentStep)
}

func (s *OrchestratorTestSuite) TestRolledAbilitiesNeedRolls() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, `{"name":"Brakka"}`)

	out, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
		DraftID: d.ID,
		Step:    entities.StepAbilities,
		Payload: json.RawMessage(`{"method":"rolled","scores":{"strength":16,"dexterity":15,"constitution":14,"intelligence":12,"wisdom":10,"charisma":7}}`),
	})
	s.Require().NoError(err)
	s.False(out.Committed)
	s.Require().Len(out.Blocking, 1)
	s.Equal("NO_ABILITY_ROLLS", out.Blocking[0].Code)
}

func (s *OrchestratorTestSuite) TestRollAfterAbilitiesIsRejected() {
	d := s.start(entities.ModeBalanced)
	s.submit(d.ID, entities.StepConcept, `{"name":"Brakka"}`)
	s.submit(d.ID, entities.StepAbilities, testutils.FighterAbilities)

	_, err := s.orchestrator.RollAbilityScores(s.ctx, &character.RollAbilityScoresInput{DraftID: d.ID})
	s.True(errors.IsInvalidTransition(err))

	_, err = s.orchestrator.RollAbilityScores(s.ctx, &character.RollAbilityScoresInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestConcurrentSubmitsSerialize() {
	d := s.start(entities.ModeBalanced)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		rejected  int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.orchestrator.SubmitStep(s.ctx, &character.SubmitStepInput{
				DraftID: d.ID,
				Step:    entities.StepConcept,
				Payload: json.RawMessage(testutils.ConceptPayload),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil && out.Committed {
				committed++
			} else if errors.IsInvalidTransition(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, committed)
	s.Equal(7, rejected)
	s.Equal([]entities.Step{entities.StepConcept}, s.load(d.ID).CompletedSteps)
}
