// Package character implements the creation wizard
package character

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/pkg/idgen"
	"github.com/KirkDiggler/charforge/internal/pkg/keylock"
	draftrepo "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/rules"
	"github.com/KirkDiggler/charforge/internal/services/character"
	"github.com/KirkDiggler/charforge/internal/services/notify"
)

// Config holds the dependencies for the creation wizard
type Config struct {
	DraftRepo   draftrepo.Repository
	Rules       rules.Provider
	Notifier    notify.Notifier
	IDGenerator idgen.Generator
	Clock       clock.Clock
	// Locks serializes work per draft. Share it with the level-up
	// controller so one id is never mutated by both at once.
	Locks *keylock.Locks
	// DiceRoller rolls ability scores. Defaults to dice.DefaultRoller.
	DiceRoller dice.Roller
	// ResultCacheSize caps how many drafts keep a validation result in
	// memory. Defaults to 512.
	ResultCacheSize int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DraftRepo == nil {
		vb.RequiredField("DraftRepo")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	errors.ValidateMin("ResultCacheSize", c.ResultCacheSize, 0, vb)

	return vb.Build()
}

// Orchestrator implements the character.Service interface
type Orchestrator struct {
	draftRepo draftrepo.Repository
	rules     rules.Provider
	notifier  notify.Notifier
	idGen     idgen.Generator
	clock     clock.Clock
	locks     *keylock.Locks
	roller    dice.Roller
	results   *resultCache
}

// New creates a new creation wizard
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		draftRepo: cfg.DraftRepo,
		rules:     cfg.Rules,
		notifier:  cfg.Notifier,
		idGen:     cfg.IDGenerator,
		clock:     cfg.Clock,
		locks:     cfg.Locks,
		roller:    cfg.DiceRoller,
		results:   newResultCache(cfg.ResultCacheSize),
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.locks == nil {
		o.locks = keylock.New()
	}
	if o.roller == nil {
		o.roller = dice.DefaultRoller
	}
	return o, nil
}

const abilityRollCount = 6

// Ensure Orchestrator implements the Service interface
var _ character.Service = (*Orchestrator)(nil)

// StartDraft creates a draft positioned at the first creation step
func (o *Orchestrator) StartDraft(ctx context.Context, input *character.StartDraftInput) (*character.StartDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	mode := input.Mode
	if mode == "" {
		mode = entities.ModeBalanced
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("rulesetID", input.RulesetID, vb)
	errors.ValidateRequired("rulesetVersion", input.RulesetVersion, vb)
	errors.ValidateEnum("mode", mode, []entities.Mode{entities.ModeBalanced, entities.ModeFreeForAll}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.rules.Get(input.RulesetID, input.RulesetVersion); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	draft := &entities.CharacterDraft{
		ID:             o.idGen.Generate(),
		RulesetID:      input.RulesetID,
		RulesetVersion: input.RulesetVersion,
		Mode:           mode,
		CurrentStep:    entities.CreationSteps[0],
		Facets:         entities.Facets{},
		CompletedSteps: []entities.Step{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	choices, err := o.rules.Validate(ctx, &rules.ValidateInput{
		RulesetID:      draft.RulesetID,
		RulesetVersion: draft.RulesetVersion,
		Facets:         draft.Facets,
		Facet:          draft.CurrentStep.Facet(),
		Step:           draft.CurrentStep,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list first step choices")
	}

	if _, err := o.draftRepo.Save(ctx, &draftrepo.SaveInput{Draft: draft}); err != nil {
		return nil, errors.Wrap(err, "failed to save draft")
	}

	slog.Info("Draft started",
		"draft_id", draft.ID,
		"ruleset_id", draft.RulesetID,
		"ruleset_version", draft.RulesetVersion,
		"mode", draft.Mode)

	return &character.StartDraftOutput{Draft: draft, Choices: choices}, nil
}

// GetDraft retrieves a draft, optionally as of a committed step
func (o *Orchestrator) GetDraft(ctx context.Context, input *character.GetDraftInput) (*character.GetDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if input.Step != "" && !input.Step.IsValid() {
		vb.InvalidField("step", "not a creation step")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.draftRepo.Load(ctx, &draftrepo.LoadInput{ID: input.DraftID, Step: input.Step})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get draft")
	}

	return &character.GetDraftOutput{Draft: out.Draft}, nil
}

// ValidateStep runs the ruleset against a proposed payload without committing
func (o *Orchestrator) ValidateStep(ctx context.Context, input *character.ValidateStepInput) (*character.ValidateStepOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateStepInput(input.DraftID, input.Step); err != nil {
		return nil, err
	}

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	result, err := o.validate(ctx, draft, draft.Facets, input.Step, input.Payload)
	if err != nil {
		return nil, err
	}
	o.remember(draft.ID, result)

	return &character.ValidateStepOutput{
		Result:   result,
		Blocking: result.Blocking(draft.Mode),
		Advisory: result.Advisory(draft.Mode),
	}, nil
}

// SubmitStep validates and commits the current step
func (o *Orchestrator) SubmitStep(ctx context.Context, input *character.SubmitStepInput) (*character.SubmitStepOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateStepInput(input.DraftID, input.Step); err != nil {
		return nil, err
	}
	vb := errors.NewValidationBuilder()
	errors.ValidatePayload("payload", input.Payload, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.IsFinalized() {
		return nil, errors.InvalidTransition("draft %s is already finalized", draft.ID)
	}
	if input.Step != draft.CurrentStep {
		return nil, errors.InvalidTransition("cannot submit %s: current step is %s", input.Step, draft.CurrentStep)
	}
	if input.Step == entities.StepReview {
		return nil, errors.InvalidTransition("review is completed by finalizing the draft")
	}

	result, err := o.validate(ctx, draft, draft.Facets, input.Step, input.Payload)
	if err != nil {
		return nil, err
	}
	o.remember(draft.ID, result)

	blocking := result.Blocking(draft.Mode)
	advisory := result.Advisory(draft.Mode)
	if len(blocking) > 0 {
		slog.Debug("Step rejected",
			"draft_id", draft.ID,
			"step", input.Step,
			"violations", len(blocking))
		return &character.SubmitStepOutput{
			Draft:    draft,
			Result:   result,
			Blocking: blocking,
			Advisory: advisory,
		}, nil
	}

	updated := draft.Clone()
	facet := input.Step.Facet()
	updated.Facets[facet] = input.Payload
	completeStep(updated, input.Step)
	setViolations(&updated.Advisories, facet, advisory)
	setViolations(&updated.Flags, facet, nil)

	flagged, err := o.revalidateDownstream(ctx, updated, input.Step)
	if err != nil {
		return nil, err
	}

	updated.CurrentStep = input.Step.Next()
	skipped, err := o.skipSpells(updated)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = o.clock.Now()

	if _, err := o.draftRepo.Save(ctx, &draftrepo.SaveInput{Draft: updated}); err != nil {
		return nil, errors.Wrap(err, "failed to save draft")
	}

	slog.Info("Step committed",
		"draft_id", updated.ID,
		"step", input.Step,
		"next_step", updated.CurrentStep,
		"flagged", len(flagged))

	return &character.SubmitStepOutput{
		Draft:     updated,
		Committed: true,
		Result:    result,
		Advisory:  advisory,
		Flagged:   flagged,
		Skipped:   skipped,
	}, nil
}

// GoBack moves to the latest completed step before the current one. Facet
// data is kept.
func (o *Orchestrator) GoBack(ctx context.Context, input *character.GoBackInput) (*character.GoBackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.IsFinalized() {
		return nil, errors.InvalidTransition("draft %s is already finalized", draft.ID)
	}

	target, ok, err := o.previousStep(draft)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.InvalidTransition("no completed step before %s", draft.CurrentStep)
	}

	updated := draft.Clone()
	updated.CurrentStep = target
	updated.UpdatedAt = o.clock.Now()

	if _, err := o.draftRepo.Save(ctx, &draftrepo.SaveInput{Draft: updated, CursorOnly: true}); err != nil {
		return nil, errors.Wrap(err, "failed to save draft")
	}

	slog.Debug("Moved back", "draft_id", updated.ID, "from", draft.CurrentStep, "to", target)

	return &character.GoBackOutput{Draft: updated}, nil
}

// Finalize re-validates every facet and turns the draft into a level 1
// character. The character, its first snapshot and the finalized draft are
// written in one transaction.
func (o *Orchestrator) Finalize(ctx context.Context, input *character.FinalizeInput) (*character.FinalizeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.IsFinalized() {
		return nil, errors.InvalidTransition("draft %s is already finalized", draft.ID)
	}
	if draft.CurrentStep != entities.StepReview {
		return nil, errors.InvalidTransition("cannot finalize at %s: the draft must be at review", draft.CurrentStep)
	}

	result, err := o.validateAll(ctx, draft)
	if err != nil {
		return nil, err
	}
	o.remember(draft.ID, result)

	if blocking := result.Blocking(draft.Mode); len(blocking) > 0 {
		slog.Debug("Finalize rejected", "draft_id", draft.ID, "violations", len(blocking))
		return &character.FinalizeOutput{
			Draft:    draft,
			Result:   result,
			Blocking: blocking,
		}, nil
	}

	ruleset, err := o.rules.Get(draft.RulesetID, draft.RulesetVersion)
	if err != nil {
		return nil, err
	}
	facets, err := ruleset.Finalize(draft.Facets)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive level 1 facets")
	}

	now := o.clock.Now()
	snapshot := entities.LevelSnapshot{Level: 1, Facets: facets.Clone(), CreatedAt: now}
	char := &entities.Character{
		ID:             draft.ID,
		RulesetID:      draft.RulesetID,
		RulesetVersion: draft.RulesetVersion,
		Mode:           draft.Mode,
		CurrentLevel:   1,
		Facets:         facets,
		Snapshots:      []entities.LevelSnapshot{snapshot},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	finalized := draft.Clone()
	completeStep(finalized, entities.StepReview)
	finalized.CurrentStep = entities.StepFinalized
	finalized.UpdatedAt = now

	if _, err := o.draftRepo.AppendSnapshot(ctx, &draftrepo.AppendSnapshotInput{
		CharacterID: char.ID,
		Snapshot:    snapshot,
		Character:   char,
		Draft:       finalized,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to persist finalized character")
	}

	slog.Info("Draft finalized", "draft_id", draft.ID, "character_id", char.ID)

	o.notifier.Notify(ctx, &notify.Notification{
		Kind:      notify.KindFinalized,
		Character: char,
		Level:     1,
		Snapshot:  &snapshot,
	})

	return &character.FinalizeOutput{
		Finalized: true,
		Character: char,
		Draft:     finalized,
		Result:    result,
	}, nil
}

// RollAbilityScores rolls six 4d6 drop lowest totals and stores them for the
// draft. Rolls can be replaced until abilities is passed.
func (o *Orchestrator) RollAbilityScores(ctx context.Context, input *character.RollAbilityScoresInput) (*character.RollAbilityScoresOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.IsFinalized() {
		return nil, errors.InvalidTransition("draft %s is already finalized", draft.ID)
	}
	if draft.CurrentStep.Index() > entities.StepAbilities.Index() {
		return nil, errors.InvalidTransition("cannot roll at %s: go back to abilities first", draft.CurrentStep)
	}

	session := &entities.AbilityRollSession{
		DraftID:   draft.ID,
		Rolls:     make([]entities.AbilityRoll, 0, abilityRollCount),
		CreatedAt: o.clock.Now(),
	}
	for i := range abilityRollCount {
		roll, err := o.rollAbility()
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll ability score")
		}
		roll.ID = fmt.Sprintf("%s_roll_%d", draft.ID, i+1)
		session.Rolls = append(session.Rolls, roll)
	}

	if _, err := o.draftRepo.SaveRollSession(ctx, &draftrepo.SaveRollSessionInput{Session: session}); err != nil {
		return nil, errors.Wrap(err, "failed to save ability rolls")
	}

	slog.Info("Ability scores rolled", "draft_id", draft.ID, "totals", session.Totals())

	return &character.RollAbilityScoresOutput{Session: session}, nil
}

// rollAbility rolls 4d6 and drops the lowest die
func (o *Orchestrator) rollAbility() (entities.AbilityRoll, error) {
	rolled, err := o.roller.RollN(4, 6)
	if err != nil {
		return entities.AbilityRoll{}, err
	}
	slices.Sort(rolled)

	roll := entities.AbilityRoll{Dropped: rolled[0], Kept: slices.Clone(rolled[1:])}
	for _, d := range roll.Kept {
		roll.Total += d
	}
	return roll, nil
}

// GetCharacter retrieves a finalized character with its snapshots
func (o *Orchestrator) GetCharacter(ctx context.Context, input *character.GetCharacterInput) (*character.GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.draftRepo.LoadCharacter(ctx, &draftrepo.LoadCharacterInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character")
	}

	return &character.GetCharacterOutput{Character: out.Character}, nil
}

// LastValidation returns the most recent result computed for a draft. On a
// miss the result is rebuilt from the stored draft and cached.
func (o *Orchestrator) LastValidation(ctx context.Context, input *character.LastValidationInput) (*character.LastValidationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", input.DraftID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if result, ok := o.results.get(input.DraftID); ok {
		return &character.LastValidationOutput{Result: result}, nil
	}

	draft, err := o.loadDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}
	result, err := o.revalidate(ctx, draft)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to revalidate draft %s", draft.ID)
	}
	o.remember(draft.ID, result)

	slog.Debug("Validation rebuilt from store", "draft_id", draft.ID, "step", draft.CurrentStep)

	return &character.LastValidationOutput{Result: result, Recomputed: true}, nil
}

func (o *Orchestrator) remember(draftID string, result *entities.ValidationResult) {
	o.results.put(draftID, result)
}

// revalidate checks every committed facet and lists the choices for the
// step the draft is on. Drafts at review get the full finalize check.
func (o *Orchestrator) revalidate(ctx context.Context, draft *entities.CharacterDraft) (*entities.ValidationResult, error) {
	if draft.CurrentStep == entities.StepReview || draft.IsFinalized() {
		return o.validateAll(ctx, draft)
	}

	merged, err := o.validate(ctx, draft, draft.Facets, draft.CurrentStep, draft.Facets[draft.CurrentStep.Facet()])
	if err != nil {
		return nil, err
	}
	for _, step := range entities.CreationSteps {
		facet := step.Facet()
		if facet == "" || step == draft.CurrentStep || !draft.Facets.Has(facet) {
			continue
		}
		result, err := o.validate(ctx, draft, draft.Facets, step, draft.Facets[facet])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to revalidate %s", facet)
		}
		merged.Violations = append(merged.Violations, result.Violations...)
	}
	return merged, nil
}

func (o *Orchestrator) loadDraft(ctx context.Context, id string) (*entities.CharacterDraft, error) {
	out, err := o.draftRepo.Load(ctx, &draftrepo.LoadInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load draft")
	}
	return out.Draft, nil
}

func (o *Orchestrator) validate(
	ctx context.Context,
	draft *entities.CharacterDraft,
	facets entities.Facets,
	step entities.Step,
	payload json.RawMessage,
) (*entities.ValidationResult, error) {
	var rolls []int
	if step == entities.StepAbilities && len(payload) > 0 {
		var err error
		if rolls, err = o.abilityRolls(ctx, draft.ID); err != nil {
			return nil, err
		}
	}

	result, err := o.rules.Validate(ctx, &rules.ValidateInput{
		RulesetID:      draft.RulesetID,
		RulesetVersion: draft.RulesetVersion,
		Facets:         facets,
		Facet:          step.Facet(),
		Payload:        payload,
		Step:           step,
		AbilityRolls:   rolls,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &entities.ValidationResult{}
	}
	return result, nil
}

// abilityRolls returns the draft's roll totals, or nil when it has not rolled
func (o *Orchestrator) abilityRolls(ctx context.Context, draftID string) ([]int, error) {
	out, err := o.draftRepo.LoadRollSession(ctx, &draftrepo.LoadRollSessionInput{DraftID: draftID})
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ability rolls")
	}
	return out.Session.Totals(), nil
}

// revalidateDownstream checks every committed facet after step against the
// updated draft. Newly invalid facets are flagged, never cleared.
func (o *Orchestrator) revalidateDownstream(ctx context.Context, draft *entities.CharacterDraft, step entities.Step) ([]entities.Facet, error) {
	var flagged []entities.Facet
	for _, later := range entities.CreationSteps[step.Index()+1:] {
		facet := later.Facet()
		if facet == "" || !draft.Facets.Has(facet) {
			continue
		}
		result, err := o.validate(ctx, draft, draft.Facets, later, draft.Facets[facet])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to revalidate %s", facet)
		}
		blocking := result.Blocking(draft.Mode)
		setViolations(&draft.Flags, facet, blocking)
		if len(blocking) > 0 {
			flagged = append(flagged, facet)
		}
	}
	return flagged, nil
}

// validateAll re-validates every committed creation facet and then the
// review rules
func (o *Orchestrator) validateAll(ctx context.Context, draft *entities.CharacterDraft) (*entities.ValidationResult, error) {
	merged := &entities.ValidationResult{}
	for _, step := range entities.CreationSteps {
		facet := step.Facet()
		if facet == "" || !draft.Facets.Has(facet) {
			continue
		}
		result, err := o.validate(ctx, draft, draft.Facets, step, draft.Facets[facet])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to revalidate %s", facet)
		}
		merged.Violations = append(merged.Violations, result.Violations...)
	}

	review, err := o.validate(ctx, draft, draft.Facets, entities.StepReview, nil)
	if err != nil {
		return nil, err
	}
	merged.Merge(review)
	return merged, nil
}

// skipSpells passes over the spells step when no class grants spellcasting.
// Existing spells data is kept; an empty payload is recorded otherwise.
func (o *Orchestrator) skipSpells(draft *entities.CharacterDraft) ([]entities.Step, error) {
	if draft.CurrentStep != entities.StepSpells {
		return nil, nil
	}
	grants, err := o.grantsSpellcasting(draft)
	if err != nil {
		return nil, err
	}
	if grants {
		return nil, nil
	}

	if !draft.Facets.Has(entities.FacetSpells) {
		draft.Facets[entities.FacetSpells] = json.RawMessage(`{}`)
	}
	completeStep(draft, entities.StepSpells)
	draft.CurrentStep = entities.StepSpells.Next()
	return []entities.Step{entities.StepSpells}, nil
}

func (o *Orchestrator) grantsSpellcasting(draft *entities.CharacterDraft) (bool, error) {
	ruleset, err := o.rules.Get(draft.RulesetID, draft.RulesetVersion)
	if err != nil {
		return false, err
	}
	grants, err := ruleset.GrantsSpellcasting(draft.Facets)
	if err != nil {
		return false, errors.Wrap(err, "failed to check spellcasting")
	}
	return grants, nil
}

// previousStep finds the latest completed step before the current one. A
// spells step that was skipped for lack of spellcasting is passed over.
func (o *Orchestrator) previousStep(draft *entities.CharacterDraft) (entities.Step, bool, error) {
	current := draft.CurrentStep.Index()
	for i := current - 1; i >= 0; i-- {
		step := entities.CreationSteps[i]
		if !draft.HasCompleted(step) {
			continue
		}
		if step == entities.StepSpells {
			grants, err := o.grantsSpellcasting(draft)
			if err != nil {
				return "", false, err
			}
			if !grants {
				continue
			}
		}
		return step, true, nil
	}
	return "", false, nil
}

func validateStepInput(draftID string, step entities.Step) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("draftID", draftID, vb)
	if !step.IsValid() {
		vb.InvalidField("step", "not a creation step")
	}
	return vb.Build()
}

// completeStep moves step to the end of CompletedSteps
func completeStep(draft *entities.CharacterDraft, step entities.Step) {
	draft.CompletedSteps = slices.DeleteFunc(draft.CompletedSteps, func(s entities.Step) bool { return s == step })
	draft.CompletedSteps = append(draft.CompletedSteps, step)
}

func setViolations(target *map[entities.Facet][]entities.Violation, facet entities.Facet, violations []entities.Violation) {
	if len(violations) == 0 {
		if *target != nil {
			delete(*target, facet)
			if len(*target) == 0 {
				*target = nil
			}
		}
		return
	}
	if *target == nil {
		*target = make(map[entities.Facet][]entities.Violation)
	}
	(*target)[facet] = violations
}
