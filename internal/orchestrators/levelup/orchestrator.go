// Package levelup implements the level-up controller
package levelup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/pkg/keylock"
	draftrepo "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/rules"
	"github.com/KirkDiggler/charforge/internal/services/levelup"
	"github.com/KirkDiggler/charforge/internal/services/notify"
)

const (
	hitPointsRoll    = "roll"
	hitPointsAverage = "average"
)

// Config holds the dependencies for the level-up controller
type Config struct {
	DraftRepo draftrepo.Repository
	Rules     rules.Provider
	Notifier  notify.Notifier
	// DiceRoller rolls hit points when a roll is requested without a value.
	// Defaults to dice.DefaultRoller.
	DiceRoller dice.Roller
	Clock      clock.Clock
	Locks      *keylock.Locks
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

	return vb.Build()
}

// Orchestrator implements the levelup.Service interface. Sessions live in
// memory; only a committed level reaches the store.
type Orchestrator struct {
	draftRepo  draftrepo.Repository
	rules      rules.Provider
	notifier   notify.Notifier
	diceRoller dice.Roller
	clock      clock.Clock
	locks      *keylock.Locks

	mu       sync.Mutex
	sessions map[string]*levelup.Session
}

// New creates a new level-up controller
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		draftRepo:  cfg.DraftRepo,
		rules:      cfg.Rules,
		notifier:   cfg.Notifier,
		diceRoller: cfg.DiceRoller,
		clock:      cfg.Clock,
		locks:      cfg.Locks,
		sessions:   make(map[string]*levelup.Session),
	}
	if o.diceRoller == nil {
		o.diceRoller = dice.DefaultRoller
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.locks == nil {
		o.locks = keylock.New()
	}
	return o, nil
}

// Ensure Orchestrator implements the Service interface
var _ levelup.Service = (*Orchestrator)(nil)

// AddExperience adds experience and persists the character. No snapshot is
// written.
func (o *Orchestrator) AddExperience(ctx context.Context, input *levelup.AddExperienceInput) (*levelup.AddExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateMin("amount", input.Amount, 1, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	char, ruleset, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	char.Experience += input.Amount
	char.UpdatedAt = o.clock.Now()
	if _, err := o.draftRepo.SaveCharacter(ctx, &draftrepo.SaveCharacterInput{Character: char}); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}

	eligible, _, _ := eligibility(ruleset, char)
	slog.Info("Experience added",
		"character_id", char.ID,
		"amount", input.Amount,
		"experience", char.Experience,
		"eligible", eligible)

	return &levelup.AddExperienceOutput{Character: char, Eligible: eligible}, nil
}

// AwardMilestone marks the character as having earned the next level
func (o *Orchestrator) AwardMilestone(ctx context.Context, input *levelup.AwardMilestoneInput) (*levelup.AwardMilestoneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	char, ruleset, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	if char.CurrentLevel >= ruleset.MaxLevel() {
		return nil, errors.NotEligible(char.ID, "already at the maximum level")
	}

	if char.MilestoneLevel <= char.CurrentLevel {
		char.MilestoneLevel = char.CurrentLevel + 1
		char.UpdatedAt = o.clock.Now()
		if _, err := o.draftRepo.SaveCharacter(ctx, &draftrepo.SaveCharacterInput{Character: char}); err != nil {
			return nil, errors.Wrap(err, "failed to save character")
		}
	}

	slog.Info("Milestone awarded", "character_id", char.ID, "milestone_level", char.MilestoneLevel)

	return &levelup.AwardMilestoneOutput{Character: char}, nil
}

// CheckEligibility reports whether the character can level up and moves an
// idle session to evaluating
func (o *Orchestrator) CheckEligibility(ctx context.Context, input *levelup.CheckEligibilityInput) (*levelup.CheckEligibilityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	char, ruleset, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	eligible, reason, target := eligibility(ruleset, char)

	o.mu.Lock()
	defer o.mu.Unlock()
	state := levelup.StateIdle
	if session, ok := o.sessions[char.ID]; ok && session.State == levelup.StateAwaitingChoices {
		state = session.State
	} else if eligible {
		o.sessions[char.ID] = &levelup.Session{CharacterID: char.ID, State: levelup.StateEvaluating}
		state = levelup.StateEvaluating
	} else {
		delete(o.sessions, char.ID)
	}

	return &levelup.CheckEligibilityOutput{
		Eligible:    eligible,
		Reason:      reason,
		TargetLevel: target,
		State:       state,
	}, nil
}

// BeginLevelUp computes the plan for the next level and starts collecting
// choices
func (o *Orchestrator) BeginLevelUp(ctx context.Context, input *levelup.BeginLevelUpInput) (*levelup.BeginLevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if session := o.session(input.CharacterID); session != nil && session.State == levelup.StateAwaitingChoices {
		return nil, errors.InvalidTransition("a level up is already in progress for %s", input.CharacterID)
	}

	char, ruleset, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	if eligible, reason, _ := eligibility(ruleset, char); !eligible {
		return nil, errors.NotEligible(char.ID, reason)
	}

	plan, err := ruleset.PlanLevelUp(&rules.PlanInput{
		Facets:       char.Facets,
		CurrentLevel: char.CurrentLevel,
		ClassID:      input.ClassID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to plan level up")
	}

	session := &levelup.Session{
		CharacterID: char.ID,
		State:       levelup.StateAwaitingChoices,
		Plan:        plan,
		Choices:     entities.Facets{},
		Missing:     plan.Missing(nil),
		StartedAt:   o.clock.Now(),
	}
	o.putSession(session)

	slog.Info("Level up started",
		"character_id", char.ID,
		"target_level", plan.TargetLevel,
		"class_id", plan.ClassID,
		"new_class", plan.NewClass,
		"required", plan.Required)

	return &levelup.BeginLevelUpOutput{Plan: plan, Session: session.Clone()}, nil
}

// SubmitLevelChoice validates one choice against the plan. A rejected choice
// is discarded and earlier choices stay.
func (o *Orchestrator) SubmitLevelChoice(ctx context.Context, input *levelup.SubmitLevelChoiceInput) (*levelup.SubmitLevelChoiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateRequired("facet", string(input.Facet), vb)
	errors.ValidatePayload("payload", input.Payload, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := o.awaiting(input.CharacterID)
	if err != nil {
		return nil, err
	}
	if !session.Plan.Accepts(input.Facet) {
		return nil, errors.InvalidArgumentf("facet %s is not part of this level up", input.Facet)
	}

	char, _, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	payload := input.Payload
	if input.Facet == entities.FacetHitPoints {
		payload, err = o.fillHitPoints(payload, session.Plan.HitDie)
		if err != nil {
			return nil, err
		}
	}

	result, err := o.rules.Validate(ctx, &rules.ValidateInput{
		RulesetID:      char.RulesetID,
		RulesetVersion: char.RulesetVersion,
		Facets:         char.Facets,
		Facet:          input.Facet,
		Payload:        payload,
		LevelUp:        session.Plan.Context(char.CurrentLevel),
	})
	if err != nil {
		return nil, err
	}

	blocking := result.Blocking(char.Mode)
	out := &levelup.SubmitLevelChoiceOutput{
		Payload:  payload,
		Result:   result,
		Blocking: blocking,
		Advisory: result.Advisory(char.Mode),
	}
	if len(blocking) > 0 {
		slog.Debug("Level choice rejected",
			"character_id", char.ID,
			"facet", input.Facet,
			"violations", len(blocking))
		out.Session = session.Clone()
		return out, nil
	}

	session.Choices[input.Facet] = payload
	session.Missing = session.Plan.Missing(session.Choices)
	if len(out.Advisory) > 0 {
		if session.Advisories == nil {
			session.Advisories = make(map[entities.Facet][]entities.Violation)
		}
		session.Advisories[input.Facet] = append([]entities.Violation(nil), out.Advisory...)
	} else {
		delete(session.Advisories, input.Facet)
	}
	o.putSession(session)

	out.Accepted = true
	out.Session = session.Clone()
	return out, nil
}

// CommitLevelUp merges the choices, appends the snapshot of the new level
// and persists the character in one transaction
func (o *Orchestrator) CommitLevelUp(ctx context.Context, input *levelup.CommitLevelUpInput) (*levelup.CommitLevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := o.awaiting(input.CharacterID)
	if err != nil {
		return nil, err
	}
	if missing := session.Plan.Missing(session.Choices); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, errors.IncompleteLevelUp(input.CharacterID, names)
	}

	char, ruleset, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	session.State = levelup.StateCommitting
	o.putSession(session)

	out, err := o.commit(ctx, char, ruleset, session)
	if err != nil {
		session.State = levelup.StateAwaitingChoices
		o.putSession(session)
		return nil, err
	}

	o.mu.Lock()
	delete(o.sessions, input.CharacterID)
	o.mu.Unlock()

	slog.Info("Level committed", "character_id", out.Character.ID, "level", out.Character.CurrentLevel)

	o.notifier.Notify(ctx, &notify.Notification{
		Kind:      notify.KindLevelCommitted,
		Character: out.Character,
		Level:     out.Character.CurrentLevel,
		Snapshot:  &out.Snapshot,
	})

	return out, nil
}

func (o *Orchestrator) commit(ctx context.Context, char *entities.Character, ruleset rules.Ruleset, session *levelup.Session) (*levelup.CommitLevelUpOutput, error) {
	facets, err := ruleset.ApplyLevelUp(&rules.ApplyInput{
		Facets:       char.Facets,
		CurrentLevel: char.CurrentLevel,
		Plan:         session.Plan,
		Choices:      session.Choices,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply level up")
	}

	now := o.clock.Now()
	snapshot := entities.LevelSnapshot{
		Level:     session.Plan.TargetLevel,
		Facets:    facets.Clone(),
		CreatedAt: now,
	}

	updated := char.Clone()
	updated.CurrentLevel = session.Plan.TargetLevel
	updated.Facets = facets
	updated.UpdatedAt = now

	if _, err := o.draftRepo.AppendSnapshot(ctx, &draftrepo.AppendSnapshotInput{
		CharacterID: updated.ID,
		Snapshot:    snapshot,
		Character:   updated,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to persist level up")
	}

	updated.Snapshots = append(updated.Snapshots, snapshot.Clone())
	return &levelup.CommitLevelUpOutput{Character: updated, Snapshot: snapshot}, nil
}

// CancelLevelUp discards pending choices. Nothing persisted changes.
func (o *Orchestrator) CancelLevelUp(ctx context.Context, input *levelup.CancelLevelUpInput) (*levelup.CancelLevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	unlock, err := o.locks.Lock(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	o.mu.Lock()
	_, existed := o.sessions[input.CharacterID]
	delete(o.sessions, input.CharacterID)
	o.mu.Unlock()

	if existed {
		slog.Info("Level up canceled", "character_id", input.CharacterID)
	}

	return &levelup.CancelLevelUpOutput{Discarded: existed}, nil
}

// GetSession returns a copy of the pending level up, or an idle session
func (o *Orchestrator) GetSession(_ context.Context, input *levelup.GetSessionInput) (*levelup.GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	session := o.session(input.CharacterID)
	if session == nil {
		session = &levelup.Session{CharacterID: input.CharacterID, State: levelup.StateIdle}
	}

	return &levelup.GetSessionOutput{Session: session}, nil
}

func (o *Orchestrator) load(ctx context.Context, characterID string) (*entities.Character, rules.Ruleset, error) {
	out, err := o.draftRepo.LoadCharacter(ctx, &draftrepo.LoadCharacterInput{ID: characterID})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load character")
	}
	ruleset, err := o.rules.Get(out.Character.RulesetID, out.Character.RulesetVersion)
	if err != nil {
		return nil, nil, err
	}
	return out.Character, ruleset, nil
}

// session returns a copy of the stored session
func (o *Orchestrator) session(characterID string) *levelup.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessions[characterID].Clone()
}

func (o *Orchestrator) putSession(session *levelup.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions[session.CharacterID] = session.Clone()
}

func (o *Orchestrator) awaiting(characterID string) (*levelup.Session, error) {
	session := o.session(characterID)
	if session == nil || session.State != levelup.StateAwaitingChoices {
		return nil, errors.InvalidTransition("no level up in progress for %s", characterID)
	}
	return session, nil
}

// fillHitPoints rolls the hit die for a roll without a value and fills in
// the fixed average when it is omitted
func (o *Orchestrator) fillHitPoints(payload json.RawMessage, hitDie int) (json.RawMessage, error) {
	var choice map[string]any
	if err := json.Unmarshal(payload, &choice); err != nil {
		return nil, errors.SchemaMismatch(string(entities.FacetHitPoints), err)
	}
	if _, has := choice["value"]; has {
		return payload, nil
	}

	switch choice["method"] {
	case hitPointsRoll:
		value, err := o.diceRoller.Roll(hitDie)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll hit points")
		}
		slog.Debug("Rolled hit points", "hit_die", fmt.Sprintf("d%d", hitDie), "value", value)
		choice["value"] = value
	case hitPointsAverage:
		choice["value"] = hitDie/2 + 1
	default:
		return payload, nil
	}

	filled, err := json.Marshal(choice)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode hit point choice")
	}
	return filled, nil
}

// eligibility decides whether char can advance and to which level
func eligibility(ruleset rules.Ruleset, char *entities.Character) (bool, string, int) {
	target := char.CurrentLevel + 1
	if char.CurrentLevel >= ruleset.MaxLevel() {
		return false, "already at the maximum level", 0
	}
	if char.MilestoneLevel >= target {
		return true, "milestone awarded", target
	}
	threshold, ok := ruleset.ExperienceThreshold(target)
	if !ok {
		return false, fmt.Sprintf("no experience threshold for level %d", target), 0
	}
	if char.Experience >= threshold {
		return true, "experience threshold reached", target
	}
	return false, fmt.Sprintf("needs %d more experience for level %d", threshold-char.Experience, target), target
}
