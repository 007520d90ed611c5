// Package builders provides test data builders for creating test fixtures
package builders

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
)

// CharacterDraftBuilder provides a fluent interface for building test CharacterDraft instances
type CharacterDraftBuilder struct {
	draft *entities.CharacterDraft
}

// NewCharacterDraftBuilder creates a balanced draft at the concept step
func NewCharacterDraftBuilder() *CharacterDraftBuilder {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &CharacterDraftBuilder{
		draft: &entities.CharacterDraft{
			ID:             "draft-test-123",
			RulesetID:      dnd5e.RulesetID,
			RulesetVersion: dnd5e.RulesetVersion,
			Mode:           entities.ModeBalanced,
			CurrentStep:    entities.StepConcept,
			Facets:         entities.Facets{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

// WithID sets the draft ID
func (b *CharacterDraftBuilder) WithID(id string) *CharacterDraftBuilder {
	b.draft.ID = id
	return b
}

// WithMode sets the validation mode
func (b *CharacterDraftBuilder) WithMode(mode entities.Mode) *CharacterDraftBuilder {
	b.draft.Mode = mode
	return b
}

// WithRuleset sets the ruleset the draft is validated against
func (b *CharacterDraftBuilder) WithRuleset(id, version string) *CharacterDraftBuilder {
	b.draft.RulesetID = id
	b.draft.RulesetVersion = version
	return b
}

// WithStep commits payload for step and moves to the step after it
func (b *CharacterDraftBuilder) WithStep(step entities.Step, payload string) *CharacterDraftBuilder {
	b.draft.Facets[step.Facet()] = json.RawMessage(payload)
	if !b.draft.HasCompleted(step) {
		b.draft.CompletedSteps = append(b.draft.CompletedSteps, step)
	}
	b.draft.CurrentStep = step.Next()
	return b
}

// AtStep moves the cursor without committing anything
func (b *CharacterDraftBuilder) AtStep(step entities.Step) *CharacterDraftBuilder {
	b.draft.CurrentStep = step
	return b
}

// WithFlag marks facet as needing review
func (b *CharacterDraftBuilder) WithFlag(facet entities.Facet, v entities.Violation) *CharacterDraftBuilder {
	if b.draft.Flags == nil {
		b.draft.Flags = map[entities.Facet][]entities.Violation{}
	}
	b.draft.Flags[facet] = append(b.draft.Flags[facet], v)
	return b
}

// Finalized marks the draft as finalized
func (b *CharacterDraftBuilder) Finalized() *CharacterDraftBuilder {
	b.draft.CurrentStep = entities.StepFinalized
	return b
}

// Build returns a copy of the draft
func (b *CharacterDraftBuilder) Build() *entities.CharacterDraft {
	return b.draft.Clone()
}
