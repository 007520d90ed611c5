// Package character defines the creation wizard contract: a draft walks the
// ordered creation steps, each validated against its ruleset, until it is
// finalized into a level 1 character.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/charforge/internal/services/character Service

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/charforge/internal/entities"
)

// Service defines the creation wizard operations
type Service interface {
	StartDraft(ctx context.Context, input *StartDraftInput) (*StartDraftOutput, error)
	GetDraft(ctx context.Context, input *GetDraftInput) (*GetDraftOutput, error)

	// ValidateStep is a dry run. It never changes the draft.
	ValidateStep(ctx context.Context, input *ValidateStepInput) (*ValidateStepOutput, error)
	SubmitStep(ctx context.Context, input *SubmitStepInput) (*SubmitStepOutput, error)
	GoBack(ctx context.Context, input *GoBackInput) (*GoBackOutput, error)

	// RollAbilityScores rolls six 4d6 drop lowest totals for the draft.
	// Rolling again replaces the previous rolls.
	RollAbilityScores(ctx context.Context, input *RollAbilityScoresInput) (*RollAbilityScoresOutput, error)
	Finalize(ctx context.Context, input *FinalizeInput) (*FinalizeOutput, error)

	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)

	// LastValidation returns the most recent validation result for a draft.
	// A draft this process has not validated is revalidated from its stored
	// state.
	LastValidation(ctx context.Context, input *LastValidationInput) (*LastValidationOutput, error)
}

// RollAbilityScoresInput defines the request for rolling ability scores
type RollAbilityScoresInput struct {
	DraftID string
}

// RollAbilityScoresOutput defines the response for rolling ability scores
type RollAbilityScoresOutput struct {
	Session *entities.AbilityRollSession
}

// LastValidationInput defines the request for the latest validation result
type LastValidationInput struct {
	DraftID string
}

// LastValidationOutput defines the response for the latest validation result
type LastValidationOutput struct {
	Result *entities.ValidationResult
	// Recomputed is set when Result was rebuilt from the stored draft
	Recomputed bool
}

// StartDraftInput defines the request for starting a draft
type StartDraftInput struct {
	RulesetID      string
	RulesetVersion string
	// Mode defaults to balanced
	Mode entities.Mode
}

// StartDraftOutput defines the response for starting a draft
type StartDraftOutput struct {
	Draft *entities.CharacterDraft
	// Choices are the legal choices for the first step
	Choices *entities.ValidationResult
}

// GetDraftInput defines the request for getting a draft
type GetDraftInput struct {
	DraftID string
	// Step loads the draft as of a committed step
	Step entities.Step
}

// GetDraftOutput defines the response for getting a draft
type GetDraftOutput struct {
	Draft *entities.CharacterDraft
}

// ValidateStepInput defines the request for a dry-run validation
type ValidateStepInput struct {
	DraftID string
	Step    entities.Step
	// Payload may be empty to list the legal choices only
	Payload json.RawMessage
}

// ValidateStepOutput defines the response for a dry-run validation
type ValidateStepOutput struct {
	Result   *entities.ValidationResult
	Blocking []entities.Violation
	Advisory []entities.Violation
}

// SubmitStepInput defines the request for submitting a step
type SubmitStepInput struct {
	DraftID string
	Step    entities.Step
	Payload json.RawMessage
}

// SubmitStepOutput defines the response for submitting a step. Blocking
// violations are data: when Committed is false the draft is unchanged.
type SubmitStepOutput struct {
	Draft     *entities.CharacterDraft
	Committed bool
	Result    *entities.ValidationResult
	Blocking  []entities.Violation
	Advisory  []entities.Violation
	// Flagged lists downstream facets the commit invalidated
	Flagged []entities.Facet
	// Skipped lists steps passed over automatically
	Skipped []entities.Step
}

// GoBackInput defines the request for moving back a step
type GoBackInput struct {
	DraftID string
}

// GoBackOutput defines the response for moving back a step
type GoBackOutput struct {
	Draft *entities.CharacterDraft
}

// FinalizeInput defines the request for finalizing a draft
type FinalizeInput struct {
	DraftID string
}

// FinalizeOutput defines the response for finalizing a draft. When Finalized
// is false nothing was written and Blocking says why.
type FinalizeOutput struct {
	Finalized bool
	Character *entities.Character
	Draft     *entities.CharacterDraft
	Result    *entities.ValidationResult
	Blocking  []entities.Violation
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
}
