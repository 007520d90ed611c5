// Package levelup defines the level-up controller contract. A character
// gains experience or a milestone, becomes eligible, collects one validated
// choice per required facet and commits the new level as a snapshot.
package levelup

//go:generate mockgen -destination=mock/mock_service.go -package=levelupmock github.com/KirkDiggler/charforge/internal/services/levelup Service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/rules"
)

// Service defines the level-up operations
type Service interface {
	AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error)
	AwardMilestone(ctx context.Context, input *AwardMilestoneInput) (*AwardMilestoneOutput, error)

	CheckEligibility(ctx context.Context, input *CheckEligibilityInput) (*CheckEligibilityOutput, error)
	BeginLevelUp(ctx context.Context, input *BeginLevelUpInput) (*BeginLevelUpOutput, error)
	SubmitLevelChoice(ctx context.Context, input *SubmitLevelChoiceInput) (*SubmitLevelChoiceOutput, error)
	CommitLevelUp(ctx context.Context, input *CommitLevelUpInput) (*CommitLevelUpOutput, error)
	CancelLevelUp(ctx context.Context, input *CancelLevelUpInput) (*CancelLevelUpOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

// State is where a character is in the level-up flow
type State string

const (
	StateIdle            State = "idle"
	StateEvaluating      State = "evaluating"
	StateAwaitingChoices State = "awaiting_choices"
	StateCommitting      State = "committing"
)

// Session is the pending level-up of one character. Nothing in it is
// persisted until commit.
type Session struct {
	CharacterID string             `json:"characterId"`
	State       State              `json:"state"`
	Plan        *rules.LevelUpPlan `json:"plan,omitempty"`
	Choices     entities.Facets    `json:"choices,omitempty"`
	Missing     []entities.Facet   `json:"missing,omitempty"`

	// Advisories are the warnings raised by each accepted choice
	Advisories map[entities.Facet][]entities.Violation `json:"advisories,omitempty"`
	StartedAt  time.Time                              `json:"startedAt,omitzero"`
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Choices = s.Choices.Clone()
	out.Missing = append([]entities.Facet(nil), s.Missing...)
	if s.Advisories != nil {
		out.Advisories = make(map[entities.Facet][]entities.Violation, len(s.Advisories))
		for facet, violations := range s.Advisories {
			out.Advisories[facet] = append([]entities.Violation(nil), violations...)
		}
	}
	if s.Plan != nil {
		plan := *s.Plan
		out.Plan = &plan
	}
	return &out
}

// AddExperienceInput defines the request for adding experience
type AddExperienceInput struct {
	CharacterID string
	Amount      int
}

// AddExperienceOutput defines the response for adding experience
type AddExperienceOutput struct {
	Character *entities.Character
	Eligible  bool
}

// AwardMilestoneInput defines the request for awarding a milestone level
type AwardMilestoneInput struct {
	CharacterID string
}

// AwardMilestoneOutput defines the response for awarding a milestone level
type AwardMilestoneOutput struct {
	Character *entities.Character
}

// CheckEligibilityInput defines the request for checking eligibility
type CheckEligibilityInput struct {
	CharacterID string
}

// CheckEligibilityOutput defines the response for checking eligibility
type CheckEligibilityOutput struct {
	Eligible    bool
	Reason      string
	TargetLevel int
	State       State
}

// BeginLevelUpInput defines the request for starting a level up
type BeginLevelUpInput struct {
	CharacterID string
	// ClassID picks the class to advance. Empty advances the primary
	// class; a class not yet held is a multiclass.
	ClassID string
}

// BeginLevelUpOutput defines the response for starting a level up
type BeginLevelUpOutput struct {
	Plan    *rules.LevelUpPlan
	Session *Session
}

// SubmitLevelChoiceInput defines the request for one level-up choice
type SubmitLevelChoiceInput struct {
	CharacterID string
	Facet       entities.Facet
	Payload     json.RawMessage
}

// SubmitLevelChoiceOutput defines the response for one level-up choice.
// A rejected choice is discarded; earlier choices stay.
type SubmitLevelChoiceOutput struct {
	Accepted bool
	// Payload is the stored choice, including any rolled value
	Payload  json.RawMessage
	Result   *entities.ValidationResult
	Blocking []entities.Violation
	Advisory []entities.Violation
	Session  *Session
}

// CommitLevelUpInput defines the request for committing a level up
type CommitLevelUpInput struct {
	CharacterID string
}

// CommitLevelUpOutput defines the response for committing a level up
type CommitLevelUpOutput struct {
	Character *entities.Character
	Snapshot  entities.LevelSnapshot
}

// CancelLevelUpInput defines the request for abandoning a level up
type CancelLevelUpInput struct {
	CharacterID string
}

// CancelLevelUpOutput defines the response for abandoning a level up
type CancelLevelUpOutput struct {
	Discarded bool
}

// GetSessionInput defines the request for reading a pending level up
type GetSessionInput struct {
	CharacterID string
}

// GetSessionOutput defines the response for reading a pending level up
type GetSessionOutput struct {
	Session *Session
}
