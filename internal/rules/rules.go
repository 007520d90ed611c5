// Package rules defines the contract between the creation and level-up state
// machines and the versioned rule data that governs them.
package rules

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/charforge/internal/entities"
)

// Validator validates a proposed facet payload against committed facets
type Validator interface {
	Validate(ctx context.Context, input *ValidateInput) (*entities.ValidationResult, error)
}

// Provider resolves rulesets by id and version
type Provider interface {
	Validator
	Get(rulesetID, version string) (Ruleset, error)
	List() []Descriptor
}

// Ruleset is one loaded (id, version) of rule data. Every method is a pure
// function of the ruleset data and its arguments.
type Ruleset interface {
	ID() string
	Version() string
	Describe() Descriptor

	// Validate checks payload for facet against the committed facets. A nil
	// payload returns the legal choices only. Payloads that cannot be decoded
	// fail with a SchemaMismatch error.
	Validate(input *ValidateInput) (*entities.ValidationResult, error)

	// GrantsSpellcasting reports whether the committed class facet can cast
	// spells at the levels it holds.
	GrantsSpellcasting(facets entities.Facets) (bool, error)

	// ExperienceThreshold is the experience needed to reach level
	ExperienceThreshold(level int) (int, bool)
	MaxLevel() int

	// Finalize derives the level 1 facets a complete draft does not carry
	Finalize(facets entities.Facets) (entities.Facets, error)

	PlanLevelUp(input *PlanInput) (*LevelUpPlan, error)
	ApplyLevelUp(input *ApplyInput) (entities.Facets, error)
}

// Descriptor names a ruleset for listings
type Descriptor struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Name    string `json:"name"`
	Source  string `json:"source,omitempty"`
}

// ValidateInput is a single facet validation request
type ValidateInput struct {
	RulesetID      string
	RulesetVersion string
	// Facets are the committed facets the proposal is checked against
	Facets  entities.Facets
	Facet   entities.Facet
	Payload json.RawMessage
	// Step is set for creation steps. Review has no facet of its own.
	Step entities.Step
	// LevelUp switches prerequisite checks to advancement semantics
	LevelUp *LevelUpContext
	// AbilityRolls are the totals the draft rolled, highest first. Nil when
	// it has not rolled.
	AbilityRolls []int
}

// LevelUpContext describes the advancement a level-up choice belongs to
type LevelUpContext struct {
	CurrentLevel int
	TargetLevel  int
	ClassID      string
	// ClassLevel is the level the advancing class reaches
	ClassLevel int
	NewClass   bool
}

// PlanInput asks a ruleset what a level up requires
type PlanInput struct {
	Facets       entities.Facets
	CurrentLevel int
	// ClassID is the class to advance. Empty advances the primary class.
	ClassID string
}

// LevelUpPlan is the reduced set of facets needing input at the target level
type LevelUpPlan struct {
	TargetLevel     int              `json:"targetLevel"`
	ClassID         string           `json:"classId"`
	ClassLevel      int              `json:"classLevel"`
	NewClass        bool             `json:"newClass"`
	HitDie          int              `json:"hitDie"`
	Required        []entities.Facet `json:"required"`
	Optional        []entities.Facet `json:"optional,omitempty"`
	GrantedFeatures []string         `json:"grantedFeatures,omitempty"`
	CantripsGained  int              `json:"cantripsGained,omitempty"`
	SpellsGained    int              `json:"spellsGained,omitempty"`
	// Carried facets keep their current value through the level up
	Carried []entities.Facet `json:"carried,omitempty"`
}

// Context returns the validation context for choices made against the plan
func (p *LevelUpPlan) Context(currentLevel int) *LevelUpContext {
	return &LevelUpContext{
		CurrentLevel: currentLevel,
		TargetLevel:  p.TargetLevel,
		ClassID:      p.ClassID,
		ClassLevel:   p.ClassLevel,
		NewClass:     p.NewClass,
	}
}

// Accepts reports whether facet is part of the plan
func (p *LevelUpPlan) Accepts(facet entities.Facet) bool {
	for _, f := range p.Required {
		if f == facet {
			return true
		}
	}
	for _, f := range p.Optional {
		if f == facet {
			return true
		}
	}
	return false
}

// Missing returns required facets not present in choices
func (p *LevelUpPlan) Missing(choices entities.Facets) []entities.Facet {
	var missing []entities.Facet
	for _, f := range p.Required {
		if !choices.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ApplyInput merges validated level-up choices into a character's facets
type ApplyInput struct {
	Facets       entities.Facets
	CurrentLevel int
	Plan         *LevelUpPlan
	Choices      entities.Facets
}
