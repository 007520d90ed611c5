package entities

import (
	"encoding/json"
	"slices"
	"time"
)

// Facets maps a facet name to its ruleset shaped payload. The active
// ruleset decodes and validates payloads; entities never interpret them.
type Facets map[Facet]json.RawMessage

// Clone returns a deep copy
func (f Facets) Clone() Facets {
	if f == nil {
		return nil
	}
	out := make(Facets, len(f))
	for k, v := range f {
		out[k] = slices.Clone(v)
	}
	return out
}

// Has reports whether a non-null payload exists for facet
func (f Facets) Has(facet Facet) bool {
	raw, ok := f[facet]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// CharacterDraft is a character in creation
type CharacterDraft struct {
	ID             string                `json:"id"`
	RulesetID      string                `json:"rulesetId"`
	RulesetVersion string                `json:"rulesetVersion"`
	Mode           Mode                  `json:"mode"`
	CurrentStep    Step                  `json:"currentStep"`
	Facets         Facets                `json:"facets"`
	CompletedSteps []Step                `json:"completedSteps"`
	Flags          map[Facet][]Violation `json:"flags,omitempty"`
	Advisories     map[Facet][]Violation `json:"advisories,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// IsFinalized reports whether the draft has become a character
func (d *CharacterDraft) IsFinalized() bool {
	return d.CurrentStep == StepFinalized
}

// HasCompleted reports whether step is in CompletedSteps
func (d *CharacterDraft) HasCompleted(step Step) bool {
	return slices.Contains(d.CompletedSteps, step)
}

// LastCommittedStep returns the most recently completed step
func (d *CharacterDraft) LastCommittedStep() (Step, bool) {
	if len(d.CompletedSteps) == 0 {
		return "", false
	}
	return d.CompletedSteps[len(d.CompletedSteps)-1], true
}

// Clone returns a deep copy so callers can mutate without touching stored state
func (d *CharacterDraft) Clone() *CharacterDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.Facets = d.Facets.Clone()
	out.CompletedSteps = slices.Clone(d.CompletedSteps)
	out.Flags = cloneViolations(d.Flags)
	out.Advisories = cloneViolations(d.Advisories)
	return &out
}

// Character is a finalized, playable character
type Character struct {
	ID             string `json:"id"`
	RulesetID      string `json:"rulesetId"`
	RulesetVersion string `json:"rulesetVersion"`
	Mode           Mode   `json:"mode"`
	CurrentLevel   int    `json:"currentLevel"`
	Experience     int    `json:"experience"`
	// MilestoneLevel is the level a game master has awarded by milestone
	MilestoneLevel int             `json:"milestoneLevel,omitempty"`
	Facets         Facets          `json:"facets"`
	Snapshots      []LevelSnapshot `json:"snapshots"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Facets = c.Facets.Clone()
	out.Snapshots = make([]LevelSnapshot, len(c.Snapshots))
	for i, s := range c.Snapshots {
		out.Snapshots[i] = s.Clone()
	}
	return &out
}

// LevelSnapshot is the state a character reached at a level
type LevelSnapshot struct {
	Level     int       `json:"level"`
	Facets    Facets    `json:"facets"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy
func (s LevelSnapshot) Clone() LevelSnapshot {
	s.Facets = s.Facets.Clone()
	return s
}

func cloneViolations(in map[Facet][]Violation) map[Facet][]Violation {
	if in == nil {
		return nil
	}
	out := make(map[Facet][]Violation, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
