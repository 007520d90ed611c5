// Package dnd5e is the built-in fifth edition reference ruleset.
package dnd5e

import (
	"sort"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/rules"
)

// Built-in ruleset identity
const (
	RulesetID      = "dnd5e"
	RulesetVersion = "1.0"
)

// Ruleset validates drafts and characters against Data
type Ruleset struct {
	id      string
	version string
	name    string
	source  string
	data    *Data
}

// Config names a ruleset built from custom data
type Config struct {
	ID      string
	Version string
	Name    string
	Source  string
	Data    *Data
}

// Validate ensures the config is complete
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", c.ID, vb)
	errors.ValidateRequired("version", c.Version, vb)
	if c.Data == nil {
		vb.RequiredField("data")
	} else if len(c.Data.Experience) == 0 {
		vb.InvalidField("data", "experience table is empty")
	}
	return vb.Build()
}

// New returns the built-in ruleset
func New() *Ruleset {
	return &Ruleset{
		id:      RulesetID,
		version: RulesetVersion,
		name:    "Fifth Edition (built in)",
		source:  "builtin",
		data:    DefaultData(),
	}
}

// NewWithData builds a ruleset over custom data
func NewWithData(cfg *Config) (*Ruleset, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}
	return &Ruleset{
		id:      cfg.ID,
		version: cfg.Version,
		name:    name,
		source:  cfg.Source,
		data:    cfg.Data,
	}, nil
}

// ID implements rules.Ruleset
func (r *Ruleset) ID() string { return r.id }

// Version implements rules.Ruleset
func (r *Ruleset) Version() string { return r.version }

// Describe implements rules.Ruleset
func (r *Ruleset) Describe() rules.Descriptor {
	return rules.Descriptor{ID: r.id, Version: r.version, Name: r.name, Source: r.source}
}

// MaxLevel implements rules.Ruleset
func (r *Ruleset) MaxLevel() int {
	return len(r.data.Experience)
}

// ExperienceThreshold implements rules.Ruleset
func (r *Ruleset) ExperienceThreshold(level int) (int, bool) {
	if level < 1 || level > len(r.data.Experience) {
		return 0, false
	}
	return r.data.Experience[level-1], true
}

// Validate implements rules.Ruleset
func (r *Ruleset) Validate(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.LevelUp != nil {
		return r.validateLevelUp(input)
	}

	step := input.Step
	if step == "" {
		var ok bool
		step, ok = input.Facet.Step()
		if !ok {
			return nil, errors.InvalidArgumentf("facet %q is not a creation facet", input.Facet)
		}
	}

	switch step {
	case entities.StepConcept:
		return r.validateConcept(input)
	case entities.StepAbilities:
		return r.validateAbilities(input)
	case entities.StepRace:
		return r.validateRace(input)
	case entities.StepClass:
		return r.validateClass(input)
	case entities.StepBackground:
		return r.validateBackground(input)
	case entities.StepProficiencies:
		return r.validateProficiencies(input)
	case entities.StepEquipment:
		return r.validateEquipment(input)
	case entities.StepSpells:
		return r.validateSpells(input)
	case entities.StepReview:
		return r.validateReview(input)
	default:
		return nil, errors.InvalidArgumentf("unknown step %q", step)
	}
}

// GrantsSpellcasting implements rules.Ruleset
func (r *Ruleset) GrantsSpellcasting(facets entities.Facets) (bool, error) {
	classes, ok, err := committed[classPayload](facets, entities.FacetClass)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	for _, entry := range classes.Classes {
		class, ok := r.data.Classes[entry.ClassID]
		if !ok || class.Spellcasting == nil {
			continue
		}
		if classLevel(entry) >= class.Spellcasting.StartLevel {
			return true, nil
		}
	}
	return false, nil
}

func classLevel(entry classEntry) int {
	if entry.Level < 1 {
		return 1
	}
	return entry.Level
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// duplicates returns values that appear more than once, in first-seen order
func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	var out []string
	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			out = append(out, v)
		}
	}
	return out
}

var _ rules.Ruleset = (*Ruleset)(nil)
