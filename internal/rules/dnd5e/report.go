package dnd5e

import (
	"fmt"

	"github.com/KirkDiggler/charforge/internal/entities"
)

// Citations point players at the rule a violation comes from
const (
	citeAbilityScores = "PHB ch.1, Determining Ability Scores"
	citeRaces         = "PHB ch.2, Races"
	citeClasses       = "PHB ch.3, Classes"
	citeBackgrounds   = "PHB ch.4, Backgrounds"
	citeEquipment     = "PHB ch.5, Equipment"
	citeMulticlassing = "PHB ch.6, Multiclassing"
	citeFeats         = "PHB ch.6, Feats"
	citeCarrying      = "PHB ch.7, Lifting and Carrying"
	citeSpellcasting  = "PHB ch.10, Spellcasting"
	citeAdvancement   = "PHB ch.1, Beyond 1st Level"
)

type report struct {
	facet  entities.Facet
	result *entities.ValidationResult
}

func newReport(facet entities.Facet, legal []string) *report {
	return &report{
		facet: facet,
		result: &entities.ValidationResult{
			LegalChoices: legal,
			Violations:   []entities.Violation{},
		},
	}
}

func (r *report) add(severity entities.Severity, always bool, code, citation, format string, args ...any) {
	r.result.Violations = append(r.result.Violations, entities.Violation{
		Code:           code,
		Severity:       severity,
		Message:        fmt.Sprintf(format, args...),
		Citation:       citation,
		Facet:          r.facet,
		AlwaysBlocking: always,
	})
}

// block is a rule a FreeForAll draft may ignore
func (r *report) block(code, citation, format string, args ...any) {
	r.add(entities.SeverityBlock, false, code, citation, format, args...)
}

// impossible is a state that cannot be represented, blocking in every mode
func (r *report) impossible(code, citation, format string, args ...any) {
	r.add(entities.SeverityBlock, true, code, citation, format, args...)
}

func (r *report) warn(code, citation, format string, args ...any) {
	r.add(entities.SeverityWarn, false, code, citation, format, args...)
}

func (r *report) done() (*entities.ValidationResult, error) {
	return r.result, nil
}
