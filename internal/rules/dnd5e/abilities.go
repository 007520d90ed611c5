package dnd5e

import (
	"github.com/KirkDiggler/charforge/internal/entities"
)

const (
	pointBuyBudget = 27
	pointBuyMin    = 8
	pointBuyMax    = 15
	abilityCap     = 20
)

var pointBuyCost = map[int]int{8: 0, 9: 1, 10: 2, 11: 3, 12: 4, 13: 5, 14: 7, 15: 9}

var standardArray = []int{15, 14, 13, 12, 10, 8}

// modifier is floor((score - 10) / 2) for scores >= 0
func modifier(score int) int {
	return score/2 - 5
}

// racialBonuses resolves the race facet into per-ability increases
func (r *Ruleset) racialBonuses(race *racePayload) map[Ability]int {
	out := make(map[Ability]int)
	if race == nil {
		return out
	}
	def, ok := r.data.Races[race.RaceID]
	if !ok {
		return out
	}
	for a, b := range def.Bonuses {
		out[a] += b
	}
	if sub, ok := def.Subraces[race.SubraceID]; ok {
		for a, b := range sub.Bonuses {
			out[a] += b
		}
	}
	for _, a := range race.AbilityChoices {
		out[a]++
	}
	return out
}

// effectiveScores combines base scores, racial bonuses and every recorded
// improvement. ok is false when the abilities facet is not committed.
func (r *Ruleset) effectiveScores(facets entities.Facets) (map[Ability]int, bool, error) {
	abilities, ok, err := committed[abilitiesPayload](facets, entities.FacetAbilities)
	if err != nil || !ok {
		return nil, false, err
	}
	race, _, err := committed[racePayload](facets, entities.FacetRace)
	if err != nil {
		return nil, false, err
	}
	improvements, _, err := committed[improvementsFacet](facets, entities.FacetAbilityScoreImprovement)
	if err != nil {
		return nil, false, err
	}

	scores := make(map[Ability]int, len(AllAbilities))
	for _, a := range AllAbilities {
		scores[a] = abilities.Scores[a]
	}
	for a, b := range r.racialBonuses(race) {
		scores[a] += b
	}
	if improvements != nil {
		for _, entry := range improvements.History {
			for a, inc := range entry.Increases {
				scores[a] += inc
			}
		}
	}
	return scores, true, nil
}

// meetsPrerequisites reports whether scores satisfy any one group
func meetsPrerequisites(class *Class, scores map[Ability]int) bool {
	if len(class.Prerequisites) == 0 {
		return true
	}
	for _, group := range class.Prerequisites {
		met := true
		for _, req := range group {
			if scores[req.Ability] < req.Min {
				met = false
				break
			}
		}
		if met {
			return true
		}
	}
	return false
}
