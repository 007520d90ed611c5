package dnd5e

import (
	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

// Finalize implements rules.Ruleset. It normalizes the class facet to level 1
// and derives hit points, features and spell slots.
func (r *Ruleset) Finalize(facets entities.Facets) (entities.Facets, error) {
	classes, ok, err := committed[classPayload](facets, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	if !ok || len(classes.Classes) == 0 {
		return nil, errors.FailedPrecondition("class facet is required to finalize")
	}
	scores, ok, err := r.effectiveScores(facets)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.FailedPrecondition("abilities facet is required to finalize")
	}

	for i := range classes.Classes {
		classes.Classes[i].Level = 1
	}

	primary, ok := r.data.Classes[classes.Classes[0].ClassID]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown class %q", classes.Classes[0].ClassID)
	}

	hp := hitPointsFacet{
		Max: max(1, primary.HitDie+modifier(scores[Constitution])),
		History: []hitPointEntry{{
			Level: 1, ClassID: primary.ID, Method: "max", Value: primary.HitDie,
		}},
	}

	features := featuresFacet{Features: []grantedFeature{}}
	for _, entry := range classes.Classes {
		class, ok := r.data.Classes[entry.ClassID]
		if !ok {
			continue
		}
		for _, feat := range class.Features[1] {
			features.Features = append(features.Features, grantedFeature{
				ID: feat.ID, Name: feat.Name, ClassID: class.ID, Level: 1,
			})
		}
	}

	out := facets.Clone()
	for facet, v := range map[entities.Facet]any{
		entities.FacetClass:      classes,
		entities.FacetHitPoints:  hp,
		entities.FacetFeatures:   features,
		entities.FacetSpellSlots: r.spellSlots(classes),
	} {
		if err := put(out, facet, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
