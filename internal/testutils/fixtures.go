package testutils

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
)

// Creation payloads for a human fighter built with the standard array
const (
	ConceptPayload       = `{"name":"Brakka","alignment":"lawful-good"}`
	FighterAbilities     = `{"method":"standard_array","scores":{"strength":15,"dexterity":14,"constitution":13,"intelligence":8,"wisdom":12,"charisma":10}}`
	HumanRace            = `{"raceId":"human"}`
	FighterClass         = `{"classes":[{"classId":"fighter","level":1}]}`
	WizardClass          = `{"classes":[{"classId":"wizard","level":1}]}`
	SoldierBackground    = `{"backgroundId":"soldier"}`
	FighterProficiencies = `{"skills":["perception","survival"]}`
	FighterEquipment     = `{"items":[{"itemId":"chain-mail","quantity":1},{"itemId":"longsword","quantity":1},{"itemId":"shield","quantity":1}]}`
)

// FixedTime is the clock start used by fixtures
var FixedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// FighterFacets returns the facets of the fixture fighter at level. Only
// the class facet tracks the level; hit points stay at their level 1 value.
func FighterFacets(level int) (entities.Facets, error) {
	facets, err := dnd5e.New().Finalize(entities.Facets{
		entities.FacetConcept:   json.RawMessage(ConceptPayload),
		entities.FacetAbilities: json.RawMessage(FighterAbilities),
		entities.FacetRace:      json.RawMessage(HumanRace),
		entities.FacetClass:     json.RawMessage(FighterClass),
	})
	if err != nil {
		return nil, err
	}

	class, err := json.Marshal(map[string]any{
		"classes": []map[string]any{{"classId": "fighter", "level": level}},
	})
	if err != nil {
		return nil, err
	}
	facets[entities.FacetClass] = class
	return facets, nil
}
