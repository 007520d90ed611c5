package dnd5e

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

// Creation payloads

type conceptPayload struct {
	Name        string `json:"name"`
	Alignment   string `json:"alignment,omitempty"`
	Description string `json:"description,omitempty"`
}

type abilitiesPayload struct {
	Method string          `json:"method"`
	Scores map[Ability]int `json:"scores"`
}

func (p *abilitiesPayload) schemaError() error {
	if p.Method == "" {
		return fmt.Errorf("method is required")
	}
	for _, a := range AllAbilities {
		if _, ok := p.Scores[a]; !ok {
			return fmt.Errorf("scores.%s is required", a)
		}
	}
	for a := range p.Scores {
		if !isAbility(a) {
			return fmt.Errorf("scores.%s is not an ability", a)
		}
	}
	return nil
}

type racePayload struct {
	RaceID         string    `json:"raceId"`
	SubraceID      string    `json:"subraceId,omitempty"`
	AbilityChoices []Ability `json:"abilityChoices,omitempty"`
}

func (p *racePayload) schemaError() error {
	if p.RaceID == "" {
		return fmt.Errorf("raceId is required")
	}
	return nil
}

type classEntry struct {
	ClassID    string `json:"classId"`
	SubclassID string `json:"subclassId,omitempty"`
	Level      int    `json:"level"`
}

type classPayload struct {
	Classes []classEntry `json:"classes"`
}

func (p *classPayload) schemaError() error {
	if p.Classes == nil {
		return fmt.Errorf("classes is required")
	}
	for i, c := range p.Classes {
		if c.ClassID == "" {
			return fmt.Errorf("classes[%d].classId is required", i)
		}
	}
	return nil
}

// level returns the total character level the class facet represents
func (p *classPayload) level() int {
	total := 0
	for _, c := range p.Classes {
		total += c.Level
	}
	return total
}

func (p *classPayload) find(classID string) (int, bool) {
	for i, c := range p.Classes {
		if c.ClassID == classID {
			return i, true
		}
	}
	return -1, false
}

type backgroundPayload struct {
	BackgroundID string `json:"backgroundId"`
}

func (p *backgroundPayload) schemaError() error {
	if p.BackgroundID == "" {
		return fmt.Errorf("backgroundId is required")
	}
	return nil
}

type proficienciesPayload struct {
	Skills []string `json:"skills"`
}

type itemEntry struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type equipmentPayload struct {
	Items []itemEntry `json:"items"`
}

func (p *equipmentPayload) schemaError() error {
	for i, item := range p.Items {
		if item.ItemID == "" {
			return fmt.Errorf("items[%d].itemId is required", i)
		}
	}
	return nil
}

type spellSwap struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type spellsPayload struct {
	Cantrips []string `json:"cantrips,omitempty"`
	Spells   []string `json:"spells,omitempty"`
	// Replace swaps one known spell for another on level up
	Replace *spellSwap `json:"replace,omitempty"`
}

// Level-up choice payloads

type hitPointsChoice struct {
	Method string `json:"method"`
	Value  int    `json:"value,omitempty"`
}

func (p *hitPointsChoice) schemaError() error {
	if p.Method == "" {
		return fmt.Errorf("method is required")
	}
	return nil
}

type featuresChoice struct {
	Acknowledged []string `json:"acknowledged"`
}

type improvementChoice struct {
	Increases map[Ability]int `json:"increases,omitempty"`
	Feat      string          `json:"feat,omitempty"`
}

type multiclassChoice struct {
	ClassID string `json:"classId"`
}

func (p *multiclassChoice) schemaError() error {
	if p.ClassID == "" {
		return fmt.Errorf("classId is required")
	}
	return nil
}

// Derived character facets

type hitPointEntry struct {
	Level   int    `json:"level"`
	ClassID string `json:"classId"`
	Method  string `json:"method"`
	Value   int    `json:"value"`
}

type hitPointsFacet struct {
	Max     int             `json:"max"`
	History []hitPointEntry `json:"history"`
}

type grantedFeature struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"classId"`
	Level   int    `json:"level"`
}

type featuresFacet struct {
	Features []grantedFeature `json:"features"`
}

type improvementEntry struct {
	Level     int             `json:"level"`
	Increases map[Ability]int `json:"increases,omitempty"`
	Feat      string          `json:"feat,omitempty"`
}

type improvementsFacet struct {
	History []improvementEntry `json:"history"`
}

type spellSlotsFacet struct {
	Slots     []int `json:"slots"`
	PactSlots int   `json:"pactSlots,omitempty"`
	PactLevel int   `json:"pactLevel,omitempty"`
}

type schemaChecker interface {
	schemaError() error
}

// decode parses raw strictly. Unknown fields, wrong types and missing
// structural keys fail with SchemaMismatch.
func decode[T any](facet entities.Facet, raw json.RawMessage) (*T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, errors.SchemaMismatch(facet.String(), err)
	}
	if dec.More() {
		return nil, errors.SchemaMismatch(facet.String(), fmt.Errorf("unexpected data after payload"))
	}
	if checker, ok := any(&out).(schemaChecker); ok {
		if err := checker.schemaError(); err != nil {
			return nil, errors.SchemaMismatch(facet.String(), err)
		}
	}
	return &out, nil
}

// committed decodes an already committed facet. ok is false when absent.
func committed[T any](facets entities.Facets, facet entities.Facet) (*T, bool, error) {
	if !facets.Has(facet) {
		return nil, false, nil
	}
	out, err := decode[T](facet, facets[facet])
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func encode(facet entities.Facet, v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s facet", facet)
	}
	return raw, nil
}
