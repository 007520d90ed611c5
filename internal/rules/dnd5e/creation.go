package dnd5e

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/rules"
)

var abilityMethods = []string{"point_buy", "standard_array", "rolled", "manual"}

func (r *Ruleset) validateConcept(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetConcept, r.data.Alignments)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[conceptPayload](entities.FacetConcept, input.Payload)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(p.Name) == "" {
		rep.impossible("NAME_REQUIRED", "", "a character needs a name")
	}
	if p.Alignment != "" && !contains(r.data.Alignments, p.Alignment) {
		rep.block("UNKNOWN_ALIGNMENT", citeBackgrounds, "alignment %q is not recognized", p.Alignment)
	}
	return rep.done()
}

func (r *Ruleset) validateAbilities(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetAbilities, abilityMethods)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[abilitiesPayload](entities.FacetAbilities, input.Payload)
	if err != nil {
		return nil, err
	}

	for _, a := range AllAbilities {
		if score := p.Scores[a]; score < 1 || score > 30 {
			rep.impossible("SCORE_OUT_OF_RANGE", citeAbilityScores, "%s %d is outside 1-30", a, score)
		}
	}

	switch p.Method {
	case "point_buy":
		cost := 0
		for _, a := range AllAbilities {
			score := p.Scores[a]
			c, ok := pointBuyCost[score]
			if !ok {
				rep.block("POINT_BUY_RANGE", citeAbilityScores,
					"%s %d must be between %d and %d with point buy", a, score, pointBuyMin, pointBuyMax)
				continue
			}
			cost += c
		}
		switch {
		case cost > pointBuyBudget:
			rep.block("POINT_BUY_BUDGET", citeAbilityScores, "point buy spends %d of %d points", cost, pointBuyBudget)
		case cost < pointBuyBudget:
			rep.warn("POINT_BUY_UNSPENT", citeAbilityScores, "%d point buy points unspent", pointBuyBudget-cost)
		}
	case "standard_array":
		got := make([]int, 0, len(AllAbilities))
		for _, a := range AllAbilities {
			got = append(got, p.Scores[a])
		}
		sort.Sort(sort.Reverse(sort.IntSlice(got)))
		for i := range standardArray {
			if got[i] != standardArray[i] {
				rep.block("STANDARD_ARRAY", citeAbilityScores, "scores must use 15, 14, 13, 12, 10, 8 once each")
				break
			}
		}
	case "rolled":
		checkScoreRange(rep, p.Scores)
		checkRolls(rep, p.Scores, input.AbilityRolls)
	case "manual":
		checkScoreRange(rep, p.Scores)
	default:
		rep.impossible("UNKNOWN_METHOD", citeAbilityScores, "method %q is not one of %v", p.Method, abilityMethods)
	}
	return rep.done()
}

func checkScoreRange(rep *report, scores map[Ability]int) {
	for _, a := range AllAbilities {
		if score := scores[a]; score < 3 || score > 18 {
			rep.block("SCORE_RANGE", citeAbilityScores, "%s %d must be between 3 and 18 before bonuses", a, score)
		}
	}
}

// checkRolls requires the scores to use each rolled total exactly once
func checkRolls(rep *report, scores map[Ability]int, rolls []int) {
	if len(rolls) == 0 {
		rep.block("NO_ABILITY_ROLLS", citeAbilityScores, "roll ability scores before assigning rolled scores")
		return
	}
	got := make([]int, 0, len(AllAbilities))
	for _, a := range AllAbilities {
		got = append(got, scores[a])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(got)))
	if !slices.Equal(got, rolls) {
		rep.block("ROLLS_MISMATCH", citeAbilityScores, "rolled scores must use %v once each", rolls)
	}
}

func (r *Ruleset) raceChoices() []string {
	var out []string
	for _, id := range sortedKeys(r.data.Races) {
		out = append(out, id)
		for _, sub := range sortedKeys(r.data.Races[id].Subraces) {
			out = append(out, id+"/"+sub)
		}
	}
	return out
}

func (r *Ruleset) validateRace(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetRace, r.raceChoices())
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[racePayload](entities.FacetRace, input.Payload)
	if err != nil {
		return nil, err
	}

	race, ok := r.data.Races[p.RaceID]
	if !ok {
		rep.impossible("UNKNOWN_RACE", citeRaces, "race %q does not exist", p.RaceID)
		return rep.done()
	}

	switch {
	case p.SubraceID != "":
		if _, ok := race.Subraces[p.SubraceID]; !ok {
			rep.impossible("UNKNOWN_SUBRACE", citeRaces, "%s has no subrace %q", race.Name, p.SubraceID)
		}
	case len(race.Subraces) > 0:
		rep.block("SUBRACE_REQUIRED", citeRaces, "%s requires a subrace", race.Name)
	}

	if race.BonusChoices == 0 {
		if len(p.AbilityChoices) > 0 {
			rep.block("ABILITY_CHOICES", citeRaces, "%s does not choose ability increases", race.Name)
		}
		return rep.done()
	}

	if len(p.AbilityChoices) != race.BonusChoices {
		rep.block("ABILITY_CHOICES", citeRaces, "%s chooses %d ability increases, got %d",
			race.Name, race.BonusChoices, len(p.AbilityChoices))
	}
	seen := make(map[Ability]bool)
	for _, a := range p.AbilityChoices {
		switch {
		case !isAbility(a):
			rep.impossible("UNKNOWN_ABILITY", citeRaces, "%q is not an ability", a)
		case a == race.ExcludedChoice:
			rep.block("ABILITY_CHOICES", citeRaces, "%s cannot pick %s for its increases", race.Name, a)
		case seen[a]:
			rep.block("ABILITY_CHOICES", citeRaces, "%s can only be picked once", a)
		}
		seen[a] = true
	}
	return rep.done()
}

func (r *Ruleset) validateClass(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetClass, sortedKeys(r.data.Classes))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[classPayload](entities.FacetClass, input.Payload)
	if err != nil {
		return nil, err
	}

	if len(p.Classes) == 0 {
		rep.impossible("CLASS_REQUIRED", citeClasses, "at least one class is required")
		return rep.done()
	}

	ids := make([]string, 0, len(p.Classes))
	for _, entry := range p.Classes {
		ids = append(ids, entry.ClassID)
		if _, ok := r.data.Classes[entry.ClassID]; !ok {
			rep.impossible("UNKNOWN_CLASS", citeClasses, "class %q does not exist", entry.ClassID)
		}
		if entry.Level > 1 {
			rep.impossible("CREATION_LEVEL", citeClasses, "%s must start at level 1", entry.ClassID)
		}
	}
	for _, dup := range duplicates(ids) {
		rep.impossible("DUPLICATE_CLASS", citeClasses, "%s is listed more than once", dup)
	}

	if len(p.Classes) > 1 {
		rep.warn("MULTICLASS_AT_CREATION", citeMulticlassing, "starting with %d classes; each begins at level 1", len(p.Classes))
		if err := r.checkPrerequisites(rep, input.Facets, ids); err != nil {
			return nil, err
		}
	}
	return rep.done()
}

// checkPrerequisites blocks for every class whose multiclass requirement the
// character's effective scores miss
func (r *Ruleset) checkPrerequisites(rep *report, facets entities.Facets, classIDs []string) error {
	scores, ok, err := r.effectiveScores(facets)
	if err != nil {
		return err
	}
	if !ok {
		rep.block("ABILITIES_REQUIRED", citeMulticlassing, "multiclassing needs committed ability scores")
		return nil
	}
	for _, id := range classIDs {
		class, exists := r.data.Classes[id]
		if !exists {
			continue
		}
		if !meetsPrerequisites(class, scores) {
			rep.block("MULTICLASS_PREREQUISITE", citeMulticlassing, "%s requires %s", class.Name, describePrerequisites(class))
		}
	}
	return nil
}

func describePrerequisites(class *Class) string {
	groups := make([]string, 0, len(class.Prerequisites))
	for _, group := range class.Prerequisites {
		parts := make([]string, 0, len(group))
		for _, req := range group {
			parts = append(parts, string(req.Ability)+" "+strconv.Itoa(req.Min))
		}
		groups = append(groups, strings.Join(parts, " and "))
	}
	return strings.Join(groups, " or ")
}

func (r *Ruleset) validateBackground(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetBackground, sortedKeys(r.data.Backgrounds))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[backgroundPayload](entities.FacetBackground, input.Payload)
	if err != nil {
		return nil, err
	}
	if _, ok := r.data.Backgrounds[p.BackgroundID]; !ok {
		rep.impossible("UNKNOWN_BACKGROUND", citeBackgrounds, "background %q does not exist", p.BackgroundID)
	}
	return rep.done()
}

// primaryClass is the first class entry, the one taken at level 1
func (r *Ruleset) primaryClass(facets entities.Facets) (*Class, error) {
	classes, ok, err := committed[classPayload](facets, entities.FacetClass)
	if err != nil || !ok || len(classes.Classes) == 0 {
		return nil, err
	}
	return r.data.Classes[classes.Classes[0].ClassID], nil
}

func (r *Ruleset) skillOptions(class *Class) []string {
	if class == nil {
		return nil
	}
	if len(class.SkillOptions) == 0 {
		return r.data.Skills
	}
	return class.SkillOptions
}

func (r *Ruleset) validateProficiencies(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	class, err := r.primaryClass(input.Facets)
	if err != nil {
		return nil, err
	}
	rep := newReport(entities.FacetProficiencies, r.skillOptions(class))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[proficienciesPayload](entities.FacetProficiencies, input.Payload)
	if err != nil {
		return nil, err
	}
	if class == nil {
		rep.impossible("CLASS_REQUIRED", citeClasses, "choose a class before skills")
		return rep.done()
	}

	for _, dup := range duplicates(p.Skills) {
		rep.impossible("DUPLICATE_SKILL", citeClasses, "%s is listed more than once", dup)
	}
	options := r.skillOptions(class)
	for _, skill := range p.Skills {
		switch {
		case !contains(r.data.Skills, skill):
			rep.impossible("UNKNOWN_SKILL", citeClasses, "skill %q does not exist", skill)
		case !contains(options, skill):
			rep.block("SKILL_NOT_OFFERED", citeClasses, "%s cannot choose %s", class.Name, skill)
		}
	}
	if len(p.Skills) != class.SkillChoices {
		rep.block("SKILL_COUNT", citeClasses, "%s chooses %d skills, got %d", class.Name, class.SkillChoices, len(p.Skills))
	}

	background, _, err := committed[backgroundPayload](input.Facets, entities.FacetBackground)
	if err != nil {
		return nil, err
	}
	if background != nil {
		if bg, ok := r.data.Backgrounds[background.BackgroundID]; ok {
			for _, skill := range p.Skills {
				if contains(bg.Skills, skill) {
					rep.warn("BACKGROUND_OVERLAP", citeBackgrounds, "%s already grants %s; pick another skill", bg.Name, skill)
				}
			}
		}
	}
	return rep.done()
}

func (r *Ruleset) validateEquipment(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetEquipment, sortedKeys(r.data.Items))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[equipmentPayload](entities.FacetEquipment, input.Payload)
	if err != nil {
		return nil, err
	}

	armor := make(map[ArmorCategory]bool)
	classes, _, err := committed[classPayload](input.Facets, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	if classes != nil {
		for _, entry := range classes.Classes {
			if class, ok := r.data.Classes[entry.ClassID]; ok {
				for _, a := range class.Armor {
					armor[a] = true
				}
			}
		}
	}

	var load float64
	for _, entry := range p.Items {
		item, ok := r.data.Items[entry.ItemID]
		if !ok {
			rep.impossible("UNKNOWN_ITEM", citeEquipment, "item %q does not exist", entry.ItemID)
			continue
		}
		if entry.Quantity < 1 {
			rep.impossible("INVALID_QUANTITY", citeEquipment, "%s quantity must be at least 1", item.Name)
			continue
		}
		if item.Armor != ArmorNone && classes != nil && !armor[item.Armor] {
			rep.warn("ARMOR_NOT_PROFICIENT", citeEquipment, "not proficient with %s armor (%s)", item.Armor, item.Name)
		}
		load += item.Weight * float64(entry.Quantity)
	}

	scores, ok, err := r.effectiveScores(input.Facets)
	if err != nil {
		return nil, err
	}
	if ok {
		capacity := float64(scores[Strength] * 15)
		if load > capacity {
			rep.block("OVER_CAPACITY", citeCarrying, "carrying %.1f lb exceeds capacity of %.0f lb", load, capacity)
		}
	}
	return rep.done()
}

// castableSpells lists spells any caster class in classes can learn
func (r *Ruleset) castableSpells(classes *classPayload) []string {
	var out []string
	for _, id := range sortedKeys(r.data.Spells) {
		if r.canLearn(classes, r.data.Spells[id]) {
			out = append(out, id)
		}
	}
	return out
}

func (r *Ruleset) canLearn(classes *classPayload, spell *Spell) bool {
	if classes == nil {
		return false
	}
	for _, entry := range classes.Classes {
		class, ok := r.data.Classes[entry.ClassID]
		if !ok || !castsAt(class, classLevel(entry)) || !contains(spell.Classes, class.ID) {
			continue
		}
		if spell.Level == 0 || spell.Level <= maxSpellLevel(class, classLevel(entry)) {
			return true
		}
	}
	return false
}

func (r *Ruleset) validateSpells(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	classes, _, err := committed[classPayload](input.Facets, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	rep := newReport(entities.FacetSpells, r.castableSpells(classes))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[spellsPayload](entities.FacetSpells, input.Payload)
	if err != nil {
		return nil, err
	}
	if p.Replace != nil {
		rep.impossible("REPLACE_NOT_ALLOWED", citeSpellcasting, "spells can only be replaced when gaining a level")
	}

	grants, err := r.GrantsSpellcasting(input.Facets)
	if err != nil {
		return nil, err
	}
	if !grants {
		if len(p.Cantrips)+len(p.Spells) > 0 {
			rep.block("NO_SPELLCASTING", citeSpellcasting, "no class grants spellcasting at level 1")
		}
		return rep.done()
	}

	r.checkSpellList(rep, classes, p)

	scores, _, err := r.effectiveScores(input.Facets)
	if err != nil {
		return nil, err
	}
	cantrips, spells := 0, 0
	for _, entry := range classes.Classes {
		if class, ok := r.data.Classes[entry.ClassID]; ok {
			cantrips += cantripsKnown(class, classLevel(entry))
			spells += spellsKnown(class, classLevel(entry), scores)
		}
	}
	r.checkSpellCounts(rep, len(p.Cantrips), cantrips, len(p.Spells), spells)
	return rep.done()
}

// checkSpellList verifies spell ids, levels and class lists
func (r *Ruleset) checkSpellList(rep *report, classes *classPayload, p *spellsPayload) {
	for _, dup := range duplicates(append(append([]string{}, p.Cantrips...), p.Spells...)) {
		rep.impossible("DUPLICATE_SPELL", citeSpellcasting, "%s is listed more than once", dup)
	}
	check := func(ids []string, cantrip bool) {
		for _, id := range ids {
			spell, ok := r.data.Spells[id]
			if !ok {
				rep.impossible("UNKNOWN_SPELL", citeSpellcasting, "spell %q does not exist", id)
				continue
			}
			if (spell.Level == 0) != cantrip {
				rep.impossible("WRONG_SPELL_LEVEL", citeSpellcasting, "%s is a level %d spell", spell.Name, spell.Level)
				continue
			}
			if !r.canLearn(classes, spell) {
				rep.block("NOT_ON_CLASS_LIST", citeSpellcasting, "%s is not available to this class at this level", spell.Name)
			}
		}
	}
	check(p.Cantrips, true)
	check(p.Spells, false)
}

func (r *Ruleset) checkSpellCounts(rep *report, cantrips, cantripLimit, spells, spellLimit int) {
	if cantrips > cantripLimit {
		rep.block("TOO_MANY_CANTRIPS", citeSpellcasting, "%d cantrips chosen, limit is %d", cantrips, cantripLimit)
	}
	if spells > spellLimit {
		rep.block("TOO_MANY_SPELLS", citeSpellcasting, "%d spells chosen, limit is %d", spells, spellLimit)
	}
	if cantrips < cantripLimit || spells < spellLimit {
		rep.warn("UNSPENT_SPELLS", citeSpellcasting, "%d of %d cantrips and %d of %d spells chosen",
			cantrips, cantripLimit, spells, spellLimit)
	}
}

func (r *Ruleset) validateReview(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	rep := newReport("", nil)
	for _, step := range entities.CreationSteps {
		facet := step.Facet()
		if facet == "" {
			continue
		}
		if !input.Facets.Has(facet) {
			rep.result.Violations = append(rep.result.Violations, entities.Violation{
				Code:           "MISSING_FACET",
				Severity:       entities.SeverityBlock,
				Message:        "the " + facet.String() + " step has not been completed",
				Facet:          facet,
				AlwaysBlocking: true,
			})
		}
	}
	return rep.done()
}
