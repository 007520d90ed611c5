package dnd5e

import (
	"sort"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/rules"
)

var hitPointMethods = []string{"average", "roll"}

func averageHitPoints(hitDie int) int {
	return hitDie/2 + 1
}

// PlanLevelUp implements rules.Ruleset
func (r *Ruleset) PlanLevelUp(input *rules.PlanInput) (*rules.LevelUpPlan, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	classes, ok, err := committed[classPayload](input.Facets, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	if !ok || len(classes.Classes) == 0 {
		return nil, errors.FailedPrecondition("class facet is required to level up")
	}
	if input.CurrentLevel >= r.MaxLevel() {
		return nil, errors.FailedPreconditionf("level %d is the maximum", r.MaxLevel())
	}

	classID := input.ClassID
	if classID == "" {
		classID = classes.Classes[0].ClassID
	}
	class, ok := r.data.Classes[classID]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown class %q", classID)
	}

	plan := &rules.LevelUpPlan{
		TargetLevel: input.CurrentLevel + 1,
		ClassID:     class.ID,
		ClassLevel:  1,
		HitDie:      class.HitDie,
		Required:    []entities.Facet{entities.FacetHitPoints},
	}
	if i, held := classes.find(class.ID); held {
		plan.ClassLevel = classLevel(classes.Classes[i]) + 1
	} else {
		plan.NewClass = true
		plan.Required = append(plan.Required, entities.FacetMulticlass)
	}

	for _, feat := range class.Features[plan.ClassLevel] {
		plan.GrantedFeatures = append(plan.GrantedFeatures, feat.ID)
	}
	if len(plan.GrantedFeatures) > 0 {
		plan.Required = append(plan.Required, entities.FacetFeatures)
	}
	if contains(class.ASILevels, plan.ClassLevel) {
		plan.Required = append(plan.Required, entities.FacetAbilityScoreImprovement)
	}

	scores, _, err := r.effectiveScores(input.Facets)
	if err != nil {
		return nil, err
	}
	plan.CantripsGained = cantripsKnown(class, plan.ClassLevel) - cantripsKnown(class, plan.ClassLevel-1)
	plan.SpellsGained = max(0, spellsKnown(class, plan.ClassLevel, scores)-spellsKnown(class, plan.ClassLevel-1, scores))
	switch {
	case plan.CantripsGained > 0 || plan.SpellsGained > 0:
		plan.Required = append(plan.Required, entities.FacetSpells)
	case castsAt(class, plan.ClassLevel-1) && class.Spellcasting.Style == StyleKnown:
		// known casters may swap one spell when they gain a level
		plan.Optional = append(plan.Optional, entities.FacetSpells)
	}

	touched := map[entities.Facet]bool{entities.FacetClass: true, entities.FacetSpellSlots: true}
	for _, facet := range append(append([]entities.Facet{}, plan.Required...), plan.Optional...) {
		touched[facet] = true
	}
	for facet := range input.Facets {
		if !touched[facet] {
			plan.Carried = append(plan.Carried, facet)
		}
	}
	sort.Slice(plan.Carried, func(i, j int) bool { return plan.Carried[i] < plan.Carried[j] })

	return plan, nil
}

func (r *Ruleset) validateLevelUp(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	ctx := input.LevelUp
	class, ok := r.data.Classes[ctx.ClassID]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown class %q", ctx.ClassID)
	}

	switch input.Facet {
	case entities.FacetHitPoints:
		return r.validateHitPoints(input, class)
	case entities.FacetFeatures:
		return r.validateFeatures(input, class)
	case entities.FacetAbilityScoreImprovement:
		return r.validateImprovement(input)
	case entities.FacetSpells:
		return r.validateLevelSpells(input, class)
	case entities.FacetMulticlass:
		return r.validateMulticlass(input)
	default:
		return nil, errors.InvalidArgumentf("facet %q is not chosen at level up", input.Facet)
	}
}

func (r *Ruleset) validateHitPoints(input *rules.ValidateInput, class *Class) (*entities.ValidationResult, error) {
	rep := newReport(entities.FacetHitPoints, hitPointMethods)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[hitPointsChoice](entities.FacetHitPoints, input.Payload)
	if err != nil {
		return nil, err
	}

	switch p.Method {
	case "average":
		if avg := averageHitPoints(class.HitDie); p.Value != avg {
			rep.block("HP_AVERAGE", citeAdvancement, "the average for a d%d is %d, got %d", class.HitDie, avg, p.Value)
		}
	case "roll":
		if p.Value < 1 || p.Value > class.HitDie {
			rep.impossible("HP_ROLL_RANGE", citeAdvancement, "a d%d cannot roll %d", class.HitDie, p.Value)
		}
	default:
		rep.impossible("UNKNOWN_METHOD", citeAdvancement, "method %q is not one of %v", p.Method, hitPointMethods)
	}
	return rep.done()
}

func (r *Ruleset) validateFeatures(input *rules.ValidateInput, class *Class) (*entities.ValidationResult, error) {
	granted := make([]string, 0)
	for _, feat := range class.Features[input.LevelUp.ClassLevel] {
		granted = append(granted, feat.ID)
	}
	rep := newReport(entities.FacetFeatures, granted)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[featuresChoice](entities.FacetFeatures, input.Payload)
	if err != nil {
		return nil, err
	}

	for _, id := range p.Acknowledged {
		if !contains(granted, id) {
			rep.impossible("UNKNOWN_FEATURE", citeClasses, "%s does not gain %q at level %d", class.Name, id, input.LevelUp.ClassLevel)
		}
	}
	for _, id := range granted {
		if !contains(p.Acknowledged, id) {
			rep.block("FEATURE_NOT_ACKNOWLEDGED", citeClasses, "%s is gained at this level", id)
		}
	}
	return rep.done()
}

func (r *Ruleset) validateImprovement(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	legal := make([]string, 0, len(AllAbilities)+len(r.data.Feats))
	for _, a := range AllAbilities {
		legal = append(legal, string(a))
	}
	legal = append(legal, r.data.Feats...)
	rep := newReport(entities.FacetAbilityScoreImprovement, legal)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[improvementChoice](entities.FacetAbilityScoreImprovement, input.Payload)
	if err != nil {
		return nil, err
	}

	switch {
	case p.Feat != "" && len(p.Increases) > 0:
		rep.impossible("ASI_OR_FEAT", citeFeats, "choose either ability increases or a feat")
		return rep.done()
	case p.Feat == "" && len(p.Increases) == 0:
		rep.impossible("ASI_OR_FEAT", citeFeats, "choose ability increases or a feat")
		return rep.done()
	}

	if p.Feat != "" {
		if !contains(r.data.Feats, p.Feat) {
			rep.block("UNKNOWN_FEAT", citeFeats, "feat %q is not available", p.Feat)
		}
		history, _, err := committed[improvementsFacet](input.Facets, entities.FacetAbilityScoreImprovement)
		if err != nil {
			return nil, err
		}
		if history != nil {
			for _, entry := range history.History {
				if entry.Feat == p.Feat {
					rep.block("FEAT_TAKEN", citeFeats, "%s was already taken at level %d", p.Feat, entry.Level)
				}
			}
		}
		return rep.done()
	}

	scores, _, err := r.effectiveScores(input.Facets)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, a := range AllAbilities {
		inc, ok := p.Increases[a]
		if !ok {
			continue
		}
		total += inc
		switch {
		case inc < 1:
			rep.impossible("ASI_AMOUNT", citeAdvancement, "%s increase must be positive", a)
		case inc > 2:
			rep.block("ASI_AMOUNT", citeAdvancement, "%s can increase by at most 2", a)
		}
		if scores != nil && scores[a]+inc > abilityCap {
			rep.block("ABILITY_CAP", citeAdvancement, "%s would reach %d, above %d", a, scores[a]+inc, abilityCap)
		}
	}
	for a := range p.Increases {
		if !isAbility(a) {
			rep.impossible("UNKNOWN_ABILITY", citeAdvancement, "%q is not an ability", a)
		}
	}
	if total != 2 {
		rep.block("ASI_TOTAL", citeAdvancement, "increases must total 2, got %d", total)
	}
	return rep.done()
}

func (r *Ruleset) validateLevelSpells(input *rules.ValidateInput, class *Class) (*entities.ValidationResult, error) {
	ctx := input.LevelUp
	advancing := &classPayload{Classes: []classEntry{{ClassID: class.ID, Level: ctx.ClassLevel}}}
	rep := newReport(entities.FacetSpells, r.castableSpells(advancing))
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[spellsPayload](entities.FacetSpells, input.Payload)
	if err != nil {
		return nil, err
	}
	if !castsAt(class, ctx.ClassLevel) {
		rep.impossible("NO_SPELLCASTING", citeSpellcasting, "%s does not cast spells at level %d", class.Name, ctx.ClassLevel)
		return rep.done()
	}

	known, _, err := committed[spellsPayload](input.Facets, entities.FacetSpells)
	if err != nil {
		return nil, err
	}
	if known == nil {
		known = &spellsPayload{}
	}
	for _, id := range append(append([]string{}, p.Cantrips...), p.Spells...) {
		if contains(known.Cantrips, id) || contains(known.Spells, id) {
			rep.impossible("ALREADY_KNOWN", citeSpellcasting, "%s is already known", id)
		}
	}
	r.checkSpellList(rep, advancing, &spellsPayload{Cantrips: p.Cantrips, Spells: p.Spells})

	if p.Replace != nil {
		if class.Spellcasting.Style != StyleKnown {
			rep.block("REPLACE_NOT_ALLOWED", citeSpellcasting, "%s prepares spells and does not swap them", class.Name)
		}
		if !contains(known.Spells, p.Replace.From) {
			rep.impossible("REPLACE_UNKNOWN", citeSpellcasting, "%s is not a known spell", p.Replace.From)
		}
		r.checkSpellList(rep, advancing, &spellsPayload{Spells: []string{p.Replace.To}})
	}

	scores, _, err := r.effectiveScores(input.Facets)
	if err != nil {
		return nil, err
	}
	cantripLimit := cantripsKnown(class, ctx.ClassLevel) - cantripsKnown(class, ctx.ClassLevel-1)
	spellLimit := max(0, spellsKnown(class, ctx.ClassLevel, scores)-spellsKnown(class, ctx.ClassLevel-1, scores))
	if len(p.Cantrips) > cantripLimit {
		rep.block("TOO_MANY_CANTRIPS", citeSpellcasting, "%d new cantrips chosen, limit is %d", len(p.Cantrips), cantripLimit)
	}
	if len(p.Spells) > spellLimit {
		rep.block("TOO_MANY_SPELLS", citeSpellcasting, "%d new spells chosen, limit is %d", len(p.Spells), spellLimit)
	}
	return rep.done()
}

func (r *Ruleset) validateMulticlass(input *rules.ValidateInput) (*entities.ValidationResult, error) {
	ctx := input.LevelUp
	classes, _, err := committed[classPayload](input.Facets, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = &classPayload{}
	}

	var legal []string
	for _, id := range sortedKeys(r.data.Classes) {
		if _, held := classes.find(id); !held {
			legal = append(legal, id)
		}
	}
	rep := newReport(entities.FacetMulticlass, legal)
	if len(input.Payload) == 0 {
		return rep.done()
	}
	p, err := decode[multiclassChoice](entities.FacetMulticlass, input.Payload)
	if err != nil {
		return nil, err
	}

	if _, held := classes.find(p.ClassID); held {
		rep.impossible("CLASS_ALREADY_HELD", citeMulticlassing, "%s is already one of this character's classes", p.ClassID)
		return rep.done()
	}
	if !ctx.NewClass || p.ClassID != ctx.ClassID {
		rep.impossible("CLASS_MISMATCH", citeMulticlassing, "this level up advances %s", ctx.ClassID)
		return rep.done()
	}

	ids := []string{p.ClassID}
	for _, entry := range classes.Classes {
		ids = append(ids, entry.ClassID)
	}
	if err := r.checkPrerequisites(rep, input.Facets, ids); err != nil {
		return nil, err
	}
	return rep.done()
}

// ApplyLevelUp implements rules.Ruleset
func (r *Ruleset) ApplyLevelUp(input *rules.ApplyInput) (entities.Facets, error) {
	if input == nil || input.Plan == nil {
		return nil, errors.InvalidArgument("plan is required")
	}
	plan := input.Plan
	out := input.Facets.Clone()

	classes, ok, err := committed[classPayload](out, entities.FacetClass)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.FailedPrecondition("class facet is required to level up")
	}
	if i, held := classes.find(plan.ClassID); held {
		classes.Classes[i].Level = plan.ClassLevel
	} else {
		classes.Classes = append(classes.Classes, classEntry{ClassID: plan.ClassID, Level: 1})
	}
	if err := put(out, entities.FacetClass, classes); err != nil {
		return nil, err
	}

	if input.Choices.Has(entities.FacetAbilityScoreImprovement) {
		choice, err := decode[improvementChoice](entities.FacetAbilityScoreImprovement, input.Choices[entities.FacetAbilityScoreImprovement])
		if err != nil {
			return nil, err
		}
		history, _, err := committed[improvementsFacet](out, entities.FacetAbilityScoreImprovement)
		if err != nil {
			return nil, err
		}
		if history == nil {
			history = &improvementsFacet{}
		}
		history.History = append(history.History, improvementEntry{
			Level: plan.TargetLevel, Increases: choice.Increases, Feat: choice.Feat,
		})
		if err := put(out, entities.FacetAbilityScoreImprovement, history); err != nil {
			return nil, err
		}
	}

	if err := r.applyHitPoints(out, input.Choices, plan); err != nil {
		return nil, err
	}
	if err := r.applyFeatures(out, plan); err != nil {
		return nil, err
	}
	if err := r.applySpells(out, input.Choices); err != nil {
		return nil, err
	}

	if err := put(out, entities.FacetSpellSlots, r.spellSlots(classes)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Ruleset) applyHitPoints(out, choices entities.Facets, plan *rules.LevelUpPlan) error {
	choice, err := decode[hitPointsChoice](entities.FacetHitPoints, choices[entities.FacetHitPoints])
	if err != nil {
		return err
	}
	hp, _, err := committed[hitPointsFacet](out, entities.FacetHitPoints)
	if err != nil {
		return err
	}
	if hp == nil {
		hp = &hitPointsFacet{}
	}
	con := 0
	if scores, ok, err := r.effectiveScores(out); err != nil {
		return err
	} else if ok {
		con = modifier(scores[Constitution])
	}

	hp.Max += max(1, choice.Value+con)
	hp.History = append(hp.History, hitPointEntry{
		Level: plan.TargetLevel, ClassID: plan.ClassID, Method: choice.Method, Value: choice.Value,
	})
	return put(out, entities.FacetHitPoints, hp)
}

func (r *Ruleset) applyFeatures(out entities.Facets, plan *rules.LevelUpPlan) error {
	class := r.data.Classes[plan.ClassID]
	if class == nil || len(class.Features[plan.ClassLevel]) == 0 {
		return nil
	}
	features, _, err := committed[featuresFacet](out, entities.FacetFeatures)
	if err != nil {
		return err
	}
	if features == nil {
		features = &featuresFacet{}
	}
	for _, feat := range class.Features[plan.ClassLevel] {
		features.Features = append(features.Features, grantedFeature{
			ID: feat.ID, Name: feat.Name, ClassID: class.ID, Level: plan.ClassLevel,
		})
	}
	return put(out, entities.FacetFeatures, features)
}

func (r *Ruleset) applySpells(out, choices entities.Facets) error {
	if !choices.Has(entities.FacetSpells) {
		return nil
	}
	choice, err := decode[spellsPayload](entities.FacetSpells, choices[entities.FacetSpells])
	if err != nil {
		return err
	}
	known, _, err := committed[spellsPayload](out, entities.FacetSpells)
	if err != nil {
		return err
	}
	if known == nil {
		known = &spellsPayload{}
	}
	known.Cantrips = append(known.Cantrips, choice.Cantrips...)
	known.Spells = append(known.Spells, choice.Spells...)
	if choice.Replace != nil {
		for i, id := range known.Spells {
			if id == choice.Replace.From {
				known.Spells[i] = choice.Replace.To
				break
			}
		}
	}
	return put(out, entities.FacetSpells, known)
}

func put(facets entities.Facets, facet entities.Facet, v any) error {
	raw, err := encode(facet, v)
	if err != nil {
		return err
	}
	facets[facet] = raw
	return nil
}
