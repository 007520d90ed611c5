package entities

// Step names a position in the creation sequence
type Step string

// Creation steps in canonical order, followed by the terminal state
const (
	StepConcept       Step = "concept"
	StepAbilities     Step = "abilities"
	StepRace          Step = "race"
	StepClass         Step = "class"
	StepBackground    Step = "background"
	StepProficiencies Step = "proficiencies"
	StepEquipment     Step = "equipment"
	StepSpells        Step = "spells"
	StepReview        Step = "review"
	StepFinalized     Step = "finalized"
)

// CreationSteps is the canonical order a draft walks through
var CreationSteps = []Step{
	StepConcept,
	StepAbilities,
	StepRace,
	StepClass,
	StepBackground,
	StepProficiencies,
	StepEquipment,
	StepSpells,
	StepReview,
}

// Index returns the position of the step in CreationSteps, or -1
func (s Step) Index() int {
	for i, step := range CreationSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is a creation step (the terminal state is not)
func (s Step) IsValid() bool {
	return s.Index() >= 0
}

// Next returns the step after s. Review advances to Finalized.
func (s Step) Next() Step {
	i := s.Index()
	if i < 0 || i == len(CreationSteps)-1 {
		return StepFinalized
	}
	return CreationSteps[i+1]
}

// Facet returns the facet a step writes. Review writes nothing.
func (s Step) Facet() Facet {
	switch s {
	case StepReview, StepFinalized:
		return ""
	}
	if !s.IsValid() {
		return ""
	}
	return Facet(s)
}

// String implements fmt.Stringer
func (s Step) String() string {
	return string(s)
}

// Facet is one named slice of character data
type Facet string

// Facets written by creation steps
const (
	FacetConcept       Facet = "concept"
	FacetAbilities     Facet = "abilities"
	FacetRace          Facet = "race"
	FacetClass         Facet = "class"
	FacetBackground    Facet = "background"
	FacetProficiencies Facet = "proficiencies"
	FacetEquipment     Facet = "equipment"
	FacetSpells        Facet = "spells"
)

// Facets introduced at finalize or level up
const (
	FacetHitPoints               Facet = "hit_points"
	FacetFeatures                Facet = "features"
	FacetAbilityScoreImprovement Facet = "ability_score_improvement"
	FacetMulticlass              Facet = "multiclass"
	FacetSpellSlots              Facet = "spell_slots"
)

// Step returns the creation step that writes this facet, if any
func (f Facet) Step() (Step, bool) {
	s := Step(f)
	if s.Facet() == f && f != "" {
		return s, true
	}
	return "", false
}

// String implements fmt.Stringer
func (f Facet) String() string {
	return string(f)
}

// Mode sets how strictly rule violations are enforced
type Mode string

// Validation modes
const (
	ModeBalanced   Mode = "balanced"
	ModeFreeForAll Mode = "free_for_all"
)

// IsValid reports whether m is a known mode
func (m Mode) IsValid() bool {
	return m == ModeBalanced || m == ModeFreeForAll
}
