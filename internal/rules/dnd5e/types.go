package dnd5e

// Ability is one of the six ability scores
type Ability string

// Abilities
const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// AllAbilities in sheet order
var AllAbilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

func isAbility(a Ability) bool {
	for _, known := range AllAbilities {
		if known == a {
			return true
		}
	}
	return false
}

// ArmorCategory groups armor for proficiency checks
type ArmorCategory string

// Armor categories
const (
	ArmorNone   ArmorCategory = ""
	ArmorLight  ArmorCategory = "light"
	ArmorMedium ArmorCategory = "medium"
	ArmorHeavy  ArmorCategory = "heavy"
	ArmorShield ArmorCategory = "shield"
)

// Progression is how a class contributes to spell slots
type Progression string

// Spellcasting progressions
const (
	ProgressionFull Progression = "full"
	ProgressionHalf Progression = "half"
	ProgressionPact Progression = "pact"
)

// SpellStyle is how a class decides which spells it can cast
type SpellStyle string

// Spell styles
const (
	StyleKnown     SpellStyle = "known"
	StylePrepared  SpellStyle = "prepared"
	StyleSpellbook SpellStyle = "spellbook"
)

// AbilityMin is a minimum score requirement
type AbilityMin struct {
	Ability Ability
	Min     int
}

// Spellcasting describes a class's casting
type Spellcasting struct {
	Ability     Ability
	Progression Progression
	Style       SpellStyle
	// StartLevel is the first class level that casts
	StartLevel int
	// Cantrips and Known are indexed by class level - 1. Known is only
	// used by StyleKnown classes.
	Cantrips []int
	Known    []int
}

// Feature is a class feature granted at a class level
type Feature struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Class is one character class
type Class struct {
	ID           string
	Name         string
	HitDie       int
	SavingThrows []Ability
	SkillChoices int
	SkillOptions []string
	Armor        []ArmorCategory
	// Prerequisites for multiclassing. Any one group satisfied in full passes.
	Prerequisites [][]AbilityMin
	Spellcasting  *Spellcasting
	ASILevels     []int
	Features      map[int][]Feature
}

// Subrace refines a race
type Subrace struct {
	ID      string
	Name    string
	Bonuses map[Ability]int
}

// Race is one playable race
type Race struct {
	ID       string
	Name     string
	Bonuses  map[Ability]int
	Subraces map[string]*Subrace
	// BonusChoices is how many +1 increases the player picks (half-elf)
	BonusChoices int
	// ExcludedChoice cannot be picked for the free increases
	ExcludedChoice Ability
}

// Background grants fixed skill proficiencies
type Background struct {
	ID     string
	Name   string
	Skills []string
}

// Item is an equipment catalog entry
type Item struct {
	ID     string
	Name   string
	Weight float64
	Armor  ArmorCategory
}

// Spell is a spell list entry
type Spell struct {
	ID      string
	Name    string
	Level   int
	Classes []string
}

// Data is the full rule content a ruleset validates against
type Data struct {
	Classes     map[string]*Class
	Races       map[string]*Race
	Backgrounds map[string]*Background
	Skills      []string
	Alignments  []string
	Items       map[string]*Item
	Spells      map[string]*Spell
	Feats       []string
	// Experience is the threshold for each level, indexed by level - 1
	Experience []int
}
