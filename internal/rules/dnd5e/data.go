package dnd5e

var standardASI = []int{4, 8, 12, 16, 19}

func f(id, name string) Feature {
	return Feature{ID: id, Name: name}
}

func prereq(groups ...[]AbilityMin) [][]AbilityMin {
	return groups
}

func all(mins ...AbilityMin) []AbilityMin {
	return mins
}

func min13(a Ability) AbilityMin {
	return AbilityMin{Ability: a, Min: 13}
}

func cantripsAt(l1, l4, l10 int) []int {
	out := make([]int, 20)
	for i := range out {
		switch {
		case i+1 >= 10:
			out[i] = l10
		case i+1 >= 4:
			out[i] = l4
		default:
			out[i] = l1
		}
	}
	return out
}

// DefaultData returns a fresh copy of the built-in rule content. Callers may
// overlay it before handing it to NewWithData.
func DefaultData() *Data {
	return &Data{
		Classes:     defaultClasses(),
		Races:       defaultRaces(),
		Backgrounds: defaultBackgrounds(),
		Skills: []string{
			"acrobatics", "animal-handling", "arcana", "athletics", "deception", "history",
			"insight", "intimidation", "investigation", "medicine", "nature", "perception",
			"performance", "persuasion", "religion", "sleight-of-hand", "stealth", "survival",
		},
		Alignments: []string{
			"lawful-good", "neutral-good", "chaotic-good",
			"lawful-neutral", "neutral", "chaotic-neutral",
			"lawful-evil", "neutral-evil", "chaotic-evil",
		},
		Items:  defaultItems(),
		Spells: defaultSpells(),
		Feats: []string{
			"alert", "athlete", "actor", "durable", "great-weapon-master", "lucky",
			"mobile", "observant", "resilient", "sentinel", "sharpshooter", "tough", "war-caster",
		},
		Experience: []int{
			0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
			85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
		},
	}
}

func defaultClasses() map[string]*Class {
	classes := []*Class{
		{
			ID: "barbarian", Name: "Barbarian", HitDie: 12,
			SavingThrows:  []Ability{Strength, Constitution},
			SkillChoices:  2,
			SkillOptions:  []string{"animal-handling", "athletics", "intimidation", "nature", "perception", "survival"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorShield},
			Prerequisites: prereq(all(min13(Strength))),
			ASILevels:     standardASI,
			Features: map[int][]Feature{
				1: {f("rage", "Rage"), f("unarmored-defense", "Unarmored Defense")},
				2: {f("reckless-attack", "Reckless Attack"), f("danger-sense", "Danger Sense")},
				3: {f("primal-path", "Primal Path")},
				5: {f("extra-attack", "Extra Attack"), f("fast-movement", "Fast Movement")},
				7: {f("feral-instinct", "Feral Instinct")},
				9: {f("brutal-critical", "Brutal Critical")},
			},
		},
		{
			ID: "bard", Name: "Bard", HitDie: 8,
			SavingThrows:  []Ability{Dexterity, Charisma},
			// no SkillOptions: bards pick from every skill
			SkillChoices:  3,
			Armor:         []ArmorCategory{ArmorLight},
			Prerequisites: prereq(all(min13(Charisma))),
			Spellcasting: &Spellcasting{
				Ability: Charisma, Progression: ProgressionFull, Style: StyleKnown, StartLevel: 1,
				Cantrips: cantripsAt(2, 3, 4),
				Known:    []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 15, 15, 16, 18, 19, 19, 20, 22, 22, 22},
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("bardic-inspiration", "Bardic Inspiration"), f("spellcasting", "Spellcasting")},
				2: {f("jack-of-all-trades", "Jack of All Trades"), f("song-of-rest", "Song of Rest")},
				3: {f("bard-college", "Bard College"), f("expertise", "Expertise")},
				5: {f("font-of-inspiration", "Font of Inspiration")},
				6: {f("countercharm", "Countercharm")},
			},
		},
		{
			ID: "cleric", Name: "Cleric", HitDie: 8,
			SavingThrows:  []Ability{Wisdom, Charisma},
			SkillChoices:  2,
			SkillOptions:  []string{"history", "insight", "medicine", "persuasion", "religion"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorShield},
			Prerequisites: prereq(all(min13(Wisdom))),
			Spellcasting: &Spellcasting{
				Ability: Wisdom, Progression: ProgressionFull, Style: StylePrepared, StartLevel: 1,
				Cantrips: cantripsAt(3, 4, 5),
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("spellcasting", "Spellcasting"), f("divine-domain", "Divine Domain")},
				2: {f("channel-divinity", "Channel Divinity")},
				5: {f("destroy-undead", "Destroy Undead")},
			},
		},
		{
			ID: "druid", Name: "Druid", HitDie: 8,
			SavingThrows:  []Ability{Intelligence, Wisdom},
			SkillChoices:  2,
			SkillOptions:  []string{"arcana", "animal-handling", "insight", "medicine", "nature", "perception", "religion", "survival"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorShield},
			Prerequisites: prereq(all(min13(Wisdom))),
			Spellcasting: &Spellcasting{
				Ability: Wisdom, Progression: ProgressionFull, Style: StylePrepared, StartLevel: 1,
				Cantrips: cantripsAt(2, 3, 4),
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("druidic", "Druidic"), f("spellcasting", "Spellcasting")},
				2: {f("wild-shape", "Wild Shape"), f("druid-circle", "Druid Circle")},
			},
		},
		{
			ID: "fighter", Name: "Fighter", HitDie: 10,
			SavingThrows:  []Ability{Strength, Constitution},
			SkillChoices:  2,
			SkillOptions:  []string{"acrobatics", "animal-handling", "athletics", "history", "insight", "intimidation", "perception", "survival"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorHeavy, ArmorShield},
			Prerequisites: prereq(all(min13(Strength)), all(min13(Dexterity))),
			ASILevels:     []int{4, 6, 8, 12, 14, 16, 19},
			Features: map[int][]Feature{
				1:  {f("fighting-style", "Fighting Style"), f("second-wind", "Second Wind")},
				2:  {f("action-surge", "Action Surge")},
				3:  {f("martial-archetype", "Martial Archetype")},
				5:  {f("extra-attack", "Extra Attack")},
				9:  {f("indomitable", "Indomitable")},
				11: {f("extra-attack-2", "Extra Attack (2)")},
				13: {f("indomitable-2", "Indomitable (two uses)")},
				17: {f("action-surge-2", "Action Surge (two uses)"), f("indomitable-3", "Indomitable (three uses)")},
				20: {f("extra-attack-3", "Extra Attack (3)")},
			},
		},
		{
			ID: "monk", Name: "Monk", HitDie: 8,
			SavingThrows:  []Ability{Strength, Dexterity},
			SkillChoices:  2,
			SkillOptions:  []string{"acrobatics", "athletics", "history", "insight", "religion", "stealth"},
			Prerequisites: prereq(all(min13(Dexterity), min13(Wisdom))),
			ASILevels:     standardASI,
			Features: map[int][]Feature{
				1: {f("unarmored-defense", "Unarmored Defense"), f("martial-arts", "Martial Arts")},
				2: {f("ki", "Ki"), f("unarmored-movement", "Unarmored Movement")},
				3: {f("monastic-tradition", "Monastic Tradition"), f("deflect-missiles", "Deflect Missiles")},
				4: {f("slow-fall", "Slow Fall")},
				5: {f("extra-attack", "Extra Attack"), f("stunning-strike", "Stunning Strike")},
			},
		},
		{
			ID: "paladin", Name: "Paladin", HitDie: 10,
			SavingThrows:  []Ability{Wisdom, Charisma},
			SkillChoices:  2,
			SkillOptions:  []string{"athletics", "insight", "intimidation", "medicine", "persuasion", "religion"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorHeavy, ArmorShield},
			Prerequisites: prereq(all(min13(Strength), min13(Charisma))),
			Spellcasting: &Spellcasting{
				Ability: Charisma, Progression: ProgressionHalf, Style: StylePrepared, StartLevel: 2,
				Cantrips: make([]int, 20),
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("divine-sense", "Divine Sense"), f("lay-on-hands", "Lay on Hands")},
				2: {f("fighting-style", "Fighting Style"), f("spellcasting", "Spellcasting"), f("divine-smite", "Divine Smite")},
				3: {f("divine-health", "Divine Health"), f("sacred-oath", "Sacred Oath")},
				5: {f("extra-attack", "Extra Attack")},
			},
		},
		{
			ID: "ranger", Name: "Ranger", HitDie: 10,
			SavingThrows:  []Ability{Strength, Dexterity},
			SkillChoices:  3,
			SkillOptions:  []string{"animal-handling", "athletics", "insight", "investigation", "nature", "perception", "stealth", "survival"},
			Armor:         []ArmorCategory{ArmorLight, ArmorMedium, ArmorShield},
			Prerequisites: prereq(all(min13(Dexterity), min13(Wisdom))),
			Spellcasting: &Spellcasting{
				Ability: Wisdom, Progression: ProgressionHalf, Style: StyleKnown, StartLevel: 2,
				Cantrips: make([]int, 20),
				Known:    []int{0, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11},
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("favored-enemy", "Favored Enemy"), f("natural-explorer", "Natural Explorer")},
				2: {f("fighting-style", "Fighting Style"), f("spellcasting", "Spellcasting")},
				3: {f("ranger-archetype", "Ranger Archetype"), f("primeval-awareness", "Primeval Awareness")},
				5: {f("extra-attack", "Extra Attack")},
			},
		},
		{
			ID: "rogue", Name: "Rogue", HitDie: 8,
			SavingThrows: []Ability{Dexterity, Intelligence},
			SkillChoices: 4,
			SkillOptions: []string{
				"acrobatics", "athletics", "deception", "insight", "intimidation", "investigation",
				"perception", "performance", "persuasion", "sleight-of-hand", "stealth",
			},
			Armor:         []ArmorCategory{ArmorLight},
			Prerequisites: prereq(all(min13(Dexterity))),
			ASILevels:     []int{4, 8, 10, 12, 16, 19},
			Features: map[int][]Feature{
				1: {f("expertise", "Expertise"), f("sneak-attack", "Sneak Attack"), f("thieves-cant", "Thieves' Cant")},
				2: {f("cunning-action", "Cunning Action")},
				3: {f("roguish-archetype", "Roguish Archetype")},
				5: {f("uncanny-dodge", "Uncanny Dodge")},
				7: {f("evasion", "Evasion")},
			},
		},
		{
			ID: "sorcerer", Name: "Sorcerer", HitDie: 6,
			SavingThrows:  []Ability{Constitution, Charisma},
			SkillChoices:  2,
			SkillOptions:  []string{"arcana", "deception", "insight", "intimidation", "persuasion", "religion"},
			Prerequisites: prereq(all(min13(Charisma))),
			Spellcasting: &Spellcasting{
				Ability: Charisma, Progression: ProgressionFull, Style: StyleKnown, StartLevel: 1,
				Cantrips: cantripsAt(4, 5, 6),
				Known:    []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 12, 13, 13, 14, 14, 15, 15, 15, 15},
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("spellcasting", "Spellcasting"), f("sorcerous-origin", "Sorcerous Origin")},
				2: {f("font-of-magic", "Font of Magic")},
				3: {f("metamagic", "Metamagic")},
			},
		},
		{
			ID: "warlock", Name: "Warlock", HitDie: 8,
			SavingThrows:  []Ability{Wisdom, Charisma},
			SkillChoices:  2,
			SkillOptions:  []string{"arcana", "deception", "history", "intimidation", "investigation", "nature", "religion"},
			Armor:         []ArmorCategory{ArmorLight},
			Prerequisites: prereq(all(min13(Charisma))),
			Spellcasting: &Spellcasting{
				Ability: Charisma, Progression: ProgressionPact, Style: StyleKnown, StartLevel: 1,
				Cantrips: cantripsAt(2, 3, 4),
				Known:    []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14, 15, 15},
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("otherworldly-patron", "Otherworldly Patron"), f("pact-magic", "Pact Magic")},
				2: {f("eldritch-invocations", "Eldritch Invocations")},
				3: {f("pact-boon", "Pact Boon")},
			},
		},
		{
			ID: "wizard", Name: "Wizard", HitDie: 6,
			SavingThrows:  []Ability{Intelligence, Wisdom},
			SkillChoices:  2,
			SkillOptions:  []string{"arcana", "history", "insight", "investigation", "medicine", "religion"},
			Prerequisites: prereq(all(min13(Intelligence))),
			Spellcasting: &Spellcasting{
				Ability: Intelligence, Progression: ProgressionFull, Style: StyleSpellbook, StartLevel: 1,
				Cantrips: cantripsAt(3, 4, 5),
			},
			ASILevels: standardASI,
			Features: map[int][]Feature{
				1: {f("spellcasting", "Spellcasting"), f("arcane-recovery", "Arcane Recovery")},
				2: {f("arcane-tradition", "Arcane Tradition")},
			},
		},
	}

	out := make(map[string]*Class, len(classes))
	for _, c := range classes {
		out[c.ID] = c
	}
	return out
}

func defaultRaces() map[string]*Race {
	races := []*Race{
		{ID: "human", Name: "Human", Bonuses: map[Ability]int{
			Strength: 1, Dexterity: 1, Constitution: 1, Intelligence: 1, Wisdom: 1, Charisma: 1,
		}},
		{ID: "dwarf", Name: "Dwarf", Bonuses: map[Ability]int{Constitution: 2}, Subraces: map[string]*Subrace{
			"hill-dwarf":     {ID: "hill-dwarf", Name: "Hill Dwarf", Bonuses: map[Ability]int{Wisdom: 1}},
			"mountain-dwarf": {ID: "mountain-dwarf", Name: "Mountain Dwarf", Bonuses: map[Ability]int{Strength: 2}},
		}},
		{ID: "elf", Name: "Elf", Bonuses: map[Ability]int{Dexterity: 2}, Subraces: map[string]*Subrace{
			"high-elf": {ID: "high-elf", Name: "High Elf", Bonuses: map[Ability]int{Intelligence: 1}},
			"wood-elf": {ID: "wood-elf", Name: "Wood Elf", Bonuses: map[Ability]int{Wisdom: 1}},
		}},
		{ID: "halfling", Name: "Halfling", Bonuses: map[Ability]int{Dexterity: 2}, Subraces: map[string]*Subrace{
			"lightfoot": {ID: "lightfoot", Name: "Lightfoot", Bonuses: map[Ability]int{Charisma: 1}},
			"stout":     {ID: "stout", Name: "Stout", Bonuses: map[Ability]int{Constitution: 1}},
		}},
		{ID: "dragonborn", Name: "Dragonborn", Bonuses: map[Ability]int{Strength: 2, Charisma: 1}},
		{ID: "gnome", Name: "Gnome", Bonuses: map[Ability]int{Intelligence: 2}, Subraces: map[string]*Subrace{
			"forest-gnome": {ID: "forest-gnome", Name: "Forest Gnome", Bonuses: map[Ability]int{Dexterity: 1}},
			"rock-gnome":   {ID: "rock-gnome", Name: "Rock Gnome", Bonuses: map[Ability]int{Constitution: 1}},
		}},
		{ID: "half-elf", Name: "Half-Elf", Bonuses: map[Ability]int{Charisma: 2}, BonusChoices: 2, ExcludedChoice: Charisma},
		{ID: "half-orc", Name: "Half-Orc", Bonuses: map[Ability]int{Strength: 2, Constitution: 1}},
		{ID: "tiefling", Name: "Tiefling", Bonuses: map[Ability]int{Charisma: 2, Intelligence: 1}},
	}

	out := make(map[string]*Race, len(races))
	for _, r := range races {
		out[r.ID] = r
	}
	return out
}

func defaultBackgrounds() map[string]*Background {
	backgrounds := []*Background{
		{ID: "acolyte", Name: "Acolyte", Skills: []string{"insight", "religion"}},
		{ID: "charlatan", Name: "Charlatan", Skills: []string{"deception", "sleight-of-hand"}},
		{ID: "criminal", Name: "Criminal", Skills: []string{"deception", "stealth"}},
		{ID: "entertainer", Name: "Entertainer", Skills: []string{"acrobatics", "performance"}},
		{ID: "folk-hero", Name: "Folk Hero", Skills: []string{"animal-handling", "survival"}},
		{ID: "guild-artisan", Name: "Guild Artisan", Skills: []string{"insight", "persuasion"}},
		{ID: "hermit", Name: "Hermit", Skills: []string{"medicine", "religion"}},
		{ID: "noble", Name: "Noble", Skills: []string{"history", "persuasion"}},
		{ID: "outlander", Name: "Outlander", Skills: []string{"athletics", "survival"}},
		{ID: "sage", Name: "Sage", Skills: []string{"arcana", "history"}},
		{ID: "sailor", Name: "Sailor", Skills: []string{"athletics", "perception"}},
		{ID: "soldier", Name: "Soldier", Skills: []string{"athletics", "intimidation"}},
		{ID: "urchin", Name: "Urchin", Skills: []string{"sleight-of-hand", "stealth"}},
	}

	out := make(map[string]*Background, len(backgrounds))
	for _, b := range backgrounds {
		out[b.ID] = b
	}
	return out
}

func defaultItems() map[string]*Item {
	items := []*Item{
		{ID: "padded", Name: "Padded Armor", Weight: 8, Armor: ArmorLight},
		{ID: "leather", Name: "Leather Armor", Weight: 10, Armor: ArmorLight},
		{ID: "studded-leather", Name: "Studded Leather Armor", Weight: 13, Armor: ArmorLight},
		{ID: "hide", Name: "Hide Armor", Weight: 12, Armor: ArmorMedium},
		{ID: "chain-shirt", Name: "Chain Shirt", Weight: 20, Armor: ArmorMedium},
		{ID: "scale-mail", Name: "Scale Mail", Weight: 45, Armor: ArmorMedium},
		{ID: "breastplate", Name: "Breastplate", Weight: 20, Armor: ArmorMedium},
		{ID: "half-plate", Name: "Half Plate", Weight: 40, Armor: ArmorMedium},
		{ID: "ring-mail", Name: "Ring Mail", Weight: 40, Armor: ArmorHeavy},
		{ID: "chain-mail", Name: "Chain Mail", Weight: 55, Armor: ArmorHeavy},
		{ID: "splint", Name: "Splint Armor", Weight: 60, Armor: ArmorHeavy},
		{ID: "plate", Name: "Plate Armor", Weight: 65, Armor: ArmorHeavy},
		{ID: "shield", Name: "Shield", Weight: 6, Armor: ArmorShield},
		{ID: "club", Name: "Club", Weight: 2},
		{ID: "dagger", Name: "Dagger", Weight: 1},
		{ID: "greataxe", Name: "Greataxe", Weight: 7},
		{ID: "greatsword", Name: "Greatsword", Weight: 6},
		{ID: "handaxe", Name: "Handaxe", Weight: 2},
		{ID: "javelin", Name: "Javelin", Weight: 2},
		{ID: "light-crossbow", Name: "Light Crossbow", Weight: 5},
		{ID: "longbow", Name: "Longbow", Weight: 2},
		{ID: "longsword", Name: "Longsword", Weight: 3},
		{ID: "mace", Name: "Mace", Weight: 4},
		{ID: "quarterstaff", Name: "Quarterstaff", Weight: 4},
		{ID: "rapier", Name: "Rapier", Weight: 2},
		{ID: "scimitar", Name: "Scimitar", Weight: 3},
		{ID: "shortbow", Name: "Shortbow", Weight: 2},
		{ID: "shortsword", Name: "Shortsword", Weight: 2},
		{ID: "warhammer", Name: "Warhammer", Weight: 2},
		{ID: "arrows", Name: "Arrows (20)", Weight: 1},
		{ID: "crossbow-bolts", Name: "Crossbow Bolts (20)", Weight: 1.5},
		{ID: "backpack", Name: "Backpack", Weight: 5},
		{ID: "bedroll", Name: "Bedroll", Weight: 7},
		{ID: "rope-hempen", Name: "Hempen Rope (50 feet)", Weight: 10},
		{ID: "torch", Name: "Torch", Weight: 1},
		{ID: "rations", Name: "Rations (1 day)", Weight: 2},
		{ID: "waterskin", Name: "Waterskin", Weight: 5},
		{ID: "explorers-pack", Name: "Explorer's Pack", Weight: 59},
		{ID: "dungeoneers-pack", Name: "Dungeoneer's Pack", Weight: 61.5},
		{ID: "priests-pack", Name: "Priest's Pack", Weight: 24},
		{ID: "scholars-pack", Name: "Scholar's Pack", Weight: 10},
		{ID: "component-pouch", Name: "Component Pouch", Weight: 2},
		{ID: "arcane-focus", Name: "Arcane Focus", Weight: 1},
		{ID: "holy-symbol", Name: "Holy Symbol", Weight: 1},
		{ID: "spellbook", Name: "Spellbook", Weight: 3},
		{ID: "thieves-tools", Name: "Thieves' Tools", Weight: 1},
		{ID: "lute", Name: "Lute", Weight: 2},
	}

	out := make(map[string]*Item, len(items))
	for _, i := range items {
		out[i.ID] = i
	}
	return out
}

func sp(id, name string, level int, classes ...string) *Spell {
	return &Spell{ID: id, Name: name, Level: level, Classes: classes}
}

func defaultSpells() map[string]*Spell {
	spells := []*Spell{
		sp("acid-splash", "Acid Splash", 0, "sorcerer", "wizard"),
		sp("blade-ward", "Blade Ward", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("chill-touch", "Chill Touch", 0, "sorcerer", "warlock", "wizard"),
		sp("dancing-lights", "Dancing Lights", 0, "bard", "sorcerer", "wizard"),
		sp("druidcraft", "Druidcraft", 0, "druid"),
		sp("eldritch-blast", "Eldritch Blast", 0, "warlock"),
		sp("fire-bolt", "Fire Bolt", 0, "sorcerer", "wizard"),
		sp("friends", "Friends", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("guidance", "Guidance", 0, "cleric", "druid"),
		sp("light", "Light", 0, "bard", "cleric", "sorcerer", "wizard"),
		sp("mage-hand", "Mage Hand", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("mending", "Mending", 0, "bard", "cleric", "druid", "sorcerer", "wizard"),
		sp("message", "Message", 0, "bard", "sorcerer", "wizard"),
		sp("minor-illusion", "Minor Illusion", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("poison-spray", "Poison Spray", 0, "druid", "sorcerer", "warlock", "wizard"),
		sp("prestidigitation", "Prestidigitation", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("produce-flame", "Produce Flame", 0, "druid"),
		sp("ray-of-frost", "Ray of Frost", 0, "sorcerer", "wizard"),
		sp("resistance", "Resistance", 0, "cleric", "druid"),
		sp("sacred-flame", "Sacred Flame", 0, "cleric"),
		sp("shillelagh", "Shillelagh", 0, "druid"),
		sp("shocking-grasp", "Shocking Grasp", 0, "sorcerer", "wizard"),
		sp("spare-the-dying", "Spare the Dying", 0, "cleric"),
		sp("thaumaturgy", "Thaumaturgy", 0, "cleric"),
		sp("true-strike", "True Strike", 0, "bard", "sorcerer", "warlock", "wizard"),
		sp("vicious-mockery", "Vicious Mockery", 0, "bard"),

		sp("armor-of-agathys", "Armor of Agathys", 1, "warlock"),
		sp("bless", "Bless", 1, "cleric", "paladin"),
		sp("burning-hands", "Burning Hands", 1, "sorcerer", "wizard"),
		sp("charm-person", "Charm Person", 1, "bard", "druid", "sorcerer", "warlock", "wizard"),
		sp("chromatic-orb", "Chromatic Orb", 1, "sorcerer", "wizard"),
		sp("comprehend-languages", "Comprehend Languages", 1, "bard", "sorcerer", "warlock", "wizard"),
		sp("cure-wounds", "Cure Wounds", 1, "bard", "cleric", "druid", "paladin", "ranger"),
		sp("detect-magic", "Detect Magic", 1, "bard", "cleric", "druid", "paladin", "ranger", "sorcerer", "wizard"),
		sp("dissonant-whispers", "Dissonant Whispers", 1, "bard"),
		sp("divine-favor", "Divine Favor", 1, "paladin"),
		sp("ensnaring-strike", "Ensnaring Strike", 1, "ranger"),
		sp("entangle", "Entangle", 1, "druid"),
		sp("faerie-fire", "Faerie Fire", 1, "bard", "druid"),
		sp("feather-fall", "Feather Fall", 1, "bard", "sorcerer", "wizard"),
		sp("find-familiar", "Find Familiar", 1, "wizard"),
		sp("goodberry", "Goodberry", 1, "druid", "ranger"),
		sp("guiding-bolt", "Guiding Bolt", 1, "cleric"),
		sp("healing-word", "Healing Word", 1, "bard", "cleric", "druid"),
		sp("hellish-rebuke", "Hellish Rebuke", 1, "warlock"),
		sp("hex", "Hex", 1, "warlock"),
		sp("hunters-mark", "Hunter's Mark", 1, "ranger"),
		sp("identify", "Identify", 1, "bard", "wizard"),
		sp("mage-armor", "Mage Armor", 1, "sorcerer", "wizard"),
		sp("magic-missile", "Magic Missile", 1, "sorcerer", "wizard"),
		sp("protection-from-evil-and-good", "Protection from Evil and Good", 1, "cleric", "paladin", "warlock", "wizard"),
		sp("shield", "Shield", 1, "sorcerer", "wizard"),
		sp("shield-of-faith", "Shield of Faith", 1, "cleric", "paladin"),
		sp("sleep", "Sleep", 1, "bard", "sorcerer", "wizard"),
		sp("thunderous-smite", "Thunderous Smite", 1, "paladin"),
		sp("thunderwave", "Thunderwave", 1, "bard", "druid", "sorcerer", "wizard"),

		sp("aid", "Aid", 2, "cleric", "paladin"),
		sp("hold-person", "Hold Person", 2, "bard", "cleric", "druid", "sorcerer", "warlock", "wizard"),
		sp("invisibility", "Invisibility", 2, "bard", "sorcerer", "warlock", "wizard"),
		sp("lesser-restoration", "Lesser Restoration", 2, "bard", "cleric", "druid", "paladin", "ranger"),
		sp("mirror-image", "Mirror Image", 2, "sorcerer", "warlock", "wizard"),
		sp("misty-step", "Misty Step", 2, "sorcerer", "warlock", "wizard"),
		sp("moonbeam", "Moonbeam", 2, "druid"),
		sp("pass-without-trace", "Pass without Trace", 2, "druid", "ranger"),
		sp("scorching-ray", "Scorching Ray", 2, "sorcerer", "wizard"),
		sp("shatter", "Shatter", 2, "bard", "sorcerer", "warlock", "wizard"),
		sp("spiritual-weapon", "Spiritual Weapon", 2, "cleric"),
		sp("suggestion", "Suggestion", 2, "bard", "sorcerer", "warlock", "wizard"),

		sp("call-lightning", "Call Lightning", 3, "druid"),
		sp("conjure-animals", "Conjure Animals", 3, "druid", "ranger"),
		sp("counterspell", "Counterspell", 3, "sorcerer", "warlock", "wizard"),
		sp("dispel-magic", "Dispel Magic", 3, "bard", "cleric", "druid", "paladin", "sorcerer", "warlock", "wizard"),
		sp("fireball", "Fireball", 3, "sorcerer", "wizard"),
		sp("fly", "Fly", 3, "sorcerer", "warlock", "wizard"),
		sp("haste", "Haste", 3, "sorcerer", "wizard"),
		sp("hypnotic-pattern", "Hypnotic Pattern", 3, "bard", "sorcerer", "warlock", "wizard"),
		sp("lightning-bolt", "Lightning Bolt", 3, "sorcerer", "wizard"),
		sp("revivify", "Revivify", 3, "cleric", "paladin"),
		sp("spirit-guardians", "Spirit Guardians", 3, "cleric"),
	}

	out := make(map[string]*Spell, len(spells))
	for _, s := range spells {
		out[s.ID] = s
	}
	return out
}
