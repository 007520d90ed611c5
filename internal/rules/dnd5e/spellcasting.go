package dnd5e

// fullCasterSlots is the multiclass spellcaster table, indexed by caster
// level - 1 and spell level - 1.
var fullCasterSlots = [20][9]int{
	{2},
	{3},
	{4, 2},
	{4, 3},
	{4, 3, 2},
	{4, 3, 3},
	{4, 3, 3, 1},
	{4, 3, 3, 2},
	{4, 3, 3, 3, 1},
	{4, 3, 3, 3, 2},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// castsAt reports whether class casts spells at classLevel
func castsAt(class *Class, classLevel int) bool {
	return class.Spellcasting != nil && classLevel >= class.Spellcasting.StartLevel
}

// maxSpellLevel is the highest spell level class can learn at classLevel
func maxSpellLevel(class *Class, classLevel int) int {
	if !castsAt(class, classLevel) {
		return 0
	}
	switch class.Spellcasting.Progression {
	case ProgressionFull:
		return min(9, (classLevel+1)/2)
	case ProgressionHalf:
		return (classLevel + 3) / 4
	case ProgressionPact:
		return min(5, (classLevel+1)/2)
	}
	return 0
}

func tableAt(table []int, classLevel int) int {
	if classLevel < 1 || len(table) == 0 {
		return 0
	}
	if classLevel > len(table) {
		return table[len(table)-1]
	}
	return table[classLevel-1]
}

// cantripsKnown at classLevel
func cantripsKnown(class *Class, classLevel int) int {
	if !castsAt(class, classLevel) {
		return 0
	}
	return tableAt(class.Spellcasting.Cantrips, classLevel)
}

// spellsKnown is how many leveled spells class may hold at classLevel.
// Prepared casters depend on their casting modifier.
func spellsKnown(class *Class, classLevel int, scores map[Ability]int) int {
	if !castsAt(class, classLevel) {
		return 0
	}
	sc := class.Spellcasting
	switch sc.Style {
	case StyleKnown:
		return tableAt(sc.Known, classLevel)
	case StyleSpellbook:
		return 6 + 2*(classLevel-1)
	case StylePrepared:
		mod := 0
		if scores != nil {
			mod = modifier(scores[sc.Ability])
		}
		levels := classLevel
		if sc.Progression == ProgressionHalf {
			levels = classLevel / 2
		}
		return max(1, mod+levels)
	}
	return 0
}

// spellSlots computes slots for every class the character holds. Single
// class half casters round their caster level up, multiclass rounds down.
func (r *Ruleset) spellSlots(classes *classPayload) spellSlotsFacet {
	out := spellSlotsFacet{Slots: make([]int, 9)}

	casters := 0
	for _, entry := range classes.Classes {
		if class, ok := r.data.Classes[entry.ClassID]; ok && castsAt(class, classLevel(entry)) &&
			class.Spellcasting.Progression != ProgressionPact {
			casters++
		}
	}

	casterLevel := 0
	for _, entry := range classes.Classes {
		class, ok := r.data.Classes[entry.ClassID]
		if !ok || !castsAt(class, classLevel(entry)) {
			continue
		}
		level := classLevel(entry)
		switch class.Spellcasting.Progression {
		case ProgressionFull:
			casterLevel += level
		case ProgressionHalf:
			if casters == 1 {
				casterLevel += (level + 1) / 2
			} else {
				casterLevel += level / 2
			}
		case ProgressionPact:
			out.PactLevel = min(5, (level+1)/2)
			switch {
			case level >= 17:
				out.PactSlots = 4
			case level >= 11:
				out.PactSlots = 3
			case level >= 2:
				out.PactSlots = 2
			default:
				out.PactSlots = 1
			}
		}
	}

	if casterLevel > 0 {
		row := fullCasterSlots[min(casterLevel, 20)-1]
		copy(out.Slots, row[:])
	}
	return out
}
