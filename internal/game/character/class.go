package character

import "strings"

// Class is a tagged character class. Each class carries its spellcasting
// ability explicitly so callers never reason about class names as strings.
type Class string

const (
	ClassArtificer Class = "artificer"
	ClassBarbarian Class = "barbarian"
	ClassBard      Class = "bard"
	ClassCleric    Class = "cleric"
	ClassDruid     Class = "druid"
	ClassFighter   Class = "fighter"
	ClassMonk      Class = "monk"
	ClassPaladin   Class = "paladin"
	ClassRanger    Class = "ranger"
	ClassRogue     Class = "rogue"
	ClassSorcerer  Class = "sorcerer"
	ClassWarlock   Class = "warlock"
	ClassWizard    Class = "wizard"
)

// ParseClass normalizes a free-text class name to a Class. Unrecognized
// names are preserved as-is (lower-cased); they behave as non-casters with
// the documented default spellcasting ability.
func ParseClass(s string) Class {
	return Class(strings.ToLower(strings.TrimSpace(s)))
}

// SpellcastingAbility returns the ability used for spell attacks and save
// DCs. Unrecognized classes fall back to Intelligence, the documented
// default.
func (c Class) SpellcastingAbility() Ability {
	switch c {
	case ClassWizard, ClassArtificer:
		return Intelligence
	case ClassCleric, ClassDruid, ClassRanger, ClassMonk:
		return Wisdom
	case ClassSorcerer, ClassWarlock, ClassBard, ClassPaladin:
		return Charisma
	default:
		return Intelligence
	}
}
