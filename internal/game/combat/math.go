package combat

import "github.com/questdeck/questdeck/internal/game/character"

// Armor weight-class thresholds derived from an armor piece's AC value.
// Heavy armor grants no DEX bonus, medium caps it at +2, light keeps it all.
const (
	heavyArmorAC  = 16
	mediumArmorAC = 13
	mediumDexCap  = 2
	shieldBonus   = 2
)

// AbilityModifier computes the standard ability modifier using floor
// division: floor((score - 10) / 2).
//
// Postcondition: Returns floor((score - 10) / 2).
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// ProficiencyBonus returns the level-scaled proficiency bonus:
// ceil(level/4) + 1. A level of zero or below is treated as level 1.
//
// Postcondition: Returns >= 2.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return (level+3)/4 + 1
}

// ArmorClass computes the character's armor class: base 10 + DEX modifier,
// replaced by equipped chest armor's AC with the DEX bonus capped by the
// armor's weight class, plus a shield bonus from an equipped off-hand shield.
//
// Postcondition: Returns the fully derived AC; nothing is cached.
func ArmorClass(c *character.Character) int {
	dexMod := AbilityModifier(c.Stats.Score(character.Dexterity))
	ac := 10 + dexMod

	if armor, ok := c.EquippedItem(character.SlotChest); ok && armor.ArmorClass > 0 {
		switch {
		case armor.ArmorClass >= heavyArmorAC:
			ac = armor.ArmorClass
		case armor.ArmorClass >= mediumArmorAC:
			capped := dexMod
			if capped > mediumDexCap {
				capped = mediumDexCap
			}
			ac = armor.ArmorClass + capped
		default:
			ac = armor.ArmorClass + dexMod
		}
	}

	if off, ok := c.EquippedItem(character.SlotOffHand); ok {
		if off.ArmorClass > 0 {
			ac += off.ArmorClass
		} else if off.IsShield() {
			ac += shieldBonus
		}
	}

	return ac
}

// AttackBonus returns the flat bonus added to a d20 attack roll: the attack
// type's ability modifier plus the proficiency bonus.
func AttackBonus(c *character.Character, at AttackType) int {
	mod := AbilityModifier(c.Stats.Score(attackAbility(c, at)))
	return mod + ProficiencyBonus(c.Level)
}

// SpellSaveDC returns 8 + spellcasting ability modifier + proficiency bonus.
func SpellSaveDC(c *character.Character) int {
	mod := AbilityModifier(c.Stats.Score(c.Class.SpellcastingAbility()))
	return 8 + mod + ProficiencyBonus(c.Level)
}

// PassivePerception returns 10 + WIS modifier, plus the proficiency bonus
// when the character is proficient in perception.
func PassivePerception(c *character.Character) int {
	pp := 10 + AbilityModifier(c.Stats.Score(character.Wisdom))
	if IsSkillProficient(c, "perception") {
		pp += ProficiencyBonus(c.Level)
	}
	return pp
}

// IsSkillProficient reports whether the character is proficient in the
// given skill, compared case-insensitively.
func IsSkillProficient(c *character.Character, skill string) bool {
	return c.HasSkill(skill)
}
