// Package combat implements the basic-attack resolution engine: combat
// math helpers, hit/miss/critical/fumble classification, and damage
// application. All functions are pure with respect to their inputs aside
// from dice randomness; persistence belongs to the caller.
package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/questdeck/questdeck/internal/game/character"
)

// ErrUnknownAttackType is returned for attack types other than melee,
// ranged, or spell.
var ErrUnknownAttackType = errors.New("unknown attack type")

// AttackType selects which ability drives an attack roll.
type AttackType string

const (
	AttackMelee  AttackType = "melee"
	AttackRanged AttackType = "ranged"
	AttackSpell  AttackType = "spell"
)

// ParseAttackType normalizes a client-supplied attack type string.
//
// Postcondition: Returns a valid AttackType or a descriptive error.
func ParseAttackType(s string) (AttackType, error) {
	switch AttackType(strings.ToLower(strings.TrimSpace(s))) {
	case AttackMelee:
		return AttackMelee, nil
	case AttackRanged:
		return AttackRanged, nil
	case AttackSpell:
		return AttackSpell, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAttackType, s)
	}
}

// attackAbility returns the ability that drives attack and damage rolls
// for the given attack type: STR for melee, DEX for ranged, and the
// class's spellcasting ability for spell attacks.
func attackAbility(c *character.Character, at AttackType) character.Ability {
	switch at {
	case AttackRanged:
		return character.Dexterity
	case AttackSpell:
		return c.Class.SpellcastingAbility()
	default:
		return character.Strength
	}
}
