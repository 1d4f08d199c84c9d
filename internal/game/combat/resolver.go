package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/dice"
)

// UnarmedDamageDice is the base damage expression used when no weapon is
// equipped in the main hand.
const UnarmedDamageDice = "1d4"

// AttackRoll captures the d20 roll of one attack.
type AttackRoll struct {
	// Natural is the unmodified die value.
	Natural int `json:"natural"`
	// Modifier is the flat attack bonus added to the die.
	Modifier int `json:"modifier"`
	// Total is Natural + Modifier.
	Total int `json:"total"`
	// Critical is true iff Natural == 20.
	Critical bool `json:"critical"`
	// Fumble is true iff Natural == 1.
	Fumble bool `json:"fumble"`
	// Breakdown is the human-readable roll audit, e.g. "20 + 5 = 25".
	Breakdown string `json:"breakdown"`
}

// DamageRoll captures the weapon damage roll of a hit.
type DamageRoll struct {
	// Rolls holds the individual damage die values.
	Rolls []int `json:"rolls"`
	// Modifier is the flat ability modifier added once, never doubled.
	Modifier int `json:"modifier"`
	// Total is sum(Rolls) + Modifier.
	Total int `json:"total"`
	// Critical is true when the dice count was doubled for a critical hit.
	Critical bool `json:"critical"`
	// Breakdown is the human-readable roll audit.
	Breakdown string `json:"breakdown"`
}

// TargetState is the post-attack snapshot of the defender.
type TargetState struct {
	ID              uuid.UUID `json:"id"`
	RemainingHealth int       `json:"remainingHealth"`
}

// BasicAttackResult is the sole output contract of the resolver. It is
// constructed once and never mutated after creation.
type BasicAttackResult struct {
	AttackRoll  AttackRoll  `json:"attackRoll"`
	Hit         bool        `json:"hit"`
	DamageRoll  *DamageRoll `json:"damageRoll,omitempty"` // absent on miss/fumble
	DamageDealt int         `json:"damageDealt"`
	Target      TargetState `json:"target"`
}

// ResolveBasicAttack performs one attacker-vs-target attack: rolls to hit,
// classifies the roll, conditionally rolls damage, and applies the damage
// to the target's in-memory health. Classification precedence: a natural 20
// always hits regardless of target AC, a natural 1 always misses regardless
// of target AC; otherwise the attack hits iff total >= target AC. On a
// critical hit the damage dice count is doubled; the flat modifier is added
// once. Persistence is the caller's responsibility.
//
// Precondition: attacker, target, and roller must be non-nil.
// Postcondition: target.Health == max(0, old health - DamageDealt);
// DamageRoll is nil iff Hit is false.
func ResolveBasicAttack(attacker, target *character.Character, at AttackType, roller *dice.Roller) (BasicAttackResult, error) {
	bonus := AttackBonus(attacker, at)
	attack, err := roller.RollExpr(attackNotation(bonus))
	if err != nil {
		return BasicAttackResult{}, fmt.Errorf("rolling attack: %w", err)
	}

	hit := attack.Critical || (!attack.Fumble && attack.Total() >= ArmorClass(target))

	result := BasicAttackResult{
		AttackRoll: AttackRoll{
			Natural:   attack.Natural(),
			Modifier:  attack.Modifier,
			Total:     attack.Total(),
			Critical:  attack.Critical,
			Fumble:    attack.Fumble,
			Breakdown: attack.Breakdown(),
		},
		Hit: hit,
	}

	if hit {
		expr, err := damageExpression(attacker, at, attack.Critical)
		if err != nil {
			return BasicAttackResult{}, err
		}
		damage, err := roller.Roll(expr)
		if err != nil {
			return BasicAttackResult{}, fmt.Errorf("rolling damage: %w", err)
		}
		dealt := damage.Total()
		if dealt < 0 {
			dealt = 0
		}
		result.DamageRoll = &DamageRoll{
			Rolls:     damage.Dice,
			Modifier:  damage.Modifier,
			Total:     damage.Total(),
			Critical:  attack.Critical,
			Breakdown: damage.Breakdown(),
		}
		result.DamageDealt = dealt
		target.ApplyDamage(dealt)
	}

	result.Target = TargetState{ID: target.ID, RemainingHealth: target.Health}
	return result, nil
}

// attackNotation builds the d20 attack expression, e.g. "1d20+5" or "1d20-2".
func attackNotation(bonus int) string {
	if bonus == 0 {
		return "1d20"
	}
	return fmt.Sprintf("1d20%+d", bonus)
}

// damageExpression builds the weapon damage expression for the attacker:
// the equipped main-hand weapon's dice (unarmed 1d4 otherwise), with the
// dice count doubled on a critical hit and the attack ability modifier
// added once.
func damageExpression(attacker *character.Character, at AttackType, critical bool) (dice.Expression, error) {
	notation := UnarmedDamageDice
	if weapon, ok := attacker.EquippedItem(character.SlotMainHand); ok && weapon.DamageDice != "" {
		notation = weapon.DamageDice
	}

	base, err := dice.Parse(notation)
	if err != nil {
		return dice.Expression{}, fmt.Errorf("parsing weapon damage dice %q: %w", notation, err)
	}

	count := base.Count
	if critical {
		count *= 2
	}
	// Flat bonuses (the weapon's own and the ability modifier) are added
	// once; only the dice are doubled on a critical.
	mod := base.Modifier + AbilityModifier(attacker.Stats.Score(attackAbility(attacker, at)))

	raw := fmt.Sprintf("%dd%d", count, base.Sides)
	if mod != 0 {
		raw = fmt.Sprintf("%s%+d", raw, mod)
	}
	return dice.Expression{Raw: raw, Count: count, Sides: base.Sides, Modifier: mod}, nil
}
