// Package character defines the character domain model shared by the
// combat engine, the action service, and the persistence layer.
package character

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned (possibly wrapped) by character stores when a
// lookup yields no character.
var ErrNotFound = errors.New("character not found")

// Character represents one playable character or NPC in a game.
//
// Invariant: 0 <= Health <= MaxHealth and 0 <= ActionPoints <= MaxActionPoints.
// Derived combat statistics (modifiers, AC, attack bonus) are always
// recomputed from Stats and gear, never cached on the character.
type Character struct {
	ID     uuid.UUID
	GameID uuid.UUID

	Name   string
	Class  Class
	Level  int
	Stats  Stats
	Skills []string // proficiency identifiers, matched case-insensitively

	Items    []Item
	Equipped map[string]string // slot name → item ID; "" or absent = empty

	Health          int
	MaxHealth       int
	ActionPoints    int
	MaxActionPoints int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemByID returns the carried item with the given ID.
//
// Postcondition: Returns (item, true) if found, or (zero, false) otherwise.
func (c *Character) ItemByID(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// EquippedItem resolves the item equipped in the given slot, or (zero, false)
// when the slot is empty or the equipped ID no longer matches a carried item.
func (c *Character) EquippedItem(slot string) (Item, bool) {
	id, ok := c.Equipped[slot]
	if !ok || id == "" {
		return Item{}, false
	}
	return c.ItemByID(id)
}

// HasSkill reports whether the character is proficient in the given skill,
// compared case-insensitively.
func (c *Character) HasSkill(skill string) bool {
	for _, s := range c.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// IsDead reports whether the character is out of the fight.
//
// Postcondition: Returns true iff Health <= 0.
func (c *Character) IsDead() bool { return c.Health <= 0 }

// ApplyDamage reduces Health by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: Health >= 0.
func (c *Character) ApplyDamage(amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}

// SpendActionPoints deducts cost from ActionPoints.
//
// Precondition: cost >= 0 and cost <= ActionPoints; callers gate on
// ActionPoints before spending.
// Postcondition: ActionPoints >= 0.
func (c *Character) SpendActionPoints(cost int) {
	c.ActionPoints -= cost
	if c.ActionPoints < 0 {
		c.ActionPoints = 0
	}
}
