package character

import "strings"

// Gear slot names used by the equipped map.
const (
	SlotMainHand = "mainhand"
	SlotOffHand  = "offhand"
	SlotChest    = "chest"
)

// Item is a piece of gear carried by a character. Fields are optional:
// armor declares ArmorClass, weapons declare DamageDice, shields set the
// Shield flag (or are recognized by name).
type Item struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slot       string `json:"slot,omitempty"`
	ArmorClass int    `json:"armorClass,omitempty"`
	Shield     bool   `json:"shield,omitempty"`
	DamageDice string `json:"damageDice,omitempty"`
	WeaponType string `json:"weaponType,omitempty"`
}

// IsShield reports whether the item counts as a shield: either explicitly
// tagged, or its name indicates one.
func (i Item) IsShield() bool {
	return i.Shield || strings.Contains(strings.ToLower(i.Name), "shield")
}
