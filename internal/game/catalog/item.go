// Package catalog provides definitions and loaders for the gear templates
// characters can carry: weapons, armor, and shields, loaded from YAML.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/dice"
)

// validSlots is the set of gear slots items may declare.
var validSlots = map[string]struct{}{
	character.SlotMainHand: {},
	character.SlotOffHand:  {},
	character.SlotChest:    {},
}

// ItemDef defines the static properties of an item template loaded from YAML.
type ItemDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Slot       string `yaml:"slot"`
	ArmorClass int    `yaml:"armor_class"`
	Shield     bool   `yaml:"shield"`
	DamageDice string `yaml:"damage_dice"`
	WeaponType string `yaml:"weapon_type"`
}

// Validate reports an error if the ItemDef is missing required fields or
// contains illegal values.
//
// Precondition: def is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Slot != "" {
		if _, ok := validSlots[d.Slot]; !ok {
			errs = append(errs, fmt.Errorf("slot %q is not a valid gear slot", d.Slot))
		}
	}
	if d.ArmorClass < 0 {
		errs = append(errs, errors.New("armor_class must be >= 0"))
	}
	if d.DamageDice != "" {
		if _, err := dice.Parse(d.DamageDice); err != nil {
			errs = append(errs, fmt.Errorf("damage_dice: %w", err))
		}
	}
	if d.WeaponType != "" && d.WeaponType != "melee" && d.WeaponType != "ranged" {
		errs = append(errs, fmt.Errorf("weapon_type %q must be \"melee\" or \"ranged\"", d.WeaponType))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// Item converts the template into a carried character item.
func (d *ItemDef) Item() character.Item {
	return character.Item{
		ID:         d.ID,
		Name:       d.Name,
		Slot:       d.Slot,
		ArmorClass: d.ArmorClass,
		Shield:     d.Shield,
		DamageDice: d.DamageDice,
		WeaponType: d.WeaponType,
	}
}

// LoadItems reads all .yaml files in dir and returns the parsed ItemDef slice.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil slice and nil error on success; all
// returned defs pass Validate.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	items := []*ItemDef{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
