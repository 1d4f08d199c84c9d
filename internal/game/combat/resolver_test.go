package combat_test

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/combat"
	"github.com/questdeck/questdeck/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// strictSource returns canned values in order and fails the test if the
// resolver consumes more entropy than scripted. Values are die result
// minus one, matching the Source contract.
type strictSource struct {
	t      *testing.T
	values []int
	idx    int
}

func (s *strictSource) Intn(n int) int {
	s.t.Helper()
	if s.idx >= len(s.values) {
		s.t.Fatalf("unexpected dice roll: %d values scripted, roll %d requested", len(s.values), s.idx+1)
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

func newRoller(t *testing.T, dieResults ...int) *dice.Roller {
	t.Helper()
	values := make([]int, len(dieResults))
	for i, d := range dieResults {
		values[i] = d - 1
	}
	return dice.NewLoggedRoller(&strictSource{t: t, values: values}, zap.NewNop())
}

func newAttacker(stats character.Stats) *character.Character {
	return &character.Character{
		ID:       uuid.New(),
		Level:    1,
		Stats:    stats,
		Equipped: map[string]string{},
		Health:   10, MaxHealth: 10,
		ActionPoints: 2, MaxActionPoints: 3,
	}
}

func newTarget(health int, stats character.Stats) *character.Character {
	return &character.Character{
		ID:       uuid.New(),
		Level:    1,
		Stats:    stats,
		Equipped: map[string]string{},
		Health:   health, MaxHealth: health,
	}
}

// Reference scenario: STR 16 (+3) and proficiency +2 give attack bonus +5;
// a natural 20 is a critical hit, the 1d8 longsword rolls doubled dice, and
// 5 + 3 + 3 = 11 damage drops the 12 HP target to 1.
func TestResolveBasicAttack_CriticalHit(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 16})
	equip(attacker, character.Item{ID: "sword", Name: "Longsword", Slot: character.SlotMainHand, DamageDice: "1d8"})
	target := newTarget(12, character.Stats{})

	roller := newRoller(t, 20, 5, 3) // attack d20, then 2d8 crit damage
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)

	assert.Equal(t, 20, result.AttackRoll.Natural)
	assert.Equal(t, 5, result.AttackRoll.Modifier)
	assert.Equal(t, 25, result.AttackRoll.Total)
	assert.True(t, result.AttackRoll.Critical)
	assert.False(t, result.AttackRoll.Fumble)
	assert.Equal(t, "20 + 5 = 25", result.AttackRoll.Breakdown)

	assert.True(t, result.Hit)
	require.NotNil(t, result.DamageRoll)
	assert.Equal(t, []int{5, 3}, result.DamageRoll.Rolls, "critical doubles the dice count")
	assert.Equal(t, 3, result.DamageRoll.Modifier, "flat modifier is added once, never doubled")
	assert.True(t, result.DamageRoll.Critical)
	assert.Equal(t, 11, result.DamageDealt)

	assert.Equal(t, 1, result.Target.RemainingHealth)
	assert.Equal(t, target.ID, result.Target.ID)
	assert.Equal(t, 1, target.Health)
}

// Reference scenario: a natural 1 is a fumble — automatic miss, no damage
// roll, target health untouched. The strict source proves the damage dice
// were never rolled.
func TestResolveBasicAttack_Fumble(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 16})
	equip(attacker, character.Item{ID: "sword", Name: "Longsword", Slot: character.SlotMainHand, DamageDice: "1d8"})
	target := newTarget(10, character.Stats{})

	roller := newRoller(t, 1) // attack d20 only
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AttackRoll.Natural)
	assert.Equal(t, 6, result.AttackRoll.Total)
	assert.True(t, result.AttackRoll.Fumble)
	assert.False(t, result.Hit)
	assert.Nil(t, result.DamageRoll)
	assert.Equal(t, 0, result.DamageDealt)
	assert.Equal(t, 10, result.Target.RemainingHealth)
	assert.Equal(t, 10, target.Health)
}

// Reference scenario: attack bonus +2 against AC 14; total 12 misses and
// no damage is rolled.
func TestResolveBasicAttack_MissByArmorClass(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 10, "dex": 10})
	target := newTarget(15, character.Stats{"dex": 18}) // AC 14

	roller := newRoller(t, 10) // attack d20 only
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)

	assert.Equal(t, 10, result.AttackRoll.Natural)
	assert.Equal(t, 12, result.AttackRoll.Total)
	assert.False(t, result.AttackRoll.Critical)
	assert.False(t, result.AttackRoll.Fumble)
	assert.False(t, result.Hit)
	assert.Nil(t, result.DamageRoll)
	assert.Equal(t, 0, result.DamageDealt)
	assert.Equal(t, 15, target.Health)
}

func TestResolveBasicAttack_NormalHit(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 16})
	equip(attacker, character.Item{ID: "sword", Name: "Longsword", Slot: character.SlotMainHand, DamageDice: "1d8"})
	target := newTarget(12, character.Stats{"dex": 12}) // AC 11

	roller := newRoller(t, 10, 4) // attack d20, then 1d8 damage
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)

	assert.True(t, result.Hit)
	require.NotNil(t, result.DamageRoll)
	assert.Equal(t, []int{4}, result.DamageRoll.Rolls, "non-critical keeps the base dice count")
	assert.False(t, result.DamageRoll.Critical)
	assert.Equal(t, 7, result.DamageDealt, "4 + STR modifier 3")
	assert.Equal(t, 5, target.Health)
}

func TestResolveBasicAttack_UnarmedDefaultsTo1d4(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 16})
	target := newTarget(10, character.Stats{})

	roller := newRoller(t, 15, 3) // attack d20, then 1d4 damage
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)
	require.NotNil(t, result.DamageRoll)
	assert.Equal(t, 6, result.DamageDealt, "3 + STR modifier 3")
}

// A natural 20 hits even when the total could never clear the target AC.
func TestResolveBasicAttack_CriticalBeatsAnyAC(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 6}) // modifier -2
	target := newTarget(20, character.Stats{"dex": 18})
	equip(target, character.Item{ID: "plate", Name: "Plate", Slot: character.SlotChest, ArmorClass: 18})
	equip(target, character.Item{ID: "sh", Name: "Shield", Slot: character.SlotOffHand}) // AC 20

	roller := newRoller(t, 20, 2, 1)
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.Less(t, result.AttackRoll.Total, 20, "total alone would have missed")
}

// A natural 1 misses even against an unarmored target with a crippled AC.
func TestResolveBasicAttack_FumbleMissesAnyAC(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 30})
	target := newTarget(10, character.Stats{"dex": 1}) // AC 5

	roller := newRoller(t, 1)
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)
	assert.False(t, result.Hit)
	assert.Greater(t, result.AttackRoll.Total, 5, "total alone would have hit")
}

// Damage at or above current health floors remaining health at zero.
func TestResolveBasicAttack_HealthFloor(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 20})
	equip(attacker, character.Item{ID: "axe", Name: "Greataxe", Slot: character.SlotMainHand, DamageDice: "1d12"})
	target := newTarget(3, character.Stats{})

	roller := newRoller(t, 15, 12) // 12 + 5 = 17 damage vs 3 HP
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
	require.NoError(t, err)
	assert.Equal(t, 17, result.DamageDealt)
	assert.Equal(t, 0, result.Target.RemainingHealth)
	assert.Equal(t, 0, target.Health)
}

func TestResolveBasicAttack_RangedUsesDexterity(t *testing.T) {
	attacker := newAttacker(character.Stats{"str": 8, "dex": 18})
	equip(attacker, character.Item{ID: "bow", Name: "Shortbow", Slot: character.SlotMainHand, DamageDice: "1d6", WeaponType: "ranged"})
	target := newTarget(10, character.Stats{}) // AC 10

	roller := newRoller(t, 10, 4) // 10 + 4 + 2 = 16 vs AC 10
	result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackRanged, roller)
	require.NoError(t, err)
	assert.Equal(t, 16, result.AttackRoll.Total, "DEX modifier drives ranged attacks")
	assert.Equal(t, 8, result.DamageDealt, "4 + DEX modifier 4")
}

// Property: classification is total and consistent — a natural 20 always
// hits, a natural 1 always misses, and everything else compares the total
// against the target AC. Damage and remaining health never go negative.
func TestResolveBasicAttack_Property_Classification(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		natural := rapid.IntRange(1, 20).Draw(rt, "natural")
		str := rapid.IntRange(1, 30).Draw(rt, "str")
		targetDex := rapid.IntRange(1, 30).Draw(rt, "target_dex")
		health := rapid.IntRange(1, 50).Draw(rt, "health")

		attacker := &character.Character{
			ID: uuid.New(), Level: 1,
			Stats:    character.Stats{"str": str},
			Equipped: map[string]string{},
			Health:   10, MaxHealth: 10,
		}
		target := &character.Character{
			ID: uuid.New(), Level: 1,
			Stats:    character.Stats{"dex": targetDex},
			Equipped: map[string]string{},
			Health:   health, MaxHealth: health,
		}
		targetAC := combat.ArmorClass(target)

		// Script enough dice for the worst case (attack + 2 crit dice).
		src := &permissiveSource{values: []int{natural - 1, 2, 2}}
		roller := dice.NewLoggedRoller(src, zap.NewNop())

		result, err := combat.ResolveBasicAttack(attacker, target, combat.AttackMelee, roller)
		require.NoError(rt, err)

		switch natural {
		case 20:
			assert.True(rt, result.Hit, "natural 20 always hits")
		case 1:
			assert.False(rt, result.Hit, "natural 1 always misses")
		default:
			assert.Equal(rt, result.AttackRoll.Total >= targetAC, result.Hit)
		}

		if !result.Hit {
			assert.Nil(rt, result.DamageRoll)
			assert.Zero(rt, result.DamageDealt)
			assert.Equal(rt, health, target.Health)
		} else {
			require.NotNil(rt, result.DamageRoll)
		}
		assert.GreaterOrEqual(rt, result.DamageDealt, 0)
		assert.GreaterOrEqual(rt, result.Target.RemainingHealth, 0)
	})
}

// permissiveSource repeats its last value once exhausted.
type permissiveSource struct {
	values []int
	idx    int
}

func (s *permissiveSource) Intn(n int) int {
	v := s.values[s.idx]
	if s.idx < len(s.values)-1 {
		s.idx++
	}
	if v >= n {
		v = n - 1
	}
	return v
}
