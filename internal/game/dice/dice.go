// Package dice provides the randomness abstraction and roll-result types
// for the Questdeck combat engine.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d20+5"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
	Critical   bool   // true iff a single d20 rolled a natural 20
	Fumble     bool   // true iff a single d20 rolled a natural 1
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Natural returns the unmodified value of the first die.
// For attack rolls (single d20) this is the natural roll.
//
// Precondition: len(r.Dice) >= 1.
func (r RollResult) Natural() int {
	if len(r.Dice) == 0 {
		panic("dice: Natural() precondition violated: no dice rolled")
	}
	return r.Dice[0]
}

// Breakdown renders the roll in human-readable form, e.g. "20 + 5 = 25"
// or "4 + 6 - 1 = 9". It is display-only and fully reproducible from
// Dice, Modifier, and Total.
//
// Precondition: len(r.Dice) >= 1.
func (r RollResult) Breakdown() string {
	if len(r.Dice) == 0 {
		panic("dice: Breakdown() precondition violated: no dice rolled")
	}
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = fmt.Sprintf("%d", d)
	}
	b := strings.Join(parts, " + ")
	switch {
	case r.Modifier > 0:
		b += fmt.Sprintf(" + %d", r.Modifier)
	case r.Modifier < 0:
		b += fmt.Sprintf(" - %d", -r.Modifier)
	}
	return fmt.Sprintf("%s = %d", b, r.Total())
}

// String returns an audit string in the format:
//
//	"1d20+5 → 20 + 5 = 25"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %s", r.Expression, r.Breakdown())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
