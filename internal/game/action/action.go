// Package action provides the gate in front of the combat resolver: it
// validates preconditions (action points, target existence and liveness),
// invokes the resolver, and persists the mutated attacker/target state
// through the storage collaborator.
package action

import (
	"errors"

	"github.com/google/uuid"
)

// BasicAttackCost is the action-point cost of one basic attack.
const BasicAttackCost = 1

// ActionBasicAttack is the action type identifier accepted by Perform.
const ActionBasicAttack = "basic_attack"

// Sentinel errors for the gate's failure surfaces. The transport layer maps
// these to client-facing status codes and messages; no state is mutated on
// any of them.
var (
	// ErrNotEnoughActionPoints is returned when the attacker cannot pay
	// the action's cost. Surfaced to clients as "Not enough action points".
	ErrNotEnoughActionPoints = errors.New("not enough action points")
	// ErrTargetNotFound is returned when the target ID does not resolve to
	// a character in the game. Kept distinct from precondition errors so
	// the route layer can answer 404 instead of 400.
	ErrTargetNotFound = errors.New("target not found")
	// ErrTargetDead is returned when the target has no health remaining.
	ErrTargetDead = errors.New("target is already dead")
	// ErrUnknownActionType is returned for action types other than
	// basic_attack.
	ErrUnknownActionType = errors.New("unknown action type")
)

// BasicAttackParams carries the per-action parameters from the client.
type BasicAttackParams struct {
	// AttackType is "melee", "ranged", or "spell".
	AttackType string `json:"attackType"`
}

// Request is one inbound action request against a character in a game.
// Game and attacker identifiers travel explicitly with the request; the
// gate keeps no ambient session state.
type Request struct {
	ActionType string            `json:"actionType"`
	TargetID   uuid.UUID         `json:"targetId"`
	Params     BasicAttackParams `json:"params"`
}
