package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/combat"
	"github.com/questdeck/questdeck/internal/game/dice"
)

// CharacterStore is the persistence collaborator consumed by the gate.
// Implementations must make SaveCombatState atomic so a request either
// persists both sides of the attack or nothing.
type CharacterStore interface {
	// GetByGame returns the character with the given ID inside the game.
	// A missing character yields an error wrapping character.ErrNotFound.
	GetByGame(ctx context.Context, gameID, id uuid.UUID) (*character.Character, error)
	// SaveCombatState persists the attacker's action points and the
	// target's health in one transaction.
	SaveCombatState(ctx context.Context, attacker, target *character.Character) error
}

// Outcome bundles the resolver result with the updated attacker snapshot
// for the response body.
type Outcome struct {
	Result   combat.BasicAttackResult
	Attacker *character.Character
}

// Service validates and executes combat actions.
type Service struct {
	store  CharacterStore
	roller *dice.Roller
	logger *zap.Logger
	cost   int
}

// NewService creates the action gate.
//
// Precondition: store, roller, and logger must be non-nil; cost must be >= 1.
func NewService(store CharacterStore, roller *dice.Roller, logger *zap.Logger, cost int) *Service {
	return &Service{store: store, roller: roller, logger: logger, cost: cost}
}

// Perform dispatches an action request for the attacker in the given game.
//
// Postcondition: Returns ErrUnknownActionType for unrecognized action types;
// otherwise behaves as PerformBasicAttack.
func (s *Service) Perform(ctx context.Context, gameID, attackerID uuid.UUID, req Request) (*Outcome, error) {
	if req.ActionType != ActionBasicAttack {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, req.ActionType)
	}
	return s.PerformBasicAttack(ctx, gameID, attackerID, req)
}

// PerformBasicAttack runs the full gate sequence: validate the attack type,
// load the attacker, check action points, load the target, check liveness,
// resolve the attack, deduct the cost, and persist both characters. The
// attack-point cost is deducted only after every validation has passed, and
// nothing is persisted on any failure path.
//
// Postcondition: On success the attacker's ActionPoints decreased by the
// cost and the target's health reflects the damage dealt, both in memory
// and in the store.
func (s *Service) PerformBasicAttack(ctx context.Context, gameID, attackerID uuid.UUID, req Request) (*Outcome, error) {
	attackType, err := combat.ParseAttackType(req.Params.AttackType)
	if err != nil {
		return nil, err
	}

	attacker, err := s.store.GetByGame(ctx, gameID, attackerID)
	if err != nil {
		return nil, fmt.Errorf("loading attacker: %w", err)
	}

	if attacker.ActionPoints < s.cost {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughActionPoints, s.cost, attacker.ActionPoints)
	}

	target, err := s.store.GetByGame(ctx, gameID, req.TargetID)
	if err != nil {
		if errors.Is(err, character.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, req.TargetID)
		}
		return nil, fmt.Errorf("loading target: %w", err)
	}
	if target.IsDead() {
		return nil, ErrTargetDead
	}

	result, err := combat.ResolveBasicAttack(attacker, target, attackType, s.roller)
	if err != nil {
		return nil, fmt.Errorf("resolving attack: %w", err)
	}

	attacker.SpendActionPoints(s.cost)

	if err := s.store.SaveCombatState(ctx, attacker, target); err != nil {
		return nil, fmt.Errorf("persisting combat state: %w", err)
	}

	s.logger.Info("basic attack resolved",
		zap.String("game_id", gameID.String()),
		zap.String("attacker_id", attackerID.String()),
		zap.String("target_id", req.TargetID.String()),
		zap.String("attack_type", string(attackType)),
		zap.Int("attack_total", result.AttackRoll.Total),
		zap.Bool("hit", result.Hit),
		zap.Bool("critical", result.AttackRoll.Critical),
		zap.Bool("fumble", result.AttackRoll.Fumble),
		zap.Int("damage", result.DamageDealt),
		zap.Int("remaining_health", result.Target.RemainingHealth),
	)

	return &Outcome{Result: result, Attacker: attacker}, nil
}
