package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questdeck/questdeck/internal/game/character"
)

// ErrCharacterNameTaken is returned when creating a character with a name
// already used in the same game.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations. Flexible
// fields (stats, skills, items, equipped) are stored as jsonb so the combat
// engine's shapes can evolve without schema churn.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, game_id, name, class, level, stats, skills, items, equipped,
	health, max_health, action_points, max_action_points, created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	err := row.Scan(
		&c.ID, &c.GameID, &c.Name, &c.Class, &c.Level,
		&c.Stats, &c.Skills, &c.Items, &c.Equipped,
		&c.Health, &c.MaxHealth, &c.ActionPoints, &c.MaxActionPoints,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.GameID must reference an existing game; c.Name must be non-empty.
// Postcondition: Returns the created character, or ErrCharacterNameTaken when
// the name is already used in the game.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, game_id, name, class, level, stats, skills, items, equipped,
			 health, max_health, action_points, max_action_points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING `+characterColumns,
		uuid.New(), c.GameID, c.Name, c.Class, c.Level,
		c.Stats, c.Skills, c.Items, c.Equipped,
		c.Health, c.MaxHealth, c.ActionPoints, c.MaxActionPoints,
	)
	out, err := scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or character.ErrNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByGame retrieves a character scoped to a game. A character that exists
// but belongs to a different game is reported as not found.
//
// Postcondition: Returns the Character or character.ErrNotFound.
func (r *CharacterRepository) GetByGame(ctx context.Context, gameID, id uuid.UUID) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters WHERE id = $1 AND game_id = $2`,
		id, gameID)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// ListByGame returns all characters in the given game, ordered by created_at.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE game_id = $1 ORDER BY created_at ASC`,
		gameID)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// SaveCombatState persists the attacker's action points and the target's
// health in a single transaction, so a resolved attack is either fully
// recorded or not at all. Writes are last-write-wins: concurrent actions
// against the same rows are not detected, the later commit overwrites.
//
// Precondition: attacker and target must reference existing rows.
// Postcondition: Both rows are updated, or neither is and a non-nil error
// is returned. character.ErrNotFound is returned if either row is missing.
func (r *CharacterRepository) SaveCombatState(ctx context.Context, attacker, target *character.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning combat state transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateCombatRow(ctx, tx, attacker); err != nil {
		return err
	}
	if err := updateCombatRow(ctx, tx, target); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing combat state: %w", err)
	}
	return nil
}

func updateCombatRow(ctx context.Context, tx pgx.Tx, c *character.Character) error {
	tag, err := tx.Exec(ctx, `
		UPDATE characters SET health = $2, action_points = $3, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Health, c.ActionPoints,
	)
	if err != nil {
		return fmt.Errorf("saving combat state for %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving combat state for %s: %w", c.ID, character.ErrNotFound)
	}
	return nil
}

// Delete removes a character.
//
// Postcondition: Returns nil on success or character.ErrNotFound.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return character.ErrNotFound
	}
	return nil
}
