package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questdeck/questdeck/internal/game/campaign"
)

// GameRepository provides game-session persistence operations.
type GameRepository struct {
	db *pgxpool.Pool
}

// NewGameRepository creates a GameRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new game session and returns it with ID and timestamps set.
//
// Precondition: g.Name must be non-empty; g.Status must be valid.
// Postcondition: Returns the created game with a fresh ID.
func (r *GameRepository) Create(ctx context.Context, g *campaign.Game) (*campaign.Game, error) {
	var out campaign.Game
	err := r.db.QueryRow(ctx, `
		INSERT INTO games (id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, name, status, created_at, updated_at`,
		uuid.New(), g.Name, g.Status,
	).Scan(&out.ID, &out.Name, &out.Status, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting game: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a game by its primary key.
//
// Postcondition: Returns the Game or campaign.ErrGameNotFound.
func (r *GameRepository) GetByID(ctx context.Context, id uuid.UUID) (*campaign.Game, error) {
	var g campaign.Game
	err := r.db.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM games WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, campaign.ErrGameNotFound
		}
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return &g, nil
}

// List returns all game sessions ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *GameRepository) List(ctx context.Context) ([]*campaign.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM games ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := make([]*campaign.Game, 0)
	for rows.Next() {
		var g campaign.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

// UpdateStatus transitions a game to the given lifecycle status.
//
// Precondition: status must be valid (use Status.Valid to check).
// Postcondition: Returns nil on success or campaign.ErrGameNotFound.
func (r *GameRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status campaign.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE games SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("updating game status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrGameNotFound
	}
	return nil
}

// Delete removes a game and, via cascading constraints, its characters and maps.
//
// Postcondition: Returns nil on success or campaign.ErrGameNotFound.
func (r *GameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrGameNotFound
	}
	return nil
}
