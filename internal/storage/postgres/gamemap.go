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

// MapRepository provides map persistence operations. Tile payloads are
// stored as jsonb and never interpreted server-side.
type MapRepository struct {
	db *pgxpool.Pool
}

// NewMapRepository creates a MapRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewMapRepository(db *pgxpool.Pool) *MapRepository {
	return &MapRepository{db: db}
}

// Create inserts a new map and returns it with ID and timestamps set.
//
// Precondition: m must pass Validate; m.GameID must reference an existing game.
func (r *MapRepository) Create(ctx context.Context, m *campaign.GameMap) (*campaign.GameMap, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var out campaign.GameMap
	err := r.db.QueryRow(ctx, `
		INSERT INTO maps (id, game_id, name, width, height, tiles)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, game_id, name, width, height, tiles, created_at, updated_at`,
		uuid.New(), m.GameID, m.Name, m.Width, m.Height, m.Tiles,
	).Scan(&out.ID, &out.GameID, &out.Name, &out.Width, &out.Height, &out.Tiles,
		&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting map: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a map by its primary key.
//
// Postcondition: Returns the GameMap or campaign.ErrMapNotFound.
func (r *MapRepository) GetByID(ctx context.Context, id uuid.UUID) (*campaign.GameMap, error) {
	var m campaign.GameMap
	err := r.db.QueryRow(ctx, `
		SELECT id, game_id, name, width, height, tiles, created_at, updated_at
		FROM maps WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.GameID, &m.Name, &m.Width, &m.Height, &m.Tiles,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, campaign.ErrMapNotFound
		}
		return nil, fmt.Errorf("querying map: %w", err)
	}
	return &m, nil
}

// ListByGame returns all maps for the given game, ordered by created_at.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *MapRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*campaign.GameMap, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, name, width, height, tiles, created_at, updated_at
		FROM maps WHERE game_id = $1 ORDER BY created_at ASC`,
		gameID)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	maps := make([]*campaign.GameMap, 0)
	for rows.Next() {
		var m campaign.GameMap
		if err := rows.Scan(&m.ID, &m.GameID, &m.Name, &m.Width, &m.Height, &m.Tiles,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning map row: %w", err)
		}
		maps = append(maps, &m)
	}
	return maps, rows.Err()
}

// UpdateTiles replaces a map's tile payload. The payload is last-write-wins:
// the server does not merge concurrent edits.
//
// Precondition: tiles must be valid JSON.
// Postcondition: Returns nil on success or campaign.ErrMapNotFound.
func (r *MapRepository) UpdateTiles(ctx context.Context, id uuid.UUID, tiles []byte) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE maps SET tiles = $2, updated_at = NOW() WHERE id = $1`,
		id, tiles,
	)
	if err != nil {
		return fmt.Errorf("updating map tiles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrMapNotFound
	}
	return nil
}

// Delete removes a map.
//
// Postcondition: Returns nil on success or campaign.ErrMapNotFound.
func (r *MapRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM maps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting map: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrMapNotFound
	}
	return nil
}
