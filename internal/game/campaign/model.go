// Package campaign defines the game-session and map domain models. Maps
// carry an opaque tile payload owned by the client editor; the server
// stores it verbatim and never interprets it.
package campaign

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Not-found sentinels for campaign stores.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrMapNotFound  = errors.New("map not found")
)

// Status is the lifecycle state of a game session.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLobby, StatusActive, StatusFinished:
		return true
	default:
		return false
	}
}

// Game is one play session that characters and maps belong to.
type Game struct {
	ID        uuid.UUID
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameMap is a named grid with an opaque tile payload.
//
// Invariant: Width and Height are positive.
type GameMap struct {
	ID        uuid.UUID
	GameID    uuid.UUID
	Name      string
	Width     int
	Height    int
	Tiles     json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the map's structural invariants.
//
// Postcondition: Returns nil iff the map is well-formed.
func (m *GameMap) Validate() error {
	if m.Name == "" {
		return errors.New("campaign: map name must not be empty")
	}
	if m.Width < 1 || m.Height < 1 {
		return errors.New("campaign: map dimensions must be positive")
	}
	return nil
}
