package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/questdeck/questdeck/internal/game/campaign"
	"github.com/questdeck/questdeck/internal/game/character"
)

// maxBodyBytes caps request bodies; game payloads are small.
const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope used by every failure response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON reads and unmarshals the request body into v.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing request body: %w", err)
	}
	return nil
}

// gamePayload is the wire form of a game session.
type gamePayload struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Status    campaign.Status `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toGamePayload(g *campaign.Game) gamePayload {
	return gamePayload{
		ID: g.ID, Name: g.Name, Status: g.Status,
		CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}

// characterPayload is the wire form of a character.
type characterPayload struct {
	ID              uuid.UUID         `json:"id"`
	GameID          uuid.UUID         `json:"gameId"`
	Name            string            `json:"name"`
	Class           string            `json:"class"`
	Level           int               `json:"level"`
	Stats           map[string]int    `json:"stats"`
	Skills          []string          `json:"skills"`
	Items           []character.Item  `json:"items"`
	Equipped        map[string]string `json:"equipped"`
	Health          int               `json:"health"`
	MaxHealth       int               `json:"maxHealth"`
	ActionPoints    int               `json:"actionPoints"`
	MaxActionPoints int               `json:"maxActionPoints"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func toCharacterPayload(c *character.Character) characterPayload {
	return characterPayload{
		ID:              c.ID,
		GameID:          c.GameID,
		Name:            c.Name,
		Class:           string(c.Class),
		Level:           c.Level,
		Stats:           c.Stats,
		Skills:          c.Skills,
		Items:           c.Items,
		Equipped:        c.Equipped,
		Health:          c.Health,
		MaxHealth:       c.MaxHealth,
		ActionPoints:    c.ActionPoints,
		MaxActionPoints: c.MaxActionPoints,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// mapPayload is the wire form of a game map.
type mapPayload struct {
	ID        uuid.UUID       `json:"id"`
	GameID    uuid.UUID       `json:"gameId"`
	Name      string          `json:"name"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Tiles     json.RawMessage `json:"tiles"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toMapPayload(m *campaign.GameMap) mapPayload {
	return mapPayload{
		ID: m.ID, GameID: m.GameID, Name: m.Name,
		Width: m.Width, Height: m.Height, Tiles: m.Tiles,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
