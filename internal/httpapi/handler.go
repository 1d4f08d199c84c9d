// Package httpapi exposes the combat backend as a JSON HTTP API. Handlers
// translate between wire payloads and the domain packages; all game rules
// live behind the action service and the repositories.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/action"
	"github.com/questdeck/questdeck/internal/game/campaign"
	"github.com/questdeck/questdeck/internal/game/catalog"
	"github.com/questdeck/questdeck/internal/game/character"
)

// GameStore is the game-session persistence surface the API consumes.
type GameStore interface {
	Create(ctx context.Context, g *campaign.Game) (*campaign.Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*campaign.Game, error)
	List(ctx context.Context) ([]*campaign.Game, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status campaign.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CharacterStore is the character persistence surface the API consumes.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*character.Character, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MapStore is the map persistence surface the API consumes.
type MapStore interface {
	Create(ctx context.Context, m *campaign.GameMap) (*campaign.GameMap, error)
	GetByID(ctx context.Context, id uuid.UUID) (*campaign.GameMap, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*campaign.GameMap, error)
	UpdateTiles(ctx context.Context, id uuid.UUID, tiles []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActionPerformer executes validated combat actions.
type ActionPerformer interface {
	Perform(ctx context.Context, gameID, attackerID uuid.UUID, req action.Request) (*action.Outcome, error)
}

// HealthChecker reports backing-store reachability for /healthz.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Handler holds the API's collaborators and serves all routes.
type Handler struct {
	logger     *zap.Logger
	games      GameStore
	characters CharacterStore
	maps       MapStore
	actions    ActionPerformer
	health     HealthChecker
	catalog    *catalog.Registry

	// defaultMaxAP seeds MaxActionPoints for characters created without one.
	defaultMaxAP int
}

// NewHandler creates the API handler. items resolves equipped item IDs on
// character creation; a nil registry disables catalog lookups.
//
// Precondition: all other collaborators must be non-nil; defaultMaxAP must
// be >= 1.
func NewHandler(
	logger *zap.Logger,
	games GameStore,
	characters CharacterStore,
	maps MapStore,
	actions ActionPerformer,
	health HealthChecker,
	items *catalog.Registry,
	defaultMaxAP int,
) *Handler {
	return &Handler{
		logger:       logger,
		games:        games,
		characters:   characters,
		maps:         maps,
		actions:      actions,
		health:       health,
		catalog:      items,
		defaultMaxAP: defaultMaxAP,
	}
}

// Routes builds the full route table wrapped in the request-logging
// middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("POST /api/games", h.handleCreateGame)
	mux.HandleFunc("GET /api/games", h.handleListGames)
	mux.HandleFunc("GET /api/games/{gameID}", h.handleGetGame)
	mux.HandleFunc("PATCH /api/games/{gameID}/status", h.handleUpdateGameStatus)
	mux.HandleFunc("DELETE /api/games/{gameID}", h.handleDeleteGame)

	mux.HandleFunc("POST /api/games/{gameID}/characters", h.handleCreateCharacter)
	mux.HandleFunc("GET /api/games/{gameID}/characters", h.handleListCharacters)
	mux.HandleFunc("GET /api/characters/{characterID}", h.handleGetCharacter)
	mux.HandleFunc("DELETE /api/characters/{characterID}", h.handleDeleteCharacter)

	mux.HandleFunc("POST /api/games/{gameID}/maps", h.handleCreateMap)
	mux.HandleFunc("GET /api/games/{gameID}/maps", h.handleListMaps)
	mux.HandleFunc("GET /api/maps/{mapID}", h.handleGetMap)
	mux.HandleFunc("PUT /api/maps/{mapID}/tiles", h.handleUpdateMapTiles)
	mux.HandleFunc("DELETE /api/maps/{mapID}", h.handleDeleteMap)

	mux.HandleFunc("POST /api/games/{gameID}/characters/{characterID}/actions", h.handlePerformAction)

	return h.logRequests(mux)
}

// handleHealth answers 200 when the backing store is reachable.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Health(r.Context(), 2*time.Second); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathUUID parses the named path segment as a UUID, answering 400 itself
// when the value is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
