package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/action"
	"github.com/questdeck/questdeck/internal/game/campaign"
	"github.com/questdeck/questdeck/internal/game/catalog"
	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/dice"
	"github.com/questdeck/questdeck/internal/httpapi"
)

// memStore is an in-memory implementation of every store surface the API
// consumes, including the action gate's CharacterStore.
type memStore struct {
	games     map[uuid.UUID]*campaign.Game
	chars     map[uuid.UUID]*character.Character
	maps      map[uuid.UUID]*campaign.GameMap
	healthErr error
}

func newMemStore() *memStore {
	return &memStore{
		games: make(map[uuid.UUID]*campaign.Game),
		chars: make(map[uuid.UUID]*character.Character),
		maps:  make(map[uuid.UUID]*campaign.GameMap),
	}
}

func (s *memStore) Create(_ context.Context, g *campaign.Game) (*campaign.Game, error) {
	cp := *g
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.games[cp.ID] = &cp
	return &cp, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*campaign.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, campaign.ErrGameNotFound
	}
	return g, nil
}

func (s *memStore) List(_ context.Context) ([]*campaign.Game, error) {
	out := make([]*campaign.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status campaign.Status) error {
	g, ok := s.games[id]
	if !ok {
		return campaign.ErrGameNotFound
	}
	g.Status = status
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.games[id]; !ok {
		return campaign.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

// characterStore adapts memStore to the character surfaces.
type characterStore struct{ *memStore }

func (s characterStore) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.chars[cp.ID] = &cp
	return &cp, nil
}

func (s characterStore) GetByID(_ context.Context, id uuid.UUID) (*character.Character, error) {
	c, ok := s.chars[id]
	if !ok {
		return nil, character.ErrNotFound
	}
	return c, nil
}

func (s characterStore) GetByGame(_ context.Context, gameID, id uuid.UUID) (*character.Character, error) {
	c, ok := s.chars[id]
	if !ok || c.GameID != gameID {
		return nil, fmt.Errorf("character %s: %w", id, character.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s characterStore) ListByGame(_ context.Context, gameID uuid.UUID) ([]*character.Character, error) {
	out := make([]*character.Character, 0)
	for _, c := range s.chars {
		if c.GameID == gameID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s characterStore) SaveCombatState(_ context.Context, attacker, target *character.Character) error {
	s.chars[attacker.ID].ActionPoints = attacker.ActionPoints
	s.chars[target.ID].Health = target.Health
	return nil
}

func (s characterStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.chars[id]; !ok {
		return character.ErrNotFound
	}
	delete(s.chars, id)
	return nil
}

// mapStore adapts memStore to the map surface.
type mapStore struct{ *memStore }

func (s mapStore) Create(_ context.Context, m *campaign.GameMap) (*campaign.GameMap, error) {
	cp := *m
	cp.ID = uuid.New()
	s.maps[cp.ID] = &cp
	return &cp, nil
}

func (s mapStore) GetByID(_ context.Context, id uuid.UUID) (*campaign.GameMap, error) {
	m, ok := s.maps[id]
	if !ok {
		return nil, campaign.ErrMapNotFound
	}
	return m, nil
}

func (s mapStore) ListByGame(_ context.Context, gameID uuid.UUID) ([]*campaign.GameMap, error) {
	out := make([]*campaign.GameMap, 0)
	for _, m := range s.maps {
		if m.GameID == gameID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s mapStore) UpdateTiles(_ context.Context, id uuid.UUID, tiles []byte) error {
	m, ok := s.maps[id]
	if !ok {
		return campaign.ErrMapNotFound
	}
	m.Tiles = tiles
	return nil
}

func (s mapStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.maps[id]; !ok {
		return campaign.ErrMapNotFound
	}
	delete(s.maps, id)
	return nil
}

func (s *memStore) Health(_ context.Context, _ time.Duration) error { return s.healthErr }

// fixedSource always yields the same die result.
type fixedSource struct{ die int }

func (f fixedSource) Intn(n int) int {
	if f.die > n {
		return n - 1
	}
	return f.die - 1
}

// newTestAPI wires the handler against in-memory stores, a small item
// catalog, and a fixed die.
func newTestAPI(t *testing.T, die int) (*memStore, http.Handler) {
	t.Helper()
	store := newMemStore()
	roller := dice.NewLoggedRoller(fixedSource{die: die}, zap.NewNop())
	svc := action.NewService(characterStore{store}, roller, zap.NewNop(), action.BasicAttackCost)
	registry, err := catalog.NewRegistry([]*catalog.ItemDef{
		{ID: "shortbow", Name: "Shortbow", Slot: character.SlotMainHand, DamageDice: "1d6", WeaponType: "ranged"},
	})
	require.NoError(t, err)
	h := httpapi.NewHandler(zap.NewNop(), store, characterStore{store}, mapStore{store},
		svc, store, registry, 3)
	return store, h.Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func seedGame(t *testing.T, store *memStore) uuid.UUID {
	t.Helper()
	g, err := store.Create(context.Background(), &campaign.Game{Name: "Test", Status: campaign.StatusActive})
	require.NoError(t, err)
	return g.ID
}

func seedCharacter(t *testing.T, store *memStore, gameID uuid.UUID, name string, ap, health int) uuid.UUID {
	t.Helper()
	c, err := characterStore{store}.Create(context.Background(), &character.Character{
		GameID: gameID,
		Name:   name,
		Level:  1,
		Stats:  character.Stats{"str": 16},
		Items: []character.Item{
			{ID: "sword", Name: "Longsword", Slot: character.SlotMainHand, DamageDice: "1d8"},
		},
		Equipped:     map[string]string{character.SlotMainHand: "sword"},
		Health:       health,
		MaxHealth:    health,
		ActionPoints: ap, MaxActionPoints: 3,
	})
	require.NoError(t, err)
	return c.ID
}

func TestHealthz(t *testing.T) {
	store, api := newTestAPI(t, 10)

	rec := doJSON(t, api, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	store.healthErr = fmt.Errorf("connection refused")
	rec = doJSON(t, api, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateAndGetGame(t *testing.T) {
	_, api := newTestAPI(t, 10)

	rec := doJSON(t, api, http.MethodPost, "/api/games", map[string]string{"name": "Tomb Run"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Tomb Run", created["name"])
	assert.Equal(t, "lobby", created["status"], "status defaults to lobby")

	rec = doJSON(t, api, http.MethodGet, "/api/games/"+created["id"].(string), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetGame_NotFound(t *testing.T) {
	_, api := newTestAPI(t, 10)
	rec := doJSON(t, api, http.MethodGet, "/api/games/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Game not found", decodeBody[map[string]string](t, rec)["error"])
}

func TestGetGame_BadID(t *testing.T) {
	_, api := newTestAPI(t, 10)
	rec := doJSON(t, api, http.MethodGet, "/api/games/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCharacter_Defaults(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)

	rec := doJSON(t, api, http.MethodPost, "/api/games/"+gameID.String()+"/characters", map[string]any{
		"name":      "Bron",
		"class":     "Fighter",
		"maxHealth": 20,
		"stats":     map[string]int{"str": 16},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "fighter", created["class"], "class normalized")
	assert.EqualValues(t, 20, created["health"], "health defaults to maxHealth")
	assert.EqualValues(t, 3, created["maxActionPoints"], "AP defaults from config")
	assert.EqualValues(t, 1, created["level"])
}

func TestCreateCharacter_EquippedResolvesFromCatalog(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)

	rec := doJSON(t, api, http.MethodPost, "/api/games/"+gameID.String()+"/characters", map[string]any{
		"name":      "Sylva",
		"maxHealth": 14,
		"equipped":  map[string]string{"mainhand": "shortbow"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[struct {
		Items []character.Item `json:"items"`
	}](t, rec)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Shortbow", created.Items[0].Name)
}

func TestCreateCharacter_EquippedUnknownItem(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)

	rec := doJSON(t, api, http.MethodPost, "/api/games/"+gameID.String()+"/characters", map[string]any{
		"name":      "Sylva",
		"maxHealth": 14,
		"equipped":  map[string]string{"mainhand": "vorpal-blade"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCharacter_GameNotFound(t *testing.T) {
	_, api := newTestAPI(t, 10)
	rec := doJSON(t, api, http.MethodPost, "/api/games/"+uuid.NewString()+"/characters", map[string]any{
		"name": "Bron", "maxHealth": 20,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPerformAction_Success(t *testing.T) {
	store, api := newTestAPI(t, 10) // every die shows 10 (or max for smaller dice)
	gameID := seedGame(t, store)
	attackerID := seedCharacter(t, store, gameID, "Attacker", 2, 10)
	targetID := seedCharacter(t, store, gameID, "Target", 3, 12)

	rec := doJSON(t, api, http.MethodPost,
		"/api/games/"+gameID.String()+"/characters/"+attackerID.String()+"/actions",
		map[string]any{
			"actionType": "basic_attack",
			"targetId":   targetID,
			"params":     map[string]string{"attackType": "melee"},
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ActionResult struct {
			AttackRoll struct {
				Natural  int  `json:"natural"`
				Total    int  `json:"total"`
				Critical bool `json:"critical"`
				Fumble   bool `json:"fumble"`
			} `json:"attackRoll"`
			Hit         bool `json:"hit"`
			DamageDealt int  `json:"damageDealt"`
			Target      struct {
				RemainingHealth int `json:"remainingHealth"`
			} `json:"target"`
		} `json:"actionResult"`
		Character struct {
			ActionPoints int `json:"actionPoints"`
		} `json:"character"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// d20 shows 10, +3 STR +2 prof = 15 vs AC 10: hit. Damage 1d8 shows 8, +3 = 11.
	assert.Equal(t, 10, resp.ActionResult.AttackRoll.Natural)
	assert.Equal(t, 15, resp.ActionResult.AttackRoll.Total)
	assert.True(t, resp.ActionResult.Hit)
	assert.False(t, resp.ActionResult.AttackRoll.Critical)
	assert.Equal(t, 11, resp.ActionResult.DamageDealt)
	assert.Equal(t, 1, resp.ActionResult.Target.RemainingHealth)
	assert.Equal(t, 1, resp.Character.ActionPoints)

	assert.Equal(t, 1, store.chars[targetID].Health, "target health persisted")
	assert.Equal(t, 1, store.chars[attackerID].ActionPoints, "attacker AP persisted")
}

func TestPerformAction_NotEnoughActionPoints(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)
	attackerID := seedCharacter(t, store, gameID, "Attacker", 0, 10)
	targetID := seedCharacter(t, store, gameID, "Target", 3, 12)

	rec := doJSON(t, api, http.MethodPost,
		"/api/games/"+gameID.String()+"/characters/"+attackerID.String()+"/actions",
		map[string]any{
			"actionType": "basic_attack",
			"targetId":   targetID,
			"params":     map[string]string{"attackType": "melee"},
		})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough action points", decodeBody[map[string]string](t, rec)["error"])
	assert.Equal(t, 12, store.chars[targetID].Health, "nothing mutated")
}

func TestPerformAction_TargetNotFound(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)
	attackerID := seedCharacter(t, store, gameID, "Attacker", 2, 10)

	rec := doJSON(t, api, http.MethodPost,
		"/api/games/"+gameID.String()+"/characters/"+attackerID.String()+"/actions",
		map[string]any{
			"actionType": "basic_attack",
			"targetId":   uuid.New(),
			"params":     map[string]string{"attackType": "melee"},
		})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Target not found", decodeBody[map[string]string](t, rec)["error"])
}

func TestPerformAction_AttackerNotFound(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)
	targetID := seedCharacter(t, store, gameID, "Target", 3, 12)

	rec := doJSON(t, api, http.MethodPost,
		"/api/games/"+gameID.String()+"/characters/"+uuid.NewString()+"/actions",
		map[string]any{
			"actionType": "basic_attack",
			"targetId":   targetID,
			"params":     map[string]string{"attackType": "melee"},
		})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Character not found", decodeBody[map[string]string](t, rec)["error"])
}

func TestPerformAction_DeadTarget(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)
	attackerID := seedCharacter(t, store, gameID, "Attacker", 2, 10)
	targetID := seedCharacter(t, store, gameID, "Target", 3, 0)

	rec := doJSON(t, api, http.MethodPost,
		"/api/games/"+gameID.String()+"/characters/"+attackerID.String()+"/actions",
		map[string]any{
			"actionType": "basic_attack",
			"targetId":   targetID,
			"params":     map[string]string{"attackType": "melee"},
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Target is already dead", decodeBody[map[string]string](t, rec)["error"])
}

func TestPerformAction_UnknownTypes(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)
	attackerID := seedCharacter(t, store, gameID, "Attacker", 2, 10)
	targetID := seedCharacter(t, store, gameID, "Target", 3, 12)
	path := "/api/games/" + gameID.String() + "/characters/" + attackerID.String() + "/actions"

	rec := doJSON(t, api, http.MethodPost, path, map[string]any{
		"actionType": "dance",
		"targetId":   targetID,
		"params":     map[string]string{"attackType": "melee"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown action type", decodeBody[map[string]string](t, rec)["error"])

	rec = doJSON(t, api, http.MethodPost, path, map[string]any{
		"actionType": "basic_attack",
		"targetId":   targetID,
		"params":     map[string]string{"attackType": "psychic"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown attack type", decodeBody[map[string]string](t, rec)["error"])
}

func TestMapLifecycle(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)

	rec := doJSON(t, api, http.MethodPost, "/api/games/"+gameID.String()+"/maps", map[string]any{
		"name": "Crypt", "width": 10, "height": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	mapID := created["id"].(string)

	rec = doJSON(t, api, http.MethodPut, "/api/maps/"+mapID+"/tiles", map[string]any{
		"tiles": []map[string]any{{"x": 0, "y": 0, "terrain": "stone"}},
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/api/maps/"+mapID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Crypt", got["name"])

	rec = doJSON(t, api, http.MethodDelete, "/api/maps/"+mapID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, api, http.MethodGet, "/api/maps/"+mapID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMap_InvalidDimensions(t *testing.T) {
	store, api := newTestAPI(t, 10)
	gameID := seedGame(t, store)

	rec := doJSON(t, api, http.MethodPost, "/api/games/"+gameID.String()+"/maps", map[string]any{
		"name": "Crypt", "width": 0, "height": 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
