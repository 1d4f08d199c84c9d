package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/campaign"
	"github.com/questdeck/questdeck/internal/game/character"
)

// createCharacterRequest is the POST /api/games/{gameID}/characters body.
// Health defaults to MaxHealth; ActionPoints and MaxActionPoints default to
// the server's configured maximum.
type createCharacterRequest struct {
	Name            string            `json:"name"`
	Class           string            `json:"class"`
	Level           int               `json:"level"`
	Stats           map[string]int    `json:"stats"`
	Skills          []string          `json:"skills"`
	Items           []character.Item  `json:"items"`
	Equipped        map[string]string `json:"equipped"`
	MaxHealth       int               `json:"maxHealth"`
	MaxActionPoints int               `json:"maxActionPoints"`
}

func (h *Handler) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	var req createCharacterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.MaxHealth < 1 {
		writeError(w, http.StatusBadRequest, "maxHealth must be positive")
		return
	}
	if req.Level < 1 {
		req.Level = 1
	}
	if req.MaxActionPoints < 1 {
		req.MaxActionPoints = h.defaultMaxAP
	}

	// The game must exist before a character can join it.
	if _, err := h.games.GetByID(r.Context(), gameID); err != nil {
		if errors.Is(err, campaign.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("getting game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items, err := h.resolveEquipped(req.Items, req.Equipped)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.characters.Create(r.Context(), &character.Character{
		GameID:          gameID,
		Name:            req.Name,
		Class:           character.ParseClass(req.Class),
		Level:           req.Level,
		Stats:           req.Stats,
		Skills:          req.Skills,
		Items:           items,
		Equipped:        req.Equipped,
		Health:          req.MaxHealth,
		MaxHealth:       req.MaxHealth,
		ActionPoints:    req.MaxActionPoints,
		MaxActionPoints: req.MaxActionPoints,
	})
	if err != nil {
		h.logger.Error("creating character", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toCharacterPayload(created))
}

// resolveEquipped materializes equipped item IDs that are not carried inline
// by looking them up in the catalog. Inline items take precedence over
// catalog templates with the same ID.
func (h *Handler) resolveEquipped(items []character.Item, equipped map[string]string) ([]character.Item, error) {
	carried := make(map[string]bool, len(items))
	for _, it := range items {
		carried[it.ID] = true
	}
	for slot, id := range equipped {
		if id == "" || carried[id] {
			continue
		}
		if h.catalog == nil {
			return nil, fmt.Errorf("equipped item %q in slot %q is not carried", id, slot)
		}
		def, ok := h.catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("equipped item %q in slot %q is not carried or in the catalog", id, slot)
		}
		items = append(items, def.Item())
		carried[id] = true
	}
	return items, nil
}

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	chars, err := h.characters.ListByGame(r.Context(), gameID)
	if err != nil {
		h.logger.Error("listing characters", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]characterPayload, 0, len(chars))
	for _, c := range chars {
		out = append(out, toCharacterPayload(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "characterID")
	if !ok {
		return
	}
	c, err := h.characters.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, character.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Character not found")
			return
		}
		h.logger.Error("getting character", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toCharacterPayload(c))
}

func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "characterID")
	if !ok {
		return
	}
	if err := h.characters.Delete(r.Context(), id); err != nil {
		if errors.Is(err, character.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Character not found")
			return
		}
		h.logger.Error("deleting character", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
