package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/campaign"
)

// createMapRequest is the POST /api/games/{gameID}/maps body. Tiles is an
// opaque payload owned by the client editor.
type createMapRequest struct {
	Name   string          `json:"name"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Tiles  json.RawMessage `json:"tiles"`
}

func (h *Handler) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	var req createMapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Tiles) == 0 {
		req.Tiles = json.RawMessage(`[]`)
	}

	if _, err := h.games.GetByID(r.Context(), gameID); err != nil {
		if errors.Is(err, campaign.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("getting game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	m := &campaign.GameMap{
		GameID: gameID,
		Name:   req.Name,
		Width:  req.Width,
		Height: req.Height,
		Tiles:  req.Tiles,
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.maps.Create(r.Context(), m)
	if err != nil {
		h.logger.Error("creating map", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toMapPayload(created))
}

func (h *Handler) handleListMaps(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	maps, err := h.maps.ListByGame(r.Context(), gameID)
	if err != nil {
		h.logger.Error("listing maps", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]mapPayload, 0, len(maps))
	for _, m := range maps {
		out = append(out, toMapPayload(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "mapID")
	if !ok {
		return
	}
	m, err := h.maps.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, campaign.ErrMapNotFound) {
			writeError(w, http.StatusNotFound, "Map not found")
			return
		}
		h.logger.Error("getting map", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMapPayload(m))
}

// updateTilesRequest is the PUT /api/maps/{mapID}/tiles body.
type updateTilesRequest struct {
	Tiles json.RawMessage `json:"tiles"`
}

func (h *Handler) handleUpdateMapTiles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "mapID")
	if !ok {
		return
	}
	var req updateTilesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Tiles) == 0 {
		writeError(w, http.StatusBadRequest, "tiles is required")
		return
	}
	if err := h.maps.UpdateTiles(r.Context(), id, req.Tiles); err != nil {
		if errors.Is(err, campaign.ErrMapNotFound) {
			writeError(w, http.StatusNotFound, "Map not found")
			return
		}
		h.logger.Error("updating map tiles", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "mapID")
	if !ok {
		return
	}
	if err := h.maps.Delete(r.Context(), id); err != nil {
		if errors.Is(err, campaign.ErrMapNotFound) {
			writeError(w, http.StatusNotFound, "Map not found")
			return
		}
		h.logger.Error("deleting map", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
