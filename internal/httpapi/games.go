package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/campaign"
)

// createGameRequest is the POST /api/games body.
type createGameRequest struct {
	Name   string          `json:"name"`
	Status campaign.Status `json:"status"`
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Status == "" {
		req.Status = campaign.StatusLobby
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	created, err := h.games.Create(r.Context(), &campaign.Game{Name: req.Name, Status: req.Status})
	if err != nil {
		h.logger.Error("creating game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toGamePayload(created))
}

func (h *Handler) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		h.logger.Error("listing games", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]gamePayload, 0, len(games))
	for _, g := range games {
		out = append(out, toGamePayload(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	g, err := h.games.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, campaign.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("getting game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toGamePayload(g))
}

// updateGameStatusRequest is the PATCH /api/games/{gameID}/status body.
type updateGameStatusRequest struct {
	Status campaign.Status `json:"status"`
}

func (h *Handler) handleUpdateGameStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	var req updateGameStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.games.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, campaign.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("updating game status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	if err := h.games.Delete(r.Context(), id); err != nil {
		if errors.Is(err, campaign.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		h.logger.Error("deleting game", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
