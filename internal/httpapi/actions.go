package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/game/action"
	"github.com/questdeck/questdeck/internal/game/campaign"
	"github.com/questdeck/questdeck/internal/game/character"
	"github.com/questdeck/questdeck/internal/game/combat"
)

// actionResponse is the POST .../actions success body: the resolver result
// plus the attacker's post-action snapshot.
type actionResponse struct {
	ActionResult combat.BasicAttackResult `json:"actionResult"`
	Character    characterPayload         `json:"character"`
}

func (h *Handler) handlePerformAction(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathUUID(w, r, "gameID")
	if !ok {
		return
	}
	attackerID, ok := pathUUID(w, r, "characterID")
	if !ok {
		return
	}
	var req action.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TargetID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "targetId is required")
		return
	}

	outcome, err := h.actions.Perform(r.Context(), gameID, attackerID, req)
	if err != nil {
		h.writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		ActionResult: outcome.Result,
		Character:    toCharacterPayload(outcome.Attacker),
	})
}

// writeActionError maps the gate's error taxonomy onto status codes and
// client messages. Precondition failures are 400s, missing entities are
// 404s, and everything else is an opaque 500.
func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, action.ErrNotEnoughActionPoints):
		writeError(w, http.StatusBadRequest, "Not enough action points")
	case errors.Is(err, action.ErrTargetDead):
		writeError(w, http.StatusBadRequest, "Target is already dead")
	case errors.Is(err, action.ErrUnknownActionType):
		writeError(w, http.StatusBadRequest, "Unknown action type")
	case errors.Is(err, combat.ErrUnknownAttackType):
		writeError(w, http.StatusBadRequest, "Unknown attack type")
	case errors.Is(err, action.ErrTargetNotFound):
		writeError(w, http.StatusNotFound, "Target not found")
	case errors.Is(err, character.ErrNotFound):
		writeError(w, http.StatusNotFound, "Character not found")
	case errors.Is(err, campaign.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	default:
		h.logger.Error("performing action", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
