package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tessyr/starfall/api/internal/auth"
	"github.com/tessyr/starfall/api/internal/service"
)

// ActionHandler handles tactical action endpoints: activation, move
// submission, confirmation, and history.
type ActionHandler struct {
	actionSvc *service.ActionService
	hub       *Hub
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(actionSvc *service.ActionService, hub *Hub) *ActionHandler {
	return &ActionHandler{actionSvc: actionSvc, hub: hub}
}

// ActivateSystem handles POST /api/v1/games/{id}/actions
func (h *ActionHandler) ActivateSystem(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		System string `json:"system"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.System == "" {
		writeError(w, http.StatusBadRequest, "system is required")
		return
	}

	action, err := h.actionSvc.ActivateSystem(r.Context(), gameID, userID, req.System)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) {
			status = http.StatusForbidden
		} else if errors.Is(err, service.ErrGameNotActive) ||
			errors.Is(err, service.ErrActionInProgress) ||
			errors.Is(err, service.ErrUnknownSystem) ||
			errors.Is(err, service.ErrSystemTokened) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

// SubmitMoves handles POST /api/v1/games/{id}/actions/current/moves
func (h *ActionHandler) SubmitMoves(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Moves []service.MoveInput `json:"moves"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validations, err := h.actionSvc.SubmitMoves(r.Context(), gameID, userID, req.Moves)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) || errors.Is(err, service.ErrNotYourAction) {
			status = http.StatusForbidden
		} else if errors.Is(err, service.ErrNoActiveAction) {
			status = http.StatusBadRequest
		} else if errors.Is(err, service.ErrInvalidUnitType) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	allValid := true
	for _, v := range validations {
		if !v.Result.Success {
			allValid = false
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": allValid,
		"moves":    validations,
	})
}

// ConfirmAction handles POST /api/v1/games/{id}/actions/current/confirm.
// Resolution runs on a detached context since the request context is
// cancelled on handler return.
func (h *ActionHandler) ConfirmAction(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.actionSvc.ConfirmAction(ctx, gameID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) || errors.Is(err, service.ErrNotYourAction) {
			status = http.StatusForbidden
		} else if errors.Is(err, service.ErrNoActiveAction) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).Str("gameId", gameID).Msg("Action confirmation failed")
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// CurrentAction handles GET /api/v1/games/{id}/actions/current
func (h *ActionHandler) CurrentAction(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	action, err := h.actionSvc.CurrentAction(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if action == nil {
		writeError(w, http.StatusNotFound, "no active tactical action")
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// ListActions handles GET /api/v1/games/{id}/actions
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	actions, err := h.actionSvc.ListActions(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if actions == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

// ActionMoves handles GET /api/v1/games/{id}/actions/{actionId}/moves
func (h *ActionHandler) ActionMoves(w http.ResponseWriter, r *http.Request) {
	actionID := r.PathValue("actionId")
	orders, err := h.actionSvc.MoveOrders(r.Context(), actionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
