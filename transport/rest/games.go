package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

var errInvalidGameID = errors.New("invalid game id")

type errorResponse struct {
	Error string `json:"error"`
}

type countResponse struct {
	Count uint32 `json:"count"`
}

type nextPlayerResponse struct {
	PlayerTurn uint8 `json:"player_turn"`
}

func (that *Server) gameCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := that.games.GetGameCount(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (that *Server) gameHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseGameID(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.games.GetGame(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) freeCellsHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseGameID(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	freeCells, err := that.games.GetFreeCells(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, freeCells)
}

func (that *Server) nextPlayerHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseGameID(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	turn, err := that.games.GetCurrentTurn(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, nextPlayerResponse{PlayerTurn: turn})
}

func parseGameID(r *http.Request) (uint32, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidGameID, raw)
	}

	return uint32(id), nil
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errInvalidGameID):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	default:
		that.logger.Error("failed to handle request", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
