package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"card-judge/internal/game"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeGameError maps the core's typed failures onto HTTP statuses. Race
// losses never reach here: the core reports those as success.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotJudge), errors.Is(err, game.ErrNotYourTurn):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrAlreadySubmitted),
		errors.Is(err, game.ErrCardNotInHand),
		errors.Is(err, game.ErrRoundNotActive),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrMatchStarted),
		errors.Is(err, game.ErrRoomFull),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrEmptyDeck),
		errors.Is(err, game.ErrInsufficientCards):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
