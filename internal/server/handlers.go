package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"card-judge/internal/game"
)

type createRoomRequest struct {
	DeckID uint `json:"deck_id" validate:"required"`
}

type joinRequest struct {
	Name string `json:"name" validate:"required"`
}

type startRequest struct {
	PlayerID uint `json:"player_id" validate:"required"`
}

type submitRequest struct {
	PlayerID uint `json:"player_id" validate:"required"`
	CardID   uint `json:"card_id" validate:"required"`
}

type winnerRequest struct {
	PlayerID     uint `json:"player_id" validate:"required"`
	SubmissionID uint `json:"submission_id" validate:"required"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.game.ListWaitingRooms()
	if err != nil {
		writeGameError(w, err)
		return
	}
	views := make([]map[string]any, 0, len(rooms))
	for _, room := range rooms {
		players, err := s.game.OrderedPlayers(room.ID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		views = append(views, map[string]any{
			"id":        room.ID,
			"join_code": room.JoinCode,
			"deck_id":   room.DeckID,
			"players":   len(players),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": views})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	room, err := s.game.CreateRoom(req.DeckID, newJoinCode())
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Printf("room created room_id=%d join_code=%s deck_id=%d", room.ID, room.JoinCode, room.DeckID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"room_id":   room.ID,
		"join_code": room.JoinCode,
	})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "join") {
		return
	}
	roomID, ok := roomIDFromPath(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	userID := s.sessions.UserID(w, r)
	s.sessions.SetName(r, name)
	player, err := s.game.JoinRoom(roomID, userID, name)
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Printf("player joined room_id=%d player_id=%d join_order=%d", roomID, player.ID, player.JoinOrder)
	writeJSON(w, http.StatusOK, map[string]any{
		"player_id":  player.ID,
		"join_order": player.JoinOrder,
	})
}

func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromPath(w, r)
	if !ok {
		return
	}
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	round, err := s.game.StartMatch(roomID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Printf("match started room_id=%d round_id=%d judge_id=%d", roomID, round.ID, round.JudgePlayerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"round_id":        round.ID,
		"judge_player_id": round.JudgePlayerID,
	})
}

// handleRoomState is the polling read. It also doubles as the recovery
// trigger: a playing room with no submitting round is repaired before the
// snapshot is taken, so any polling client can unstick a stalled match.
func (s *Server) handleRoomState(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromPath(w, r)
	if !ok {
		return
	}
	var viewerID uint
	if raw := r.URL.Query().Get("player_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid player_id")
			return
		}
		viewerID = uint(value)
	}
	if err := s.game.Resume(roomID); err != nil {
		log.Printf("resume failed room_id=%d: %v", roomID, err)
	}
	snap, err := s.game.BuildSnapshot(roomID, viewerID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":     snap,
		"poll_seconds": s.cfg.PollSeconds,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromPath(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	round, err := s.activeRound(roomID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	sub, err := s.game.Submit(round.ID, req.PlayerID, req.CardID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	log.Printf("card submitted room_id=%d round_id=%d player_id=%d", roomID, round.ID, req.PlayerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"submission_id": sub.ID,
		"slot":          sub.Slot,
	})
}

func (s *Server) handleResolveWinner(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromPath(w, r)
	if !ok {
		return
	}
	var req winnerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	round, err := s.game.LatestRoundForRoom(roomID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	completed, err := s.game.ResolveWinner(round.ID, req.SubmissionID, req.PlayerID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	winnerID := uint(0)
	if completed.WinnerPlayerID != nil {
		winnerID = *completed.WinnerPlayerID
	}
	log.Printf("round resolved room_id=%d round_id=%d winner_id=%d", roomID, completed.ID, winnerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"round_id":         completed.ID,
		"winner_player_id": winnerID,
	})
}

func (s *Server) activeRound(roomID uint) (game.Round, error) {
	round, err := s.game.ActiveRound(roomID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return game.Round{}, game.ErrRoundNotActive
		}
		return game.Round{}, err
	}
	return round, nil
}

func roomIDFromPath(w http.ResponseWriter, r *http.Request) (uint, bool) {
	value, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || value == 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return uint(value), true
}
