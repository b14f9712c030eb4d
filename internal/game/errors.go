package game

import "errors"

// Store sentinels. ErrDuplicate is how a store reports a uniqueness
// constraint rejection; callers decide whether that is a benign race loss
// or a precondition violation.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Precondition violations, surfaced to the acting client as-is.
var (
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotJudge         = errors.New("only the judge can pick a winner")
	ErrNotYourTurn      = errors.New("the judge does not submit a card")
	ErrAlreadySubmitted = errors.New("already submitted for this round")
	ErrCardNotInHand    = errors.New("card is not in your hand")
	ErrRoundNotActive   = errors.New("round is not accepting submissions")
	ErrJudgeNotFound    = errors.New("current judge is not in the roster")
	ErrAlreadyJoined    = errors.New("already joined this room")
	ErrMatchStarted     = errors.New("match already started")
	ErrRoomFull         = errors.New("room is full")
)

// Resource exhaustion: deck configuration problems, never retried.
var (
	ErrEmptyDeck         = errors.New("deck has no prompt cards")
	ErrInsufficientCards = errors.New("deck has too few answer cards")
)
