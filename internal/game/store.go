package game

// EventPayload is the structured payload recorded with audit events.
type EventPayload struct {
	RoomID     uint   `json:"room_id,omitempty"`
	JoinCode   string `json:"join_code,omitempty"`
	PlayerName string `json:"player,omitempty"`
	PlayerID   uint   `json:"player_id,omitempty"`
	RoundID    uint   `json:"round_id,omitempty"`
	JudgeID    uint   `json:"judge_id,omitempty"`
	WinnerID   uint   `json:"winner_id,omitempty"`
	CardID     uint   `json:"card_id,omitempty"`
	DeckID     uint   `json:"deck_id,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// Store is the durable-store boundary. There is no lock service and no
// leader among clients, so every contended write is expressed here as a
// constraint-bearing primitive: inserts that fail with ErrDuplicate when a
// uniqueness rule would be violated, and conditional updates/deletes that
// report whether they matched a row. Game logic must never compensate with
// read-then-write sequences.
//
// Required constraints:
//   - at most one submitting round per room (CreateSubmittingRound)
//   - one hand entry per (room, card) (AddHandCard)
//   - one submission per (round, player, slot) (CreateSubmission)
//   - one membership per (room, user), join order unique and monotonic
//     per room (AddPlayer)
type Store interface {
	// Decks.
	CreateDeck(deck *Deck) error
	CreateCard(card *Card) error
	DeckCardIDs(deckID uint, kind string) ([]uint, error)
	CardsByID(ids []uint) (map[uint]Card, error)

	// Rooms.
	CreateRoom(room *Room) error
	GetRoom(roomID uint) (Room, error)
	ListWaitingRooms() ([]Room, error)
	// SetRoomStatus flips the room status only if it currently equals
	// from, reporting whether a row matched.
	SetRoomStatus(roomID uint, from, to string) (bool, error)

	// Roster. AddPlayer assigns the next join order for the room.
	AddPlayer(player *Player) error
	GetPlayer(playerID uint) (Player, error)
	ListPlayers(roomID uint) ([]Player, error)
	ResetScores(roomID uint) error
	// IncrementScore adds one to the stored score rather than writing an
	// absolute value, so a stale reader cannot undo a concurrent award.
	IncrementScore(playerID uint) error
	SetJudgeFlag(roomID, judgeID uint) error

	// Rounds.
	CreateSubmittingRound(round *Round) error
	SubmittingRound(roomID uint) (Round, error)
	LatestRound(roomID uint) (Round, error)
	GetRound(roundID uint) (Round, error)
	// CompleteRound is the winner-resolution compare-and-swap: it marks
	// the round completed and records the winner only if the round is
	// still submitting, reporting whether a row matched.
	CompleteRound(roundID, winnerPlayerID uint) (bool, error)

	// Submissions.
	CreateSubmission(sub *Submission) error
	DeleteSubmission(submissionID uint) (bool, error)
	GetSubmission(submissionID uint) (Submission, error)
	ListSubmissions(roundID uint) ([]Submission, error)
	CountSubmissions(roundID, playerID uint) (int, error)

	// Hands.
	AddHandCard(card *HandCard) error
	ListHand(roomID, playerID uint) ([]HandCard, error)
	CountHand(roomID, playerID uint) (int, error)
	RemoveHandCard(roomID, playerID, cardID uint) (bool, error)
	// UsedCardIDs returns every answer card currently held in the room
	// plus every card ever submitted in the room. Submitted cards are
	// consumed for the rest of the match.
	UsedCardIDs(roomID uint) ([]uint, error)

	// LogEvent appends to the audit log. Failures are the caller's to
	// ignore; events are never load-bearing.
	LogEvent(roomID uint, roundID, playerID *uint, eventType string, payload EventPayload) error
}
