package game

const (
	CardKindPrompt = "prompt"
	CardKindAnswer = "answer"
)

const (
	RoomWaiting = "waiting"
	RoomPlaying = "playing"
)

const (
	RoundSubmitting = "submitting"
	RoundCompleted  = "completed"
)

type Deck struct {
	ID   uint
	Name string
}

type Card struct {
	ID     uint
	DeckID uint
	Kind   string
	Text   string
	Pick   int
}

type Room struct {
	ID       uint
	JoinCode string
	DeckID   uint
	Status   string
	HostID   uint
}

// Player is a membership record. JoinOrder is assigned at join time and is
// immutable; it is the only input to judge rotation. IsJudge is a display
// cache, never consulted by game logic.
type Player struct {
	ID        uint
	RoomID    uint
	UserID    string
	Name      string
	JoinOrder int
	Score     int
	IsJudge   bool
}

// Round is append-only per room; the round with the highest ID is the most
// recent one and its JudgePlayerID is the authoritative judge.
type Round struct {
	ID             uint
	RoomID         uint
	PromptCardID   uint
	JudgePlayerID  uint
	Status         string
	WinnerPlayerID *uint
}

type Submission struct {
	ID       uint
	RoundID  uint
	PlayerID uint
	CardID   uint
	Slot     int
}

type HandCard struct {
	ID       uint
	RoomID   uint
	PlayerID uint
	CardID   uint
}
