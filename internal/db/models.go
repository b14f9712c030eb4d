package db

import (
	"time"

	"gorm.io/datatypes"
)

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
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Cards     []Card
}

type Card struct {
	ID        uint      `gorm:"primaryKey"`
	DeckID    uint      `gorm:"index;not null;uniqueIndex:idx_cards_deck_kind_text"`
	Kind      string    `gorm:"size:16;not null;uniqueIndex:idx_cards_deck_kind_text"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_cards_deck_kind_text"`
	Pick      int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Room struct {
	ID        uint      `gorm:"primaryKey"`
	JoinCode  string    `gorm:"size:12;uniqueIndex;not null"`
	DeckID    uint      `gorm:"index;not null"`
	Status    string    `gorm:"size:32;not null"`
	HostID    uint      `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Players   []Player
	Rounds    []Round
	Events    []Event
}

// Player is a room membership record. JoinOrder is assigned once at join
// time and never renumbered; it is the judge-rotation key. IsJudge is a
// display cache only, the authoritative judge is the latest round's
// JudgePlayerID.
type Player struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_players_room_user;uniqueIndex:idx_players_room_order"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_players_room_user"`
	Name      string    `gorm:"size:64;not null"`
	JoinOrder int       `gorm:"not null;uniqueIndex:idx_players_room_order"`
	Score     int       `gorm:"not null;default:0"`
	IsJudge   bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Round rows are never deleted; the highest ID per room is the most recent
// round and its JudgePlayerID is the authoritative judge. At most one row
// per room may hold status=submitting, enforced by a partial unique index
// (see Migrate).
type Round struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         uint      `gorm:"index;not null"`
	PromptCardID   uint      `gorm:"not null"`
	JudgePlayerID  uint      `gorm:"not null"`
	Status         string    `gorm:"size:32;not null"`
	WinnerPlayerID *uint     `gorm:"index"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Submissions    []Submission
}

type Submission struct {
	ID        uint      `gorm:"primaryKey"`
	RoundID   uint      `gorm:"index;not null;uniqueIndex:idx_submissions_round_player_slot"`
	PlayerID  uint      `gorm:"index;not null;uniqueIndex:idx_submissions_round_player_slot"`
	CardID    uint      `gorm:"not null"`
	Slot      int       `gorm:"not null;default:0;uniqueIndex:idx_submissions_round_player_slot"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// HandCard rows exist while a card is held; submission deletes the row and
// the card never returns to any hand in the same match. The (room, card)
// unique index keeps a card out of two hands at once.
type HandCard struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_hands_room_card"`
	PlayerID  uint      `gorm:"index;not null"`
	CardID    uint      `gorm:"not null;uniqueIndex:idx_hands_room_card"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	RoundID   *uint          `gorm:"index"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
