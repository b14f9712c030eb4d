package game

import (
	"fmt"
	"testing"
)

type fixture struct {
	game    *Game
	store   *MemStore
	room    Room
	players []Player
}

// newFixture builds a room with the requested roster on a deck with the
// given pool sizes.
func newFixture(t *testing.T, settings Settings, playerCount, prompts, answers int) *fixture {
	t.Helper()
	store := NewMemStore()
	deck := Deck{Name: "Test"}
	if err := store.CreateDeck(&deck); err != nil {
		t.Fatalf("create deck: %v", err)
	}
	for i := range prompts {
		card := Card{DeckID: deck.ID, Kind: CardKindPrompt, Text: fmt.Sprintf("Prompt %d: ____", i), Pick: 1}
		if err := store.CreateCard(&card); err != nil {
			t.Fatalf("create prompt card: %v", err)
		}
	}
	for i := range answers {
		card := Card{DeckID: deck.ID, Kind: CardKindAnswer, Text: fmt.Sprintf("Answer %d", i), Pick: 1}
		if err := store.CreateCard(&card); err != nil {
			t.Fatalf("create answer card: %v", err)
		}
	}

	g := New(store, settings)
	room, err := g.CreateRoom(deck.ID, "TEST42")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	var players []Player
	for i := range playerCount {
		player, err := g.JoinRoom(room.ID, fmt.Sprintf("user-%d", i), fmt.Sprintf("Player %d", i))
		if err != nil {
			t.Fatalf("join room: %v", err)
		}
		players = append(players, player)
	}
	return &fixture{game: g, store: store, room: room, players: players}
}

func smallSettings() Settings {
	return Settings{HandSize: 3, MinPlayers: 3, MaxPlayers: 12}
}

func (f *fixture) start(t *testing.T) Round {
	t.Helper()
	round, err := f.game.StartMatch(f.room.ID)
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	f.room.Status = RoomPlaying
	return round
}

func (f *fixture) handCard(t *testing.T, playerID uint) Card {
	t.Helper()
	hand, err := f.game.Hand(f.room.ID, playerID)
	if err != nil {
		t.Fatalf("load hand: %v", err)
	}
	if len(hand) == 0 {
		t.Fatalf("player %d has an empty hand", playerID)
	}
	return hand[0]
}

func (f *fixture) submit(t *testing.T, roundID, playerID uint) Submission {
	t.Helper()
	card := f.handCard(t, playerID)
	sub, err := f.game.Submit(roundID, playerID, card.ID)
	if err != nil {
		t.Fatalf("submit for player %d: %v", playerID, err)
	}
	return sub
}

func (f *fixture) score(t *testing.T, playerID uint) int {
	t.Helper()
	player, err := f.store.GetPlayer(playerID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	return player.Score
}

func (f *fixture) roundCount(t *testing.T) int {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	count := 0
	for _, round := range f.store.rounds {
		if round.RoomID == f.room.ID {
			count++
		}
	}
	return count
}
