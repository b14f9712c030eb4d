package game

import (
	"errors"
	"testing"
)

func memFixture(t *testing.T) (*MemStore, Room) {
	t.Helper()
	store := NewMemStore()
	deck := Deck{Name: "D"}
	if err := store.CreateDeck(&deck); err != nil {
		t.Fatalf("deck: %v", err)
	}
	room := Room{JoinCode: "ABCDEF", DeckID: deck.ID, Status: RoomWaiting}
	if err := store.CreateRoom(&room); err != nil {
		t.Fatalf("room: %v", err)
	}
	return store, room
}

func TestMemStoreSingleSubmittingRoundPerRoom(t *testing.T) {
	store, room := memFixture(t)

	first := Round{RoomID: room.ID, PromptCardID: 1, JudgePlayerID: 1}
	if err := store.CreateSubmittingRound(&first); err != nil {
		t.Fatalf("first round: %v", err)
	}
	second := Round{RoomID: room.ID, PromptCardID: 2, JudgePlayerID: 2}
	err := store.CreateSubmittingRound(&second)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if matched, err := store.CompleteRound(first.ID, 1); err != nil || !matched {
		t.Fatalf("complete: matched=%v err=%v", matched, err)
	}
	// With the first round completed the constraint admits a new one.
	if err := store.CreateSubmittingRound(&second); err != nil {
		t.Fatalf("round after completion: %v", err)
	}
}

func TestMemStoreCompleteRoundIsCompareAndSwap(t *testing.T) {
	store, room := memFixture(t)

	round := Round{RoomID: room.ID, PromptCardID: 1, JudgePlayerID: 1}
	if err := store.CreateSubmittingRound(&round); err != nil {
		t.Fatalf("round: %v", err)
	}

	matched, err := store.CompleteRound(round.ID, 7)
	if err != nil || !matched {
		t.Fatalf("first complete: matched=%v err=%v", matched, err)
	}
	matched, err = store.CompleteRound(round.ID, 8)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if matched {
		t.Fatalf("second complete matched; resolution is not idempotent")
	}
	stored, _ := store.GetRound(round.ID)
	if stored.WinnerPlayerID == nil || *stored.WinnerPlayerID != 7 {
		t.Fatalf("loser of the race overwrote the winner")
	}
}

func TestMemStoreHandCardUniquePerRoom(t *testing.T) {
	store, room := memFixture(t)

	if err := store.AddHandCard(&HandCard{RoomID: room.ID, PlayerID: 1, CardID: 42}); err != nil {
		t.Fatalf("first deal: %v", err)
	}
	err := store.AddHandCard(&HandCard{RoomID: room.ID, PlayerID: 2, CardID: 42})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("card dealt twice: %v", err)
	}

	matched, err := store.RemoveHandCard(room.ID, 1, 42)
	if err != nil || !matched {
		t.Fatalf("remove: matched=%v err=%v", matched, err)
	}
	matched, err = store.RemoveHandCard(room.ID, 1, 42)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if matched {
		t.Fatalf("conditional delete matched twice")
	}
}

func TestMemStoreJoinOrderMonotonic(t *testing.T) {
	store, room := memFixture(t)

	for i, user := range []string{"a", "b", "c"} {
		player := Player{RoomID: room.ID, UserID: user, Name: user}
		if err := store.AddPlayer(&player); err != nil {
			t.Fatalf("add %q: %v", user, err)
		}
		if player.JoinOrder != i {
			t.Fatalf("join order for %q = %d, want %d", user, player.JoinOrder, i)
		}
	}

	dup := Player{RoomID: room.ID, UserID: "b", Name: "b again"}
	if err := store.AddPlayer(&dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate membership: %v", err)
	}
}

func TestMemStoreSubmissionSlotUnique(t *testing.T) {
	store, room := memFixture(t)
	round := Round{RoomID: room.ID, PromptCardID: 1, JudgePlayerID: 1}
	if err := store.CreateSubmittingRound(&round); err != nil {
		t.Fatalf("round: %v", err)
	}

	if err := store.CreateSubmission(&Submission{RoundID: round.ID, PlayerID: 2, CardID: 10, Slot: 0}); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	err := store.CreateSubmission(&Submission{RoundID: round.ID, PlayerID: 2, CardID: 11, Slot: 0})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("slot filled twice: %v", err)
	}
	if err := store.CreateSubmission(&Submission{RoundID: round.ID, PlayerID: 2, CardID: 11, Slot: 1}); err != nil {
		t.Fatalf("second slot: %v", err)
	}
}

func TestMemStoreSetRoomStatusConditional(t *testing.T) {
	store, room := memFixture(t)

	matched, err := store.SetRoomStatus(room.ID, RoomWaiting, RoomPlaying)
	if err != nil || !matched {
		t.Fatalf("first flip: matched=%v err=%v", matched, err)
	}
	matched, err = store.SetRoomStatus(room.ID, RoomWaiting, RoomPlaying)
	if err != nil {
		t.Fatalf("second flip: %v", err)
	}
	if matched {
		t.Fatalf("status flip matched twice")
	}
}

func TestMemStoreUsedCardIDsIncludesConsumed(t *testing.T) {
	store, room := memFixture(t)
	round := Round{RoomID: room.ID, PromptCardID: 1, JudgePlayerID: 1}
	if err := store.CreateSubmittingRound(&round); err != nil {
		t.Fatalf("round: %v", err)
	}

	if err := store.AddHandCard(&HandCard{RoomID: room.ID, PlayerID: 2, CardID: 5}); err != nil {
		t.Fatalf("hand: %v", err)
	}
	if err := store.CreateSubmission(&Submission{RoundID: round.ID, PlayerID: 3, CardID: 9}); err != nil {
		t.Fatalf("submission: %v", err)
	}

	used, err := store.UsedCardIDs(room.ID)
	if err != nil {
		t.Fatalf("used: %v", err)
	}
	want := map[uint]bool{5: false, 9: false}
	for _, id := range used {
		if _, ok := want[id]; ok {
			want[id] = true
		}
	}
	for id, seen := range want {
		if !seen {
			t.Fatalf("card %d missing from used set %v", id, used)
		}
	}
}
