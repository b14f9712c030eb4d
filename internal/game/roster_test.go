package game

import (
	"errors"
	"testing"
)

func TestOrderedPlayersFollowJoinOrder(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 2, 20)

	players, err := f.game.OrderedPlayers(f.room.ID)
	if err != nil {
		t.Fatalf("ordered players: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}
	for i, player := range players {
		if player.JoinOrder != i {
			t.Fatalf("player %d has join order %d", i, player.JoinOrder)
		}
	}

	late, err := f.game.JoinRoom(f.room.ID, "user-late", "Latecomer")
	if err != nil {
		t.Fatalf("late join: %v", err)
	}
	if late.JoinOrder != 3 {
		t.Fatalf("late joiner should take join order 3, got %d", late.JoinOrder)
	}
}

func TestNextJudgeRotatesByJoinOrder(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 2, 20)
	p := f.players

	cases := []struct {
		current uint
		want    uint
	}{
		{p[0].ID, p[1].ID},
		{p[1].ID, p[2].ID},
		{p[2].ID, p[0].ID}, // wrap-around at the end of the ring
	}
	for _, tc := range cases {
		next, err := f.game.NextJudge(f.room.ID, tc.current)
		if err != nil {
			t.Fatalf("next judge after %d: %v", tc.current, err)
		}
		if next.ID != tc.want {
			t.Fatalf("next judge after %d = %d, want %d", tc.current, next.ID, tc.want)
		}
		if next.ID == tc.current {
			t.Fatalf("judge repeated with more than one player")
		}
	}
}

func TestNextJudgeMissingFromRoster(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 2, 20)

	_, err := f.game.NextJudge(f.room.ID, 9999)
	if !errors.Is(err, ErrJudgeNotFound) {
		t.Fatalf("expected ErrJudgeNotFound, got %v", err)
	}
}

func TestAdvisoryJudgeFlagFollowsRound(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 2, 20)

	if err := f.game.SetAdvisoryJudgeFlag(f.room.ID, f.players[1].ID); err != nil {
		t.Fatalf("set judge flag: %v", err)
	}
	players, err := f.game.OrderedPlayers(f.room.ID)
	if err != nil {
		t.Fatalf("ordered players: %v", err)
	}
	for _, player := range players {
		want := player.ID == f.players[1].ID
		if player.IsJudge != want {
			t.Fatalf("player %d judge flag = %v, want %v", player.ID, player.IsJudge, want)
		}
	}
}
