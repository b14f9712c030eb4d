package game

import (
	"errors"
	"sync"
	"testing"
)

// Full happy path: three players join in order, the lowest join order
// judges first, the judge picks a winner, the winner scores and judges
// next.
func TestRoundLifecycle(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	if round.JudgePlayerID != f.players[0].ID {
		t.Fatalf("first judge = %d, want lowest join order %d", round.JudgePlayerID, f.players[0].ID)
	}

	winning := f.submit(t, round.ID, f.players[1].ID)
	f.submit(t, round.ID, f.players[2].ID)

	completed, err := f.game.ResolveWinner(round.ID, winning.ID, f.players[0].ID)
	if err != nil {
		t.Fatalf("resolve winner: %v", err)
	}
	if completed.Status != RoundCompleted {
		t.Fatalf("round status = %q", completed.Status)
	}
	if completed.WinnerPlayerID == nil || *completed.WinnerPlayerID != f.players[1].ID {
		t.Fatalf("winner not recorded")
	}
	if got := f.score(t, f.players[1].ID); got != 1 {
		t.Fatalf("winner score = %d, want 1", got)
	}

	next, err := f.game.ActiveRound(f.room.ID)
	if err != nil {
		t.Fatalf("no successor round: %v", err)
	}
	if next.JudgePlayerID != f.players[1].ID {
		t.Fatalf("next judge = %d, want %d", next.JudgePlayerID, f.players[1].ID)
	}

	// Replenished back to target after the round turned over.
	for _, p := range f.players {
		count, _ := f.store.CountHand(f.room.ID, p.ID)
		if count != smallSettings().HandSize {
			t.Fatalf("player %d hand = %d after advance", p.ID, count)
		}
	}
}

// Many clients race to open the next round; exactly one submitting round
// may exist afterwards and every caller sees that same round.
func TestConcurrentCreateRound(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	f.start(t)

	// Clear the opener so the race starts from no active round.
	active, _ := f.game.ActiveRound(f.room.ID)
	if _, err := f.store.CompleteRound(active.ID, f.players[1].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	const callers = 8
	results := make([]Round, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			judge := f.players[i%len(f.players)].ID
			round, err := f.game.CreateRound(f.room.ID, judge)
			if err != nil {
				t.Errorf("create round: %v", err)
				return
			}
			results[i] = round
		}()
	}
	wg.Wait()

	active, err := f.game.ActiveRound(f.room.ID)
	if err != nil {
		t.Fatalf("no active round after race: %v", err)
	}
	for i, round := range results {
		if round.ID != active.ID {
			t.Fatalf("caller %d got round %d, want %d", i, round.ID, active.ID)
		}
	}
	if got := f.roundCount(t); got != 2 {
		t.Fatalf("round rows = %d, want 2", got)
	}
}

// The judge's two tabs race to resolve the same round: one point, one
// successor round.
func TestConcurrentResolveWinner(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	winning := f.submit(t, round.ID, f.players[1].ID)
	f.submit(t, round.ID, f.players[2].ID)

	const tabs = 6
	var wg sync.WaitGroup
	for range tabs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.game.ResolveWinner(round.ID, winning.ID, f.players[0].ID); err != nil {
				t.Errorf("resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.score(t, f.players[1].ID); got != 1 {
		t.Fatalf("winner scored %d times", got)
	}
	if got := f.roundCount(t); got != 2 {
		t.Fatalf("round rows = %d, want 2 (one completed, one successor)", got)
	}
}

func TestJudgeCannotSubmit(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	card := f.handCard(t, f.players[0].ID)
	_, err := f.game.Submit(round.ID, f.players[0].ID, card.ID)
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	count, _ := f.store.CountSubmissions(round.ID, f.players[0].ID)
	if count != 0 {
		t.Fatalf("judge holds a submission in their own round")
	}
}

func TestDuplicateSubmitRejected(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	f.submit(t, round.ID, f.players[1].ID)
	card := f.handCard(t, f.players[1].ID)
	_, err := f.game.Submit(round.ID, f.players[1].ID, card.ID)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSubmitCardFromSomeoneElsesHand(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	stolen := f.handCard(t, f.players[2].ID)
	_, err := f.game.Submit(round.ID, f.players[1].ID, stolen.ID)
	if !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}
}

func TestResolveWinnerRequiresJudge(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	sub := f.submit(t, round.ID, f.players[1].ID)
	_, err := f.game.ResolveWinner(round.ID, sub.ID, f.players[2].ID)
	if !errors.Is(err, ErrNotJudge) {
		t.Fatalf("expected ErrNotJudge, got %v", err)
	}
}

func TestSubmitAfterRoundCompleted(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	sub := f.submit(t, round.ID, f.players[1].ID)
	if _, err := f.game.ResolveWinner(round.ID, sub.ID, f.players[0].ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	card := f.handCard(t, f.players[2].ID)
	_, err := f.game.Submit(round.ID, f.players[2].ID, card.ID)
	if !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive, got %v", err)
	}
}

// A round completed without a successor (an advance that died halfway) is
// repaired by Resume from any client.
func TestResumeRepairsStalledRoom(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	f.submit(t, round.ID, f.players[1].ID)
	// Simulate a crash after the compare-and-swap: the round is
	// completed but nothing advanced.
	if matched, err := f.store.CompleteRound(round.ID, f.players[1].ID); err != nil || !matched {
		t.Fatalf("complete round: matched=%v err=%v", matched, err)
	}

	if err := f.game.Resume(f.room.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	next, err := f.game.ActiveRound(f.room.ID)
	if err != nil {
		t.Fatalf("no round after resume: %v", err)
	}
	if next.JudgePlayerID != f.players[1].ID {
		t.Fatalf("resume rotated to %d, want %d", next.JudgePlayerID, f.players[1].ID)
	}
	for _, p := range f.players {
		count, _ := f.store.CountHand(f.room.ID, p.ID)
		if count != smallSettings().HandSize {
			t.Fatalf("player %d hand = %d after resume", p.ID, count)
		}
	}

	// Resume on a healthy room is a no-op.
	if err := f.game.Resume(f.room.ID); err != nil {
		t.Fatalf("second resume: %v", err)
	}
	if got := f.roundCount(t); got != 2 {
		t.Fatalf("round rows = %d, want 2", got)
	}
}

// A completed round whose judge has no roster entry rotates from ring
// index 0 instead of erroring.
func TestAdvanceFallsBackWhenJudgeUnknown(t *testing.T) {
	f := newFixture(t, smallSettings(), 3, 4, 30)
	round := f.start(t)

	sub := f.submit(t, round.ID, f.players[1].ID)
	if _, err := f.game.ResolveWinner(round.ID, sub.ID, f.players[0].ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Complete the successor with a judge id that never joined.
	active, _ := f.game.ActiveRound(f.room.ID)
	f.store.mu.Lock()
	stored := f.store.rounds[active.ID]
	stored.JudgePlayerID = 9999
	f.store.rounds[active.ID] = stored
	f.store.mu.Unlock()
	if matched, err := f.store.CompleteRound(active.ID, f.players[2].ID); err != nil || !matched {
		t.Fatalf("complete: matched=%v err=%v", matched, err)
	}

	if err := f.game.Resume(f.room.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	next, err := f.game.ActiveRound(f.room.ID)
	if err != nil {
		t.Fatalf("no round after resume: %v", err)
	}
	if next.JudgePlayerID != f.players[0].ID {
		t.Fatalf("fallback judge = %d, want ring index 0 (%d)", next.JudgePlayerID, f.players[0].ID)
	}
}
