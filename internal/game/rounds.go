package game

import (
	"errors"
	"fmt"
	"log"
)

// CreateRound opens the next submitting round for a room. Several clients
// race to call this after every resolution; the store's one-submitting-
// round-per-room constraint decides the winner and everyone else receives
// the winning row back as a success no-op.
func (g *Game) CreateRound(roomID, judgePlayerID uint) (Round, error) {
	if existing, err := g.store.SubmittingRound(roomID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Round{}, err
	}

	room, err := g.store.GetRoom(roomID)
	if err != nil {
		return Round{}, err
	}
	prompt, err := g.DrawPrompt(room)
	if err != nil {
		return Round{}, err
	}

	round := Round{
		RoomID:        roomID,
		PromptCardID:  prompt.ID,
		JudgePlayerID: judgePlayerID,
		Status:        RoundSubmitting,
	}
	if err := g.store.CreateSubmittingRound(&round); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Another client created the round first; theirs is the
			// round, whatever judge they chose.
			return g.store.SubmittingRound(roomID)
		}
		return Round{}, err
	}

	if err := g.SetAdvisoryJudgeFlag(roomID, judgePlayerID); err != nil {
		log.Printf("advisory judge flag update failed room_id=%d judge_id=%d: %v", roomID, judgePlayerID, err)
	}
	g.logEvent(roomID, &round.ID, nil, "round_created", EventPayload{
		RoomID:  roomID,
		RoundID: round.ID,
		JudgeID: judgePlayerID,
	})
	return round, nil
}

// ActiveRound returns the room's submitting round, ErrNotFound when the
// room is between rounds.
func (g *Game) ActiveRound(roomID uint) (Round, error) {
	return g.store.SubmittingRound(roomID)
}

// LatestRoundForRoom returns the most recent round regardless of status;
// its judge is the authoritative one.
func (g *Game) LatestRoundForRoom(roomID uint) (Round, error) {
	return g.store.LatestRound(roomID)
}

// Submit records one answer card from a non-judge player into the active
// round and consumes the card from their hand.
func (g *Game) Submit(roundID, playerID, cardID uint) (Submission, error) {
	round, err := g.store.GetRound(roundID)
	if err != nil {
		return Submission{}, err
	}
	if round.Status != RoundSubmitting {
		return Submission{}, ErrRoundNotActive
	}
	if round.JudgePlayerID == playerID {
		return Submission{}, ErrNotYourTurn
	}

	required, err := g.requiredPicks(round)
	if err != nil {
		return Submission{}, err
	}
	already, err := g.store.CountSubmissions(roundID, playerID)
	if err != nil {
		return Submission{}, err
	}
	if already >= required {
		return Submission{}, ErrAlreadySubmitted
	}

	held, err := g.holdsCard(round.RoomID, playerID, cardID)
	if err != nil {
		return Submission{}, err
	}
	if !held {
		return Submission{}, ErrCardNotInHand
	}

	sub := Submission{
		RoundID:  roundID,
		PlayerID: playerID,
		CardID:   cardID,
		Slot:     already,
	}
	if err := g.store.CreateSubmission(&sub); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// A parallel submit filled this slot first.
			return Submission{}, ErrAlreadySubmitted
		}
		return Submission{}, err
	}
	if err := g.Consume(round.RoomID, playerID, cardID); err != nil {
		// The card vanished between the membership check and the
		// delete: a duplicate click racing us. Withdraw the
		// submission so no row references an unconsumed card.
		if _, delErr := g.store.DeleteSubmission(sub.ID); delErr != nil {
			return Submission{}, fmt.Errorf("withdraw submission %d: %v: %w", sub.ID, delErr, err)
		}
		return Submission{}, err
	}
	g.logEvent(round.RoomID, &roundID, &playerID, "card_submitted", EventPayload{
		RoundID:  roundID,
		PlayerID: playerID,
		CardID:   cardID,
	})
	return sub, nil
}

// ResolveWinner completes a round on behalf of its judge. The conditional
// update on status is what keeps resolution idempotent across every tab
// and retry: only the caller whose update matched a row awards the point
// and advances the match. Everyone else gets the already-completed round
// back as a success no-op.
func (g *Game) ResolveWinner(roundID, submissionID, requestingPlayerID uint) (Round, error) {
	round, err := g.store.GetRound(roundID)
	if err != nil {
		return Round{}, err
	}
	if round.JudgePlayerID != requestingPlayerID {
		return Round{}, ErrNotJudge
	}
	sub, err := g.store.GetSubmission(submissionID)
	if err != nil {
		return Round{}, err
	}
	if sub.RoundID != roundID {
		return Round{}, fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
	}

	matched, err := g.store.CompleteRound(roundID, sub.PlayerID)
	if err != nil {
		return Round{}, err
	}
	if !matched {
		// Another client completed this round already. Do not score,
		// do not advance.
		return g.store.GetRound(roundID)
	}

	if err := g.store.IncrementScore(sub.PlayerID); err != nil {
		return Round{}, err
	}
	g.logEvent(round.RoomID, &roundID, &sub.PlayerID, "winner_picked", EventPayload{
		RoundID:  roundID,
		WinnerID: sub.PlayerID,
		CardID:   sub.CardID,
	})

	completed, err := g.store.GetRound(roundID)
	if err != nil {
		return Round{}, err
	}
	if err := g.Advance(completed); err != nil {
		// The round is durably completed and the point awarded; the
		// room is merely missing its successor round. Resume repairs
		// that from any client.
		return completed, fmt.Errorf("advance after round %d: %w", roundID, err)
	}
	return completed, nil
}

// Advance moves the match from a completed round to the next submitting
// round: hands are replenished, the ring rotates, and the next round is
// created. Every step is idempotent, so Advance may be re-run from scratch
// after a partial failure.
func (g *Game) Advance(completed Round) error {
	room, err := g.store.GetRoom(completed.RoomID)
	if err != nil {
		return err
	}
	players, err := g.OrderedPlayers(completed.RoomID)
	if err != nil {
		return err
	}
	for _, player := range players {
		if err := g.Replenish(room, player.ID); err != nil {
			return err
		}
	}

	judge, err := g.NextJudge(completed.RoomID, completed.JudgePlayerID)
	if err != nil {
		if !errors.Is(err, ErrJudgeNotFound) {
			return err
		}
		if len(players) == 0 {
			return ErrJudgeNotFound
		}
		// Departed judge: restart the ring at the lowest join order.
		judge = players[0]
	}

	_, err = g.CreateRound(completed.RoomID, judge.ID)
	return err
}

// Resume repairs the stuck state where a room is playing but holds no
// submitting round (an Advance that died halfway). It is safe to call from
// any client at any time: when the room already has an active round it
// does nothing.
func (g *Game) Resume(roomID uint) error {
	room, err := g.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	if room.Status != RoomPlaying {
		return nil
	}
	if _, err := g.store.SubmittingRound(roomID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	latest, err := g.store.LatestRound(roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if latest.Status != RoundCompleted {
		return nil
	}
	log.Printf("resuming stalled room room_id=%d after round_id=%d", roomID, latest.ID)
	return g.Advance(latest)
}

// requiredPicks reads the prompt's pick count, defaulting to a single slot.
func (g *Game) requiredPicks(round Round) (int, error) {
	cards, err := g.store.CardsByID([]uint{round.PromptCardID})
	if err != nil {
		return 0, err
	}
	prompt, ok := cards[round.PromptCardID]
	if !ok || prompt.Pick <= 0 {
		return 1, nil
	}
	return prompt.Pick, nil
}

func (g *Game) holdsCard(roomID, playerID, cardID uint) (bool, error) {
	entries, err := g.store.ListHand(roomID, playerID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.CardID == cardID {
			return true, nil
		}
	}
	return false, nil
}

func (g *Game) logEvent(roomID uint, roundID, playerID *uint, eventType string, payload EventPayload) {
	if err := g.store.LogEvent(roomID, roundID, playerID, eventType, payload); err != nil {
		log.Printf("event log failed room_id=%d type=%s: %v", roomID, eventType, err)
	}
}
