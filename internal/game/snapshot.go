package game

import "errors"

// Snapshot is the polling read-model. Clients replace their whole cached
// state with it on every poll; there is no incremental patching.
type Snapshot struct {
	Room        RoomView         `json:"room"`
	Players     []PlayerView     `json:"players"`
	Round       *RoundView       `json:"round,omitempty"`
	Hand        []CardView       `json:"hand"`
	Submissions []SubmissionView `json:"submissions,omitempty"`
	Submitted   map[uint]int     `json:"submitted_counts,omitempty"`
	ViewerID    uint             `json:"viewer_id,omitempty"`
}

type RoomView struct {
	ID       uint   `json:"id"`
	JoinCode string `json:"join_code"`
	DeckID   uint   `json:"deck_id"`
	Status   string `json:"status"`
}

type PlayerView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	JoinOrder int    `json:"join_order"`
	Score     int    `json:"score"`
	IsJudge   bool   `json:"is_judge"`
}

type RoundView struct {
	ID            uint   `json:"id"`
	Status        string `json:"status"`
	JudgePlayerID uint   `json:"judge_player_id"`
	PromptText    string `json:"prompt_text"`
	PromptPick    int    `json:"prompt_pick"`
	WinnerID      uint   `json:"winner_player_id,omitempty"`
}

type CardView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type SubmissionView struct {
	ID       uint   `json:"id"`
	PlayerID uint   `json:"player_id,omitempty"`
	Text     string `json:"text,omitempty"`
	Slot     int    `json:"slot"`
}

// BuildSnapshot assembles the full client view of a room for one viewer.
// Judge identity comes from the most recent round, never from the advisory
// player flag. Submission contents are only included for the judge while
// the round is open; other players see per-player counts so the client can
// render who is still thinking. Once the round completes everyone sees the
// cards.
func (g *Game) BuildSnapshot(roomID, viewerPlayerID uint) (Snapshot, error) {
	room, err := g.store.GetRoom(roomID)
	if err != nil {
		return Snapshot{}, err
	}
	players, err := g.OrderedPlayers(roomID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Room: RoomView{
			ID:       room.ID,
			JoinCode: room.JoinCode,
			DeckID:   room.DeckID,
			Status:   room.Status,
		},
		ViewerID: viewerPlayerID,
		Hand:     []CardView{},
	}

	var judgeID uint
	latest, err := g.store.LatestRound(roomID)
	switch {
	case err == nil:
		judgeID = latest.JudgePlayerID
	case errors.Is(err, ErrNotFound):
	default:
		return Snapshot{}, err
	}

	for _, player := range players {
		snap.Players = append(snap.Players, PlayerView{
			ID:        player.ID,
			Name:      player.Name,
			JoinOrder: player.JoinOrder,
			Score:     player.Score,
			IsJudge:   judgeID != 0 && player.ID == judgeID,
		})
	}

	if judgeID != 0 {
		view, err := g.roundView(latest)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Round = &view

		subs, err := g.store.ListSubmissions(latest.ID)
		if err != nil {
			return Snapshot{}, err
		}
		revealed := latest.Status == RoundCompleted || viewerPlayerID == latest.JudgePlayerID
		if revealed {
			views, err := g.submissionViews(subs, latest.Status == RoundCompleted)
			if err != nil {
				return Snapshot{}, err
			}
			snap.Submissions = views
		}
		snap.Submitted = make(map[uint]int, len(subs))
		for _, sub := range subs {
			snap.Submitted[sub.PlayerID]++
		}
	}

	if viewerPlayerID != 0 {
		hand, err := g.Hand(roomID, viewerPlayerID)
		if err != nil {
			return Snapshot{}, err
		}
		for _, card := range hand {
			snap.Hand = append(snap.Hand, CardView{ID: card.ID, Text: card.Text})
		}
	}
	return snap, nil
}

func (g *Game) roundView(round Round) (RoundView, error) {
	view := RoundView{
		ID:            round.ID,
		Status:        round.Status,
		JudgePlayerID: round.JudgePlayerID,
		PromptPick:    1,
	}
	if round.WinnerPlayerID != nil {
		view.WinnerID = *round.WinnerPlayerID
	}
	cards, err := g.store.CardsByID([]uint{round.PromptCardID})
	if err != nil {
		return RoundView{}, err
	}
	if prompt, ok := cards[round.PromptCardID]; ok {
		view.PromptText = prompt.Text
		if prompt.Pick > 0 {
			view.PromptPick = prompt.Pick
		}
	}
	return view, nil
}

// submissionViews resolves card text for submissions. Owner identity is
// withheld while the round is open so the judge picks cards, not people.
func (g *Game) submissionViews(subs []Submission, completed bool) ([]SubmissionView, error) {
	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.CardID)
	}
	cards, err := g.store.CardsByID(ids)
	if err != nil {
		return nil, err
	}
	views := make([]SubmissionView, 0, len(subs))
	for _, sub := range subs {
		view := SubmissionView{
			ID:   sub.ID,
			Slot: sub.Slot,
			Text: cards[sub.CardID].Text,
		}
		if completed {
			view.PlayerID = sub.PlayerID
		}
		views = append(views, view)
	}
	return views, nil
}
