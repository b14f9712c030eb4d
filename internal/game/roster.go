package game

// OrderedPlayers returns the room's players sorted ascending by join order.
// This ordering is the rotation ring and never changes for the life of the
// room: join orders are assigned once and never reused or renumbered.
func (g *Game) OrderedPlayers(roomID uint) ([]Player, error) {
	return g.store.ListPlayers(roomID)
}

// NextJudge resolves the judge for the round after the one judged by
// currentJudgeID by stepping one position around the ring. A judge who has
// left the roster yields ErrJudgeNotFound; callers fall back to ring
// index 0.
func (g *Game) NextJudge(roomID, currentJudgeID uint) (Player, error) {
	players, err := g.OrderedPlayers(roomID)
	if err != nil {
		return Player{}, err
	}
	if len(players) == 0 {
		return Player{}, ErrJudgeNotFound
	}
	for i, player := range players {
		if player.ID == currentJudgeID {
			return players[(i+1)%len(players)], nil
		}
	}
	return Player{}, ErrJudgeNotFound
}

// SetAdvisoryJudgeFlag refreshes the display-only judge marker. It is
// best-effort by contract: callers log and continue when it fails, because
// the authoritative judge lives on the round row.
func (g *Game) SetAdvisoryJudgeFlag(roomID, judgeID uint) error {
	return g.store.SetJudgeFlag(roomID, judgeID)
}
