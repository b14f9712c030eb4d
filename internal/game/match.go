package game

import (
	"errors"
	"fmt"
)

// CreateRoom opens a waiting room on a deck with a fresh join code.
func (g *Game) CreateRoom(deckID uint, joinCode string) (Room, error) {
	room := Room{
		JoinCode: joinCode,
		DeckID:   deckID,
		Status:   RoomWaiting,
	}
	if err := g.store.CreateRoom(&room); err != nil {
		return Room{}, err
	}
	g.logEvent(room.ID, nil, nil, "room_created", EventPayload{
		RoomID:   room.ID,
		JoinCode: room.JoinCode,
		DeckID:   deckID,
	})
	return room, nil
}

// JoinRoom adds a user to a room's roster. The store assigns the join
// order; joining the same room twice returns the existing membership. A
// player may join a room that is already playing, which appends them to
// the end of the ring without disturbing existing orders.
func (g *Game) JoinRoom(roomID uint, userID, name string) (Player, error) {
	players, err := g.store.ListPlayers(roomID)
	if err != nil {
		return Player{}, err
	}
	for _, player := range players {
		if player.UserID == userID {
			return player, nil
		}
	}
	if g.settings.MaxPlayers > 0 && len(players) >= g.settings.MaxPlayers {
		return Player{}, ErrRoomFull
	}
	player := Player{
		RoomID: roomID,
		UserID: userID,
		Name:   name,
	}
	if err := g.store.AddPlayer(&player); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Two tabs joined at once; keep the row that won.
			players, listErr := g.store.ListPlayers(roomID)
			if listErr != nil {
				return Player{}, listErr
			}
			for _, existing := range players {
				if existing.UserID == userID {
					return existing, nil
				}
			}
			return Player{}, ErrAlreadyJoined
		}
		return Player{}, err
	}
	g.logEvent(roomID, nil, &player.ID, "player_joined", EventPayload{
		RoomID:     roomID,
		PlayerID:   player.ID,
		PlayerName: name,
	})
	return player, nil
}

// ListWaitingRooms is the lobby browse query.
func (g *Game) ListWaitingRooms() ([]Room, error) {
	return g.store.ListWaitingRooms()
}

// StartMatch begins play: scores reset, initial hands dealt, and the first
// round created with the lowest join order as judge. The player-count
// precondition is checked before anything mutates, and the waiting→playing
// status flip is conditional so that two hosts clicking start produce one
// start; the loser is handed the active round as a success no-op.
func (g *Game) StartMatch(roomID uint) (Round, error) {
	room, err := g.store.GetRoom(roomID)
	if err != nil {
		return Round{}, err
	}
	players, err := g.OrderedPlayers(roomID)
	if err != nil {
		return Round{}, err
	}
	if len(players) < g.settings.MinPlayers {
		return Round{}, fmt.Errorf("%w (have %d, need %d)", ErrNotEnoughPlayers, len(players), g.settings.MinPlayers)
	}

	matched, err := g.store.SetRoomStatus(roomID, RoomWaiting, RoomPlaying)
	if err != nil {
		return Round{}, err
	}
	if !matched {
		if round, err := g.store.SubmittingRound(roomID); err == nil {
			return round, nil
		} else if !errors.Is(err, ErrNotFound) {
			return Round{}, err
		}
		// Started previously but left without an active round.
		if err := g.Resume(roomID); err != nil {
			return Round{}, err
		}
		return g.store.SubmittingRound(roomID)
	}
	room.Status = RoomPlaying

	if err := g.store.ResetScores(roomID); err != nil {
		return Round{}, err
	}
	if err := g.DealInitialHands(room, players); err != nil {
		return Round{}, err
	}
	g.logEvent(roomID, nil, nil, "match_started", EventPayload{
		RoomID: roomID,
		Count:  len(players),
	})
	return g.CreateRound(roomID, players[0].ID)
}
