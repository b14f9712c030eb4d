package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DealInitialHands gives every player a full hand drawn without replacement
// from the deck's answer pool, excluding cards already held or consumed in
// the room. Nothing is dealt when the pool cannot cover every player.
func (g *Game) DealInitialHands(room Room, players []Player) error {
	available, err := g.availableAnswers(room)
	if err != nil {
		return err
	}
	if len(available) < len(players)*g.settings.HandSize {
		return ErrInsufficientCards
	}
	for _, player := range players {
		if err := g.fillHand(room, player.ID, available); err != nil {
			return err
		}
	}
	return nil
}

// Replenish tops a player's hand back up to the configured size. Re-running
// against a full hand is a no-op, and concurrent calls for the same player
// cannot overshoot: the count is re-checked before every insert and the
// (room, card) constraint rejects any card another hand grabbed first.
func (g *Game) Replenish(room Room, playerID uint) error {
	count, err := g.store.CountHand(room.ID, playerID)
	if err != nil {
		return err
	}
	if count >= g.settings.HandSize {
		return nil
	}
	available, err := g.availableAnswers(room)
	if err != nil {
		return err
	}
	return g.fillHand(room, playerID, available)
}

// DrawPrompt picks one prompt card uniformly at random. Prompts are not
// consumed; the same prompt may recur in a later round.
func (g *Game) DrawPrompt(room Room) (Card, error) {
	ids, err := g.store.DeckCardIDs(room.DeckID, CardKindPrompt)
	if err != nil {
		return Card{}, err
	}
	if len(ids) == 0 {
		return Card{}, ErrEmptyDeck
	}
	id := ids[rand.IntN(len(ids))]
	cards, err := g.store.CardsByID([]uint{id})
	if err != nil {
		return Card{}, err
	}
	card, ok := cards[id]
	if !ok {
		return Card{}, fmt.Errorf("prompt card %d: %w", id, ErrNotFound)
	}
	return card, nil
}

// Consume removes a card from a hand. The conditional delete is the second
// line of defense against a duplicate submission of the same card: whoever
// loses the race sees ErrCardNotInHand.
func (g *Game) Consume(roomID, playerID, cardID uint) error {
	matched, err := g.store.RemoveHandCard(roomID, playerID, cardID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrCardNotInHand
	}
	return nil
}

// Hand returns the player's current hand as cards. A hand found above the
// target size is the symptom of a race elsewhere and is trimmed back down
// before it is returned.
func (g *Game) Hand(roomID, playerID uint) ([]Card, error) {
	entries, err := g.store.ListHand(roomID, playerID)
	if err != nil {
		return nil, err
	}
	for len(entries) > g.settings.HandSize {
		extra := entries[len(entries)-1]
		if _, err := g.store.RemoveHandCard(roomID, playerID, extra.CardID); err != nil {
			return nil, err
		}
		entries = entries[:len(entries)-1]
	}
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.CardID)
	}
	byID, err := g.store.CardsByID(ids)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(entries))
	for _, entry := range entries {
		if card, ok := byID[entry.CardID]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// availableAnswers is the deck's answer pool minus every card already held
// or consumed in the room, shuffled.
func (g *Game) availableAnswers(room Room) ([]uint, error) {
	pool, err := g.store.DeckCardIDs(room.DeckID, CardKindAnswer)
	if err != nil {
		return nil, err
	}
	used, err := g.store.UsedCardIDs(room.ID)
	if err != nil {
		return nil, err
	}
	taken := make(map[uint]struct{}, len(used))
	for _, id := range used {
		taken[id] = struct{}{}
	}
	available := make([]uint, 0, len(pool))
	for _, id := range pool {
		if _, ok := taken[id]; ok {
			continue
		}
		available = append(available, id)
	}
	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	return available, nil
}

// fillHand inserts candidates until the hand reaches the target size. The
// count is taken fresh before each insert, and ErrDuplicate means another
// hand in the room won that card, so the candidate is simply skipped. An
// exhausted candidate list is not an error here: late in a match the
// consumed pool legitimately runs dry and hands shrink, which is what
// bounds match length by deck size.
func (g *Game) fillHand(room Room, playerID uint, candidates []uint) error {
	for _, cardID := range candidates {
		count, err := g.store.CountHand(room.ID, playerID)
		if err != nil {
			return err
		}
		if count >= g.settings.HandSize {
			return nil
		}
		err = g.store.AddHandCard(&HandCard{
			RoomID:   room.ID,
			PlayerID: playerID,
			CardID:   cardID,
		})
		if err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return err
		}
	}
	return nil
}
