package game

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is the in-memory Store used when no database is configured and
// by the test suite. A single mutex makes every primitive atomic, which is
// exactly the guarantee the Postgres store gets from its constraints and
// conditional statements; the race discipline of the callers is identical
// against either.
type MemStore struct {
	mu     sync.Mutex
	nextID uint

	decks       map[uint]Deck
	cards       map[uint]Card
	rooms       map[uint]Room
	players     map[uint]Player
	rounds      map[uint]Round
	submissions map[uint]Submission
	hands       map[uint]HandCard
	events      []memEvent
}

type memEvent struct {
	RoomID   uint
	RoundID  *uint
	PlayerID *uint
	Type     string
	Payload  EventPayload
	At       time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:      1,
		decks:       make(map[uint]Deck),
		cards:       make(map[uint]Card),
		rooms:       make(map[uint]Room),
		players:     make(map[uint]Player),
		rounds:      make(map[uint]Round),
		submissions: make(map[uint]Submission),
		hands:       make(map[uint]HandCard),
	}
}

func (s *MemStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemStore) CreateDeck(deck *Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.decks {
		if existing.Name == deck.Name {
			return fmt.Errorf("deck %q: %w", deck.Name, ErrDuplicate)
		}
	}
	deck.ID = s.id()
	s.decks[deck.ID] = *deck
	return nil
}

func (s *MemStore) CreateCard(card *Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[card.DeckID]; !ok {
		return fmt.Errorf("deck %d: %w", card.DeckID, ErrNotFound)
	}
	for _, existing := range s.cards {
		if existing.DeckID == card.DeckID && existing.Kind == card.Kind && existing.Text == card.Text {
			return fmt.Errorf("card %q: %w", card.Text, ErrDuplicate)
		}
	}
	if card.Pick <= 0 {
		card.Pick = 1
	}
	card.ID = s.id()
	s.cards[card.ID] = *card
	return nil
}

func (s *MemStore) DeckCardIDs(deckID uint, kind string) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for id, card := range s.cards {
		if card.DeckID == deckID && card.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemStore) CardsByID(ids []uint) (map[uint]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[uint]Card, len(ids))
	for _, id := range ids {
		if card, ok := s.cards[id]; ok {
			result[id] = card
		}
	}
	return result, nil
}

func (s *MemStore) CreateRoom(room *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rooms {
		if existing.JoinCode == room.JoinCode {
			return fmt.Errorf("join code %q: %w", room.JoinCode, ErrDuplicate)
		}
	}
	room.ID = s.id()
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemStore) GetRoom(roomID uint) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return Room{}, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}
	return room, nil
}

func (s *MemStore) ListWaitingRooms() ([]Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []Room
	for _, room := range s.rooms {
		if room.Status == RoomWaiting {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (s *MemStore) SetRoomStatus(roomID uint, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return false, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
	}
	if room.Status != from {
		return false, nil
	}
	room.Status = to
	s.rooms[roomID] = room
	return true, nil
}

func (s *MemStore) AddPlayer(player *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[player.RoomID]; !ok {
		return fmt.Errorf("room %d: %w", player.RoomID, ErrNotFound)
	}
	next := 0
	for _, existing := range s.players {
		if existing.RoomID != player.RoomID {
			continue
		}
		if existing.UserID == player.UserID {
			return fmt.Errorf("user %q in room %d: %w", player.UserID, player.RoomID, ErrDuplicate)
		}
		if existing.JoinOrder >= next {
			next = existing.JoinOrder + 1
		}
	}
	player.ID = s.id()
	player.JoinOrder = next
	s.players[player.ID] = *player
	return nil
}

func (s *MemStore) GetPlayer(playerID uint) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return Player{}, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	return player, nil
}

func (s *MemStore) ListPlayers(roomID uint) ([]Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var players []Player
	for _, player := range s.players {
		if player.RoomID == roomID {
			players = append(players, player)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].JoinOrder < players[j].JoinOrder })
	return players, nil
}

func (s *MemStore) ResetScores(roomID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, player := range s.players {
		if player.RoomID == roomID {
			player.Score = 0
			s.players[id] = player
		}
	}
	return nil
}

func (s *MemStore) IncrementScore(playerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok {
		return fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	player.Score++
	s.players[playerID] = player
	return nil
}

func (s *MemStore) SetJudgeFlag(roomID, judgeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, player := range s.players {
		if player.RoomID != roomID {
			continue
		}
		player.IsJudge = player.ID == judgeID
		s.players[id] = player
	}
	return nil
}

func (s *MemStore) CreateSubmittingRound(round *Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[round.RoomID]; !ok {
		return fmt.Errorf("room %d: %w", round.RoomID, ErrNotFound)
	}
	for _, existing := range s.rounds {
		if existing.RoomID == round.RoomID && existing.Status == RoundSubmitting {
			return fmt.Errorf("room %d already has a submitting round: %w", round.RoomID, ErrDuplicate)
		}
	}
	round.Status = RoundSubmitting
	round.ID = s.id()
	s.rounds[round.ID] = *round
	return nil
}

func (s *MemStore) SubmittingRound(roomID uint) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, round := range s.rounds {
		if round.RoomID == roomID && round.Status == RoundSubmitting {
			return round, nil
		}
	}
	return Round{}, fmt.Errorf("no submitting round in room %d: %w", roomID, ErrNotFound)
}

func (s *MemStore) LatestRound(roomID uint) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest Round
	found := false
	for _, round := range s.rounds {
		if round.RoomID == roomID && round.ID >= latest.ID {
			latest = round
			found = true
		}
	}
	if !found {
		return Round{}, fmt.Errorf("no rounds in room %d: %w", roomID, ErrNotFound)
	}
	return latest, nil
}

func (s *MemStore) GetRound(roundID uint) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[roundID]
	if !ok {
		return Round{}, fmt.Errorf("round %d: %w", roundID, ErrNotFound)
	}
	return round, nil
}

func (s *MemStore) CompleteRound(roundID, winnerPlayerID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[roundID]
	if !ok {
		return false, fmt.Errorf("round %d: %w", roundID, ErrNotFound)
	}
	if round.Status != RoundSubmitting {
		return false, nil
	}
	winner := winnerPlayerID
	round.Status = RoundCompleted
	round.WinnerPlayerID = &winner
	s.rounds[roundID] = round
	return true, nil
}

func (s *MemStore) CreateSubmission(sub *Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[sub.RoundID]; !ok {
		return fmt.Errorf("round %d: %w", sub.RoundID, ErrNotFound)
	}
	for _, existing := range s.submissions {
		if existing.RoundID == sub.RoundID && existing.PlayerID == sub.PlayerID && existing.Slot == sub.Slot {
			return fmt.Errorf("submission slot %d: %w", sub.Slot, ErrDuplicate)
		}
	}
	sub.ID = s.id()
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *MemStore) DeleteSubmission(submissionID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[submissionID]; !ok {
		return false, nil
	}
	delete(s.submissions, submissionID)
	return true, nil
}

func (s *MemStore) GetSubmission(submissionID uint) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return Submission{}, fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
	}
	return sub, nil
}

func (s *MemStore) ListSubmissions(roundID uint) ([]Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var subs []Submission
	for _, sub := range s.submissions {
		if sub.RoundID == roundID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (s *MemStore) CountSubmissions(roundID, playerID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, sub := range s.submissions {
		if sub.RoundID == roundID && sub.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) AddHandCard(card *HandCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.hands {
		if existing.RoomID == card.RoomID && existing.CardID == card.CardID {
			return fmt.Errorf("card %d already held in room %d: %w", card.CardID, card.RoomID, ErrDuplicate)
		}
	}
	card.ID = s.id()
	s.hands[card.ID] = *card
	return nil
}

func (s *MemStore) ListHand(roomID, playerID uint) ([]HandCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []HandCard
	for _, entry := range s.hands {
		if entry.RoomID == roomID && entry.PlayerID == playerID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *MemStore) CountHand(roomID, playerID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, entry := range s.hands {
		if entry.RoomID == roomID && entry.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) RemoveHandCard(roomID, playerID, cardID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.hands {
		if entry.RoomID == roomID && entry.PlayerID == playerID && entry.CardID == cardID {
			delete(s.hands, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) UsedCardIDs(roomID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uint]struct{})
	for _, entry := range s.hands {
		if entry.RoomID == roomID {
			seen[entry.CardID] = struct{}{}
		}
	}
	for _, sub := range s.submissions {
		round, ok := s.rounds[sub.RoundID]
		if ok && round.RoomID == roomID {
			seen[sub.CardID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemStore) LogEvent(roomID uint, roundID, playerID *uint, eventType string, payload EventPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, memEvent{
		RoomID:   roomID,
		RoundID:  roundID,
		PlayerID: playerID,
		Type:     eventType,
		Payload:  payload,
		At:       time.Now().UTC(),
	})
	return nil
}

// Events returns a copy of the audit log for a room, oldest first.
func (s *MemStore) Events(roomID uint) []EventPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payloads []EventPayload
	for _, event := range s.events {
		if event.RoomID == roomID {
			payloads = append(payloads, event.Payload)
		}
	}
	return payloads
}
