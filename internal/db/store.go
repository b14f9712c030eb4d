package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"card-judge/internal/game"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store implements game.Store on Postgres. Uniqueness rejections surface
// as game.ErrDuplicate; conditional writes report their affected-row
// count. Nothing here reads before writing on a contended row.
type Store struct {
	conn *gorm.DB
}

var _ game.Store = (*Store)(nil)

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.ErrNotFound
	}
	if isUniqueViolation(err) {
		return game.ErrDuplicate
	}
	return err
}

func (s *Store) CreateDeck(deck *game.Deck) error {
	record := Deck{Name: deck.Name}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	deck.ID = record.ID
	return nil
}

func (s *Store) CreateCard(card *game.Card) error {
	pick := card.Pick
	if pick <= 0 {
		pick = 1
	}
	record := Card{
		DeckID: card.DeckID,
		Kind:   card.Kind,
		Text:   card.Text,
		Pick:   pick,
	}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	card.ID = record.ID
	card.Pick = pick
	return nil
}

func (s *Store) DeckCardIDs(deckID uint, kind string) ([]uint, error) {
	var ids []uint
	err := s.conn.Model(&Card{}).
		Where("deck_id = ? AND kind = ?", deckID, kind).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) CardsByID(ids []uint) (map[uint]game.Card, error) {
	result := make(map[uint]game.Card, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var records []Card
	if err := s.conn.Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, record := range records {
		result[record.ID] = game.Card{
			ID:     record.ID,
			DeckID: record.DeckID,
			Kind:   record.Kind,
			Text:   record.Text,
			Pick:   record.Pick,
		}
	}
	return result, nil
}

func (s *Store) CreateRoom(room *game.Room) error {
	record := Room{
		JoinCode: room.JoinCode,
		DeckID:   room.DeckID,
		Status:   room.Status,
		HostID:   room.HostID,
	}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	room.ID = record.ID
	return nil
}

func (s *Store) GetRoom(roomID uint) (game.Room, error) {
	var record Room
	if err := s.conn.First(&record, roomID).Error; err != nil {
		return game.Room{}, fmt.Errorf("room %d: %w", roomID, translate(err))
	}
	return roomFromRecord(record), nil
}

func (s *Store) ListWaitingRooms() ([]game.Room, error) {
	var records []Room
	if err := s.conn.Where("status = ?", RoomWaiting).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	rooms := make([]game.Room, 0, len(records))
	for _, record := range records {
		rooms = append(rooms, roomFromRecord(record))
	}
	return rooms, nil
}

func (s *Store) SetRoomStatus(roomID uint, from, to string) (bool, error) {
	result := s.conn.Model(&Room{}).
		Where("id = ? AND status = ?", roomID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddPlayer assigns the next join order inside the insert itself and lets
// the (room_id, join_order) unique index arbitrate between concurrent
// joiners; the loser recomputes and retries. A (room_id, user_id) conflict
// is a genuine duplicate membership and is returned as such.
func (s *Store) AddPlayer(player *game.Player) error {
	const attempts = 3
	var lastErr error
	for range attempts {
		var next int
		err := s.conn.Model(&Player{}).
			Where("room_id = ?", player.RoomID).
			Select("COALESCE(MAX(join_order) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}
		record := Player{
			RoomID:    player.RoomID,
			UserID:    player.UserID,
			Name:      player.Name,
			JoinOrder: next,
			JoinedAt:  time.Now().UTC(),
		}
		if err := s.conn.Create(&record).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if pgErr.ConstraintName == "idx_players_room_order" {
					lastErr = game.ErrDuplicate
					continue
				}
				return fmt.Errorf("user %q in room %d: %w", player.UserID, player.RoomID, game.ErrDuplicate)
			}
			return err
		}
		player.ID = record.ID
		player.JoinOrder = record.JoinOrder
		player.Score = record.Score
		return nil
	}
	return fmt.Errorf("join order contention in room %d: %w", player.RoomID, lastErr)
}

func (s *Store) GetPlayer(playerID uint) (game.Player, error) {
	var record Player
	if err := s.conn.First(&record, playerID).Error; err != nil {
		return game.Player{}, fmt.Errorf("player %d: %w", playerID, translate(err))
	}
	return playerFromRecord(record), nil
}

func (s *Store) ListPlayers(roomID uint) ([]game.Player, error) {
	var records []Player
	err := s.conn.Where("room_id = ?", roomID).Order("join_order").Find(&records).Error
	if err != nil {
		return nil, err
	}
	players := make([]game.Player, 0, len(records))
	for _, record := range records {
		players = append(players, playerFromRecord(record))
	}
	return players, nil
}

func (s *Store) ResetScores(roomID uint) error {
	return s.conn.Model(&Player{}).
		Where("room_id = ?", roomID).
		Update("score", 0).Error
}

func (s *Store) IncrementScore(playerID uint) error {
	result := s.conn.Model(&Player{}).
		Where("id = ?", playerID).
		Update("score", gorm.Expr("score + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("player %d: %w", playerID, game.ErrNotFound)
	}
	return nil
}

func (s *Store) SetJudgeFlag(roomID, judgeID uint) error {
	if err := s.conn.Model(&Player{}).
		Where("room_id = ?", roomID).
		Update("is_judge", false).Error; err != nil {
		return err
	}
	return s.conn.Model(&Player{}).
		Where("room_id = ? AND id = ?", roomID, judgeID).
		Update("is_judge", true).Error
}

func (s *Store) CreateSubmittingRound(round *game.Round) error {
	record := Round{
		RoomID:        round.RoomID,
		PromptCardID:  round.PromptCardID,
		JudgePlayerID: round.JudgePlayerID,
		Status:        RoundSubmitting,
	}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	round.ID = record.ID
	round.Status = record.Status
	return nil
}

func (s *Store) SubmittingRound(roomID uint) (game.Round, error) {
	var record Round
	err := s.conn.Where("room_id = ? AND status = ?", roomID, RoundSubmitting).
		First(&record).Error
	if err != nil {
		return game.Round{}, fmt.Errorf("submitting round in room %d: %w", roomID, translate(err))
	}
	return roundFromRecord(record), nil
}

func (s *Store) LatestRound(roomID uint) (game.Round, error) {
	var record Round
	err := s.conn.Where("room_id = ?", roomID).Order("id DESC").First(&record).Error
	if err != nil {
		return game.Round{}, fmt.Errorf("latest round in room %d: %w", roomID, translate(err))
	}
	return roundFromRecord(record), nil
}

func (s *Store) GetRound(roundID uint) (game.Round, error) {
	var record Round
	if err := s.conn.First(&record, roundID).Error; err != nil {
		return game.Round{}, fmt.Errorf("round %d: %w", roundID, translate(err))
	}
	return roundFromRecord(record), nil
}

func (s *Store) CompleteRound(roundID, winnerPlayerID uint) (bool, error) {
	result := s.conn.Model(&Round{}).
		Where("id = ? AND status = ?", roundID, RoundSubmitting).
		Updates(map[string]any{
			"status":           RoundCompleted,
			"winner_player_id": winnerPlayerID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) CreateSubmission(sub *game.Submission) error {
	record := Submission{
		RoundID:  sub.RoundID,
		PlayerID: sub.PlayerID,
		CardID:   sub.CardID,
		Slot:     sub.Slot,
	}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	sub.ID = record.ID
	return nil
}

func (s *Store) DeleteSubmission(submissionID uint) (bool, error) {
	result := s.conn.Delete(&Submission{}, submissionID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) GetSubmission(submissionID uint) (game.Submission, error) {
	var record Submission
	if err := s.conn.First(&record, submissionID).Error; err != nil {
		return game.Submission{}, fmt.Errorf("submission %d: %w", submissionID, translate(err))
	}
	return submissionFromRecord(record), nil
}

func (s *Store) ListSubmissions(roundID uint) ([]game.Submission, error) {
	var records []Submission
	err := s.conn.Where("round_id = ?", roundID).Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}
	subs := make([]game.Submission, 0, len(records))
	for _, record := range records {
		subs = append(subs, submissionFromRecord(record))
	}
	return subs, nil
}

func (s *Store) CountSubmissions(roundID, playerID uint) (int, error) {
	var count int64
	err := s.conn.Model(&Submission{}).
		Where("round_id = ? AND player_id = ?", roundID, playerID).
		Count(&count).Error
	return int(count), err
}

func (s *Store) AddHandCard(card *game.HandCard) error {
	record := HandCard{
		RoomID:   card.RoomID,
		PlayerID: card.PlayerID,
		CardID:   card.CardID,
	}
	if err := s.conn.Create(&record).Error; err != nil {
		return translate(err)
	}
	card.ID = record.ID
	return nil
}

func (s *Store) ListHand(roomID, playerID uint) ([]game.HandCard, error) {
	var records []HandCard
	err := s.conn.Where("room_id = ? AND player_id = ?", roomID, playerID).
		Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}
	entries := make([]game.HandCard, 0, len(records))
	for _, record := range records {
		entries = append(entries, game.HandCard{
			ID:       record.ID,
			RoomID:   record.RoomID,
			PlayerID: record.PlayerID,
			CardID:   record.CardID,
		})
	}
	return entries, nil
}

func (s *Store) CountHand(roomID, playerID uint) (int, error) {
	var count int64
	err := s.conn.Model(&HandCard{}).
		Where("room_id = ? AND player_id = ?", roomID, playerID).
		Count(&count).Error
	return int(count), err
}

func (s *Store) RemoveHandCard(roomID, playerID, cardID uint) (bool, error) {
	result := s.conn.Where("room_id = ? AND player_id = ? AND card_id = ?", roomID, playerID, cardID).
		Delete(&HandCard{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) UsedCardIDs(roomID uint) ([]uint, error) {
	var held []uint
	err := s.conn.Model(&HandCard{}).
		Where("room_id = ?", roomID).
		Pluck("card_id", &held).Error
	if err != nil {
		return nil, err
	}
	var consumed []uint
	err = s.conn.Model(&Submission{}).
		Joins("JOIN rounds ON rounds.id = submissions.round_id").
		Where("rounds.room_id = ?", roomID).
		Pluck("submissions.card_id", &consumed).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(held)+len(consumed))
	ids := make([]uint, 0, len(held)+len(consumed))
	for _, id := range append(held, consumed...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) LogEvent(roomID uint, roundID, playerID *uint, eventType string, payload game.EventPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := Event{
		RoomID:   roomID,
		RoundID:  roundID,
		PlayerID: playerID,
		Type:     eventType,
		Payload:  datatypes.JSON(raw),
	}
	return s.conn.Create(&record).Error
}

func roomFromRecord(record Room) game.Room {
	return game.Room{
		ID:       record.ID,
		JoinCode: record.JoinCode,
		DeckID:   record.DeckID,
		Status:   record.Status,
		HostID:   record.HostID,
	}
}

func playerFromRecord(record Player) game.Player {
	return game.Player{
		ID:        record.ID,
		RoomID:    record.RoomID,
		UserID:    record.UserID,
		Name:      record.Name,
		JoinOrder: record.JoinOrder,
		Score:     record.Score,
		IsJudge:   record.IsJudge,
	}
}

func roundFromRecord(record Round) game.Round {
	return game.Round{
		ID:             record.ID,
		RoomID:         record.RoomID,
		PromptCardID:   record.PromptCardID,
		JudgePlayerID:  record.JudgePlayerID,
		Status:         record.Status,
		WinnerPlayerID: record.WinnerPlayerID,
	}
}

func submissionFromRecord(record Submission) game.Submission {
	return game.Submission{
		ID:       record.ID,
		RoundID:  record.RoundID,
		PlayerID: record.PlayerID,
		CardID:   record.CardID,
		Slot:     record.Slot,
	}
}
