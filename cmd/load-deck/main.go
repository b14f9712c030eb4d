package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"card-judge/internal/config"
	"card-judge/internal/db"
)

type cardRecord struct {
	Kind string
	Text string
	Pick int
}

func main() {
	filePath := flag.String("file", "deck.csv", "path to deck csv (kind,text,pick)")
	deckName := flag.String("deck", "Starter", "deck name to load into")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	records, err := readCards(*filePath)
	if err != nil {
		log.Fatalf("failed to read deck: %v", err)
	}

	deck := db.Deck{Name: *deckName}
	if err := conn.FirstOrCreate(&deck, db.Deck{Name: deck.Name}).Error; err != nil {
		log.Fatalf("failed to upsert deck: %v", err)
	}

	inserted := 0
	for _, record := range records {
		entry := db.Card{
			DeckID: deck.ID,
			Kind:   record.Kind,
			Text:   record.Text,
			Pick:   record.Pick,
		}
		err := conn.FirstOrCreate(&entry, db.Card{
			DeckID: deck.ID,
			Kind:   record.Kind,
			Text:   record.Text,
		}).Error
		if err != nil {
			log.Fatalf("failed to upsert card: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d cards into deck %q (id=%d)", inserted, deck.Name, deck.ID)
}

func readCards(path string) ([]cardRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []cardRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(row[0]))
		text := strings.TrimSpace(row[1])
		if text == "" || (kind != db.CardKindPrompt && kind != db.CardKindAnswer) {
			continue
		}
		pick := 1
		if len(row) >= 3 {
			if value, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil && value > 0 {
				pick = value
			}
		}
		records = append(records, cardRecord{Kind: kind, Text: text, Pick: pick})
	}
	return records, nil
}
