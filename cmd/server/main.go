package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"card-judge/internal/config"
	"card-judge/internal/db"
	"card-judge/internal/game"
	"card-judge/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	var conn *gorm.DB
	var store game.Store
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open()
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.Migrate(opened); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		configurePool(opened, cfg)
		conn = opened
		store = db.NewStore(opened)
		log.Println("using postgres store")
	} else {
		mem := game.NewMemStore()
		if deckID, err := game.SeedStarterDeck(mem); err != nil {
			log.Fatalf("starter deck seeding failed: %v", err)
		} else {
			log.Printf("no DATABASE_URL set; using in-memory store with starter deck deck_id=%d", deckID)
		}
		store = mem
	}

	coordinator := game.New(store, game.Settings{
		HandSize:   cfg.HandSize,
		MinPlayers: cfg.MinPlayers,
		MaxPlayers: cfg.MaxRoomPlayers,
	})
	srv := server.New(coordinator, conn, cfg)
	log.Printf("card-judge server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func configurePool(conn *gorm.DB, cfg config.Config) {
	sqlDB, err := conn.DB()
	if err != nil {
		log.Printf("failed to access sql pool: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
}
