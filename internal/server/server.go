package server

import (
	"net/http"

	"card-judge/internal/config"
	"card-judge/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	game     *game.Game
	cfg      config.Config
	sessions *sessionStore
	limiter  *rateLimiter
}

// New wires the coordinator to its HTTP surface. conn may be nil, in which
// case sessions live in memory alongside whatever store the caller gave
// the coordinator.
func New(coordinator *game.Game, conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		game:     coordinator,
		cfg:      cfg,
		sessions: newSessionStore(conn),
		limiter:  newRateLimiter(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("POST /api/rooms/{id}/join", s.handleJoinRoom)
	mux.HandleFunc("POST /api/rooms/{id}/start", s.handleStartMatch)
	mux.HandleFunc("GET /api/rooms/{id}/state", s.handleRoomState)
	mux.HandleFunc("POST /api/rooms/{id}/submissions", s.handleSubmit)
	mux.HandleFunc("POST /api/rooms/{id}/winner", s.handleResolveWinner)
	return mux
}
