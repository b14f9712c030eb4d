package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"card-judge/internal/db"

	"gorm.io/gorm"
)

// sessionStore hands every browser a stable opaque id via cookie; that id
// is the currentUserId the game core keys room memberships on. Sessions
// persist to the database when one is configured and fall back to memory
// otherwise.
type sessionStore struct {
	db       *gorm.DB
	mu       sync.Mutex
	sessions map[string]string
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		sessions: make(map[string]string),
	}
}

// UserID returns the caller's stable session id, minting one if needed.
func (s *sessionStore) UserID(w http.ResponseWriter, r *http.Request) string {
	return s.ensureSessionID(w, r)
}

func (s *sessionStore) SetName(r *http.Request, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	if s.db == nil {
		s.mu.Lock()
		s.sessions[cookie.Value] = name
		s.mu.Unlock()
		return
	}
	record := db.Session{
		ID:         cookie.Value,
		PlayerName: name,
	}
	_ = s.db.Save(&record).Error
}

func (s *sessionStore) GetName(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[cookie.Value]
	}
	var record db.Session
	if err := s.db.Where("id = ?", cookie.Value).First(&record).Error; err != nil {
		return ""
	}
	return record.PlayerName
}

const sessionCookieName = "cj_session"

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := newSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Make the id visible to the rest of this request too.
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
	return id
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "00000000000000000000000000000000"
	}
	return fmt.Sprintf("%x", buf)
}
