package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Ayush10/cal-chatbot/store"
)

const sessionKey = "auth"

type sessionData struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Email           string `json:"email"`
}

// SessionStore holds the verified-email session, mirrored to the KV
// store under a single key. It satisfies chat.SessionEmails.
type SessionStore struct {
	mu   sync.Mutex
	kv   store.KV
	data sessionData
}

func NewSessionStore(kv store.KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Load restores the persisted session. A corrupt entry is deleted and
// the session starts signed out.
func (s *SessionStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("Error reading session store")
		}
		return
	}
	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn().Err(err).Msg("Discarding corrupt session entry")
		if err := s.kv.Delete(ctx, sessionKey); err != nil {
			log.Error().Err(err).Msg("Error deleting corrupt session entry")
		}
		return
	}
	if data.IsAuthenticated && data.Email != "" {
		s.data = data
	}
}

// SetAuthenticated records a verified email and persists it.
func (s *SessionStore) SetAuthenticated(ctx context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = sessionData{IsAuthenticated: true, Email: email}
	raw, err := json.Marshal(s.data)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling session")
		return
	}
	if err := s.kv.Set(ctx, sessionKey, raw); err != nil {
		log.Error().Err(err).Msg("Error persisting session")
	}
}

// Logout clears the session.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = sessionData{}
	if err := s.kv.Delete(ctx, sessionKey); err != nil {
		log.Error().Err(err).Msg("Error clearing session")
	}
}

// Email returns the authenticated email, or "" when signed out.
func (s *SessionStore) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.data.IsAuthenticated {
		return ""
	}
	return s.data.Email
}
