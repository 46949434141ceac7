// Package auth covers the email verification collaborator: issuing
// and checking short numeric codes, the client-side verification flow
// state machine, and the persisted session.
package auth

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrNoCode       = errors.New("no verification code found for this email")
	ErrCodeMismatch = errors.New("invalid verification code")
	ErrCodeExpired  = errors.New("verification code expired")
)

type codeEntry struct {
	code      string
	expiresAt time.Time
}

// CodeStore issues and validates single-use verification codes. It is
// an injected dependency with its own lifecycle, never a process-wide
// map.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]codeEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		codes: make(map[string]codeEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue generates a 6-digit code for the email, replacing any code
// previously issued to it.
func (s *CodeStore) Issue(email string) (string, error) {
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	s.mu.Lock()
	s.codes[email] = codeEntry{code: code, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	// Demo behavior: the code is logged instead of emailed.
	log.Info().Str("email", email).Str("code", code).Msg("Verification code issued")

	return code, nil
}

// Verify checks a submitted (email, code) pair. A matching code is
// consumed; expired codes are dropped.
func (s *CodeStore) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return ErrNoCode
	}
	if s.now().After(entry.expiresAt) {
		delete(s.codes, email)
		return ErrCodeExpired
	}
	if entry.code != code {
		return ErrCodeMismatch
	}
	delete(s.codes, email)
	return nil
}
