// internal/otp/store.go
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL bounds how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

type entry struct {
	code      string
	expiresAt time.Time
}

// Store is an explicitly owned, time-bounded one-time-code store keyed by
// principal. Codes are evicted on successful validation, on expiry, and on
// overwrite by a newer code. It is injected into the handlers that gate
// transfers and signups; the ledger core never sees it.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time // overridable in tests

	codes map[string]entry
}

// NewStore creates a Store with the given TTL; ttl <= 0 falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		codes: make(map[string]entry),
	}
}

// Generate issues a fresh 6-digit code for the principal, replacing any code
// issued earlier.
func (s *Store) Generate(principal string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[principal] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Validate reports whether code matches the live code for the principal. A
// matching code is consumed immediately; an expired code is evicted and
// rejected.
func (s *Store) Validate(principal, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[principal]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.codes, principal)
		return false
	}
	if e.code != code {
		return false
	}
	delete(s.codes, principal)
	return true
}

// Len reports how many codes are currently held, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
