package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps codes in process memory. Codes are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = entry{Code: code, ExpiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(email)
	if !ok || !codesEqual(e.Code, code) {
		return false, nil
	}
	e.Verified = true
	s.entries[email] = e
	return true, nil
}

func (s *MemoryStore) Verified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(email)
	return ok && e.Verified, nil
}

func (s *MemoryStore) Clear(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}

// live returns the entry for email, evicting it if expired. Callers hold mu.
func (s *MemoryStore) live(email string) (entry, bool) {
	e, ok := s.entries[email]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.ExpiresAt) {
		delete(s.entries, email)
		return entry{}, false
	}
	return e, true
}
