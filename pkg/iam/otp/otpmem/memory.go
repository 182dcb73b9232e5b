package otpmem

import (
	"context"
	"sync"
	"time"

	"github.com/tambo-labs/tambo/pkg/iam/otp"
)

// MemoryStore is an in-process otp.Store. A single mutex serializes every
// read-modify-write, which gives the per-key atomicity Consume requires at
// the scale this store is meant for. Expired entries are dropped lazily on
// lookup; there is no background sweeper.
type MemoryStore struct {
	mu       sync.Mutex
	codes    map[string]otp.Entry
	verified map[string]time.Time // email -> marker expiry
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[string]otp.Entry),
		verified: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, email string, entry otp.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = entry
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, email, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return false, nil
	}
	if entry.IsExpired(now) {
		delete(s.codes, email)
		return false, nil
	}
	if !entry.Matches(code) {
		return false, nil
	}

	delete(s.codes, email)
	return true, nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[email] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) ConsumeVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.verified[email]
	if !ok {
		return false, nil
	}
	delete(s.verified, email)
	if !s.now().Before(expiry) {
		return false, nil
	}
	return true, nil
}
