package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
)

type sessionEntry struct {
	record    domain.SessionRecord
	expiresAt time.Time
}

// SessionStore mirrors the Redis session store semantics with lazy expiry.
type SessionStore struct {
	mu      sync.Mutex
	now     func() time.Time
	access  map[string]sessionEntry
	refresh map[string]sessionEntry
}

// NewSessionStore returns an empty store using the wall clock.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		now:     time.Now,
		access:  make(map[string]sessionEntry),
		refresh: make(map[string]sessionEntry),
	}
}

// WithClock overrides the time source used for expiry.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) SaveAccess(_ context.Context, record domain.SessionRecord, ttl time.Duration) error {
	return s.save(s.access, record.TokenID, record, ttl)
}

func (s *SessionStore) SaveRefresh(_ context.Context, record domain.SessionRecord, ttl time.Duration) error {
	return s.save(s.refresh, record.PairID, record, ttl)
}

func (s *SessionStore) save(bucket map[string]sessionEntry, key string, record domain.SessionRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket[key] = sessionEntry{record: record, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetAccess(_ context.Context, tokenID string) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(s.access, tokenID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	record := entry.record
	return &record, nil
}

func (s *SessionStore) RevokeAccess(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(s.access, tokenID); !ok {
		return repository.ErrNotFound
	}
	delete(s.access, tokenID)
	return nil
}

func (s *SessionStore) ConsumeRefresh(_ context.Context, pairID string) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(s.refresh, pairID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.refresh, pairID)
	record := entry.record
	return &record, nil
}

func (s *SessionStore) DeleteRefresh(_ context.Context, pairID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, pairID)
	return nil
}

// live must be called with mu held; it evicts the entry when expired.
func (s *SessionStore) live(bucket map[string]sessionEntry, key string) (sessionEntry, bool) {
	entry, ok := bucket[key]
	if !ok {
		return sessionEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(bucket, key)
		return sessionEntry{}, false
	}
	return entry, true
}

var _ repository.SessionStore = (*SessionStore)(nil)
