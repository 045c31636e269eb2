package idempotency

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore is the default store when no Redis address is configured.
// Records expire lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	locks   map[string]time.Time
	records map[string]memoryRecord
	log     *slog.Logger
}

type memoryRecord struct {
	record    Record
	expiresAt time.Time
}

func NewMemoryStore(log *slog.Logger) Store {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryStore{
		locks:   make(map[string]time.Time),
		records: make(map[string]memoryRecord),
		log:     log,
	}
}

func (s *MemoryStore) Lock(_ context.Context, key string, lockTTL time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, held := s.locks[key]; held && now.Before(expiry) {
		return false, nil
	}

	s.locks[key] = now.Add(lockTTL)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[key]
	if !ok {
		return nil, nil
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.records, key)
		return nil, nil
	}

	record := entry.record
	return &record, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, record *Record, ttl time.Duration) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = memoryRecord{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) ReleaseLock(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}
