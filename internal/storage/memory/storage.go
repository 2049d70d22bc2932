package memory

import (
	"context"
	"sync"
	"time"

	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/clock"
	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are indexed by lowercase nickname with a secondary index from
// identifier to nickname, mirroring the uniqueness constraint of the
// persistent backends. Failure entries expire against the injected clock.
type Storage struct {
	mu sync.RWMutex

	clock      clock.Clock
	failureTTL time.Duration

	records  map[string]*model.CredentialRecord // keyed by lowercase nickname
	idIndex  map[string]string                  // identifier -> lowercase nickname
	failures map[string]failureEntry            // keyed by network origin
}

type failureEntry struct {
	name      string
	expiresAt time.Time
}

// Config holds settings for the in-memory storage
type Config struct {
	// FailureTTL is how long a failure-cache entry stays valid
	FailureTTL time.Duration
}

// DefaultConfig returns sensible defaults for in-memory storage
func DefaultConfig() Config {
	return Config{
		FailureTTL: 4 * time.Second,
	}
}

// New creates a new in-memory storage instance
func New(clk clock.Clock, cfg Config) *Storage {
	if cfg.FailureTTL == 0 {
		cfg.FailureTTL = DefaultConfig().FailureTTL
	}
	return &Storage{
		clock:      clk,
		failureTTL: cfg.FailureTTL,
		records:    make(map[string]*model.CredentialRecord),
		idIndex:    make(map[string]string),
		failures:   make(map[string]failureEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Record operations

func (s *Storage) FindByIdentifier(ctx context.Context, identifier string) (*model.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identifier == "" {
		return nil, model.ErrRecordNotFound
	}
	name, ok := s.idIndex[identifier]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	record, ok := s.records[name]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return record, nil
}

func (s *Storage) FindByLowercaseName(ctx context.Context, name string) (*model.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[name]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return record, nil
}

func (s *Storage) Insert(ctx context.Context, record *model.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Identifier != "" {
		if _, taken := s.idIndex[record.Identifier]; taken {
			return model.ErrRecordExists
		}
	}
	s.records[record.LowercaseNickname] = record
	if record.Identifier != "" {
		s.idIndex[record.Identifier] = record.LowercaseNickname
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, record *model.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Identifier != "" {
		// A nickname change moves the row; drop the old index target
		if oldName, ok := s.idIndex[record.Identifier]; ok && oldName != record.LowercaseNickname {
			delete(s.records, oldName)
		}
		s.idIndex[record.Identifier] = record.LowercaseNickname
	}
	s.records[record.LowercaseNickname] = record
	return nil
}

func (s *Storage) UpdateHashByLowercaseName(ctx context.Context, name, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[name]
	if !ok {
		return nil
	}
	record.Hash = hash
	return nil
}

// Failure cache operations

func (s *Storage) GetFailure(ctx context.Context, origin string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.failures[origin]
	if !ok {
		return "", false, nil
	}
	if s.clock.Now().After(entry.expiresAt) {
		delete(s.failures, origin)
		return "", false, nil
	}
	return entry.name, true, nil
}

func (s *Storage) PutFailure(ctx context.Context, origin, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[origin] = failureEntry{
		name:      name,
		expiresAt: s.clock.Now().Add(s.failureTTL),
	}
	return nil
}

func (s *Storage) InvalidateFailure(ctx context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, origin)
	return nil
}
