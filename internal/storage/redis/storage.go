package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CuteLittleSky/LimboAuth/internal/model"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are JSON values keyed by lowercase nickname with an
// identifier -> nickname index; failure-cache entries are plain strings
// with a key TTL.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Record operations

func (s *Storage) FindByIdentifier(ctx context.Context, identifier string) (*model.CredentialRecord, error) {
	if identifier == "" {
		return nil, model.ErrRecordNotFound
	}

	name, err := s.client.Get(ctx, identifierIndexKey(identifier)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}

	return s.FindByLowercaseName(ctx, name)
}

func (s *Storage) FindByLowercaseName(ctx context.Context, name string) (*model.CredentialRecord, error) {
	data, err := s.client.Get(ctx, recordKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}

	var record model.CredentialRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) Insert(ctx context.Context, record *model.CredentialRecord) error {
	if record.Identifier != "" {
		taken, err := s.client.Exists(ctx, identifierIndexKey(record.Identifier)).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return model.ErrRecordExists
		}
	}
	return s.write(ctx, record, "")
}

func (s *Storage) Update(ctx context.Context, record *model.CredentialRecord) error {
	// A nickname change moves the row; find the old one via the index
	oldName := ""
	if record.Identifier != "" {
		name, err := s.client.Get(ctx, identifierIndexKey(record.Identifier)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if name != record.LowercaseNickname {
			oldName = name
		}
	}
	return s.write(ctx, record, oldName)
}

// write stores the record and its identifier index, dropping the row at
// oldName when the nickname moved.
func (s *Storage) write(ctx context.Context, record *model.CredentialRecord, oldName string) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(record.LowercaseNickname), data, 0)
	if record.Identifier != "" {
		pipe.Set(ctx, identifierIndexKey(record.Identifier), record.LowercaseNickname, 0)
	}
	if oldName != "" {
		pipe.Del(ctx, recordKey(oldName))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateHashByLowercaseName(ctx context.Context, name, hash string) error {
	record, err := s.FindByLowercaseName(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	record.Hash = hash

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, recordKey(name), data, 0).Err()
}

// Failure cache operations

func (s *Storage) GetFailure(ctx context.Context, origin string) (string, bool, error) {
	name, err := s.client.Get(ctx, failureKey(origin)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (s *Storage) PutFailure(ctx context.Context, origin, name string) error {
	return s.client.Set(ctx, failureKey(origin), name, s.cfg.FailureTTL).Err()
}

func (s *Storage) InvalidateFailure(ctx context.Context, origin string) error {
	return s.client.Del(ctx, failureKey(origin)).Err()
}
