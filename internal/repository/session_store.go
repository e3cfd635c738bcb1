package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

// SessionStore keeps one record per issued token. Access records are keyed by
// the token id, refresh records by the pair id shared with their access token.
// A token whose record is gone is treated as revoked even if its signature and
// expiry are still valid.
type SessionStore interface {
	SaveAccess(ctx context.Context, record domain.SessionRecord, ttl time.Duration) error
	SaveRefresh(ctx context.Context, record domain.SessionRecord, ttl time.Duration) error
	GetAccess(ctx context.Context, tokenID string) (*domain.SessionRecord, error)
	// RevokeAccess deletes the access record, returning ErrNotFound when nothing was deleted.
	RevokeAccess(ctx context.Context, tokenID string) error
	// ConsumeRefresh atomically reads and deletes the refresh record.
	ConsumeRefresh(ctx context.Context, pairID string) (*domain.SessionRecord, error)
	DeleteRefresh(ctx context.Context, pairID string) error
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore stores session records under "<prefix>:session:<class>:<id>".
func NewRedisSessionStore(client *redis.Client, prefix string) SessionStore {
	return &redisSessionStore{client: client, prefix: prefix}
}

func (s *redisSessionStore) key(class, tokenID string) string {
	return fmt.Sprintf("%s:session:%s:%s", s.prefix, class, tokenID)
}

func (s *redisSessionStore) SaveAccess(ctx context.Context, record domain.SessionRecord, ttl time.Duration) error {
	return s.save(ctx, s.key("access", record.TokenID), record, ttl)
}

func (s *redisSessionStore) SaveRefresh(ctx context.Context, record domain.SessionRecord, ttl time.Duration) error {
	return s.save(ctx, s.key("refresh", record.PairID), record, ttl)
}

func (s *redisSessionStore) save(ctx context.Context, key string, record domain.SessionRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *redisSessionStore) GetAccess(ctx context.Context, tokenID string) (*domain.SessionRecord, error) {
	payload, err := s.client.Get(ctx, s.key("access", tokenID)).Bytes()
	return decodeRecord(payload, err)
}

func (s *redisSessionStore) RevokeAccess(ctx context.Context, tokenID string) error {
	deleted, err := s.client.Del(ctx, s.key("access", tokenID)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *redisSessionStore) ConsumeRefresh(ctx context.Context, pairID string) (*domain.SessionRecord, error) {
	payload, err := s.client.GetDel(ctx, s.key("refresh", pairID)).Bytes()
	return decodeRecord(payload, err)
}

func (s *redisSessionStore) DeleteRefresh(ctx context.Context, pairID string) error {
	return s.client.Del(ctx, s.key("refresh", pairID)).Err()
}

func decodeRecord(payload []byte, err error) (*domain.SessionRecord, error) {
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var record domain.SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	return &record, nil
}
