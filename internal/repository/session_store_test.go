package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
)

func newRedisStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, "avina"), server
}

func sessionRecord(tokenID, pairID string) domain.SessionRecord {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.SessionRecord{
		TokenID:   tokenID,
		PairID:    pairID,
		SubjectID: "u-1",
		Kind:      domain.SubjectKindUser,
		IssuedAt:  now,
		ExpiresAt: now.Add(15 * time.Minute),
	}
}

func TestRedisSessionStoreAccessRecords(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	require.NoError(t, store.SaveAccess(ctx, sessionRecord("t-1", "p-1"), 15*time.Minute))
	assert.True(t, server.Exists("avina:session:access:t-1"))
	assert.Equal(t, 15*time.Minute, server.TTL("avina:session:access:t-1"))

	got, err := store.GetAccess(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, sessionRecord("t-1", "p-1"), *got)

	require.NoError(t, store.RevokeAccess(ctx, "t-1"))
	assert.ErrorIs(t, store.RevokeAccess(ctx, "t-1"), ErrNotFound)

	_, err = store.GetAccess(ctx, "t-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	require.NoError(t, store.SaveAccess(ctx, sessionRecord("t-1", "p-1"), time.Minute))
	require.NoError(t, store.SaveRefresh(ctx, sessionRecord("r-1", "p-1"), 2*time.Minute))

	server.FastForward(90 * time.Second)
	_, err := store.GetAccess(ctx, "t-1")
	assert.ErrorIs(t, err, ErrNotFound)

	server.FastForward(time.Minute)
	_, err = store.ConsumeRefresh(ctx, "p-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionStoreRejectsNonPositiveTTL(t *testing.T) {
	store, _ := newRedisStore(t)

	for _, ttl := range []time.Duration{0, -time.Second} {
		assert.Error(t, store.SaveAccess(context.Background(), sessionRecord("t-1", "p-1"), ttl))
		assert.Error(t, store.SaveRefresh(context.Background(), sessionRecord("r-1", "p-1"), ttl))
	}
}

func TestRedisSessionStoreRefreshIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	require.NoError(t, store.SaveRefresh(ctx, sessionRecord("r-1", "p-1"), time.Hour))
	assert.True(t, server.Exists("avina:session:refresh:p-1"))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := store.ConsumeRefresh(ctx, "p-1")
			if err == nil {
				assert.Equal(t, "r-1", record.TokenID)
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrNotFound)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.False(t, server.Exists("avina:session:refresh:p-1"))
}

func TestRedisSessionStoreConcurrentRevoke(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	require.NoError(t, store.SaveAccess(ctx, sessionRecord("t-1", "p-1"), time.Hour))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.RevokeAccess(ctx, "t-1"); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
}

func TestRedisSessionStoreDeleteRefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	require.NoError(t, store.SaveRefresh(ctx, sessionRecord("r-1", "p-1"), time.Hour))

	require.NoError(t, store.DeleteRefresh(ctx, "p-1"))
	require.NoError(t, store.DeleteRefresh(ctx, "p-1"))

	_, err := store.ConsumeRefresh(ctx, "p-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionStoreCorruptRecord(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)
	require.NoError(t, server.Set("avina:session:access:t-1", "not-json"))

	_, err := store.GetAccess(ctx, "t-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
