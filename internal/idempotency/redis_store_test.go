package idempotency

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, testLogger()), mr
}

func TestRedisStoreLockIsExclusive(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	locked, err := store.Lock(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = store.Lock(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, locked, "second lock on the same key must fail")

	require.NoError(t, store.ReleaseLock(ctx, "k1"))

	locked, err = store.Lock(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked, "released lock is available again")
}

func TestRedisStoreLockExpires(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	locked, err := store.Lock(ctx, "k1", time.Second)
	require.NoError(t, err)
	require.True(t, locked)

	mr.FastForward(2 * time.Second)

	locked, err = store.Lock(ctx, "k1", time.Second)
	require.NoError(t, err)
	assert.True(t, locked, "expired lock must be reacquirable")
}

func TestRedisStoreRecordRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	record, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, record)

	require.NoError(t, store.Set(ctx, "k1", &Record{Status: StatusCompleted}, time.Hour))

	record, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, StatusCompleted, record.Status)
}

func TestRedisStoreRecordExpires(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", &Record{Status: StatusCompleted}, time.Second))

	mr.FastForward(2 * time.Second)

	record, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestManagerWithRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	m := NewManager(store, testLogger())

	calls := 0
	op := func(context.Context) error {
		calls++
		return nil
	}

	result, err := m.Execute(context.Background(), "cb-1", time.Hour, op)
	require.NoError(t, err)
	assert.False(t, result.FromCache)

	result, err = m.Execute(context.Background(), "cb-1", time.Hour, op)
	require.NoError(t, err)
	assert.True(t, result.FromCache)

	assert.Equal(t, 1, calls)
}
