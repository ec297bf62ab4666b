package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openflag/internal/domain/flags"
	"openflag/pkg/logger"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, 30*time.Second, logger.Nop()), mr
}

func TestRedis_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	_, ok := r.Get(ctx, "missing")
	assert.False(t, ok)

	flag := flags.NewFlag("cfg", "Config", flags.TypeJSON, `{"a":1}`, true)
	r.Set(ctx, flag)

	// Entries live under the namespaced key with a TTL.
	require.True(t, mr.Exists("openflag:flag:cfg"))
	assert.Greater(t, mr.TTL("openflag:flag:cfg"), time.Duration(0))

	got, ok := r.Get(ctx, "cfg")
	require.True(t, ok)
	assert.Equal(t, flag.Key, got.Key)
	assert.Equal(t, flag.Value, got.Value)

	r.Delete(ctx, "cfg")
	_, ok = r.Get(ctx, "cfg")
	assert.False(t, ok)
}

func TestRedis_ExpiredEntryMisses(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	r.Set(ctx, flags.NewFlag("k", "K", flags.TypeString, "v", true))
	mr.FastForward(31 * time.Second)

	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedis_CorruptPayloadReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	require.NoError(t, mr.Set("openflag:flag:bad", "{not json"))

	_, ok := r.Get(ctx, "bad")
	assert.False(t, ok)
}

func TestRedis_ClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	r.Set(ctx, flags.NewFlag("a", "A", flags.TypeString, "1", true))
	r.Set(ctx, flags.NewFlag("b", "B", flags.TypeString, "2", true))
	require.NoError(t, mr.Set("unrelated", "keep"))

	r.Clear(ctx)

	_, ok := r.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = r.Get(ctx, "b")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestNew_FallsBackToMemory(t *testing.T) {
	ctx := context.Background()

	// No URL configured.
	store := New(ctx, Config{TTL: time.Second}, logger.Nop())
	_, isMemory := store.(*Memory)
	assert.True(t, isMemory)

	// Unreachable Redis.
	store = New(ctx, Config{RedisURL: "redis://127.0.0.1:1", TTL: time.Second}, logger.Nop())
	_, isMemory = store.(*Memory)
	assert.True(t, isMemory)
}

func TestNew_UsesRedisWhenReachable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store := New(ctx, Config{RedisURL: "redis://" + mr.Addr(), TTL: time.Second}, logger.Nop())
	_, isRedis := store.(*Redis)
	assert.True(t, isRedis)
}
