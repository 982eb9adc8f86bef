package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/footrule/core"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestNewRedisStore_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.Equal(t, "redis", s.Name())
	require.NoError(t, s.Close())
}

func TestRedisStore_KV(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrStoreNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Set(ctx, "ttl", []byte("v"), 1))
	assert.Equal(t, time.Second, mr.TTL("ttl"))
	mr.FastForward(2 * time.Second)
	_, err = s.Get(ctx, "ttl")
	assert.True(t, core.IsNotFound(err))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrStoreNotFound)
}

func TestRedisStore_ZSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	require.NoError(t, s.ZAdd(ctx, "metric:ctr", 0.1, "A"))
	require.NoError(t, s.ZAdd(ctx, "metric:ctr", 0.3, "B"))
	require.NoError(t, s.ZAdd(ctx, "metric:ctr", 0.2, "C"))
	require.NoError(t, s.ZAdd(ctx, "metric:ctr", 0.3, "D"))

	all, err := s.ZRange(ctx, "metric:ctr", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "B", "C", "A"}, all, "ties are ordered by member, descending")

	score, err := s.ZScore(ctx, "metric:ctr", "C")
	require.NoError(t, err)
	assert.Equal(t, 0.2, score)

	_, err = s.ZScore(ctx, "metric:ctr", "Z")
	assert.True(t, core.IsNotFound(err))
	_, err = s.ZScore(ctx, "metric:missing", "A")
	assert.ErrorIs(t, err, core.ErrStoreNotFound)
}

// MemoryStore 与 RedisStore 的 ZRange 下标规则保持一致。
func TestZRange_MatchesRedis(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedisStore(t)
	ms := NewMemoryStore()

	for member, score := range map[string]float64{"a": 1, "b": 2, "c": 3, "d": 2} {
		require.NoError(t, rs.ZAdd(ctx, "z", score, member))
		require.NoError(t, ms.ZAdd(ctx, "z", score, member))
	}

	ranges := [][2]int64{
		{0, -1}, {0, 1}, {1, 2}, {-2, -1}, {-10, 1}, {0, -3}, {2, 100}, {3, 1}, {5, 9}, {0, -10},
	}
	for _, r := range ranges {
		want, err := rs.ZRange(ctx, "z", r[0], r[1])
		require.NoError(t, err)
		got, err := ms.ZRange(ctx, "z", r[0], r[1])
		require.NoError(t, err)
		if len(want) == 0 {
			assert.Empty(t, got, "range %v", r)
			continue
		}
		assert.Equal(t, want, got, "range %v", r)
	}
}
