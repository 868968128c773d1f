package cache

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedis_BypassedWhenUnavailable(t *testing.T) {
	c := NewRedisWithClient(nil, log.New(io.Discard, "", 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	var out map[string]int
	hit, err := c.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, c.Delete(ctx, "k"))
	require.Error(t, c.Ping(ctx))
	require.NoError(t, c.Close())
}

func TestRedis_ErrorsSurfaceWhenServerGone(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisWithClient(client, log.New(io.Discard, "", 0))
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	var out map[string]int
	hit, err := c.GetJSON(ctx, "k", &out)
	require.Error(t, err)
	require.False(t, hit)
	require.Error(t, c.SetJSON(ctx, "k", 1, 0))
}
