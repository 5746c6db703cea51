package database

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/lifequest/backend/internal/config"
	"github.com/lifequest/backend/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	hit, err := c.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	ok, err := c.Allow(ctx, "user", 0, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestNewCacheWithoutAddr(t *testing.T) {
	assert.Nil(t, NewCache(context.Background(), "", ""))
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(&config.Config{})
	assert.Error(t, err)
}

func TestIsPostgres(t *testing.T) {
	db := testutil.SetupTestDB(t)
	assert.False(t, IsPostgres(db))
	require.NoError(t, AutoMigrate(db))
}

// scriptedRedis answers commands in-process so no server is needed.
type scriptedRedis struct {
	incr      int64
	expireErr error
	seen      []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no redis in tests")
	}
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.seen = append(h.seen, cmd.Name())
		switch c := cmd.(type) {
		case *redis.IntCmd:
			if cmd.Name() == "incr" {
				h.incr++
				c.SetVal(h.incr)
			} else {
				c.SetVal(1)
			}
		case *redis.BoolCmd:
			if h.expireErr != nil {
				c.SetErr(h.expireErr)
				return h.expireErr
			}
			c.SetVal(true)
		}
		return nil
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func scriptedCache(h *scriptedRedis) *Cache {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(h)
	return NewCacheWithClient(client)
}

func TestCacheAllow_FixedWindow(t *testing.T) {
	h := &scriptedRedis{}
	c := scriptedCache(h)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := c.Allow(ctx, "generate:u1", 2, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := c.Allow(ctx, "generate:u1", 2, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"incr", "expire", "incr", "incr"}, h.seen)
}

func TestCacheAllow_ExpireFailureDropsKey(t *testing.T) {
	h := &scriptedRedis{expireErr: errors.New("READONLY")}
	c := scriptedCache(h)

	_, err := c.Allow(context.Background(), "generate:u1", 5, time.Hour)
	require.Error(t, err)
	assert.Equal(t, []string{"incr", "expire", "del"}, h.seen)
}
