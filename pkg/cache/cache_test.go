package cache_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/ragserver/pkg/cache"
)

func TestSetThenGet_ServedFromLocalLayer(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectSet("k", "v", time.Minute).SetVal("OK")

	c := cache.NewCacheWithClient(client)

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))

	// no ExpectGet: the value must come from the local layer
	value, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestGet_FallsThroughToRedis(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("remote").SetVal("from-redis")

	c := cache.NewCacheWithClient(client)

	value, err := c.Get(context.Background(), "remote")
	require.NoError(t, err)
	assert.Equal(t, "from-redis", value)
}

func TestDelete_RemovesBothLayers(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectSet("k", "v", time.Minute).SetVal("OK")
	redisMock.ExpectDel("k").SetVal(1)
	redisMock.ExpectGet("k").RedisNil()

	c := cache.NewCacheWithClient(client)

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, c.Delete(context.Background(), "k"))

	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestDeleteByPattern_SweepsLocalLayerWhenRedisKeyExpired(t *testing.T) {
	key := cache.QueryKey("stale question", "5", "0.7")

	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectSet(key, "cached answer", time.Second).SetVal("OK")
	// the Redis copy already expired: SCAN finds nothing to delete
	redisMock.ExpectScan(0, "rag_query:*", 100).SetVal([]string{}, 0)
	redisMock.ExpectGet(key).RedisNil()

	c := cache.NewCacheWithClient(client)

	require.NoError(t, c.Set(context.Background(), key, "cached answer", time.Second))

	deleted, err := c.DeleteByPattern(context.Background(), "rag_query:*")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	// the local copy must not outlive the invalidation
	_, err = c.Get(context.Background(), key)
	assert.Error(t, err)
}

func TestGet_LocalEntryExpiresWithItsTTL(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	redisMock.ExpectSet("k", "v", time.Millisecond).SetVal("OK")
	redisMock.ExpectGet("k").RedisNil()

	c := cache.NewCacheWithClient(client)

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestQueryKey_DistinctPerParameterTuple(t *testing.T) {
	a := cache.QueryKey("what is raft", "5", "0.7")
	b := cache.QueryKey("what is raft", "5", "0.8")
	c := cache.QueryKey("what is raft", "5", "0.7")

	assert.True(t, strings.HasPrefix(a, "rag_query:"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)

	// joined parts must not collide with differently-split parts
	assert.NotEqual(t, cache.QueryKey("ab", "c"), cache.QueryKey("a", "bc"))
}
