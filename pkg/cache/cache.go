package cache

import (
	"context"
	"crypto/md5" // #nosec G501 - cache key derivation, not security
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ragstack/ragserver/pkg/common"
)

const QueryKeyPattern = "rag_query:%s"

// Cache wraps Redis with a process-local read-through layer. Answers served
// from the local map never hit the network; Set and Delete keep both layers in
// step, and local entries expire on the same TTL as their Redis key.
type Cache struct {
	client     *redis.Client
	localCache sync.Map
}

type localEntry struct {
	value     string
	expiresAt time.Time
}

func (e localEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

func NewCache(config common.CacheConfig) (*Cache, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	client := redis.NewClient(options)

	return &Cache{client: client}, nil
}

// NewCacheWithClient builds a Cache over an existing client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := c.localCache.Load(key); ok {
		entry, ok := value.(localEntry)
		if !ok {
			return "", fmt.Errorf("unexpected cache value for %q", key)
		}
		if entry.expired() {
			c.localCache.Delete(key)
		} else {
			return entry.value, nil
		}
	}
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return err
	}
	entry := localEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	c.localCache.Store(key, entry)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return err
	}
	c.localCache.Delete(key)
	return nil
}

// DeleteByPattern removes every key matching the glob pattern, walking the
// keyspace with SCAN so large instances are never blocked. The local layer is
// swept independently of SCAN: a key whose Redis copy already expired must
// still leave the local map.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	c.localCache.Range(func(k, _ interface{}) bool {
		key, ok := k.(string)
		if !ok {
			c.localCache.Delete(k)
			return true
		}
		if matched, err := path.Match(pattern, key); err == nil && matched {
			c.localCache.Delete(k)
		}
		return true
	})

	var deleted int
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("error scanning keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("error deleting keys: %w", err)
			}
			for _, key := range keys {
				c.localCache.Delete(key)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// QueryKey derives the cache key for a query and its parameters. Responses are
// only replayed for an identical parameter tuple.
func QueryKey(parts ...string) string {
	h := md5.New() // #nosec G401
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf(QueryKeyPattern, hex.EncodeToString(h.Sum(nil)))
}
