package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocationCache remembers the detected location of a session so repeated
// lookups stay stable.
type LocationCache interface {
	// GetLocation returns the cached location and whether it was present.
	GetLocation(ctx context.Context, sessionID string) (string, bool, error)
	SetLocation(ctx context.Context, sessionID, location string) error
	// DeleteLocation drops the entry of an ended session.
	DeleteLocation(ctx context.Context, sessionID string) error
}

func locationKey(sessionID string) string {
	return "session:" + sessionID + ":location"
}

// RedisLocationCache implements LocationCache on Redis with a TTL per entry
type RedisLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocationCache creates a new RedisLocationCache
func NewRedisLocationCache(client *redis.Client, ttl time.Duration) *RedisLocationCache {
	return &RedisLocationCache{client: client, ttl: ttl}
}

func (c *RedisLocationCache) GetLocation(ctx context.Context, sessionID string) (string, bool, error) {
	loc, err := c.client.Get(ctx, locationKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return loc, true, nil
}

func (c *RedisLocationCache) SetLocation(ctx context.Context, sessionID, location string) error {
	return c.client.Set(ctx, locationKey(sessionID), location, c.ttl).Err()
}

func (c *RedisLocationCache) DeleteLocation(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, locationKey(sessionID)).Err()
}

// MemoryLocationCache is the in-process LocationCache. Entries have no TTL;
// they live until DeleteLocation is called for the session.
type MemoryLocationCache struct {
	mu   sync.RWMutex
	locs map[string]string
}

func NewMemoryLocationCache() *MemoryLocationCache {
	return &MemoryLocationCache{locs: make(map[string]string)}
}

func (c *MemoryLocationCache) GetLocation(_ context.Context, sessionID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.locs[sessionID]
	return loc, ok, nil
}

func (c *MemoryLocationCache) SetLocation(_ context.Context, sessionID, location string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locs[sessionID] = location
	return nil
}

func (c *MemoryLocationCache) DeleteLocation(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locs, sessionID)
	return nil
}

// Len returns the number of cached sessions.
func (c *MemoryLocationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.locs)
}
