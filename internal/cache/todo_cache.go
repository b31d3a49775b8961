package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/Okano804/ChatTODO/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList    = "todo:list"
	keyOverdue = "todo:overdue"
)

// TodoCache caches the todo list and the overdue view in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on miss.
func (c *TodoCache) GetList(ctx context.Context) ([]dom.Todo, error) {
	return c.get(ctx, keyList)
}

// SetList stores the list in cache.
func (c *TodoCache) SetList(ctx context.Context, list []dom.Todo) error {
	return c.set(ctx, keyList, list)
}

// GetOverdue returns the cached overdue list or nil on miss.
func (c *TodoCache) GetOverdue(ctx context.Context) ([]dom.Todo, error) {
	return c.get(ctx, keyOverdue)
}

// SetOverdue stores the overdue list in cache.
func (c *TodoCache) SetOverdue(ctx context.Context, list []dom.Todo) error {
	return c.set(ctx, keyOverdue, list)
}

// InvalidateAll drops every cached view. Called after every write,
// including notification flag writes.
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList, keyOverdue).Err()
}

func (c *TodoCache) get(ctx context.Context, key string) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *TodoCache) set(ctx context.Context, key string, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
