package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"personal-apis/internal/domain"
)

const keyPrefix = "tasks:owner:"

// TaskCache 每个用户的任务列表缓存。nil 接收者 = 关闭缓存，直接回源。
// 任何写操作后整键失效，读路径用 singleflight 合并回源。
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

func New(addr, pass string, db int, ttl time.Duration) *TaskCache {
	return &TaskCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

// Ping verifies the redis connection.
func (c *TaskCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func ownerKey(ownerID uint) string {
	return keyPrefix + strconv.FormatUint(uint64(ownerID), 10)
}

// List returns the cached task list for ownerID, loading through `load`
// on a miss. Cache failures fall back to the loader silently: the
// repository stays the source of truth.
func (c *TaskCache) List(ctx context.Context, ownerID uint, load func(context.Context) ([]domain.Task, error)) ([]domain.Task, error) {
	if c == nil {
		return load(ctx)
	}
	key := ownerKey(ownerID)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var list []domain.Task
		if json.Unmarshal(b, &list) == nil {
			return list, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		list, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if b, e := json.Marshal(list); e == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Task), nil
}

// Invalidate drops the cached list after any task write.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID uint) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, ownerKey(ownerID)).Err()
}

// Close releases the redis client.
func (c *TaskCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
