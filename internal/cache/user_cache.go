package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/pkg/logger"
)

// UserCache 身份解析用的用户快照缓存；缓存故障只降级不报错
type UserCache interface {
	Get(ctx context.Context, id string) (*model.User, bool)
	Set(ctx context.Context, user *model.User)
	Invalidate(ctx context.Context, ids ...string)
}

// RedisUserCache 以 JSON 存放 user:<id>，密码字段不落缓存
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisUserCache{client: client, ttl: ttl}
}

func userKey(id string) string { return fmt.Sprintf("user:%s", id) }

func (c *RedisUserCache) Get(ctx context.Context, id string) (*model.User, bool) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("user cache get failed", zap.String("user", id), zap.Error(err))
		}
		return nil, false
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *RedisUserCache) Set(ctx context.Context, user *model.User) {
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userKey(user.ID), payload, c.ttl).Err(); err != nil {
		logger.Warn("user cache set failed", zap.String("user", user.ID), zap.Error(err))
	}
}

func (c *RedisUserCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("user cache invalidate failed", zap.Strings("users", ids), zap.Error(err))
	}
}

// Nop 未配置 Redis 时使用
type Nop struct{}

func (Nop) Get(context.Context, string) (*model.User, bool) { return nil, false }
func (Nop) Set(context.Context, *model.User)                {}
func (Nop) Invalidate(context.Context, ...string)           {}

// NewRedisClient 连接并 ping
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
