package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/UMDhodi/Obsidian/internal/consultation"
	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultTTL = 15 * time.Minute

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = DefaultTTL
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

// RedisCache stores consultation answers as JSON under consultation:<key>
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

var _ consultation.Cache = (*RedisCache)(nil)

func (r *RedisCache) Get(ctx context.Context, key string) (*domain.ConsultationResponse, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, consultation.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var resp domain.ConsultationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		r.evict(ctx, key)
		return nil, fmt.Errorf("unmarshal consultation failed: %w", err)
	}
	if !resp.Complete() {
		r.evict(ctx, key)
		return nil, consultation.ErrCacheMiss
	}
	return &resp, nil
}

// evict drops an entry that can never be served; a failure only delays cleanup until the TTL
func (r *RedisCache) evict(ctx context.Context, key string) {
	if err := r.Delete(ctx, key); err != nil {
		zap.L().Warn("evict consultation entry failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *RedisCache) Set(ctx context.Context, key string, resp *domain.ConsultationResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal consultation failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(key), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("consultation:%s", key)
}
