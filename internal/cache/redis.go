package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	packagesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packagesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packagesTTL: packagesTTL,
	}
}

func (c *RedisCache) GetPackages(ctx context.Context) ([]domain.Package, error) {
	data, err := c.client.Get(ctx, packagesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var packages []domain.Package
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (c *RedisCache) SetPackages(ctx context.Context, packages []domain.Package) error {
	payload, err := json.Marshal(packages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packagesKey(), payload, c.packagesTTL).Err()
}

func (c *RedisCache) InvalidatePackages(ctx context.Context) error {
	return c.client.Del(ctx, packagesKey()).Err()
}

// AcquireConfirmationLock dedupes provider confirmation callbacks. The first
// caller for a given provider reference wins; replays inside the TTL see
// false and skip straight to the idempotent row update.
func (c *RedisCache) AcquireConfirmationLock(ctx context.Context, externalRef string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, confirmationKey(externalRef), "processing", ttl).Result()
}

func (c *RedisCache) ReleaseConfirmationLock(ctx context.Context, externalRef string) error {
	return c.client.Del(ctx, confirmationKey(externalRef)).Err()
}

func packagesKey() string {
	return "cache:packages"
}

func confirmationKey(externalRef string) string {
	return fmt.Sprintf("lock:payment:confirm:%s", externalRef)
}
