package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLock deletes the lock only while it still holds the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client     *redis.Client
	invoiceTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, invoiceTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		invoiceTTL: invoiceTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetInvoiceURL returns "" without error on a cache miss.
func (c *RedisCache) GetInvoiceURL(ctx context.Context, paymentID string) (string, error) {
	url, err := c.client.Get(ctx, invoiceKey(paymentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return url, nil
}

func (c *RedisCache) SetInvoiceURL(ctx context.Context, paymentID, url string) error {
	return c.client.Set(ctx, invoiceKey(paymentID), url, c.invoiceTTL).Err()
}

// AcquireCallbackLock returns the token that must be passed to ReleaseCallbackLock.
func (c *RedisCache) AcquireCallbackLock(ctx context.Context, transactionID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, callbackLockKey(transactionID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseCallbackLock is a no-op when the lock expired and was taken by another holder.
func (c *RedisCache) ReleaseCallbackLock(ctx context.Context, transactionID, token string) error {
	return releaseLock.Run(ctx, c.client, []string{callbackLockKey(transactionID)}, token).Err()
}

func invoiceKey(paymentID string) string {
	return "cache:invoice:" + paymentID
}

func callbackLockKey(transactionID string) string {
	return "lock:payment:callback:" + transactionID
}
