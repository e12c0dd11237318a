package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"healwise/internal/models/db_models"
)

const (
	dailyKeyTTL   = 48 * time.Hour
	monthlyKeyTTL = 32 * 24 * time.Hour
)

// RedisUsageRepository keeps one key per account, bucket and period. A new period simply
// addresses a fresh key, which is how rollover happens here; stale keys expire.
type RedisUsageRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisUsageRepository(client redis.UniversalClient, prefix string) *RedisUsageRepository {
	if prefix == "" {
		prefix = "healwise:usage"
	}
	return &RedisUsageRepository{client: client, prefix: prefix}
}

func (r *RedisUsageRepository) key(accountID string, bucket db_models.UsageBucket, periodKey string) string {
	return fmt.Sprintf("%s:%s:%s:%s", r.prefix, accountID, bucket, periodKey)
}

func (r *RedisUsageRepository) Read(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string) (db_models.UsageCounter, error) {
	n, err := r.client.Get(ctx, r.key(accountID, bucket, periodKey)).Int()
	if errors.Is(err, redis.Nil) {
		return db_models.UsageCounter{Count: 0, PeriodKey: periodKey}, nil
	}
	if err != nil {
		return db_models.UsageCounter{}, fmt.Errorf("read usage counter: %w", err)
	}
	return db_models.UsageCounter{Count: n, PeriodKey: periodKey}, nil
}

func (r *RedisUsageRepository) Commit(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string, amount int) (db_models.UsageCounter, error) {
	key := r.key(accountID, bucket, periodKey)
	ttl := dailyKeyTTL
	if len(periodKey) == len("2006-01") {
		ttl = monthlyKeyTTL
	}

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, int64(amount))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return db_models.UsageCounter{}, fmt.Errorf("commit usage counter: %w", err)
	}
	return db_models.UsageCounter{Count: int(incr.Val()), PeriodKey: periodKey}, nil
}
