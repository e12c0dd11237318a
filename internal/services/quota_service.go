package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/response_models"
	"healwise/pkg/utils"
)

// QuotaStore persists one counter per account and bucket. Implementations apply lazy
// rollover on both calls: a stored key that differs from periodKey is reset to zero first.
type QuotaStore interface {
	Read(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string) (db_models.UsageCounter, error)
	Commit(ctx context.Context, accountID string, bucket db_models.UsageBucket, periodKey string, amount int) (db_models.UsageCounter, error)
}

type QuotaServiceInterface interface {
	ReadCounter(ctx context.Context, accountID string, bucket db_models.UsageBucket) (db_models.UsageCounter, error)
	Commit(ctx context.Context, accountID string, bucket db_models.UsageBucket, amount int) (db_models.UsageCounter, error)
	Usage(ctx context.Context, accountID string, tier db_models.SubscriptionTier) (response_models.UsageResponse, error)
}

type QuotaTracker struct {
	store  QuotaStore
	now    func() time.Time
	logger *zap.Logger
}

func NewQuotaService(store QuotaStore, logger *zap.Logger) QuotaServiceInterface {
	return NewQuotaTracker(store, time.Now, logger)
}

func NewQuotaTracker(store QuotaStore, now func() time.Time, logger *zap.Logger) *QuotaTracker {
	if now == nil {
		now = time.Now
	}
	return &QuotaTracker{store: store, now: now, logger: logger.Named("quota")}
}

func (q *QuotaTracker) periodKey(bucket db_models.UsageBucket) string {
	if BucketPeriod(bucket) == PeriodMonthly {
		return utils.MonthlyPeriodKey(q.now())
	}
	return utils.DailyPeriodKey(q.now())
}

func (q *QuotaTracker) ReadCounter(ctx context.Context, accountID string, bucket db_models.UsageBucket) (db_models.UsageCounter, error) {
	return q.store.Read(ctx, accountID, bucket, q.periodKey(bucket))
}

func (q *QuotaTracker) Commit(ctx context.Context, accountID string, bucket db_models.UsageBucket, amount int) (db_models.UsageCounter, error) {
	c, err := q.store.Commit(ctx, accountID, bucket, q.periodKey(bucket), amount)
	if err != nil {
		return db_models.UsageCounter{}, err
	}
	q.logger.Debug("usage committed",
		zap.String("account_id", accountID),
		zap.String("bucket", string(bucket)),
		zap.Int("amount", amount),
		zap.Int("count", c.Count),
	)
	return c, nil
}

// Usage reads every bucket, including those the tier does not draw from, so the
// response always carries both the daily and the monthly record.
func (q *QuotaTracker) Usage(ctx context.Context, accountID string, tier db_models.SubscriptionTier) (response_models.UsageResponse, error) {
	counters := make(map[db_models.UsageBucket]db_models.UsageCounter, 3)
	for _, b := range []db_models.UsageBucket{db_models.BucketConditions, db_models.BucketMeds, db_models.BucketAnalyses} {
		c, err := q.ReadCounter(ctx, accountID, b)
		if err != nil {
			return response_models.UsageResponse{}, err
		}
		counters[b] = c
	}

	now := q.now()
	limits := LimitsFor(tier)
	resp := response_models.UsageResponse{
		Plan: tier,
		Limits: response_models.UsageLimits{
			MaxItemsPerRequest: limits.MaxItemsPerRequest,
			PeriodCapacity:     limits.PeriodCapacity,
			PeriodKind:         string(limits.PeriodKind),
		},
		Daily: response_models.DailyUsage{
			Conditions: counters[db_models.BucketConditions].Count,
			Meds:       counters[db_models.BucketMeds].Count,
			LastReset:  counters[db_models.BucketConditions].PeriodKey,
			ResetsAt:   utils.EndOfPeriod(now, false).Format(time.RFC3339),
		},
		Monthly: response_models.MonthlyUsage{
			Analyses:  counters[db_models.BucketAnalyses].Count,
			LastReset: counters[db_models.BucketAnalyses].PeriodKey,
			ResetsAt:  utils.EndOfPeriod(now, true).Format(time.RFC3339),
		},
		Remaining: response_models.RemainingUsage{
			Conditions: DisplayRemaining(RemainingCapacity(tier, counters, db_models.ModuleFood)),
			Meds:       DisplayRemaining(RemainingCapacity(tier, counters, db_models.ModuleMeds)),
		},
	}
	return resp, nil
}
