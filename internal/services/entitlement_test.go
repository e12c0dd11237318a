package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"healwise/internal/models/db_models"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		tier     db_models.SubscriptionTier
		perReq   int
		capacity int
		kind     PeriodKind
	}{
		{db_models.TierFree, 1, 1, PeriodDaily},
		{db_models.TierPro, 10, 50, PeriodMonthly},
		{db_models.TierPremium, 10, 100, PeriodMonthly},
		{"enterprise", 1, 1, PeriodDaily},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			l := LimitsFor(tt.tier)
			assert.Equal(t, tt.perReq, l.MaxItemsPerRequest)
			assert.Equal(t, tt.capacity, l.PeriodCapacity)
			assert.Equal(t, tt.kind, l.PeriodKind)
		})
	}
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, db_models.BucketMeds, BucketFor(db_models.TierFree, db_models.ModuleMeds))
	for _, m := range []db_models.ModuleType{db_models.ModuleFood, db_models.ModuleHerbs, db_models.ModuleRecipe} {
		assert.Equal(t, db_models.BucketConditions, BucketFor(db_models.TierFree, m))
		assert.Equal(t, db_models.BucketAnalyses, BucketFor(db_models.TierPro, m))
	}
	assert.Equal(t, db_models.BucketAnalyses, BucketFor(db_models.TierPremium, db_models.ModuleMeds))
}

func TestRemainingCapacity_FreeBucketsAreIndependent(t *testing.T) {
	counters := map[db_models.UsageBucket]db_models.UsageCounter{
		db_models.BucketMeds: {Count: 1, PeriodKey: "2025-03-14"},
	}

	assert.Equal(t, 0, RemainingCapacity(db_models.TierFree, counters, db_models.ModuleMeds))
	assert.Equal(t, 1, RemainingCapacity(db_models.TierFree, counters, db_models.ModuleFood))
	assert.Equal(t, 1, RemainingCapacity(db_models.TierFree, counters, db_models.ModuleHerbs))
}

func TestRemainingCapacity_NegativeIsKept(t *testing.T) {
	counters := map[db_models.UsageBucket]db_models.UsageCounter{
		db_models.BucketAnalyses: {Count: 53, PeriodKey: "2025-03"},
	}

	n := RemainingCapacity(db_models.TierPro, counters, db_models.ModuleFood)
	assert.Equal(t, -3, n)
	assert.Equal(t, 0, DisplayRemaining(n))
	assert.Equal(t, 7, DisplayRemaining(7))
}

func TestBucketCapacity_UnusedBucketIsZero(t *testing.T) {
	assert.Equal(t, 0, BucketCapacity(db_models.TierPro, db_models.BucketMeds))
	assert.Equal(t, 0, BucketCapacity(db_models.TierFree, db_models.BucketAnalyses))
	assert.Equal(t, 100, BucketCapacity(db_models.TierPremium, db_models.BucketAnalyses))
}

func TestBucketPeriod(t *testing.T) {
	assert.Equal(t, PeriodDaily, BucketPeriod(db_models.BucketConditions))
	assert.Equal(t, PeriodDaily, BucketPeriod(db_models.BucketMeds))
	assert.Equal(t, PeriodMonthly, BucketPeriod(db_models.BucketAnalyses))
	assert.Equal(t, "day", PeriodDaily.Noun())
	assert.Equal(t, "month", PeriodMonthly.Noun())
}
