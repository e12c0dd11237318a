package services

import "healwise/internal/models/db_models"

type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodMonthly PeriodKind = "monthly"
)

// Noun is the unit used in user-facing quota messages.
func (k PeriodKind) Noun() string {
	if k == PeriodMonthly {
		return "month"
	}
	return "day"
}

type EntitlementLimits struct {
	MaxItemsPerRequest int
	PeriodCapacity     int
	PeriodKind         PeriodKind
	Buckets            []db_models.UsageBucket
}

var tierLimits = map[db_models.SubscriptionTier]EntitlementLimits{
	db_models.TierFree: {
		MaxItemsPerRequest: 1,
		PeriodCapacity:     1,
		PeriodKind:         PeriodDaily,
		Buckets:            []db_models.UsageBucket{db_models.BucketConditions, db_models.BucketMeds},
	},
	db_models.TierPro: {
		MaxItemsPerRequest: 10,
		PeriodCapacity:     50,
		PeriodKind:         PeriodMonthly,
		Buckets:            []db_models.UsageBucket{db_models.BucketAnalyses},
	},
	db_models.TierPremium: {
		MaxItemsPerRequest: 10,
		PeriodCapacity:     100,
		PeriodKind:         PeriodMonthly,
		Buckets:            []db_models.UsageBucket{db_models.BucketAnalyses},
	},
}

// LimitsFor resolves unknown tiers to free.
func LimitsFor(tier db_models.SubscriptionTier) EntitlementLimits {
	if l, ok := tierLimits[tier]; ok {
		return l
	}
	return tierLimits[db_models.TierFree]
}

func BucketFor(tier db_models.SubscriptionTier, module db_models.ModuleType) db_models.UsageBucket {
	if LimitsFor(tier).PeriodKind == PeriodMonthly {
		return db_models.BucketAnalyses
	}
	if module == db_models.ModuleMeds {
		return db_models.BucketMeds
	}
	return db_models.BucketConditions
}

// BucketCapacity is zero for buckets the tier does not use.
func BucketCapacity(tier db_models.SubscriptionTier, bucket db_models.UsageBucket) int {
	limits := LimitsFor(tier)
	for _, b := range limits.Buckets {
		if b == bucket {
			return limits.PeriodCapacity
		}
	}
	return 0
}

// RemainingCapacity may be negative when concurrent submissions over-committed.
func RemainingCapacity(tier db_models.SubscriptionTier, counters map[db_models.UsageBucket]db_models.UsageCounter, module db_models.ModuleType) int {
	bucket := BucketFor(tier, module)
	return BucketCapacity(tier, bucket) - counters[bucket].Count
}

func DisplayRemaining(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func BucketPeriod(bucket db_models.UsageBucket) PeriodKind {
	if bucket == db_models.BucketAnalyses {
		return PeriodMonthly
	}
	return PeriodDaily
}
