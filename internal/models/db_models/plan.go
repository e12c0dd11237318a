package db_models

// PlanKey is a purchasable checkout option.
type PlanKey string

const (
	PlanProMonth     PlanKey = "pro_month"
	PlanProYear      PlanKey = "pro_year"
	PlanPremiumMonth PlanKey = "premium_month"
	PlanPremiumYear  PlanKey = "premium_year"
)

var planKeys = map[PlanKey]struct {
	tier   SubscriptionTier
	period BillingPeriod
}{
	PlanProMonth:     {TierPro, PeriodMonth},
	PlanProYear:      {TierPro, PeriodYear},
	PlanPremiumMonth: {TierPremium, PeriodMonth},
	PlanPremiumYear:  {TierPremium, PeriodYear},
}

func (k PlanKey) Valid() bool {
	_, ok := planKeys[k]
	return ok
}

// Tier returns free for unknown keys.
func (k PlanKey) Tier() SubscriptionTier {
	if p, ok := planKeys[k]; ok {
		return p.tier
	}
	return TierFree
}

func (k PlanKey) Period() BillingPeriod {
	return planKeys[k].period
}
