package db_models

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

// Subscription mirrors the payment provider's view of an account's paid plan.
type Subscription struct {
	BaseModel
	AccountID string             `gorm:"size:128;index"`
	Tier      SubscriptionTier   `gorm:"size:16;not null"`
	PlanKey   PlanKey            `gorm:"size:32"`
	Period    BillingPeriod      `gorm:"size:8"`
	Status    SubscriptionStatus `gorm:"size:16;index"`

	Provider           string `gorm:"size:16;index"`
	ProviderCustomerID string `gorm:"size:64;index"`
	ProviderSessionID  string `gorm:"size:128;uniqueIndex"`
	CanceledAt         *int64
}
