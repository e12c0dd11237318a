package db_models

// Profile is keyed by the account id carried in the caller's token.
type Profile struct {
	ID                 string           `gorm:"primaryKey;size:128"`
	Email              string           `gorm:"size:255;index"`
	DisplayName        string           `gorm:"size:255"`
	Plan               SubscriptionTier `gorm:"size:16;not null;default:free"`
	Restrictions       string           `gorm:"type:text"`
	OnboardingComplete bool             `gorm:"default:false"`
	StripeCustomerID   string           `gorm:"size:64;index"`
	CreatedAt          int64            `gorm:"autoCreateTime"`
	UpdatedAt          int64            `gorm:"autoUpdateTime"`
}
