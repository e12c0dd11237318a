package db_models

// UsageCounter is the value handed out by every quota store.
type UsageCounter struct {
	Count     int    `json:"count"`
	PeriodKey string `json:"periodKey"`
}

// UsageRecord persists one UsageCounter per account and bucket.
type UsageRecord struct {
	ID        uint        `gorm:"primaryKey"`
	AccountID string      `gorm:"size:128;not null;uniqueIndex:idx_usage_account_bucket"`
	Bucket    UsageBucket `gorm:"size:32;not null;uniqueIndex:idx_usage_account_bucket"`
	Used      int         `gorm:"not null;default:0"`
	PeriodKey string      `gorm:"size:10;not null"`
	UpdatedAt int64       `gorm:"autoUpdateTime"`
}

func (UsageRecord) TableName() string {
	return "usage_counters"
}

func (r UsageRecord) Counter() UsageCounter {
	return UsageCounter{Count: r.Used, PeriodKey: r.PeriodKey}
}
