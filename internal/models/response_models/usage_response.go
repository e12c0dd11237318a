package response_models

import "healwise/internal/models/db_models"

type DailyUsage struct {
	Conditions int    `json:"conditions"`
	Meds       int    `json:"meds"`
	LastReset  string `json:"lastReset"`
	ResetsAt   string `json:"resetsAt"`
}

type MonthlyUsage struct {
	Analyses  int    `json:"analyses"`
	LastReset string `json:"lastReset"`
	ResetsAt  string `json:"resetsAt"`
}

type UsageLimits struct {
	MaxItemsPerRequest int    `json:"maxItemsPerRequest"`
	PeriodCapacity     int    `json:"periodCapacity"`
	PeriodKind         string `json:"periodKind"`
}

// RemainingUsage is clamped at zero and meant for display only.
type RemainingUsage struct {
	Conditions int `json:"conditions"`
	Meds       int `json:"meds"`
}

type UsageResponse struct {
	Plan      db_models.SubscriptionTier `json:"plan"`
	Limits    UsageLimits                `json:"limits"`
	Daily     DailyUsage                 `json:"daily"`
	Monthly   MonthlyUsage               `json:"monthly"`
	Remaining RemainingUsage             `json:"remaining"`
}
