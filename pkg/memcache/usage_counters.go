// pkg/memcache/usage_counters.go
package memcache

import (
	"context"
	"sync"

	"healwise/internal/models/db_models"
)

type counterKey struct {
	accountID string
	bucket    db_models.UsageBucket
}

// UsageCounters is a process-local quota store. Counters survive only as long as the process.
type UsageCounters struct {
	mu   sync.Mutex
	data map[counterKey]db_models.UsageCounter
}

func NewUsageCounters() *UsageCounters {
	return &UsageCounters{
		data: make(map[counterKey]db_models.UsageCounter),
	}
}

func (s *UsageCounters) Read(_ context.Context, accountID string, bucket db_models.UsageBucket, periodKey string) (db_models.UsageCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current(counterKey{accountID, bucket}, periodKey), nil
}

func (s *UsageCounters) Commit(_ context.Context, accountID string, bucket db_models.UsageBucket, periodKey string, amount int) (db_models.UsageCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := counterKey{accountID, bucket}
	c := s.current(key, periodKey)
	c.Count += amount
	s.data[key] = c
	return c, nil
}

// current applies rollover; callers hold mu.
func (s *UsageCounters) current(key counterKey, periodKey string) db_models.UsageCounter {
	c, ok := s.data[key]
	if !ok || c.PeriodKey != periodKey {
		c = db_models.UsageCounter{Count: 0, PeriodKey: periodKey}
		s.data[key] = c
	}
	return c
}
