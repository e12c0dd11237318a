package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/config"
	"healwise/internal/infra"
	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/pkg/memcache"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := infra.InitDatabase(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { infra.CloseDatabase(db, zap.NewNop()) })
	return db
}

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

type fakeProvider struct {
	name   string
	text   string
	err    error
	block  bool
	calls  int
	prompt string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, _ map[string]any) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

type fakeGenerator struct {
	out     json.RawMessage
	err     error
	calls   int
	prompts []Prompt
}

func (f *fakeGenerator) Generate(_ context.Context, p Prompt) (json.RawMessage, error) {
	f.calls++
	f.prompts = append(f.prompts, p)
	return f.out, f.err
}

type fakeProfiles struct {
	ent AccountEntitlement
}

func (f *fakeProfiles) GetProfile(context.Context, string, string) (response_models.ProfileResponse, error) {
	return response_models.ProfileResponse{}, nil
}

func (f *fakeProfiles) UpdateProfile(context.Context, string, string, request_models.UpdateProfileRequest) (response_models.ProfileResponse, error) {
	return response_models.ProfileResponse{}, nil
}

func (f *fakeProfiles) ChangePlan(context.Context, string, string, db_models.SubscriptionTier) (response_models.ProfileResponse, error) {
	return response_models.ProfileResponse{}, nil
}

func (f *fakeProfiles) ResolveEntitlement(context.Context, string) (AccountEntitlement, error) {
	return f.ent, nil
}

// brokenCommitStore reads through to memory but refuses every commit.
type brokenCommitStore struct {
	*memcache.UsageCounters
	mu      sync.Mutex
	commits int
}

func (b *brokenCommitStore) Commit(context.Context, string, db_models.UsageBucket, string, int) (db_models.UsageCounter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commits++
	return db_models.UsageCounter{}, errors.New("connection reset")
}
