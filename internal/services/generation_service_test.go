package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/pkg/memcache"
	"healwise/pkg/metrics"
	"healwise/pkg/utils"
)

type orchestratorFixture struct {
	svc     GenerationServiceInterface
	gen     *fakeGenerator
	tracker *QuotaTracker
	metrics *metrics.Metrics
}

func newOrchestrator(t *testing.T, tier db_models.SubscriptionTier, store QuotaStore) orchestratorFixture {
	t.Helper()
	if store == nil {
		store = memcache.NewUsageCounters()
	}
	tracker := NewQuotaTracker(store, fixedClock("2025-03-14T12:00:00Z"), zap.NewNop())
	gen := &fakeGenerator{out: json.RawMessage(foodJSON)}
	m := metrics.NewNop()
	profiles := &fakeProfiles{ent: AccountEntitlement{Tier: tier, Restrictions: "no peanuts"}}

	return orchestratorFixture{
		svc:     NewGenerationService(gen, tracker, profiles, m, zap.NewNop()),
		gen:     gen,
		tracker: tracker,
		metrics: m,
	}
}

func foodRequest(items ...string) request_models.GenerateRequest {
	return request_models.GenerateRequest{
		Operation:  request_models.OperationRecommendation,
		ModuleType: db_models.ModuleFood,
		Items:      items,
	}
}

func TestRecommend_ConsumesExactlySubmittedItems(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)
	f.gen.out = json.RawMessage(`[{"name":"a","description":"","studySummary":"","stewardshipNote":""},{"name":"b","description":"","studySummary":"","stewardshipNote":""},{"name":"c","description":"","studySummary":"","stewardshipNote":""},{"name":"d","description":"","studySummary":"","stewardshipNote":""},{"name":"e","description":"","studySummary":"","stewardshipNote":""}]`)

	outcome, err := f.svc.Recommend(context.Background(), "acct-1", foodRequest("sleep", "focus", "energy"))
	require.NoError(t, err)
	assert.Equal(t, 47, outcome.Remaining)
	assert.Equal(t, db_models.ModuleFood, outcome.Result.ModuleType)

	c, err := f.tracker.ReadCounter(context.Background(), "acct-1", db_models.BucketAnalyses)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count)
}

func TestRecommend_FailureConsumesNothing(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)
	f.gen.err = utils.NewProviderError("gemini", utils.ErrProviderUnavailable, errors.New("timeout"))

	before, err := f.tracker.ReadCounter(context.Background(), "acct-1", db_models.BucketAnalyses)
	require.NoError(t, err)

	_, err = f.svc.Recommend(context.Background(), "acct-1", foodRequest("sleep"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrProviderUnavailable))

	after, err := f.tracker.ReadCounter(context.Background(), "acct-1", db_models.BucketAnalyses)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecommend_OverRequestIsRejectedBeforeGeneration(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)
	_, err := f.tracker.Commit(context.Background(), "acct-1", db_models.BucketAnalyses, 48)
	require.NoError(t, err)

	_, err = f.svc.Recommend(context.Background(), "acct-1", foodRequest("a", "b", "c", "d"))
	require.Error(t, err)

	var quotaErr *utils.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 4, quotaErr.Requested)
	assert.Equal(t, 2, quotaErr.Remaining)
	assert.Equal(t, 2, quotaErr.Overage)
	assert.Equal(t, "month", quotaErr.Period)
	assert.Equal(t, 0, f.gen.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuotaRejections.WithLabelValues("pro")))
}

func TestRecommend_PerRequestCap(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPremium, nil)
	items := make([]string, 11)
	for i := range items {
		items[i] = "item"
	}

	_, err := f.svc.Recommend(context.Background(), "acct-1", foodRequest(items...))
	var quotaErr *utils.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 1, quotaErr.Overage)
	assert.Equal(t, 100, quotaErr.Remaining)
	assert.Equal(t, 10, quotaErr.PerRequest)
	assert.Contains(t, quotaErr.Error(), "up to 10 items per request")
	assert.Equal(t, 0, f.gen.calls)
}

func TestRecommend_FreeBucketsAreIndependent(t *testing.T) {
	f := newOrchestrator(t, db_models.TierFree, nil)
	ctx := context.Background()

	_, err := f.svc.Recommend(ctx, "acct-1", request_models.GenerateRequest{ModuleType: db_models.ModuleMeds, Items: []string{"ibuprofen"}})
	require.NoError(t, err)

	_, err = f.svc.Recommend(ctx, "acct-1", request_models.GenerateRequest{ModuleType: db_models.ModuleMeds, Items: []string{"aspirin"}})
	assert.True(t, errors.Is(err, utils.ErrQuotaExceeded))

	outcome, err := f.svc.Recommend(ctx, "acct-1", foodRequest("sleep"))
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Remaining)
}

func TestRecommend_EmptyInput(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)

	_, err := f.svc.Recommend(context.Background(), "acct-1", foodRequest("  ", ""))
	assert.True(t, errors.Is(err, utils.ErrEmptyInput))
	assert.Equal(t, 0, f.gen.calls)
}

func TestRecommend_LegacyInputCountsAsOneItem(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)

	outcome, err := f.svc.Recommend(context.Background(), "acct-1", request_models.GenerateRequest{
		ModuleType: db_models.ModuleHerbs,
		Input:      "sleep, stress",
	})
	require.NoError(t, err)
	assert.Equal(t, 49, outcome.Remaining)
	assert.Contains(t, f.gen.prompts[0].Text, `"sleep, stress"`)
}

func TestRecommend_RestrictionsFallBackToProfile(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)

	_, err := f.svc.Recommend(context.Background(), "acct-1", foodRequest("sleep"))
	require.NoError(t, err)
	assert.Contains(t, f.gen.prompts[0].Text, `"no peanuts"`)

	empty := ""
	req := foodRequest("sleep")
	req.Restrictions = &empty
	_, err = f.svc.Recommend(context.Background(), "acct-1", req)
	require.NoError(t, err)
	assert.NotContains(t, f.gen.prompts[1].Text, "Ingredient guardrails")
}

func TestRecommend_CommitFailureFailsOpen(t *testing.T) {
	store := &brokenCommitStore{UsageCounters: memcache.NewUsageCounters()}
	f := newOrchestrator(t, db_models.TierPro, store)

	outcome, err := f.svc.Recommend(context.Background(), "acct-1", foodRequest("sleep", "focus"))
	require.NoError(t, err)
	assert.JSONEq(t, foodJSON, string(outcome.Result.Payload))
	assert.Equal(t, 48, outcome.Remaining)
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CommitFailures))
}

func TestRecommend_UnsupportedModule(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)

	_, err := f.svc.Recommend(context.Background(), "acct-1", request_models.GenerateRequest{ModuleType: "Crystals", Items: []string{"x"}})
	assert.True(t, errors.Is(err, utils.ErrUnsupportedModule))
}

func TestVaryRecipeAndKidsExplainAreFree(t *testing.T) {
	f := newOrchestrator(t, db_models.TierFree, nil)
	ctx := context.Background()
	_, err := f.tracker.Commit(ctx, "acct-1", db_models.BucketConditions, 1)
	require.NoError(t, err)

	f.gen.out = json.RawMessage(`{"recipeName":"x","description":"","ingredients":[],"instructions":[],"recipeType":"Tea"}`)
	_, err = f.svc.VaryRecipe(ctx, "acct-1", request_models.GenerateRequest{
		Operation:        request_models.OperationRecipeVariation,
		OriginalRecipe:   &request_models.RecipePayload{RecipeName: "x", RecipeType: db_models.RecipeTea},
		VariationRequest: "less sweet",
	})
	require.NoError(t, err)
	assert.Contains(t, f.gen.prompts[0].Text, `"no peanuts"`)

	f.gen.out = json.RawMessage(`{"simplified":"your body is like a city"}`)
	out, err := f.svc.ExplainForKids(ctx, "Metabolism is the set of chemical reactions...")
	require.NoError(t, err)
	assert.JSONEq(t, `{"simplified":"your body is like a city"}`, string(out))

	c, err := f.tracker.ReadCounter(ctx, "acct-1", db_models.BucketConditions)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count)
}

func TestVaryRecipe_RequiresRequest(t *testing.T) {
	f := newOrchestrator(t, db_models.TierPro, nil)

	_, err := f.svc.VaryRecipe(context.Background(), "acct-1", request_models.GenerateRequest{Operation: request_models.OperationRecipeVariation})
	assert.True(t, errors.Is(err, utils.ErrEmptyInput))

	_, err = f.svc.ExplainForKids(context.Background(), " ")
	assert.True(t, errors.Is(err, utils.ErrEmptyInput))
	assert.Equal(t, 0, f.gen.calls)
}
