package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/pkg/metrics"
	"healwise/pkg/utils"
)

const foodJSON = `[{"name":"Kale","description":"leafy","studySummary":"a study","stewardshipNote":"seasonal"}]`

func foodPromptFor(t *testing.T) Prompt {
	p, err := BuildRecommendation(db_models.ModuleFood, []string{"energy"}, "", "", nil)
	require.NoError(t, err)
	return p
}

func TestGenerationClient_PrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "gemini", text: "```json\n" + foodJSON + "\n```"}
	fallback := &fakeProvider{name: "openai", text: foodJSON}
	client := NewGenerationClient([]utils.GenerationProvider{primary, fallback}, time.Second, metrics.NewNop(), zap.NewNop())

	out, err := client.Generate(context.Background(), foodPromptFor(t))
	require.NoError(t, err)
	assert.JSONEq(t, foodJSON, string(out))
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerationClient_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("503 overloaded")}
	fallback := &fakeProvider{name: "openai", text: foodJSON}
	m := metrics.NewNop()
	client := NewGenerationClient([]utils.GenerationProvider{primary, fallback}, time.Second, m, zap.NewNop())

	out, err := client.Generate(context.Background(), foodPromptFor(t))
	require.NoError(t, err)
	assert.JSONEq(t, foodJSON, string(out))
	assert.Equal(t, primary.prompt, fallback.prompt)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("gemini", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("openai", "success")))
}

func TestGenerationClient_FallsBackOnMalformedPrimary(t *testing.T) {
	primary := &fakeProvider{name: "gemini", text: `[{"name":"Kale"}]`}
	fallback := &fakeProvider{name: "openai", text: foodJSON}
	m := metrics.NewNop()
	client := NewGenerationClient([]utils.GenerationProvider{primary, fallback}, time.Second, m, zap.NewNop())

	out, err := client.Generate(context.Background(), foodPromptFor(t))
	require.NoError(t, err)
	assert.JSONEq(t, foodJSON, string(out))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("gemini", "malformed")))
}

func TestGenerationClient_SurfacesFirstError(t *testing.T) {
	primary := &fakeProvider{name: "gemini", text: "   "}
	fallback := &fakeProvider{name: "openai", err: errors.New("401 unauthorized")}
	client := NewGenerationClient([]utils.GenerationProvider{primary, fallback}, time.Second, metrics.NewNop(), zap.NewNop())

	_, err := client.Generate(context.Background(), foodPromptFor(t))
	require.Error(t, err)

	var perr *utils.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "gemini", perr.Provider)
	assert.True(t, errors.Is(err, utils.ErrEmptyResponse))
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerationClient_SingleProviderError(t *testing.T) {
	primary := &fakeProvider{name: "gemini", text: "not json at all"}
	client := NewGenerationClient([]utils.GenerationProvider{primary}, time.Second, metrics.NewNop(), zap.NewNop())

	_, err := client.Generate(context.Background(), foodPromptFor(t))
	assert.True(t, errors.Is(err, utils.ErrMalformedResponse))
}

func TestGenerationClient_NoProviders(t *testing.T) {
	client := NewGenerationClient(nil, time.Second, metrics.NewNop(), zap.NewNop())

	_, err := client.Generate(context.Background(), foodPromptFor(t))
	assert.True(t, errors.Is(err, utils.ErrProviderUnavailable))
}

func TestGenerationClient_AttemptTimeout(t *testing.T) {
	primary := &fakeProvider{name: "gemini", block: true}
	fallback := &fakeProvider{name: "openai", text: foodJSON}
	client := NewGenerationClient([]utils.GenerationProvider{primary, fallback}, 20*time.Millisecond, metrics.NewNop(), zap.NewNop())

	out, err := client.Generate(context.Background(), foodPromptFor(t))
	require.NoError(t, err)
	assert.JSONEq(t, foodJSON, string(out))
}

func TestGenerationClient_WrapsMedsObject(t *testing.T) {
	meds := `{"individualMedications":[{"name":"Ibuprofen","howItWorks":"blocks COX","commonSideEffects":["upset stomach"]}],"interactionAnalysis":[],"allergyWarnings":[]}`
	p, err := BuildRecommendation(db_models.ModuleMeds, []string{"ibuprofen"}, "", "", nil)
	require.NoError(t, err)

	client := NewGenerationClient([]utils.GenerationProvider{&fakeProvider{name: "gemini", text: meds}}, time.Second, metrics.NewNop(), zap.NewNop())
	out, err := client.Generate(context.Background(), p)
	require.NoError(t, err)

	var results []response_models.MedsAnalysisResult
	require.NoError(t, json.Unmarshal(out, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Ibuprofen", results[0].IndividualMedications[0].Name)
}

func TestGenerationClient_RecipeTypeIsForced(t *testing.T) {
	cases := map[string]string{
		"different": `{"recipeName":"Glow","description":"d","ingredients":["kale"],"instructions":["blend"],"recipeType":"Juice"}`,
		"omitted":   `{"recipeName":"Glow","description":"d","ingredients":["kale"],"instructions":["blend"]}`,
		"invalid":   `{"recipeName":"Glow","description":"d","ingredients":["kale"],"instructions":["blend"],"recipeType":"Soup"}`,
	}

	for _, requested := range []db_models.RecipeType{db_models.RecipeJuice, db_models.RecipeSmoothie, db_models.RecipeTea} {
		for name, body := range cases {
			t.Run(string(requested)+"/"+name, func(t *testing.T) {
				p, err := BuildRecommendation(db_models.ModuleRecipe, []string{"focus"}, "", requested, nil)
				require.NoError(t, err)

				client := NewGenerationClient([]utils.GenerationProvider{&fakeProvider{name: "gemini", text: body}}, time.Second, metrics.NewNop(), zap.NewNop())
				out, err := client.Generate(context.Background(), p)
				require.NoError(t, err)

				var results []response_models.RecipeResult
				require.NoError(t, json.Unmarshal(out, &results))
				require.Len(t, results, 1)
				assert.Equal(t, requested, results[0].RecipeType)
			})
		}
	}
}

func TestGenerationClient_VariationReturnsObject(t *testing.T) {
	original := request_models.RecipePayload{RecipeName: "Glow", RecipeType: db_models.RecipeTea}
	body := `{"recipeName":"Glow 2","description":"d","ingredients":["mint"],"instructions":["steep"],"recipeType":"Juice"}`

	client := NewGenerationClient([]utils.GenerationProvider{&fakeProvider{name: "openai", text: body}}, time.Second, metrics.NewNop(), zap.NewNop())
	out, err := client.Generate(context.Background(), BuildRecipeVariation(original, "add mint", ""))
	require.NoError(t, err)

	var result response_models.RecipeResult
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, "Glow 2", result.RecipeName)
	assert.Equal(t, db_models.RecipeTea, result.RecipeType)
}
