package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/internal/models/response_models"
	"healwise/internal/services"
	"healwise/pkg/middleware"
	"healwise/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := request_models.RegisterValidators(); err != nil {
		panic(err)
	}
}

type fakeGenerationService struct {
	outcome   services.GenerationOutcome
	err       error
	lastReq   request_models.GenerateRequest
	accountID string
	calls     int
}

func (f *fakeGenerationService) Recommend(_ context.Context, accountID string, req request_models.GenerateRequest) (services.GenerationOutcome, error) {
	f.calls++
	f.accountID = accountID
	f.lastReq = req
	return f.outcome, f.err
}

func (f *fakeGenerationService) VaryRecipe(_ context.Context, _ string, req request_models.GenerateRequest) (json.RawMessage, error) {
	f.calls++
	f.lastReq = req
	return json.RawMessage(`{"recipeName":"v","recipeType":"Tea"}`), f.err
}

func (f *fakeGenerationService) ExplainForKids(context.Context, string) (json.RawMessage, error) {
	f.calls++
	return json.RawMessage(`{"simplified":"ok"}`), f.err
}

func newGenerateRouter(svc services.GenerationServiceInterface) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AccountMiddleware(middleware.AuthConfig{Disabled: true, DemoAccountID: "demo-user"}))
	r.POST("/generate", NewGenerateController(svc).Generate)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_Recommendation(t *testing.T) {
	svc := &fakeGenerationService{outcome: services.GenerationOutcome{
		Result:    response_models.TaggedResult{ModuleType: db_models.ModuleFood, Payload: json.RawMessage(`[{"name":"Kale"}]`)},
		Remaining: 7,
	}}

	w := postJSON(newGenerateRouter(svc), "/generate", `{"operation":"recommendation","moduleType":"Food","items":["sleep"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"Kale"}]`, w.Body.String())
	assert.Equal(t, "7", w.Header().Get(middleware.UsageRemainingHeader))
	assert.Equal(t, "demo-user", svc.accountID)
	assert.Equal(t, []string{"sleep"}, svc.lastReq.Items)
}

func TestGenerate_NegativeRemainingHeaderIsClamped(t *testing.T) {
	svc := &fakeGenerationService{outcome: services.GenerationOutcome{
		Result:    response_models.TaggedResult{Payload: json.RawMessage(`[]`)},
		Remaining: -2,
	}}

	w := postJSON(newGenerateRouter(svc), "/generate", `{"moduleType":"Herbs","input":"stress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get(middleware.UsageRemainingHeader))
}

func TestGenerate_InvalidPayload(t *testing.T) {
	svc := &fakeGenerationService{}
	r := newGenerateRouter(svc)

	for name, body := range map[string]string{
		"bad module":     `{"moduleType":"Crystals","items":["x"]}`,
		"bad recipeType": `{"moduleType":"Recipe","items":["x"],"recipeType":"Soup"}`,
		"bad operation":  `{"operation":"translate"}`,
		"missing module": `{"items":["x"]}`,
		"not json":       `{`,
	} {
		t.Run(name, func(t *testing.T) {
			w := postJSON(r, "/generate", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var detail utils.ErrorDetail
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
			assert.Equal(t, "ValidationError", detail.Error)
		})
	}
	assert.Equal(t, 0, svc.calls)
}

func TestGenerate_EmptyInput(t *testing.T) {
	svc := &fakeGenerationService{err: utils.ErrEmptyInput}

	w := postJSON(newGenerateRouter(svc), "/generate", `{"moduleType":"Food","items":[" "]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	svc := &fakeGenerationService{err: utils.NewQuotaExceededError(4, 2, 10, "month")}

	w := postJSON(newGenerateRouter(svc), "/generate", `{"moduleType":"Food","items":["a","b","c","d"]}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var detail utils.ErrorDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.NotNil(t, detail.Overage)
	assert.Equal(t, 2, *detail.Overage)
	assert.Equal(t, 4, *detail.Requested)
	assert.Equal(t, 2, *detail.Remaining)
	assert.Contains(t, detail.Detail, "Please remove 2 items to proceed.")
	assert.Empty(t, w.Header().Get(middleware.UsageRemainingHeader))
}

func TestGenerate_ProviderFailure(t *testing.T) {
	svc := &fakeGenerationService{err: utils.NewProviderError("gemini", utils.ErrProviderUnavailable, errors.New("503"))}

	w := postJSON(newGenerateRouter(svc), "/generate", `{"moduleType":"Meds","items":["ibuprofen"]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var detail utils.ErrorDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Generation request failed", detail.Error)
	assert.NotEmpty(t, detail.Detail)
}

func TestGenerate_OtherOperations(t *testing.T) {
	svc := &fakeGenerationService{}
	r := newGenerateRouter(svc)

	w := postJSON(r, "/generate", `{"operation":"recipe-variation","originalRecipe":{"recipeName":"Glow","recipeType":"Tea","ingredients":["mint"],"instructions":["steep"]},"variationRequest":"colder"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recipeName":"v","recipeType":"Tea"}`, w.Body.String())
	assert.Equal(t, "colder", svc.lastReq.VariationRequest)

	w = postJSON(r, "/generate", `{"operation":"kids-explain","moduleType":"Food","content":"long text"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"simplified":"ok"}`, w.Body.String())

	w = postJSON(r, "/generate", `{"operation":"recipe-variation","originalRecipe":{"recipeName":"Glow","recipeType":"Broth"},"variationRequest":"colder"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
