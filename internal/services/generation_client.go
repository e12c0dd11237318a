package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"healwise/internal/models/db_models"
	"healwise/internal/models/request_models"
	"healwise/pkg/metrics"
	"healwise/pkg/utils"
)

const DefaultGenerationTimeout = 30 * time.Second

// Generator runs a rendered prompt and returns the shaped, schema-checked result.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (json.RawMessage, error)
}

// GenerationClient tries providers in order. The first failure is the one surfaced.
type GenerationClient struct {
	providers []utils.GenerationProvider
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewGenerationClient(providers []utils.GenerationProvider, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *GenerationClient {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &GenerationClient{
		providers: providers,
		timeout:   timeout,
		metrics:   m,
		logger:    logger.Named("generation"),
	}
}

func (g *GenerationClient) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	return names
}

func (g *GenerationClient) Generate(ctx context.Context, p Prompt) (json.RawMessage, error) {
	if len(g.providers) == 0 {
		return nil, fmt.Errorf("%w: no provider configured", utils.ErrProviderUnavailable)
	}

	var firstErr error
	for i, provider := range g.providers {
		out, err := g.attempt(ctx, provider, p)
		if err == nil {
			return out, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(g.providers) {
			g.logger.Warn("provider failed, falling back",
				zap.String("provider", provider.Name()),
				zap.String("next", g.providers[i+1].Name()),
				zap.Error(err),
			)
		}
	}
	return nil, firstErr
}

func (g *GenerationClient) attempt(ctx context.Context, provider utils.GenerationProvider, p Prompt) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := provider.Generate(attemptCtx, p.Text, p.Schema)
	g.metrics.GenerationLatency.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

	if err == nil {
		var out json.RawMessage
		out, err = shapeResult(p, text)
		if err == nil {
			g.metrics.ProviderAttempts.WithLabelValues(provider.Name(), "success").Inc()
			return out, nil
		}
	}

	var perr *utils.ProviderError
	if !errors.As(err, &perr) {
		perr = utils.NewProviderError(provider.Name(), utils.ErrProviderUnavailable, err)
	}
	if perr.Provider == "" {
		perr.Provider = provider.Name()
	}

	outcome := outcomeLabel(perr.Kind)
	g.metrics.ProviderAttempts.WithLabelValues(provider.Name(), outcome).Inc()
	g.logger.Warn("provider attempt failed",
		zap.String("provider", provider.Name()),
		zap.String("outcome", outcome),
		zap.String("operation", p.Operation),
		zap.String("module", string(p.Module)),
		zap.Error(perr.Err),
	)
	return nil, perr
}

func outcomeLabel(kind error) string {
	switch {
	case errors.Is(kind, utils.ErrEmptyResponse):
		return "empty"
	case errors.Is(kind, utils.ErrMalformedResponse):
		return "malformed"
	default:
		return "unavailable"
	}
}

// shapeResult parses provider text, normalizes it for the prompt's module, and validates it
// against the same schema the provider was given.
func shapeResult(p Prompt, text string) (json.RawMessage, error) {
	cleaned := utils.CleanJSONResponse(text)
	if cleaned == "" {
		return nil, utils.NewProviderError("", utils.ErrEmptyResponse, nil)
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, utils.NewProviderError("", utils.ErrMalformedResponse, err)
	}

	doc = normalizeResult(p, doc)

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, utils.NewProviderError("", utils.ErrMalformedResponse, err)
	}
	if err := utils.ValidateJSON(p.Schema, encoded); err != nil {
		return nil, utils.NewProviderError("", utils.ErrMalformedResponse, err)
	}

	if p.Operation == request_models.OperationRecommendation && p.Module == db_models.ModuleRecipe {
		encoded = append(append([]byte{'['}, encoded...), ']')
	}
	return encoded, nil
}

func normalizeResult(p Prompt, doc any) any {
	switch {
	case p.Module == db_models.ModuleMeds:
		if obj, ok := doc.(map[string]any); ok {
			return []any{obj}
		}
	case p.Module == db_models.ModuleRecipe && p.RecipeType != "":
		if obj, ok := doc.(map[string]any); ok {
			obj["recipeType"] = string(p.RecipeType)
		}
	}
	return doc
}
