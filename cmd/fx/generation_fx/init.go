package generation_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"healwise/internal/api/controllers"
	"healwise/internal/config"
	"healwise/internal/services"
	"healwise/pkg/metrics"
	"healwise/pkg/utils"
)

var Module = fx.Provide(
	ProvideProviders,
	ProvideGenerationClient,
	ProvideGenerationService,
	controllers.NewGenerateController)

// ProvideProviders builds the ordered provider chain: Gemini first, then OpenAI.
// A provider without an API key is left out.
func ProvideProviders(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) ([]utils.GenerationProvider, error) {
	var providers []utils.GenerationProvider

	if cfg.Gemini.APIKey != "" {
		gemini, err := utils.NewGeminiProvider(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, newLimiter(cfg.Generation))
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return gemini.Close()
			},
		})
		providers = append(providers, gemini)
	}

	if cfg.OpenAI.APIKey != "" {
		providers = append(providers, utils.NewOpenAIProvider(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.BaseURL,
			cfg.OpenAI.Temperature,
			newLimiter(cfg.Generation),
		))
	}

	if len(providers) == 0 {
		log.Warn("no generation provider configured; set GEMINI_API_KEY or OPENAI_API_KEY")
	}
	return providers, nil
}

func newLimiter(cfg config.GenerationConfig) *rate.Limiter {
	if cfg.RatePerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
}

func ProvideGenerationClient(providers []utils.GenerationProvider, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) services.Generator {
	client := services.NewGenerationClient(providers, cfg.Generation.Timeout, m, log)
	log.Info("generation providers ready", zap.Strings("order", client.Providers()))
	return client
}

func ProvideGenerationService(
	generator services.Generator,
	quota services.QuotaServiceInterface,
	profiles services.ProfileServiceInterface,
	m *metrics.Metrics,
	log *zap.Logger,
) services.GenerationServiceInterface {
	return services.NewGenerationService(generator, quota, profiles, m, log)
}
