package generation_fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"healwise/internal/config"
)

func TestProvideProviders_OpenAIOnly(t *testing.T) {
	cfg := &config.Config{
		OpenAI:     config.OpenAIConfig{APIKey: "sk-test"},
		Generation: config.GenerationConfig{RatePerSecond: 2},
	}
	providers, err := ProvideProviders(fxtest.NewLifecycle(t), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "openai", providers[0].Name())
}

func TestProvideProviders_None(t *testing.T) {
	providers, err := ProvideProviders(fxtest.NewLifecycle(t), &config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(config.GenerationConfig{}))

	l := newLimiter(config.GenerationConfig{RatePerSecond: 5})
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}
