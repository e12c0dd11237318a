package config_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"healwise/internal/config"
	"healwise/pkg/logger"
	"healwise/pkg/metrics"
)

var Module = fx.Provide(
	config.Load,
	provideLogger,
	provideRegistry,
	provideMetrics,
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: !cfg.IsProduction(),
	})
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}
