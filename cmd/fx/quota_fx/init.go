package quota_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/config"
	"healwise/internal/infra"
	"healwise/internal/repositories"
	"healwise/internal/services"
	mem "healwise/pkg/memcache"
)

var Module = fx.Provide(
	provideQuotaStore, services.NewQuotaService)

// provideQuotaStore picks the counter backend named by quota.store.
func provideQuotaStore(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) (services.QuotaStore, error) {
	switch cfg.Quota.Store {
	case "", "database":
		return repositories.NewUsageRepository(db), nil
	case "memory":
		log.Warn("usage counters are process-local; they reset on restart")
		return mem.NewUsageCounters(), nil
	case "redis":
		client, err := infra.InitRedis(context.Background(), cfg.Redis)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return repositories.NewRedisUsageRepository(client, ""), nil
	default:
		return nil, fmt.Errorf("unsupported quota store %q", cfg.Quota.Store)
	}
}
