package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"healwise/internal/config"
	"healwise/internal/infra"
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
