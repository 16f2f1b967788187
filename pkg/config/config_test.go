package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "marketplace-api", cfg.App.Name)
	assert.Equal(t, config.BackendPostgres, cfg.App.StoreBackend)
	assert.Equal(t, time.Hour, cfg.Cart.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Reclaim.Interval)
	assert.Equal(t, 200, cfg.Reclaim.BatchSize)
	assert.Equal(t, 4, cfg.Reclaim.Workers)
	assert.Equal(t, 3, cfg.Tx.MaxAttempts)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 20, cfg.DB.MaxConns)
	assert.Equal(t, 5, cfg.DB.ConnectAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.SlowQuery)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CART_TTL_MINUTES", "15")
	t.Setenv("RECLAIM_WORKERS", "8")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.App.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.Cart.TTL)
	assert.Equal(t, 8, cfg.Reclaim.Workers)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_BackendInvalido(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_TTLCero(t *testing.T) {
	t.Setenv("CART_TTL_MINUTES", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PoolInvalido(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "4")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "marketplace", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/marketplace?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
