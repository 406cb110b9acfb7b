package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TURNOVER_METRIC", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Stock.LowStockThreshold)
	assert.Equal(t, "quantity", cfg.Stock.TurnoverMetric)
	assert.Equal(t, config.StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "25")
	t.Setenv("TURNOVER_METRIC", "COST")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Stock.LowStockThreshold)
	assert.Equal(t, "cost", cfg.Stock.TurnoverMetric)
	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_MetricaInvalida(t *testing.T) {
	t.Setenv("TURNOVER_METRIC", "aleatoria")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate_UmbralNegativo(t *testing.T) {
	cfg := &config.Config{
		HTTP:    config.HTTPConfig{Port: 8080},
		Stock:   config.StockConfig{LowStockThreshold: -1, TurnoverMetric: "quantity"},
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
	}
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/inv?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
