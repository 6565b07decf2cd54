package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing-api", cfg.App.Name)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 100, cfg.Billing.DefaultListLimit)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.False(t, cfg.Billing.StrictStatus)
	assert.Empty(t, cfg.JWT.Secret, "sin secreto la auth queda deshabilitada")
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BILLING_STRICT_STATUS", "true")
	t.Setenv("BILLING_DEFAULT_LIST_LIMIT", "25")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DB_AUTO_MIGRATE", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Billing.StrictStatus)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 25, cfg.Billing.DefaultListLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowOrigins)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "billing", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/billing?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
