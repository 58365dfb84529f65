package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Payment.TokenTTL)
	assert.Equal(t, "orders", cfg.RabbitMQ.Exchange)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=shop dbname=shop")
	t.Setenv("PAYMENT_TOKEN_TTL", "5m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=shop dbname=shop", cfg.Database.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Payment.TokenTTL)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Env: "development"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"},
			JWT:      JWTConfig{Secret: "s3cret"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "mysql"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("empty secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("default secret in production", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.JWT.Secret = defaultJWTSecret
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "production")
	})
}
