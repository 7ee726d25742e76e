package config_test

import (
	"testing"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("GATEWAY_SECRET", "gw-secret")
}

func TestLoad(t *testing.T) {
	t.Run("未設定の項目はデフォルトが入る", func(t *testing.T) {
		setRequired(t)

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "dev", cfg.GoEnv)
		assert.Equal(t, "localhost", cfg.PostgresHost)
		assert.Equal(t, "5432", cfg.PostgresPort)
		assert.Equal(t, "app", cfg.PostgresDB)
		assert.Equal(t, "disable", cfg.PostgresSSLMode)
	})

	t.Run("DATABASE_URLはそのまま拾う", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DatabaseURL)
	})

	t.Run("JWT_SECRETが無いとエラー", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("GATEWAY_SECRET", "gw-secret")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("GATEWAY_SECRETが無いとエラー", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt-secret")
		t.Setenv("GATEWAY_SECRET", "")

		_, err := config.Load()

		assert.Error(t, err)
	})
}
