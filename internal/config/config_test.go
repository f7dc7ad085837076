package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roomops")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 240*time.Minute, cfg.Alert.WelfareThreshold)
	assert.Equal(t, "0 */5 * * * *", cfg.Alert.ScanSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roomops")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("WELFARE_THRESHOLD_MINUTES", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.com, https://desk.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Alert.WelfareThreshold)
	assert.Equal(t, []string{"https://ops.example.com", "https://desk.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("Missing database URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/roomops")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("Non-positive welfare threshold", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/roomops")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("WELFARE_THRESHOLD_MINUTES", "0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WELFARE_THRESHOLD_MINUTES")
	})
}
