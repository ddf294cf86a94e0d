package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
}

func TestLoadFailsWithoutAccessSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFailsWithoutRefreshSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")
}

func TestLoadRejectsWhitespaceSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidAppMode(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_MODE")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("APP_MODE", "")
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenDays)
}

func TestGetAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")

	dev := &Config{AppMode: "dev"}
	assert.Equal(t, "*", dev.GetAllowedOrigins())

	prod := &Config{AppMode: "prod"}
	assert.NotEqual(t, "*", prod.GetAllowedOrigins())

	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	assert.Equal(t, "https://a.example,https://b.example", prod.GetAllowedOrigins())
}
