package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// run from an empty directory so no stray .env is picked up
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"HTTP_ADDR", "JSON_LIMIT", "TLS_CERT", "TLS_KEY", "DATA_DIR", "BOT_TOKEN",
		"OPENAI_API_KEY", "OPENAI_API_BASE", "OPENAI_MODEL", "SEED_FROM_NAME", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":1111", cfg.HTTPAddr)
	assert.Equal(t, int64(2<<20), cfg.JSONLimit)
	assert.Empty(t, cfg.DataDir)
	assert.Empty(t, cfg.BotToken)
	assert.False(t, cfg.SeedFromName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JSON_LIMIT", "1024")
	t.Setenv("SEED_FROM_NAME", "true")
	t.Setenv("DATA_DIR", "/var/lib/mealclock")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(1024), cfg.JSONLimit)
	assert.True(t, cfg.SeedFromName)
	assert.Equal(t, "/var/lib/mealclock", cfg.DataDir)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSON_LIMIT", "lots")
	_, err := LoadFromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("TLS_CERT", "cert.pem")
	_, err = LoadFromEnv()
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{BotToken: "123456789:secret-token", OpenAIAPIKey: "short"}

	out := cfg.Redacted()

	assert.Contains(t, out, "12345678...REDACTED...")
	assert.NotContains(t, out, "secret-token")
	assert.NotContains(t, out, "short")
}
