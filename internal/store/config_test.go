package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "GOOGLE_GENERATIVE_AI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, "https://api.binance.com", cfg.Exchange.BaseURL)
	assert.Equal(t, "/api/v3/ticker/tradingDay", cfg.Exchange.TickerPath)
	assert.Zero(t, cfg.Exchange.TimeoutSeconds)
}

func TestLoadConfigProviderDefaults(t *testing.T) {
	p := writeConfig(t, `
llm:
  provider: deepseek
exchange:
  timeout_seconds: 5
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.LLM.Provider)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, "DEEPSEEK_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 5, cfg.Exchange.TimeoutSeconds)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	p := writeConfig(t, "llm:\n  provider: PALM\n")
	_, err := LoadConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid llm.provider")
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	p := writeConfig(t, "llm: [unterminated\n")
	_, err := LoadConfig(p)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LLM.Temperature = 3
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Exchange.TickerPath = "api/v3"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Exchange.TimeoutSeconds = -1
	assert.Error(t, cfg.Validate())
}

func TestAPIKeyFromEnv(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKeyEnv = "VOLUME_CHAT_TEST_KEY"
	t.Setenv("VOLUME_CHAT_TEST_KEY", "secret")
	assert.Equal(t, "secret", cfg.APIKey())

	cfg.LLM.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}
