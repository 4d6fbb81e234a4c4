package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./data/triage.db", cfg.SQLite.Path)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 5000, cfg.Guardrails.MaxSymptomLength)
	assert.Equal(t, 10, cfg.History.DefaultLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRIAGE_LLM_MODEL", "llama3")
	t.Setenv("TRIAGE_LLM_PROVIDER", "ollama")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TRIAGE_LLM_APIKEY", "sk-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-secret", cfg.LLM.APIKey)
}
