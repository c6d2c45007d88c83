package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_MAX_TOKENS", "")
	t.Setenv("LLM_TEMPERATURE", "")
	t.Setenv("SAMPLE_SIZE", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAIModel)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.1, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 10, cfg.Pipeline.SampleSize)
	assert.Equal(t, "workspace/uploads", cfg.Paths.UploadDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("LLM_MAX_TOKENS", "500")
	t.Setenv("SAMPLE_SIZE", "5")
	t.Setenv("DATABASE_URL", "postgres://localhost/sheets")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.AI.OpenAIModel)
	assert.Equal(t, 500, cfg.AI.MaxTokens)
	assert.Equal(t, 5, cfg.Pipeline.SampleSize)
	assert.Equal(t, "postgres://localhost/sheets", cfg.Database.URL)
}

func TestLoad_InvalidSampleSize(t *testing.T) {
	t.Setenv("SAMPLE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
}
