package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.APIAddr)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLMBaseURL)
	assert.Equal(t, 30, cfg.LLMRequestsPerMin)
	assert.Equal(t, 45*time.Second, cfg.AskTimeout)
	assert.Equal(t, 10*time.Minute, cfg.AnswerCacheTTL)
	assert.Empty(t, cfg.RedisAddr, "answer cache is off by default")
	assert.Empty(t, cfg.AddAccessToken, "write routes are open by default")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("ASK_TIMEOUT", "90s")
	t.Setenv("LLM_REQUESTS_PER_MINUTE", "5")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("ADD_ACCESS_TOKEN", "s3cret")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.APIAddr)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 90*time.Second, cfg.AskTimeout)
	assert.Equal(t, 5, cfg.LLMRequestsPerMin)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "s3cret", cfg.AddAccessToken)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ASK_TIMEOUT", "soon")
	t.Setenv("LLM_REQUESTS_PER_MINUTE", "many")
	t.Setenv("DEV_MODE", "yep")

	cfg := Load()
	assert.Equal(t, 45*time.Second, cfg.AskTimeout)
	assert.Equal(t, 30, cfg.LLMRequestsPerMin)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.AskTimeout = 0
	assert.Error(t, cfg.Validate())
}
