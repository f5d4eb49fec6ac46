package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 清空会影响加载结果的环境变量（空值在 viper 中视为未设置）
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AI_API_KEY", "LLM_API_KEY", "AI_API_URL", "LLM_BASE_URL", "AI_MODEL", "LLM_MODEL",
		"LLM_DRIVER", "PORT", "SERVER_HTTP_PORT", "APP_ENV", "STATIC_DIR",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFromEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_API_URL", "https://llm.example.com/v1/")
	t.Setenv("PORT", "8081")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://llm.example.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, DriverEino, cfg.LLM.Driver)
	assert.Equal(t, DefaultSystemPrompt, cfg.LLM.SystemPrompt)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8081, cfg.Server.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTPAddr())

	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, RateLimitBackendMemory, cfg.Security.RateLimit.Backend)
	assert.Equal(t, 100, cfg.Security.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Security.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowedOrigins)
}

func TestLoadDefaultPort(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.HTTP.Port)
	assert.False(t, cfg.SeparateMetricsServer())
}

func TestValidateMissingCredentials(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key is required")
	assert.Contains(t, err.Error(), "llm.base_url is required")
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_API_KEY", "k")
	t.Setenv("AI_API_URL", "not-a-url")
	t.Setenv("LLM_DRIVER", "gemini")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an absolute URL")
	assert.Contains(t, err.Error(), `llm.driver must be "eino" or "openai"`)
}

func TestValidateTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_API_KEY", "k")
	t.Setenv("AI_API_URL", "https://llm.example.com")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	cfg.Server.HTTP.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1", "::1"}
	require.NoError(t, cfg.Validate())

	cfg.Server.HTTP.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal", "10.0.0.0/99"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `trusted_proxies entry is not an IP or CIDR: "proxy.internal"`)
	assert.Contains(t, err.Error(), `"10.0.0.0/99"`)
	assert.NotContains(t, err.Error(), `"10.0.0.0/8"`)
}

func TestLoadFilesWithExpansionAndEnvOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("TEST_MODEL_FOR_LOADER", "")
	t.Setenv("AI_API_KEY", "from-env")

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
llm:
  driver: openai
  api_key: from-file
  base_url: ${TEST_BASE_URL_FOR_LOADER:http://localhost:11434/v1}
  model: "${TEST_MODEL_FOR_LOADER}"
security:
  rate_limit:
    backend: Redis
    requests: 50
`)
	writeFile(t, dir, "config.staging.yaml", `
security:
  rate_limit:
    requests: 5
observability:
  metrics:
    port: 9464
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey, "bound env wins over file")
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "", cfg.LLM.Model, "undefined placeholder expands to empty")
	assert.Equal(t, DriverOpenAI, cfg.LLM.Driver)
	assert.Equal(t, RateLimitBackendRedis, cfg.Security.RateLimit.Backend)
	assert.Equal(t, 5, cfg.Security.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Security.RateLimit.Window)
	assert.True(t, cfg.SeparateMetricsServer())
	assert.NoError(t, cfg.Validate())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")
	assert.Equal(t, "a=value b=def c=", expandEnv("a=${EXPAND_SET} b=${EXPAND_UNSET_X:def} c=${EXPAND_UNSET_Y}"))
}

func TestNeedsRedis(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.NeedsRedis())
	assert.Equal(t, "essay:llm_usage", cfg.Observability.Usage.Stream)

	cfg.Security.RateLimit.Backend = RateLimitBackendRedis
	assert.True(t, cfg.NeedsRedis())

	cfg.Security.RateLimit.Enabled = false
	assert.False(t, cfg.NeedsRedis())

	cfg.Observability.Usage.StreamEnabled = true
	assert.True(t, cfg.NeedsRedis())
}
