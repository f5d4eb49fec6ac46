// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultSystemPrompt 固定的系统指令
const DefaultSystemPrompt = "You are a professional academic writer."

var envPlaceholder = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 加载配置
// 按优先级加载：默认值 -> configs/config.yaml -> configs/config.{APP_ENV}.yaml -> 环境变量
// 配置文件均为可选，仅靠环境变量即可启动
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "configs"
	}

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml")); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := loadConfigFile(v, filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))); err != nil {
		return nil, err
	}

	// 环境变量直接覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并合并到 viper；文件不存在时跳过
func loadConfigFile(v *viper.Viper, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))
	if err := v.MergeConfig(strings.NewReader(expanded)); err != nil {
		return fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
// 未定义且无默认值的变量替换为空串，交给 Validate 报告
func expandEnv(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPlaceholder.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return ""
	})
}

// bindEnv 绑定与 key 路径不一致的环境变量名
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"llm.api_key":          {"AI_API_KEY", "LLM_API_KEY"},
		"llm.base_url":         {"AI_API_URL", "LLM_BASE_URL"},
		"llm.model":            {"AI_MODEL", "LLM_MODEL"},
		"llm.driver":           {"LLM_DRIVER"},
		"server.http.port":     {"PORT", "SERVER_HTTP_PORT"},
		"server.static.dir":    {"STATIC_DIR", "SERVER_STATIC_DIR"},
		"cache.redis.host":     {"REDIS_HOST", "CACHE_REDIS_HOST"},
		"cache.redis.port":     {"REDIS_PORT", "CACHE_REDIS_PORT"},
		"cache.redis.password": {"REDIS_PASSWORD", "CACHE_REDIS_PASSWORD"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.LLM.Driver = strings.ToLower(strings.TrimSpace(cfg.LLM.Driver))
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLM.BaseURL), "/")
	if strings.TrimSpace(cfg.LLM.SystemPrompt) == "" {
		cfg.LLM.SystemPrompt = DefaultSystemPrompt
	}
	cfg.Security.RateLimit.Backend = strings.ToLower(strings.TrimSpace(cfg.Security.RateLimit.Backend))
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 应用默认值
	v.SetDefault("app.name", "essay-ai-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 3000)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "120s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")
	v.SetDefault("server.http.trusted_proxies", []string{})
	v.SetDefault("server.static.dir", "public")

	// LLM 默认值
	v.SetDefault("llm.driver", DriverEino)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.system_prompt", DefaultSystemPrompt)

	// Redis 默认值
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 0)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.usage.stream_enabled", false)
	v.SetDefault("observability.usage.stream", "essay:llm_usage")
	v.SetDefault("observability.usage.max_len", 100000)

	// 安全默认值：每个地址 15 分钟 100 次
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.backend", RateLimitBackendMemory)
	v.SetDefault("security.rate_limit.requests", 100)
	v.SetDefault("security.rate_limit.window", "15m")
	v.SetDefault("security.rate_limit.key_prefix", "ratelimit")
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
}
