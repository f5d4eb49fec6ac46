// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// LLM 驱动
const (
	DriverEino   = "eino"
	DriverOpenAI = "openai"
)

// 限流存储后端
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP   HTTPServerConfig `yaml:"http" mapstructure:"http"`
	Static StaticConfig     `yaml:"static" mapstructure:"static"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	// TrustedProxies 为空时不信任任何代理，客户端地址取 TCP 对端地址
	TrustedProxies []string `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`
}

// StaticConfig 静态资源配置
type StaticConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LLMConfig 文本补全服务配置
type LLMConfig struct {
	// Driver 客户端实现：eino / openai
	Driver       string        `yaml:"driver" mapstructure:"driver"`
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Model        string        `yaml:"model" mapstructure:"model"`
	Temperature  float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SystemPrompt string        `yaml:"system_prompt" mapstructure:"system_prompt"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Usage   UsageConfig   `yaml:"usage" mapstructure:"usage"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
// Port 为 0 或与 HTTP 端口相同时，指标挂在主服务上
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Port    int    `yaml:"port" mapstructure:"port"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// UsageConfig 用量事件配置，启用后写入 Redis Stream
type UsageConfig struct {
	StreamEnabled bool   `yaml:"stream_enabled" mapstructure:"stream_enabled"`
	Stream        string `yaml:"stream" mapstructure:"stream"`
	MaxLen        int64  `yaml:"max_len" mapstructure:"max_len"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置（滑动窗口，按客户端地址）
type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"`
	Requests  int           `yaml:"requests" mapstructure:"requests"`
	Window    time.Duration `yaml:"window" mapstructure:"window"`
	KeyPrefix string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// Validate 校验启动必需配置，缺失 API Key / Endpoint 时返回错误，由调用方终止进程
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.LLM.APIKey) == "" {
		problems = append(problems, "llm.api_key is required (set AI_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		problems = append(problems, "llm.base_url is required (set AI_API_URL)")
	} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("llm.base_url is not an absolute URL: %q", c.LLM.BaseURL))
	}
	switch c.LLM.Driver {
	case DriverEino, DriverOpenAI:
	default:
		problems = append(problems, fmt.Sprintf("llm.driver must be %q or %q, got %q", DriverEino, DriverOpenAI, c.LLM.Driver))
	}
	if c.LLM.Timeout <= 0 {
		problems = append(problems, "llm.timeout must be positive")
	}

	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.http.port out of range: %d", c.Server.HTTP.Port))
	}
	for _, proxy := range c.Server.HTTP.TrustedProxies {
		if !validProxy(proxy) {
			problems = append(problems, fmt.Sprintf("server.http.trusted_proxies entry is not an IP or CIDR: %q", proxy))
		}
	}

	rl := c.Security.RateLimit
	if rl.Enabled {
		switch rl.Backend {
		case RateLimitBackendMemory, RateLimitBackendRedis:
		default:
			problems = append(problems, fmt.Sprintf("security.rate_limit.backend must be %q or %q, got %q", RateLimitBackendMemory, RateLimitBackendRedis, rl.Backend))
		}
		if rl.Requests <= 0 {
			problems = append(problems, "security.rate_limit.requests must be positive")
		}
		if rl.Window <= 0 {
			problems = append(problems, "security.rate_limit.window must be positive")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// validProxy 与 gin 的解析规则一致：IP 或 CIDR
func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}

// NeedsRedis 是否有组件依赖 Redis
func (c *Config) NeedsRedis() bool {
	rl := c.Security.RateLimit
	return (rl.Enabled && rl.Backend == RateLimitBackendRedis) || c.Observability.Usage.StreamEnabled
}

// HTTPAddr 返回 HTTP 监听地址
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.HTTP.Host, c.Server.HTTP.Port)
}

// SeparateMetricsServer 指标是否需要独立监听
func (c *Config) SeparateMetricsServer() bool {
	m := c.Observability.Metrics
	return m.Enabled && m.Port > 0 && m.Port != c.Server.HTTP.Port
}
