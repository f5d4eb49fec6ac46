// Package router 提供 HTTP 路由配置
package router

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/interfaces/http/dto"
	"essay-ai-api/internal/interfaces/http/handler"
	"essay-ai-api/internal/interfaces/http/middleware"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
)

// APIPrefix 生成接口前缀，限流只作用于该前缀
const APIPrefix = "/api"

// Deps 路由依赖
type Deps struct {
	Generator handler.Generator
	Limiter   middleware.RateLimiter
	// Checks 就绪检查依赖，按名称展示
	Checks map[string]handler.HealthChecker
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	deps   Deps
}

// New 创建新的路由器
func New(cfg *config.Config, deps Deps) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 未配置代理时取 TCP 对端地址；配置已在加载时校验，这里失败则不信任任何代理
	if err := engine.SetTrustedProxies(cfg.Server.HTTP.TrustedProxies); err != nil {
		logger.Warn(context.Background(), "invalid trusted proxies, falling back to peer address",
			"trusted_proxies", cfg.Server.HTTP.TrustedProxies,
			"error", err.Error(),
		)
		_ = engine.SetTrustedProxies(nil)
	}

	r := &Router{
		engine: engine,
		cfg:    cfg,
		deps:   deps,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Audit(middleware.AuditConfig{
		SkipPaths: middleware.DefaultAuditSkipPaths,
	}))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	healthHandler := handler.NewHealthHandler(r.cfg.App.Version, r.deps.Checks)

	// 系统端点
	r.engine.GET("/health", healthHandler.Health)
	r.engine.GET("/ready", healthHandler.Ready)
	r.engine.GET("/live", healthHandler.Live)

	// Prometheus 指标端点，独立端口时由 metrics server 提供
	if r.cfg.Observability.Metrics.Enabled && !r.cfg.SeparateMetricsServer() {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	rl := r.cfg.Security.RateLimit
	api := r.engine.Group(APIPrefix)
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:   rl.Enabled,
		Requests:  rl.Requests,
		Window:    rl.Window,
		KeyPrefix: rl.KeyPrefix,
	}, r.deps.Limiter))
	{
		generation := handler.NewGenerationHandler(r.deps.Generator)
		for _, route := range handler.GenerationRoutes {
			api.POST(route.Path, generation.Handle(route))
		}
	}

	r.engine.NoRoute(r.notFound(r.cfg.Server.Static.Dir))
}

// notFound 未匹配路由：GET/HEAD 尝试静态资源，其余返回 404
func (r *Router) notFound(dir string) gin.HandlerFunc {
	var files http.Handler
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			files = http.FileServer(http.Dir(dir))
		}
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		reqPath := c.Request.URL.Path
		isAPI := reqPath == APIPrefix || strings.HasPrefix(reqPath, APIPrefix+"/")
		if files != nil && !isAPI && (method == http.MethodGet || method == http.MethodHead) && exists(dir, reqPath) {
			files.ServeHTTP(c.Writer, c.Request)
			return
		}
		dto.AbortAppError(c, apperrors.ErrNotFound.WithDetail("no route or static file for "+reqPath))
	}
}

// exists 请求路径在静态目录下是否存在（目录需含 index.html）
func exists(dir, reqPath string) bool {
	name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+reqPath)))
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(name, "index.html"))
		return err == nil
	}
	return true
}
