// Package router 提供 HTTP 路由配置
package router

import (
	"veo-story-studio/internal/config"
	"veo-story-studio/internal/interfaces/http/handler"
	"veo-story-studio/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	Health     *handler.HealthHandler
	Story      *handler.StoryHandler
	Entity     *handler.EntityHandler
	Scene      *handler.SceneHandler
	Auth       *handler.AuthHandler
	Project    *handler.ProjectHandler
	Generation *handler.GenerationHandler
	Payment    *handler.PaymentHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	sessions middleware.SessionReader
	limiter  middleware.RateLimiter
}

// New 创建新的路由器；limiter 为空时生成接口不限流
func New(cfg *config.Config, handlers Handlers, sessions middleware.SessionReader, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		sessions: sessions,
		limiter:  limiter,
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
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	r.engine.Use(middleware.Audit(middleware.AuditConfig{SkipPaths: middleware.DefaultAuditSkipPaths}))

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	health := r.handlers.Health
	r.engine.GET("/health", health.Health)
	r.engine.GET("/health/live", health.Live)
	r.engine.GET("/health/ready", health.Ready)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	RegisterV1Routes(
		r.engine.Group("/v1"),
		r.handlers,
		middleware.RequireSession(r.sessions),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           r.cfg.Security.RateLimit.Enabled,
			RequestsPerMinute: r.cfg.Security.RateLimit.RequestsPerMinute,
		}, r.limiter),
	)
}
