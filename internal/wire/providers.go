// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/internal/infrastructure/persistence"
	"veo-story-studio/internal/infrastructure/remote"
	"veo-story-studio/internal/interfaces/http/handler"
	"veo-story-studio/internal/interfaces/http/middleware"
	"veo-story-studio/internal/interfaces/http/router"
	"veo-story-studio/pkg/logger"
)

// App 组装完成的应用
type App struct {
	Router  *router.Router
	Service *studio.Service
}

// ProvideBackend 打开存储后端
func ProvideBackend(ctx context.Context, cfg *config.Config) (*persistence.Backend, func(), error) {
	backend, err := persistence.Open(ctx, &cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Error(ctx, "failed to close storage backend", err)
		}
	}
	return backend, cleanup, nil
}

// ProvideKVStore 存储后端的键值接口
func ProvideKVStore(backend *persistence.Backend) repository.KVStore {
	return backend.KV
}

// ProvideRateLimiter 生成接口限流器；非 redis 驱动返回 nil，中间件随之放行
func ProvideRateLimiter(backend *persistence.Backend) middleware.RateLimiter {
	if backend.Limiter == nil {
		return nil
	}
	return backend.Limiter
}

// ProvideLocalCache 本地缓存
func ProvideLocalCache(kv repository.KVStore, cfg *config.Config) *story.LocalCache {
	return story.NewLocalCache(kv, cfg.Storage.KeyPrefix, cfg.Studio.MaxVersions)
}

// ProvideRemoteClient 远端客户端，Token 取自本地会话
func ProvideRemoteClient(cfg *config.Config, cache *story.LocalCache) *remote.Client {
	return remote.NewClient(&cfg.Remote, cache)
}

// ProvideNotificationLog 通知记录
func ProvideNotificationLog(cfg *config.Config) *studio.NotificationLog {
	return studio.NewNotificationLog(cfg.Studio.NotificationBuffer)
}

// ProvideStudioService 编辑会话服务
func ProvideStudioService(
	cfg *config.Config,
	cache *story.LocalCache,
	notes *studio.NotificationLog,
	projects repository.ProjectRepository,
	auth repository.AuthClient,
	generator repository.StoryGenerator,
	payments repository.PaymentClient,
) *studio.Service {
	return studio.NewService(studio.Deps{
		Store:         story.NewStore(notes),
		Cache:         cache,
		Notifications: notes,
		Projects:      projects,
		Auth:          auth,
		Generator:     generator,
		Payments:      payments,
	}, studio.Options{
		LocalSaveDelay:  cfg.Studio.LocalSaveDelay,
		RemoteSaveDelay: cfg.Studio.RemoteSaveDelay,
	})
}

// ProvideStore 会话内的故事图存储
func ProvideStore(svc *studio.Service) *story.Store {
	return svc.Store()
}

// ProvideHealthHandler 健康检查处理器
func ProvideHealthHandler(backend *persistence.Backend, cfg *config.Config) *handler.HealthHandler {
	return handler.NewHealthHandler(backend.HealthChecker(), cfg.App.Version)
}
