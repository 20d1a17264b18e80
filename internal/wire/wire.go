//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/internal/infrastructure/remote"
	"veo-story-studio/internal/interfaces/http/handler"
	"veo-story-studio/internal/interfaces/http/middleware"
	"veo-story-studio/internal/interfaces/http/router"
)

// StorageSet 存储后端与本地缓存
var StorageSet = wire.NewSet(
	ProvideBackend,
	ProvideKVStore,
	ProvideRateLimiter,
	ProvideLocalCache,
)

// RemoteSet 远端 API 客户端
var RemoteSet = wire.NewSet(
	ProvideRemoteClient,
	remote.NewProjectClient,
	remote.NewAuthClient,
	remote.NewGenerationClient,
	remote.NewPaymentClient,
	wire.Bind(new(repository.ProjectRepository), new(*remote.ProjectClient)),
	wire.Bind(new(repository.AuthClient), new(*remote.AuthClient)),
	wire.Bind(new(repository.StoryGenerator), new(*remote.GenerationClient)),
	wire.Bind(new(repository.PaymentClient), new(*remote.PaymentClient)),
)

// StudioSet 编辑会话
var StudioSet = wire.NewSet(
	ProvideNotificationLog,
	ProvideStudioService,
	ProvideStore,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewStoryHandler,
	handler.NewEntityHandler,
	handler.NewSceneHandler,
	handler.NewAuthHandler,
	handler.NewProjectHandler,
	handler.NewGenerationHandler,
	handler.NewPaymentHandler,
	wire.Struct(new(router.Handlers), "*"),
	wire.Bind(new(middleware.SessionReader), new(*story.LocalCache)),
	router.New,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		StorageSet,
		RemoteSet,
		StudioSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
