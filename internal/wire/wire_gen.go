//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/infrastructure/remote"
	"veo-story-studio/internal/interfaces/http/handler"
	"veo-story-studio/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
// 手工维护，与 wire.go 中的 provider 集合保持一致
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	backend, cleanup, err := ProvideBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	healthHandler := ProvideHealthHandler(backend, cfg)
	kvStore := ProvideKVStore(backend)
	localCache := ProvideLocalCache(kvStore, cfg)
	notificationLog := ProvideNotificationLog(cfg)
	client := ProvideRemoteClient(cfg, localCache)
	projectClient := remote.NewProjectClient(client)
	authClient := remote.NewAuthClient(client)
	generationClient := remote.NewGenerationClient(client)
	paymentClient := remote.NewPaymentClient(client)
	service := ProvideStudioService(cfg, localCache, notificationLog, projectClient, authClient, generationClient, paymentClient)
	storyHandler := handler.NewStoryHandler(service)
	store := ProvideStore(service)
	entityHandler := handler.NewEntityHandler(store)
	sceneHandler := handler.NewSceneHandler(service)
	authHandler := handler.NewAuthHandler(service)
	projectHandler := handler.NewProjectHandler(service)
	generationHandler := handler.NewGenerationHandler(service)
	paymentHandler := handler.NewPaymentHandler(service)
	handlers := router.Handlers{
		Health:     healthHandler,
		Story:      storyHandler,
		Entity:     entityHandler,
		Scene:      sceneHandler,
		Auth:       authHandler,
		Project:    projectHandler,
		Generation: generationHandler,
		Payment:    paymentHandler,
	}
	rateLimiter := ProvideRateLimiter(backend)
	routerRouter := router.New(cfg, handlers, localCache, rateLimiter)
	app := &App{
		Router:  routerRouter,
		Service: service,
	}
	return app, func() {
		cleanup()
	}, nil
}
