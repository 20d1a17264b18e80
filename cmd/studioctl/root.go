package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/infrastructure/persistence"
	"veo-story-studio/pkg/logger"
)

const rootLongDesc string = `studioctl inspects the story graph kept in the local cache.

It opens the storage backend configured for studio-api and only reads
from it: prompts can be compiled, versions listed and entities validated
while the server is stopped or running.`

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "studioctl",
		Short:        "Inspect the local Veo story cache",
		Long:         rootLongDesc,
		SilenceUsage: true,
	}
	cmd.PersistentPreRun = func(*cobra.Command, []string) {
		_ = godotenv.Load()
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.yaml")

	cmd.AddCommand(
		newPromptsCmd(&configPath),
		newPreviewCmd(&configPath),
		newVersionsCmd(&configPath),
		newValidateCmd(&configPath),
	)
	return cmd
}

// session 只读会话
type session struct {
	cache   *story.LocalCache
	backend *persistence.Backend
}

func (s *session) Close() {
	_ = s.backend.Close()
}

// openSession 加载配置并打开存储后端；日志写到 stderr，stdout 只输出结果
func openSession(ctx context.Context, configPath string) (*session, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.InitWithWriter(os.Stderr, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	backend, err := persistence.Open(ctx, &cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &session{
		cache:   story.NewLocalCache(backend.KV, cfg.Storage.KeyPrefix, cfg.Studio.MaxVersions),
		backend: backend,
	}, nil
}

// loadState 读取故事图
func loadState(cmd *cobra.Command, configPath string) (entity.StoryData, error) {
	ctx := cmd.Context()
	s, err := openSession(ctx, configPath)
	if err != nil {
		return entity.StoryData{}, err
	}
	defer s.Close()
	return s.cache.LoadState(ctx)
}
