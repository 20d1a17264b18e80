// Package studio 组合故事图存储、本地缓存与远端同步，提供编辑会话级的应用服务
package studio

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"veo-story-studio/internal/application/quota"
	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/application/story/prompt"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/logger"
	"veo-story-studio/pkg/metrics"
)

// 自动保存默认防抖时长
const (
	DefaultLocalSaveDelay  = time.Second
	DefaultRemoteSaveDelay = 2 * time.Second
)

// Options 会话参数
type Options struct {
	LocalSaveDelay  time.Duration
	RemoteSaveDelay time.Duration
}

// Deps 服务依赖
type Deps struct {
	Store         *story.Store
	Cache         *story.LocalCache
	Notifications *NotificationLog
	Projects      repository.ProjectRepository
	Auth          repository.AuthClient
	Generator     repository.StoryGenerator
	Payments      repository.PaymentClient
}

// Service 编辑会话服务
// 故事图的每次变更都会重新计时本地与远端两个自动保存，二者互不协调，均在触发时读取最新快照
type Service struct {
	store     *story.Store
	cache     *story.LocalCache
	notes     *NotificationLog
	projects  repository.ProjectRepository
	auth      repository.AuthClient
	generator repository.StoryGenerator
	payments  repository.PaymentClient
	quota     *quota.TokenQuotaChecker
	usage     *quota.UsageRecorder

	localSave  *Debouncer
	remoteSave *Debouncer

	mu      sync.RWMutex
	project *entity.Project

	loads    singleflight.Group
	openOnce sync.Once
	closed   atomic.Bool
}

// NewService 创建会话服务，调用 Open 之后才开始自动保存
func NewService(deps Deps, opts Options) *Service {
	if opts.LocalSaveDelay <= 0 {
		opts.LocalSaveDelay = DefaultLocalSaveDelay
	}
	if opts.RemoteSaveDelay <= 0 {
		opts.RemoteSaveDelay = DefaultRemoteSaveDelay
	}
	if deps.Notifications == nil {
		deps.Notifications = NewNotificationLog(0)
	}
	if deps.Store == nil {
		deps.Store = story.NewStore(deps.Notifications)
	}

	s := &Service{
		store:     deps.Store,
		cache:     deps.Cache,
		notes:     deps.Notifications,
		projects:  deps.Projects,
		auth:      deps.Auth,
		generator: deps.Generator,
		payments:  deps.Payments,
		quota:     quota.NewTokenQuotaChecker(),
		usage:     quota.NewUsageRecorder(deps.Payments, deps.Cache),
	}
	s.localSave = NewDebouncer(opts.LocalSaveDelay, s.autoSaveLocal)
	s.remoteSave = NewDebouncer(opts.RemoteSaveDelay, s.autoSaveRemote)
	return s
}

// Store 故事图存储
func (s *Service) Store() *story.Store {
	return s.store
}

// Cache 本地缓存
func (s *Service) Cache() *story.LocalCache {
	return s.cache
}

// Notifications 通知记录
func (s *Service) Notifications() *NotificationLog {
	return s.notes
}

// Open 从本地缓存恢复故事图并开始监听变更
// 本地数据损坏或读取失败时以空故事图启动
func (s *Service) Open(ctx context.Context) error {
	s.openOnce.Do(func() {
		state, repaired, err := s.cache.LoadStateRepaired(ctx)
		if err != nil {
			logger.Error(ctx, "failed to load local state", err)
			state = entity.EmptyStoryData()
		}
		s.store.Replace(ctx, state)
		s.store.OnChange(s.onChange)
		// 修复后的 ID 立即写回，否则每次启动都会重新分配
		if repaired > 0 {
			logger.Warn(ctx, "repaired local story ids", "count", repaired)
			if err := s.saveLocal(ctx); err != nil {
				logger.Error(ctx, "failed to persist repaired ids", err)
			}
		}
		logger.Info(ctx, "studio session opened",
			"characters", len(state.Characters),
			"locations", len(state.Locations),
			"scenes", len(state.Scenes),
		)
	})
	return nil
}

func (s *Service) onChange(story.ChangeEvent) {
	if s.closed.Load() {
		return
	}
	s.localSave.Trigger()
	if s.ProjectID() != "" {
		s.remoteSave.Trigger()
	}
}

// Flush 立即执行两个自动保存并取消尚未到期的计划
func (s *Service) Flush(ctx context.Context) error {
	s.localSave.Cancel()
	s.remoteSave.Cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.saveLocal(gctx) })
	g.Go(func() error { return s.saveRemote(gctx) })
	return g.Wait()
}

// Close 停止自动保存，之后不会再有任何写入
func (s *Service) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.localSave.Stop()
	s.remoteSave.Stop()
}

func (s *Service) autoSaveLocal() {
	if s.closed.Load() {
		return
	}
	ctx := context.Background()
	if err := s.saveLocal(ctx); err != nil {
		logger.Error(ctx, "local auto-save failed", err)
		s.notes.Notify(ctx, story.LevelError, "Failed to save project")
	}
}

func (s *Service) autoSaveRemote() {
	if s.closed.Load() {
		return
	}
	ctx := context.Background()
	if err := s.saveRemote(ctx); err != nil {
		logger.Error(ctx, "remote auto-save failed", err, "project_id", s.ProjectID())
		s.notes.Notify(ctx, story.LevelError, "Failed to save project")
	}
}

// saveLocal 故事图非空时写入本地缓存并追加版本
func (s *Service) saveLocal(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.IsEmpty() {
		return nil
	}
	err := s.cache.AutoSave(ctx, snap)
	metrics.AutoSaveTotal.WithLabelValues("local", statusLabel(err)).Inc()
	return err
}

// saveRemote 已绑定项目且故事图非空时推送到远端
func (s *Service) saveRemote(ctx context.Context) error {
	id := s.ProjectID()
	if id == "" || s.projects == nil {
		return nil
	}
	snap := s.store.Snapshot()
	if snap.IsEmpty() {
		return nil
	}
	_, err := s.projects.Update(ctx, id, entity.ProjectUpdate{Data: &snap})
	metrics.AutoSaveTotal.WithLabelValues("remote", statusLabel(err)).Inc()
	return err
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ---------------- 版本 ----------------

// Versions 版本历史，按时间正序
func (s *Service) Versions(ctx context.Context) ([]entity.Version, error) {
	return s.cache.LoadVersions(ctx)
}

// RestoreVersion 以版本快照替换当前故事图
func (s *Service) RestoreVersion(ctx context.Context, id string) (entity.Version, error) {
	versions, err := s.cache.LoadVersions(ctx)
	if err != nil {
		return entity.Version{}, err
	}
	idx := slices.IndexFunc(versions, func(v entity.Version) bool { return v.ID == id })
	if idx < 0 {
		return entity.Version{}, apperrors.ErrVersionNotFound
	}
	v := versions[idx]
	s.store.Replace(ctx, v.Data())
	s.notes.Notify(ctx, story.LevelSuccess, "Version restored")
	return v, nil
}

// ---------------- 场景排序 ----------------

// ReorderScenesByID 按给定 ID 顺序重排场景并重写 order 字段
// ids 必须恰好是当前全部场景 ID 的一个排列
func (s *Service) ReorderScenesByID(ctx context.Context, ids []string) ([]entity.Scene, error) {
	return s.store.ReorderScenesByID(ctx, ids)
}

// ---------------- 提示词 ----------------

// Prompts 逐场景提示词
func (s *Service) Prompts() []prompt.ScenePromptDoc {
	snap := s.store.Snapshot()
	return prompt.BuildAllSceneVeoPrompts(snap.Characters, snap.Locations, snap.Scenes)
}

// CombinedPrompt 合并后的提示词文档
func (s *Service) CombinedPrompt() string {
	snap := s.store.Snapshot()
	return prompt.BuildVEOPrompt(snap.Characters, snap.Locations, snap.Scenes)
}

// Preview 故事概览
func (s *Service) Preview() string {
	snap := s.store.Snapshot()
	return prompt.BuildStoryPreview(snap.Characters, snap.Locations, snap.Scenes)
}

// ---------------- 偏好 ----------------

// Theme 当前主题
func (s *Service) Theme(ctx context.Context) (string, error) {
	return s.cache.Theme(ctx)
}

// SetTheme 设置主题
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != entity.ThemeDark && theme != entity.ThemeLight {
		return apperrors.ErrInvalidParam.WithDetail("theme must be dark or light")
	}
	return s.cache.SetTheme(ctx, theme)
}

// ToggleTheme 在深浅主题间切换
func (s *Service) ToggleTheme(ctx context.Context) (string, error) {
	current, err := s.cache.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := entity.ThemeLight
	if current == entity.ThemeLight {
		next = entity.ThemeDark
	}
	return next, s.cache.SetTheme(ctx, next)
}

// Settings 用户偏好
func (s *Service) Settings(ctx context.Context) (entity.Settings, error) {
	return s.cache.Settings(ctx)
}

// SaveSettings 保存用户偏好
func (s *Service) SaveSettings(ctx context.Context, settings entity.Settings) error {
	return s.cache.SaveSettings(ctx, settings)
}
