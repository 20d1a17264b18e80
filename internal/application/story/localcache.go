package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/logger"
	"veo-story-studio/pkg/metrics"
	"veo-story-studio/pkg/utils"
)

// 本地缓存键
const (
	KeyCharacters = "veo_characters"
	KeyLocations  = "veo_locations"
	KeyScenes     = "veo_scenes"
	KeyVersions   = "veo_versions"
	KeyTheme      = "veo_theme"
	KeySettings   = "veo_settings"
	KeyAuthToken  = "auth_token"
	KeyAuthUser   = "auth_user"
)

// DefaultMaxVersions 版本历史默认容量
const DefaultMaxVersions = 50

// appKeys 应用数据键，不含会话键
var appKeys = []string{KeyCharacters, KeyLocations, KeyScenes, KeyVersions, KeyTheme, KeySettings}

// LocalCache 故事图的本地持久缓存
// 每个键保存一个 JSON 文档；读到损坏的 JSON 时按默认值处理
type LocalCache struct {
	kv          repository.KVStore
	prefix      string
	maxVersions int

	// versionMu 串行化版本历史的读改写
	versionMu sync.Mutex
	lastStamp int64
}

// NewLocalCache 创建本地缓存
func NewLocalCache(kv repository.KVStore, prefix string, maxVersions int) *LocalCache {
	if maxVersions <= 0 {
		maxVersions = DefaultMaxVersions
	}
	return &LocalCache{kv: kv, prefix: prefix, maxVersions: maxVersions}
}

func (c *LocalCache) key(name string) string {
	return c.prefix + name
}

func (c *LocalCache) save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheError, fmt.Sprintf("encode %s", name))
	}
	if err := c.kv.Set(ctx, c.key(name), data); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, fmt.Sprintf("save %s", name))
	}
	return nil
}

// load 读取键到 dst；返回 false 表示键不存在或内容损坏，dst 保持调用方给定的默认值
func (c *LocalCache) load(ctx context.Context, name string, dst any) (bool, error) {
	data, err := c.kv.Get(ctx, c.key(name))
	if errors.Is(err, repository.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeStorageError, fmt.Sprintf("load %s", name))
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn(ctx, "corrupt cache entry, using default", "key", name, "error", err)
		return false, nil
	}
	return true, nil
}

// AutoSave 写入三个集合后追加一个版本快照
func (c *LocalCache) AutoSave(ctx context.Context, data entity.StoryData) error {
	data = normalize(data)
	if err := c.save(ctx, KeyCharacters, data.Characters); err != nil {
		return err
	}
	if err := c.save(ctx, KeyLocations, data.Locations); err != nil {
		return err
	}
	if err := c.save(ctx, KeyScenes, data.Scenes); err != nil {
		return err
	}
	_, err := c.SaveVersion(ctx, data)
	return err
}

// SaveVersion 追加版本快照，超出容量时丢弃最旧的版本
func (c *LocalCache) SaveVersion(ctx context.Context, data entity.StoryData) (entity.Version, error) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()

	versions, err := c.loadVersions(ctx)
	if err != nil {
		return entity.Version{}, err
	}

	now := c.nextStamp(versions)
	snap := normalize(data).Clone()
	v := entity.Version{
		ID:         utils.VersionID(now),
		Timestamp:  now,
		Characters: snap.Characters,
		Locations:  snap.Locations,
		Scenes:     snap.Scenes,
	}

	versions = append(versions, v)
	if over := len(versions) - c.maxVersions; over > 0 {
		versions = versions[over:]
	}

	if err := c.save(ctx, KeyVersions, versions); err != nil {
		return entity.Version{}, err
	}
	metrics.VersionHistorySize.Set(float64(len(versions)))
	return v, nil
}

// nextStamp 返回严格递增的毫秒时间戳，保证同一毫秒内的版本 ID 不重复
func (c *LocalCache) nextStamp(existing []entity.Version) int64 {
	now := time.Now().UnixMilli()
	last := c.lastStamp
	if n := len(existing); n > 0 && existing[n-1].Timestamp > last {
		last = existing[n-1].Timestamp
	}
	if now <= last {
		now = last + 1
	}
	c.lastStamp = now
	return now
}

// LoadVersions 按时间正序返回版本历史
func (c *LocalCache) LoadVersions(ctx context.Context) ([]entity.Version, error) {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()
	return c.loadVersions(ctx)
}

func (c *LocalCache) loadVersions(ctx context.Context) ([]entity.Version, error) {
	versions := []entity.Version{}
	if _, err := c.load(ctx, KeyVersions, &versions); err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []entity.Version{}
	}
	return versions, nil
}

// LoadState 读取三个集合并修复缺失或重复的 ID
func (c *LocalCache) LoadState(ctx context.Context) (entity.StoryData, error) {
	data, _, err := c.LoadStateRepaired(ctx)
	return data, err
}

// LoadStateRepaired 同 LoadState，额外返回被重新分配 ID 的元素数量
// 修复结果不会写回，调用方需要时自行 AutoSave
func (c *LocalCache) LoadStateRepaired(ctx context.Context) (entity.StoryData, int, error) {
	data := entity.EmptyStoryData()

	if _, err := c.load(ctx, KeyCharacters, &data.Characters); err != nil {
		return entity.EmptyStoryData(), 0, err
	}
	if _, err := c.load(ctx, KeyLocations, &data.Locations); err != nil {
		return entity.EmptyStoryData(), 0, err
	}
	if _, err := c.load(ctx, KeyScenes, &data.Scenes); err != nil {
		return entity.EmptyStoryData(), 0, err
	}

	data = normalize(data)
	repaired := repairIDs(data.Characters, utils.PrefixCharacter, func(c *entity.Character) *string { return &c.ID })
	repaired += repairIDs(data.Locations, utils.PrefixLocation, func(l *entity.Location) *string { return &l.ID })
	repaired += repairIDs(data.Scenes, utils.PrefixScene, func(s *entity.Scene) *string { return &s.ID })
	for i := range data.Scenes {
		if data.Scenes[i].Shots == nil {
			data.Scenes[i].Shots = []entity.Shot{}
		}
		repaired += repairIDs(data.Scenes[i].Shots, utils.PrefixShot, func(s *entity.Shot) *string { return &s.ID })
	}
	return data, repaired, nil
}

// repairIDs 为缺失或与前面元素重复的 ID 重新分配，保留首次出现者，返回重新分配的数量
func repairIDs[T any](items []T, prefix string, id func(*T) *string) int {
	repaired := 0
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		p := id(&items[i])
		if _, dup := seen[*p]; *p == "" || dup {
			*p = utils.NewID(prefix)
			repaired++
		}
		seen[*p] = struct{}{}
	}
	return repaired
}

// normalize nil 集合替换为空切片，保证序列化为 []
func normalize(d entity.StoryData) entity.StoryData {
	if d.Characters == nil {
		d.Characters = []entity.Character{}
	}
	if d.Locations == nil {
		d.Locations = []entity.Location{}
	}
	if d.Scenes == nil {
		d.Scenes = []entity.Scene{}
	}
	return d
}

// ClearStory 删除三个故事图键，版本历史保留
func (c *LocalCache) ClearStory(ctx context.Context) error {
	return c.remove(ctx, KeyCharacters, KeyLocations, KeyScenes)
}

// ClearAll 删除所有应用数据键（不含登录会话）
func (c *LocalCache) ClearAll(ctx context.Context) error {
	if err := c.remove(ctx, appKeys...); err != nil {
		return err
	}
	metrics.VersionHistorySize.Set(0)
	return nil
}

func (c *LocalCache) remove(ctx context.Context, names ...string) error {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = c.key(name)
	}
	if err := c.kv.Delete(ctx, keys...); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, "remove keys")
	}
	return nil
}

// Theme 当前主题，默认 dark
func (c *LocalCache) Theme(ctx context.Context) (string, error) {
	theme := entity.ThemeDark
	if _, err := c.load(ctx, KeyTheme, &theme); err != nil {
		return entity.ThemeDark, err
	}
	if theme == "" {
		theme = entity.ThemeDark
	}
	return theme, nil
}

// SetTheme 保存主题
func (c *LocalCache) SetTheme(ctx context.Context, theme string) error {
	return c.save(ctx, KeyTheme, theme)
}

// Settings 用户偏好，未保存过时返回默认值
func (c *LocalCache) Settings(ctx context.Context) (entity.Settings, error) {
	settings := entity.Settings{}
	ok, err := c.load(ctx, KeySettings, &settings)
	if err != nil {
		return entity.DefaultSettings(), err
	}
	if !ok || settings == nil {
		return entity.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings 保存用户偏好
func (c *LocalCache) SaveSettings(ctx context.Context, settings entity.Settings) error {
	if settings == nil {
		settings = entity.Settings{}
	}
	return c.save(ctx, KeySettings, settings)
}

// Token 当前会话 Token，实现 repository.TokenSource
func (c *LocalCache) Token(ctx context.Context) string {
	data, err := c.kv.Get(ctx, c.key(KeyAuthToken))
	if err != nil {
		return ""
	}
	return string(data)
}

// SetSession 保存登录会话；Token 以原始字符串保存
func (c *LocalCache) SetSession(ctx context.Context, s entity.Session) error {
	if err := c.kv.Set(ctx, c.key(KeyAuthToken), []byte(s.Token)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, "save session token")
	}
	return c.SetUser(ctx, s.User)
}

// SetUser 更新会话用户（如余额变化）
func (c *LocalCache) SetUser(ctx context.Context, u entity.User) error {
	return c.save(ctx, KeyAuthUser, u)
}

// User 当前会话用户；未登录时返回 nil
func (c *LocalCache) User(ctx context.Context) (*entity.User, error) {
	var u entity.User
	ok, err := c.load(ctx, KeyAuthUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// ClearSession 退出登录
func (c *LocalCache) ClearSession(ctx context.Context) error {
	return c.remove(ctx, KeyAuthToken, KeyAuthUser)
}

var _ repository.TokenSource = (*LocalCache)(nil)
