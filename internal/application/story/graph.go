package story

import (
	"context"
	"slices"
	"sync"
	"time"

	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/metrics"
	"veo-story-studio/pkg/utils"
)

// 变更事件中的实体类别
const (
	KindCharacter = "character"
	KindLocation  = "location"
	KindScene     = "scene"
	KindShot      = "shot"
	KindStory     = "story"
)

// 变更操作
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
	OpClear   = "clear"
	OpReplace = "replace"
)

// ChangeEvent 故事图变更事件
type ChangeEvent struct {
	Kind string
	Op   string
	ID   string
}

// DeleteOutcome 删除结果
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota
	DeleteNotFound
	DeleteLocked
)

// Store 故事图内存存储，持有角色、地点、场景（含镜头）三个有序集合
// 锁定仅阻止删除；Store 不做字段校验，也不维护引用完整性
type Store struct {
	mu         sync.RWMutex
	characters []entity.Character
	locations  []entity.Location
	scenes     []entity.Scene

	notifier  Notifier
	listenMu  sync.RWMutex
	listeners []func(ChangeEvent)
}

// NewStore 创建空的故事图存储
func NewStore(notifier Notifier) *Store {
	if notifier == nil {
		notifier = NopNotifier
	}
	return &Store{
		characters: []entity.Character{},
		locations:  []entity.Location{},
		scenes:     []entity.Scene{},
		notifier:   notifier,
	}
}

// OnChange 注册变更监听，监听器在写锁释放后同步调用
func (s *Store) OnChange(fn func(ChangeEvent)) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(ev ChangeEvent) {
	metrics.StoryMutationsTotal.WithLabelValues(ev.Kind, ev.Op).Inc()

	s.listenMu.RLock()
	listeners := append([]func(ChangeEvent){}, s.listeners...)
	s.listenMu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *Store) notify(ctx context.Context, level NotificationLevel, msg string) {
	s.notifier.Notify(ctx, level, msg)
}

// ---------------- 角色 ----------------

// AddCharacter 以默认值合并补丁后追加角色，分配 ID 与创建时间
func (s *Store) AddCharacter(ctx context.Context, p entity.CharacterPatch, silent bool) entity.Character {
	c := entity.NewCharacter()
	p.Apply(&c)
	c.ID = utils.NewID(utils.PrefixCharacter)
	c.CreatedAt = time.Now().UnixMilli()

	s.mu.Lock()
	s.characters = append(s.characters, c)
	s.mu.Unlock()

	if !silent {
		s.notify(ctx, LevelSuccess, "Character created successfully")
	}
	s.emit(ChangeEvent{Kind: KindCharacter, Op: OpAdd, ID: c.ID})
	return c
}

// UpdateCharacter 浅合并更新角色；ID 不存在时不做任何事
func (s *Store) UpdateCharacter(ctx context.Context, id string, p entity.CharacterPatch) (entity.Character, bool) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.characters, func(c entity.Character) bool { return c.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return entity.Character{}, false
	}
	p.Apply(&s.characters[idx])
	updated := s.characters[idx]
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Character updated")
	s.emit(ChangeEvent{Kind: KindCharacter, Op: OpUpdate, ID: id})
	return updated, true
}

// DeleteCharacter 删除角色；锁定角色仅通知不删除，不清理镜头中的名字引用
func (s *Store) DeleteCharacter(ctx context.Context, id string) DeleteOutcome {
	s.mu.Lock()
	idx := slices.IndexFunc(s.characters, func(c entity.Character) bool { return c.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return DeleteNotFound
	}
	if s.characters[idx].Locked {
		s.mu.Unlock()
		s.notify(ctx, LevelError, "Cannot delete locked character")
		return DeleteLocked
	}
	s.characters = slices.Delete(s.characters, idx, idx+1)
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Character deleted")
	s.emit(ChangeEvent{Kind: KindCharacter, Op: OpDelete, ID: id})
	return Deleted
}

// Character 按 ID 查找角色
func (s *Store) Character(id string) (entity.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.characters, func(c entity.Character) bool { return c.ID == id })
	if idx < 0 {
		return entity.Character{}, false
	}
	return s.characters[idx], true
}

// Characters 返回角色列表副本（插入顺序）
func (s *Store) Characters() []entity.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Character{}, s.characters...)
}

// ---------------- 地点 ----------------

// AddLocation 以默认值合并补丁后追加地点
func (s *Store) AddLocation(ctx context.Context, p entity.LocationPatch, silent bool) entity.Location {
	l := entity.NewLocation()
	p.Apply(&l)
	l.ID = utils.NewID(utils.PrefixLocation)
	l.CreatedAt = time.Now().UnixMilli()

	s.mu.Lock()
	s.locations = append(s.locations, l)
	s.mu.Unlock()

	if !silent {
		s.notify(ctx, LevelSuccess, "Location created successfully")
	}
	s.emit(ChangeEvent{Kind: KindLocation, Op: OpAdd, ID: l.ID})
	return l
}

// UpdateLocation 浅合并更新地点
func (s *Store) UpdateLocation(ctx context.Context, id string, p entity.LocationPatch) (entity.Location, bool) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.locations, func(l entity.Location) bool { return l.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return entity.Location{}, false
	}
	p.Apply(&s.locations[idx])
	updated := s.locations[idx]
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Location updated")
	s.emit(ChangeEvent{Kind: KindLocation, Op: OpUpdate, ID: id})
	return updated, true
}

// DeleteLocation 删除地点；锁定地点仅通知不删除
// 引用该地点的场景保持不变
func (s *Store) DeleteLocation(ctx context.Context, id string) DeleteOutcome {
	s.mu.Lock()
	idx := slices.IndexFunc(s.locations, func(l entity.Location) bool { return l.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return DeleteNotFound
	}
	if s.locations[idx].Locked {
		s.mu.Unlock()
		s.notify(ctx, LevelError, "Cannot delete locked location")
		return DeleteLocked
	}
	s.locations = slices.Delete(s.locations, idx, idx+1)
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Location deleted")
	s.emit(ChangeEvent{Kind: KindLocation, Op: OpDelete, ID: id})
	return Deleted
}

// Location 按 ID 查找地点
func (s *Store) Location(id string) (entity.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.locations, func(l entity.Location) bool { return l.ID == id })
	if idx < 0 {
		return entity.Location{}, false
	}
	return s.locations[idx], true
}

// Locations 返回地点列表副本
func (s *Store) Locations() []entity.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Location{}, s.locations...)
}

// ---------------- 场景 ----------------

// AddScene 追加场景，order 取当前场景数量
// 补丁中携带的镜头缺少或重复的 ID 会重新分配，order 按位置重写
func (s *Store) AddScene(ctx context.Context, p entity.ScenePatch, silent bool) entity.Scene {
	now := time.Now().UnixMilli()

	sc := entity.NewScene()
	p.Apply(&sc)
	sc.ID = utils.NewID(utils.PrefixScene)
	sc.CreatedAt = now
	if sc.Shots == nil {
		sc.Shots = []entity.Shot{}
	}
	repairIDs(sc.Shots, utils.PrefixShot, func(sh *entity.Shot) *string { return &sh.ID })
	for i := range sc.Shots {
		sc.Shots[i].Order = i
		if sc.Shots[i].CreatedAt == 0 {
			sc.Shots[i].CreatedAt = now
		}
	}

	s.mu.Lock()
	sc.Order = len(s.scenes)
	s.scenes = append(s.scenes, sc)
	s.mu.Unlock()

	if !silent {
		s.notify(ctx, LevelSuccess, "Scene created successfully")
	}
	s.emit(ChangeEvent{Kind: KindScene, Op: OpAdd, ID: sc.ID})
	return sc.Clone()
}

// UpdateScene 浅合并更新场景，不发送通知
func (s *Store) UpdateScene(ctx context.Context, id string, p entity.ScenePatch) (entity.Scene, bool) {
	s.mu.Lock()
	idx := s.sceneIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Scene{}, false
	}
	p.Apply(&s.scenes[idx])
	updated := s.scenes[idx].Clone()
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindScene, Op: OpUpdate, ID: id})
	return updated, true
}

// DeleteScene 删除场景（场景没有锁定概念）
func (s *Store) DeleteScene(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.sceneIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.scenes = slices.Delete(s.scenes, idx, idx+1)
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Scene deleted")
	s.emit(ChangeEvent{Kind: KindScene, Op: OpDelete, ID: id})
	return true
}

// ReorderScenes 以调用方给出的排列整体替换场景集合
// 不重新计算 order 字段，调用方需在传入前自行维护
func (s *Store) ReorderScenes(ctx context.Context, ordered []entity.Scene) {
	next := make([]entity.Scene, len(ordered))
	for i, sc := range ordered {
		next[i] = sc.Clone()
	}

	s.mu.Lock()
	s.scenes = next
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindScene, Op: OpReorder})
}

// ErrInvalidSceneOrder 重排 ID 不是当前场景的一个排列
var ErrInvalidSceneOrder = apperrors.ErrInvalidParam.WithDetail("scene ids must list every scene exactly once")

// ReorderScenesByID 在同一把锁内按 ids 重排场景并重写 order 字段
// ids 必须恰好是当前全部场景 ID 的一个排列，否则不做任何修改
func (s *Store) ReorderScenesByID(ctx context.Context, ids []string) ([]entity.Scene, error) {
	s.mu.Lock()
	if len(ids) != len(s.scenes) {
		s.mu.Unlock()
		return nil, ErrInvalidSceneOrder
	}
	byID := make(map[string]int, len(s.scenes))
	for i, sc := range s.scenes {
		byID[sc.ID] = i
	}
	next := make([]entity.Scene, 0, len(ids))
	for i, id := range ids {
		idx, ok := byID[id]
		if !ok {
			s.mu.Unlock()
			return nil, ErrInvalidSceneOrder
		}
		delete(byID, id)
		sc := s.scenes[idx]
		sc.Order = i
		next = append(next, sc)
	}
	s.scenes = next
	out := make([]entity.Scene, len(next))
	for i, sc := range next {
		out[i] = sc.Clone()
	}
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindScene, Op: OpReorder})
	return out, nil
}

// Scene 按 ID 查找场景
func (s *Store) Scene(id string) (entity.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.sceneIndex(id)
	if idx < 0 {
		return entity.Scene{}, false
	}
	return s.scenes[idx].Clone(), true
}

// Scenes 返回场景列表深拷贝（当前迭代顺序）
func (s *Store) Scenes() []entity.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Scene, len(s.scenes))
	for i, sc := range s.scenes {
		out[i] = sc.Clone()
	}
	return out
}

func (s *Store) sceneIndex(id string) int {
	return slices.IndexFunc(s.scenes, func(sc entity.Scene) bool { return sc.ID == id })
}

// ---------------- 镜头 ----------------

// AddShot 在场景末尾追加镜头，order 取当前镜头数量
func (s *Store) AddShot(ctx context.Context, sceneID string, p entity.ShotPatch) (entity.Shot, bool) {
	shot := entity.NewShot()
	p.Apply(&shot)
	shot.ID = utils.NewID(utils.PrefixShot)
	shot.CreatedAt = time.Now().UnixMilli()

	s.mu.Lock()
	idx := s.sceneIndex(sceneID)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Shot{}, false
	}
	shot.Order = len(s.scenes[idx].Shots)
	s.scenes[idx].Shots = append(s.scenes[idx].Shots, shot)
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Shot added successfully")
	s.emit(ChangeEvent{Kind: KindShot, Op: OpAdd, ID: shot.ID})
	return shot.Clone(), true
}

// UpdateShot 浅合并更新镜头，不发送通知
func (s *Store) UpdateShot(ctx context.Context, sceneID, shotID string, p entity.ShotPatch) (entity.Shot, bool) {
	s.mu.Lock()
	idx := s.sceneIndex(sceneID)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Shot{}, false
	}
	shots := s.scenes[idx].Shots
	si := slices.IndexFunc(shots, func(sh entity.Shot) bool { return sh.ID == shotID })
	if si < 0 {
		s.mu.Unlock()
		return entity.Shot{}, false
	}
	p.Apply(&shots[si])
	updated := shots[si].Clone()
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindShot, Op: OpUpdate, ID: shotID})
	return updated, true
}

// DeleteShot 删除场景内的镜头
func (s *Store) DeleteShot(ctx context.Context, sceneID, shotID string) bool {
	s.mu.Lock()
	idx := s.sceneIndex(sceneID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	si := slices.IndexFunc(s.scenes[idx].Shots, func(sh entity.Shot) bool { return sh.ID == shotID })
	if si < 0 {
		s.mu.Unlock()
		return false
	}
	s.scenes[idx].Shots = slices.Delete(s.scenes[idx].Shots, si, si+1)
	s.mu.Unlock()

	s.notify(ctx, LevelSuccess, "Shot deleted")
	s.emit(ChangeEvent{Kind: KindShot, Op: OpDelete, ID: shotID})
	return true
}

// ---------------- 整体 ----------------

// Clear 原子清空三个集合
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.characters = []entity.Character{}
	s.locations = []entity.Location{}
	s.scenes = []entity.Scene{}
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindStory, Op: OpClear})
}

// Replace 以快照整体替换故事图（加载项目、恢复版本）
func (s *Store) Replace(ctx context.Context, data entity.StoryData) {
	data = data.Clone()

	s.mu.Lock()
	s.characters = data.Characters
	s.locations = data.Locations
	s.scenes = data.Scenes
	s.mu.Unlock()

	s.emit(ChangeEvent{Kind: KindStory, Op: OpReplace})
}

// Snapshot 返回当前故事图的深拷贝
func (s *Store) Snapshot() entity.StoryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.StoryData{
		Characters: s.characters,
		Locations:  s.locations,
		Scenes:     s.scenes,
	}.Clone()
}

// IsEmpty 三个集合是否均为空
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.characters) == 0 && len(s.locations) == 0 && len(s.scenes) == 0
}
