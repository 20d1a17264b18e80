package story

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/domain/entity"
)

type recordedNotice struct {
	Level   NotificationLevel
	Message string
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []recordedNotice
}

func (r *recordingNotifier) Notify(_ context.Context, level NotificationLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, recordedNotice{Level: level, Message: msg})
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Message
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestStore_AddCharacterDefaults(t *testing.T) {
	n := &recordingNotifier{}
	s := NewStore(n)
	ctx := context.Background()

	c := s.AddCharacter(ctx, entity.CharacterPatch{Name: ptr("Sarah")}, false)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Sarah", c.Name)
	assert.Equal(t, entity.CharacterNeutral, c.DefaultEmotion)
	assert.False(t, c.Locked)
	assert.NotZero(t, c.CreatedAt)
	assert.Equal(t, []string{"Character created successfully"}, n.messages())

	s.AddCharacter(ctx, entity.CharacterPatch{Name: ptr("Tom")}, true)
	assert.Len(t, n.messages(), 1)
	assert.Len(t, s.Characters(), 2)
}

func TestStore_AddCharacterUniqueIDs(t *testing.T) {
	s := NewStore(nil)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c := s.AddCharacter(context.Background(), entity.CharacterPatch{}, true)
		require.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestStore_DeleteLockedCharacter(t *testing.T) {
	n := &recordingNotifier{}
	s := NewStore(n)
	ctx := context.Background()

	c := s.AddCharacter(ctx, entity.CharacterPatch{Name: ptr("Sarah"), Locked: ptr(true)}, true)

	assert.Equal(t, DeleteLocked, s.DeleteCharacter(ctx, c.ID))
	assert.Len(t, s.Characters(), 1)
	require.Len(t, n.notices, 1)
	assert.Equal(t, LevelError, n.notices[0].Level)
	assert.Equal(t, "Cannot delete locked character", n.notices[0].Message)

	_, ok := s.UpdateCharacter(ctx, c.ID, entity.CharacterPatch{Locked: ptr(false)})
	require.True(t, ok)
	assert.Equal(t, Deleted, s.DeleteCharacter(ctx, c.ID))
	assert.Empty(t, s.Characters())
	assert.Equal(t, DeleteNotFound, s.DeleteCharacter(ctx, c.ID))
}

func TestStore_LockedEntityCanBeUpdated(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	l := s.AddLocation(ctx, entity.LocationPatch{Name: ptr("Warehouse"), Locked: ptr(true)}, true)

	updated, ok := s.UpdateLocation(ctx, l.ID, entity.LocationPatch{Name: ptr("Dock")})
	require.True(t, ok)
	assert.Equal(t, "Dock", updated.Name)
	assert.True(t, updated.Locked)
	assert.Equal(t, entity.TimeAfternoon, updated.TimeOfDay)
	assert.Equal(t, DeleteLocked, s.DeleteLocation(ctx, l.ID))
}

func TestStore_DeleteLocationKeepsSceneReference(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	l := s.AddLocation(ctx, entity.LocationPatch{Name: ptr("Warehouse")}, true)
	sc := s.AddScene(ctx, entity.ScenePatch{Title: ptr("Discovery"), LocationID: ptr(l.ID)}, true)

	assert.Equal(t, Deleted, s.DeleteLocation(ctx, l.ID))
	got, ok := s.Scene(sc.ID)
	require.True(t, ok)
	assert.Equal(t, l.ID, got.LocationID)
}

func TestStore_UpdateMissingIsNoop(t *testing.T) {
	n := &recordingNotifier{}
	s := NewStore(n)
	ctx := context.Background()

	_, ok := s.UpdateCharacter(ctx, "nope", entity.CharacterPatch{Name: ptr("x")})
	assert.False(t, ok)
	_, ok = s.UpdateScene(ctx, "nope", entity.ScenePatch{})
	assert.False(t, ok)
	_, ok = s.AddShot(ctx, "nope", entity.ShotPatch{})
	assert.False(t, ok)
	assert.False(t, s.DeleteShot(ctx, "nope", "nope"))
	assert.Empty(t, n.messages())
}

func TestStore_SceneAndShotOrder(t *testing.T) {
	n := &recordingNotifier{}
	s := NewStore(n)
	ctx := context.Background()

	first := s.AddScene(ctx, entity.ScenePatch{Title: ptr("One")}, false)
	second := s.AddScene(ctx, entity.ScenePatch{Title: ptr("Two")}, false)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 30, first.Duration)
	assert.Equal(t, entity.ArcSteady, first.EmotionalArc)
	assert.NotNil(t, first.Shots)

	sh1, ok := s.AddShot(ctx, first.ID, entity.ShotPatch{VisualDescription: ptr("Wide pan")})
	require.True(t, ok)
	sh2, _ := s.AddShot(ctx, first.ID, entity.ShotPatch{})
	assert.Equal(t, 0, sh1.Order)
	assert.Equal(t, 1, sh2.Order)
	assert.Equal(t, entity.CameraMedium, sh2.CameraType)
	assert.Equal(t, 5, sh2.Duration)

	_, ok = s.UpdateShot(ctx, first.ID, sh1.ID, entity.ShotPatch{Dialogue: ptr("Hello")})
	require.True(t, ok)
	got, _ := s.Scene(first.ID)
	assert.Equal(t, "Hello", got.Shots[0].Dialogue)

	assert.True(t, s.DeleteShot(ctx, first.ID, sh1.ID))
	got, _ = s.Scene(first.ID)
	require.Len(t, got.Shots, 1)
	assert.Equal(t, sh2.ID, got.Shots[0].ID)

	assert.Equal(t, []string{
		"Scene created successfully",
		"Scene created successfully",
		"Shot added successfully",
		"Shot added successfully",
		"Shot deleted",
	}, n.messages())
}

func TestStore_AddSceneFillsShotIDs(t *testing.T) {
	s := NewStore(nil)
	sc := s.AddScene(context.Background(), entity.ScenePatch{
		Title: ptr("Chase"),
		Shots: []entity.Shot{
			{CameraType: entity.CameraWide},
			{ID: "shot_keep", CameraType: entity.CameraClose, Order: 7},
			{ID: "shot_keep", CameraType: entity.CameraDolly},
		},
	}, true)

	require.Len(t, sc.Shots, 3)
	assert.NotEmpty(t, sc.Shots[0].ID)
	assert.Equal(t, "shot_keep", sc.Shots[1].ID)
	assert.NotEqual(t, "shot_keep", sc.Shots[2].ID)
	assert.Contains(t, sc.Shots[2].ID, "shot_")
	for i, sh := range sc.Shots {
		assert.Equal(t, i, sh.Order)
	}
	assert.NotZero(t, sc.Shots[0].CreatedAt)
}

func TestStore_ReorderScenesByID(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a := s.AddScene(ctx, entity.ScenePatch{Title: ptr("A")}, true)
	b := s.AddScene(ctx, entity.ScenePatch{Title: ptr("B")}, true)
	c := s.AddScene(ctx, entity.ScenePatch{Title: ptr("C")}, true)

	var events []ChangeEvent
	s.OnChange(func(ev ChangeEvent) { events = append(events, ev) })

	scenes, err := s.ReorderScenesByID(ctx, []string{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{scenes[0].ID, scenes[1].ID, scenes[2].ID})
	for i, sc := range s.Scenes() {
		assert.Equal(t, i, sc.Order)
	}
	assert.Equal(t, []ChangeEvent{{Kind: KindScene, Op: OpReorder}}, events)

	for _, ids := range [][]string{{a.ID, b.ID}, {a.ID, a.ID, b.ID}, {a.ID, b.ID, "scene_missing"}} {
		_, err := s.ReorderScenesByID(ctx, ids)
		assert.ErrorIs(t, err, ErrInvalidSceneOrder)
	}
	assert.Equal(t, c.ID, s.Scenes()[0].ID)
	assert.Len(t, events, 1)
}

func TestStore_ReorderScenesByIDKeepsConcurrentShots(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a := s.AddScene(ctx, entity.ScenePatch{Title: ptr("A")}, true)
	b := s.AddScene(ctx, entity.ScenePatch{Title: ptr("B")}, true)

	const shots = 2000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < shots; i++ {
			_, ok := s.AddShot(ctx, a.ID, entity.ShotPatch{})
			assert.True(t, ok)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < shots; i++ {
			ids := []string{a.ID, b.ID}
			if i%2 == 0 {
				ids = []string{b.ID, a.ID}
			}
			_, err := s.ReorderScenesByID(ctx, ids)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	got, ok := s.Scene(a.ID)
	require.True(t, ok)
	assert.Len(t, got.Shots, shots)
}

func TestStore_ReorderScenesDoesNotRecomputeOrder(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	a := s.AddScene(ctx, entity.ScenePatch{Title: ptr("A")}, true)
	b := s.AddScene(ctx, entity.ScenePatch{Title: ptr("B")}, true)

	s.ReorderScenes(ctx, []entity.Scene{b, a})

	scenes := s.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, b.ID, scenes[0].ID)
	assert.Equal(t, 1, scenes[0].Order)
	assert.Equal(t, a.ID, scenes[1].ID)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	sc := s.AddScene(ctx, entity.ScenePatch{Title: ptr("A")}, true)
	s.AddShot(ctx, sc.ID, entity.ShotPatch{Dialogue: ptr("hi")})

	snap := s.Snapshot()
	snap.Scenes[0].Shots[0].Dialogue = "changed"

	got, _ := s.Scene(sc.ID)
	assert.Equal(t, "hi", got.Shots[0].Dialogue)
}

func TestStore_ClearAndReplace(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	s.AddCharacter(ctx, entity.CharacterPatch{}, true)
	s.AddLocation(ctx, entity.LocationPatch{}, true)
	s.AddScene(ctx, entity.ScenePatch{}, true)
	require.False(t, s.IsEmpty())

	snap := s.Snapshot()
	s.Clear(ctx)
	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Characters())

	s.Replace(ctx, snap)
	assert.Len(t, s.Characters(), 1)
	assert.Len(t, s.Locations(), 1)
	assert.Len(t, s.Scenes(), 1)
}

func TestStore_OnChangeEvents(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	var events []ChangeEvent
	s.OnChange(func(ev ChangeEvent) { events = append(events, ev) })

	c := s.AddCharacter(ctx, entity.CharacterPatch{Locked: ptr(true)}, true)
	s.DeleteCharacter(ctx, c.ID)
	s.Clear(ctx)

	require.Len(t, events, 2)
	assert.Equal(t, ChangeEvent{Kind: KindCharacter, Op: OpAdd, ID: c.ID}, events[0])
	assert.Equal(t, OpClear, events[1].Op)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := NewStore(nil)
	var count int
	s.OnChange(func(ChangeEvent) { count = len(s.Characters()) })

	s.AddCharacter(context.Background(), entity.CharacterPatch{}, true)
	assert.Equal(t, 1, count)
}
