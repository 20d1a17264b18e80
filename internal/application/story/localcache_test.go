package story

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/internal/infrastructure/persistence/memory"
)

func sampleData() entity.StoryData {
	return entity.StoryData{
		Characters: []entity.Character{{ID: "char_1", Name: "Sarah"}},
		Locations:  []entity.Location{{ID: "loc_1", Name: "Warehouse"}},
		Scenes: []entity.Scene{{
			ID: "scene_1", Title: "Discovery", Duration: 30, LocationID: "loc_1",
			Shots: []entity.Shot{{ID: "shot_1", CameraType: entity.CameraWide, Duration: 8}},
		}},
	}
}

func TestLocalCache_AutoSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalCache(memory.NewKVStore(), "", 0)

	require.NoError(t, cache.AutoSave(ctx, sampleData()))

	got, err := cache.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleData(), got)

	versions, err := cache.LoadVersions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "Sarah", versions[0].Characters[0].Name)
	assert.Contains(t, versions[0].ID, "v_")
}

func TestLocalCache_LoadStateEmpty(t *testing.T) {
	cache := NewLocalCache(memory.NewKVStore(), "", 0)

	got, err := cache.LoadState(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Characters)
	assert.True(t, got.IsEmpty())
}

func TestLocalCache_VersionCap(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalCache(memory.NewKVStore(), "", 0)

	var first entity.Version
	for i := 0; i < 51; i++ {
		v, err := cache.SaveVersion(ctx, sampleData())
		require.NoError(t, err)
		if i == 0 {
			first = v
		}
	}

	versions, err := cache.LoadVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, DefaultMaxVersions)
	assert.NotEqual(t, first.ID, versions[0].ID)

	ids := map[string]bool{}
	for i, v := range versions {
		assert.False(t, ids[v.ID], "duplicate version id")
		ids[v.ID] = true
		if i > 0 {
			assert.Greater(t, v.Timestamp, versions[i-1].Timestamp)
		}
	}
}

func TestLocalCache_VersionSnapshotIsIndependent(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalCache(memory.NewKVStore(), "", 5)

	data := sampleData()
	_, err := cache.SaveVersion(ctx, data)
	require.NoError(t, err)
	data.Characters[0].Name = "Changed"

	versions, err := cache.LoadVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", versions[0].Characters[0].Name)
}

func TestLocalCache_RepairsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, KeyCharacters, []byte(`[{"id":"char_1","name":"A"},{"id":"char_1","name":"B"},{"name":"C"}]`)))
	require.NoError(t, kv.Set(ctx, KeyLocations, []byte(`[{"id":"loc_1","name":"Dock"},{"id":"loc_1","name":"Pier"}]`)))
	require.NoError(t, kv.Set(ctx, KeyScenes, []byte(`[
		{"id":"scene_1","shots":[{"id":"s"},{"id":"s"}]},
		{"id":"scene_2","shots":[{"id":"s"}]},
		{"id":"scene_1","title":"Again"}
	]`)))

	got, repaired, err := NewLocalCache(kv, "", 0).LoadStateRepaired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, repaired)

	require.Len(t, got.Characters, 3)
	assert.Equal(t, "char_1", got.Characters[0].ID)
	assert.NotEqual(t, "char_1", got.Characters[1].ID)
	assert.Contains(t, got.Characters[1].ID, "char_")
	assert.NotEmpty(t, got.Characters[2].ID)
	assert.NotEqual(t, got.Characters[1].ID, got.Characters[2].ID)

	require.Len(t, got.Locations, 2)
	assert.Equal(t, "loc_1", got.Locations[0].ID)
	assert.NotEqual(t, "loc_1", got.Locations[1].ID)
	assert.Contains(t, got.Locations[1].ID, "loc_")

	require.Len(t, got.Scenes, 3)
	assert.Equal(t, "scene_1", got.Scenes[0].ID)
	assert.Equal(t, "scene_2", got.Scenes[1].ID)
	assert.NotEqual(t, "scene_1", got.Scenes[2].ID)
	assert.Contains(t, got.Scenes[2].ID, "scene_")

	require.Len(t, got.Scenes[0].Shots, 2)
	assert.Equal(t, "s", got.Scenes[0].Shots[0].ID)
	assert.NotEqual(t, "s", got.Scenes[0].Shots[1].ID)
	// 不同场景之间的镜头 ID 互不影响
	require.Len(t, got.Scenes[1].Shots, 1)
	assert.Equal(t, "s", got.Scenes[1].Shots[0].ID)
	assert.NotNil(t, got.Scenes[2].Shots)
}

func TestLocalCache_LoadStateDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	raw := []byte(`[{"id":"c"},{"id":"c"}]`)
	require.NoError(t, kv.Set(ctx, KeyCharacters, raw))

	_, repaired, err := NewLocalCache(kv, "", 0).LoadStateRepaired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	stored, err := kv.Get(ctx, KeyCharacters)
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestLocalCache_CorruptEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, KeyCharacters, []byte(`{not json`)))
	require.NoError(t, kv.Set(ctx, KeyVersions, []byte(`garbage`)))
	cache := NewLocalCache(kv, "", 0)

	got, err := cache.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Characters)

	versions, err := cache.LoadVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestLocalCache_ClearStory(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	cache := NewLocalCache(kv, "", 0)
	require.NoError(t, cache.AutoSave(ctx, sampleData()))
	require.NoError(t, cache.SetTheme(ctx, entity.ThemeLight))

	require.NoError(t, cache.ClearStory(ctx))

	for _, k := range []string{KeyCharacters, KeyLocations, KeyScenes} {
		_, err := kv.Get(ctx, k)
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	}
	theme, err := cache.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ThemeLight, theme)

	require.NoError(t, cache.ClearAll(ctx))
	theme, _ = cache.Theme(ctx)
	assert.Equal(t, entity.ThemeDark, theme)
}

func TestLocalCache_SettingsDefaults(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalCache(memory.NewKVStore(), "", 0)

	settings, err := cache.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSettings(), settings)

	require.NoError(t, cache.SaveSettings(ctx, entity.Settings{"defaultStyle": "Noir"}))
	settings, err = cache.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Noir", settings["defaultStyle"])
}

func TestLocalCache_Session(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalCache(memory.NewKVStore(), "ws1:", 0)

	assert.Empty(t, cache.Token(ctx))
	u, err := cache.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, cache.SetSession(ctx, entity.Session{Token: "tok", User: entity.User{ID: "u1", Tokens: 40}}))
	assert.Equal(t, "tok", cache.Token(ctx))
	u, err = cache.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, u.Tokens)

	require.NoError(t, cache.ClearAll(ctx))
	assert.Equal(t, "tok", cache.Token(ctx))

	require.NoError(t, cache.ClearSession(ctx))
	assert.Empty(t, cache.Token(ctx))
}

func TestLocalCache_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	cache := NewLocalCache(kv, "ws1:", 0)

	require.NoError(t, cache.SetTheme(ctx, entity.ThemeLight))
	assert.Equal(t, []string{"ws1:veo_theme"}, kv.Keys())
}
