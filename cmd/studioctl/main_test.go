package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/infrastructure/persistence/sqlite"
)

// writeConfig 生成指向临时 SQLite 文件的配置
func writeConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "studio.db")
	configPath = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`storage:
  driver: sqlite
  sqlite:
    path: %s
observability:
  logging:
    level: error
    format: text
`, dbPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, dbPath
}

func seed(t *testing.T, dbPath string, data entity.StoryData) {
	t.Helper()
	ctx := context.Background()
	kv, err := sqlite.NewKVStore(&config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer kv.Close()

	cache := story.NewLocalCache(kv, "", story.DefaultMaxVersions)
	require.NoError(t, cache.AutoSave(ctx, data))
	_, err = cache.SaveVersion(ctx, data)
	require.NoError(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleStory() entity.StoryData {
	return entity.StoryData{
		Characters: []entity.Character{{
			ID: "c1", Name: "Ava", PhysicalDescription: "Tall woman with short silver hair",
			DefaultEmotion: entity.CharacterNeutral,
		}},
		Locations: []entity.Location{{
			ID: "l1", Name: "Harbor", EnvironmentDescription: "Foggy harbor at dawn with creaking boats",
			TimeOfDay: entity.TimeDawn,
		}},
		Scenes: []entity.Scene{{
			ID: "s1", Title: "Arrival", Purpose: "Ava returns to the harbor town",
			Duration: 30, LocationID: "l1",
			Shots: []entity.Shot{},
		}, {
			ID: "s2", Title: "Departure", Purpose: "Ava leaves on the last ferry",
			Duration: 20, LocationID: "l1",
			Shots: []entity.Shot{},
		}},
	}
}

func TestPromptsCmd(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)
	seed(t, dbPath, sampleStory())

	out, err := run(t, "--config", cfgPath, "prompts")
	require.NoError(t, err)
	assert.Contains(t, out, "=== VEO PROMPT FOR SCENE 1: Arrival ===")
	assert.Contains(t, out, "=== VEO PROMPT FOR SCENE 2: Departure ===")

	out, err = run(t, "--config", cfgPath, "prompts", "--scene", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Arrival ===")
	assert.Contains(t, out, "Departure")

	_, err = run(t, "--config", cfgPath, "prompts", "--scene", "3")
	assert.Error(t, err)
}

func TestPromptsCmd_EmptyStory(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "prompts")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenes created yet")
}

func TestPreviewCmd(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)
	seed(t, dbPath, sampleStory())

	out, err := run(t, "--config", cfgPath, "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "Scene 1: Arrival")
	assert.Contains(t, out, "Harbor")
}

func TestVersionsCmd(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "versions")
	require.NoError(t, err)
	assert.Contains(t, out, "No versions saved.")

	seed(t, dbPath, sampleStory())
	out, err = run(t, "--config", cfgPath, "versions")
	require.NoError(t, err)
	assert.Contains(t, out, "CHARACTERS")
	assert.Contains(t, out, "v_")
}

func TestValidateCmd(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)
	seed(t, dbPath, sampleStory())

	out, err := run(t, "--config", cfgPath, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "All entities are valid.")

	broken := sampleStory()
	broken.Characters[0].Name = "A"
	broken.Scenes[1].LocationID = "gone"
	seed(t, dbPath, broken)

	out, err = run(t, "--config", cfgPath, "validate")
	require.ErrorIs(t, err, errInvalidStory)
	assert.Contains(t, out, "name: Character name must be at least 2 characters")
	assert.Contains(t, out, "locationId: Selected location does not exist")
}
