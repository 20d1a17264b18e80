package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/domain/entity"
)

func discoveryStory() ([]entity.Character, []entity.Location, []entity.Scene) {
	characters := []entity.Character{{
		ID: "C1", Name: "Sarah", PhysicalDescription: "tall, dark hair",
		DefaultEmotion: entity.CharacterNeutral, Locked: true,
	}}
	locations := []entity.Location{{ID: "L1", Name: "Warehouse", TimeOfDay: entity.TimeDusk}}
	scenes := []entity.Scene{{
		ID: "S1", Title: "Discovery", Duration: 30, LocationID: "L1",
		Shots: []entity.Shot{{
			CameraType: entity.CameraWide, Duration: 30, VisualDescription: "Sarah enters",
			Dialogue: "Someone was here.", Speaker: "Sarah", EmotionTag: entity.EmotionTension,
		}},
	}}
	return characters, locations, scenes
}

func TestBuildAllSceneVeoPrompts_Discovery(t *testing.T) {
	characters, locations, scenes := discoveryStory()

	docs := BuildAllSceneVeoPrompts(characters, locations, scenes)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, 1, doc.SceneNumber)
	assert.Equal(t, "Discovery", doc.SceneTitle)
	assert.Equal(t, 30, doc.SceneDuration)
	assert.Equal(t, 1, doc.CharacterCount)
	assert.Equal(t, 1, doc.ShotCount)
	assert.True(t, doc.HasDialogue)

	assert.Contains(t, doc.Prompt, "Sarah [LOCKED")
	assert.Contains(t, doc.Prompt, "Shot 1.1 [WIDE]")
	assert.Contains(t, doc.Prompt, "Someone was here.")
	assert.True(t, strings.HasPrefix(doc.Prompt, "=== VEO PROMPT FOR SCENE 1: Discovery ===\n\n**SCENE OVERVIEW:**\n"))
	assert.Contains(t, doc.Prompt, "Location: Warehouse\nTime of Day: dusk\n")
	assert.Contains(t, doc.Prompt, "- Lighting should match time of day: dusk\n")
	assert.Contains(t, doc.Prompt, "- Ensure lip-sync matches dialogue delivery\n")
}

func TestBuildSceneVeoPrompt_ExactShotBlock(t *testing.T) {
	characters, locations, scenes := discoveryStory()

	doc := BuildSceneVeoPrompt(scenes[0], 0, characters, locations)

	want := "Shot 1.1 [WIDE] (30s):\n" +
		"  Visual: Sarah enters\n" +
		"  Dialogue: \"Someone was here.\"\n" +
		"  Speaker: Sarah\n" +
		"  Emotional Tone: tension\n\n"
	assert.Contains(t, doc.Prompt, want)
}

func TestBuildSceneVeoPrompt_LockedCharacterAlwaysIncluded(t *testing.T) {
	characters := []entity.Character{
		{ID: "C1", Name: "Sarah", Locked: true},
		{ID: "C2", Name: "Tom"},
		{ID: "C3", Name: "Mia"},
	}
	scene := entity.Scene{Title: "Alley", Duration: 10, Shots: []entity.Shot{
		{CameraType: entity.CameraClose, Characters: []string{"Mia"}},
	}}

	doc := BuildSceneVeoPrompt(scene, 2, characters, nil)

	assert.Equal(t, 2, doc.CharacterCount)
	assert.Contains(t, doc.Prompt, "Sarah [LOCKED - MUST MAINTAIN EXACT APPEARANCE]:\n")
	assert.Contains(t, doc.Prompt, "Mia:\n")
	assert.NotContains(t, doc.Prompt, "Tom")
	assert.Contains(t, doc.Prompt, "Shot 3.1 [CLOSE]")
	assert.Contains(t, doc.Prompt, "  Characters Present: Mia\n")
}

func TestBuildSceneVeoPrompt_NoLocation(t *testing.T) {
	scene := entity.Scene{Title: "Void", Duration: 8, LocationID: "missing"}

	doc := BuildSceneVeoPrompt(scene, 0, nil, nil)

	assert.NotContains(t, doc.Prompt, "**LOCATION DETAILS:**")
	assert.NotContains(t, doc.Prompt, "**SHOT-BY-SHOT BREAKDOWN:**")
	assert.NotContains(t, doc.Prompt, "**CHARACTER DESCRIPTIONS")
	assert.Contains(t, doc.Prompt, "- Lighting should match time of day: as appropriate\n")
	assert.False(t, doc.HasDialogue)
	assert.NotContains(t, doc.Prompt, "lip-sync")
}

func TestBuildSceneVeoPrompt_LockedLocation(t *testing.T) {
	locations := []entity.Location{{
		ID: "L1", Name: "Dock", EnvironmentDescription: "Rainy pier", TimeOfDay: entity.TimeNight,
		Soundscape: "waves", Locked: true,
	}}
	scene := entity.Scene{Title: "Dock", Duration: 8, LocationID: "L1"}

	doc := BuildSceneVeoPrompt(scene, 0, nil, locations)

	assert.Contains(t, doc.Prompt, "**LOCATION DETAILS:**\nName: Dock\nEnvironment: Rainy pier\nTime of Day: night\nSoundscape: waves\n[LOCKED - Location must maintain consistent appearance]\n\n")
	assert.Contains(t, doc.Prompt, "- Maintain location consistency with previous scenes\n")
}

func TestBuildSceneVeoPrompt_SpeakerByID(t *testing.T) {
	characters := []entity.Character{{ID: "C2", Name: "Tom"}}
	scene := entity.Scene{Title: "Talk", Duration: 8, Shots: []entity.Shot{{
		CameraType: entity.CameraMedium, Dialogue: "Hi", SpeakerID: "C2", Speaker: "Old Name",
		CharacterEmotion: entity.CharacterJoy,
	}}}

	doc := BuildSceneVeoPrompt(scene, 0, characters, nil)

	assert.Equal(t, 1, doc.CharacterCount)
	assert.Contains(t, doc.Prompt, "  Speaker: Tom\n  Speaker's Facial Expression: joy\n")
}

func TestBuildVEOPrompt(t *testing.T) {
	assert.Equal(t, EmptyStoryText, BuildVEOPrompt(nil, nil, nil))

	characters, locations, scenes := discoveryStory()
	scenes = append(scenes, entity.Scene{ID: "S2", Title: "Escape", Duration: 12})

	out := BuildVEOPrompt(characters, locations, scenes)

	sep := "\n" + strings.Repeat("=", 80) + "\n\n"
	assert.True(t, strings.HasPrefix(out, "=== MULTI-SCENE VEO PROJECT ===\n\nTotal Scenes: 2\nTotal Duration: 42 seconds\n\nNOTE:"))
	assert.Equal(t, 2, strings.Count(out, sep))
	assert.Contains(t, out, "=== VEO PROMPT FOR SCENE 2: Escape ===")
	assert.False(t, strings.HasSuffix(out, sep))
}

func TestBuildVEOPrompt_Deterministic(t *testing.T) {
	characters, locations, scenes := discoveryStory()
	characters = append(characters,
		entity.Character{ID: "C2", Name: "Tom", Locked: true},
		entity.Character{ID: "C3", Name: "Ann", Locked: true},
	)

	first := BuildVEOPrompt(characters, locations, scenes)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildVEOPrompt(characters, locations, scenes))
	}
	assert.Less(t, strings.Index(first, "Sarah [LOCKED"), strings.Index(first, "Tom [LOCKED"))
	assert.Less(t, strings.Index(first, "Tom [LOCKED"), strings.Index(first, "Ann [LOCKED"))
}

func TestBuildStoryPreview(t *testing.T) {
	assert.Equal(t, EmptyStoryText, BuildStoryPreview(nil, nil, nil))

	characters, locations, scenes := discoveryStory()
	scenes[0].Purpose = "Find the clue"
	scenes[0].EmotionalArc = entity.ArcRising
	scenes[0].Shots[0].VisualDescription = strings.Repeat("a", 55)
	scenes[0].Shots[0].CharacterEmotion = entity.CharacterFear

	out := BuildStoryPreview(characters, locations, scenes)

	assert.Contains(t, out, "Scene 1: Discovery\n")
	assert.Contains(t, out, "📍 Warehouse | ⏱️ 30s | 🎬 1 shots\n")
	assert.Contains(t, out, "Purpose: Find the clue\nArc: rising\n")
	assert.Contains(t, out, "Shots breakdown (30s total):\n")
	assert.Contains(t, out, "  1. wide [Sarah - fear] - "+strings.Repeat("a", 50)+"...\n")
}
