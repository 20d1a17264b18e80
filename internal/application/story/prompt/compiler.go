// Package prompt 将故事图编译为逐场景的视频生成提示词
// 输出只依赖输入，相同的故事图总是得到逐字节一致的文本
package prompt

import (
	"fmt"
	"strings"
	"time"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/pkg/metrics"
)

// EmptyStoryText 没有场景时的占位文本
const EmptyStoryText = "No scenes created yet. Start building your story!"

const separatorWidth = 80

// ScenePromptDoc 单个场景的提示词及元数据
type ScenePromptDoc struct {
	SceneNumber    int    `json:"sceneNumber"`
	SceneTitle     string `json:"sceneTitle"`
	SceneDuration  int    `json:"sceneDuration"`
	Prompt         string `json:"prompt"`
	CharacterCount int    `json:"characterCount"`
	ShotCount      int    `json:"shotCount"`
	HasDialogue    bool   `json:"hasDialogue"`
}

// BuildAllSceneVeoPrompts 按场景集合的当前顺序逐个编译
// 场景编号取数组下标而非 order 字段
func BuildAllSceneVeoPrompts(characters []entity.Character, locations []entity.Location, scenes []entity.Scene) []ScenePromptDoc {
	defer observe("scenes", time.Now())
	return buildAll(characters, locations, scenes)
}

func buildAll(characters []entity.Character, locations []entity.Location, scenes []entity.Scene) []ScenePromptDoc {
	docs := make([]ScenePromptDoc, 0, len(scenes))
	for i, scene := range scenes {
		docs = append(docs, BuildSceneVeoPrompt(scene, i, characters, locations))
	}
	return docs
}

// BuildSceneVeoPrompt 编译单个场景
func BuildSceneVeoPrompt(scene entity.Scene, sceneIndex int, characters []entity.Character, locations []entity.Location) ScenePromptDoc {
	r := newResolver(characters, locations)
	location, hasLocation := r.location(scene.LocationID)
	cast := r.sceneCast(scene)
	number := sceneIndex + 1

	var b strings.Builder
	fmt.Fprintf(&b, "=== VEO PROMPT FOR SCENE %d: %s ===\n\n", number, scene.Title)

	b.WriteString("**SCENE OVERVIEW:**\n")
	fmt.Fprintf(&b, "Title: %s\n", scene.Title)
	fmt.Fprintf(&b, "Duration: %d seconds\n", scene.Duration)
	fmt.Fprintf(&b, "Purpose: %s\n", scene.Purpose)
	fmt.Fprintf(&b, "Emotional Arc: %s\n", scene.EmotionalArc)
	if hasLocation {
		fmt.Fprintf(&b, "Location: %s\n", location.Name)
		fmt.Fprintf(&b, "Time of Day: %s\n", location.TimeOfDay)
	}
	b.WriteString("\n")

	if len(cast) > 0 {
		b.WriteString("**CHARACTER DESCRIPTIONS (MAINTAIN CONSISTENCY):**\n\n")
		for _, c := range cast {
			writeCharacter(&b, c)
		}
	}

	if hasLocation {
		writeLocation(&b, location)
	}

	if len(scene.Shots) > 0 {
		b.WriteString("**SHOT-BY-SHOT BREAKDOWN:**\n\n")
		for i, shot := range scene.Shots {
			writeShot(&b, r, shot, number, i+1)
		}
	}

	hasDialogue := scene.HasDialogue()

	b.WriteString("**TECHNICAL REQUIREMENTS:**\n")
	fmt.Fprintf(&b, "- Duration: EXACTLY %d seconds\n", scene.Duration)
	b.WriteString("- Maintain character consistency as described above\n")
	if hasLocation && location.Locked {
		b.WriteString("- Maintain location consistency with previous scenes\n")
	}
	b.WriteString("- Camera movements should be smooth and cinematic\n")
	lighting := "as appropriate"
	if hasLocation && location.TimeOfDay != "" {
		lighting = string(location.TimeOfDay)
	}
	fmt.Fprintf(&b, "- Lighting should match time of day: %s\n", lighting)
	if hasDialogue {
		b.WriteString("- Character dialogue is provided in the specified language\n")
		b.WriteString("- Ensure lip-sync matches dialogue delivery\n")
		b.WriteString("- Facial expressions must match the speaker's emotion\n")
	}

	return ScenePromptDoc{
		SceneNumber:    number,
		SceneTitle:     scene.Title,
		SceneDuration:  scene.Duration,
		Prompt:         b.String(),
		CharacterCount: len(cast),
		ShotCount:      len(scene.Shots),
		HasDialogue:    hasDialogue,
	}
}

func writeCharacter(b *strings.Builder, c entity.Character) {
	b.WriteString(c.Name)
	if c.Locked {
		b.WriteString(" [LOCKED - MUST MAINTAIN EXACT APPEARANCE]")
	}
	b.WriteString(":\n")
	fmt.Fprintf(b, "  - Physical: %s\n", c.PhysicalDescription)
	if c.Clothing != "" {
		fmt.Fprintf(b, "  - Clothing: %s\n", c.Clothing)
	}
	if c.Personality != "" {
		fmt.Fprintf(b, "  - Personality: %s\n", c.Personality)
	}
	fmt.Fprintf(b, "  - Default Emotion: %s\n", c.DefaultEmotion)
	b.WriteString("\n")
}

func writeLocation(b *strings.Builder, l entity.Location) {
	b.WriteString("**LOCATION DETAILS:**\n")
	fmt.Fprintf(b, "Name: %s\n", l.Name)
	fmt.Fprintf(b, "Environment: %s\n", l.EnvironmentDescription)
	fmt.Fprintf(b, "Time of Day: %s\n", l.TimeOfDay)
	if l.Soundscape != "" {
		fmt.Fprintf(b, "Soundscape: %s\n", l.Soundscape)
	}
	if l.Locked {
		b.WriteString("[LOCKED - Location must maintain consistent appearance]\n")
	}
	b.WriteString("\n")
}

func writeShot(b *strings.Builder, r resolver, shot entity.Shot, sceneNumber, shotNumber int) {
	fmt.Fprintf(b, "Shot %d.%d [%s] (%ds):\n", sceneNumber, shotNumber, strings.ToUpper(string(shot.CameraType)), shot.Duration)
	fmt.Fprintf(b, "  Visual: %s\n", shot.VisualDescription)
	if len(shot.Characters) > 0 {
		fmt.Fprintf(b, "  Characters Present: %s\n", strings.Join(shot.Characters, ", "))
	}
	if focus := r.name(shot.CameraFocusID, shot.CameraFocus); focus != "" {
		fmt.Fprintf(b, "  Camera Focus: %s\n", focus)
	}
	if shot.Dialogue != "" {
		fmt.Fprintf(b, "  Dialogue: \"%s\"\n", shot.Dialogue)
		if speaker := r.name(shot.SpeakerID, shot.Speaker); speaker != "" {
			fmt.Fprintf(b, "  Speaker: %s\n", speaker)
			if shot.CharacterEmotion != "" {
				fmt.Fprintf(b, "  Speaker's Facial Expression: %s\n", shot.CharacterEmotion)
			}
		}
	}
	fmt.Fprintf(b, "  Emotional Tone: %s\n", shot.EmotionTag)
	b.WriteString("\n")
}

// BuildVEOPrompt 将所有场景提示词合并为一个文档，仅供整体复制使用
func BuildVEOPrompt(characters []entity.Character, locations []entity.Location, scenes []entity.Scene) string {
	defer observe("combined", time.Now())

	docs := buildAll(characters, locations, scenes)
	if len(docs) == 0 {
		return EmptyStoryText
	}

	separator := "\n" + strings.Repeat("=", separatorWidth) + "\n\n"

	var b strings.Builder
	b.WriteString("=== MULTI-SCENE VEO PROJECT ===\n\n")
	fmt.Fprintf(&b, "Total Scenes: %d\n", len(scenes))
	fmt.Fprintf(&b, "Total Duration: %d seconds\n", totalDuration(scenes))
	b.WriteString("\n")
	b.WriteString("NOTE: VEO cannot generate all scenes at once. Generate each scene separately using the prompts below.\n")
	b.WriteString(separator)

	for i, doc := range docs {
		b.WriteString(doc.Prompt)
		if i < len(docs)-1 {
			b.WriteString(separator)
		}
	}
	return b.String()
}

func totalDuration(scenes []entity.Scene) int {
	total := 0
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}

func observe(kind string, start time.Time) {
	metrics.PromptCompileDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
