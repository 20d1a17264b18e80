package prompt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"veo-story-studio/internal/application/story/storyutil"
	"veo-story-studio/internal/domain/entity"
)

const previewVisualRunes = 50

// BuildStoryPreview 生成便于阅读的故事概览：每个场景的地点、时长、镜头数与镜头摘要
func BuildStoryPreview(characters []entity.Character, locations []entity.Location, scenes []entity.Scene) string {
	defer observe("preview", time.Now())

	if len(scenes) == 0 {
		return EmptyStoryText
	}

	r := newResolver(characters, locations)

	var b strings.Builder
	for i, scene := range scenes {
		locationName := "No location"
		if l, ok := r.location(scene.LocationID); ok {
			locationName = l.Name
		}
		shotTotal := 0
		for _, shot := range scene.Shots {
			shotTotal += shot.Duration
		}

		fmt.Fprintf(&b, "Scene %d: %s\n", i+1, scene.Title)
		fmt.Fprintf(&b, "📍 %s | ⏱️ %ds | 🎬 %d shots\n", locationName, scene.Duration, len(scene.Shots))
		fmt.Fprintf(&b, "Purpose: %s\n", scene.Purpose)
		fmt.Fprintf(&b, "Arc: %s\n", scene.EmotionalArc)

		if len(scene.Shots) > 0 {
			fmt.Fprintf(&b, "Shots breakdown (%ds total):\n", shotTotal)
			for j, shot := range scene.Shots {
				fmt.Fprintf(&b, "  %d. %s%s - %s\n", j+1, shot.CameraType, speakerInfo(r, shot), excerpt(shot.VisualDescription))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func speakerInfo(r resolver, shot entity.Shot) string {
	speaker := r.name(shot.SpeakerID, shot.Speaker)
	if speaker == "" {
		return ""
	}
	if shot.CharacterEmotion != "" {
		return fmt.Sprintf(" [%s - %s]", speaker, shot.CharacterEmotion)
	}
	return fmt.Sprintf(" [%s]", speaker)
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) > previewVisualRunes {
		return storyutil.TruncateByRunes(s, previewVisualRunes) + "..."
	}
	return s
}
