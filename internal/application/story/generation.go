package story

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
)

// 生成参数默认值
const (
	DefaultVideoLength   = 60
	DefaultLanguage      = "en"
	DefaultStyle         = "drama"
	GeneratedSceneLength = 8
	shortsLanguage       = "hi"
)

// Languages 支持的台词语言
var Languages = []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "ar", "hi"}

// StoryStyles 支持的故事风格
var StoryStyles = []string{"action", "drama", "comedy", "thriller", "romance", "scifi", "fantasy", "horror"}

// GenerationModes 支持的生成模式
var GenerationModes = []string{entity.ModeCinematic, entity.ModeYouTubeShorts, entity.ModePhotoRealistic}

// GenerationOptions 用户提交的生成参数
type GenerationOptions struct {
	StoryIdea   string `json:"storyIdea"`
	VideoLength int    `json:"videoLength"`
	Language    string `json:"language"`
	Style       string `json:"style"`
	Mode        string `json:"mode"`
	Enhanced    bool   `json:"enhanced"`
}

// BuildRequest 补齐默认值并换算场景数量
// youtube-shorts 模式固定使用印地语台词
func BuildRequest(opts GenerationOptions) (entity.GenerationRequest, error) {
	if strings.TrimSpace(opts.StoryIdea) == "" {
		return entity.GenerationRequest{}, apperrors.ErrInvalidParam.WithDetail("Please enter your story idea")
	}

	length := opts.VideoLength
	if length <= 0 {
		length = DefaultVideoLength
	}
	mode := opts.Mode
	if mode == "" {
		mode = entity.ModeCinematic
	}
	if !slices.Contains(GenerationModes, mode) {
		return entity.GenerationRequest{}, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown generation mode %q", mode))
	}
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}
	if !slices.Contains(StoryStyles, style) {
		return entity.GenerationRequest{}, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown story style %q", style))
	}
	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}
	if !slices.Contains(Languages, language) {
		return entity.GenerationRequest{}, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown language %q", language))
	}
	if mode == entity.ModeYouTubeShorts {
		language = shortsLanguage
	}

	return entity.GenerationRequest{
		StoryIdea:      opts.StoryIdea,
		VideoLength:    length,
		NumberOfScenes: SceneCount(length),
		Language:       language,
		Style:          style,
		SceneDuration:  GeneratedSceneLength,
		Mode:           mode,
	}, nil
}

// SceneCount 按每场景 8 秒换算场景数，至少 1 个
func SceneCount(videoLength int) int {
	return max(1, int(math.Round(float64(videoLength)/GeneratedSceneLength)))
}

// ApplySummary 导入结果统计
type ApplySummary struct {
	Characters int `json:"characters"`
	Locations  int `json:"locations"`
	Scenes     int `json:"scenes"`
}

// Message 用户提示文本
func (s ApplySummary) Message() string {
	return fmt.Sprintf("Created %d characters, %d locations, and %d scenes", s.Characters, s.Locations, s.Scenes)
}

// ApplyGenerated 静默导入生成的故事，所有实体获得新 ID
// 场景的 locationId 与镜头的角色 ID 引用会改写为新分配的 ID，无法对应的引用保持原值
func ApplyGenerated(ctx context.Context, store *Store, data entity.StoryData) ApplySummary {
	charIDs := make(map[string]string, len(data.Characters))
	for _, c := range data.Characters {
		added := store.AddCharacter(ctx, entity.CharacterPatchFrom(c), true)
		if c.ID != "" {
			charIDs[c.ID] = added.ID
		}
	}

	locIDs := make(map[string]string, len(data.Locations))
	for _, l := range data.Locations {
		added := store.AddLocation(ctx, entity.LocationPatchFrom(l), true)
		if l.ID != "" {
			locIDs[l.ID] = added.ID
		}
	}

	for _, sc := range data.Scenes {
		sc = sc.Clone()
		if id, ok := locIDs[sc.LocationID]; ok {
			sc.LocationID = id
		}
		for i := range sc.Shots {
			if id, ok := charIDs[sc.Shots[i].SpeakerID]; ok {
				sc.Shots[i].SpeakerID = id
			}
			if id, ok := charIDs[sc.Shots[i].CameraFocusID]; ok {
				sc.Shots[i].CameraFocusID = id
			}
		}
		store.AddScene(ctx, entity.ScenePatchFrom(sc), true)
	}

	return ApplySummary{
		Characters: len(data.Characters),
		Locations:  len(data.Locations),
		Scenes:     len(data.Scenes),
	}
}
