// Package story 提供故事图编辑的应用层能力：字段校验、故事图存储、本地缓存与生成结果导入
package story

import (
	"unicode/utf8"

	"veo-story-studio/internal/application/story/storyutil"
	"veo-story-studio/internal/domain/entity"
)

// 字段长度与时长限制
const (
	MinCharacterNameLen     = 2
	MinPhysicalDescLen      = 10
	MaxCharacterTextLen     = 500
	MinLocationNameLen      = 2
	MinEnvironmentDescLen   = 10
	MaxSoundscapeLen        = 300
	MinSceneTitleLen        = 3
	MinScenePurposeLen      = 10
	MaxSceneDuration        = 600
	MinVisualDescriptionLen = 10
	MaxShotDuration         = 60
	MaxDialogueLen          = 500
	MinStoryBriefLen        = 20
)

// ValidationResult 校验结果，Errors 以字段名为键
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

type fieldErrors map[string]string

func (e fieldErrors) result() ValidationResult {
	return ValidationResult{IsValid: len(e) == 0, Errors: e}
}

// requireMin 必填且满足最小长度；必填以去除空白判断，长度以原始 rune 数计
func (e fieldErrors) requireMin(field, value string, limit int, requiredMsg, shortMsg string) {
	switch {
	case storyutil.IsBlank(value):
		e[field] = requiredMsg
	case utf8.RuneCountInString(value) < limit:
		e[field] = shortMsg
	}
}

func (e fieldErrors) maxLen(field, value string, limit int, msg string) {
	if utf8.RuneCountInString(value) > limit {
		e[field] = msg
	}
}

// ValidateCharacter 校验角色
func ValidateCharacter(c entity.Character) ValidationResult {
	errs := fieldErrors{}

	errs.requireMin("name", c.Name, MinCharacterNameLen,
		"Character name is required",
		"Character name must be at least 2 characters")
	errs.requireMin("physicalDescription", c.PhysicalDescription, MinPhysicalDescLen,
		"Physical description is required",
		"Physical description should be more detailed (min 10 characters)")
	errs.maxLen("clothing", c.Clothing, MaxCharacterTextLen,
		"Clothing description is too long (max 500 characters)")
	errs.maxLen("personality", c.Personality, MaxCharacterTextLen,
		"Personality description is too long (max 500 characters)")

	if c.DefaultEmotion != "" && !c.DefaultEmotion.Valid() {
		errs["defaultEmotion"] = "Unknown emotion"
	}

	return errs.result()
}

// ValidateLocation 校验地点
func ValidateLocation(l entity.Location) ValidationResult {
	errs := fieldErrors{}

	errs.requireMin("name", l.Name, MinLocationNameLen,
		"Location name is required",
		"Location name must be at least 2 characters")
	errs.requireMin("environmentDescription", l.EnvironmentDescription, MinEnvironmentDescLen,
		"Environment description is required",
		"Environment description should be more detailed (min 10 characters)")
	errs.maxLen("soundscape", l.Soundscape, MaxSoundscapeLen,
		"Soundscape description is too long (max 300 characters)")

	switch {
	case l.TimeOfDay == "":
		errs["timeOfDay"] = "Time of day is required"
	case !l.TimeOfDay.Valid():
		errs["timeOfDay"] = "Unknown time of day"
	}

	return errs.result()
}

// ValidateScene 校验场景字段（不检查 locationId 是否存在）
func ValidateScene(s entity.Scene) ValidationResult {
	errs := fieldErrors{}

	errs.requireMin("title", s.Title, MinSceneTitleLen,
		"Scene title is required",
		"Scene title must be at least 3 characters")
	errs.requireMin("purpose", s.Purpose, MinScenePurposeLen,
		"Scene purpose is required",
		"Scene purpose should be more detailed (min 10 characters)")

	switch {
	case s.Duration <= 0:
		errs["duration"] = "Scene duration must be greater than 0"
	case s.Duration > MaxSceneDuration:
		errs["duration"] = "Scene duration is too long (max 600 seconds)"
	}

	if s.LocationID == "" {
		errs["locationId"] = "Please select a location for this scene"
	}

	if s.EmotionalArc != "" && !s.EmotionalArc.Valid() {
		errs["emotionalArc"] = "Unknown emotional arc"
	}

	return errs.result()
}

// ValidateSceneReferences 在字段校验基础上检查 locationId 指向已存在的地点
func ValidateSceneReferences(s entity.Scene, locations []entity.Location) ValidationResult {
	res := ValidateScene(s)
	if _, ok := res.Errors["locationId"]; ok {
		return res
	}
	for _, loc := range locations {
		if loc.ID == s.LocationID {
			return res
		}
	}
	res.Errors["locationId"] = "Selected location does not exist"
	res.IsValid = false
	return res
}

// ValidateShot 校验镜头
func ValidateShot(s entity.Shot) ValidationResult {
	errs := fieldErrors{}

	switch {
	case s.CameraType == "":
		errs["cameraType"] = "Camera type is required"
	case !s.CameraType.Valid():
		errs["cameraType"] = "Unknown camera type"
	}

	errs.requireMin("visualDescription", s.VisualDescription, MinVisualDescriptionLen,
		"Visual description is required",
		"Visual description should be more detailed (min 10 characters)")

	switch {
	case s.Duration <= 0:
		errs["duration"] = "Shot duration must be greater than 0"
	case s.Duration > MaxShotDuration:
		errs["duration"] = "Shot duration is too long (max 60 seconds)"
	}

	errs.maxLen("dialogue", s.Dialogue, MaxDialogueLen, "Dialogue is too long (max 500 characters)")

	if s.EmotionTag != "" && !s.EmotionTag.Valid() {
		errs["emotionTag"] = "Unknown emotion tag"
	}
	if s.CharacterEmotion != "" && !s.CharacterEmotion.Valid() {
		errs["characterEmotion"] = "Unknown emotion"
	}

	return errs.result()
}

// ValidateStoryInput 校验故事生成简介
func ValidateStoryInput(brief string) ValidationResult {
	errs := fieldErrors{}
	errs.requireMin("brief", brief, MinStoryBriefLen,
		"Story brief is required",
		"Story brief should be more detailed (min 20 characters)")
	return errs.result()
}
