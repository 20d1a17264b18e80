// Package entity 定义领域实体
package entity

import (
	"time"
)

// Character 角色
// Locked 仅阻止删除，不阻止字段更新
type Character struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	PhysicalDescription string           `json:"physicalDescription"`
	Clothing            string           `json:"clothing"`
	Personality         string           `json:"personality"`
	DefaultEmotion      CharacterEmotion `json:"defaultEmotion"`
	Locked              bool             `json:"locked"`
	CreatedAt           int64            `json:"createdAt"`
}

// NewCharacter 创建带默认值的角色（未分配 ID）
func NewCharacter() Character {
	return Character{
		DefaultEmotion: CharacterNeutral,
		CreatedAt:      time.Now().UnixMilli(),
	}
}

// Location 地点
type Location struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	EnvironmentDescription string    `json:"environmentDescription"`
	TimeOfDay              TimeOfDay `json:"timeOfDay"`
	Soundscape             string    `json:"soundscape"`
	Locked                 bool      `json:"locked"`
	CreatedAt              int64     `json:"createdAt"`
}

// NewLocation 创建带默认值的地点
func NewLocation() Location {
	return Location{
		TimeOfDay: TimeAfternoon,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// Scene 场景，拥有有序的镜头列表
type Scene struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Purpose      string       `json:"purpose"`
	Duration     int          `json:"duration"`
	LocationID   string       `json:"locationId"`
	EmotionalArc EmotionalArc `json:"emotionalArc"`
	Shots        []Shot       `json:"shots"`
	Order        int          `json:"order"`
	CreatedAt    int64        `json:"createdAt"`
}

// NewScene 创建带默认值的场景
func NewScene() Scene {
	return Scene{
		Duration:     30,
		EmotionalArc: ArcSteady,
		Shots:        []Shot{},
		CreatedAt:    time.Now().UnixMilli(),
	}
}

// Clone 深拷贝场景及其镜头
func (s Scene) Clone() Scene {
	cp := s
	cp.Shots = make([]Shot, len(s.Shots))
	for i, shot := range s.Shots {
		cp.Shots[i] = shot.Clone()
	}
	return cp
}

// HasDialogue 场景内是否存在台词
func (s Scene) HasDialogue() bool {
	for _, shot := range s.Shots {
		if shot.Dialogue != "" {
			return true
		}
	}
	return false
}

// Shot 镜头，归属于唯一的场景
// Speaker / CameraFocus 为角色名文本；SpeakerID / CameraFocusID 为可选的角色 ID 引用，解析时优先使用
type Shot struct {
	ID                string           `json:"id"`
	CameraType        CameraType       `json:"cameraType"`
	Duration          int              `json:"duration"`
	VisualDescription string           `json:"visualDescription"`
	Dialogue          string           `json:"dialogue"`
	EmotionTag        EmotionTag       `json:"emotionTag"`
	Speaker           string           `json:"speaker"`
	SpeakerID         string           `json:"speakerId,omitempty"`
	CharacterEmotion  CharacterEmotion `json:"characterEmotion"`
	CameraFocus       string           `json:"cameraFocus"`
	CameraFocusID     string           `json:"cameraFocusId,omitempty"`
	Characters        []string         `json:"characters,omitempty"`
	Order             int              `json:"order"`
	CreatedAt         int64            `json:"createdAt"`
}

// NewShot 创建带默认值的镜头
func NewShot() Shot {
	return Shot{
		CameraType:       CameraMedium,
		Duration:         5,
		EmotionTag:       EmotionNeutral,
		CharacterEmotion: CharacterNeutral,
		CreatedAt:        time.Now().UnixMilli(),
	}
}

// Clone 深拷贝镜头
func (s Shot) Clone() Shot {
	cp := s
	if s.Characters != nil {
		cp.Characters = append([]string(nil), s.Characters...)
	}
	return cp
}
