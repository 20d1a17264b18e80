package prompt

import (
	"veo-story-studio/internal/domain/entity"
)

// resolver 在一次编译内解析地点与角色引用
type resolver struct {
	characters []entity.Character
	locations  []entity.Location
	byID       map[string]string
}

func newResolver(characters []entity.Character, locations []entity.Location) resolver {
	byID := make(map[string]string, len(characters))
	for _, c := range characters {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c.Name
		}
	}
	return resolver{characters: characters, locations: locations, byID: byID}
}

// location 第一个 ID 匹配的地点
func (r resolver) location(id string) (entity.Location, bool) {
	for _, l := range r.locations {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Location{}, false
}

// name 优先按角色 ID 解析名字，解析不到时回落到名字文本
func (r resolver) name(id, fallback string) string {
	if id != "" {
		if n, ok := r.byID[id]; ok {
			return n
		}
	}
	return fallback
}

// sceneCast 场景相关角色：出现在镜头 speaker 或 characters 中的角色，加上所有锁定角色
// 按角色集合原有顺序返回
func (r resolver) sceneCast(scene entity.Scene) []entity.Character {
	names := make(map[string]struct{})
	for _, shot := range scene.Shots {
		for _, n := range shot.Characters {
			names[n] = struct{}{}
		}
		if speaker := r.name(shot.SpeakerID, shot.Speaker); speaker != "" {
			names[speaker] = struct{}{}
		}
	}

	cast := make([]entity.Character, 0, len(r.characters))
	for _, c := range r.characters {
		if _, ok := names[c.Name]; ok || c.Locked {
			cast = append(cast, c)
		}
	}
	return cast
}
