package entity

// StoryData 故事图快照：角色、地点、场景（含镜头）
type StoryData struct {
	Characters []Character `json:"characters"`
	Locations  []Location  `json:"locations"`
	Scenes     []Scene     `json:"scenes"`
}

// EmptyStoryData 返回三个集合均为空（非 nil）的快照
func EmptyStoryData() StoryData {
	return StoryData{
		Characters: []Character{},
		Locations:  []Location{},
		Scenes:     []Scene{},
	}
}

// IsEmpty 三个集合是否均为空
func (d StoryData) IsEmpty() bool {
	return len(d.Characters) == 0 && len(d.Locations) == 0 && len(d.Scenes) == 0
}

// Clone 深拷贝
func (d StoryData) Clone() StoryData {
	cp := StoryData{
		Characters: append([]Character{}, d.Characters...),
		Locations:  append([]Location{}, d.Locations...),
		Scenes:     make([]Scene, len(d.Scenes)),
	}
	for i, scene := range d.Scenes {
		cp.Scenes[i] = scene.Clone()
	}
	return cp
}

// TotalDuration 所有场景时长之和（不计镜头时长）
func (d StoryData) TotalDuration() int {
	total := 0
	for _, scene := range d.Scenes {
		total += scene.Duration
	}
	return total
}

// Version 版本快照
type Version struct {
	ID         string      `json:"id"`
	Timestamp  int64       `json:"timestamp"`
	Characters []Character `json:"characters"`
	Locations  []Location  `json:"locations"`
	Scenes     []Scene     `json:"scenes"`
}

// Data 返回版本中的故事数据副本
func (v Version) Data() StoryData {
	return StoryData{
		Characters: v.Characters,
		Locations:  v.Locations,
		Scenes:     v.Scenes,
	}.Clone()
}

// VersionSummary 版本摘要
type VersionSummary struct {
	ID             string `json:"id"`
	Timestamp      int64  `json:"timestamp"`
	CharacterCount int    `json:"characterCount"`
	LocationCount  int    `json:"locationCount"`
	SceneCount     int    `json:"sceneCount"`
}

// Summary 生成版本摘要
func (v Version) Summary() VersionSummary {
	return VersionSummary{
		ID:             v.ID,
		Timestamp:      v.Timestamp,
		CharacterCount: len(v.Characters),
		LocationCount:  len(v.Locations),
		SceneCount:     len(v.Scenes),
	}
}
