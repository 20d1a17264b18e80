package entity

// CharacterPatch 角色部分字段，nil 表示不修改
type CharacterPatch struct {
	Name                *string           `json:"name,omitempty"`
	PhysicalDescription *string           `json:"physicalDescription,omitempty"`
	Clothing            *string           `json:"clothing,omitempty"`
	Personality         *string           `json:"personality,omitempty"`
	DefaultEmotion      *CharacterEmotion `json:"defaultEmotion,omitempty"`
	Locked              *bool             `json:"locked,omitempty"`
}

// Apply 浅合并到角色
func (p CharacterPatch) Apply(c *Character) {
	setIf(&c.Name, p.Name)
	setIf(&c.PhysicalDescription, p.PhysicalDescription)
	setIf(&c.Clothing, p.Clothing)
	setIf(&c.Personality, p.Personality)
	setIf(&c.DefaultEmotion, p.DefaultEmotion)
	setIf(&c.Locked, p.Locked)
}

// CharacterPatchFrom 由完整角色构造补丁（用于批量导入）
func CharacterPatchFrom(c Character) CharacterPatch {
	return CharacterPatch{
		Name:                &c.Name,
		PhysicalDescription: &c.PhysicalDescription,
		Clothing:            &c.Clothing,
		Personality:         &c.Personality,
		DefaultEmotion:      nonZero(c.DefaultEmotion),
		Locked:              &c.Locked,
	}
}

// LocationPatch 地点部分字段
type LocationPatch struct {
	Name                   *string    `json:"name,omitempty"`
	EnvironmentDescription *string    `json:"environmentDescription,omitempty"`
	TimeOfDay              *TimeOfDay `json:"timeOfDay,omitempty"`
	Soundscape             *string    `json:"soundscape,omitempty"`
	Locked                 *bool      `json:"locked,omitempty"`
}

// Apply 浅合并到地点
func (p LocationPatch) Apply(l *Location) {
	setIf(&l.Name, p.Name)
	setIf(&l.EnvironmentDescription, p.EnvironmentDescription)
	setIf(&l.TimeOfDay, p.TimeOfDay)
	setIf(&l.Soundscape, p.Soundscape)
	setIf(&l.Locked, p.Locked)
}

// LocationPatchFrom 由完整地点构造补丁
func LocationPatchFrom(l Location) LocationPatch {
	return LocationPatch{
		Name:                   &l.Name,
		EnvironmentDescription: &l.EnvironmentDescription,
		TimeOfDay:              nonZero(l.TimeOfDay),
		Soundscape:             &l.Soundscape,
		Locked:                 &l.Locked,
	}
}

// ScenePatch 场景部分字段
// Order 仅在更新时生效，新增场景总是追加到末尾
type ScenePatch struct {
	Title        *string       `json:"title,omitempty"`
	Purpose      *string       `json:"purpose,omitempty"`
	Duration     *int          `json:"duration,omitempty"`
	LocationID   *string       `json:"locationId,omitempty"`
	EmotionalArc *EmotionalArc `json:"emotionalArc,omitempty"`
	Shots        []Shot        `json:"shots,omitempty"`
	Order        *int          `json:"order,omitempty"`
}

// Apply 浅合并到场景
func (p ScenePatch) Apply(s *Scene) {
	setIf(&s.Title, p.Title)
	setIf(&s.Purpose, p.Purpose)
	setIf(&s.Duration, p.Duration)
	setIf(&s.LocationID, p.LocationID)
	setIf(&s.EmotionalArc, p.EmotionalArc)
	setIf(&s.Order, p.Order)
	if p.Shots != nil {
		s.Shots = make([]Shot, len(p.Shots))
		for i, shot := range p.Shots {
			s.Shots[i] = shot.Clone()
		}
	}
}

// ScenePatchFrom 由完整场景构造补丁（包含镜头）
func ScenePatchFrom(s Scene) ScenePatch {
	shots := s.Shots
	if shots == nil {
		shots = []Shot{}
	}
	return ScenePatch{
		Title:        &s.Title,
		Purpose:      &s.Purpose,
		Duration:     nonZero(s.Duration),
		LocationID:   &s.LocationID,
		EmotionalArc: nonZero(s.EmotionalArc),
		Shots:        shots,
	}
}

// ShotPatch 镜头部分字段
type ShotPatch struct {
	CameraType        *CameraType       `json:"cameraType,omitempty"`
	Duration          *int              `json:"duration,omitempty"`
	VisualDescription *string           `json:"visualDescription,omitempty"`
	Dialogue          *string           `json:"dialogue,omitempty"`
	EmotionTag        *EmotionTag       `json:"emotionTag,omitempty"`
	Speaker           *string           `json:"speaker,omitempty"`
	SpeakerID         *string           `json:"speakerId,omitempty"`
	CharacterEmotion  *CharacterEmotion `json:"characterEmotion,omitempty"`
	CameraFocus       *string           `json:"cameraFocus,omitempty"`
	CameraFocusID     *string           `json:"cameraFocusId,omitempty"`
	Characters        []string          `json:"characters,omitempty"`
	Order             *int              `json:"order,omitempty"`
}

// Apply 浅合并到镜头
func (p ShotPatch) Apply(s *Shot) {
	setIf(&s.CameraType, p.CameraType)
	setIf(&s.Duration, p.Duration)
	setIf(&s.VisualDescription, p.VisualDescription)
	setIf(&s.Dialogue, p.Dialogue)
	setIf(&s.EmotionTag, p.EmotionTag)
	setIf(&s.Speaker, p.Speaker)
	setIf(&s.SpeakerID, p.SpeakerID)
	setIf(&s.CharacterEmotion, p.CharacterEmotion)
	setIf(&s.CameraFocus, p.CameraFocus)
	setIf(&s.CameraFocusID, p.CameraFocusID)
	setIf(&s.Order, p.Order)
	if p.Characters != nil {
		s.Characters = append([]string(nil), p.Characters...)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// nonZero 零值视为未设置，保留默认值
func nonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
