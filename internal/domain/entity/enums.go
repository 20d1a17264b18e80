package entity

import "slices"

// CameraType 镜头类型
type CameraType string

const (
	CameraWide         CameraType = "wide"
	CameraMedium       CameraType = "medium"
	CameraClose        CameraType = "close"
	CameraExtremeClose CameraType = "extreme-close"
	CameraTracking     CameraType = "tracking"
	CameraDolly        CameraType = "dolly"
	CameraCrane        CameraType = "crane"
	CameraPOV          CameraType = "pov"
	CameraOverShoulder CameraType = "over-shoulder"
	CameraAerial       CameraType = "aerial"
	CameraSlowMotion   CameraType = "slow-motion"
)

// CameraTypes 全部镜头类型，按展示顺序
var CameraTypes = []CameraType{
	CameraWide, CameraMedium, CameraClose, CameraExtremeClose, CameraTracking, CameraDolly,
	CameraCrane, CameraPOV, CameraOverShoulder, CameraAerial, CameraSlowMotion,
}

// Valid 是否为已知镜头类型
func (c CameraType) Valid() bool {
	return slices.Contains(CameraTypes, c)
}

// EmotionTag 镜头情绪基调
type EmotionTag string

const (
	EmotionJoy          EmotionTag = "joy"
	EmotionSadness      EmotionTag = "sadness"
	EmotionAnger        EmotionTag = "anger"
	EmotionFear         EmotionTag = "fear"
	EmotionSurprise     EmotionTag = "surprise"
	EmotionDisgust      EmotionTag = "disgust"
	EmotionAnticipation EmotionTag = "anticipation"
	EmotionTrust        EmotionTag = "trust"
	EmotionTension      EmotionTag = "tension"
	EmotionCalm         EmotionTag = "calm"
	EmotionExcitement   EmotionTag = "excitement"
	EmotionMelancholy   EmotionTag = "melancholy"
	EmotionNeutral      EmotionTag = "neutral"
)

// EmotionTags 全部情绪基调
var EmotionTags = []EmotionTag{
	EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionSurprise, EmotionDisgust,
	EmotionAnticipation, EmotionTrust, EmotionTension, EmotionCalm, EmotionExcitement,
	EmotionMelancholy, EmotionNeutral,
}

// Valid 是否为已知情绪基调
func (e EmotionTag) Valid() bool {
	return slices.Contains(EmotionTags, e)
}

// CharacterEmotion 角色表情
type CharacterEmotion string

const (
	CharacterJoy           CharacterEmotion = "joy"
	CharacterSadness       CharacterEmotion = "sadness"
	CharacterAnger         CharacterEmotion = "anger"
	CharacterFear          CharacterEmotion = "fear"
	CharacterSurprise      CharacterEmotion = "surprise"
	CharacterDisgust       CharacterEmotion = "disgust"
	CharacterNeutral       CharacterEmotion = "neutral"
	CharacterDetermination CharacterEmotion = "determination"
	CharacterConfusion     CharacterEmotion = "confusion"
	CharacterLove          CharacterEmotion = "love"
	CharacterContempt      CharacterEmotion = "contempt"
	CharacterPride         CharacterEmotion = "pride"
)

// CharacterEmotions 全部角色表情
var CharacterEmotions = []CharacterEmotion{
	CharacterJoy, CharacterSadness, CharacterAnger, CharacterFear, CharacterSurprise, CharacterDisgust,
	CharacterNeutral, CharacterDetermination, CharacterConfusion, CharacterLove, CharacterContempt,
	CharacterPride,
}

// Valid 是否为已知角色表情
func (e CharacterEmotion) Valid() bool {
	return slices.Contains(CharacterEmotions, e)
}

// TimeOfDay 场景时间
type TimeOfDay string

const (
	TimeDawn       TimeOfDay = "dawn"
	TimeMorning    TimeOfDay = "morning"
	TimeNoon       TimeOfDay = "noon"
	TimeAfternoon  TimeOfDay = "afternoon"
	TimeGoldenHour TimeOfDay = "golden-hour"
	TimeDusk       TimeOfDay = "dusk"
	TimeNight      TimeOfDay = "night"
	TimeMidnight   TimeOfDay = "midnight"
)

// TimesOfDay 全部场景时间
var TimesOfDay = []TimeOfDay{
	TimeDawn, TimeMorning, TimeNoon, TimeAfternoon, TimeGoldenHour, TimeDusk, TimeNight, TimeMidnight,
}

// Valid 是否为已知场景时间
func (t TimeOfDay) Valid() bool {
	return slices.Contains(TimesOfDay, t)
}

// EmotionalArc 场景情绪弧线
type EmotionalArc string

const (
	ArcRising     EmotionalArc = "rising"
	ArcFalling    EmotionalArc = "falling"
	ArcClimax     EmotionalArc = "climax"
	ArcSteady     EmotionalArc = "steady"
	ArcRevelation EmotionalArc = "revelation"
	ArcConflict   EmotionalArc = "conflict"
	ArcResolution EmotionalArc = "resolution"
)

// EmotionalArcs 全部情绪弧线
var EmotionalArcs = []EmotionalArc{
	ArcRising, ArcFalling, ArcClimax, ArcSteady, ArcRevelation, ArcConflict, ArcResolution,
}

// Valid 是否为已知情绪弧线
func (a EmotionalArc) Valid() bool {
	return slices.Contains(EmotionalArcs, a)
}
