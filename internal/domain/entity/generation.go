package entity

// 生成模式
const (
	ModeCinematic      = "cinematic"
	ModeYouTubeShorts  = "youtube-shorts"
	ModePhotoRealistic = "photo-realistic"
)

// GenerationRequest AI 故事生成请求体
type GenerationRequest struct {
	StoryIdea      string `json:"storyIdea"`
	VideoLength    int    `json:"videoLength"`
	NumberOfScenes int    `json:"numberOfScenes"`
	Language       string `json:"language"`
	Style          string `json:"style"`
	SceneDuration  int    `json:"sceneDuration"`
	Mode           string `json:"mode"`
}

// EnhanceRequest 对已有故事进行增强的请求体
type EnhanceRequest struct {
	Story       StoryData `json:"story"`
	VideoLength int       `json:"videoLength"`
	Language    string    `json:"language"`
	Style       string    `json:"style"`
}

// Enhancement 多代理增强评审结果
type Enhancement struct {
	Scores         map[string]float64 `json:"scores,omitempty"`
	Approved       bool               `json:"approved"`
	Iterations     int                `json:"iterations"`
	ProcessingTime float64            `json:"processingTime"`
}

// GenerationResult 生成结果
type GenerationResult struct {
	Story       StoryData    `json:"story"`
	Enhancement *Enhancement `json:"enhancement,omitempty"`
	TokensUsed  int          `json:"tokensUsed"`
}

// PaymentOrder 充值订单
type PaymentOrder map[string]any

// PaymentRecord 支付/扣费记录
type PaymentRecord map[string]any
