package remote

import (
	"context"
	"net/http"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
)

// GenerationClient 远端 AI 故事生成
type GenerationClient struct {
	*Client
}

// NewGenerationClient 创建生成客户端
func NewGenerationClient(c *Client) *GenerationClient {
	return &GenerationClient{Client: c}
}

// envelope 生成接口统一包在 data 中
type envelope[T any] struct {
	Data T `json:"data"`
}

// enhancedPayload 增强接口 data 结构
type enhancedPayload struct {
	Story       entity.StoryData    `json:"story"`
	Enhancement *entity.Enhancement `json:"enhancement"`
}

// Generate 标准生成，data 即故事
func (c *GenerationClient) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	var out envelope[entity.StoryData]
	if err := c.do(ctx, call{op: "story.generate", method: http.MethodPost, path: "/generate-story",
		body: req, out: &out, timeout: c.genTimeout}); err != nil {
		return nil, err
	}
	return &entity.GenerationResult{Story: out.Data}, nil
}

// GenerateEnhanced 多代理增强生成
func (c *GenerationClient) GenerateEnhanced(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	var out envelope[enhancedPayload]
	if err := c.do(ctx, call{op: "story.generate_enhanced", method: http.MethodPost, path: "/agents/generate-story-enhanced",
		body: req, out: &out, timeout: c.genTimeout}); err != nil {
		return nil, err
	}
	return &entity.GenerationResult{Story: out.Data.Story, Enhancement: out.Data.Enhancement}, nil
}

// EnhanceExisting 增强已有故事
func (c *GenerationClient) EnhanceExisting(ctx context.Context, req entity.EnhanceRequest) (*entity.GenerationResult, error) {
	var out envelope[enhancedPayload]
	if err := c.do(ctx, call{op: "story.enhance_existing", method: http.MethodPost, path: "/agents/enhance-existing-story",
		body: req, out: &out, timeout: c.genTimeout}); err != nil {
		return nil, err
	}
	return &entity.GenerationResult{Story: out.Data.Story, Enhancement: out.Data.Enhancement}, nil
}

var _ repository.StoryGenerator = (*GenerationClient)(nil)
