package repository

import (
	"context"

	"veo-story-studio/internal/domain/entity"
)

// AuthClient 远端认证接口
type AuthClient interface {
	Signup(ctx context.Context, email, password string) (map[string]any, error)
	Verify(ctx context.Context, email, otp string) (map[string]any, error)
	Login(ctx context.Context, email, password string) (*entity.Session, error)
}

// StoryGenerator 远端 AI 故事生成接口
type StoryGenerator interface {
	// Generate 标准生成
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)

	// GenerateEnhanced 多代理增强生成
	GenerateEnhanced(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)

	// EnhanceExisting 增强已有故事
	EnhanceExisting(ctx context.Context, req entity.EnhanceRequest) (*entity.GenerationResult, error)
}

// PaymentClient 远端支付接口
type PaymentClient interface {
	CreateOrder(ctx context.Context) (entity.PaymentOrder, error)
	Verify(ctx context.Context, payload map[string]any) (map[string]any, error)
	Deduct(ctx context.Context, tokens int) (map[string]any, error)
	History(ctx context.Context) ([]entity.PaymentRecord, error)
}
