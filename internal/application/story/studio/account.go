package studio

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"veo-story-studio/internal/application/quota"
	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/application/story/prompt"
	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/logger"
	"veo-story-studio/pkg/metrics"
)

// ---------------- 认证 ----------------

// Signup 注册
func (s *Service) Signup(ctx context.Context, email, password string) (map[string]any, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("email and password are required")
	}
	return s.auth.Signup(ctx, email, password)
}

// Verify 校验注册验证码
func (s *Service) Verify(ctx context.Context, email, otp string) (map[string]any, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("email and otp are required")
	}
	return s.auth.Verify(ctx, email, otp)
}

// Login 登录并保存会话
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("email and password are required")
	}
	session, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetSession(ctx, *session); err != nil {
		return nil, err
	}
	s.notes.Notify(ctx, story.LevelSuccess, "Successfully logged in")
	u := session.User
	return &u, nil
}

// Logout 清除会话
func (s *Service) Logout(ctx context.Context) error {
	if err := s.cache.ClearSession(ctx); err != nil {
		return err
	}
	s.notes.Notify(ctx, story.LevelInfo, "Logged out")
	return nil
}

// CurrentUser 当前会话用户，未登录返回 ErrUnauthorized
func (s *Service) CurrentUser(ctx context.Context) (*entity.User, error) {
	u, err := s.cache.User(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return u, nil
}

// UpdateTokens 更新会话用户的 Token 余额
func (s *Service) UpdateTokens(ctx context.Context, balance int) (*entity.User, error) {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	u.Tokens = balance
	if err := s.cache.SetUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// ---------------- 生成 ----------------

// GenerateStory 调用远端生成故事（不导入故事图）
// 先检查余额，成功后扣费并同步本地余额
func (s *Service) GenerateStory(ctx context.Context, opts story.GenerationOptions) (*entity.GenerationResult, error) {
	mode := generationMode(opts.Enhanced)

	req, err := story.BuildRequest(opts)
	if err != nil {
		s.notifyError(ctx, err)
		return nil, err
	}

	cost := quota.GenerationCost(opts.Enhanced)
	if err := s.checkBalance(ctx, cost); err != nil {
		return nil, err
	}

	var result *entity.GenerationResult
	if opts.Enhanced {
		result, err = s.generator.GenerateEnhanced(ctx, req)
	} else {
		result, err = s.generator.Generate(ctx, req)
	}
	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues(mode, "error").Inc()
		logger.Error(ctx, "story generation failed", err, "mode", req.Mode, "enhanced", opts.Enhanced)
		s.notifyError(ctx, err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrGenerationFailed.WithError(err)
	}
	metrics.StoryGenerationTotal.WithLabelValues(mode, "success").Inc()

	result.TokensUsed = cost
	if opts.Enhanced {
		s.notes.Notify(ctx, story.LevelSuccess, fmt.Sprintf("✨ Enhanced story generated! (%d tokens used)", cost))
	} else {
		s.notes.Notify(ctx, story.LevelSuccess, fmt.Sprintf("Story generated! (%d tokens used)", cost))
	}

	s.chargeTokens(ctx, cost)
	return result, nil
}

// EnhanceOptions 增强已有故事的参数，空值使用默认
type EnhanceOptions struct {
	Language string
	Style    string
}

// EnhanceStory 对当前故事图进行多代理增强，结果仅返回供审阅，不导入故事图
// 扣费由远端完成，本地只同步余额
func (s *Service) EnhanceStory(ctx context.Context, opts EnhanceOptions) (*entity.GenerationResult, error) {
	snap := s.store.Snapshot()
	if len(snap.Scenes) == 0 {
		return nil, apperrors.ErrInvalidParam.WithDetail(prompt.EmptyStoryText)
	}

	user, err := s.cache.User(ctx)
	if err != nil {
		return nil, err
	}
	cost := quota.EnhancedGenerationCost
	if err := s.quota.CheckBalance(user, cost); err != nil {
		var insufficient quota.InsufficientTokensError
		if errors.As(err, &insufficient) {
			s.notes.Notify(ctx, story.LevelError, fmt.Sprintf("Need %d tokens for enhancement", cost))
			return nil, insufficient.AppError()
		}
		return nil, err
	}

	total := 0
	for _, sc := range snap.Scenes {
		total += sc.Duration
	}
	req := entity.EnhanceRequest{
		Story:       snap,
		VideoLength: total,
		Language:    cmp.Or(opts.Language, story.DefaultLanguage),
		Style:       cmp.Or(opts.Style, entity.ModeCinematic),
	}

	result, err := s.generator.EnhanceExisting(ctx, req)
	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues("enhance_existing", "error").Inc()
		logger.Error(ctx, "story enhancement failed", err, "scenes", len(snap.Scenes))
		s.notifyError(ctx, err)
		return nil, err
	}
	metrics.StoryGenerationTotal.WithLabelValues("enhance_existing", "success").Inc()

	result.TokensUsed = cost
	if _, err := s.UpdateTokens(ctx, user.Tokens-cost); err != nil {
		logger.Warn(ctx, "failed to sync token balance", "error", err)
	}
	return result, nil
}

// ApplyGenerated 静默导入生成结果，完成后给出一次汇总提示
func (s *Service) ApplyGenerated(ctx context.Context, data entity.StoryData) story.ApplySummary {
	summary := story.ApplyGenerated(ctx, s.store, data)
	s.notes.Notify(ctx, story.LevelSuccess, summary.Message())
	return summary
}

func (s *Service) checkBalance(ctx context.Context, cost int) error {
	user, err := s.cache.User(ctx)
	if err != nil {
		return err
	}
	err = s.quota.CheckBalance(user, cost)
	var insufficient quota.InsufficientTokensError
	if errors.As(err, &insufficient) {
		s.notes.Notify(ctx, story.LevelError, insufficient.Error())
		return insufficient.AppError()
	}
	return err
}

// chargeTokens 扣费失败只记录并提示，已生成的结果照常返回
func (s *Service) chargeTokens(ctx context.Context, cost int) {
	if _, err := s.usage.Record(ctx, cost); err != nil {
		logger.Error(ctx, "failed to deduct tokens", err, "tokens", cost)
		s.notes.Notify(ctx, story.LevelError, "Failed to deduct tokens")
	}
}

func (s *Service) notifyError(ctx context.Context, err error) {
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Detail != "" {
			msg = appErr.Detail
		}
	}
	s.notes.Notify(ctx, story.LevelError, msg)
}

func generationMode(enhanced bool) string {
	if enhanced {
		return "enhanced"
	}
	return "standard"
}

// ---------------- 支付 ----------------

// CreateOrder 创建充值订单
func (s *Service) CreateOrder(ctx context.Context) (entity.PaymentOrder, error) {
	return s.payments.CreateOrder(ctx)
}

// VerifyPayment 校验支付结果；返回中带有新余额时同步到会话用户
func (s *Service) VerifyPayment(ctx context.Context, payload map[string]any) (map[string]any, error) {
	res, err := s.payments.Verify(ctx, payload)
	if err != nil {
		return nil, err
	}
	if balance, ok := res["tokens"].(float64); ok {
		if _, err := s.UpdateTokens(ctx, int(balance)); err != nil {
			logger.Warn(ctx, "failed to sync token balance", "error", err)
		}
	}
	return res, nil
}

// PaymentHistory 支付与扣费记录
func (s *Service) PaymentHistory(ctx context.Context) ([]entity.PaymentRecord, error) {
	return s.payments.History(ctx)
}
