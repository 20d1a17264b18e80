// Package quota 提供生成额度相关能力
package quota

import (
	"fmt"

	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
)

// 单次生成消耗的 Token 数
const (
	StandardGenerationCost = 10
	EnhancedGenerationCost = 20
)

// GenerationCost 按生成方式返回消耗
func GenerationCost(enhanced bool) int {
	if enhanced {
		return EnhancedGenerationCost
	}
	return StandardGenerationCost
}

// InsufficientTokensError 表示用户余额不足以支付本次生成
type InsufficientTokensError struct {
	Need int
	Have int
}

func (e InsufficientTokensError) Error() string {
	return fmt.Sprintf("Insufficient tokens. Need %d tokens.", e.Need)
}

// AppError 转换为业务错误，消息与用户提示一致
func (e InsufficientTokensError) AppError() *apperrors.AppError {
	return apperrors.New(apperrors.CodeInsufficientTokens, e.Error())
}

// TokenQuotaChecker 生成前检查会话用户余额
type TokenQuotaChecker struct{}

func NewTokenQuotaChecker() *TokenQuotaChecker {
	return &TokenQuotaChecker{}
}

// CheckBalance 检查用户余额是否足够支付 cost。
// 未登录返回 ErrUnauthorized；余额不足返回 InsufficientTokensError。
func (c *TokenQuotaChecker) CheckBalance(user *entity.User, cost int) error {
	if user == nil {
		return apperrors.ErrUnauthorized
	}
	if user.Tokens < cost {
		return InsufficientTokensError{Need: cost, Have: user.Tokens}
	}
	return nil
}
