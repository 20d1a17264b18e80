package quota

import (
	"context"
	"fmt"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
)

// SessionUserStore 保存会话用户（余额随扣费更新）
type SessionUserStore interface {
	User(ctx context.Context) (*entity.User, error)
	SetUser(ctx context.Context, u entity.User) error
}

// UsageRecorder 生成成功后在远端扣费并同步本地会话余额
type UsageRecorder struct {
	payments repository.PaymentClient
	users    SessionUserStore
}

func NewUsageRecorder(payments repository.PaymentClient, users SessionUserStore) *UsageRecorder {
	return &UsageRecorder{
		payments: payments,
		users:    users,
	}
}

// Record 扣除 tokens，返回扣费后的用户
func (r *UsageRecorder) Record(ctx context.Context, tokens int) (*entity.User, error) {
	if r == nil || r.payments == nil {
		return nil, nil
	}
	if tokens < 0 {
		return nil, fmt.Errorf("invalid token usage")
	}
	if tokens == 0 {
		return nil, nil
	}

	if _, err := r.payments.Deduct(ctx, tokens); err != nil {
		return nil, err
	}

	if r.users == nil {
		return nil, nil
	}
	u, err := r.users.User(ctx)
	if err != nil || u == nil {
		return nil, err
	}
	u.Tokens -= tokens
	if u.Tokens < 0 {
		u.Tokens = 0
	}
	if err := r.users.SetUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}
