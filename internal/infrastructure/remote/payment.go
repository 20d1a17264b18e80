package remote

import (
	"context"
	"net/http"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
)

// PaymentClient 远端支付
type PaymentClient struct {
	*Client
}

// NewPaymentClient 创建支付客户端
func NewPaymentClient(c *Client) *PaymentClient {
	return &PaymentClient{Client: c}
}

// CreateOrder 创建充值订单，返回 data 中的订单信息
func (c *PaymentClient) CreateOrder(ctx context.Context) (entity.PaymentOrder, error) {
	var out envelope[entity.PaymentOrder]
	if err := c.do(ctx, call{op: "payment.create_order", method: http.MethodPost, path: "/payment/create-order",
		body: map[string]any{}, out: &out}); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Verify 校验支付签名，返回 data（包含新余额 tokens）
func (c *PaymentClient) Verify(ctx context.Context, payload map[string]any) (map[string]any, error) {
	var out envelope[map[string]any]
	if err := c.do(ctx, call{op: "payment.verify", method: http.MethodPost, path: "/payment/verify",
		body: payload, out: &out}); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Deduct 扣除 Token
func (c *PaymentClient) Deduct(ctx context.Context, tokens int) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, call{op: "payment.deduct", method: http.MethodPost, path: "/payment/deduct",
		body: map[string]int{"tokens": tokens}, out: &out})
	return out, err
}

// History 支付与扣费记录
func (c *PaymentClient) History(ctx context.Context) ([]entity.PaymentRecord, error) {
	var out envelope[[]entity.PaymentRecord]
	if err := c.do(ctx, call{op: "payment.history", method: http.MethodGet, path: "/payment/history", out: &out}); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []entity.PaymentRecord{}, nil
	}
	return out.Data, nil
}

var _ repository.PaymentClient = (*PaymentClient)(nil)
