package remote

import (
	"context"
	"net/http"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
)

// AuthClient 远端认证
type AuthClient struct {
	*Client
}

// NewAuthClient 创建认证客户端
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{Client: c}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	OTP      string `json:"otp,omitempty"`
}

// Signup 注册，远端发送验证码
func (c *AuthClient) Signup(ctx context.Context, email, password string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, call{op: "auth.signup", method: http.MethodPost, path: "/auth/signup",
		body: credentials{Email: email, Password: password}, out: &out})
	return out, err
}

// Verify 校验验证码
func (c *AuthClient) Verify(ctx context.Context, email, otp string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, call{op: "auth.verify", method: http.MethodPost, path: "/auth/verify",
		body: credentials{Email: email, OTP: otp}, out: &out})
	return out, err
}

// Login 登录，返回 {token, user}
func (c *AuthClient) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	var out entity.Session
	if err := c.do(ctx, call{op: "auth.login", method: http.MethodPost, path: "/auth/login",
		body: credentials{Email: email, Password: password}, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ repository.AuthClient = (*AuthClient)(nil)
