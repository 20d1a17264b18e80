// Package remote 实现远端项目 API 客户端（项目、认证、生成、支付）
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/logger"
	"veo-story-studio/pkg/metrics"
	"veo-story-studio/pkg/utils"
)

var tracer = otel.Tracer("remote")

// 默认参数
const (
	DefaultBaseURL           = "http://localhost:5000/api"
	DefaultTimeout           = 15 * time.Second
	DefaultGenerationTimeout = 120 * time.Second
	DefaultRetryAttempts     = 3
	DefaultRetryDelay        = 300 * time.Millisecond

	fallbackMessage = "Something went wrong"
)

// Client 远端 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     repository.TokenSource

	timeout    time.Duration
	genTimeout time.Duration
	attempts   uint
	delay      time.Duration

	now func() time.Time
}

// NewClient 创建远端客户端，tokens 为空时所有请求都不携带认证头
func NewClient(cfg *config.RemoteConfig, tokens repository.TokenSource) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		timeout:    cfg.Timeout,
		genTimeout: cfg.GenerationTimeout,
		attempts:   cfg.RetryAttempts,
		delay:      cfg.RetryDelay,
		now:        time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.genTimeout <= 0 {
		c.genTimeout = DefaultGenerationTimeout
	}
	if c.attempts == 0 {
		c.attempts = DefaultRetryAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultRetryDelay
	}
	return c
}

// call 单次远端调用描述
type call struct {
	op      string
	method  string
	path    string
	body    any
	out     any
	timeout time.Duration
}

// errorBody 远端错误响应
type errorBody struct {
	Error string `json:"error"`
}

// statusError 非 2xx 响应
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote status %d: %s", e.status, e.msg)
}

// idempotent GET/PUT/DELETE 可安全重试，POST 从不重试
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// retryable 传输错误与 5xx 可重试
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= http.StatusInternalServerError
	}
	var appErr *apperrors.AppError
	return !errors.As(err, &appErr)
}

// do 执行调用：认证检查、超时、重试、追踪、指标与错误映射
func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := tracer.Start(ctx, "remote."+cl.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", cl.method),
			attribute.String("remote.path", cl.path),
		))
	defer span.End()

	start := time.Now()
	token, err := c.bearer(ctx)
	if err != nil {
		c.record(cl.op, "unauthorized", start)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var payload []byte
	if cl.body != nil {
		if payload, err = json.Marshal(cl.body); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to encode request")
		}
	}

	timeout := cl.timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	attempt := func() error {
		return c.send(ctx, cl, token, payload, timeout)
	}
	if idempotent(cl.method) {
		err = retry.Do(attempt,
			retry.Context(ctx),
			retry.Attempts(c.attempts),
			retry.Delay(c.delay),
			retry.DelayType(retry.BackOffDelay),
			retry.RetryIf(retryable),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				logger.Warn(ctx, "retrying remote call", "op", cl.op, "attempt", n+1, "error", err)
			}),
		)
	} else {
		err = attempt()
	}

	if err != nil {
		mapped := mapError(err)
		c.record(cl.op, "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Error())
		return mapped
	}
	c.record(cl.op, "success", start)
	return nil
}

func (c *Client) send(ctx context.Context, cl call, token string, payload []byte, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s request: %w", cl.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", cl.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Error
		if msg == "" {
			msg = fallbackMessage
		}
		return &statusError{status: resp.StatusCode, msg: msg}
	}

	if cl.out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeRemoteError, fallbackMessage)
	}
	return nil
}

// bearer 取会话 Token，已过期的 JWT 在本地直接拒绝
func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token := c.tokens.Token(ctx)
	if token == "" {
		return "", nil
	}
	if err := utils.CheckTokenExpiry(token, c.now()); err != nil {
		return "", apperrors.ErrTokenExpired
	}
	return token, nil
}

func (c *Client) record(op, status string, start time.Time) {
	metrics.RemoteRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// mapError 把远端响应映射为 AppError，消息保持远端原文
func mapError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusUnauthorized:
			return apperrors.New(apperrors.CodeUnauthorized, se.msg)
		case http.StatusNotFound:
			return apperrors.New(apperrors.CodeNotFound, se.msg)
		case http.StatusPaymentRequired:
			return apperrors.New(apperrors.CodeInsufficientTokens, se.msg)
		}
		return apperrors.New(apperrors.CodeRemoteError, se.msg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.CodeRemoteError, "remote request timed out")
	}
	return apperrors.Wrap(err, apperrors.CodeRemoteError, fallbackMessage)
}
