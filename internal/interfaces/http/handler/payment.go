package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/interfaces/http/dto"
)

// PaymentHandler 充值
type PaymentHandler struct {
	svc *studio.Service
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(svc *studio.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateOrder 创建充值订单
// @Router /v1/payment/order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	order, err := h.svc.CreateOrder(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, order)
}

// Verify 校验支付回调参数
// @Router /v1/payment/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.VerifyPayment(c.Request.Context(), payload)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}

// History 支付记录
// @Router /v1/payment/history [get]
func (h *PaymentHandler) History(c *gin.Context) {
	records, err := h.svc.PaymentHistory(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	if records == nil {
		records = []entity.PaymentRecord{}
	}
	dto.Success(c, records)
}
