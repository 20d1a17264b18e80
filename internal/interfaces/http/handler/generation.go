package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/interfaces/http/dto"
)

// GenerationHandler 故事生成与导入
type GenerationHandler struct {
	svc *studio.Service
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(svc *studio.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

// Generate 生成故事，结果仅返回供审阅
// @Summary 生成故事
// @Tags Generation
// @Param body body dto.GenerateRequest true "生成参数"
// @Failure 402 {object} dto.ErrorResponse
// @Router /v1/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	result, err := h.svc.GenerateStory(c.Request.Context(), req.ToOptions())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}

// Enhance 增强当前故事
// @Router /v1/generate/enhance [post]
func (h *GenerationHandler) Enhance(c *gin.Context) {
	var req dto.EnhanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	result, err := h.svc.EnhanceStory(c.Request.Context(), studio.EnhanceOptions{
		Language: req.Language,
		Style:    req.Style,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}

// Apply 把审阅后的生成结果合入故事图，所有实体获得新 ID
// @Router /v1/generate/apply [post]
func (h *GenerationHandler) Apply(c *gin.Context) {
	var req dto.ApplyGeneratedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	summary := h.svc.ApplyGenerated(c.Request.Context(), req.ToStoryData())
	dto.Success(c, dto.ToApplySummaryResponse(summary))
}
