package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story/prompt"
	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/interfaces/http/dto"
	"veo-story-studio/pkg/logger"
)

// StoryHandler 故事图整体、提示词、版本与偏好
type StoryHandler struct {
	svc *studio.Service
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(svc *studio.Service) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// GetStory 当前故事图
// @Summary 获取故事图
// @Tags Story
// @Produce json
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Router /v1/story [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	dto.Success(c, dto.StoryResponse{
		StoryData: h.svc.Store().Snapshot(),
		Project:   h.svc.CurrentProject(),
	})
}

// ClearStory 清空故事图
// @Summary 清空故事图（本地与已绑定的远端项目）
// @Tags Story
// @Success 204
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/story [delete]
func (h *StoryHandler) ClearStory(c *gin.Context) {
	if err := h.svc.ClearAllStory(c.Request.Context()); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}

// Preview 故事概览文本
// @Summary 故事概览
// @Tags Story
// @Produce plain
// @Router /v1/story/preview [get]
func (h *StoryHandler) Preview(c *gin.Context) {
	c.String(http.StatusOK, h.svc.Preview())
}

// Prompts 逐场景提示词
// @Summary 逐场景 Veo 提示词
// @Tags Prompts
// @Produce json
// @Success 200 {object} dto.Response[[]prompt.ScenePromptDoc]
// @Router /v1/prompts [get]
func (h *StoryHandler) Prompts(c *gin.Context) {
	docs := h.svc.Prompts()
	if docs == nil {
		docs = []prompt.ScenePromptDoc{}
	}
	dto.Success(c, docs)
}

// CombinedPrompt 合并提示词文档
// @Summary 合并的 Veo 提示词文档
// @Tags Prompts
// @Produce plain
// @Router /v1/prompts/combined [get]
func (h *StoryHandler) CombinedPrompt(c *gin.Context) {
	c.String(http.StatusOK, h.svc.CombinedPrompt())
}

// Versions 版本历史摘要
// @Summary 本地版本历史（按时间正序）
// @Tags Versions
// @Produce json
// @Router /v1/versions [get]
func (h *StoryHandler) Versions(c *gin.Context) {
	ctx := c.Request.Context()
	versions, err := h.svc.Versions(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load versions", err)
		dto.FromError(c, err)
		return
	}
	summaries := make([]entity.VersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, v.Summary())
	}
	dto.Success(c, summaries)
}

// RestoreVersion 恢复版本
// @Summary 以版本快照替换故事图
// @Tags Versions
// @Param id path string true "版本 ID"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/versions/{id}/restore [post]
func (h *StoryHandler) RestoreVersion(c *gin.Context) {
	v, err := h.svc.RestoreVersion(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, v)
}

// GetSettings 用户偏好
// @Router /v1/settings [get]
func (h *StoryHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, settings)
}

// SaveSettings 保存用户偏好
// @Router /v1/settings [put]
func (h *StoryHandler) SaveSettings(c *gin.Context) {
	var settings entity.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.SaveSettings(c.Request.Context(), settings); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, settings)
}

// GetTheme 当前主题
// @Router /v1/theme [get]
func (h *StoryHandler) GetTheme(c *gin.Context) {
	theme, err := h.svc.Theme(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ThemeResponse{Theme: theme})
}

// SetTheme 设置主题，请求体为空主题时在深浅之间切换
// @Router /v1/theme [put]
func (h *StoryHandler) SetTheme(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ThemeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	theme := req.Theme
	var err error
	if theme == "" {
		theme, err = h.svc.ToggleTheme(ctx)
	} else {
		err = h.svc.SetTheme(ctx, theme)
	}
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ThemeResponse{Theme: theme})
}

// Notifications 通知列表
// @Summary 序号大于 since 的通知
// @Tags Story
// @Param since query int false "起始序号（不含）"
// @Router /v1/notifications [get]
func (h *StoryHandler) Notifications(c *gin.Context) {
	dto.Success(c, h.svc.Notifications().Since(queryUint(c, "since", 0)))
}
