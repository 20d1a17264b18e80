package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/interfaces/http/dto"
	"veo-story-studio/pkg/logger"
)

// ProjectHandler 远端项目
type ProjectHandler struct {
	svc *studio.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *studio.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Tags Projects
// @Produce json
// @Success 200 {object} dto.Response[[]entity.ProjectSummary]
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := h.svc.ListProjects(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.FromError(c, err)
		return
	}
	if projects == nil {
		projects = []entity.ProjectSummary{}
	}
	dto.Success(c, projects)
}

// CreateProject 以当前故事图创建项目并绑定
// @Summary 创建项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[entity.Project]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, p)
}

// OpenProject 加载项目并替换当前故事图
// @Router /v1/projects/{id}/open [post]
func (h *ProjectHandler) OpenProject(c *gin.Context) {
	p, err := h.svc.LoadProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, p)
}

// SaveProject 立即保存到绑定的项目，未绑定时返回 409
// @Router /v1/projects/save [post]
func (h *ProjectHandler) SaveProject(c *gin.Context) {
	if err := h.svc.SaveProject(c.Request.Context()); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, h.svc.CurrentProject())
}

// UpdateProject 修改项目名称或描述
// @Router /v1/projects/{id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), req.ToUpdate())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, p)
}

// DeleteProject 删除项目
// @Router /v1/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}
