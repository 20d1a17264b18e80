package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/interfaces/http/dto"
	"veo-story-studio/pkg/errors"
)

// SceneHandler 场景与镜头
type SceneHandler struct {
	svc *studio.Service
}

// NewSceneHandler 创建场景处理器
func NewSceneHandler(svc *studio.Service) *SceneHandler {
	return &SceneHandler{svc: svc}
}

func (h *SceneHandler) validateScene(sc entity.Scene) map[string]string {
	return mergeValidation(
		story.ValidateScene(sc),
		story.ValidateSceneReferences(sc, h.svc.Store().Locations()),
	)
}

// CreateScene 新建场景
// @Summary 新建场景，order 取当前场景数量
// @Tags Scenes
// @Accept json
// @Produce json
// @Param body body entity.ScenePatch true "场景字段"
// @Success 201 {object} dto.Response[entity.Scene]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/scenes [post]
func (h *SceneHandler) CreateScene(c *gin.Context) {
	var patch entity.ScenePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate := entity.NewScene()
	patch.Apply(&candidate)
	if fields := h.validateScene(candidate); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	dto.Created(c, h.svc.Store().AddScene(c.Request.Context(), patch, false))
}

// UpdateScene 修改场景
// @Router /v1/scenes/{id} [patch]
func (h *SceneHandler) UpdateScene(c *gin.Context) {
	id := c.Param("id")
	var patch entity.ScenePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	store := h.svc.Store()
	candidate, ok := store.Scene(id)
	if !ok {
		dto.FromError(c, errors.ErrSceneNotFound)
		return
	}
	patch.Apply(&candidate)
	if fields := h.validateScene(candidate); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	updated, ok := store.UpdateScene(c.Request.Context(), id, patch)
	if !ok {
		dto.FromError(c, errors.ErrSceneNotFound)
		return
	}
	dto.Success(c, updated)
}

// DeleteScene 删除场景
// @Router /v1/scenes/{id} [delete]
func (h *SceneHandler) DeleteScene(c *gin.Context) {
	id := c.Param("id")
	if !h.svc.Store().DeleteScene(c.Request.Context(), id) {
		dto.FromError(c, errors.ErrSceneNotFound)
		return
	}
	dto.Success(c, dto.DeleteResponse{ID: id, Deleted: true})
}

// ReorderScenes 按 ID 列表重排场景
// @Summary 重排场景，ids 须为全部场景 ID 的排列
// @Tags Scenes
// @Param body body dto.ReorderScenesRequest true "场景 ID 顺序"
// @Router /v1/scenes/order [put]
func (h *SceneHandler) ReorderScenes(c *gin.Context) {
	var req dto.ReorderScenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	scenes, err := h.svc.ReorderScenesByID(c.Request.Context(), req.IDs)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, scenes)
}

// AddShot 在场景末尾追加镜头
// @Summary 追加镜头
// @Tags Shots
// @Param id path string true "场景 ID"
// @Param body body entity.ShotPatch true "镜头字段"
// @Success 201 {object} dto.Response[entity.Shot]
// @Router /v1/scenes/{id}/shots [post]
func (h *SceneHandler) AddShot(c *gin.Context) {
	sceneID := c.Param("id")
	var patch entity.ShotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate := entity.NewShot()
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateShot(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	shot, ok := h.svc.Store().AddShot(c.Request.Context(), sceneID, patch)
	if !ok {
		dto.FromError(c, errors.ErrSceneNotFound)
		return
	}
	dto.Created(c, shot)
}

// UpdateShot 修改镜头
// @Router /v1/scenes/{id}/shots/{shotId} [patch]
func (h *SceneHandler) UpdateShot(c *gin.Context) {
	sceneID, shotID := c.Param("id"), c.Param("shotId")
	var patch entity.ShotPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate, err := h.findShot(sceneID, shotID)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateShot(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	updated, ok := h.svc.Store().UpdateShot(c.Request.Context(), sceneID, shotID, patch)
	if !ok {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	dto.Success(c, updated)
}

// DeleteShot 删除镜头
// @Router /v1/scenes/{id}/shots/{shotId} [delete]
func (h *SceneHandler) DeleteShot(c *gin.Context) {
	sceneID, shotID := c.Param("id"), c.Param("shotId")
	if _, err := h.findShot(sceneID, shotID); err != nil {
		dto.FromError(c, err)
		return
	}
	if !h.svc.Store().DeleteShot(c.Request.Context(), sceneID, shotID) {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	dto.Success(c, dto.DeleteResponse{ID: shotID, Deleted: true})
}

// findShot 区分场景不存在与镜头不存在
func (h *SceneHandler) findShot(sceneID, shotID string) (entity.Shot, error) {
	sc, ok := h.svc.Store().Scene(sceneID)
	if !ok {
		return entity.Shot{}, errors.ErrSceneNotFound
	}
	for _, sh := range sc.Shots {
		if sh.ID == shotID {
			return sh, nil
		}
	}
	return entity.Shot{}, errors.ErrEntityNotFound.WithDetail("shot not found")
}
