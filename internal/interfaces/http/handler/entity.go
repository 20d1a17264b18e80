package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/interfaces/http/dto"
	"veo-story-studio/pkg/errors"
)

// EntityHandler 角色与地点
// 写入前先以合并后的候选实体做字段校验，校验失败时故事图保持不变
type EntityHandler struct {
	store *story.Store
}

// NewEntityHandler 创建实体处理器
func NewEntityHandler(store *story.Store) *EntityHandler {
	return &EntityHandler{store: store}
}

// CreateCharacter 新建角色
// @Summary 新建角色
// @Tags Characters
// @Accept json
// @Produce json
// @Param body body entity.CharacterPatch true "角色字段"
// @Success 201 {object} dto.Response[entity.Character]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/characters [post]
func (h *EntityHandler) CreateCharacter(c *gin.Context) {
	var patch entity.CharacterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate := entity.NewCharacter()
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateCharacter(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	dto.Created(c, h.store.AddCharacter(c.Request.Context(), patch, false))
}

// UpdateCharacter 修改角色
// @Summary 修改角色（浅合并）
// @Tags Characters
// @Param id path string true "角色 ID"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/characters/{id} [patch]
func (h *EntityHandler) UpdateCharacter(c *gin.Context) {
	id := c.Param("id")
	var patch entity.CharacterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate, ok := h.store.Character(id)
	if !ok {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateCharacter(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	updated, ok := h.store.UpdateCharacter(c.Request.Context(), id, patch)
	if !ok {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	dto.Success(c, updated)
}

// DeleteCharacter 删除角色，锁定的角色返回 409
// @Router /v1/characters/{id} [delete]
func (h *EntityHandler) DeleteCharacter(c *gin.Context) {
	id := c.Param("id")
	respondDelete(c, id, h.store.DeleteCharacter(c.Request.Context(), id))
}

// CreateLocation 新建地点
// @Summary 新建地点
// @Tags Locations
// @Accept json
// @Produce json
// @Param body body entity.LocationPatch true "地点字段"
// @Success 201 {object} dto.Response[entity.Location]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/locations [post]
func (h *EntityHandler) CreateLocation(c *gin.Context) {
	var patch entity.LocationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate := entity.NewLocation()
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateLocation(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	dto.Created(c, h.store.AddLocation(c.Request.Context(), patch, false))
}

// UpdateLocation 修改地点
// @Router /v1/locations/{id} [patch]
func (h *EntityHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	var patch entity.LocationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	candidate, ok := h.store.Location(id)
	if !ok {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	patch.Apply(&candidate)
	if fields := mergeValidation(story.ValidateLocation(candidate)); fields != nil {
		dto.ValidationFailed(c, fields)
		return
	}

	updated, ok := h.store.UpdateLocation(c.Request.Context(), id, patch)
	if !ok {
		dto.FromError(c, errors.ErrEntityNotFound)
		return
	}
	dto.Success(c, updated)
}

// DeleteLocation 删除地点，锁定的地点返回 409
// @Router /v1/locations/{id} [delete]
func (h *EntityHandler) DeleteLocation(c *gin.Context) {
	id := c.Param("id")
	respondDelete(c, id, h.store.DeleteLocation(c.Request.Context(), id))
}

func respondDelete(c *gin.Context, id string, outcome story.DeleteOutcome) {
	switch outcome {
	case story.DeleteLocked:
		dto.FromError(c, errors.ErrEntityLocked)
	case story.DeleteNotFound:
		dto.FromError(c, errors.ErrEntityNotFound)
	default:
		dto.Success(c, dto.DeleteResponse{ID: id, Deleted: true})
	}
}
