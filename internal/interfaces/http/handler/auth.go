package handler

import (
	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story/studio"
	"veo-story-studio/internal/interfaces/http/dto"
)

// AuthHandler 注册、登录与会话
type AuthHandler struct {
	svc *studio.Service
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *studio.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup 注册
// @Summary 注册，远端会发送邮箱验证码
// @Tags Auth
// @Param body body dto.SignupRequest true "注册信息"
// @Router /v1/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}

// Verify 校验验证码
// @Router /v1/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	res, err := h.svc.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}

// Login 登录，会话保存在本地缓存
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, user)
}

// Logout 退出登录
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}

// Me 当前用户
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, user)
}
