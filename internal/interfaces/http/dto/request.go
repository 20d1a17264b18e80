package dto

import (
	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/domain/entity"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyRequest 验证码校验请求
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateProjectRequest 创建项目请求，故事数据取自当前编辑会话
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest 修改项目元信息
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// ToUpdate 转换为领域更新
func (r UpdateProjectRequest) ToUpdate() entity.ProjectUpdate {
	return entity.ProjectUpdate{Name: r.Name, Description: r.Description}
}

// ReorderScenesRequest 场景排序请求
type ReorderScenesRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// GenerateRequest 故事生成请求
type GenerateRequest struct {
	StoryIdea   string `json:"storyIdea"`
	VideoLength int    `json:"videoLength"`
	Language    string `json:"language"`
	Style       string `json:"style"`
	Mode        string `json:"mode"`
	Enhanced    bool   `json:"enhanced"`
}

// ToOptions 转换为生成参数
func (r GenerateRequest) ToOptions() story.GenerationOptions {
	return story.GenerationOptions(r)
}

// EnhanceRequest 增强现有故事请求
type EnhanceRequest struct {
	Language string `json:"language"`
	Style    string `json:"style"`
}

// ApplyGeneratedRequest 把生成结果合入故事图
type ApplyGeneratedRequest struct {
	Characters []entity.Character `json:"characters"`
	Locations  []entity.Location  `json:"locations"`
	Scenes     []entity.Scene     `json:"scenes"`
}

// ToStoryData 转换为故事数据
func (r ApplyGeneratedRequest) ToStoryData() entity.StoryData {
	return entity.StoryData{Characters: r.Characters, Locations: r.Locations, Scenes: r.Scenes}
}

// ThemeRequest 主题设置请求，theme 为空时切换
type ThemeRequest struct {
	Theme string `json:"theme" binding:"omitempty,oneof=dark light"`
}

// ThemeResponse 主题
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// StoryResponse 故事图与会话状态
type StoryResponse struct {
	entity.StoryData
	Project *entity.Project `json:"project,omitempty"`
}

// DeleteResponse 删除结果
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ApplySummaryResponse 生成结果合入统计
type ApplySummaryResponse struct {
	Characters int    `json:"characters"`
	Locations  int    `json:"locations"`
	Scenes     int    `json:"scenes"`
	Message    string `json:"message"`
}

// ToApplySummaryResponse 转换合入统计
func ToApplySummaryResponse(s story.ApplySummary) ApplySummaryResponse {
	return ApplySummaryResponse{
		Characters: s.Characters,
		Locations:  s.Locations,
		Scenes:     s.Scenes,
		Message:    s.Message(),
	}
}
