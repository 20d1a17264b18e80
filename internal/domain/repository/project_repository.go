// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"veo-story-studio/internal/domain/entity"
)

// ProjectRepository 远端项目仓储接口
type ProjectRepository interface {
	// List 获取项目列表
	List(ctx context.Context) ([]entity.ProjectSummary, error)

	// Get 获取项目详情（含故事数据）
	Get(ctx context.Context, id string) (*entity.Project, error)

	// Create 创建项目
	Create(ctx context.Context, name, description string, data entity.StoryData) (*entity.Project, error)

	// Update 更新项目
	Update(ctx context.Context, id string, update entity.ProjectUpdate) (*entity.Project, error)

	// Delete 删除项目
	Delete(ctx context.Context, id string) error
}

// TokenSource 提供当前会话的 Bearer Token，空字符串表示未登录
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc 函数适配器
type TokenSourceFunc func(ctx context.Context) string

// Token 实现 TokenSource
func (f TokenSourceFunc) Token(ctx context.Context) string {
	return f(ctx)
}
