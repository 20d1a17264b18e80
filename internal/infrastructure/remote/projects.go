package remote

import (
	"context"
	"net/http"
	"net/url"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
)

// ProjectClient 远端项目仓储
type ProjectClient struct {
	*Client
}

// NewProjectClient 创建项目仓储
func NewProjectClient(c *Client) *ProjectClient {
	return &ProjectClient{Client: c}
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}

// List 获取项目列表
func (c *ProjectClient) List(ctx context.Context) ([]entity.ProjectSummary, error) {
	var out []entity.ProjectSummary
	if err := c.do(ctx, call{op: "projects.list", method: http.MethodGet, path: "/projects", out: &out}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.ProjectSummary{}
	}
	return out, nil
}

// Get 获取项目详情
func (c *ProjectClient) Get(ctx context.Context, id string) (*entity.Project, error) {
	var out entity.Project
	if err := c.do(ctx, call{op: "projects.get", method: http.MethodGet, path: projectPath(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create 创建项目
func (c *ProjectClient) Create(ctx context.Context, name, description string, data entity.StoryData) (*entity.Project, error) {
	body := map[string]any{"name": name, "description": description, "data": data}
	var out entity.Project
	if err := c.do(ctx, call{op: "projects.create", method: http.MethodPost, path: "/projects", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update 部分更新项目
func (c *ProjectClient) Update(ctx context.Context, id string, update entity.ProjectUpdate) (*entity.Project, error) {
	var out entity.Project
	if err := c.do(ctx, call{op: "projects.update", method: http.MethodPut, path: projectPath(id), body: update, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete 删除项目
func (c *ProjectClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "projects.delete", method: http.MethodDelete, path: projectPath(id)})
}

var _ repository.ProjectRepository = (*ProjectClient)(nil)
