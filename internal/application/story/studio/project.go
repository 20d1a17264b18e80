package studio

import (
	"context"
	"strings"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
	"veo-story-studio/pkg/logger"
)

// ProjectID 当前绑定的远端项目 ID，未绑定时为空
func (s *Service) ProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return ""
	}
	return s.project.ID
}

// CurrentProject 当前绑定的项目（不含故事数据）
func (s *Service) CurrentProject() *entity.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return nil
	}
	p := *s.project
	return &p
}

func (s *Service) bind(p *entity.Project) {
	bound := *p
	bound.Data = nil
	s.mu.Lock()
	s.project = &bound
	s.mu.Unlock()
}

// UnbindProject 解除项目绑定，停止远端自动保存
func (s *Service) UnbindProject() {
	s.mu.Lock()
	s.project = nil
	s.mu.Unlock()
	s.remoteSave.Cancel()
}

// ListProjects 远端项目列表
func (s *Service) ListProjects(ctx context.Context) ([]entity.ProjectSummary, error) {
	return s.projects.List(ctx)
}

// CreateProject 以当前故事图创建远端项目并绑定
func (s *Service) CreateProject(ctx context.Context, name, description string) (*entity.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("project name is required")
	}
	p, err := s.projects.Create(ctx, name, description, s.store.Snapshot())
	if err != nil {
		return nil, err
	}
	s.bind(p)
	logger.Info(ctx, "project created", "project_id", p.ID)
	return p, nil
}

// LoadProject 拉取项目、绑定并以项目数据替换故事图
// 同一项目的并发加载合并为一次远端请求
func (s *Service) LoadProject(ctx context.Context, id string) (*entity.Project, error) {
	v, err, _ := s.loads.Do(id, func() (any, error) {
		return s.projects.Get(ctx, id)
	})
	if err != nil {
		logger.Error(ctx, "failed to load project", err, "project_id", id)
		s.notes.Notify(ctx, story.LevelError, "Failed to load project")
		return nil, err
	}
	p := v.(*entity.Project)

	s.bind(p)
	if p.Data != nil {
		s.store.Replace(ctx, *p.Data)
	}
	return p, nil
}

// SaveProject 立即把当前故事图推送到绑定的项目
func (s *Service) SaveProject(ctx context.Context) error {
	id := s.ProjectID()
	if id == "" {
		return apperrors.ErrNoProjectBound
	}
	s.remoteSave.Cancel()

	snap := s.store.Snapshot()
	if _, err := s.projects.Update(ctx, id, entity.ProjectUpdate{Data: &snap}); err != nil {
		logger.Error(ctx, "failed to save project", err, "project_id", id)
		s.notes.Notify(ctx, story.LevelError, "Failed to save project")
		return err
	}
	s.notes.Notify(ctx, story.LevelSuccess, "Project saved")
	return nil
}

// UpdateProject 修改项目元信息
func (s *Service) UpdateProject(ctx context.Context, id string, update entity.ProjectUpdate) (*entity.Project, error) {
	p, err := s.projects.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if s.ProjectID() == id {
		s.bind(p)
	}
	return p, nil
}

// DeleteProject 删除远端项目；删除的是当前绑定项目时解除绑定
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	if s.ProjectID() == id {
		s.UnbindProject()
	}
	return nil
}

// ClearAllStory 清空故事图与本地缓存中的故事键，已绑定项目时再推送空故事图
// 本地清空总会生效；远端失败时通知并返回错误，不回滚本地
func (s *Service) ClearAllStory(ctx context.Context) error {
	s.store.Clear(ctx)
	if err := s.cache.ClearStory(ctx); err != nil {
		logger.Error(ctx, "failed to clear local story", err)
	}

	if id := s.ProjectID(); id != "" {
		empty := entity.EmptyStoryData()
		if _, err := s.projects.Update(ctx, id, entity.ProjectUpdate{Data: &empty}); err != nil {
			logger.Error(ctx, "failed to clear remote story", err, "project_id", id)
			s.notes.Notify(ctx, story.LevelError, "Failed to delete data from server")
			return err
		}
	}

	s.notes.Notify(ctx, story.LevelSuccess, "All story data deleted")
	return nil
}
