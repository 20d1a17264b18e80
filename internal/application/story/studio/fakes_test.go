package studio

import (
	"context"
	"errors"
	"sync"

	"veo-story-studio/internal/domain/entity"
	apperrors "veo-story-studio/pkg/errors"
)

type fakeProjects struct {
	mu        sync.Mutex
	projects  map[string]*entity.Project
	updates   []entity.ProjectUpdate
	getCalls  int
	updateErr error
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: map[string]*entity.Project{}}
}

func (f *fakeProjects) List(context.Context) ([]entity.ProjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.ProjectSummary, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, entity.ProjectSummary{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	p, ok := f.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Create(_ context.Context, name, description string, data entity.StoryData) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &entity.Project{ID: "p" + name, Name: name, Description: description, Data: &data}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, id string, update entity.ProjectUpdate) (*entity.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, update)
	p, ok := f.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	if update.Data != nil {
		d := update.Data.Clone()
		p.Data = &d
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.projects, id)
	return nil
}

func (f *fakeProjects) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeAuth struct{}

func (fakeAuth) Signup(context.Context, string, string) (map[string]any, error) {
	return map[string]any{"message": "otp sent"}, nil
}

func (fakeAuth) Verify(context.Context, string, string) (map[string]any, error) {
	return map[string]any{"verified": true}, nil
}

func (fakeAuth) Login(_ context.Context, email, password string) (*entity.Session, error) {
	if password != "secret" {
		return nil, apperrors.New(apperrors.CodeRemoteError, "Invalid credentials")
	}
	return &entity.Session{Token: "tok", User: entity.User{ID: "u1", Email: email, Tokens: 15}}, nil
}

type fakeGenerator struct {
	story entity.StoryData
	err   error
	reqs  []entity.GenerationRequest
	enh   []entity.EnhanceRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.GenerationResult{Story: f.story}, nil
}

func (f *fakeGenerator) GenerateEnhanced(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	res, err := f.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	res.Enhancement = &entity.Enhancement{Approved: true, Iterations: 2}
	return res, nil
}

func (f *fakeGenerator) EnhanceExisting(_ context.Context, req entity.EnhanceRequest) (*entity.GenerationResult, error) {
	f.enh = append(f.enh, req)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.GenerationResult{Story: req.Story, Enhancement: &entity.Enhancement{Approved: true}}, nil
}

type fakePayments struct {
	deducted []int
}

func (f *fakePayments) CreateOrder(context.Context) (entity.PaymentOrder, error) {
	return entity.PaymentOrder{"id": "order_1"}, nil
}

func (f *fakePayments) Verify(context.Context, map[string]any) (map[string]any, error) {
	return map[string]any{"success": true, "tokens": float64(120)}, nil
}

func (f *fakePayments) Deduct(_ context.Context, tokens int) (map[string]any, error) {
	f.deducted = append(f.deducted, tokens)
	return map[string]any{"success": true}, nil
}

func (f *fakePayments) History(context.Context) ([]entity.PaymentRecord, error) {
	return []entity.PaymentRecord{{"tokens": float64(10)}}, nil
}

var errOffline = errors.New("network unreachable")
