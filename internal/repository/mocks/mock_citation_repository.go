package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scholarport/internal/model"
)

type MockCitationRepository struct {
	mock.Mock
}

func (m *MockCitationRepository) Create(ctx context.Context, c *model.Citation) (*model.Citation, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.Citation) *model.Citation); ok {
		return f(ctx, c), args.Error(1)
	}
	return args.Get(0).(*model.Citation), args.Error(1)
}

func (m *MockCitationRepository) CreateBatch(ctx context.Context, cs []model.Citation) ([]model.Citation, error) {
	args := m.Called(ctx, cs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, []model.Citation) []model.Citation); ok {
		return f(ctx, cs), args.Error(1)
	}
	return args.Get(0).([]model.Citation), args.Error(1)
}

func (m *MockCitationRepository) FindByID(ctx context.Context, id string) (*model.Citation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Citation), args.Error(1)
}

func (m *MockCitationRepository) ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Citation), args.Error(1)
}

func (m *MockCitationRepository) ListByArticles(ctx context.Context, articleIDs []string) (map[string][]model.Citation, error) {
	args := m.Called(ctx, articleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]model.Citation), args.Error(1)
}

func (m *MockCitationRepository) Update(ctx context.Context, c *model.Citation) (*model.Citation, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.Citation) *model.Citation); ok {
		return f(ctx, c), args.Error(1)
	}
	return args.Get(0).(*model.Citation), args.Error(1)
}

func (m *MockCitationRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCitationRepository) DeleteByArticle(ctx context.Context, articleID string) (int64, error) {
	args := m.Called(ctx, articleID)
	return args.Get(0).(int64), args.Error(1)
}
