package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scholarport/internal/model"
)

type MockCitationService struct {
	mock.Mock
}

func (m *MockCitationService) ListByArticle(ctx context.Context, articleID string) ([]model.Citation, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Citation), args.Error(1)
}

func (m *MockCitationService) Create(ctx context.Context, in model.CitationInput) (*model.Citation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Citation), args.Error(1)
}

func (m *MockCitationService) Update(ctx context.Context, id string, u model.CitationUpdate) (*model.Citation, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Citation), args.Error(1)
}

func (m *MockCitationService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCitationService) DeleteAllForArticle(ctx context.Context, articleID string) (int64, error) {
	args := m.Called(ctx, articleID)
	return args.Get(0).(int64), args.Error(1)
}
