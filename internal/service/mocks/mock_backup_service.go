package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scholarport/internal/model"
)

type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockBackupService) Backup(ctx context.Context) (*model.BackupResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BackupResult), args.Error(1)
}
