package mocks

import (
	"context"

	"auditapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRequestFileRepository struct {
	mock.Mock
}

func (m *MockRequestFileRepository) Create(ctx context.Context, f *model.RequestFile) (*model.RequestFile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestFile), args.Error(1)
}

func (m *MockRequestFileRepository) FindByID(ctx context.Context, id string) (*model.RequestFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestFile), args.Error(1)
}

func (m *MockRequestFileRepository) ListByRequest(ctx context.Context, requestID string) ([]model.RequestFile, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestFile), args.Error(1)
}

func (m *MockRequestFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
