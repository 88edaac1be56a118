package mocks

import (
	"context"
	"time"

	"auditapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentRepository) FindByID(ctx context.Context, id string) (*model.ContentEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentRepository) ListByRequest(ctx context.Context, requestID string) ([]model.ContentEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContentEntry), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentRepository) SetDecision(ctx context.Context, id string, status model.ContentStatus, reviewerID string, reviewedAt time.Time) (*model.ContentEntry, error) {
	args := m.Called(ctx, id, status, reviewerID, reviewedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
