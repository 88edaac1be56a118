package mocks

import (
	"context"

	"auditapi/internal/model"
	"auditapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) List(ctx context.Context, requestID string) ([]model.ContentEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContentEntry), args.Error(1)
}

func (m *MockContentService) Create(ctx context.Context, actor model.Actor, requestID, body string, file *service.FileInput) (*model.ContentEntry, error) {
	args := m.Called(ctx, actor, requestID, body, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentService) Edit(ctx context.Context, actor model.Actor, id string, body *string, file *service.FileInput) (*model.ContentEntry, error) {
	args := m.Called(ctx, actor, id, body, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentService) Evaluate(ctx context.Context, actor model.Actor, id string, decision model.ContentStatus) (*model.ContentEntry, error) {
	args := m.Called(ctx, actor, id, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContentEntry), args.Error(1)
}

func (m *MockContentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
