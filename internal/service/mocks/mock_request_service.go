package mocks

import (
	"context"
	"time"

	"auditapi/internal/model"
	"auditapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Load(ctx context.Context, planID string) (*model.ExplanationRequest, bool, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.ExplanationRequest), args.Bool(1), args.Error(2)
}

func (m *MockRequestService) Create(ctx context.Context, actor model.Actor, planID, responderID string, files []service.FileInput) (*model.ExplanationRequest, error) {
	args := m.Called(ctx, actor, planID, responderID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExplanationRequest), args.Error(1)
}

func (m *MockRequestService) Update(ctx context.Context, actor model.Actor, id, responderID string, status model.RequestStatus) (*model.ExplanationRequest, error) {
	args := m.Called(ctx, actor, id, responderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExplanationRequest), args.Error(1)
}

func (m *MockRequestService) Complete(ctx context.Context, actor model.Actor, id string) (*model.ExplanationRequest, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExplanationRequest), args.Error(1)
}

func (m *MockRequestService) Delete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockRequestService) AddAttachment(ctx context.Context, actor model.Actor, requestID string, file service.FileInput) (*model.RequestFile, error) {
	args := m.Called(ctx, actor, requestID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestFile), args.Error(1)
}

func (m *MockRequestService) RemoveAttachment(ctx context.Context, actor model.Actor, fileID string) error {
	args := m.Called(ctx, actor, fileID)
	return args.Error(0)
}

func (m *MockRequestService) AttachmentDownloadURL(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

func (m *MockRequestService) CountStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}
