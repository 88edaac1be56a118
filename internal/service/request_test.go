package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"auditapi/internal/model"
	repoMocks "auditapi/internal/repository/mocks"
	"auditapi/internal/storage"
	storeMocks "auditapi/internal/storage/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type requestFixture struct {
	requests *repoMocks.MockRequestRepository
	files    *repoMocks.MockRequestFileRepository
	contents *repoMocks.MockContentRepository
	actors   *repoMocks.MockActorRepository
	store    *storeMocks.MockStorage
	svc      RequestService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requests: new(repoMocks.MockRequestRepository),
		files:    new(repoMocks.MockRequestFileRepository),
		contents: new(repoMocks.MockContentRepository),
		actors:   new(repoMocks.MockActorRepository),
		store:    new(storeMocks.MockStorage),
	}
	att := NewAttachmentService(f.store, f.files)
	f.svc = NewRequestService(f.requests, f.files, f.contents, f.actors, att)
	return f
}

func (f *requestFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.requests.AssertExpectations(t)
	f.files.AssertExpectations(t)
	f.contents.AssertExpectations(t)
	f.actors.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func memberActor() model.Actor {
	return model.Actor{ID: uuid.New().String(), Username: "member", Role: model.RoleMember}
}

func unitActor() model.Actor {
	return model.Actor{ID: uuid.New().String(), Username: "unit", Role: model.RoleUnit}
}

func TestRequestService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("found with files", func(t *testing.T) {
		f := newRequestFixture()
		planID := uuid.New().String()
		req := &model.ExplanationRequest{ID: "req-1", PlanID: planID, Status: model.RequestStatusPending}
		f.requests.On("FindByPlan", ctx, planID).Return(req, nil)
		f.files.On("ListByRequest", ctx, "req-1").Return([]model.RequestFile{
			{ID: "file-1", RequestID: "req-1", FileName: "finding.pdf"},
		}, nil)

		got, found, err := f.svc.Load(ctx, planID)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Len(t, got.Files, 1)
		f.assertExpectations(t)
	})

	t.Run("absent plan is not an error", func(t *testing.T) {
		f := newRequestFixture()
		planID := uuid.New().String()
		f.requests.On("FindByPlan", ctx, planID).Return(nil, sql.ErrNoRows)

		got, found, err := f.svc.Load(ctx, planID)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
		f.assertExpectations(t)
	})

	t.Run("empty plan id", func(t *testing.T) {
		f := newRequestFixture()

		_, _, err := f.svc.Load(ctx, "")

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	oneFile := func() []FileInput {
		return []FileInput{{
			Reader:      strings.NewReader("finding details"),
			Filename:    "finding.pdf",
			ContentType: "application/pdf",
			Size:        15,
		}}
	}

	t.Run("unit role is forbidden", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.Create(ctx, unitActor(), uuid.New().String(), uuid.New().String(), oneFile())

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("responder required", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.Create(ctx, memberActor(), uuid.New().String(), "", oneFile())

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("initial file required", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.Create(ctx, memberActor(), uuid.New().String(), uuid.New().String(), nil)

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown responder", func(t *testing.T) {
		f := newRequestFixture()
		responderID := uuid.New().String()
		f.actors.On("FindByID", ctx, responderID).Return(nil, sql.ErrNoRows)

		_, err := f.svc.Create(ctx, memberActor(), uuid.New().String(), responderID, oneFile())

		assert.ErrorIs(t, err, ErrValidation)
		f.assertExpectations(t)
	})

	t.Run("plan already has a request", func(t *testing.T) {
		f := newRequestFixture()
		planID := uuid.New().String()
		responderID := uuid.New().String()
		f.actors.On("FindByID", ctx, responderID).Return(&model.Actor{ID: responderID}, nil)
		f.requests.On("FindByPlan", ctx, planID).
			Return(&model.ExplanationRequest{ID: "existing", PlanID: planID}, nil)

		_, err := f.svc.Create(ctx, memberActor(), planID, responderID, oneFile())

		assert.ErrorIs(t, err, ErrInvalidState)
		f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("happy path uploads and links each file", func(t *testing.T) {
		f := newRequestFixture()
		actor := memberActor()
		planID := uuid.New().String()
		responderID := uuid.New().String()

		f.actors.On("FindByID", ctx, responderID).Return(&model.Actor{ID: responderID}, nil)
		f.requests.On("FindByPlan", ctx, planID).Return(nil, sql.ErrNoRows)
		f.requests.On("Create", ctx, mock.MatchedBy(func(r *model.ExplanationRequest) bool {
			return r.PlanID == planID &&
				r.RequesterID == actor.ID &&
				r.ResponderID == responderID &&
				r.Status == model.RequestStatusPending
		})).Return(&model.ExplanationRequest{
			ID:          "req-1",
			PlanID:      planID,
			RequesterID: actor.ID,
			ResponderID: responderID,
			Status:      model.RequestStatusPending,
		}, nil)

		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "explanations/a.pdf", Size: 15}, nil).Once()
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "explanations/b.xlsx", Size: 8}, nil).Once()
		f.store.On("PublicURL", mock.Anything).Return("https://minio.local/audit/obj")
		f.files.On("Create", ctx, mock.Anything).
			Return(&model.RequestFile{ID: "file-a", RequestID: "req-1"}, nil).Once()
		f.files.On("Create", ctx, mock.Anything).
			Return(&model.RequestFile{ID: "file-b", RequestID: "req-1"}, nil).Once()

		files := []FileInput{
			{Reader: strings.NewReader("finding details"), Filename: "finding.pdf", Size: 15},
			{Reader: strings.NewReader("workbook"), Filename: "evidence.xlsx", Size: 8},
		}
		got, err := f.svc.Create(ctx, actor, planID, responderID, files)

		require.NoError(t, err)
		assert.Equal(t, "req-1", got.ID)
		assert.Len(t, got.Files, 2)
		f.assertExpectations(t)
	})

	t.Run("mid-batch upload failure keeps the linked prefix", func(t *testing.T) {
		f := newRequestFixture()
		actor := memberActor()
		planID := uuid.New().String()
		responderID := uuid.New().String()

		f.actors.On("FindByID", ctx, responderID).Return(&model.Actor{ID: responderID}, nil)
		f.requests.On("FindByPlan", ctx, planID).Return(nil, sql.ErrNoRows)
		f.requests.On("Create", ctx, mock.Anything).
			Return(&model.ExplanationRequest{ID: "req-1", PlanID: planID}, nil)

		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "explanations/a.pdf", Size: 15}, nil).Once()
		f.store.On("PublicURL", mock.Anything).Return("https://minio.local/audit/obj")
		f.files.On("Create", ctx, mock.Anything).
			Return(&model.RequestFile{ID: "file-a", RequestID: "req-1"}, nil).Once()
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full")).Once()

		files := []FileInput{
			{Reader: strings.NewReader("finding details"), Filename: "finding.pdf", Size: 15},
			{Reader: strings.NewReader("workbook"), Filename: "evidence.xlsx", Size: 8},
		}
		_, err := f.svc.Create(ctx, actor, planID, responderID, files)

		// First file stays linked; nothing is rolled back.
		assert.ErrorIs(t, err, ErrStorage)
		f.files.AssertNumberOfCalls(t, "Create", 1)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestRequestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newRequestFixture()
		actor := memberActor()
		responderID := uuid.New().String()
		f.actors.On("FindByID", ctx, responderID).Return(&model.Actor{ID: responderID}, nil)
		f.requests.On("Update", ctx, "req-1", responderID, model.RequestStatusPending).
			Return(&model.ExplanationRequest{ID: "req-1", ResponderID: responderID}, nil)

		got, err := f.svc.Update(ctx, actor, "req-1", responderID, model.RequestStatusPending)

		require.NoError(t, err)
		assert.Equal(t, responderID, got.ResponderID)
		f.assertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.Update(ctx, memberActor(), "req-1", uuid.New().String(), model.RequestStatus("archived"))

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("reserved display states are not assignable", func(t *testing.T) {
		for _, status := range []model.RequestStatus{model.RequestStatusApproved, model.RequestStatusRejected} {
			f := newRequestFixture()

			got, err := f.svc.Update(ctx, memberActor(), "req-1", uuid.New().String(), status)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, got)
			f.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		f := newRequestFixture()
		responderID := uuid.New().String()
		f.actors.On("FindByID", ctx, responderID).Return(&model.Actor{ID: responderID}, nil)
		f.requests.On("Update", ctx, "req-1", responderID, model.RequestStatusPending).
			Return(nil, sql.ErrNoRows)

		_, err := f.svc.Update(ctx, memberActor(), "req-1", responderID, model.RequestStatusPending)

		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})
}

func TestRequestService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("pending transitions to completed", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("FindByID", ctx, "req-1").
			Return(&model.ExplanationRequest{ID: "req-1", Status: model.RequestStatusPending}, nil)
		f.requests.On("UpdateStatus", ctx, "req-1", model.RequestStatusCompleted).Return(nil)

		got, err := f.svc.Complete(ctx, memberActor(), "req-1")

		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusCompleted, got.Status)
		f.assertExpectations(t)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("FindByID", ctx, "req-1").
			Return(&model.ExplanationRequest{ID: "req-1", Status: model.RequestStatusCompleted}, nil)

		_, err := f.svc.Complete(ctx, memberActor(), "req-1")

		assert.ErrorIs(t, err, ErrInvalidState)
		f.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("unit role is forbidden", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.Complete(ctx, unitActor(), "req-1")

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	lead := model.Actor{ID: uuid.New().String(), Username: "lead", Role: model.RoleLead}

	t.Run("only leads delete requests", func(t *testing.T) {
		f := newRequestFixture()

		err := f.svc.Delete(ctx, memberActor(), "req-1")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("removes row then cleans objects best-effort", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("FindByID", ctx, "req-1").
			Return(&model.ExplanationRequest{ID: "req-1"}, nil)
		f.files.On("ListByRequest", ctx, "req-1").Return([]model.RequestFile{
			{ID: "file-1", StoragePath: "explanations/a.pdf"},
		}, nil)
		f.contents.On("ListByRequest", ctx, "req-1").Return([]model.ContentEntry{
			{ID: "entry-1", StoragePath: "explanations/b.docx"},
			{ID: "entry-2"}, // text-only entry, no object to remove
		}, nil)
		f.requests.On("Delete", ctx, "req-1").Return(nil)
		f.store.On("Delete", ctx, "explanations/a.pdf").Return(nil)
		// A failing object removal is logged, not surfaced.
		f.store.On("Delete", ctx, "explanations/b.docx").Return(errors.New("gone already"))

		err := f.svc.Delete(ctx, lead, "req-1")

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("missing request", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("FindByID", ctx, "req-1").Return(nil, sql.ErrNoRows)

		err := f.svc.Delete(ctx, lead, "req-1")

		assert.ErrorIs(t, err, ErrNotFound)
		f.assertExpectations(t)
	})
}

func TestRequestService_AddAttachment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("FindByID", ctx, "req-1").
			Return(&model.ExplanationRequest{ID: "req-1"}, nil)
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "explanations/c.pdf", Size: 4}, nil)
		f.store.On("PublicURL", "explanations/c.pdf").Return("https://minio.local/audit/c")
		f.files.On("Create", ctx, mock.Anything).
			Return(&model.RequestFile{ID: "file-c", RequestID: "req-1"}, nil)

		got, err := f.svc.AddAttachment(ctx, memberActor(), "req-1", FileInput{
			Reader: strings.NewReader("more"), Filename: "late.pdf", Size: 4,
		})

		require.NoError(t, err)
		assert.Equal(t, "file-c", got.ID)
		f.assertExpectations(t)
	})

	t.Run("unit role is forbidden", func(t *testing.T) {
		f := newRequestFixture()

		_, err := f.svc.AddAttachment(ctx, unitActor(), "req-1", FileInput{})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRequestService_RemoveAttachment(t *testing.T) {
	ctx := context.Background()

	t.Run("object removed before row", func(t *testing.T) {
		f := newRequestFixture()
		f.files.On("FindByID", ctx, "file-1").
			Return(&model.RequestFile{ID: "file-1", StoragePath: "explanations/a.pdf"}, nil)
		f.store.On("Delete", ctx, "explanations/a.pdf").Return(nil)
		f.files.On("Delete", ctx, "file-1").Return(nil)

		err := f.svc.RemoveAttachment(ctx, memberActor(), "file-1")

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("storage failure keeps the row", func(t *testing.T) {
		f := newRequestFixture()
		f.files.On("FindByID", ctx, "file-1").
			Return(&model.RequestFile{ID: "file-1", StoragePath: "explanations/a.pdf"}, nil)
		f.store.On("Delete", ctx, "explanations/a.pdf").Return(errors.New("unreachable"))

		err := f.svc.RemoveAttachment(ctx, memberActor(), "file-1")

		assert.ErrorIs(t, err, ErrStorage)
		f.files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestRequestService_AttachmentDownloadURL(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture()
	f.files.On("FindByID", ctx, "file-1").
		Return(&model.RequestFile{ID: "file-1", StoragePath: "explanations/a.pdf"}, nil)
	f.store.On("PresignGet", ctx, "explanations/a.pdf", 15*time.Minute).
		Return("https://minio.local/signed", nil)

	u, err := f.svc.AttachmentDownloadURL(ctx, "file-1")

	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/signed", u)
	f.assertExpectations(t)
}

func TestRequestService_CountStalePending(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture()
	f.requests.On("CountStalePending", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		age := time.Since(cutoff)
		return age > 71*time.Hour && age < 73*time.Hour
	})).Return(3, nil)

	count, err := f.svc.CountStalePending(ctx, 72*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	f.assertExpectations(t)
}
