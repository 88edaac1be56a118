package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auditapi/internal/logger"
	"auditapi/internal/model"
	"auditapi/internal/policy"
	"auditapi/internal/repository"
)

// RequestService owns the explanation request lifecycle: the one-request-
// per-plan invariant, the Pending→Completed transition, and the attached
// files. Every mutation is gated by the capability policy before any I/O.
type RequestService interface {
	// Load fetches the single request for a plan with its attachments.
	// The boolean reports whether a request exists; absence is not an error.
	Load(ctx context.Context, planID string) (*model.ExplanationRequest, bool, error)

	// Create opens a request for a plan together with at least one initial
	// attachment. Files are uploaded and linked strictly one at a time; a
	// mid-batch failure leaves the already-linked prefix in place.
	Create(ctx context.Context, actor model.Actor, planID, responderID string, files []FileInput) (*model.ExplanationRequest, error)

	// Update sets responder and status. It never alters attachments.
	Update(ctx context.Context, actor model.Actor, id, responderID string, status model.RequestStatus) (*model.ExplanationRequest, error)

	// Complete transitions Pending → Completed. Completed is terminal.
	Complete(ctx context.Context, actor model.Actor, id string) (*model.ExplanationRequest, error)

	// Delete removes a request; the database cascade removes its files and
	// content entries, then stored objects are cleaned up best-effort.
	Delete(ctx context.Context, actor model.Actor, id string) error

	// AddAttachment uploads and links one more file to an existing request.
	AddAttachment(ctx context.Context, actor model.Actor, requestID string, file FileInput) (*model.RequestFile, error)

	// RemoveAttachment deletes one attachment, object first, then the row.
	RemoveAttachment(ctx context.Context, actor model.Actor, fileID string) error

	// AttachmentDownloadURL returns a time-limited download URL for a file.
	AttachmentDownloadURL(ctx context.Context, fileID string) (string, error)

	// CountStalePending counts pending requests older than the cutoff; used
	// by the periodic sweep job.
	CountStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type requestService struct {
	requests repository.RequestRepository
	files    repository.RequestFileRepository
	contents repository.ContentRepository
	actors   repository.ActorRepository
	att      AttachmentService
}

// NewRequestService constructs a new RequestService.
func NewRequestService(
	requests repository.RequestRepository,
	files repository.RequestFileRepository,
	contents repository.ContentRepository,
	actors repository.ActorRepository,
	att AttachmentService,
) RequestService {
	return &requestService{
		requests: requests,
		files:    files,
		contents: contents,
		actors:   actors,
		att:      att,
	}
}

// downloadURLExpiry bounds how long a presigned attachment link stays valid.
const downloadURLExpiry = 15 * time.Minute

func (s *requestService) Load(ctx context.Context, planID string) (*model.ExplanationRequest, bool, error) {
	if planID == "" {
		return nil, false, fmt.Errorf("%w: plan id is required", ErrValidation)
	}
	req, err := s.requests.FindByPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	files, err := s.files.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, false, err
	}
	req.Files = files
	return req, true, nil
}

func (s *requestService) Create(ctx context.Context, actor model.Actor, planID, responderID string, files []FileInput) (*model.ExplanationRequest, error) {
	if !policy.For(actor.Role, false).CanCreateRequest {
		return nil, fmt.Errorf("%w: role %s cannot create explanation requests", ErrForbidden, actor.Role)
	}
	if planID == "" {
		return nil, fmt.Errorf("%w: plan id is required", ErrValidation)
	}
	if responderID == "" {
		return nil, fmt.Errorf("%w: responder is required", ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one initial file is required", ErrValidation)
	}

	if _, err := s.actors.FindByID(ctx, responderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: responder %s does not exist", ErrValidation, responderID)
		}
		return nil, err
	}

	// One live request per plan. The UNIQUE(plan_id) index backs this up
	// against a concurrent create racing past the pre-check.
	if _, err := s.requests.FindByPlan(ctx, planID); err == nil {
		return nil, fmt.Errorf("%w: plan %s already has an explanation request", ErrInvalidState, planID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	req := &model.ExplanationRequest{
		ID:          uuid.New().String(),
		PlanID:      planID,
		RequesterID: actor.ID,
		ResponderID: responderID,
		Status:      model.RequestStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Sequential by design: one file finishes, link record included, before
	// the next starts. A failure mid-batch leaves a deterministic prefix of
	// linked files and is not rolled back.
	for _, in := range files {
		obj, err := s.att.Upload(ctx, in)
		if err != nil {
			return nil, err
		}
		linked, err := s.att.LinkToRequest(ctx, stored.ID, obj)
		if err != nil {
			return nil, err
		}
		stored.Files = append(stored.Files, *linked)
	}

	return stored, nil
}

func (s *requestService) Update(ctx context.Context, actor model.Actor, id, responderID string, status model.RequestStatus) (*model.ExplanationRequest, error) {
	if !policy.For(actor.Role, false).CanEditRequestStatus {
		return nil, fmt.Errorf("%w: role %s cannot edit explanation requests", ErrForbidden, actor.Role)
	}
	if id == "" || responderID == "" {
		return nil, fmt.Errorf("%w: id and responder are required", ErrValidation)
	}
	if !status.Assignable() {
		return nil, fmt.Errorf("%w: status %q cannot be assigned", ErrValidation, status)
	}
	if _, err := s.actors.FindByID(ctx, responderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: responder %s does not exist", ErrValidation, responderID)
		}
		return nil, err
	}

	updated, err := s.requests.Update(ctx, id, responderID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *requestService) Complete(ctx context.Context, actor model.Actor, id string) (*model.ExplanationRequest, error) {
	if !policy.For(actor.Role, false).CanEditRequestStatus {
		return nil, fmt.Errorf("%w: role %s cannot complete explanation requests", ErrForbidden, actor.Role)
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.IsCompleted() {
		return nil, fmt.Errorf("%w: request %s is already completed", ErrInvalidState, id)
	}
	if err := s.requests.UpdateStatus(ctx, id, model.RequestStatusCompleted); err != nil {
		return nil, err
	}
	req.Status = model.RequestStatusCompleted
	return req, nil
}

func (s *requestService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.For(actor.Role, false).CanDeleteRequest {
		return fmt.Errorf("%w: role %s cannot delete explanation requests", ErrForbidden, actor.Role)
	}
	if _, err := s.requests.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Collect storage keys before the row goes away; the DB cascade only
	// removes metadata rows.
	keys := make([]string, 0)
	files, err := s.files.ListByRequest(ctx, id)
	if err != nil {
		return err
	}
	for _, f := range files {
		keys = append(keys, f.StoragePath)
	}
	entries, err := s.contents.ListByRequest(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.HasFile() {
			keys = append(keys, e.StoragePath)
		}
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}

	// Best effort: the request row is already gone, so an orphaned object
	// only costs storage. Failures are logged, not surfaced.
	for _, key := range keys {
		if err := s.att.RemoveObject(ctx, key); err != nil {
			logger.Log.WithError(err).WithField("storage_path", key).
				Warn("cascade cleanup: failed to remove object")
		}
	}
	return nil
}

func (s *requestService) AddAttachment(ctx context.Context, actor model.Actor, requestID string, file FileInput) (*model.RequestFile, error) {
	if !policy.For(actor.Role, false).CanUploadRequestFile {
		return nil, fmt.Errorf("%w: role %s cannot upload request files", ErrForbidden, actor.Role)
	}
	if _, err := s.requests.FindByID(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	obj, err := s.att.Upload(ctx, file)
	if err != nil {
		return nil, err
	}
	return s.att.LinkToRequest(ctx, requestID, obj)
}

func (s *requestService) RemoveAttachment(ctx context.Context, actor model.Actor, fileID string) error {
	if !policy.For(actor.Role, false).CanDeleteRequestFile {
		return fmt.Errorf("%w: role %s cannot delete request files", ErrForbidden, actor.Role)
	}
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Object first; if storage fails the row stays so the reference is not
	// lost.
	if err := s.att.RemoveObject(ctx, f.StoragePath); err != nil {
		return err
	}
	return s.att.Unlink(ctx, fileID)
}

func (s *requestService) AttachmentDownloadURL(ctx context.Context, fileID string) (string, error) {
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.att.PresignDownload(ctx, f.StoragePath, downloadURLExpiry)
}

func (s *requestService) CountStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.requests.CountStalePending(ctx, cutoff)
}
