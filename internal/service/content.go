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

// ContentService owns the content entries under one explanation request:
// creation by the responder, edits that may revive a failed entry, and
// reviewer decisions.
type ContentService interface {
	// List returns entries for a request, newest first. A request without
	// entries (or an unknown request id) yields an empty list, not an error.
	List(ctx context.Context, requestID string) ([]model.ContentEntry, error)

	// Create adds an entry. Body or file must be present; new entries are
	// always AwaitingReview regardless of caller input.
	Create(ctx context.Context, actor model.Actor, requestID, body string, file *FileInput) (*model.ContentEntry, error)

	// Edit updates body and/or file. A nil body means the field was not
	// supplied and the stored body is kept; an explicit empty string clears
	// it. A new file replaces the previous object. A Failed entry that
	// receives a new file or changed body moves to Revised; otherwise status
	// is untouched.
	Edit(ctx context.Context, actor model.Actor, id string, body *string, file *FileInput) (*model.ContentEntry, error)

	// Evaluate records a reviewer decision (Passed or Failed), setting the
	// reviewer and timestamp. Repeating a decision overwrites the previous
	// one.
	Evaluate(ctx context.Context, actor model.Actor, id string, decision model.ContentStatus) (*model.ContentEntry, error)

	// Delete removes one entry and its stored object.
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type contentService struct {
	contents repository.ContentRepository
	requests repository.RequestRepository
	att      AttachmentService
}

// NewContentService constructs a new ContentService.
func NewContentService(
	contents repository.ContentRepository,
	requests repository.RequestRepository,
	att AttachmentService,
) ContentService {
	return &contentService{contents: contents, requests: requests, att: att}
}

func (s *contentService) List(ctx context.Context, requestID string) ([]model.ContentEntry, error) {
	if requestID == "" {
		return nil, fmt.Errorf("%w: request id is required", ErrValidation)
	}
	entries, err := s.contents.ListByRequest(ctx, requestID)
	if err != nil {
		// Absence of content is a normal state, never an error.
		if errors.Is(err, sql.ErrNoRows) {
			return []model.ContentEntry{}, nil
		}
		return nil, err
	}
	return entries, nil
}

func (s *contentService) Create(ctx context.Context, actor model.Actor, requestID, body string, file *FileInput) (*model.ContentEntry, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
		}
		return nil, err
	}

	isOwner := actor.ID == req.ResponderID
	if !policy.For(actor.Role, isOwner).CanAddOrEditContent {
		return nil, fmt.Errorf("%w: actor %s cannot add content to request %s", ErrForbidden, actor.ID, requestID)
	}
	if body == "" && file == nil {
		return nil, fmt.Errorf("%w: body or file is required", ErrValidation)
	}

	now := time.Now().UTC()
	entry := &model.ContentEntry{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Body:      body,
		// Caller input never sets the status; review always starts fresh.
		Status:    model.ContentStatusAwaitingReview,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if file != nil {
		obj, err := s.att.Upload(ctx, *file)
		if err != nil {
			return nil, err
		}
		entry.FileName = obj.FileName
		entry.StoragePath = obj.Key
		entry.FileURL = obj.URL
	}

	stored, err := s.contents.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create content entry: %w", err)
	}
	return stored, nil
}

func (s *contentService) Edit(ctx context.Context, actor model.Actor, id string, body *string, file *FileInput) (*model.ContentEntry, error) {
	entry, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: content entry %s", ErrNotFound, id)
		}
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, entry.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, entry.RequestID)
		}
		return nil, err
	}

	isOwner := actor.ID == req.ResponderID
	if !policy.For(actor.Role, isOwner).CanAddOrEditContent {
		return nil, fmt.Errorf("%w: actor %s cannot edit content entry %s", ErrForbidden, actor.ID, id)
	}
	// An omitted body field keeps the stored text; only an explicit value
	// (empty included) replaces it.
	newBody := entry.Body
	if body != nil {
		newBody = *body
	}
	if newBody == "" && file == nil && !entry.HasFile() {
		return nil, fmt.Errorf("%w: body or file is required", ErrValidation)
	}

	bodyChanged := newBody != entry.Body
	oldKey := ""
	if file != nil {
		obj, err := s.att.Upload(ctx, *file)
		if err != nil {
			return nil, err
		}
		// At most one file per entry: the new upload replaces the previous
		// reference in place.
		oldKey = entry.StoragePath
		entry.FileName = obj.FileName
		entry.StoragePath = obj.Key
		entry.FileURL = obj.URL
	}
	entry.Body = newBody

	// A failed entry that the responder actually changed becomes Revised so
	// the reviewer can tell a fix attempt from an untouched failure.
	if entry.Status == model.ContentStatusFailed && (file != nil || bodyChanged) {
		entry.Status = model.ContentStatusRevised
	}
	entry.UpdatedAt = time.Now().UTC()

	updated, err := s.contents.Update(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("update content entry: %w", err)
	}

	if oldKey != "" && oldKey != entry.StoragePath {
		if err := s.att.RemoveObject(ctx, oldKey); err != nil {
			logger.Log.WithError(err).WithField("storage_path", oldKey).
				Warn("replaced content file: failed to remove previous object")
		}
	}
	return updated, nil
}

func (s *contentService) Evaluate(ctx context.Context, actor model.Actor, id string, decision model.ContentStatus) (*model.ContentEntry, error) {
	if !policy.For(actor.Role, false).CanEvaluateContent {
		return nil, fmt.Errorf("%w: role %s cannot evaluate content", ErrForbidden, actor.Role)
	}
	if decision != model.ContentStatusPassed && decision != model.ContentStatusFailed {
		return nil, fmt.Errorf("%w: decision must be %q or %q", ErrValidation, model.ContentStatusPassed, model.ContentStatusFailed)
	}
	if _, err := s.contents.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: content entry %s", ErrNotFound, id)
		}
		return nil, err
	}

	// No guard on the current status: re-evaluating overwrites the previous
	// decision, reviewer and timestamp included.
	updated, err := s.contents.SetDecision(ctx, id, decision, actor.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *contentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.For(actor.Role, false).CanDeleteContent {
		return fmt.Errorf("%w: role %s cannot delete content entries", ErrForbidden, actor.Role)
	}
	entry, err := s.contents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if entry.HasFile() {
		if err := s.att.RemoveObject(ctx, entry.StoragePath); err != nil {
			return err
		}
	}
	return s.contents.Delete(ctx, id)
}
