package repository

import (
	"context"
	"time"

	"auditapi/internal/model"
)

// ContentRepository defines data access for explanation content entries.
type ContentRepository interface {
	// Create inserts a new content entry row.
	Create(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error)

	// FindByID returns an entry by its ID.
	FindByID(ctx context.Context, id string) (*model.ContentEntry, error)

	// ListByRequest returns entries for a request ordered newest-first by
	// created_at. A request with no entries yields an empty slice.
	ListByRequest(ctx context.Context, requestID string) ([]model.ContentEntry, error)

	// Update persists body, file reference and status after an edit.
	Update(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error)

	// SetDecision records a reviewer decision on an entry.
	SetDecision(ctx context.Context, id string, status model.ContentStatus, reviewerID string, reviewedAt time.Time) (*model.ContentEntry, error)

	// Delete removes an entry by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}
