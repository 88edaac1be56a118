package repository

import (
	"context"

	"auditapi/internal/model"
)

// RequestFileRepository defines data access for request attachment metadata.
type RequestFileRepository interface {
	// Create links an uploaded object to a request.
	Create(ctx context.Context, f *model.RequestFile) (*model.RequestFile, error)

	// FindByID returns a file row by its ID.
	FindByID(ctx context.Context, id string) (*model.RequestFile, error)

	// ListByRequest returns all files attached to a request, oldest first.
	ListByRequest(ctx context.Context, requestID string) ([]model.RequestFile, error)

	// Delete unlinks a file row by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}
