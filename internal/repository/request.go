package repository

import (
	"context"
	"time"

	"auditapi/internal/model"
)

// RequestRepository defines data access for explanation requests using SQL
// queries only. No business logic here, strictly persistence operations.
type RequestRepository interface {
	// Create inserts a new request row. The UNIQUE(plan_id) constraint
	// surfaces as an error when the plan already has a live request.
	Create(ctx context.Context, req *model.ExplanationRequest) (*model.ExplanationRequest, error)

	// FindByID returns a request by its ID.
	FindByID(ctx context.Context, id string) (*model.ExplanationRequest, error)

	// FindByPlan returns the single request scoped to a plan, or sql.ErrNoRows.
	FindByPlan(ctx context.Context, planID string) (*model.ExplanationRequest, error)

	// Update sets responder and status. Attachments are never touched here.
	Update(ctx context.Context, id string, responderID string, status model.RequestStatus) (*model.ExplanationRequest, error)

	// UpdateStatus sets only the overall status.
	UpdateStatus(ctx context.Context, id string, status model.RequestStatus) error

	// Delete removes a request by ID. Child rows (request_files,
	// explanation_contents) are removed by the database cascade.
	Delete(ctx context.Context, id string) error

	// CountStalePending counts pending requests created before the cutoff.
	CountStalePending(ctx context.Context, before time.Time) (int, error)
}
