package postgres

import (
	"context"
	"database/sql"
	"time"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// RequestPostgres is a PostgreSQL implementation of repository.RequestRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type RequestPostgres struct {
	db *sql.DB
}

// NewRequestPostgres creates a new RequestPostgres repository.
func NewRequestPostgres(db *sql.DB) *RequestPostgres {
	return &RequestPostgres{db: db}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

func scanRequest(row interface{ Scan(...any) error }) (*model.ExplanationRequest, error) {
	var r model.ExplanationRequest
	if err := row.Scan(
		&r.ID,
		&r.PlanID,
		&r.RequesterID,
		&r.ResponderID,
		&r.Status,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new request row and returns the stored record.
func (r *RequestPostgres) Create(ctx context.Context, req *model.ExplanationRequest) (*model.ExplanationRequest, error) {
	const q = `
		INSERT INTO explanation_requests (id, plan_id, requester_id, responder_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, plan_id, requester_id, responder_id, status, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		req.ID,
		req.PlanID,
		req.RequesterID,
		req.ResponderID,
		req.Status,
		req.CreatedAt,
	)
	return scanRequest(row)
}

// FindByID fetches a single request by its ID.
func (r *RequestPostgres) FindByID(ctx context.Context, id string) (*model.ExplanationRequest, error) {
	const q = `
		SELECT id, plan_id, requester_id, responder_id, status, created_at
		FROM explanation_requests
		WHERE id = $1
	`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

// FindByPlan fetches the single request scoped to a plan.
func (r *RequestPostgres) FindByPlan(ctx context.Context, planID string) (*model.ExplanationRequest, error) {
	const q = `
		SELECT id, plan_id, requester_id, responder_id, status, created_at
		FROM explanation_requests
		WHERE plan_id = $1
	`
	return scanRequest(r.db.QueryRowContext(ctx, q, planID))
}

// Update sets responder and status and returns the stored record.
func (r *RequestPostgres) Update(ctx context.Context, id string, responderID string, status model.RequestStatus) (*model.ExplanationRequest, error) {
	const q = `
		UPDATE explanation_requests
		SET responder_id = $2, status = $3
		WHERE id = $1
		RETURNING id, plan_id, requester_id, responder_id, status, created_at
	`
	return scanRequest(r.db.QueryRowContext(ctx, q, id, responderID, status))
}

// UpdateStatus sets only the overall status.
func (r *RequestPostgres) UpdateStatus(ctx context.Context, id string, status model.RequestStatus) error {
	const q = `UPDATE explanation_requests SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a request by ID. Child rows are removed by the DB cascade.
// It does not return an error if the row does not exist.
func (r *RequestPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM explanation_requests WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// CountStalePending counts pending requests created before the cutoff.
func (r *RequestPostgres) CountStalePending(ctx context.Context, before time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM explanation_requests WHERE status = 'pending' AND created_at < $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, before).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
