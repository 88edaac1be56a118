package postgres

import (
	"context"
	"database/sql"
	"time"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// ContentPostgres is a PostgreSQL implementation of repository.ContentRepository.
type ContentPostgres struct {
	db *sql.DB
}

// NewContentPostgres creates a new ContentPostgres repository.
func NewContentPostgres(db *sql.DB) *ContentPostgres {
	return &ContentPostgres{db: db}
}

var _ repository.ContentRepository = (*ContentPostgres)(nil)

const contentColumns = `id, request_id, body, file_name, storage_path, file_url, status, reviewer_id, reviewed_at, created_at, updated_at`

func scanContent(row interface{ Scan(...any) error }) (*model.ContentEntry, error) {
	var (
		e          model.ContentEntry
		reviewerID sql.NullString
		reviewedAt sql.NullTime
	)
	if err := row.Scan(
		&e.ID,
		&e.RequestID,
		&e.Body,
		&e.FileName,
		&e.StoragePath,
		&e.FileURL,
		&e.Status,
		&reviewerID,
		&reviewedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if reviewerID.Valid {
		e.ReviewerID = reviewerID.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		e.ReviewedAt = &t
	}
	return &e, nil
}

// Create inserts a new content entry row and returns the stored record.
func (r *ContentPostgres) Create(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error) {
	const q = `
		INSERT INTO explanation_contents (id, request_id, body, file_name, storage_path, file_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + contentColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.RequestID,
		e.Body,
		e.FileName,
		e.StoragePath,
		e.FileURL,
		e.Status,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return scanContent(row)
}

// FindByID fetches a single entry by its ID.
func (r *ContentPostgres) FindByID(ctx context.Context, id string) (*model.ContentEntry, error) {
	const q = `
		SELECT ` + contentColumns + `
		FROM explanation_contents
		WHERE id = $1
	`
	return scanContent(r.db.QueryRowContext(ctx, q, id))
}

// ListByRequest returns entries for a request, newest first.
func (r *ContentPostgres) ListByRequest(ctx context.Context, requestID string) ([]model.ContentEntry, error) {
	const q = `
		SELECT ` + contentColumns + `
		FROM explanation_contents
		WHERE request_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ContentEntry, 0)
	for rows.Next() {
		e, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists body, file reference and status after an edit.
func (r *ContentPostgres) Update(ctx context.Context, e *model.ContentEntry) (*model.ContentEntry, error) {
	const q = `
		UPDATE explanation_contents
		SET body = $2, file_name = $3, storage_path = $4, file_url = $5, status = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + contentColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.Body,
		e.FileName,
		e.StoragePath,
		e.FileURL,
		e.Status,
		e.UpdatedAt,
	)
	return scanContent(row)
}

// SetDecision records a reviewer decision on an entry.
func (r *ContentPostgres) SetDecision(ctx context.Context, id string, status model.ContentStatus, reviewerID string, reviewedAt time.Time) (*model.ContentEntry, error) {
	const q = `
		UPDATE explanation_contents
		SET status = $2, reviewer_id = $3, reviewed_at = $4, updated_at = $4
		WHERE id = $1
		RETURNING ` + contentColumns
	return scanContent(r.db.QueryRowContext(ctx, q, id, status, reviewerID, reviewedAt))
}

// Delete removes an entry by ID. It does not return an error if the row does
// not exist.
func (r *ContentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM explanation_contents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
