package postgres

import (
	"context"
	"database/sql"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.RequestFileRepository.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.RequestFileRepository = (*FilePostgres)(nil)

// Create links an uploaded object to a request and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.RequestFile) (*model.RequestFile, error) {
	const q = `
		INSERT INTO request_files (id, request_id, file_name, storage_path, file_url, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, request_id, file_name, storage_path, file_url, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.RequestID,
		f.FileName,
		f.StoragePath,
		f.FileURL,
		f.Size,
		f.ContentType,
		f.CreatedAt,
	)
	var out model.RequestFile
	if err := row.Scan(
		&out.ID,
		&out.RequestID,
		&out.FileName,
		&out.StoragePath,
		&out.FileURL,
		&out.Size,
		&out.ContentType,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single file row by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.RequestFile, error) {
	const q = `
		SELECT id, request_id, file_name, storage_path, file_url, size, content_type, created_at
		FROM request_files
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var f model.RequestFile
	if err := row.Scan(
		&f.ID,
		&f.RequestID,
		&f.FileName,
		&f.StoragePath,
		&f.FileURL,
		&f.Size,
		&f.ContentType,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByRequest returns all files attached to a request, oldest first.
func (r *FilePostgres) ListByRequest(ctx context.Context, requestID string) ([]model.RequestFile, error) {
	const q = `
		SELECT id, request_id, file_name, storage_path, file_url, size, content_type, created_at
		FROM request_files
		WHERE request_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RequestFile, 0)
	for rows.Next() {
		var f model.RequestFile
		if err := rows.Scan(
			&f.ID,
			&f.RequestID,
			&f.FileName,
			&f.StoragePath,
			&f.FileURL,
			&f.Size,
			&f.ContentType,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete unlinks a file row by ID. It does not return an error if the row
// does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM request_files WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
