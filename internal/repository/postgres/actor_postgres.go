package postgres

import (
	"context"
	"database/sql"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// ActorPostgres is a PostgreSQL implementation of repository.ActorRepository.
type ActorPostgres struct {
	db *sql.DB
}

// NewActorPostgres creates a new ActorPostgres repository.
func NewActorPostgres(db *sql.DB) *ActorPostgres {
	return &ActorPostgres{db: db}
}

var _ repository.ActorRepository = (*ActorPostgres)(nil)

// FindByID fetches a single actor by its ID.
func (r *ActorPostgres) FindByID(ctx context.Context, id string) (*model.Actor, error) {
	const q = `
		SELECT id, username, display_name, role, created_at
		FROM actors
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var a model.Actor
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.DisplayName,
		&a.Role,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all actors ordered by username.
func (r *ActorPostgres) List(ctx context.Context) ([]model.Actor, error) {
	const q = `
		SELECT id, username, display_name, role, created_at
		FROM actors
		ORDER BY username ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Actor, 0)
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.DisplayName,
			&a.Role,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
