package repository

import (
	"context"

	"auditapi/internal/model"
)

// ActorRepository defines read access to the actors table. Actor CRUD itself
// belongs to the surrounding console; the workflow engine only needs lookups.
type ActorRepository interface {
	// FindByID returns an actor by its ID.
	FindByID(ctx context.Context, id string) (*model.Actor, error)

	// List returns all actors ordered by username (responder pickers).
	List(ctx context.Context) ([]model.Actor, error)
}
