package store

import (
	"context"
	"errors"

	"github.com/De27vin/M210-inventory-app/internal/models"
)

var (
	// ErrNotFound — no record with the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrNoFields — a partial update supplied an empty field set.
	ErrNoFields = errors.New("no fields to update")
	// ErrUnknownColumn — a partial update named a column outside the
	// allow-list.
	ErrUnknownColumn = errors.New("unknown column")
)

// Inventory is the repository port the handlers depend on. The Postgres
// adapter implements it; tests substitute an in-memory fake.
type Inventory interface {
	// Create inserts a full record and returns the generated id.
	Create(ctx context.Context, rec *models.Record) (int64, error)

	// List returns the projection of every record, ordered by id.
	List(ctx context.Context) ([]models.Summary, error)

	// Get returns the projection for one id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Summary, error)

	// Update rewrites only the supplied columns for one id. Field names
	// are validated against models.UpdatableColumns. Returns the updated
	// id, or ErrNoFields, ErrUnknownColumn, ErrNotFound.
	Update(ctx context.Context, id int64, fields map[string]any) (int64, error)

	// Delete removes one record and returns its id, or ErrNotFound.
	Delete(ctx context.Context, id int64) (int64, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// CountByEnvironment reports record counts grouped by the
	// environment column, for the metrics collector.
	CountByEnvironment(ctx context.Context) (map[string]int64, error)
}
