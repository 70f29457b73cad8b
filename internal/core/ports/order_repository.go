// Package ports defines the contracts between the dispatch domain and
// infrastructure: persistence, the entity directory, candidate notification,
// route enrichment, and live location storage. These interfaces enable
// dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Update is a conditional write keyed on the aggregate version: when the
// stored version no longer matches, the write is lost to a concurrent actor
// and Update returns a ConflictError. Callers re-read and re-evaluate rather
// than retrying the same mutation.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, conditional on
	// the version the aggregate was read at. Returns a ConflictError when a
	// concurrent writer got there first.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, including
	// its full attempt ledger and candidate queue.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllEscalated retrieves every order waiting for manual assignment,
	// in either role. Used for the administrator work list.
	GetAllEscalated(ctx context.Context) ([]*order.Order, error)

	// GetAllWithStaleAttempts retrieves orders whose pending attempt was
	// offered before the cutoff. Used by the attempt timeout job to treat
	// unanswered offers as rejections.
	GetAllWithStaleAttempts(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
