package ports

import (
	"context"

	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/kernel"
)

// BatchRepository persists print batches and their membership history.
type BatchRepository interface {
	// Add inserts the batch and one history row per member. A clash on the batch
	// number is reported as errs.ErrIdentifierCollision.
	Add(ctx context.Context, aggregate *batch.Batch) error

	// Update writes partner, status and timestamps. Membership is fixed at creation.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)
}

// PrintOrderRepository persists print orders, at most one per batch.
type PrintOrderRepository interface {
	// GetOrCreate inserts order unless its batch already has one, and returns the stored
	// order together with whether it was created by this call.
	GetOrCreate(ctx context.Context, order *batch.PrintOrder) (*batch.PrintOrder, bool, error)

	Get(ctx context.Context, id kernel.UUID) (*batch.PrintOrder, error)

	Update(ctx context.Context, order *batch.PrintOrder) error
}
