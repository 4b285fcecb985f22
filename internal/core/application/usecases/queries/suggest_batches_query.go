// Package queries holds the read side of the service: handlers that answer from
// a single SQL statement and never go through a unit of work.
package queries

import (
	"errors"

	"bagpub/internal/pkg/guard"
)

var ErrSuggestBatchesQueryIsNotConstructed = errors.New(
	"SuggestBatchesQuery must be created via NewSuggestBatchesQuery constructor",
)

// SuggestBatchesQuery plans batches over every CREATED campaign not yet in a batch.
// It takes no parameters.
type SuggestBatchesQuery struct {
	guard guard.ConstructorGuard
}

func NewSuggestBatchesQuery() SuggestBatchesQuery {
	return SuggestBatchesQuery{guard: guard.NewConstructorGuard()}
}

func (q SuggestBatchesQuery) Validate() error {
	return q.guard.Validate(ErrSuggestBatchesQueryIsNotConstructed)
}
