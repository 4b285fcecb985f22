package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrSendBatchToPrintCommandIsNotConstructed = errors.New(
	"SendBatchToPrintCommand must be created via NewSendBatchToPrintCommand constructor",
)

// SendBatchToPrintCommand starts printing an ASSIGNED batch.
type SendBatchToPrintCommand struct {
	batchID kernel.UUID
	actorID *kernel.UUID
	guard   guard.ConstructorGuard
}

func NewSendBatchToPrintCommand(batchID kernel.UUID, actorID *kernel.UUID) (SendBatchToPrintCommand, error) {
	if err := batchID.Validate(); err != nil {
		return SendBatchToPrintCommand{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	return SendBatchToPrintCommand{
		batchID: batchID,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SendBatchToPrintCommand) BatchID() kernel.UUID { return c.batchID }
func (c SendBatchToPrintCommand) ActorID() *kernel.UUID { return c.actorID }

func (c SendBatchToPrintCommand) Validate() error {
	return c.guard.Validate(ErrSendBatchToPrintCommandIsNotConstructed)
}
