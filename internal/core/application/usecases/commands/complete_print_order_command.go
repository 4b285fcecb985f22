package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrCompletePrintOrderCommandIsNotConstructed = errors.New(
	"CompletePrintOrderCommand must be created via NewCompletePrintOrderCommand constructor",
)

// CompletePrintOrderCommand records that the printer finished a print order.
type CompletePrintOrderCommand struct {
	printOrderID kernel.UUID
	actorID      *kernel.UUID
	guard        guard.ConstructorGuard
}

func NewCompletePrintOrderCommand(printOrderID kernel.UUID, actorID *kernel.UUID) (CompletePrintOrderCommand, error) {
	if err := printOrderID.Validate(); err != nil {
		return CompletePrintOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("print_order_id", err)
	}
	return CompletePrintOrderCommand{
		printOrderID: printOrderID,
		actorID:      actorID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CompletePrintOrderCommand) PrintOrderID() kernel.UUID { return c.printOrderID }
func (c CompletePrintOrderCommand) ActorID() *kernel.UUID { return c.actorID }

func (c CompletePrintOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompletePrintOrderCommandIsNotConstructed)
}
