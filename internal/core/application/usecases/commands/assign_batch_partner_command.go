package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrAssignBatchPartnerCommandIsNotConstructed = errors.New(
	"AssignBatchPartnerCommand must be created via NewAssignBatchPartnerCommand constructor",
)

// AssignBatchPartnerCommand hands a CREATED batch and its members to a partner.
type AssignBatchPartnerCommand struct {
	batchID   kernel.UUID
	partnerID kernel.UUID
	actorID   *kernel.UUID
	guard     guard.ConstructorGuard
}

func NewAssignBatchPartnerCommand(batchID, partnerID kernel.UUID, actorID *kernel.UUID) (AssignBatchPartnerCommand, error) {
	c := AssignBatchPartnerCommand{actorID: actorID, guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		c.setBatchID(batchID),
		c.setPartnerID(partnerID),
	); err != nil {
		return AssignBatchPartnerCommand{}, err
	}
	return c, nil
}

func (c AssignBatchPartnerCommand) BatchID() kernel.UUID { return c.batchID }
func (c AssignBatchPartnerCommand) PartnerID() kernel.UUID { return c.partnerID }
func (c AssignBatchPartnerCommand) ActorID() *kernel.UUID { return c.actorID }

func (c AssignBatchPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignBatchPartnerCommandIsNotConstructed)
}

func (c *AssignBatchPartnerCommand) setBatchID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	c.batchID = id
	return nil
}

func (c *AssignBatchPartnerCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partner_id", err)
	}
	c.partnerID = id
	return nil
}
