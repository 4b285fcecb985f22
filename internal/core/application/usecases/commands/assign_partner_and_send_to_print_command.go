package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrAssignPartnerAndSendToPrintCommandIsNotConstructed = errors.New(
	"AssignPartnerAndSendToPrintCommand must be created via NewAssignPartnerAndSendToPrintCommand constructor",
)

// AssignPartnerAndSendToPrintCommand combines campaigns into a new batch that goes
// straight to print with the given partner. Repeated campaign ids are collapsed,
// keeping the first occurrence. A nil actor means the system acted.
type AssignPartnerAndSendToPrintCommand struct {
	campaignIDs []kernel.UUID
	partnerID   kernel.UUID
	actorID     *kernel.UUID
	guard       guard.ConstructorGuard
}

func NewAssignPartnerAndSendToPrintCommand(
	campaignIDs []kernel.UUID,
	partnerID kernel.UUID,
	actorID *kernel.UUID,
) (AssignPartnerAndSendToPrintCommand, error) {
	c := AssignPartnerAndSendToPrintCommand{actorID: actorID, guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		c.setCampaignIDs(campaignIDs),
		c.setPartnerID(partnerID),
	); err != nil {
		return AssignPartnerAndSendToPrintCommand{}, err
	}
	return c, nil
}

func (c AssignPartnerAndSendToPrintCommand) CampaignIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.campaignIDs))
	copy(ids, c.campaignIDs)
	return ids
}

func (c AssignPartnerAndSendToPrintCommand) PartnerID() kernel.UUID { return c.partnerID }
func (c AssignPartnerAndSendToPrintCommand) ActorID() *kernel.UUID { return c.actorID }

func (c AssignPartnerAndSendToPrintCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerAndSendToPrintCommandIsNotConstructed)
}

func (c *AssignPartnerAndSendToPrintCommand) setCampaignIDs(ids []kernel.UUID) error {
	if err := validateIDs("campaign_ids", ids); err != nil {
		return err
	}
	c.campaignIDs = dedupeIDs(ids)
	return nil
}

func (c *AssignPartnerAndSendToPrintCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partner_id", err)
	}
	c.partnerID = id
	return nil
}
