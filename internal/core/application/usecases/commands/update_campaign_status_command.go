package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrUpdateCampaignStatusCommandIsNotConstructed = errors.New(
	"UpdateCampaignStatusCommand must be created via NewUpdateCampaignStatusCommand constructor",
)

// UpdateCampaignStatusCommand sets the status of one campaign. The status name is
// parsed here, so an unknown name never reaches the handler.
type UpdateCampaignStatusCommand struct {
	campaignID kernel.UUID
	status     campaign.Status
	actorID    *kernel.UUID
	guard      guard.ConstructorGuard
}

func NewUpdateCampaignStatusCommand(
	campaignID kernel.UUID,
	status string,
	actorID *kernel.UUID,
) (UpdateCampaignStatusCommand, error) {
	c := UpdateCampaignStatusCommand{actorID: actorID, guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		c.setCampaignID(campaignID),
		c.setStatus(status),
	); err != nil {
		return UpdateCampaignStatusCommand{}, err
	}
	return c, nil
}

func (c UpdateCampaignStatusCommand) CampaignID() kernel.UUID { return c.campaignID }
func (c UpdateCampaignStatusCommand) Status() campaign.Status { return c.status }
func (c UpdateCampaignStatusCommand) ActorID() *kernel.UUID { return c.actorID }

func (c UpdateCampaignStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCampaignStatusCommandIsNotConstructed)
}

func (c *UpdateCampaignStatusCommand) setCampaignID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("campaign_id", err)
	}
	c.campaignID = id
	return nil
}

func (c *UpdateCampaignStatusCommand) setStatus(raw string) error {
	status, err := campaign.ParseStatus(raw)
	if err != nil {
		return err
	}
	c.status = status
	return nil
}
