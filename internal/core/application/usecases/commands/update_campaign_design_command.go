package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var ErrUpdateCampaignDesignCommandIsNotConstructed = errors.New(
	"UpdateCampaignDesignCommand must be created via NewUpdateCampaignDesignCommand constructor",
)

// UpdateCampaignDesignCommand replaces the template design of a campaign. Values are
// normalized the same way as at creation.
type UpdateCampaignDesignCommand struct {
	campaignID kernel.UUID
	design     campaign.DesignParams
	actorID    *kernel.UUID
	guard      guard.ConstructorGuard
}

func NewUpdateCampaignDesignCommand(
	campaignID kernel.UUID,
	design campaign.DesignParams,
	actorID *kernel.UUID,
) (UpdateCampaignDesignCommand, error) {
	if err := campaignID.Validate(); err != nil {
		return UpdateCampaignDesignCommand{}, errs.NewValueIsRequiredErrorWithCause("campaign_id", err)
	}
	return UpdateCampaignDesignCommand{
		campaignID: campaignID,
		design:     design,
		actorID:    actorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCampaignDesignCommand) CampaignID() kernel.UUID { return c.campaignID }
func (c UpdateCampaignDesignCommand) Design() campaign.DesignParams { return c.design }
func (c UpdateCampaignDesignCommand) ActorID() *kernel.UUID { return c.actorID }

func (c UpdateCampaignDesignCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCampaignDesignCommandIsNotConstructed)
}
