package commands

import (
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/guard"
)

var ErrCreateBatchCommandIsNotConstructed = errors.New(
	"CreateBatchCommand must be created via NewCreateBatchCommand constructor",
)

// CreateBatchCommand turns a batch suggestion into a CREATED batch without partner.
// An empty postal code means the first code of the first campaign.
type CreateBatchCommand struct {
	campaignIDs []kernel.UUID
	postalCode  *kernel.PostalCode
	actorID     *kernel.UUID
	guard       guard.ConstructorGuard
}

func NewCreateBatchCommand(campaignIDs []kernel.UUID, postalCode string, actorID *kernel.UUID) (CreateBatchCommand, error) {
	c := CreateBatchCommand{actorID: actorID, guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		c.setCampaignIDs(campaignIDs),
		c.setPostalCode(postalCode),
	); err != nil {
		return CreateBatchCommand{}, err
	}
	return c, nil
}

func (c CreateBatchCommand) CampaignIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.campaignIDs))
	copy(ids, c.campaignIDs)
	return ids
}

func (c CreateBatchCommand) PostalCode() *kernel.PostalCode { return c.postalCode }
func (c CreateBatchCommand) ActorID() *kernel.UUID { return c.actorID }

func (c CreateBatchCommand) Validate() error {
	return c.guard.Validate(ErrCreateBatchCommandIsNotConstructed)
}

func (c *CreateBatchCommand) setCampaignIDs(ids []kernel.UUID) error {
	if err := validateIDs("campaign_ids", ids); err != nil {
		return err
	}
	c.campaignIDs = dedupeIDs(ids)
	return nil
}

func (c *CreateBatchCommand) setPostalCode(raw string) error {
	if raw == "" {
		return nil
	}
	code, err := kernel.NewPostalCode(raw)
	if err != nil {
		return err
	}
	c.postalCode = &code
	return nil
}
