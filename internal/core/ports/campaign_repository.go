// Package ports defines the contracts between the campaign core and its adapters:
// persistence, the user directory, asset storage, rate counting and notifications.
package ports

import (
	"context"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
)

// CampaignRepository persists campaign aggregates together with their card source.
type CampaignRepository interface {
	// Add inserts a new campaign. A clash on order number or secure token
	// is reported as errs.ErrIdentifierCollision.
	Add(ctx context.Context, aggregate *campaign.Campaign) error

	// Update writes the campaign if its stored version still matches the loaded one
	// and returns errs.ConflictError otherwise.
	Update(ctx context.Context, aggregate *campaign.Campaign) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*campaign.Campaign, error)

	// GetMany returns the campaigns that exist among ids, in no particular order.
	// Missing ids are simply absent from the result.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*campaign.Campaign, error)
}
