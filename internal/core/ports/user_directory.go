package ports

import (
	"context"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
)

// UserDirectory resolves client and partner identities and contact fields.
type UserDirectory interface {
	// GetClient returns errs.ObjectNotFoundError for an unknown id.
	GetClient(ctx context.Context, id kernel.UUID) (party.Client, error)

	// GetClients resolves many clients at once; unknown ids are left out.
	GetClients(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]party.Client, error)

	// GetPartner returns errs.ObjectNotFoundError for an unknown id.
	GetPartner(ctx context.Context, id kernel.UUID) (party.Partner, error)
}
