// Package commands contains the operations that change campaign, batch and print
// order state. Every command is validated at construction, runs inside one unit of
// work, appends its audit entries in that same unit of work and only notifies
// people after a successful commit.
package commands

import (
	"context"

	"bagpub/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle of a unit of work.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	CampaignRepoFactory interface {
		CampaignRepository() ports.CampaignRepository
	}

	BatchRepoFactory interface {
		BatchRepository() ports.BatchRepository
	}

	PrintOrderRepoFactory interface {
		PrintOrderRepository() ports.PrintOrderRepository
	}

	AuditLogRepoFactory interface {
		AuditLogRepository() ports.AuditLogRepository
	}

	// CampaignUoW covers commands touching a single campaign.
	CampaignUoW interface {
		TxManager
		CampaignRepoFactory
		AuditLogRepoFactory
	}

	CampaignUoWFactory interface {
		Create() CampaignUoW
	}

	// BatchUoW covers commands that move batches, their print orders and member campaigns together.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//
	//	b, err := uow.BatchRepository().Get(ctx, id)
	//	// ... mutate batch and members, append audit entries
	//
	//	return uow.Commit(ctx)
	BatchUoW interface {
		TxManager
		CampaignRepoFactory
		BatchRepoFactory
		PrintOrderRepoFactory
		AuditLogRepoFactory
	}

	BatchUoWFactory interface {
		Create() BatchUoW
	}
)
