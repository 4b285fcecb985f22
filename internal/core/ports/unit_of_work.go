package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of a command. Repositories obtained after
// Begin share the transaction; nothing is visible to readers before Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CampaignRepository() CampaignRepository
	BatchRepository() BatchRepository
	PrintOrderRepository() PrintOrderRepository
	AuditLogRepository() AuditLogRepository
}
