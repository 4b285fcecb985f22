// Package postgres provides the GORM-based Unit of Work shared by every command.
// One UnitOfWork wraps one database transaction; the repositories it hands out
// run inside that transaction once Begin has been called.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.CampaignRepository().Update(ctx, c); err != nil {
//	    return err
//	}
//	if err := uow.AuditLogRepository().Append(ctx, entry); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and leaves
// the committed data alone, which is what makes the deferred call above safe.
//
// Concurrency:
//   - A UnitOfWork is not safe for concurrent use; create one per command
//   - Optimistic campaign versions turn lost races into errs.ConflictError
//   - Unique identifier clashes surface as errs.ErrIdentifierCollision so the
//     caller can retry the whole unit with fresh identifiers
package postgres

import (
	"context"

	"bagpub/internal/adapters/out/postgres/auditrepo"
	"bagpub/internal/adapters/out/postgres/batchrepo"
	"bagpub/internal/adapters/out/postgres/campaignrepo"
	"bagpub/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a UnitOfWork with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the campaign,
// batch, print order and audit log repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling it again on an open unit is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit makes every change of the unit visible at once and closes the transaction.
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the changes of the unit and closes the transaction.
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// CampaignRepository runs inside the open transaction, or directly on the pool
// when none is open.
func (uow *GormUnitOfWork) CampaignRepository() ports.CampaignRepository {
	return campaignrepo.NewGormCampaignRepository(uow.conn())
}

func (uow *GormUnitOfWork) BatchRepository() ports.BatchRepository {
	return batchrepo.NewGormBatchRepository(uow.conn())
}

func (uow *GormUnitOfWork) PrintOrderRepository() ports.PrintOrderRepository {
	return batchrepo.NewGormPrintOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) AuditLogRepository() ports.AuditLogRepository {
	return auditrepo.NewGormAuditLogRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
