package postgres

import (
	"context"

	"bagpub/internal/adapters/out/postgres/auditrepo"
	"bagpub/internal/adapters/out/postgres/batchrepo"
	"bagpub/internal/adapters/out/postgres/campaignrepo"
	"bagpub/internal/adapters/out/postgres/directoryrepo"
	"bagpub/internal/adapters/out/postgres/ratecounter"

	"gorm.io/gorm"
)

// Models lists every table the service reads or writes, in dependency order.
func Models() []any {
	return []any{
		&directoryrepo.ClientDTO{},
		&directoryrepo.PartnerDTO{},
		&campaignrepo.CampaignDTO{},
		&campaignrepo.DesignDTO{},
		&batchrepo.BatchDTO{},
		&batchrepo.MemberDTO{},
		&batchrepo.PrintOrderDTO{},
		&auditrepo.EntryDTO{},
		&ratecounter.CounterDTO{},
	}
}

// Migrate creates or extends the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
