package batchrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "bagpub/internal/adapters/out/postgres"
	"bagpub/internal/adapters/out/postgres/batchrepo"
	"bagpub/internal/adapters/out/postgres/pgtest"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 14, 10, 5, 0, 0, time.UTC)

// BatchRepositoryIntegrationTestSuite covers batches, membership history and print orders
// against a real PostgreSQL database.
type BatchRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	batches   *batchrepo.GormBatchRepository
	orders    *batchrepo.GormPrintOrderRepository
}

func (s *BatchRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, db, err := pgtest.Start(ctx)
	s.Require().NoError(err)
	s.container = container
	s.db = db

	s.Require().NoError(postgres_adapter.Migrate(ctx, db))
	s.batches = batchrepo.NewGormBatchRepository(db)
	s.orders = batchrepo.NewGormPrintOrderRepository(db)
}

func (s *BatchRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(pgtest.Truncate(s.db))
}

func (s *BatchRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *BatchRepositoryIntegrationTestSuite) newBatch(number string, members ...kernel.UUID) *batch.Batch {
	b, err := batch.NewBatch(kernel.NewUUID(), number, kernel.MustPostalCode("75011"), members, now)
	s.Require().NoError(err)
	return b
}

func (s *BatchRepositoryIntegrationTestSuite) TestAddAndGet_KeepsMemberOrder() {
	ctx := context.Background()
	members := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
	b := s.newBatch("BATCH-75011-20250314-A1B2C3", members...)

	s.Require().NoError(s.batches.Add(ctx, b))

	got, err := s.batches.Get(ctx, b.ID())
	s.Require().NoError(err)
	s.Equal("BATCH-75011-20250314-A1B2C3", got.BatchNumber())
	s.Equal("75011", got.PostalCode().String())
	s.Equal(batch.StatusCreated, got.Status())
	s.Equal(members, got.MemberIDs())
	s.Nil(got.PartnerID())
	s.True(now.Equal(got.CreatedAt()))
}

func (s *BatchRepositoryIntegrationTestSuite) TestAdd_DuplicateBatchNumberIsCollision() {
	ctx := context.Background()
	s.Require().NoError(s.batches.Add(ctx, s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID())))

	err := s.batches.Add(ctx, s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID()))

	s.Require().ErrorIs(err, errs.ErrIdentifierCollision)
}

func (s *BatchRepositoryIntegrationTestSuite) TestAdd_CampaignKeepsHistoryAcrossBatches() {
	ctx := context.Background()
	campaignID := kernel.NewUUID()
	s.Require().NoError(s.batches.Add(ctx, s.newBatch("BATCH-75011-20250314-000001", campaignID)))
	s.Require().NoError(s.batches.Add(ctx, s.newBatch("BATCH-75011-20250314-000002", campaignID)))

	var rows int64
	s.Require().NoError(s.db.Model(&batchrepo.MemberDTO{}).
		Where("campaign_id = ?", campaignID.Google()).
		Count(&rows).Error)
	s.Equal(int64(2), rows)
}

func (s *BatchRepositoryIntegrationTestSuite) TestUpdate_WritesPartnerStatusAndTimestamps() {
	ctx := context.Background()
	b := s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID())
	s.Require().NoError(s.batches.Add(ctx, b))

	partnerID := kernel.NewUUID()
	s.Require().NoError(b.AssignPartner(partnerID))
	s.Require().NoError(b.SendToPrint())
	printedAt := now.Add(48 * time.Hour)
	s.Require().NoError(b.MarkPrinted(printedAt))

	s.Require().NoError(s.batches.Update(ctx, b))

	got, err := s.batches.Get(ctx, b.ID())
	s.Require().NoError(err)
	s.Equal(batch.StatusPrinted, got.Status())
	s.Require().NotNil(got.PartnerID())
	s.True(partnerID.IsEqual(*got.PartnerID()))
	s.Require().NotNil(got.PrintedAt())
	s.True(printedAt.Equal(*got.PrintedAt()))
	s.Nil(got.DeliveredAt())
}

func (s *BatchRepositoryIntegrationTestSuite) TestGetAndUpdate_UnknownBatch() {
	ctx := context.Background()

	_, err := s.batches.Get(ctx, kernel.NewUUID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)

	err = s.batches.Update(ctx, s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID()))
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *BatchRepositoryIntegrationTestSuite) TestPrintOrder_GetOrCreateIsIdempotentPerBatch() {
	ctx := context.Background()
	b := s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID())
	s.Require().NoError(s.batches.Add(ctx, b))

	first, err := batch.NewPrintOrder(kernel.NewUUID(), b.ID(), "PRINT-202503141005-0A0B0C0D", now)
	s.Require().NoError(err)
	stored, created, err := s.orders.GetOrCreate(ctx, first)
	s.Require().NoError(err)
	s.True(created)
	s.Same(first, stored)

	second, err := batch.NewPrintOrder(kernel.NewUUID(), b.ID(), "PRINT-202503141006-11223344", now)
	s.Require().NoError(err)
	stored, created, err = s.orders.GetOrCreate(ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.True(first.ID().IsEqual(stored.ID()))
	s.Equal("PRINT-202503141005-0A0B0C0D", stored.OrderNumber())

	var rows int64
	s.Require().NoError(s.db.Model(&batchrepo.PrintOrderDTO{}).Count(&rows).Error)
	s.Equal(int64(1), rows)
}

func (s *BatchRepositoryIntegrationTestSuite) TestPrintOrder_DuplicateOrderNumberIsCollision() {
	ctx := context.Background()
	a := s.newBatch("BATCH-75011-20250314-000001", kernel.NewUUID())
	b := s.newBatch("BATCH-75011-20250314-000002", kernel.NewUUID())
	s.Require().NoError(s.batches.Add(ctx, a))
	s.Require().NoError(s.batches.Add(ctx, b))

	first, err := batch.NewPrintOrder(kernel.NewUUID(), a.ID(), "PRINT-202503141005-0A0B0C0D", now)
	s.Require().NoError(err)
	_, _, err = s.orders.GetOrCreate(ctx, first)
	s.Require().NoError(err)

	clash, err := batch.NewPrintOrder(kernel.NewUUID(), b.ID(), "PRINT-202503141005-0A0B0C0D", now)
	s.Require().NoError(err)
	_, _, err = s.orders.GetOrCreate(ctx, clash)

	s.Require().ErrorIs(err, errs.ErrIdentifierCollision)
}

func (s *BatchRepositoryIntegrationTestSuite) TestPrintOrder_CompleteRoundTrip() {
	ctx := context.Background()
	b := s.newBatch("BATCH-75011-20250314-A1B2C3", kernel.NewUUID())
	s.Require().NoError(s.batches.Add(ctx, b))
	order, err := batch.NewPrintOrder(kernel.NewUUID(), b.ID(), "PRINT-202503141005-0A0B0C0D", now)
	s.Require().NoError(err)
	_, _, err = s.orders.GetOrCreate(ctx, order)
	s.Require().NoError(err)

	completedAt := now.Add(72 * time.Hour)
	s.Require().NoError(order.Complete(completedAt))
	s.Require().NoError(s.orders.Update(ctx, order))

	got, err := s.orders.Get(ctx, order.ID())
	s.Require().NoError(err)
	s.Equal(batch.PrintOrderCompleted, got.Status())
	s.Require().NotNil(got.CompletedAt())
	s.True(completedAt.Equal(*got.CompletedAt()))
	s.True(b.ID().IsEqual(got.BatchID()))

	_, err = s.orders.Get(ctx, kernel.NewUUID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestBatchRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BatchRepositoryIntegrationTestSuite))
}
