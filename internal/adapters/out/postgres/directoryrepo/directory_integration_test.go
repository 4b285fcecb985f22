package directoryrepo_test

import (
	"context"
	"testing"

	postgres_adapter "bagpub/internal/adapters/out/postgres"
	"bagpub/internal/adapters/out/postgres/directoryrepo"
	"bagpub/internal/adapters/out/postgres/pgtest"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type UserDirectoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	directory *directoryrepo.GormUserDirectory
}

func (s *UserDirectoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	container, db, err := pgtest.Start(ctx)
	s.Require().NoError(err)
	s.container = container
	s.db = db
	s.Require().NoError(postgres_adapter.Migrate(ctx, db))
	s.directory = directoryrepo.NewGormUserDirectory(db)
}

func (s *UserDirectoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(pgtest.Truncate(s.db))
}

func (s *UserDirectoryIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *UserDirectoryIntegrationTestSuite) insertClient(active bool) kernel.UUID {
	id := kernel.NewUUID()
	s.Require().NoError(s.db.Create(&directoryrepo.ClientDTO{
		ID:          id.Google(),
		CompanyName: "Boulangerie Martin",
		Username:    "martin",
		Email:       "martin@example.fr",
		Phone:       "0611223344",
		Active:      active,
	}).Error)
	return id
}

func (s *UserDirectoryIntegrationTestSuite) insertPartner(active bool) kernel.UUID {
	id := kernel.NewUUID()
	s.Require().NoError(s.db.Create(&directoryrepo.PartnerDTO{
		ID:          id.Google(),
		CompanyName: "Distri Paris Est",
		Email:       "ops@distri.fr",
		City:        "Paris",
		PostalCode:  "75011",
		Active:      active,
	}).Error)
	return id
}

func (s *UserDirectoryIntegrationTestSuite) TestGetClient() {
	ctx := context.Background()
	id := s.insertClient(true)

	client, err := s.directory.GetClient(ctx, id)

	s.Require().NoError(err)
	s.True(id.IsEqual(client.ID))
	s.Equal("Boulangerie Martin", client.DisplayName())
	s.Equal("martin@example.fr", client.Email)
	s.True(client.Active)

	_, err = s.directory.GetClient(ctx, kernel.NewUUID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *UserDirectoryIntegrationTestSuite) TestGetClient_InactiveIsReturned() {
	id := s.insertClient(false)

	client, err := s.directory.GetClient(context.Background(), id)

	s.Require().NoError(err)
	s.False(client.Active)
}

func (s *UserDirectoryIntegrationTestSuite) TestGetClients_LeavesUnknownOut() {
	a := s.insertClient(true)
	b := s.insertClient(false)

	clients, err := s.directory.GetClients(context.Background(), []kernel.UUID{a, kernel.NewUUID(), b})

	s.Require().NoError(err)
	s.Len(clients, 2)
	s.Contains(clients, a)
	s.Contains(clients, b)
}

func (s *UserDirectoryIntegrationTestSuite) TestGetPartner_OnlyActive() {
	ctx := context.Background()
	active := s.insertPartner(true)
	inactive := s.insertPartner(false)

	partner, err := s.directory.GetPartner(ctx, active)
	s.Require().NoError(err)
	s.Equal("Distri Paris Est", partner.CompanyName)
	s.Equal("75011", partner.PostalCode)

	_, err = s.directory.GetPartner(ctx, inactive)
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestUserDirectoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserDirectoryIntegrationTestSuite))
}
