package cmd

import (
	"crypto/rand"
	"log/slog"

	httpin "bagpub/internal/adapters/in/http"
	"bagpub/internal/adapters/out/filestore"
	"bagpub/internal/adapters/out/postgres"
	"bagpub/internal/adapters/out/postgres/directoryrepo"
	"bagpub/internal/adapters/out/postgres/ratecounter"
	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/application/usecases/queries"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"
	"bagpub/internal/jobs"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	directory   *directoryrepo.GormUserDirectory
	rateCounter *ratecounter.GormRateCounter
	assets      *filestore.LocalStore
	notifier    ports.Notifier
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	assets *filestore.LocalStore,
	notifier ports.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:   directoryrepo.NewGormUserDirectory(gormDB),
		rateCounter: ratecounter.NewGormRateCounter(gormDB),
		assets:      assets,
		notifier:    notifier,
		clock:       clock,
		logger:      logger,
	}
}

func (c *CompositionRoot) campaignUoWFactory() commands.CampaignUoWFactory {
	return FuncCampaignUoWFactory(func() commands.CampaignUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) batchUoWFactory() commands.BatchUoWFactory {
	return FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) identifierGenerator() services.IdentifierGenerator {
	return services.NewIdentifierGenerator(c.clock, rand.Reader)
}

func (c *CompositionRoot) CreateCreateCampaignCommandHandler() commands.CreateCampaignCommandHandler {
	return commands.NewCreateCampaignCommandHandler(
		c.campaignUoWFactory(),
		c.directory,
		c.assets,
		c.notifier,
		services.NewRateLimiter(c.rateCounter, c.clock, c.cfg.CampaignRateLimit, c.cfg.CampaignRateWindow),
		services.NewCampaignValidator(c.clock),
		c.identifierGenerator(),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateCampaignStatusCommandHandler() commands.UpdateCampaignStatusCommandHandler {
	return commands.NewUpdateCampaignStatusCommandHandler(c.campaignUoWFactory(), c.directory, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateCampaignDesignCommandHandler() commands.UpdateCampaignDesignCommandHandler {
	return commands.NewUpdateCampaignDesignCommandHandler(c.campaignUoWFactory(), c.directory, c.clock, c.logger)
}

func (c *CompositionRoot) CreateAssignPartnerAndSendToPrintCommandHandler() commands.AssignPartnerAndSendToPrintCommandHandler {
	return commands.NewAssignPartnerAndSendToPrintCommandHandler(
		c.batchUoWFactory(), c.directory, c.notifier, c.identifierGenerator(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateCreateBatchCommandHandler() commands.CreateBatchCommandHandler {
	return commands.NewCreateBatchCommandHandler(c.batchUoWFactory(), c.identifierGenerator(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateAssignBatchPartnerCommandHandler() commands.AssignBatchPartnerCommandHandler {
	return commands.NewAssignBatchPartnerCommandHandler(c.batchUoWFactory(), c.directory, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSendBatchToPrintCommandHandler() commands.SendBatchToPrintCommandHandler {
	return commands.NewSendBatchToPrintCommandHandler(
		c.batchUoWFactory(), c.directory, c.notifier, c.identifierGenerator(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateCompletePrintOrderCommandHandler() commands.CompletePrintOrderCommandHandler {
	return commands.NewCompletePrintOrderCommandHandler(c.batchUoWFactory(), c.directory, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSuggestBatchesQueryHandler() queries.SuggestBatchesQueryHandler {
	return queries.NewSuggestBatchesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListLogsQueryHandler() queries.ListLogsQueryHandler {
	return queries.NewListLogsQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the REST adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	createCampaign := c.CreateCreateCampaignCommandHandler()
	updateStatus := c.CreateUpdateCampaignStatusCommandHandler()
	updateDesign := c.CreateUpdateCampaignDesignCommandHandler()
	assignAndPrint := c.CreateAssignPartnerAndSendToPrintCommandHandler()
	createBatch := c.CreateCreateBatchCommandHandler()
	assignPartner := c.CreateAssignBatchPartnerCommandHandler()
	sendToPrint := c.CreateSendBatchToPrintCommandHandler()
	completeOrder := c.CreateCompletePrintOrderCommandHandler()

	return httpin.NewServer(httpin.Handlers{
		CreateCampaign:       &createCampaign,
		UpdateCampaignStatus: &updateStatus,
		UpdateCampaignDesign: &updateDesign,
		AssignAndPrint:       &assignAndPrint,
		CreateBatch:          &createBatch,
		AssignBatchPartner:   &assignPartner,
		SendBatchToPrint:     &sendToPrint,
		CompletePrintOrder:   &completeOrder,
		SuggestBatches:       c.CreateSuggestBatchesQueryHandler(),
		ListLogs:             c.CreateListLogsQueryHandler(),
		Assets:               c.assets,
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.rateCounter, c.clock, c.cfg.RateCounterPurgeSpec, c.logger)
}

type FuncCampaignUoWFactory func() commands.CampaignUoW

func (f FuncCampaignUoWFactory) Create() commands.CampaignUoW {
	return f()
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}
