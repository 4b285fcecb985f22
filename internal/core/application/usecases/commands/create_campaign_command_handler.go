package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

const (
	customCardFolder = "custom_cards"
	logoFolder       = "logos"
)

// CreateCampaignResult summarizes the stored campaign for the client.
type CreateCampaignResult struct {
	CampaignID     kernel.UUID
	OrderNumber    string
	Name           string
	Quantity       int
	EstimatedPrice float64
	PostalCodes    []kernel.PostalCode
	HasCustomCard  bool
	Design         *campaign.Design
}

// CreateCampaignCommandHandler throttles, validates and stores a client submission.
//
// The rate limit is counted before validation, so rejected submissions still use up
// the client's window. Uploaded files are stored before the transaction opens; the
// campaign row, its design and the CREATED audit entry are written atomically. The
// client is notified after commit.
type CreateCampaignCommandHandler struct {
	uowFactory  CampaignUoWFactory
	directory   ports.UserDirectory
	assets      ports.AssetStore
	notifier    ports.Notifier
	rateLimiter services.RateLimiter
	validator   services.CampaignValidator
	generator   services.IdentifierGenerator
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewCreateCampaignCommandHandler(
	uowFactory CampaignUoWFactory,
	directory ports.UserDirectory,
	assets ports.AssetStore,
	notifier ports.Notifier,
	rateLimiter services.RateLimiter,
	validator services.CampaignValidator,
	generator services.IdentifierGenerator,
	clock clockwork.Clock,
	logger *slog.Logger,
) CreateCampaignCommandHandler {
	return CreateCampaignCommandHandler{
		uowFactory:  uowFactory,
		directory:   directory,
		assets:      assets,
		notifier:    notifier,
		rateLimiter: rateLimiter,
		validator:   validator,
		generator:   generator,
		clock:       clock,
		logger:      logger.With("component", "create_campaign"),
	}
}

func (h *CreateCampaignCommandHandler) Handle(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	const op = "create campaign"

	if err := cmd.Validate(); err != nil {
		return CreateCampaignResult{}, err
	}

	client, err := h.directory.GetClient(ctx, cmd.ClientID())
	if err != nil {
		return CreateCampaignResult{}, classify(ctx, h.logger, op, err)
	}
	if !client.Active {
		return CreateCampaignResult{}, errs.NewConflictError("client account is inactive")
	}

	if err = h.rateLimiter.Allow(ctx, client.ID); err != nil {
		return CreateCampaignResult{}, classify(ctx, h.logger, op, err)
	}

	validated, err := h.validator.Validate(cmd.validatorInput(), client)
	if err != nil {
		return CreateCampaignResult{}, err
	}

	card, err := h.cardSource(ctx, cmd.Input(), validated)
	if err != nil {
		return CreateCampaignResult{}, classify(ctx, h.logger, op, err)
	}

	var created *campaign.Campaign
	err = withIdentifierRetry(ctx, "order_number", func(ctx context.Context) error {
		c, err := h.store(ctx, client, validated, card)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return CreateCampaignResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "campaign created",
		"campaign_id", created.ID().String(),
		"order_number", created.OrderNumber(),
		"client_id", client.ID.String())

	notifyClients(ctx, h.notifier, ports.TemplateCampaignCreated,
		[]*campaign.Campaign{created},
		map[kernel.UUID]party.Client{client.ID: client},
		map[string]any{
			"estimated_price": created.EstimatedPrice(),
			"secure_token":    created.SecureToken(),
		})

	result := CreateCampaignResult{
		CampaignID:     created.ID(),
		OrderNumber:    created.OrderNumber(),
		Name:           created.Name(),
		Quantity:       created.Quantity(),
		EstimatedPrice: created.EstimatedPrice(),
		PostalCodes:    created.PostalCodes(),
	}
	if design, ok := created.Design(); ok {
		result.Design = &design
	} else {
		result.HasCustomCard = true
	}
	return result, nil
}

// cardSource stores uploads and builds the card the campaign will be printed from.
func (h *CreateCampaignCommandHandler) cardSource(
	ctx context.Context,
	in CreateCampaignInput,
	validated services.ValidatedCampaign,
) (campaign.CardSource, error) {
	if validated.UseCustomCard {
		ref, err := h.assets.Put(ctx, customCardFolder, in.CustomCard.Name, in.CustomCard.Content)
		if err != nil {
			return nil, fmt.Errorf("store custom card: %w", err)
		}
		return campaign.NewCustomAssetCard(ref, in.CustomCard.Name, validated.ContactEmail, validated.ContactPhone)
	}

	design := validated.Design
	if in.Logo != nil {
		ref, err := h.assets.Put(ctx, logoFolder, in.Logo.Name, in.Logo.Content)
		if err != nil {
			return nil, fmt.Errorf("store logo: %w", err)
		}
		design = design.WithLogo(ref)
	}
	return campaign.NewTemplateCard(design), nil
}

func (h *CreateCampaignCommandHandler) store(
	ctx context.Context,
	client party.Client,
	validated services.ValidatedCampaign,
	card campaign.CardSource,
) (*campaign.Campaign, error) {
	orderNumber, err := h.generator.OrderNumber()
	if err != nil {
		return nil, err
	}
	token, err := h.generator.SecureToken()
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	c, err := campaign.NewCampaign(campaign.NewParams{
		ID:             kernel.NewUUID(),
		OrderNumber:    orderNumber,
		SecureToken:    token,
		Name:           validated.Name,
		ClientID:       client.ID,
		PostalCodes:    validated.PostalCodes,
		EstimatedPrice: validated.EstimatedPrice,
		Faces:          validated.Faces,
		SpecialRequest: validated.SpecialRequest,
		CardSource:     card,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	entry, err := auditlog.NewCampaignEntry(c.ID(), &client.ID, auditlog.ActionCreated,
		fmt.Sprintf("Campagne créée: %s (%d codes postaux)", c.Name(), len(validated.PostalCodes)), now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CampaignRepository().Add(ctx, c); err != nil {
		return nil, err
	}
	if err = uow.AuditLogRepository().Append(ctx, entry); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
