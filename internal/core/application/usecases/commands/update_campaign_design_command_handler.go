package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// UpdateCampaignDesignCommandHandler replaces the design of a template campaign and
// recomputes its QR payload. Custom-card campaigns are rejected with errs.ConflictError.
// An empty logo reference keeps the current logo.
type UpdateCampaignDesignCommandHandler struct {
	uowFactory CampaignUoWFactory
	directory  ports.UserDirectory
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewUpdateCampaignDesignCommandHandler(
	uowFactory CampaignUoWFactory,
	directory ports.UserDirectory,
	clock clockwork.Clock,
	logger *slog.Logger,
) UpdateCampaignDesignCommandHandler {
	return UpdateCampaignDesignCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		clock:      clock,
		logger:     logger.With("component", "update_campaign_design"),
	}
}

func (h *UpdateCampaignDesignCommandHandler) Handle(ctx context.Context, cmd UpdateCampaignDesignCommand) (campaign.Design, error) {
	const op = "update campaign design"

	if err := cmd.Validate(); err != nil {
		return campaign.Design{}, err
	}

	design, err := h.update(ctx, cmd)
	if err != nil {
		return campaign.Design{}, classify(ctx, h.logger, op, err)
	}
	h.logger.InfoContext(ctx, "campaign design updated", "campaign_id", cmd.CampaignID().String())
	return design, nil
}

func (h *UpdateCampaignDesignCommandHandler) update(ctx context.Context, cmd UpdateCampaignDesignCommand) (campaign.Design, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return campaign.Design{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.CampaignRepository()
	c, err := repo.Get(ctx, cmd.CampaignID())
	if err != nil {
		return campaign.Design{}, err
	}
	current, ok := c.Design()
	if !ok {
		return campaign.Design{}, c.UpdateDesign(campaign.Design{}, h.clock.Now())
	}

	client, err := h.directory.GetClient(ctx, c.ClientID())
	if err != nil {
		return campaign.Design{}, err
	}

	params := cmd.Design()
	if strings.TrimSpace(params.LogoRef) == "" {
		params.LogoRef = current.LogoRef()
	}
	design := services.BuildDesign(&params, client)

	now := h.clock.Now()
	if err = c.UpdateDesign(design, now); err != nil {
		return campaign.Design{}, err
	}
	if err = repo.Update(ctx, c); err != nil {
		return campaign.Design{}, err
	}

	entry, err := auditlog.NewCampaignEntry(c.ID(), cmd.ActorID(), auditlog.ActionDesignUpdated,
		fmt.Sprintf("Design mis à jour: %s, couleur %s", design.Template(), design.AccentColor()), now)
	if err != nil {
		return campaign.Design{}, err
	}
	if err = uow.AuditLogRepository().Append(ctx, entry); err != nil {
		return campaign.Design{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return campaign.Design{}, err
	}
	return design, nil
}
