package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// UpdateCampaignStatusResult reports the transition that was applied.
type UpdateCampaignStatusResult struct {
	CampaignID     kernel.UUID
	OrderNumber    string
	OldStatus      campaign.Status
	NewStatus      campaign.Status
	PrintingStatus campaign.PrintingStatus
}

// UpdateCampaignStatusCommandHandler applies an administrative status change.
//
// Any status may follow any other. The change writes exactly one STATUS_CHANGE entry
// "OLD → NEW", also when both are equal, and notifies the client after commit. Reaching
// PRINTED additionally sends the print-completed notification.
type UpdateCampaignStatusCommandHandler struct {
	uowFactory CampaignUoWFactory
	directory  ports.UserDirectory
	notifier   ports.Notifier
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewUpdateCampaignStatusCommandHandler(
	uowFactory CampaignUoWFactory,
	directory ports.UserDirectory,
	notifier ports.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) UpdateCampaignStatusCommandHandler {
	return UpdateCampaignStatusCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "update_campaign_status"),
	}
}

func (h *UpdateCampaignStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateCampaignStatusCommand,
) (UpdateCampaignStatusResult, error) {
	const op = "update campaign status"

	if err := cmd.Validate(); err != nil {
		return UpdateCampaignStatusResult{}, err
	}

	c, old, err := h.update(ctx, cmd)
	if err != nil {
		return UpdateCampaignStatusResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "campaign status changed",
		"campaign_id", c.ID().String(),
		"from", old.String(),
		"to", c.Status().String())

	client, err := h.directory.GetClient(ctx, c.ClientID())
	if err != nil {
		h.logger.WarnContext(ctx, "client lookup failed, notification skipped", "error", err)
	} else {
		clients := map[kernel.UUID]party.Client{client.ID: client}
		members := []*campaign.Campaign{c}
		notifyClients(ctx, h.notifier, ports.TemplateStatusChanged, members, clients, map[string]any{
			"old_status": old.String(),
			"new_status": c.Status().String(),
		})
		if c.Status() == campaign.StatusPrinted {
			notifyClients(ctx, h.notifier, ports.TemplatePrintCompleted, members, clients, nil)
		}
	}

	return UpdateCampaignStatusResult{
		CampaignID:     c.ID(),
		OrderNumber:    c.OrderNumber(),
		OldStatus:      old,
		NewStatus:      c.Status(),
		PrintingStatus: c.PrintingStatus(),
	}, nil
}

func (h *UpdateCampaignStatusCommandHandler) update(
	ctx context.Context,
	cmd UpdateCampaignStatusCommand,
) (*campaign.Campaign, campaign.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, campaign.StatusUnknown, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.CampaignRepository()
	c, err := repo.Get(ctx, cmd.CampaignID())
	if err != nil {
		return nil, campaign.StatusUnknown, err
	}

	now := h.clock.Now()
	old, err := c.ChangeStatus(cmd.Status(), now)
	if err != nil {
		return nil, campaign.StatusUnknown, err
	}
	if err = repo.Update(ctx, c); err != nil {
		return nil, campaign.StatusUnknown, err
	}

	entry, err := auditlog.NewCampaignEntry(c.ID(), cmd.ActorID(), auditlog.ActionStatusChange,
		fmt.Sprintf("%s → %s", old.String(), c.Status().String()), now)
	if err != nil {
		return nil, campaign.StatusUnknown, err
	}
	if err = uow.AuditLogRepository().Append(ctx, entry); err != nil {
		return nil, campaign.StatusUnknown, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, campaign.StatusUnknown, err
	}
	return c, old, nil
}
