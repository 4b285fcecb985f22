package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// AssignBatchPartnerCommandHandler moves a CREATED batch and its members to ASSIGNED.
// A batch in any other status is rejected with errs.ConflictError.
type AssignBatchPartnerCommandHandler struct {
	uowFactory BatchUoWFactory
	directory  ports.UserDirectory
	notifier   ports.Notifier
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewAssignBatchPartnerCommandHandler(
	uowFactory BatchUoWFactory,
	directory ports.UserDirectory,
	notifier ports.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) AssignBatchPartnerCommandHandler {
	return AssignBatchPartnerCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "assign_batch_partner"),
	}
}

func (h *AssignBatchPartnerCommandHandler) Handle(ctx context.Context, cmd AssignBatchPartnerCommand) (BatchResult, error) {
	const op = "assign batch partner"

	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	partner, err := h.directory.GetPartner(ctx, cmd.PartnerID())
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	b, members, err := h.assign(ctx, cmd, partner)
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "batch assigned",
		"batch_id", b.ID().String(),
		"partner_id", partner.ID.String())

	clients, err := resolveClients(ctx, h.directory, members)
	if err != nil {
		h.logger.WarnContext(ctx, "client lookup failed, client notifications skipped", "error", err)
	}
	notifyClients(ctx, h.notifier, ports.TemplatePartnerAssigned, members, clients, map[string]any{
		"partner_name": partner.CompanyName,
		"batch_number": b.BatchNumber(),
	})

	return BatchResult{
		BatchID:        b.ID(),
		BatchNumber:    b.BatchNumber(),
		PostalCode:     b.PostalCode(),
		Status:         b.Status(),
		TotalQuantity:  b.TotalQuantity(),
		CampaignsCount: len(members),
		Partner:        &PartnerSummary{ID: partner.ID, CompanyName: partner.CompanyName},
	}, nil
}

func (h *AssignBatchPartnerCommandHandler) assign(
	ctx context.Context,
	cmd AssignBatchPartnerCommand,
	partner party.Partner,
) (*batch.Batch, []*campaign.Campaign, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	b, err := batchRepo.Get(ctx, cmd.BatchID())
	if err != nil {
		return nil, nil, err
	}
	if err = b.AssignPartner(partner.ID); err != nil {
		return nil, nil, err
	}
	if err = batchRepo.Update(ctx, b); err != nil {
		return nil, nil, err
	}

	campaignRepo := uow.CampaignRepository()
	found, err := campaignRepo.GetMany(ctx, b.MemberIDs())
	if err != nil {
		return nil, nil, err
	}
	members, err := orderCampaigns(b.MemberIDs(), found)
	if err != nil {
		return nil, nil, err
	}
	members = activeMembers(b.ID(), members)

	now := h.clock.Now()
	actor := cmd.ActorID()
	details := fmt.Sprintf("Partenaire assigné: %s (batch %s)", partner.CompanyName, b.BatchNumber())
	entries := make([]*auditlog.Entry, 0, len(members)+1)
	for _, c := range members {
		if err = c.AssignPartner(partner.ID, now); err != nil {
			return nil, nil, err
		}
		if err = campaignRepo.Update(ctx, c); err != nil {
			return nil, nil, err
		}
		entry, err := auditlog.NewCampaignInBatchEntry(c.ID(), b.ID(), actor, auditlog.ActionPartnerAssigned, details, now)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	batchEntry, err := auditlog.NewBatchEntry(b.ID(), actor, auditlog.ActionPartnerAssigned, details, now)
	if err != nil {
		return nil, nil, err
	}
	entries = append(entries, batchEntry)

	if err = uow.AuditLogRepository().Append(ctx, entries...); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, members, nil
}
