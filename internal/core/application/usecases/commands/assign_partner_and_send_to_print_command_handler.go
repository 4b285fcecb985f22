package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// PartnerSummary identifies the partner a batch went to.
type PartnerSummary struct {
	ID          kernel.UUID
	CompanyName string
}

// BatchResult describes a batch produced or advanced by a batch command.
type BatchResult struct {
	BatchID        kernel.UUID
	BatchNumber    string
	PostalCode     kernel.PostalCode
	Status         batch.Status
	TotalQuantity  int
	CampaignsCount int
	Partner        *PartnerSummary
}

// AssignPartnerAndSendToPrintCommandHandler creates an IN_PRINTING batch for the given
// campaigns in one transaction.
//
// The batch takes the first postal code of the first campaign. Every member is
// assigned to the partner and moved to IN_PRINTING / SENT_TO_PRINT; members that were
// active in another batch are re-pointed to the new one. Each member gets a
// PARTNER_ASSIGNED and a SENT_TO_PRINT entry and the batch gets one BATCH_CREATED
// entry. After commit every member's client is notified and the partner receives one
// consolidated message with the print material of every member.
type AssignPartnerAndSendToPrintCommandHandler struct {
	uowFactory BatchUoWFactory
	directory  ports.UserDirectory
	notifier   ports.Notifier
	generator  services.IdentifierGenerator
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewAssignPartnerAndSendToPrintCommandHandler(
	uowFactory BatchUoWFactory,
	directory ports.UserDirectory,
	notifier ports.Notifier,
	generator services.IdentifierGenerator,
	clock clockwork.Clock,
	logger *slog.Logger,
) AssignPartnerAndSendToPrintCommandHandler {
	return AssignPartnerAndSendToPrintCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		generator:  generator,
		clock:      clock,
		logger:     logger.With("component", "assign_partner_and_send_to_print"),
	}
}

func (h *AssignPartnerAndSendToPrintCommandHandler) Handle(
	ctx context.Context,
	cmd AssignPartnerAndSendToPrintCommand,
) (BatchResult, error) {
	const op = "assign partner and send to print"

	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	partner, err := h.directory.GetPartner(ctx, cmd.PartnerID())
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	var (
		created *batch.Batch
		members []*campaign.Campaign
	)
	err = withIdentifierRetry(ctx, "batch_number", func(ctx context.Context) error {
		b, m, err := h.assign(ctx, cmd, partner)
		if err != nil {
			return err
		}
		created, members = b, m
		return nil
	})
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "batch sent to print",
		"batch_id", created.ID().String(),
		"batch_number", created.BatchNumber(),
		"partner_id", partner.ID.String(),
		"campaigns", len(members))

	clients, err := resolveClients(ctx, h.directory, members)
	if err != nil {
		h.logger.WarnContext(ctx, "client lookup failed, client notifications skipped", "error", err)
	}
	notifyClients(ctx, h.notifier, ports.TemplatePartnerAssigned, members, clients, map[string]any{
		"partner_name": partner.CompanyName,
		"batch_number": created.BatchNumber(),
	})
	notifyPartner(ctx, h.notifier, partner, created, "", members, clients)

	return BatchResult{
		BatchID:        created.ID(),
		BatchNumber:    created.BatchNumber(),
		PostalCode:     created.PostalCode(),
		Status:         created.Status(),
		TotalQuantity:  created.TotalQuantity(),
		CampaignsCount: len(members),
		Partner:        &PartnerSummary{ID: partner.ID, CompanyName: partner.CompanyName},
	}, nil
}

func (h *AssignPartnerAndSendToPrintCommandHandler) assign(
	ctx context.Context,
	cmd AssignPartnerAndSendToPrintCommand,
	partner party.Partner,
) (*batch.Batch, []*campaign.Campaign, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	campaignRepo := uow.CampaignRepository()
	ids := cmd.CampaignIDs()
	found, err := campaignRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	members, err := orderCampaigns(ids, found)
	if err != nil {
		return nil, nil, err
	}

	postalCode := members[0].PostalCodes()[0]
	number, err := h.generator.BatchNumber(postalCode)
	if err != nil {
		return nil, nil, err
	}

	now := h.clock.Now()
	b, err := batch.NewPrintingBatch(kernel.NewUUID(), number, postalCode, partner.ID, ids, now)
	if err != nil {
		return nil, nil, err
	}
	if err = uow.BatchRepository().Add(ctx, b); err != nil {
		return nil, nil, err
	}

	actor := cmd.ActorID()
	entries := make([]*auditlog.Entry, 0, 2*len(members)+1)
	for _, c := range members {
		previous, err := c.JoinBatch(b.ID(), now)
		if err != nil {
			return nil, nil, err
		}
		if err = c.AssignAndSendToPrint(partner.ID, now); err != nil {
			return nil, nil, err
		}
		if err = campaignRepo.Update(ctx, c); err != nil {
			return nil, nil, err
		}

		assigned, err := auditlog.NewCampaignInBatchEntry(c.ID(), b.ID(), actor, auditlog.ActionPartnerAssigned,
			fmt.Sprintf("Partenaire assigné: %s", partner.CompanyName), now)
		if err != nil {
			return nil, nil, err
		}
		details := fmt.Sprintf("Envoyé à l'impression (batch %s)", b.BatchNumber())
		if previous != nil {
			details += fmt.Sprintf(", retiré du batch %s", previous.String())
		}
		sent, err := auditlog.NewCampaignInBatchEntry(c.ID(), b.ID(), actor, auditlog.ActionSentToPrint, details, now)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, assigned, sent)
	}

	batchEntry, err := auditlog.NewBatchEntry(b.ID(), actor, auditlog.ActionBatchCreated,
		fmt.Sprintf("Batch %s créé avec %d campagne(s) pour %s, partenaire %s",
			b.BatchNumber(), len(members), postalCode.String(), partner.CompanyName), now)
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
