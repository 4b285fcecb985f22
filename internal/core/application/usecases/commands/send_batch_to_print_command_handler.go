package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/services"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// SendBatchToPrintResult adds the print order to the batch summary.
type SendBatchToPrintResult struct {
	BatchResult
	PrintOrderID     kernel.UUID
	PrintOrderNumber string
}

// SendBatchToPrintCommandHandler moves an ASSIGNED batch to IN_PRINTING, opens its print
// order and moves every member to IN_PRINTING / SENT_TO_PRINT.
//
// The print order is get-or-create on the batch, so a batch never holds two orders even
// when two requests race; the loser fails on the batch status or the campaign versions.
type SendBatchToPrintCommandHandler struct {
	uowFactory BatchUoWFactory
	directory  ports.UserDirectory
	notifier   ports.Notifier
	generator  services.IdentifierGenerator
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewSendBatchToPrintCommandHandler(
	uowFactory BatchUoWFactory,
	directory ports.UserDirectory,
	notifier ports.Notifier,
	generator services.IdentifierGenerator,
	clock clockwork.Clock,
	logger *slog.Logger,
) SendBatchToPrintCommandHandler {
	return SendBatchToPrintCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		generator:  generator,
		clock:      clock,
		logger:     logger.With("component", "send_batch_to_print"),
	}
}

func (h *SendBatchToPrintCommandHandler) Handle(ctx context.Context, cmd SendBatchToPrintCommand) (SendBatchToPrintResult, error) {
	const op = "send batch to print"

	if err := cmd.Validate(); err != nil {
		return SendBatchToPrintResult{}, err
	}

	var (
		b       *batch.Batch
		order   *batch.PrintOrder
		members []*campaign.Campaign
	)
	err := withIdentifierRetry(ctx, "print_order_number", func(ctx context.Context) error {
		sent, o, m, err := h.send(ctx, cmd)
		if err != nil {
			return err
		}
		b, order, members = sent, o, m
		return nil
	})
	if err != nil {
		return SendBatchToPrintResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "batch sent to print",
		"batch_id", b.ID().String(),
		"print_order_number", order.OrderNumber())

	clients, err := resolveClients(ctx, h.directory, members)
	if err != nil {
		h.logger.WarnContext(ctx, "client lookup failed, client notifications skipped", "error", err)
	}
	notifyClients(ctx, h.notifier, ports.TemplateSentToPrint, members, clients, map[string]any{
		"batch_number": b.BatchNumber(),
	})

	result := SendBatchToPrintResult{
		BatchResult: BatchResult{
			BatchID:        b.ID(),
			BatchNumber:    b.BatchNumber(),
			PostalCode:     b.PostalCode(),
			Status:         b.Status(),
			TotalQuantity:  b.TotalQuantity(),
			CampaignsCount: len(members),
		},
		PrintOrderID:     order.ID(),
		PrintOrderNumber: order.OrderNumber(),
	}

	if b.PartnerID() == nil {
		return result, nil
	}
	partner, err := h.directory.GetPartner(ctx, *b.PartnerID())
	if err != nil {
		h.logger.WarnContext(ctx, "partner lookup failed, print order notification skipped", "error", err)
		return result, nil
	}
	result.Partner = &PartnerSummary{ID: partner.ID, CompanyName: partner.CompanyName}
	notifyPartner(ctx, h.notifier, partner, b, order.OrderNumber(), members, clients)
	return result, nil
}

func (h *SendBatchToPrintCommandHandler) send(
	ctx context.Context,
	cmd SendBatchToPrintCommand,
) (*batch.Batch, *batch.PrintOrder, []*campaign.Campaign, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	b, err := batchRepo.Get(ctx, cmd.BatchID())
	if err != nil {
		return nil, nil, nil, err
	}
	if err = b.SendToPrint(); err != nil {
		return nil, nil, nil, err
	}

	now := h.clock.Now()
	number, err := h.generator.PrintOrderNumber()
	if err != nil {
		return nil, nil, nil, err
	}
	candidate, err := batch.NewPrintOrder(kernel.NewUUID(), b.ID(), number, now)
	if err != nil {
		return nil, nil, nil, err
	}
	order, _, err := uow.PrintOrderRepository().GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = batchRepo.Update(ctx, b); err != nil {
		return nil, nil, nil, err
	}

	campaignRepo := uow.CampaignRepository()
	found, err := campaignRepo.GetMany(ctx, b.MemberIDs())
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := orderCampaigns(b.MemberIDs(), found)
	if err != nil {
		return nil, nil, nil, err
	}
	members = activeMembers(b.ID(), members)

	actor := cmd.ActorID()
	details := fmt.Sprintf("Envoyé à l'impression (batch %s, ordre %s)", b.BatchNumber(), order.OrderNumber())
	entries := make([]*auditlog.Entry, 0, len(members)+1)
	for _, c := range members {
		c.SendToPrint(now)
		if err = campaignRepo.Update(ctx, c); err != nil {
			return nil, nil, nil, err
		}
		entry, err := auditlog.NewCampaignInBatchEntry(c.ID(), b.ID(), actor, auditlog.ActionSentToPrint, details, now)
		if err != nil {
			return nil, nil, nil, err
		}
		entries = append(entries, entry)
	}
	batchEntry, err := auditlog.NewBatchEntry(b.ID(), actor, auditlog.ActionSentToPrint, details, now)
	if err != nil {
		return nil, nil, nil, err
	}
	entries = append(entries, batchEntry)

	if err = uow.AuditLogRepository().Append(ctx, entries...); err != nil {
		return nil, nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, nil, err
	}
	return b, order, members, nil
}
