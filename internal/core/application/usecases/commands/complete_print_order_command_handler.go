package commands

import (
	"context"
	"fmt"
	"log/slog"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// CompletePrintOrderCommandHandler closes a print order: the order becomes COMPLETED,
// its batch PRINTED and every member PRINTED / COMPLETED. The batch must be IN_PRINTING.
// One batch-level STATUS_CHANGE entry is written and each member's client receives the
// print-completed notification after commit.
type CompletePrintOrderCommandHandler struct {
	uowFactory BatchUoWFactory
	directory  ports.UserDirectory
	notifier   ports.Notifier
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewCompletePrintOrderCommandHandler(
	uowFactory BatchUoWFactory,
	directory ports.UserDirectory,
	notifier ports.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) CompletePrintOrderCommandHandler {
	return CompletePrintOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "complete_print_order"),
	}
}

func (h *CompletePrintOrderCommandHandler) Handle(ctx context.Context, cmd CompletePrintOrderCommand) (BatchResult, error) {
	const op = "complete print order"

	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	b, members, err := h.complete(ctx, cmd)
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "print order completed",
		"print_order_id", cmd.PrintOrderID().String(),
		"batch_id", b.ID().String())

	clients, err := resolveClients(ctx, h.directory, members)
	if err != nil {
		h.logger.WarnContext(ctx, "client lookup failed, client notifications skipped", "error", err)
	}
	notifyClients(ctx, h.notifier, ports.TemplatePrintCompleted, members, clients, map[string]any{
		"batch_number": b.BatchNumber(),
	})

	return BatchResult{
		BatchID:        b.ID(),
		BatchNumber:    b.BatchNumber(),
		PostalCode:     b.PostalCode(),
		Status:         b.Status(),
		TotalQuantity:  b.TotalQuantity(),
		CampaignsCount: len(members),
	}, nil
}

func (h *CompletePrintOrderCommandHandler) complete(
	ctx context.Context,
	cmd CompletePrintOrderCommand,
) (*batch.Batch, []*campaign.Campaign, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.PrintOrderRepository()
	order, err := orderRepo.Get(ctx, cmd.PrintOrderID())
	if err != nil {
		return nil, nil, err
	}

	batchRepo := uow.BatchRepository()
	b, err := batchRepo.Get(ctx, order.BatchID())
	if err != nil {
		return nil, nil, err
	}

	now := h.clock.Now()
	oldStatus := b.Status()
	if err = b.MarkPrinted(now); err != nil {
		return nil, nil, err
	}
	if err = order.Complete(now); err != nil {
		return nil, nil, err
	}
	if err = orderRepo.Update(ctx, order); err != nil {
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
	for _, c := range members {
		c.MarkPrinted(now)
		if err = campaignRepo.Update(ctx, c); err != nil {
			return nil, nil, err
		}
	}

	entry, err := auditlog.NewBatchEntry(b.ID(), cmd.ActorID(), auditlog.ActionStatusChange,
		fmt.Sprintf("%s → %s (ordre %s terminé)", oldStatus.String(), b.Status().String(), order.OrderNumber()), now)
	if err != nil {
		return nil, nil, err
	}
	if err = uow.AuditLogRepository().Append(ctx, entry); err != nil {
		return nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, members, nil
}
