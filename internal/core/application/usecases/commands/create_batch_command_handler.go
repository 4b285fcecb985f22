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
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

// CreateBatchCommandHandler stores a CREATED batch and makes it the active batch of
// every member. Only CREATED campaigns can join. The batch gets a BATCH_CREATED entry and each member an ADDED_TO_BATCH
// entry. Partner assignment and printing follow through AssignBatchPartner and
// SendBatchToPrint.
type CreateBatchCommandHandler struct {
	uowFactory BatchUoWFactory
	generator  services.IdentifierGenerator
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewCreateBatchCommandHandler(
	uowFactory BatchUoWFactory,
	generator services.IdentifierGenerator,
	clock clockwork.Clock,
	logger *slog.Logger,
) CreateBatchCommandHandler {
	return CreateBatchCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		clock:      clock,
		logger:     logger.With("component", "create_batch"),
	}
}

func (h *CreateBatchCommandHandler) Handle(ctx context.Context, cmd CreateBatchCommand) (BatchResult, error) {
	const op = "create batch"

	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	err := withIdentifierRetry(ctx, "batch_number", func(ctx context.Context) error {
		r, err := h.create(ctx, cmd)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return BatchResult{}, classify(ctx, h.logger, op, err)
	}

	h.logger.InfoContext(ctx, "batch created",
		"batch_id", result.BatchID.String(),
		"batch_number", result.BatchNumber,
		"campaigns", result.CampaignsCount)
	return result, nil
}

func (h *CreateBatchCommandHandler) create(ctx context.Context, cmd CreateBatchCommand) (BatchResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return BatchResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	campaignRepo := uow.CampaignRepository()
	ids := cmd.CampaignIDs()
	found, err := campaignRepo.GetMany(ctx, ids)
	if err != nil {
		return BatchResult{}, err
	}
	members, err := orderCampaigns(ids, found)
	if err != nil {
		return BatchResult{}, err
	}
	for _, c := range members {
		if c.Status() != campaign.StatusCreated {
			return BatchResult{}, errs.NewConflictError(fmt.Sprintf(
				"campaign %s is %s, only CREATED campaigns can be batched", c.OrderNumber(), c.Status().String()))
		}
	}

	var postalCode kernel.PostalCode
	if cmd.PostalCode() != nil {
		postalCode = *cmd.PostalCode()
	} else {
		postalCode = members[0].PostalCodes()[0]
	}

	number, err := h.generator.BatchNumber(postalCode)
	if err != nil {
		return BatchResult{}, err
	}

	now := h.clock.Now()
	b, err := batch.NewBatch(kernel.NewUUID(), number, postalCode, ids, now)
	if err != nil {
		return BatchResult{}, err
	}
	if err = uow.BatchRepository().Add(ctx, b); err != nil {
		return BatchResult{}, err
	}

	actor := cmd.ActorID()
	entries := make([]*auditlog.Entry, 0, len(members)+1)
	batchEntry, err := auditlog.NewBatchEntry(b.ID(), actor, auditlog.ActionBatchCreated,
		fmt.Sprintf("Batch %s créé avec %d campagne(s) pour %s", b.BatchNumber(), len(members), postalCode.String()), now)
	if err != nil {
		return BatchResult{}, err
	}
	entries = append(entries, batchEntry)

	for _, c := range members {
		previous, err := c.JoinBatch(b.ID(), now)
		if err != nil {
			return BatchResult{}, err
		}
		if err = campaignRepo.Update(ctx, c); err != nil {
			return BatchResult{}, err
		}
		details := fmt.Sprintf("Ajoutée au batch %s", b.BatchNumber())
		if previous != nil {
			details += fmt.Sprintf(", retirée du batch %s", previous.String())
		}
		entry, err := auditlog.NewCampaignInBatchEntry(c.ID(), b.ID(), actor, auditlog.ActionAddedToBatch, details, now)
		if err != nil {
			return BatchResult{}, err
		}
		entries = append(entries, entry)
	}

	if err = uow.AuditLogRepository().Append(ctx, entries...); err != nil {
		return BatchResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return BatchResult{}, err
	}

	return BatchResult{
		BatchID:        b.ID(),
		BatchNumber:    b.BatchNumber(),
		PostalCode:     b.PostalCode(),
		Status:         b.Status(),
		TotalQuantity:  b.TotalQuantity(),
		CampaignsCount: len(members),
	}, nil
}
