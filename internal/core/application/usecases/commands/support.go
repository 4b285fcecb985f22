package commands

import (
	"context"
	"errors"
	"log/slog"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
)

// maxIdentifierAttempts bounds how often a unit of work is replayed after a
// generated identifier clashed with a stored one.
const maxIdentifierAttempts = 5

// withIdentifierRetry runs attempt until it stops failing with errs.ErrIdentifierCollision.
// Each attempt must open its own unit of work, since Postgres aborts the transaction
// that hit the unique violation.
func withIdentifierRetry(ctx context.Context, target string, attempt func(ctx context.Context) error) error {
	var lastErr error
	for range maxIdentifierAttempts {
		err := attempt(ctx)
		if !errors.Is(err, errs.ErrIdentifierCollision) {
			return err
		}
		lastErr = err
	}
	return errs.NewGenerationError(target, maxIdentifierAttempts, lastErr)
}

// classify passes taxonomy errors through and turns anything else into an
// errs.InternalError after logging the detail.
func classify(ctx context.Context, logger *slog.Logger, operation string, err error) error {
	if err == nil || errs.IsClassified(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.ErrorContext(ctx, "operation failed", "operation", operation, "error", err)
	return errs.NewInternalError(operation, err)
}

// dedupeIDs keeps the first occurrence of every id.
func dedupeIDs(ids []kernel.UUID) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(ids))
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// orderCampaigns returns found campaigns in the order of ids, or an
// errs.ObjectsNotFoundError naming every id that did not resolve.
func orderCampaigns(ids []kernel.UUID, found []*campaign.Campaign) ([]*campaign.Campaign, error) {
	byID := make(map[kernel.UUID]*campaign.Campaign, len(found))
	for _, c := range found {
		byID[c.ID()] = c
	}
	ordered := make([]*campaign.Campaign, 0, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		ordered = append(ordered, c)
	}
	if len(missing) > 0 {
		return nil, errs.NewObjectsNotFoundError("campaign_ids", missing)
	}
	return ordered, nil
}

// activeMembers drops campaigns whose active batch is no longer batchID.
func activeMembers(batchID kernel.UUID, campaigns []*campaign.Campaign) []*campaign.Campaign {
	active := make([]*campaign.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.IsActiveIn(batchID) {
			active = append(active, c)
		}
	}
	return active
}

func clientIDs(campaigns []*campaign.Campaign) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ClientID())
	}
	return dedupeIDs(ids)
}

func validateIDs(param string, ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError(param)
	}
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(param, err)
		}
	}
	return nil
}
