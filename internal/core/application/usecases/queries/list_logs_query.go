package queries

import (
	"errors"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

var (
	ErrListCampaignLogsQueryIsNotConstructed = errors.New(
		"ListCampaignLogsQuery must be created via NewListCampaignLogsQuery constructor",
	)
	ErrListBatchLogsQueryIsNotConstructed = errors.New(
		"ListBatchLogsQuery must be created via NewListBatchLogsQuery constructor",
	)
)

// DefaultLogLimit caps a log listing when the caller asks for no limit.
const DefaultLogLimit = 200

// ListCampaignLogsQuery lists the audit history of one campaign, newest first.
type ListCampaignLogsQuery struct {
	campaignID kernel.UUID
	limit      int
	guard      guard.ConstructorGuard
}

// NewListCampaignLogsQuery uses DefaultLogLimit for a non-positive limit.
func NewListCampaignLogsQuery(campaignID kernel.UUID, limit int) (ListCampaignLogsQuery, error) {
	if err := campaignID.Validate(); err != nil {
		return ListCampaignLogsQuery{}, errs.NewValueIsRequiredErrorWithCause("campaign_id", err)
	}
	return ListCampaignLogsQuery{
		campaignID: campaignID,
		limit:      normalizeLimit(limit),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListCampaignLogsQuery) Validate() error {
	return q.guard.Validate(ErrListCampaignLogsQueryIsNotConstructed)
}

func (q ListCampaignLogsQuery) CampaignID() kernel.UUID { return q.campaignID }
func (q ListCampaignLogsQuery) Limit() int { return q.limit }

// ListBatchLogsQuery lists every entry recorded against a batch, including the
// per-campaign entries written by batch operations.
type ListBatchLogsQuery struct {
	batchID kernel.UUID
	limit   int
	guard   guard.ConstructorGuard
}

func NewListBatchLogsQuery(batchID kernel.UUID, limit int) (ListBatchLogsQuery, error) {
	if err := batchID.Validate(); err != nil {
		return ListBatchLogsQuery{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	return ListBatchLogsQuery{
		batchID: batchID,
		limit:   normalizeLimit(limit),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q ListBatchLogsQuery) Validate() error {
	return q.guard.Validate(ErrListBatchLogsQueryIsNotConstructed)
}

func (q ListBatchLogsQuery) BatchID() kernel.UUID { return q.batchID }
func (q ListBatchLogsQuery) Limit() int { return q.limit }

// LogEntryResponse is one audit entry as shown to operators.
type LogEntryResponse struct {
	ID          kernel.UUID
	CampaignID  *kernel.UUID
	OrderNumber string
	BatchID     *kernel.UUID
	BatchNumber string
	ActorID     *kernel.UUID
	Action      string
	Details     string
	CreatedAt   time.Time
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultLogLimit {
		return DefaultLogLimit
	}
	return limit
}
