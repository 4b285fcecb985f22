package auditlog

import (
	"errors"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry skipped its constructors.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewCampaignEntry or NewBatchEntry")

// Entry is one immutable line of the audit trail. It refers to a campaign, a batch,
// or both. A nil actor means the system acted.
type Entry struct {
	id         kernel.UUID
	campaignID *kernel.UUID
	batchID    *kernel.UUID
	actorID    *kernel.UUID
	action     Action
	details    string
	createdAt  time.Time

	isConstructed bool
}

// NewCampaignEntry records an action on a single campaign.
func NewCampaignEntry(campaignID kernel.UUID, actorID *kernel.UUID, action Action, details string, now time.Time) (*Entry, error) {
	if err := campaignID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("campaign", err)
	}
	return newEntry(&campaignID, nil, actorID, action, details, now)
}

// NewBatchEntry records an action on a batch as a whole.
func NewBatchEntry(batchID kernel.UUID, actorID *kernel.UUID, action Action, details string, now time.Time) (*Entry, error) {
	if err := batchID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("batch", err)
	}
	return newEntry(nil, &batchID, actorID, action, details, now)
}

// NewCampaignInBatchEntry records an action on a campaign made through a batch operation.
func NewCampaignInBatchEntry(
	campaignID, batchID kernel.UUID,
	actorID *kernel.UUID,
	action Action,
	details string,
	now time.Time,
) (*Entry, error) {
	if err := errors.Join(campaignID.Validate(), batchID.Validate()); err != nil {
		return nil, err
	}
	return newEntry(&campaignID, &batchID, actorID, action, details, now)
}

// RestoreEntry rebuilds a persisted entry.
func RestoreEntry(
	id kernel.UUID,
	campaignID, batchID, actorID *kernel.UUID,
	action Action,
	details string,
	createdAt time.Time,
) (*Entry, error) {
	if err := errors.Join(id.Validate(), action.Validate()); err != nil {
		return nil, err
	}
	return &Entry{
		id:            id,
		campaignID:    campaignID,
		batchID:       batchID,
		actorID:       actorID,
		action:        action,
		details:       details,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func newEntry(campaignID, batchID, actorID *kernel.UUID, action Action, details string, now time.Time) (*Entry, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return &Entry{
		id:            kernel.NewUUID(),
		campaignID:    campaignID,
		batchID:       batchID,
		actorID:       actorID,
		action:        action,
		details:       details,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID { return e.id }
func (e *Entry) CampaignID() *kernel.UUID { return e.campaignID }
func (e *Entry) BatchID() *kernel.UUID { return e.batchID }
func (e *Entry) ActorID() *kernel.UUID { return e.actorID }
func (e *Entry) Action() Action { return e.action }
func (e *Entry) Details() string { return e.details }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
