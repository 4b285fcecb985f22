package batch

import (
	"errors"
	"strings"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
)

// Quantity is the size of a physical production lot. A batch always prints this many
// cards whatever the number of member campaigns.
const Quantity = 1000

// ErrBatchIsNotConstructed is returned when a Batch skipped its constructors.
var ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch or NewPrintingBatch constructor")

// Batch is a physical production lot combining one or more campaigns that share a
// postal code. It owns the member list; campaigns point back through their active batch.
type Batch struct {
	id          kernel.UUID
	batchNumber string
	postalCode  kernel.PostalCode
	partnerID   *kernel.UUID
	status      Status
	memberIDs   []kernel.UUID
	createdAt   time.Time
	printedAt   *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewBatch creates a CREATED batch without partner, the first step of the two-step path.
func NewBatch(
	id kernel.UUID,
	batchNumber string,
	postalCode kernel.PostalCode,
	memberIDs []kernel.UUID,
	now time.Time,
) (*Batch, error) {
	b := &Batch{
		status:        StatusCreated,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setBatchNumber(batchNumber),
		b.setPostalCode(postalCode),
		b.setMembers(memberIDs),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// NewPrintingBatch creates a batch that is assigned to partnerID and already IN_PRINTING.
func NewPrintingBatch(
	id kernel.UUID,
	batchNumber string,
	postalCode kernel.PostalCode,
	partnerID kernel.UUID,
	memberIDs []kernel.UUID,
	now time.Time,
) (*Batch, error) {
	b, err := NewBatch(id, batchNumber, postalCode, memberIDs, now)
	if err != nil {
		return nil, err
	}
	if err = partnerID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("partner", err)
	}
	b.partnerID = &partnerID
	b.status = StatusInPrinting
	return b, nil
}

// RestoreParams is the persisted state of a batch.
type RestoreParams struct {
	ID          kernel.UUID
	BatchNumber string
	PostalCode  kernel.PostalCode
	PartnerID   *kernel.UUID
	Status      Status
	MemberIDs   []kernel.UUID
	CreatedAt   time.Time
	PrintedAt   *time.Time
	DeliveredAt *time.Time
}

// RestoreBatch rebuilds a batch loaded from storage.
func RestoreBatch(p RestoreParams) (*Batch, error) {
	b, err := NewBatch(p.ID, p.BatchNumber, p.PostalCode, p.MemberIDs, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = p.Status.Validate(); err != nil {
		return nil, err
	}
	b.partnerID = p.PartnerID
	b.status = p.Status
	b.printedAt = p.PrintedAt
	b.deliveredAt = p.DeliveredAt
	return b, nil
}

func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

func (b *Batch) ID() kernel.UUID { return b.id }
func (b *Batch) BatchNumber() string { return b.batchNumber }
func (b *Batch) PostalCode() kernel.PostalCode { return b.postalCode }
func (b *Batch) PartnerID() *kernel.UUID { return b.partnerID }
func (b *Batch) Status() Status { return b.status }
func (b *Batch) CreatedAt() time.Time { return b.createdAt }
func (b *Batch) PrintedAt() *time.Time { return b.printedAt }
func (b *Batch) DeliveredAt() *time.Time { return b.deliveredAt }

// MemberIDs returns a copy of the member campaign ids in insertion order.
func (b *Batch) MemberIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(b.memberIDs))
	copy(ids, b.memberIDs)
	return ids
}

// TotalQuantity is always Quantity, independent of the member count.
func (b *Batch) TotalQuantity() int {
	return Quantity
}

// AssignPartner requires CREATED and moves the batch to ASSIGNED.
func (b *Batch) AssignPartner(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partner", err)
	}
	next, err := b.status.Assign()
	if err != nil {
		return err
	}
	b.partnerID = &partnerID
	b.status = next
	return nil
}

// SendToPrint requires ASSIGNED and moves the batch to IN_PRINTING.
func (b *Batch) SendToPrint() error {
	next, err := b.status.SendToPrint()
	if err != nil {
		return err
	}
	b.status = next
	return nil
}

// MarkPrinted requires IN_PRINTING, moves the batch to PRINTED and stamps printed_at.
func (b *Batch) MarkPrinted(now time.Time) error {
	next, err := b.status.MarkPrinted()
	if err != nil {
		return err
	}
	b.status = next
	b.printedAt = &now
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setBatchNumber(n string) error {
	if strings.TrimSpace(n) == "" {
		return errs.NewValueIsRequiredError("batch_number")
	}
	b.batchNumber = n
	return nil
}

func (b *Batch) setPostalCode(p kernel.PostalCode) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b.postalCode = p
	return nil
}

// setMembers keeps the first occurrence of every id.
func (b *Batch) setMembers(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("campaign_ids")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	members := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("campaign_ids", err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	b.memberIDs = members
	return nil
}
