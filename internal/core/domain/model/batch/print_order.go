package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
)

// PrintOrderStatus tracks a batch inside the print shop.
type PrintOrderStatus int

const (
	PrintOrderUnknown PrintOrderStatus = iota
	PrintOrderPending
	PrintOrderInProgress
	PrintOrderCompleted
	PrintOrderShipped
)

func getPrintOrderStatusStrings() map[PrintOrderStatus]string {
	return map[PrintOrderStatus]string{
		PrintOrderUnknown:    "UNKNOWN",
		PrintOrderPending:    "PENDING",
		PrintOrderInProgress: "IN_PROGRESS",
		PrintOrderCompleted:  "COMPLETED",
		PrintOrderShipped:    "SHIPPED",
	}
}

// ParsePrintOrderStatus maps a persisted name to a PrintOrderStatus.
func ParsePrintOrderStatus(s string) (PrintOrderStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getPrintOrderStatusStrings() {
		if status != PrintOrderUnknown && str == name {
			return status, nil
		}
	}
	return PrintOrderUnknown, errs.NewValueIsInvalidErrorWithCause(
		"print order status",
		fmt.Errorf("%q is not a print order status", s),
	)
}

func (s PrintOrderStatus) Validate() error {
	if s <= PrintOrderUnknown || s > PrintOrderShipped {
		return errs.NewValueIsInvalidErrorWithCause("print order status", fmt.Errorf("%d is not valid", s))
	}
	return nil
}

func (s PrintOrderStatus) String() string {
	if str, ok := getPrintOrderStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ErrPrintOrderIsNotConstructed is returned when a PrintOrder skipped NewPrintOrder.
var ErrPrintOrderIsNotConstructed = errors.New("PrintOrder must be created via NewPrintOrder constructor")

// PrintOrder is the print shop's record for one batch. A batch has at most one.
type PrintOrder struct {
	id          kernel.UUID
	batchID     kernel.UUID
	orderNumber string
	status      PrintOrderStatus
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
	shippedAt   *time.Time

	isConstructed bool
}

// NewPrintOrder creates a PENDING print order for batchID.
func NewPrintOrder(id, batchID kernel.UUID, orderNumber string, now time.Time) (*PrintOrder, error) {
	if err := errors.Join(
		id.Validate(),
		batchID.Validate(),
		requireOrderNumber(orderNumber),
	); err != nil {
		return nil, err
	}
	return &PrintOrder{
		id:            id,
		batchID:       batchID,
		orderNumber:   orderNumber,
		status:        PrintOrderPending,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestorePrintOrderParams is the persisted state of a print order.
type RestorePrintOrderParams struct {
	ID          kernel.UUID
	BatchID     kernel.UUID
	OrderNumber string
	Status      PrintOrderStatus
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	ShippedAt   *time.Time
}

// RestorePrintOrder rebuilds a print order loaded from storage.
func RestorePrintOrder(p RestorePrintOrderParams) (*PrintOrder, error) {
	o, err := NewPrintOrder(p.ID, p.BatchID, p.OrderNumber, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = p.Status.Validate(); err != nil {
		return nil, err
	}
	o.status = p.Status
	o.startedAt = p.StartedAt
	o.completedAt = p.CompletedAt
	o.shippedAt = p.ShippedAt
	return o, nil
}

func (o *PrintOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrPrintOrderIsNotConstructed
	}
	return nil
}

func (o *PrintOrder) ID() kernel.UUID { return o.id }
func (o *PrintOrder) BatchID() kernel.UUID { return o.batchID }
func (o *PrintOrder) OrderNumber() string { return o.orderNumber }
func (o *PrintOrder) Status() PrintOrderStatus { return o.status }
func (o *PrintOrder) CreatedAt() time.Time { return o.createdAt }
func (o *PrintOrder) StartedAt() *time.Time { return o.startedAt }
func (o *PrintOrder) CompletedAt() *time.Time { return o.completedAt }
func (o *PrintOrder) ShippedAt() *time.Time { return o.shippedAt }

// Complete marks the order COMPLETED. Completed and shipped orders cannot complete again.
func (o *PrintOrder) Complete(now time.Time) error {
	if o.status == PrintOrderCompleted || o.status == PrintOrderShipped {
		return errs.NewConflictError(fmt.Sprintf("print order %s is already %s", o.orderNumber, o.status))
	}
	if o.startedAt == nil {
		o.startedAt = &now
	}
	o.status = PrintOrderCompleted
	o.completedAt = &now
	return nil
}

func requireOrderNumber(n string) error {
	if strings.TrimSpace(n) == "" {
		return errs.NewValueIsRequiredError("print order number")
	}
	return nil
}
