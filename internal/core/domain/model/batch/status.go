package batch

import (
	"fmt"
	"strings"

	"bagpub/internal/pkg/errs"
)

// Status is the lifecycle state of a print batch.
//
//	CREATED -> ASSIGNED -> IN_PRINTING -> PRINTED -> DELIVERED
//
// The combined assign-and-print operation creates batches directly in IN_PRINTING.
type Status int

const (
	StatusUnknown Status = iota
	StatusCreated
	StatusAssigned
	StatusInPrinting
	StatusPrinted
	StatusDelivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		StatusCreated:    "CREATED",
		StatusAssigned:   "ASSIGNED",
		StatusInPrinting: "IN_PRINTING",
		StatusPrinted:    "PRINTED",
		StatusDelivered:  "DELIVERED",
	}
}

// ParseStatus maps a persisted name to a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("batch status", fmt.Errorf("%q is not a batch status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusDelivered {
		return errs.NewValueIsInvalidErrorWithCause("batch status", fmt.Errorf("%d is not a valid batch status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Assign transitions CREATED to ASSIGNED.
func (s Status) Assign() (Status, error) {
	if s != StatusCreated {
		return StatusUnknown, errs.NewConflictError(fmt.Sprintf("batch is %s, partner can only be assigned to a CREATED batch", s))
	}
	return StatusAssigned, nil
}

// SendToPrint transitions ASSIGNED to IN_PRINTING.
func (s Status) SendToPrint() (Status, error) {
	if s != StatusAssigned {
		return StatusUnknown, errs.NewConflictError(fmt.Sprintf("batch is %s, only an ASSIGNED batch can be sent to print", s))
	}
	return StatusInPrinting, nil
}

// MarkPrinted transitions IN_PRINTING to PRINTED.
func (s Status) MarkPrinted() (Status, error) {
	if s != StatusInPrinting {
		return StatusUnknown, errs.NewConflictError(fmt.Sprintf("batch is %s, only an IN_PRINTING batch can be marked printed", s))
	}
	return StatusPrinted, nil
}
