package campaign

import (
	"fmt"
	"strings"

	"bagpub/internal/pkg/errs"
)

// Status is the lifecycle state of a campaign.
//
//	CREATED -> ASSIGNED -> IN_PRINTING -> PRINTED -> IN_DISTRIBUTION -> DELIVERED -> FINISHED
//
// The happy path above is what batch operations drive. Administrators may set any
// status directly through ChangeStatus; no adjacency check is applied.
type Status int

const (
	// StatusUnknown catches uninitialized values.
	StatusUnknown Status = iota
	StatusCreated
	StatusAssigned
	StatusInPrinting
	StatusPrinted
	StatusInDistribution
	StatusDelivered
	StatusFinished
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "UNKNOWN",
		StatusCreated:        "CREATED",
		StatusAssigned:       "ASSIGNED",
		StatusInPrinting:     "IN_PRINTING",
		StatusPrinted:        "PRINTED",
		StatusInDistribution: "IN_DISTRIBUTION",
		StatusDelivered:      "DELIVERED",
		StatusFinished:       "FINISHED",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusCreated,
		StatusAssigned,
		StatusInPrinting,
		StatusPrinted,
		StatusInDistribution,
		StatusDelivered,
		StatusFinished,
	}
}

// ParseStatus maps a persisted or requested name (case-insensitive) to a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a campaign status", s),
	)
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusFinished {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid campaign status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// derivedPrintingStatus returns the printing status forced by entering s, if any.
func (s Status) derivedPrintingStatus() (PrintingStatus, bool) {
	switch s { //nolint:exhaustive // only two statuses drive the printing status
	case StatusInPrinting:
		return PrintingSentToPrint, true
	case StatusPrinted:
		return PrintingCompleted, true
	default:
		return PrintingUnknown, false
	}
}
