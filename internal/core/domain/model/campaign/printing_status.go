package campaign

import (
	"fmt"
	"strings"

	"bagpub/internal/pkg/errs"
)

// PrintingStatus tracks the campaign inside the print shop, independent of Status.
type PrintingStatus int

const (
	PrintingUnknown PrintingStatus = iota
	PrintingNotSent
	PrintingSentToPrint
	PrintingInProgress
	PrintingCompleted
)

func getPrintingStatusStrings() map[PrintingStatus]string {
	return map[PrintingStatus]string{
		PrintingUnknown:     "UNKNOWN",
		PrintingNotSent:     "NOT_SENT",
		PrintingSentToPrint: "SENT_TO_PRINT",
		PrintingInProgress:  "IN_PROGRESS",
		PrintingCompleted:   "COMPLETED",
	}
}

// ParsePrintingStatus maps a persisted name to a PrintingStatus.
func ParsePrintingStatus(s string) (PrintingStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getPrintingStatusStrings() {
		if status != PrintingUnknown && str == name {
			return status, nil
		}
	}
	return PrintingUnknown, errs.NewValueIsInvalidErrorWithCause(
		"printing_status",
		fmt.Errorf("%q is not a printing status", s),
	)
}

func (s PrintingStatus) Validate() error {
	if s <= PrintingUnknown || s > PrintingCompleted {
		return errs.NewValueIsInvalidErrorWithCause("printing_status", fmt.Errorf("%d is not a valid printing status", s))
	}
	return nil
}

func (s PrintingStatus) String() string {
	if str, ok := getPrintingStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
