package auditlog

import (
	"fmt"
	"strings"

	"bagpub/internal/pkg/errs"
)

// Action is the closed vocabulary of audit entries.
type Action string

const (
	ActionCreated         Action = "CREATED"
	ActionStatusChange    Action = "STATUS_CHANGE"
	ActionPartnerAssigned Action = "PARTNER_ASSIGNED"
	ActionAddedToBatch    Action = "ADDED_TO_BATCH"
	ActionBatchCreated    Action = "BATCH_CREATED"
	ActionSentToPrint     Action = "SENT_TO_PRINT"
	ActionDesignUpdated   Action = "DESIGN_UPDATED"
	ActionProofUploaded   Action = "PROOF_UPLOADED"
	ActionComment         Action = "COMMENT"
)

func actions() []Action {
	return []Action{
		ActionCreated,
		ActionStatusChange,
		ActionPartnerAssigned,
		ActionAddedToBatch,
		ActionBatchCreated,
		ActionSentToPrint,
		ActionDesignUpdated,
		ActionProofUploaded,
		ActionComment,
	}
}

// ParseAction accepts only members of the vocabulary.
func ParseAction(s string) (Action, error) {
	name := Action(strings.ToUpper(strings.TrimSpace(s)))
	for _, a := range actions() {
		if a == name {
			return a, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not an audit action", s))
}

func (a Action) Validate() error {
	_, err := ParseAction(string(a))
	return err
}

func (a Action) String() string {
	return string(a)
}
