package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"bagpub/internal/pkg/errs"
	"bagpub/internal/pkg/guard"
)

// ErrPostalCodeIsNotConstructed is returned when validating a zero-value PostalCode.
var ErrPostalCodeIsNotConstructed = errs.NewValueIsRequiredError("postal code must be created via NewPostalCode")

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// PostalCode is a French five digit postal code.
type PostalCode struct {
	value string
	guard guard.ConstructorGuard
}

// NewPostalCode trims s and accepts it only when it is exactly five ASCII digits.
func NewPostalCode(s string) (PostalCode, error) {
	v := strings.TrimSpace(s)
	if !postalCodePattern.MatchString(v) {
		return PostalCode{}, errs.NewValueIsInvalidErrorWithCause(
			"postal_codes",
			fmt.Errorf("%q is not a 5-digit postal code", v),
		)
	}
	return PostalCode{value: v, guard: guard.NewConstructorGuard()}, nil
}

// MustPostalCode is NewPostalCode for literals. It panics on error.
func MustPostalCode(s string) PostalCode {
	p, err := NewPostalCode(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PostalCodesFromStrings restores persisted codes, stopping at the first invalid one.
func PostalCodesFromStrings(values []string) ([]PostalCode, error) {
	codes := make([]PostalCode, 0, len(values))
	for _, v := range values {
		p, err := NewPostalCode(v)
		if err != nil {
			return nil, err
		}
		codes = append(codes, p)
	}
	return codes, nil
}

// PostalCodesToStrings flattens codes for persistence and responses.
func PostalCodesToStrings(codes []PostalCode) []string {
	values := make([]string, len(codes))
	for i, p := range codes {
		values[i] = p.value
	}
	return values
}

func (p PostalCode) String() string {
	return p.value
}

// IsEqual compares two codes by value.
func (p PostalCode) IsEqual(other PostalCode) bool {
	return p.value == other.value
}

func (p PostalCode) Validate() error {
	return p.guard.Validate(ErrPostalCodeIsNotConstructed)
}
