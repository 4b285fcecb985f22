package services

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

const (
	orderNumberRandomBytes      = 4
	batchNumberRandomBytes      = 3
	printOrderNumberRandomBytes = 4
	secureTokenBytes            = 32
)

// IdentifierGenerator produces the human-readable numbers and the secret token of
// campaigns, batches and print orders. Uniqueness is enforced by the database; callers
// retry on errs.ErrIdentifierCollision.
//
// Formats (hex in numbers is upper case, the token is lower case):
//
//	order number        BP-<YYYYMMDD>-<8 hex>
//	batch number        BATCH-<postal code>-<YYYYMMDD>-<6 hex>
//	print order number  PRINT-<YYYYMMDDHHMM>-<8 hex>
//	secure token        <64 hex>
type IdentifierGenerator struct {
	clock  clockwork.Clock
	random io.Reader
}

// NewIdentifierGenerator expects a cryptographically secure random source, normally crypto/rand.Reader.
func NewIdentifierGenerator(clock clockwork.Clock, random io.Reader) IdentifierGenerator {
	return IdentifierGenerator{clock: clock, random: random}
}

func (g IdentifierGenerator) OrderNumber() (string, error) {
	suffix, err := g.hex(orderNumberRandomBytes, "order_number")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BP-%s-%s", g.clock.Now().Format("20060102"), strings.ToUpper(suffix)), nil
}

func (g IdentifierGenerator) BatchNumber(postalCode kernel.PostalCode) (string, error) {
	suffix, err := g.hex(batchNumberRandomBytes, "batch_number")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BATCH-%s-%s-%s", postalCode, g.clock.Now().Format("20060102"), strings.ToUpper(suffix)), nil
}

func (g IdentifierGenerator) PrintOrderNumber() (string, error) {
	suffix, err := g.hex(printOrderNumberRandomBytes, "print_order_number")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRINT-%s-%s", g.clock.Now().Format("200601021504"), strings.ToUpper(suffix)), nil
}

func (g IdentifierGenerator) SecureToken() (string, error) {
	return g.hex(secureTokenBytes, "secure_token")
}

func (g IdentifierGenerator) hex(n int, target string) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", errs.NewGenerationError(target, 1, err)
	}
	return hex.EncodeToString(buf), nil
}
