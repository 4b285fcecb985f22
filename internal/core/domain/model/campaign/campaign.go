package campaign

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"
)

const (
	// Quantity is the fixed number of cards printed for every campaign.
	Quantity = 1000

	MinPostalCodes       = 5
	MaxPostalCodes       = 100
	MaxNameLength        = 255
	MaxSpecialRequestLen = 2000
)

// ErrCampaignIsNotConstructed is returned when a Campaign skipped NewCampaign and RestoreCampaign.
var ErrCampaignIsNotConstructed = errors.New("Campaign must be created via NewCampaign constructor")

var secureTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Campaign is one client's print-and-distribution order and the aggregate root of
// this package.
//
// Invariants:
//   - order number and secure token never change after construction
//   - quantity is always Quantity
//   - between MinPostalCodes and MaxPostalCodes postal codes, in submission order
//   - faces is 1 or 2
//   - card source is exactly one of TemplateCard or CustomAssetCard
//   - at most one active batch; earlier memberships live in the batch history
type Campaign struct {
	id             kernel.UUID
	orderNumber    string
	secureToken    string
	name           string
	clientID       kernel.UUID
	partnerID      *kernel.UUID
	postalCodes    []kernel.PostalCode
	status         Status
	printingStatus PrintingStatus
	estimatedPrice float64
	faces          int
	specialRequest string
	cardSource     CardSource
	activeBatchID  *kernel.UUID
	version        int
	createdAt      time.Time
	updatedAt      time.Time

	isConstructed bool
}

// NewParams holds the validated input of a new campaign.
type NewParams struct {
	ID             kernel.UUID
	OrderNumber    string
	SecureToken    string
	Name           string
	ClientID       kernel.UUID
	PostalCodes    []kernel.PostalCode
	EstimatedPrice float64
	Faces          int
	SpecialRequest string
	CardSource     CardSource
	CreatedAt      time.Time
}

// NewCampaign creates a campaign in CREATED / NOT_SENT with no partner and no batch.
// All invalid fields are reported together.
func NewCampaign(p NewParams) (*Campaign, error) {
	c := &Campaign{
		status:         StatusCreated,
		printingStatus: PrintingNotSent,
		specialRequest: p.SpecialRequest,
		version:        1,
		createdAt:      p.CreatedAt,
		updatedAt:      p.CreatedAt,
		isConstructed:  true,
	}

	if err := errors.Join(
		c.setID(p.ID),
		c.setOrderNumber(p.OrderNumber),
		c.setSecureToken(p.SecureToken),
		c.setName(p.Name),
		c.setClient(p.ClientID),
		c.setPostalCodes(p.PostalCodes),
		c.setEstimatedPrice(p.EstimatedPrice),
		c.setFaces(p.Faces),
		c.setCardSource(p.CardSource),
		c.setSpecialRequest(p.SpecialRequest),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreParams is the full persisted state of a campaign.
type RestoreParams struct {
	NewParams
	PartnerID      *kernel.UUID
	Status         Status
	PrintingStatus PrintingStatus
	ActiveBatchID  *kernel.UUID
	Version        int
	UpdatedAt      time.Time
}

// RestoreCampaign rebuilds a campaign loaded from storage.
func RestoreCampaign(p RestoreParams) (*Campaign, error) {
	c, err := NewCampaign(p.NewParams)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(p.Status.Validate(), p.PrintingStatus.Validate()); err != nil {
		return nil, err
	}
	c.partnerID = p.PartnerID
	c.status = p.Status
	c.printingStatus = p.PrintingStatus
	c.activeBatchID = p.ActiveBatchID
	c.version = p.Version
	c.updatedAt = p.UpdatedAt
	return c, nil
}

func (c *Campaign) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCampaignIsNotConstructed
	}
	return nil
}

// IsEqual compares campaigns by id.
func (c *Campaign) IsEqual(other *Campaign) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Campaign) ID() kernel.UUID { return c.id }
func (c *Campaign) OrderNumber() string { return c.orderNumber }
func (c *Campaign) SecureToken() string { return c.secureToken }
func (c *Campaign) Name() string { return c.name }
func (c *Campaign) ClientID() kernel.UUID { return c.clientID }
func (c *Campaign) PartnerID() *kernel.UUID { return c.partnerID }
func (c *Campaign) Status() Status { return c.status }
func (c *Campaign) PrintingStatus() PrintingStatus { return c.printingStatus }
func (c *Campaign) EstimatedPrice() float64 { return c.estimatedPrice }
func (c *Campaign) Faces() int { return c.faces }
func (c *Campaign) SpecialRequest() string { return c.specialRequest }
func (c *Campaign) CardSource() CardSource { return c.cardSource }
func (c *Campaign) ActiveBatchID() *kernel.UUID { return c.activeBatchID }
func (c *Campaign) Version() int { return c.version }
func (c *Campaign) CreatedAt() time.Time { return c.createdAt }
func (c *Campaign) UpdatedAt() time.Time { return c.updatedAt }

// Quantity is the declared print quantity, always Quantity.
func (c *Campaign) Quantity() int {
	return Quantity
}

// PostalCodes returns a copy of the distribution area in submission order.
func (c *Campaign) PostalCodes() []kernel.PostalCode {
	codes := make([]kernel.PostalCode, len(c.postalCodes))
	copy(codes, c.postalCodes)
	return codes
}

// Design returns the template design, or false for a custom card.
func (c *Campaign) Design() (Design, bool) {
	card, ok := c.cardSource.(TemplateCard)
	if !ok {
		return Design{}, false
	}
	return card.Design(), true
}

// CustomCard returns the client-supplied asset, or false for a template card.
func (c *Campaign) CustomCard() (CustomAssetCard, bool) {
	card, ok := c.cardSource.(CustomAssetCard)
	return card, ok
}

// ChangeStatus applies any valid status. Entering IN_PRINTING forces SENT_TO_PRINT and
// entering PRINTED forces COMPLETED. The previous status is returned for the audit trail.
func (c *Campaign) ChangeStatus(newStatus Status, now time.Time) (Status, error) {
	if err := newStatus.Validate(); err != nil {
		return StatusUnknown, err
	}
	old := c.status
	c.status = newStatus
	if printing, ok := newStatus.derivedPrintingStatus(); ok {
		c.printingStatus = printing
	}
	c.updatedAt = now
	return old, nil
}

// AssignPartner hands the campaign to a distribution partner and moves it to ASSIGNED.
func (c *Campaign) AssignPartner(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = &partnerID
	c.status = StatusAssigned
	c.updatedAt = now
	return nil
}

// SendToPrint moves the campaign to IN_PRINTING / SENT_TO_PRINT.
func (c *Campaign) SendToPrint(now time.Time) {
	c.status = StatusInPrinting
	c.printingStatus = PrintingSentToPrint
	c.updatedAt = now
}

// AssignAndSendToPrint is the combined path that skips ASSIGNED.
func (c *Campaign) AssignAndSendToPrint(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = &partnerID
	c.SendToPrint(now)
	return nil
}

// MarkPrinted moves the campaign to PRINTED / COMPLETED.
func (c *Campaign) MarkPrinted(now time.Time) {
	c.status = StatusPrinted
	c.printingStatus = PrintingCompleted
	c.updatedAt = now
}

// JoinBatch makes batchID the active batch and returns the one it replaces, if any.
func (c *Campaign) JoinBatch(batchID kernel.UUID, now time.Time) (*kernel.UUID, error) {
	if err := batchID.Validate(); err != nil {
		return nil, err
	}
	previous := c.activeBatchID
	c.activeBatchID = &batchID
	c.updatedAt = now
	if previous != nil && previous.IsEqual(batchID) {
		return nil, nil
	}
	return previous, nil
}

// IsActiveIn reports whether batchID is the campaign's active batch. A campaign
// re-pointed to another batch keeps its old membership as history only.
func (c *Campaign) IsActiveIn(batchID kernel.UUID) bool {
	return c.activeBatchID != nil && c.activeBatchID.IsEqual(batchID)
}

// UpdateDesign replaces the template design. Custom-card campaigns have no design to replace.
func (c *Campaign) UpdateDesign(design Design, now time.Time) error {
	if _, ok := c.cardSource.(TemplateCard); !ok {
		return errs.NewConflictError("campaign uses a custom card, its design cannot be edited")
	}
	c.cardSource = NewTemplateCard(design)
	c.updatedAt = now
	return nil
}

// IncrementVersion is called by repositories once a conditional update succeeded.
func (c *Campaign) IncrementVersion() {
	c.version++
}

func (c *Campaign) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Campaign) setOrderNumber(n string) error {
	if strings.TrimSpace(n) == "" {
		return errs.NewValueIsRequiredError("order_number")
	}
	c.orderNumber = n
	return nil
}

func (c *Campaign) setSecureToken(token string) error {
	if !secureTokenPattern.MatchString(token) {
		return errs.NewValueIsInvalidErrorWithCause("secure_token", errors.New("must be 64 lowercase hex characters"))
	}
	c.secureToken = token
	return nil
}

func (c *Campaign) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if n := len([]rune(name)); n > MaxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", n, 1, MaxNameLength)
	}
	c.name = name
	return nil
}

func (c *Campaign) setClient(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client", err)
	}
	c.clientID = id
	return nil
}

func (c *Campaign) setPostalCodes(codes []kernel.PostalCode) error {
	if n := len(codes); n < MinPostalCodes || n > MaxPostalCodes {
		return errs.NewValueIsOutOfRangeError("postal_codes count", n, MinPostalCodes, MaxPostalCodes)
	}
	for i, p := range codes {
		if err := p.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("postal_codes", fmt.Errorf("entry %d: %w", i, err))
		}
	}
	c.postalCodes = make([]kernel.PostalCode, len(codes))
	copy(c.postalCodes, codes)
	return nil
}

func (c *Campaign) setEstimatedPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimated_price", fmt.Errorf("%v is not greater than 0", price))
	}
	c.estimatedPrice = price
	return nil
}

func (c *Campaign) setFaces(faces int) error {
	if faces != 1 && faces != 2 {
		return errs.NewValueIsOutOfRangeError("faces", faces, 1, 2)
	}
	c.faces = faces
	return nil
}

func (c *Campaign) setCardSource(card CardSource) error {
	if card == nil {
		return errs.NewValueIsRequiredError("card_source")
	}
	c.cardSource = card
	return nil
}

func (c *Campaign) setSpecialRequest(s string) error {
	if n := len([]rune(s)); n > MaxSpecialRequestLen {
		return errs.NewValueIsOutOfRangeError("special_request length", n, 0, MaxSpecialRequestLen)
	}
	c.specialRequest = s
	return nil
}
