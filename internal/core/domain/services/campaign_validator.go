package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

const (
	// PricePerThousand is the price of one thousand printed cards.
	PricePerThousand  = 129.0
	maxEstimatedPrice = 100000.0

	// MaxCustomCardSize is the upload limit of a client-supplied card file.
	MaxCustomCardSize = 10 * 1024 * 1024
)

var (
	unsafeCharacters = regexp.MustCompile(`[<>"']`)

	customCardExtensions = map[string]struct{}{
		"pdf": {}, "jpg": {}, "jpeg": {}, "png": {}, "ai": {}, "eps": {}, "psd": {},
	}
)

// UploadedFile describes a file attached to a request. The content itself is streamed
// to the asset store by the caller once the request is accepted.
type UploadedFile struct {
	Name string
	Size int64
}

// CampaignInput is the raw campaign submission.
type CampaignInput struct {
	Name           string
	PostalCodes    string
	UseCustomCard  bool
	CustomCard     *UploadedFile
	Faces          string
	SpecialRequest string
	Design         *campaign.DesignParams
}

// ValidatedCampaign is a submission that passed every check, normalized and priced.
// Exactly one of Design and CustomCard is meaningful, selected by UseCustomCard.
type ValidatedCampaign struct {
	Name           string
	PostalCodes    []kernel.PostalCode
	Faces          int
	SpecialRequest string
	EstimatedPrice float64
	UseCustomCard  bool
	CustomCard     UploadedFile
	Design         campaign.Design
	ContactEmail   string
	ContactPhone   string
}

// CampaignValidator checks and normalizes campaign submissions.
type CampaignValidator struct {
	clock clockwork.Clock
}

func NewCampaignValidator(clock clockwork.Clock) CampaignValidator {
	return CampaignValidator{clock: clock}
}

// Validate rejects malformed postal codes and custom card files. Everything else is
// coerced: the name is sanitized or defaulted, faces default to 1, the special request
// is sanitized and truncated and design values fall back to their defaults.
func (v CampaignValidator) Validate(in CampaignInput, client party.Client) (ValidatedCampaign, error) {
	codes, err := ParsePostalCodes(in.PostalCodes)
	if err != nil {
		return ValidatedCampaign{}, err
	}

	out := ValidatedCampaign{
		Name:           v.name(in.Name, client),
		PostalCodes:    codes,
		Faces:          parseFaces(in.Faces),
		SpecialRequest: SanitizeText(in.SpecialRequest, campaign.MaxSpecialRequestLen),
		UseCustomCard:  in.UseCustomCard,
		ContactEmail:   client.Email,
		ContactPhone:   client.Phone,
	}

	if out.EstimatedPrice, err = EstimatePrice(campaign.Quantity); err != nil {
		return ValidatedCampaign{}, err
	}

	if in.UseCustomCard {
		if err = validateCustomCard(in.CustomCard); err != nil {
			return ValidatedCampaign{}, err
		}
		out.CustomCard = *in.CustomCard
		return out, nil
	}

	out.Design = BuildDesign(in.Design, client)
	out.ContactEmail = out.Design.CompanyEmail()
	out.ContactPhone = out.Design.CompanyPhone()
	return out, nil
}

func (v CampaignValidator) name(raw string, client party.Client) string {
	name := SanitizeText(raw, campaign.MaxNameLength)
	if name == "" {
		name = SanitizeText(fmt.Sprintf("%s - Campagne %d", client.DisplayName(), v.clock.Now().Year()), campaign.MaxNameLength)
	}
	return name
}

// ParsePostalCodes splits a comma-separated list, ignores empty tokens and requires
// between campaign.MinPostalCodes and campaign.MaxPostalCodes valid codes. The first
// malformed token is named in the error.
func ParsePostalCodes(raw string) ([]kernel.PostalCode, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errs.NewValueIsRequiredError("postal_codes")
	}
	codes := make([]kernel.PostalCode, 0)
	for _, token := range strings.Split(raw, ",") {
		if strings.TrimSpace(token) == "" {
			continue
		}
		code, err := kernel.NewPostalCode(token)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	if n := len(codes); n < campaign.MinPostalCodes || n > campaign.MaxPostalCodes {
		return nil, errs.NewValueIsOutOfRangeError("postal_codes count", n, campaign.MinPostalCodes, campaign.MaxPostalCodes)
	}
	return codes, nil
}

// BuildDesign normalizes a design payload, fills company contact fields from the
// client profile and computes the QR contact link.
func BuildDesign(params *campaign.DesignParams, client party.Client) campaign.Design {
	p := campaign.DesignParams{}
	if params != nil {
		p = *params
	}
	p.Slogan = SanitizeText(p.Slogan, 255)
	if strings.TrimSpace(p.CompanyEmail) == "" {
		p.CompanyEmail = client.Email
	}
	if strings.TrimSpace(p.CompanyPhone) == "" {
		p.CompanyPhone = client.Phone
	}
	design := campaign.NewDesign(p)
	return design.WithQRPayload(ContactLink(
		design.ContactMethod(),
		design.CompanyPhone(),
		design.CompanyEmail(),
		client.CompanyName,
	))
}

// EstimatePrice prices a campaign of quantity cards. A result outside (0, 100000]
// means the formula itself is broken and is reported as an internal error.
func EstimatePrice(quantity int) (float64, error) {
	price := float64(quantity) / 1000 * PricePerThousand
	if price <= 0 || price > maxEstimatedPrice {
		return 0, errs.NewInternalError(
			"price computation",
			errs.NewValueIsOutOfRangeError("estimated_price", price, 0, maxEstimatedPrice),
		)
	}
	return price, nil
}

// SanitizeText strips <>"' characters, trims and truncates to maxLen runes.
func SanitizeText(s string, maxLen int) string {
	clean := strings.TrimSpace(unsafeCharacters.ReplaceAllString(s, ""))
	if r := []rune(clean); len(r) > maxLen {
		clean = strings.TrimSpace(string(r[:maxLen]))
	}
	return clean
}

func parseFaces(raw string) int {
	faces, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || (faces != 1 && faces != 2) {
		return 1
	}
	return faces
}

func validateCustomCard(file *UploadedFile) error {
	if file == nil || strings.TrimSpace(file.Name) == "" {
		return errs.NewValueIsRequiredError("custom_card")
	}
	if file.Size <= 0 || file.Size > MaxCustomCardSize {
		return errs.NewValueIsOutOfRangeError("custom_card size", file.Size, 1, MaxCustomCardSize)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))
	if _, ok := customCardExtensions[ext]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"custom_card",
			errors.New("allowed extensions are pdf, jpg, jpeg, png, ai, eps, psd"),
		)
	}
	return nil
}
