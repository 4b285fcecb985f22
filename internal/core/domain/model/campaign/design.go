package campaign

import (
	"fmt"
	"regexp"
	"strings"
)

// ContactMethod selects what the card's QR code points at.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactWhatsApp ContactMethod = "whatsapp"
	ContactBoth     ContactMethod = "both"
)

const (
	DefaultTemplate      = "template_1"
	DefaultAccentColor   = "#3498DB"
	DefaultContactMethod = ContactEmail

	templateCount    = 20
	maxSloganLen     = 255
	maxPhoneLen      = 20
	maxPostalCodeLen = 10
	maxFileNameLen   = 255
)

var accentColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseContactMethod coerces anything outside {email, whatsapp, both} to email.
func ParseContactMethod(s string) ContactMethod {
	switch m := ContactMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case ContactEmail, ContactWhatsApp, ContactBoth:
		return m
	default:
		return DefaultContactMethod
	}
}

// UsesPhone reports whether the QR code should open a WhatsApp conversation.
func (m ContactMethod) UsesPhone() bool {
	return m == ContactWhatsApp || m == ContactBoth
}

// IsCatalogueTemplate reports whether name is one of template_1..template_20.
func IsCatalogueTemplate(name string) bool {
	for i := 1; i <= templateCount; i++ {
		if name == fmt.Sprintf("template_%d", i) {
			return true
		}
	}
	return false
}

// DesignParams is the raw design payload of a template campaign.
type DesignParams struct {
	Template          string
	Slogan            string
	CompanyEmail      string
	CompanyPhone      string
	CompanyAddress    string
	CompanyPostalCode string
	AccentColor       string
	ContactMethod     string
	LogoRef           string
}

// Design is the template-based card layout. It never fails to build: unknown
// templates, colors and contact methods fall back to their defaults.
type Design struct {
	template          string
	slogan            string
	companyEmail      string
	companyPhone      string
	companyAddress    string
	companyPostalCode string
	accentColor       string
	contactMethod     ContactMethod
	logoRef           string
	qrPayload         string
}

// NewDesign normalizes params into a Design. The QR payload is empty until WithQRPayload.
func NewDesign(params DesignParams) Design {
	d := Design{
		template:          strings.TrimSpace(params.Template),
		slogan:            truncate(strings.TrimSpace(params.Slogan), maxSloganLen),
		companyEmail:      strings.TrimSpace(params.CompanyEmail),
		companyPhone:      truncate(strings.TrimSpace(params.CompanyPhone), maxPhoneLen),
		companyAddress:    strings.TrimSpace(params.CompanyAddress),
		companyPostalCode: truncate(strings.TrimSpace(params.CompanyPostalCode), maxPostalCodeLen),
		accentColor:       strings.ToUpper(strings.TrimSpace(params.AccentColor)),
		contactMethod:     ParseContactMethod(params.ContactMethod),
		logoRef:           strings.TrimSpace(params.LogoRef),
	}
	if !IsCatalogueTemplate(d.template) {
		d.template = DefaultTemplate
	}
	if !accentColorPattern.MatchString(d.accentColor) {
		d.accentColor = DefaultAccentColor
	}
	return d
}

// RestoreDesign rebuilds a persisted design without normalization.
func RestoreDesign(params DesignParams, qrPayload string) Design {
	return Design{
		template:          params.Template,
		slogan:            params.Slogan,
		companyEmail:      params.CompanyEmail,
		companyPhone:      params.CompanyPhone,
		companyAddress:    params.CompanyAddress,
		companyPostalCode: params.CompanyPostalCode,
		accentColor:       params.AccentColor,
		contactMethod:     ContactMethod(params.ContactMethod),
		logoRef:           params.LogoRef,
		qrPayload:         qrPayload,
	}
}

// WithQRPayload returns a copy carrying the contact link encoded in the QR code.
func (d Design) WithQRPayload(payload string) Design {
	d.qrPayload = payload
	return d
}

// WithLogo returns a copy referencing an uploaded logo.
func (d Design) WithLogo(ref string) Design {
	d.logoRef = ref
	return d
}

func (d Design) Template() string { return d.template }
func (d Design) Slogan() string { return d.slogan }
func (d Design) CompanyEmail() string { return d.companyEmail }
func (d Design) CompanyPhone() string { return d.companyPhone }
func (d Design) CompanyAddress() string { return d.companyAddress }
func (d Design) CompanyPostalCode() string { return d.companyPostalCode }
func (d Design) AccentColor() string { return d.accentColor }
func (d Design) ContactMethod() ContactMethod { return d.contactMethod }
func (d Design) LogoRef() string { return d.logoRef }
func (d Design) QRPayload() string { return d.qrPayload }

// Params exposes the design fields, e.g. for persistence and notification payloads.
func (d Design) Params() DesignParams {
	return DesignParams{
		Template:          d.template,
		Slogan:            d.slogan,
		CompanyEmail:      d.companyEmail,
		CompanyPhone:      d.companyPhone,
		CompanyAddress:    d.companyAddress,
		CompanyPostalCode: d.companyPostalCode,
		AccentColor:       d.accentColor,
		ContactMethod:     string(d.contactMethod),
		LogoRef:           d.logoRef,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
