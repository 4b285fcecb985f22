package services

import (
	"fmt"
	"net/url"
	"strings"

	"bagpub/internal/core/domain/model/campaign"
)

const (
	frenchCountryCode = "33"
	greetingTemplate  = "Bonjour %s, je vous contacte via votre carte BagPub"
	anonymousGreeting = "Bonjour, je vous contacte via votre carte BagPub"
)

var phoneStripper = strings.NewReplacer(" ", "", "-", "", "+", "")

// ContactLink builds the payload encoded in a card's QR code. Phone-based methods
// with a usable phone number open a WhatsApp conversation; anything else, including a
// phone that still holds non-digits once normalized, falls back to a mailto link.
func ContactLink(method campaign.ContactMethod, phone, email, company string) string {
	if method.UsesPhone() {
		if normalized, ok := normalizePhone(phone); ok {
			greeting := anonymousGreeting
			if c := strings.TrimSpace(company); c != "" {
				greeting = fmt.Sprintf(greetingTemplate, c)
			}
			return fmt.Sprintf("https://wa.me/%s?text=%s", normalized, escapeText(greeting))
		}
	}
	return "mailto:" + strings.TrimSpace(email)
}

func normalizePhone(phone string) (string, bool) {
	p := phoneStripper.Replace(strings.TrimSpace(phone))
	if p == "" {
		return "", false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if strings.HasPrefix(p, "0") {
		p = frenchCountryCode + p[1:]
	}
	return p, true
}

// escapeText percent-encodes s for a query value, with spaces as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
