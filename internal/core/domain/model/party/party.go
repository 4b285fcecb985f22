// Package party holds the read models of the people the campaign service works
// for and with. They are owned by the user directory; this service never mutates them.
package party

import (
	"strings"

	"bagpub/internal/core/domain/model/kernel"
)

// Client is the business that submitted a campaign.
type Client struct {
	ID          kernel.UUID
	CompanyName string
	Username    string
	Email       string
	Phone       string
	Active      bool
}

// DisplayName is the company name, falling back to the username.
func (c Client) DisplayName() string {
	if name := strings.TrimSpace(c.CompanyName); name != "" {
		return name
	}
	return c.Username
}

// Partner is a distribution company that receives batches.
type Partner struct {
	ID          kernel.UUID
	CompanyName string
	Email       string
	Phone       string
	City        string
	PostalCode  string
	Active      bool
}
