package commands

import (
	"context"
	"strings"

	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/core/ports"
)

// notifyClients sends one notification of template per campaign to its client.
// Clients without an e-mail address are skipped.
func notifyClients(
	ctx context.Context,
	notifier ports.Notifier,
	template ports.Template,
	campaigns []*campaign.Campaign,
	clients map[kernel.UUID]party.Client,
	extra map[string]any,
) {
	for _, c := range campaigns {
		client, ok := clients[c.ClientID()]
		if !ok || strings.TrimSpace(client.Email) == "" {
			continue
		}
		payload := campaignContext(c)
		payload["client_name"] = client.DisplayName()
		for k, v := range extra {
			payload[k] = v
		}
		notifier.Notify(ctx, ports.Notification{
			Template:   template,
			Recipients: []string{client.Email},
			Context:    payload,
		})
	}
}

// notifyPartner sends the consolidated print order of a batch to its partner.
func notifyPartner(
	ctx context.Context,
	notifier ports.Notifier,
	partner party.Partner,
	b *batch.Batch,
	printOrderNumber string,
	campaigns []*campaign.Campaign,
	clients map[kernel.UUID]party.Client,
) {
	if strings.TrimSpace(partner.Email) == "" {
		return
	}
	members := make([]map[string]any, 0, len(campaigns))
	for _, c := range campaigns {
		member := campaignContext(c)
		if client, ok := clients[c.ClientID()]; ok {
			member["client_name"] = client.DisplayName()
		}
		member["card"] = cardPayload(c)
		members = append(members, member)
	}
	payload := map[string]any{
		"partner_name":    partner.CompanyName,
		"batch_number":    b.BatchNumber(),
		"postal_code":     b.PostalCode().String(),
		"total_quantity":  b.TotalQuantity(),
		"campaigns_count": len(campaigns),
		"campaigns":       members,
	}
	if printOrderNumber != "" {
		payload["print_order_number"] = printOrderNumber
	}
	notifier.Notify(ctx, ports.Notification{
		Template:   ports.TemplateBatchPrintOrder,
		Recipients: []string{partner.Email},
		Context:    payload,
	})
}

func campaignContext(c *campaign.Campaign) map[string]any {
	return map[string]any{
		"campaign_id":     c.ID().String(),
		"campaign_name":   c.Name(),
		"order_number":    c.OrderNumber(),
		"status":          c.Status().String(),
		"printing_status": c.PrintingStatus().String(),
		"quantity":        c.Quantity(),
		"faces":           c.Faces(),
		"special_request": c.SpecialRequest(),
		"postal_codes":    kernel.PostalCodesToStrings(c.PostalCodes()),
	}
}

// cardPayload is what a partner needs to print a member: the template design with its
// QR payload, or the reference of the client's own file.
func cardPayload(c *campaign.Campaign) map[string]any {
	if design, ok := c.Design(); ok {
		return map[string]any{
			"kind":                string(campaign.CardKindTemplate),
			"template":            design.Template(),
			"slogan":              design.Slogan(),
			"company_email":       design.CompanyEmail(),
			"company_phone":       design.CompanyPhone(),
			"company_address":     design.CompanyAddress(),
			"company_postal_code": design.CompanyPostalCode(),
			"accent_color":        design.AccentColor(),
			"contact_method":      string(design.ContactMethod()),
			"logo_ref":            design.LogoRef(),
			"qr_payload":          design.QRPayload(),
		}
	}
	card, _ := c.CustomCard()
	return map[string]any{
		"kind":          string(campaign.CardKindCustomAsset),
		"asset_ref":     card.AssetRef(),
		"file_name":     card.FileName(),
		"contact_email": card.ContactEmail(),
		"contact_phone": card.ContactPhone(),
	}
}

// resolveClients looks up the clients of campaigns. A directory failure only costs
// the notifications, so it is logged by the caller and an empty map is returned.
func resolveClients(
	ctx context.Context,
	directory ports.UserDirectory,
	campaigns []*campaign.Campaign,
) (map[kernel.UUID]party.Client, error) {
	clients, err := directory.GetClients(ctx, clientIDs(campaigns))
	if err != nil {
		return map[kernel.UUID]party.Client{}, err
	}
	return clients, nil
}
