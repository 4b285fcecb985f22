package http

import (
	"time"

	"bagpub/internal/core/application/usecases/commands"
	"bagpub/internal/core/application/usecases/queries"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/services"

	"github.com/google/uuid"
)

type DesignRequest struct {
	Template          string `json:"template"`
	Slogan            string `json:"slogan"`
	CompanyEmail      string `json:"company_email"`
	CompanyPhone      string `json:"company_phone"`
	CompanyAddress    string `json:"company_address"`
	CompanyPostalCode string `json:"company_postal_code"`
	AccentColor       string `json:"accent_color"`
	ContactMethod     string `json:"contact_method"`
}

func (r DesignRequest) params() campaign.DesignParams {
	return campaign.DesignParams{
		Template:          r.Template,
		Slogan:            r.Slogan,
		CompanyEmail:      r.CompanyEmail,
		CompanyPhone:      r.CompanyPhone,
		CompanyAddress:    r.CompanyAddress,
		CompanyPostalCode: r.CompanyPostalCode,
		AccentColor:       r.AccentColor,
		ContactMethod:     r.ContactMethod,
	}
}

type CampaignIDsRequest struct {
	CampaignIDs []uuid.UUID `json:"campaign_ids"`
}

type AssignAndPrintRequest struct {
	CampaignIDs []uuid.UUID `json:"campaign_ids"`
	PartnerID   uuid.UUID   `json:"partner_id"`
}

type CreateBatchRequest struct {
	CampaignIDs []uuid.UUID `json:"campaign_ids"`
	PostalCode  string      `json:"postal_code"`
}

type AssignPartnerRequest struct {
	PartnerID uuid.UUID `json:"partner_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type Design struct {
	Template          string `json:"template"`
	Slogan            string `json:"slogan"`
	CompanyEmail      string `json:"company_email"`
	CompanyPhone      string `json:"company_phone"`
	CompanyAddress    string `json:"company_address"`
	CompanyPostalCode string `json:"company_postal_code"`
	AccentColor       string `json:"accent_color"`
	ContactMethod     string `json:"contact_method"`
	LogoRef           string `json:"logo_ref,omitempty"`
	QRPayload         string `json:"qr_payload"`
}

func designResponse(d campaign.Design) Design {
	return Design{
		Template:          d.Template(),
		Slogan:            d.Slogan(),
		CompanyEmail:      d.CompanyEmail(),
		CompanyPhone:      d.CompanyPhone(),
		CompanyAddress:    d.CompanyAddress(),
		CompanyPostalCode: d.CompanyPostalCode(),
		AccentColor:       d.AccentColor(),
		ContactMethod:     string(d.ContactMethod()),
		LogoRef:           d.LogoRef(),
		QRPayload:         d.QRPayload(),
	}
}

type Campaign struct {
	ID             uuid.UUID `json:"id"`
	OrderNumber    string    `json:"order_number"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	EstimatedPrice float64   `json:"estimated_price"`
	PostalCodes    []string  `json:"postal_codes"`
	HasCustomCard  bool      `json:"has_custom_card"`
	Design         *Design   `json:"design,omitempty"`
}

func campaignResponse(r commands.CreateCampaignResult) Campaign {
	resp := Campaign{
		ID:             r.CampaignID.Google(),
		OrderNumber:    r.OrderNumber,
		Name:           r.Name,
		Quantity:       r.Quantity,
		EstimatedPrice: r.EstimatedPrice,
		PostalCodes:    kernel.PostalCodesToStrings(r.PostalCodes),
		HasCustomCard:  r.HasCustomCard,
	}
	if r.Design != nil {
		d := designResponse(*r.Design)
		resp.Design = &d
	}
	return resp
}

type CampaignStatus struct {
	ID             uuid.UUID `json:"id"`
	OrderNumber    string    `json:"order_number"`
	OldStatus      string    `json:"old_status"`
	NewStatus      string    `json:"new_status"`
	PrintingStatus string    `json:"printing_status"`
}

type Partner struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
}

type Batch struct {
	ID               uuid.UUID  `json:"id"`
	BatchNumber      string     `json:"batch_number"`
	PostalCode       string     `json:"postal_code"`
	Status           string     `json:"status"`
	TotalQuantity    int        `json:"total_quantity"`
	CampaignsCount   int        `json:"campaigns_count"`
	Partner          *Partner   `json:"partner,omitempty"`
	PrintOrderID     *uuid.UUID `json:"print_order_id,omitempty"`
	PrintOrderNumber string     `json:"print_order_number,omitempty"`
}

func batchResponse(r commands.BatchResult) Batch {
	resp := Batch{
		ID:             r.BatchID.Google(),
		BatchNumber:    r.BatchNumber,
		PostalCode:     r.PostalCode.String(),
		Status:         r.Status.String(),
		TotalQuantity:  r.TotalQuantity,
		CampaignsCount: r.CampaignsCount,
	}
	if r.Partner != nil {
		resp.Partner = &Partner{ID: r.Partner.ID.Google(), CompanyName: r.Partner.CompanyName}
	}
	return resp
}

type Suggestion struct {
	PostalCode     string      `json:"postal_code"`
	CampaignIDs    []uuid.UUID `json:"campaign_ids"`
	CampaignsCount int         `json:"campaigns_count"`
	TotalQuantity  int         `json:"total_quantity"`
	Clients        []string    `json:"clients"`
	EstimatedPrice float64     `json:"estimated_price"`
}

func suggestionResponse(s services.BatchSuggestion) Suggestion {
	ids := make([]uuid.UUID, len(s.CampaignIDs))
	for i, id := range s.CampaignIDs {
		ids[i] = id.Google()
	}
	return Suggestion{
		PostalCode:     s.PostalCode.String(),
		CampaignIDs:    ids,
		CampaignsCount: s.CampaignsCount,
		TotalQuantity:  s.TotalQuantity,
		Clients:        s.Clients,
		EstimatedPrice: s.EstimatedPrice,
	}
}

type LogEntry struct {
	ID          uuid.UUID  `json:"id"`
	CampaignID  *uuid.UUID `json:"campaign_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
	BatchID     *uuid.UUID `json:"batch_id,omitempty"`
	BatchNumber string     `json:"batch_number,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	Action      string     `json:"action"`
	Details     string     `json:"details"`
	CreatedAt   time.Time  `json:"created_at"`
}

func logResponses(entries []queries.LogEntryResponse) []LogEntry {
	resp := make([]LogEntry, len(entries))
	for i, e := range entries {
		resp[i] = LogEntry{
			ID:          e.ID.Google(),
			CampaignID:  kernel.GooglePtr(e.CampaignID),
			OrderNumber: e.OrderNumber,
			BatchID:     kernel.GooglePtr(e.BatchID),
			BatchNumber: e.BatchNumber,
			ActorID:     kernel.GooglePtr(e.ActorID),
			Action:      e.Action,
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		}
	}
	return resp
}

func toKernelIDs(ids []uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		k, err := kernel.UUIDFromGoogle(id)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
