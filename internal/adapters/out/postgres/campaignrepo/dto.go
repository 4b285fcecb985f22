// Package campaignrepo persists campaign aggregates. A campaign row carries the
// card source discriminator and the custom asset fields; template designs live in
// the companion campaign_designs table, one row per campaign.
package campaignrepo

import (
	"time"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CampaignDTO is the row of the campaigns table.
type CampaignDTO struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderNumber        string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_campaigns_order_number"`
	SecureToken        string         `gorm:"type:char(64);not null;uniqueIndex:idx_campaigns_secure_token"`
	Name               string         `gorm:"type:varchar(255);not null"`
	ClientID           uuid.UUID      `gorm:"type:uuid;not null;index"`
	PartnerID          *uuid.UUID     `gorm:"type:uuid;index"`
	PostalCodes        pq.StringArray `gorm:"type:text[];not null"`
	Status             string         `gorm:"type:varchar(32);not null;index"`
	PrintingStatus     string         `gorm:"type:varchar(32);not null"`
	EstimatedPrice     float64        `gorm:"type:numeric(12,2);not null"`
	Faces              int            `gorm:"type:smallint;not null"`
	SpecialRequest     string         `gorm:"type:text;not null;default:''"`
	CardKind           string         `gorm:"type:varchar(32);not null"`
	CustomAssetRef     string         `gorm:"type:varchar(512);not null;default:''"`
	CustomFileName     string         `gorm:"type:varchar(255);not null;default:''"`
	CustomContactEmail string         `gorm:"type:varchar(255);not null;default:''"`
	CustomContactPhone string         `gorm:"type:varchar(32);not null;default:''"`
	ActiveBatchID      *uuid.UUID     `gorm:"type:uuid;index"`
	Version            int            `gorm:"type:int;not null"`
	CreatedAt          time.Time      `gorm:"not null;index"`
	UpdatedAt          time.Time      `gorm:"not null"`
	Design             *DesignDTO     `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

func (CampaignDTO) TableName() string {
	return "campaigns"
}

// DesignDTO is the row of the campaign_designs table.
type DesignDTO struct {
	CampaignID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Template          string    `gorm:"type:varchar(32);not null"`
	Slogan            string    `gorm:"type:varchar(255);not null;default:''"`
	CompanyEmail      string    `gorm:"type:varchar(255);not null;default:''"`
	CompanyPhone      string    `gorm:"type:varchar(20);not null;default:''"`
	CompanyAddress    string    `gorm:"type:varchar(512);not null;default:''"`
	CompanyPostalCode string    `gorm:"type:varchar(10);not null;default:''"`
	AccentColor       string    `gorm:"type:char(7);not null"`
	ContactMethod     string    `gorm:"type:varchar(16);not null"`
	LogoRef           string    `gorm:"type:varchar(512);not null;default:''"`
	QRPayload         string    `gorm:"type:text;not null;default:''"`
}

func (DesignDTO) TableName() string {
	return "campaign_designs"
}

func fromDomain(c *campaign.Campaign) CampaignDTO {
	dto := CampaignDTO{
		ID:             c.ID().Google(),
		OrderNumber:    c.OrderNumber(),
		SecureToken:    c.SecureToken(),
		Name:           c.Name(),
		ClientID:       c.ClientID().Google(),
		PartnerID:      kernel.GooglePtr(c.PartnerID()),
		PostalCodes:    pq.StringArray(kernel.PostalCodesToStrings(c.PostalCodes())),
		Status:         c.Status().String(),
		PrintingStatus: c.PrintingStatus().String(),
		EstimatedPrice: c.EstimatedPrice(),
		Faces:          c.Faces(),
		SpecialRequest: c.SpecialRequest(),
		CardKind:       string(c.CardSource().Kind()),
		ActiveBatchID:  kernel.GooglePtr(c.ActiveBatchID()),
		Version:        c.Version(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}

	switch card := c.CardSource().(type) {
	case campaign.TemplateCard:
		dto.Design = designFromDomain(dto.ID, card.Design())
	case campaign.CustomAssetCard:
		dto.CustomAssetRef = card.AssetRef()
		dto.CustomFileName = card.FileName()
		dto.CustomContactEmail = card.ContactEmail()
		dto.CustomContactPhone = card.ContactPhone()
	}

	return dto
}

func designFromDomain(campaignID uuid.UUID, d campaign.Design) *DesignDTO {
	p := d.Params()
	return &DesignDTO{
		CampaignID:        campaignID,
		Template:          p.Template,
		Slogan:            p.Slogan,
		CompanyEmail:      p.CompanyEmail,
		CompanyPhone:      p.CompanyPhone,
		CompanyAddress:    p.CompanyAddress,
		CompanyPostalCode: p.CompanyPostalCode,
		AccentColor:       p.AccentColor,
		ContactMethod:     p.ContactMethod,
		LogoRef:           p.LogoRef,
		QRPayload:         d.QRPayload(),
	}
}

func toDomain(dto CampaignDTO) (*campaign.Campaign, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromGoogle(dto.ClientID)
	if err != nil {
		return nil, err
	}
	codes, err := kernel.PostalCodesFromStrings(dto.PostalCodes)
	if err != nil {
		return nil, err
	}
	status, err := campaign.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	printingStatus, err := campaign.ParsePrintingStatus(dto.PrintingStatus)
	if err != nil {
		return nil, err
	}
	card, err := cardToDomain(dto)
	if err != nil {
		return nil, err
	}

	return campaign.RestoreCampaign(campaign.RestoreParams{
		NewParams: campaign.NewParams{
			ID:             id,
			OrderNumber:    dto.OrderNumber,
			SecureToken:    dto.SecureToken,
			Name:           dto.Name,
			ClientID:       clientID,
			PostalCodes:    codes,
			EstimatedPrice: dto.EstimatedPrice,
			Faces:          dto.Faces,
			SpecialRequest: dto.SpecialRequest,
			CardSource:     card,
			CreatedAt:      dto.CreatedAt,
		},
		PartnerID:      kernel.UUIDPtrFromGoogle(dto.PartnerID),
		Status:         status,
		PrintingStatus: printingStatus,
		ActiveBatchID:  kernel.UUIDPtrFromGoogle(dto.ActiveBatchID),
		Version:        dto.Version,
		UpdatedAt:      dto.UpdatedAt,
	})
}

func cardToDomain(dto CampaignDTO) (campaign.CardSource, error) {
	if campaign.CardKind(dto.CardKind) == campaign.CardKindCustomAsset {
		return campaign.NewCustomAssetCard(
			dto.CustomAssetRef, dto.CustomFileName, dto.CustomContactEmail, dto.CustomContactPhone)
	}

	d := dto.Design
	if d == nil {
		return campaign.NewTemplateCard(campaign.NewDesign(campaign.DesignParams{})), nil
	}
	return campaign.NewTemplateCard(campaign.RestoreDesign(campaign.DesignParams{
		Template:          d.Template,
		Slogan:            d.Slogan,
		CompanyEmail:      d.CompanyEmail,
		CompanyPhone:      d.CompanyPhone,
		CompanyAddress:    d.CompanyAddress,
		CompanyPostalCode: d.CompanyPostalCode,
		AccentColor:       d.AccentColor,
		ContactMethod:     d.ContactMethod,
		LogoRef:           d.LogoRef,
	}, d.QRPayload)), nil
}
