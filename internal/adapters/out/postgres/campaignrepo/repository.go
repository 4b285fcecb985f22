package campaignrepo

import (
	"context"
	"errors"
	"fmt"

	"bagpub/internal/adapters/out/postgres/pgerrs"
	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCampaignRepository implements ports.CampaignRepository using GORM.
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GORM campaign repository.
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Add inserts the campaign and, for template cards, its design row.
func (r *GormCampaignRepository) Add(ctx context.Context, aggregate *campaign.Campaign) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgerrs.Collision(err)
	}
	if dto.Design != nil {
		if err := db.Create(dto.Design).Error; err != nil {
			return err
		}
	}
	return nil
}

// Update writes the mutable columns when the stored version equals the aggregate's,
// then bumps the version on both sides.
func (r *GormCampaignRepository) Update(ctx context.Context, aggregate *campaign.Campaign) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&CampaignDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"partner_id":           dto.PartnerID,
			"status":               dto.Status,
			"printing_status":      dto.PrintingStatus,
			"card_kind":            dto.CardKind,
			"custom_asset_ref":     dto.CustomAssetRef,
			"custom_file_name":     dto.CustomFileName,
			"custom_contact_email": dto.CustomContactEmail,
			"custom_contact_phone": dto.CustomContactPhone,
			"active_batch_id":      dto.ActiveBatchID,
			"version":              gorm.Expr("version + 1"),
			"updated_at":           dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleOrMissing(ctx, aggregate)
	}

	if dto.Design != nil {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}},
			UpdateAll: true,
		}).Create(dto.Design).Error; err != nil {
			return err
		}
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *GormCampaignRepository) staleOrMissing(ctx context.Context, aggregate *campaign.Campaign) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CampaignDTO{}).
		Where("id = ?", aggregate.ID().Google()).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("campaign", aggregate.ID().String())
	}
	return errs.NewConflictError(fmt.Sprintf(
		"campaign %s was modified concurrently (version %d)", aggregate.OrderNumber(), aggregate.Version()))
}

// Get retrieves a campaign by ID.
func (r *GormCampaignRepository) Get(ctx context.Context, id kernel.UUID) (*campaign.Campaign, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CampaignDTO
	if err := r.db.WithContext(ctx).Preload("Design").First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("campaign", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany retrieves the campaigns that exist among ids.
func (r *GormCampaignRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*campaign.Campaign, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Google())
	}

	var dtos []CampaignDTO
	if err := r.db.WithContext(ctx).Preload("Design").Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	campaigns := make([]*campaign.Campaign, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}
