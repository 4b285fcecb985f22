package batchrepo

import (
	"context"
	"errors"

	"bagpub/internal/adapters/out/postgres/pgerrs"
	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements ports.BatchRepository using GORM.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// Add inserts the batch row and its membership rows.
func (r *GormBatchRepository) Add(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgerrs.Collision(err)
	}
	if len(dto.Members) > 0 {
		if err := db.Create(&dto.Members).Error; err != nil {
			return err
		}
	}
	return nil
}

// Update writes partner, status and timestamps.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BatchDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"partner_id":   dto.PartnerID,
			"status":       dto.Status,
			"printed_at":   dto.PrintedAt,
			"delivered_at": dto.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("batch", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a batch with its members in insertion order.
func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Google()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
