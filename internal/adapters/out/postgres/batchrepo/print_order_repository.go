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

// GormPrintOrderRepository implements ports.PrintOrderRepository using GORM.
type GormPrintOrderRepository struct {
	db *gorm.DB
}

// NewGormPrintOrderRepository creates a new GORM print order repository.
func NewGormPrintOrderRepository(db *gorm.DB) *GormPrintOrderRepository {
	return &GormPrintOrderRepository{db: db}
}

// GetOrCreate inserts order unless its batch already has one. A clash on the
// order number itself surfaces as errs.ErrIdentifierCollision.
func (r *GormPrintOrderRepository) GetOrCreate(
	ctx context.Context,
	order *batch.PrintOrder,
) (*batch.PrintOrder, bool, error) {
	if err := order.Validate(); err != nil {
		return nil, false, err
	}

	dto := printOrderFromDomain(order)
	db := r.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "batch_id"}},
		DoNothing: true,
	}).Create(&dto)
	if result.Error != nil {
		return nil, false, pgerrs.Collision(result.Error)
	}
	if result.RowsAffected == 1 {
		return order, true, nil
	}

	var existing PrintOrderDTO
	if err := db.First(&existing, "batch_id = ?", dto.BatchID).Error; err != nil {
		return nil, false, err
	}
	stored, err := printOrderToDomain(existing)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// Get retrieves a print order by ID.
func (r *GormPrintOrderRepository) Get(ctx context.Context, id kernel.UUID) (*batch.PrintOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PrintOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("print_order", id.String())
		}
		return nil, err
	}

	return printOrderToDomain(dto)
}

// Update writes the status and timestamps of an existing order.
func (r *GormPrintOrderRepository) Update(ctx context.Context, order *batch.PrintOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}

	dto := printOrderFromDomain(order)
	result := r.db.WithContext(ctx).Model(&PrintOrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":       dto.Status,
			"started_at":   dto.StartedAt,
			"completed_at": dto.CompletedAt,
			"shipped_at":   dto.ShippedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("print_order", order.ID().String())
	}
	return nil
}
