// Package batchrepo persists print batches, their membership history and the
// print orders issued for them.
package batchrepo

import (
	"time"

	"bagpub/internal/core/domain/model/batch"
	"bagpub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BatchDTO is the row of the print_batches table.
type BatchDTO struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	BatchNumber string      `gorm:"type:varchar(64);not null;uniqueIndex:idx_print_batches_batch_number"`
	PostalCode  string      `gorm:"type:char(5);not null;index"`
	PartnerID   *uuid.UUID  `gorm:"type:uuid;index"`
	Status      string      `gorm:"type:varchar(32);not null;index"`
	CreatedAt   time.Time   `gorm:"not null"`
	PrintedAt   *time.Time
	DeliveredAt *time.Time
	Members     []MemberDTO `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

func (BatchDTO) TableName() string {
	return "print_batches"
}

// MemberDTO records that a campaign was put into a batch. Rows are never removed:
// a campaign moved to another batch keeps its earlier membership as history.
type MemberDTO struct {
	BatchID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CampaignID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position   int       `gorm:"type:int;not null"`
	AddedAt    time.Time `gorm:"not null"`
}

func (MemberDTO) TableName() string {
	return "print_batch_campaigns"
}

// PrintOrderDTO is the row of the print_orders table. batch_id is unique: a batch
// gets at most one print order.
type PrintOrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_print_orders_batch_id"`
	OrderNumber string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_print_orders_order_number"`
	Status      string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	ShippedAt   *time.Time
}

func (PrintOrderDTO) TableName() string {
	return "print_orders"
}

func fromDomain(b *batch.Batch) BatchDTO {
	batchID := b.ID().Google()
	memberIDs := b.MemberIDs()
	members := make([]MemberDTO, 0, len(memberIDs))
	for i, id := range memberIDs {
		members = append(members, MemberDTO{
			BatchID:    batchID,
			CampaignID: id.Google(),
			Position:   i,
			AddedAt:    b.CreatedAt(),
		})
	}

	return BatchDTO{
		ID:          batchID,
		BatchNumber: b.BatchNumber(),
		PostalCode:  b.PostalCode().String(),
		PartnerID:   kernel.GooglePtr(b.PartnerID()),
		Status:      b.Status().String(),
		CreatedAt:   b.CreatedAt(),
		PrintedAt:   b.PrintedAt(),
		DeliveredAt: b.DeliveredAt(),
		Members:     members,
	}
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	postalCode, err := kernel.NewPostalCode(dto.PostalCode)
	if err != nil {
		return nil, err
	}
	status, err := batch.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	members := make([]kernel.UUID, 0, len(dto.Members))
	for _, m := range dto.Members {
		memberID, memberErr := kernel.UUIDFromGoogle(m.CampaignID)
		if memberErr != nil {
			return nil, memberErr
		}
		members = append(members, memberID)
	}

	return batch.RestoreBatch(batch.RestoreParams{
		ID:          id,
		BatchNumber: dto.BatchNumber,
		PostalCode:  postalCode,
		PartnerID:   kernel.UUIDPtrFromGoogle(dto.PartnerID),
		Status:      status,
		MemberIDs:   members,
		CreatedAt:   dto.CreatedAt,
		PrintedAt:   dto.PrintedAt,
		DeliveredAt: dto.DeliveredAt,
	})
}

func printOrderFromDomain(o *batch.PrintOrder) PrintOrderDTO {
	return PrintOrderDTO{
		ID:          o.ID().Google(),
		BatchID:     o.BatchID().Google(),
		OrderNumber: o.OrderNumber(),
		Status:      o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		StartedAt:   o.StartedAt(),
		CompletedAt: o.CompletedAt(),
		ShippedAt:   o.ShippedAt(),
	}
}

func printOrderToDomain(dto PrintOrderDTO) (*batch.PrintOrder, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	batchID, err := kernel.UUIDFromGoogle(dto.BatchID)
	if err != nil {
		return nil, err
	}
	status, err := batch.ParsePrintOrderStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return batch.RestorePrintOrder(batch.RestorePrintOrderParams{
		ID:          id,
		BatchID:     batchID,
		OrderNumber: dto.OrderNumber,
		Status:      status,
		CreatedAt:   dto.CreatedAt,
		StartedAt:   dto.StartedAt,
		CompletedAt: dto.CompletedAt,
		ShippedAt:   dto.ShippedAt,
	})
}
