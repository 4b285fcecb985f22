// Package auditrepo appends audit log entries to the campaign_logs table.
package auditrepo

import (
	"context"
	"errors"
	"time"

	"bagpub/internal/core/domain/model/auditlog"
	"bagpub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryDTO is one row of campaign_logs. Campaign and batch ids are both nullable;
// a row scoped to a campaign inside a batch carries both. Seq orders entries that
// share a timestamp.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq        int64      `gorm:"autoIncrement"`
	CampaignID *uuid.UUID `gorm:"type:uuid;index:idx_campaign_logs_campaign,priority:1"`
	BatchID    *uuid.UUID `gorm:"type:uuid;index:idx_campaign_logs_batch,priority:1"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"type:varchar(32);not null"`
	Details    string     `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time  `gorm:"not null;index:idx_campaign_logs_campaign,priority:2;index:idx_campaign_logs_batch,priority:2"`
}

func (EntryDTO) TableName() string {
	return "campaign_logs"
}

// GormAuditLogRepository implements ports.AuditLogRepository using GORM.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GORM audit log repository.
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts entries in one statement, preserving their order.
func (r *GormAuditLogRepository) Append(ctx context.Context, entries ...*auditlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return errors.Join(errors.New("invalid audit entry"), err)
		}
		dtos = append(dtos, fromDomain(e))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

func fromDomain(e *auditlog.Entry) EntryDTO {
	return EntryDTO{
		ID:         e.ID().Google(),
		CampaignID: kernel.GooglePtr(e.CampaignID()),
		BatchID:    kernel.GooglePtr(e.BatchID()),
		ActorID:    kernel.GooglePtr(e.ActorID()),
		Action:     e.Action().String(),
		Details:    e.Details(),
		CreatedAt:  e.CreatedAt(),
	}
}
