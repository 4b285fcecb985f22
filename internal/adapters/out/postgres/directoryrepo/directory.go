// Package directoryrepo reads clients and partners from the user directory tables.
// The tables are maintained by the account service; this package never writes them.
package directoryrepo

import (
	"context"
	"errors"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/model/party"
	"bagpub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName string    `gorm:"type:varchar(255);not null;default:''"`
	Username    string    `gorm:"type:varchar(150);not null"`
	Email       string    `gorm:"type:varchar(255);not null;default:''"`
	Phone       string    `gorm:"type:varchar(32);not null;default:''"`
	Active      bool      `gorm:"not null"`
}

func (ClientDTO) TableName() string {
	return "clients"
}

type PartnerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName string    `gorm:"type:varchar(255);not null"`
	Email       string    `gorm:"type:varchar(255);not null;default:''"`
	Phone       string    `gorm:"type:varchar(32);not null;default:''"`
	City        string    `gorm:"type:varchar(100);not null;default:''"`
	PostalCode  string    `gorm:"type:varchar(10);not null;default:''"`
	Active      bool      `gorm:"not null"`
}

func (PartnerDTO) TableName() string {
	return "partners"
}

// GormUserDirectory implements ports.UserDirectory using GORM.
type GormUserDirectory struct {
	db *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// GetClient returns inactive clients too; callers decide what inactivity means.
func (d *GormUserDirectory) GetClient(ctx context.Context, id kernel.UUID) (party.Client, error) {
	if err := id.Validate(); err != nil {
		return party.Client{}, err
	}

	var dto ClientDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return party.Client{}, errs.NewObjectNotFoundError("client", id.String())
		}
		return party.Client{}, err
	}
	return clientToDomain(dto), nil
}

// GetClients resolves ids in one query. Unknown ids are left out of the map.
func (d *GormUserDirectory) GetClients(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]party.Client, error) {
	clients := make(map[kernel.UUID]party.Client, len(ids))
	if len(ids) == 0 {
		return clients, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Google())
	}

	var dtos []ClientDTO
	if err := d.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		c := clientToDomain(dto)
		clients[c.ID] = c
	}
	return clients, nil
}

// GetPartner only resolves active partners; a deactivated partner cannot take new batches.
func (d *GormUserDirectory) GetPartner(ctx context.Context, id kernel.UUID) (party.Partner, error) {
	if err := id.Validate(); err != nil {
		return party.Partner{}, err
	}

	var dto PartnerDTO
	err := d.db.WithContext(ctx).First(&dto, "id = ? AND active", id.Google()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return party.Partner{}, errs.NewObjectNotFoundError("partner", id.String())
		}
		return party.Partner{}, err
	}

	partnerID, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return party.Partner{}, err
	}
	return party.Partner{
		ID:          partnerID,
		CompanyName: dto.CompanyName,
		Email:       dto.Email,
		Phone:       dto.Phone,
		City:        dto.City,
		PostalCode:  dto.PostalCode,
		Active:      dto.Active,
	}, nil
}

func clientToDomain(dto ClientDTO) party.Client {
	// ids come from a uuid primary key and are never nil
	id, _ := kernel.UUIDFromGoogle(dto.ID)
	return party.Client{
		ID:          id,
		CompanyName: dto.CompanyName,
		Username:    dto.Username,
		Email:       dto.Email,
		Phone:       dto.Phone,
		Active:      dto.Active,
	}
}
