package queries

import (
	"context"

	"bagpub/internal/core/domain/model/campaign"
	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SuggestBatchesQueryHandler reads the unbatched CREATED campaigns in one statement
// and hands the snapshot to the postal code aggregator.
//
// Example:
//
//	handler := NewSuggestBatchesQueryHandler(db)
//	suggestions, err := handler.Handle(ctx, NewSuggestBatchesQuery())
//	if err != nil {
//	    return err
//	}
//	for _, s := range suggestions {
//	    fmt.Printf("%s: %d campaigns\n", s.PostalCode, s.CampaignsCount)
//	}
type SuggestBatchesQueryHandler struct {
	db         *gorm.DB
	aggregator services.PostalCodeAggregator
}

func NewSuggestBatchesQueryHandler(db *gorm.DB) SuggestBatchesQueryHandler {
	return SuggestBatchesQueryHandler{db: db, aggregator: services.NewPostalCodeAggregator()}
}

// Handle returns the suggestions in order of first postal code appearance, campaigns
// being read oldest first.
func (h SuggestBatchesQueryHandler) Handle(
	ctx context.Context,
	query SuggestBatchesQuery,
) ([]services.BatchSuggestion, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.postal_codes,
			c.estimated_price,
			COALESCE(NULLIF(TRIM(cl.company_name), ''), cl.username, '') AS client_name
		FROM campaigns c
		LEFT JOIN clients cl ON cl.id = c.client_id
		WHERE c.status = ? AND c.active_batch_id IS NULL
		ORDER BY c.created_at, c.order_number
	`, campaign.StatusCreated.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	planned := make([]services.PlannedCampaign, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			codes      pq.StringArray
			price      float64
			clientName string
		)
		if err = rows.Scan(&id, &codes, &price, &clientName); err != nil {
			return nil, err
		}

		campaignID, idErr := kernel.UUIDFromGoogle(id)
		if idErr != nil {
			return nil, idErr
		}
		postalCodes, codesErr := kernel.PostalCodesFromStrings(codes)
		if codesErr != nil {
			return nil, codesErr
		}

		planned = append(planned, services.PlannedCampaign{
			ID:             campaignID,
			PostalCodes:    postalCodes,
			Quantity:       campaign.Quantity,
			ClientName:     clientName,
			EstimatedPrice: price,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return h.aggregator.Suggest(planned), nil
}
