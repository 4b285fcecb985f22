package queries

import (
	"context"
	"time"

	"bagpub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const selectLogEntries = `
	SELECT
		l.id,
		l.campaign_id,
		COALESCE(c.order_number, ''),
		l.batch_id,
		COALESCE(b.batch_number, ''),
		l.actor_id,
		l.action,
		l.details,
		l.created_at
	FROM campaign_logs l
	LEFT JOIN campaigns c ON c.id = l.campaign_id
	LEFT JOIN print_batches b ON b.id = l.batch_id
`

// ListLogsQueryHandler answers both log listings.
//
// Example:
//
//	handler := NewListLogsQueryHandler(db)
//	query, err := NewListCampaignLogsQuery(campaignID, 50)
//	if err != nil {
//	    return err
//	}
//	entries, err := handler.HandleCampaign(ctx, query)
type ListLogsQueryHandler struct {
	db *gorm.DB
}

func NewListLogsQueryHandler(db *gorm.DB) ListLogsQueryHandler {
	return ListLogsQueryHandler{db: db}
}

// HandleCampaign returns the entries of one campaign, newest first. An unknown
// campaign yields an empty list.
func (h ListLogsQueryHandler) HandleCampaign(
	ctx context.Context,
	query ListCampaignLogsQuery,
) ([]LogEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.list(ctx,
		selectLogEntries+`WHERE l.campaign_id = ? ORDER BY l.created_at DESC, l.seq DESC LIMIT ?`,
		query.CampaignID().Google(), query.Limit())
}

// HandleBatch returns the entries of one batch, newest first.
func (h ListLogsQueryHandler) HandleBatch(
	ctx context.Context,
	query ListBatchLogsQuery,
) ([]LogEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.list(ctx,
		selectLogEntries+`WHERE l.batch_id = ? ORDER BY l.created_at DESC, l.seq DESC LIMIT ?`,
		query.BatchID().Google(), query.Limit())
}

func (h ListLogsQueryHandler) list(ctx context.Context, sqlText string, args ...any) ([]LogEntryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LogEntryResponse, 0)
	for rows.Next() {
		var (
			id                    uuid.UUID
			campaignID, batchID   *uuid.UUID
			actorID               *uuid.UUID
			orderNumber, batchNum string
			action, details       string
			createdAt             time.Time
		)
		if err = rows.Scan(&id, &campaignID, &orderNumber, &batchID, &batchNum,
			&actorID, &action, &details, &createdAt); err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromGoogle(id)
		if idErr != nil {
			return nil, idErr
		}
		entries = append(entries, LogEntryResponse{
			ID:          entryID,
			CampaignID:  kernel.UUIDPtrFromGoogle(campaignID),
			OrderNumber: orderNumber,
			BatchID:     kernel.UUIDPtrFromGoogle(batchID),
			BatchNumber: batchNum,
			ActorID:     kernel.UUIDPtrFromGoogle(actorID),
			Action:      action,
			Details:     details,
			CreatedAt:   createdAt,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
