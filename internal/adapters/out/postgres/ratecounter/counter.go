// Package ratecounter implements ports.RateCounter as a fixed-window counter table.
// Every service instance shares the table, so the limit holds across instances.
package ratecounter

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterDTO is one row of rate_counters: the hits of key within the window
// starting at WindowStart.
type CounterDTO struct {
	Key         string    `gorm:"type:varchar(128);primaryKey"`
	WindowStart time.Time `gorm:"primaryKey"`
	Count       int       `gorm:"type:int;not null"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

func (CounterDTO) TableName() string {
	return "rate_counters"
}

// GormRateCounter increments counters with a single upsert statement.
type GormRateCounter struct {
	db *gorm.DB
}

func NewGormRateCounter(db *gorm.DB) *GormRateCounter {
	return &GormRateCounter{db: db}
}

// Increment adds one to the counter of key for the window and returns the new count.
func (c *GormRateCounter) Increment(
	ctx context.Context,
	key string,
	windowStart time.Time,
	window time.Duration,
) (int, error) {
	row := CounterDTO{
		Key:         key,
		WindowStart: windowStart.UTC(),
		Count:       1,
		ExpiresAt:   windowStart.Add(window).UTC(),
	}

	err := c.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}, {Name: "window_start"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count": gorm.Expr("rate_counters.count + 1"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "count"}}},
	).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}

// PurgeExpired deletes the counters whose window ended before now and returns how many.
func (c *GormRateCounter) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := c.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&CounterDTO{})
	return result.RowsAffected, result.Error
}
