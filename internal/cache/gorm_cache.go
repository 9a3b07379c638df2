package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

// DistanceCacheModel is the GORM model for the distance_cache table.
type DistanceCacheModel struct {
	RouteKey    string    `gorm:"primaryKey;size:512"`
	DistanceKm  float64   `gorm:"not null"`
	DurationMin *int      `gorm:""`
	ExpiresAt   time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (DistanceCacheModel) TableName() string {
	return "distance_cache"
}

// GormCache keeps distance results in Postgres so they survive restarts.
type GormCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormCache creates a GormCache. A nil clock means time.Now.
func NewGormCache(db *gorm.DB, ttl time.Duration, now func() time.Time) *GormCache {
	if now == nil {
		now = time.Now
	}
	return &GormCache{db: db, ttl: ttl, now: now}
}

// Migrate creates or updates the distance_cache table.
func (c *GormCache) Migrate() error {
	if err := c.db.AutoMigrate(&DistanceCacheModel{}); err != nil {
		return fmt.Errorf("migrate distance_cache: %w", err)
	}
	return nil
}

// Get returns the unexpired entry for key.
func (c *GormCache) Get(ctx context.Context, key string) (quote.DistanceResult, bool, error) {
	var model DistanceCacheModel
	err := c.db.WithContext(ctx).
		Where("route_key = ? AND expires_at > ?", key, c.now().UTC()).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quote.DistanceResult{}, false, nil
	}
	if err != nil {
		return quote.DistanceResult{}, false, fmt.Errorf("find cached distance: %w", err)
	}
	return quote.DistanceResult{DistanceKm: model.DistanceKm, DurationMin: model.DurationMin, Source: quote.SourceCache}, true, nil
}

// Put upserts the entry for key with a fresh expiry.
func (c *GormCache) Put(ctx context.Context, key string, result quote.DistanceResult) error {
	now := c.now().UTC()
	model := DistanceCacheModel{
		RouteKey:    key,
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		ExpiresAt:   now.Add(c.ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "route_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"distance_km", "duration_min", "expires_at", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("upsert cached distance: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (c *GormCache) DeleteExpired(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("expires_at <= ?", c.now().UTC()).
		Delete(&DistanceCacheModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired distances: %w", res.Error)
	}
	return res.RowsAffected, nil
}
