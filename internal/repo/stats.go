// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
)

// HistoryStats returns aggregate metadata for one tool's history: the total
// number of rows plus the CreatedAt and ID of the newest one. Rows are never
// updated, so these values change exactly when a row is added or removed.
//
// When ownerID is non-nil only that user's rows are considered. With no rows
// the returned count is 0 and maxCreatedAt is nil.
func HistoryStats(ctx context.Context, db *gorm.DB, tool string, ownerID *uint) (count int64, maxCreatedAt *time.Time, maxID uint, err error) {
	scope := func() *gorm.DB {
		q := db.WithContext(ctx).Model(&domain.History{}).Where("tool_name = ?", tool)
		if ownerID != nil {
			q = q.Where("user_id = ?", *ownerID)
		}
		return q
	}

	// Count
	if err = scope().Count(&count).Error; err != nil {
		return 0, nil, 0, err
	}
	if count == 0 {
		return 0, nil, 0, nil
	}

	// Latest row (avoid MAX() -> TEXT in SQLite)
	var row struct {
		ID        uint
		CreatedAt time.Time
	}
	if err = scope().Select("id", "created_at").Order("created_at DESC").Order("id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, 0, err
	}
	return count, &row.CreatedAt, row.ID, nil
}
