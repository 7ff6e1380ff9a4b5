// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the History
// ledger.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// persistence and query composition. History rows are append-only, so there
// is deliberately no update function.
//
// Error semantics:
//   - When a row is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateHistory inserts h inside its own transaction. ID is assigned by the
// database; CreatedAt is set to UTC now when the caller left it zero.
func CreateHistory(ctx context.Context, db *gorm.DB, h *domain.History) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(h).Error
	})
}

// GetHistory fetches a single row by id, or ErrNotFound.
func GetHistory(ctx context.Context, db *gorm.DB, id uint) (*domain.History, error) {
	var h domain.History
	if err := db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHistoryByTool returns at most limit rows for tool, newest first. When
// ownerID is non-nil only that user's rows are returned. A non-positive limit
// returns an empty slice.
func ListHistoryByTool(ctx context.Context, db *gorm.DB, tool string, ownerID *uint, limit int) ([]domain.History, error) {
	out := []domain.History{}
	if limit <= 0 {
		return out, nil
	}
	q := db.WithContext(ctx).Where("tool_name = ?", tool)
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// DeleteHistory removes the row with id. It returns ErrNotFound when no row
// was deleted.
func DeleteHistory(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.History{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
