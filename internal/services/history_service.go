// Package services – HistoryService
//
// This file implements HistoryService, which exposes the read and delete
// side of the History ledger. Listing is always capped; a client may lower
// the cap but never raise it. When ownership is enforced, non-admin viewers
// only see and delete their own rows, and rows they do not own are reported
// as not found.
package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/repo"
	"github.com/tbourn/go-imagegen-backend/internal/utils"
)

// Listing caps per endpoint: get-history serves every tool with the
// default cap, the enhancer page has its own.
const (
	DefaultHistoryLimit  = 6
	EnhancerHistoryLimit = 8
)

// HistoryService lists and deletes History rows.
type HistoryService struct {
	DB *gorm.DB
	// EnforceOwnership scopes reads and deletes to the viewer. It mirrors
	// AUTH_REQUIRED: without mandatory auth there is no reliable owner.
	EnforceOwnership bool
}

// ParseTool validates a wire tool name.
func ParseTool(raw string) (domain.Tool, error) {
	if raw == "" {
		return "", ErrToolRequired
	}
	t, ok := domain.ParseTool(raw)
	if !ok {
		return "", ErrUnknownTool
	}
	return t, nil
}

// scope returns the owner filter for viewer, or nil for an unscoped query.
func (s *HistoryService) scope(viewer *domain.User) *uint {
	if !s.EnforceOwnership || viewer == nil || viewer.IsAdmin {
		return nil
	}
	id := viewer.ID
	return &id
}

// EffectiveLimit is the row count a listing asks the store for: limit when
// it lies in [1, max], else max. A non-positive max means DefaultHistoryLimit.
func EffectiveLimit(limit, max int) int {
	if max <= 0 {
		max = DefaultHistoryLimit
	}
	return utils.ClampLimit(limit, max)
}

// List returns the newest rows of tool, at most EffectiveLimit(limit, max).
// The cap belongs to the caller's endpoint, not to the tool.
func (s *HistoryService) List(ctx context.Context, tool domain.Tool, viewer *domain.User, limit, max int) ([]domain.History, error) {
	n := EffectiveLimit(limit, max)
	ctx, span := otel.Tracer("services/HistoryService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("history.tool", string(tool)),
			attribute.Int("history.limit", n),
		),
	)
	defer span.End()

	if !tool.Valid() {
		return nil, ErrUnknownTool
	}
	rows, err := repo.ListHistoryByTool(ctx, s.DB, string(tool), s.scope(viewer), n)
	if err != nil {
		return nil, Internal(err)
	}
	return rows, nil
}

// Stats returns the values used to build a listing ETag.
func (s *HistoryService) Stats(ctx context.Context, tool domain.Tool, viewer *domain.User) (int64, *time.Time, uint, error) {
	count, maxAt, maxID, err := repo.HistoryStats(ctx, s.DB, string(tool), s.scope(viewer))
	if err != nil {
		return 0, nil, 0, Internal(err)
	}
	return count, maxAt, maxID, nil
}

// Delete removes the row id. Missing rows, and rows owned by someone else
// when ownership is enforced, yield ErrRecordNotFound.
func (s *HistoryService) Delete(ctx context.Context, id uint, viewer *domain.User) error {
	ctx, span := otel.Tracer("services/HistoryService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("history.id", int64(id))),
	)
	defer span.End()

	if id == 0 {
		return ErrInvalidID
	}

	checkOwner := s.EnforceOwnership && (viewer == nil || !viewer.IsAdmin)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if checkOwner {
			h, err := repo.GetHistory(ctx, tx, id)
			if err != nil {
				return err
			}
			if viewer == nil || h.UserID == nil || *h.UserID != viewer.ID {
				return repo.ErrNotFound
			}
		}
		return repo.DeleteHistory(ctx, tx, id)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRecordNotFound
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
