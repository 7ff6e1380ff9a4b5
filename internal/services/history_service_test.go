package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
)

func seedRows(t *testing.T, db *gorm.DB, tool domain.Tool, owner *uint, n int) []domain.History {
	t.Helper()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]domain.History, 0, n)
	for i := 0; i < n; i++ {
		h := domain.History{
			ToolName:  string(tool),
			InputText: domain.StrPtr(fmt.Sprintf("row %d", i)),
			UserID:    owner,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&h).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, h)
	}
	return out
}

func seedUser(t *testing.T, db *gorm.DB, name string, admin bool) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", IsAdmin: admin}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestHistoryList_Caps(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	seedRows(t, db, domain.ToolPromptToImage, nil, 10)
	seedRows(t, db, domain.ToolPromptEnhancer, nil, 10)

	got, err := svc.List(ctx, domain.ToolPromptToImage, nil, 0, DefaultHistoryLimit)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != DefaultHistoryLimit {
		t.Fatalf("expected %d rows, got %d", DefaultHistoryLimit, len(got))
	}
	if domain.Deref(got[0].InputText) != "row 9" {
		t.Fatalf("newest row should come first, got %q", domain.Deref(got[0].InputText))
	}

	// The cap follows the endpoint: the enhancer tool listed through
	// get-history still gets the default cap.
	got, _ = svc.List(ctx, domain.ToolPromptEnhancer, nil, 100, DefaultHistoryLimit)
	if len(got) != DefaultHistoryLimit {
		t.Fatalf("get-history cap for prompt-enhancer: expected %d, got %d", DefaultHistoryLimit, len(got))
	}
	got, _ = svc.List(ctx, domain.ToolPromptEnhancer, nil, 100, EnhancerHistoryLimit)
	if len(got) != EnhancerHistoryLimit {
		t.Fatalf("enhancer cap: expected %d, got %d", EnhancerHistoryLimit, len(got))
	}

	got, _ = svc.List(ctx, domain.ToolPromptToImage, nil, 2, DefaultHistoryLimit)
	if len(got) != 2 {
		t.Fatalf("a lower limit should be honored, got %d", len(got))
	}

	got, err = svc.List(ctx, domain.ToolStoryImage, nil, 0, DefaultHistoryLimit)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty tool: %v %d", err, len(got))
	}

	if _, err := svc.List(ctx, domain.Tool("nope"), nil, 0, DefaultHistoryLimit); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestParseTool(t *testing.T) {
	if _, err := ParseTool(""); !errors.Is(err, ErrToolRequired) {
		t.Fatalf("expected ErrToolRequired, got %v", err)
	}
	if _, err := ParseTool("chat"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if tool, err := ParseTool("social/generate"); err != nil || tool != domain.ToolSocialPost {
		t.Fatalf("ParseTool(social/generate) = %q, %v", tool, err)
	}
	if EffectiveLimit(0, EnhancerHistoryLimit) != 8 || EffectiveLimit(50, DefaultHistoryLimit) != 6 ||
		EffectiveLimit(3, DefaultHistoryLimit) != 3 || EffectiveLimit(0, 0) != DefaultHistoryLimit {
		t.Fatalf("unexpected effective limits")
	}
}

func TestHistoryDelete_Twice(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()
	rows := seedRows(t, db, domain.ToolInstaStory, nil, 1)

	if err := svc.Delete(ctx, rows[0].ID, nil); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := svc.Delete(ctx, rows[0].ID, nil)
	if !errors.Is(err, ErrRecordNotFound) || KindOf(err) != KindNotFound {
		t.Fatalf("second delete: expected ErrRecordNotFound, got %v", err)
	}
	if MessageOf(err) != "Record not found" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
	if err := svc.Delete(ctx, 0, nil); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestHistory_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db, EnforceOwnership: true}
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	bob := seedUser(t, db, "bob", false)
	root := seedUser(t, db, "root", true)
	aliceRows := seedRows(t, db, domain.ToolPromptToImage, &alice.ID, 2)
	seedRows(t, db, domain.ToolPromptToImage, &bob.ID, 3)

	got, err := svc.List(ctx, domain.ToolPromptToImage, alice, 0, DefaultHistoryLimit)
	if err != nil || len(got) != 2 {
		t.Fatalf("alice should see 2 rows, got %d (%v)", len(got), err)
	}
	got, _ = svc.List(ctx, domain.ToolPromptToImage, root, 0, DefaultHistoryLimit)
	if len(got) != 5 {
		t.Fatalf("admin should see all rows, got %d", len(got))
	}

	count, maxAt, _, err := svc.Stats(ctx, domain.ToolPromptToImage, alice)
	if err != nil || count != 2 || maxAt == nil {
		t.Fatalf("Stats = %d %v %v", count, maxAt, err)
	}

	if err := svc.Delete(ctx, aliceRows[0].ID, bob); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("foreign delete should look like a missing row, got %v", err)
	}
	if err := svc.Delete(ctx, aliceRows[0].ID, nil); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("anonymous delete should be rejected, got %v", err)
	}
	if err := svc.Delete(ctx, aliceRows[0].ID, alice); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, aliceRows[1].ID, root); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestHistory_OwnershipOffIsShared(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	bob := seedUser(t, db, "bob", false)
	rows := seedRows(t, db, domain.ToolHaircutPreview, &alice.ID, 1)
	seedRows(t, db, domain.ToolHaircutPreview, nil, 1)

	got, _ := svc.List(ctx, domain.ToolHaircutPreview, bob, 0, DefaultHistoryLimit)
	if len(got) != 2 {
		t.Fatalf("shared listing expected 2 rows, got %d", len(got))
	}
	if err := svc.Delete(ctx, rows[0].ID, bob); err != nil {
		t.Fatalf("shared delete: %v", err)
	}
}
