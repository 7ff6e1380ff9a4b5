package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-imagegen-backend/internal/auth"
	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/gateway"
	"github.com/tbourn/go-imagegen-backend/internal/prompt"
	"github.com/tbourn/go-imagegen-backend/internal/services"
	"github.com/tbourn/go-imagegen-backend/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.History{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const placeholderURL = "http://127.0.0.1:5000/generated/placeholder.png"

// newRealRouter wires the real services over db and the placeholder generator.
func newRealRouter(t *testing.T, db *gorm.DB) http.Handler {
	t.Helper()
	root := t.TempDir()
	st, err := storage.New(filepath.Join(root, "generated"), filepath.Join(root, "uploads"), "http://127.0.0.1:5000")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	gen := &services.GenerationService{DB: db, Prompts: prompt.New(), Gen: gateway.Placeholder{URL: placeholderURL}, Uploads: st}
	hist := &services.HistoryService{DB: db}
	authSvc := &services.AuthService{DB: db, Tokens: auth.NewTokenIssuer("test-secret-0123456789", time.Hour)}
	return newRouter(New(gen, hist, authSvc))
}

func TestEndToEnd_PromptToImage_ThenHistory(t *testing.T) {
	db := newTestDB(t)
	r := newRealRouter(t, db)
	const url = placeholderURL

	w, body := do(r, jsonReq(http.MethodPost, "/prompt-to-image", `{"prompt":"a cat","imgstyle":"anime","aspect":"1:1"}`))
	wantStatus(t, w, http.StatusOK)
	if body["success"] != true || body["image_url"] != url {
		t.Fatalf("body: %v", body)
	}

	var n int64
	db.Model(&domain.History{}).Where("tool_name = ?", domain.ToolPromptToImage).Count(&n)
	if n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}

	w, body = do(r, httptest.NewRequest(http.MethodGet, "/get-history?tool=prompt-to-image", nil))
	wantStatus(t, w, http.StatusOK)
	items := body["history"].([]any)
	if len(items) != 1 {
		t.Fatalf("history: %v", items)
	}
	it := items[0].(map[string]any)
	if it["input"] != "[Aspect Ratio: 1:1] | Prompt: a cat" || it["image"] != url || it["raw_input_img"] != nil {
		t.Fatalf("item: %v", it)
	}

	id := fmt.Sprint(it["id"])
	w, _ = do(r, httptest.NewRequest(http.MethodDelete, "/delete-history/"+id, nil))
	wantStatus(t, w, http.StatusOK)
	w, _ = do(r, httptest.NewRequest(http.MethodDelete, "/delete-history/"+id, nil))
	wantStatus(t, w, http.StatusNotFound)
}

func TestEndToEnd_HistoryCapFollowsEndpoint(t *testing.T) {
	db := newTestDB(t)
	r := newRealRouter(t, db)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		row := domain.History{
			ToolName:  string(domain.ToolPromptEnhancer),
			InputText: domain.StrPtr(fmt.Sprintf("p%d", i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w, body := do(r, httptest.NewRequest(http.MethodGet, "/get-history?tool=prompt-enhancer", nil))
	wantStatus(t, w, http.StatusOK)
	if n := len(body["history"].([]any)); n != services.DefaultHistoryLimit {
		t.Fatalf("get-history rows = %d; want %d", n, services.DefaultHistoryLimit)
	}
	generic := w.Header().Get("ETag")

	w, body = do(r, httptest.NewRequest(http.MethodGet, "/prompt-enhancer/history", nil))
	wantStatus(t, w, http.StatusOK)
	if n := len(body["history"].([]any)); n != services.EnhancerHistoryLimit {
		t.Fatalf("enhancer history rows = %d; want %d", n, services.EnhancerHistoryLimit)
	}
	if w.Header().Get("ETag") == generic {
		t.Fatalf("listings with different caps must not share an ETag")
	}
}

func TestEndToEnd_PersistenceFailure(t *testing.T) {
	db := newTestDB(t)
	r := newRealRouter(t, db)
	err := db.Callback().Create().After("gorm:create").Register("test:fail_history", func(tx *gorm.DB) {
		if tx.Statement.Table == "history" {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	w, body := do(r, jsonReq(http.MethodPost, "/prompt-to-image", `{"prompt":"a cat"}`))
	wantStatus(t, w, http.StatusInternalServerError)
	if body["success"] != false || body["code"] != ErrCodeInternal || body["error"] != services.MsgInternal {
		t.Fatalf("body: %v", body)
	}
	if _, leaked := body["image_url"]; leaked {
		t.Fatalf("a failed write must not return the image: %v", body)
	}

	var n int64
	db.Model(&domain.History{}).Count(&n)
	if n != 0 {
		t.Fatalf("rows=%d want 0", n)
	}
}

func TestEndToEnd_ImageStyle_EmptyFileInput(t *testing.T) {
	db := newTestDB(t)
	r := newRealRouter(t, db)

	// What a browser posts for a file input nobody picked a file for.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile("image", ""); err != nil {
		t.Fatalf("form file: %v", err)
	}
	_ = mw.WriteField("style", "Anime")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/image-style", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w, body := do(r, req)
	wantStatus(t, w, http.StatusBadRequest)
	if body["error"] != services.ErrNoImageSelected.Msg {
		t.Fatalf("body: %v", body)
	}

	// No image field at all keeps the other message.
	w, body = do(r, multipartReq(t, "/image-style", nil, map[string]string{"style": "Anime"}))
	wantStatus(t, w, http.StatusBadRequest)
	if body["error"] != services.ErrImageRequired.Msg {
		t.Fatalf("body: %v", body)
	}

	// The two-file tools fold an empty input into "Missing files".
	buf.Reset()
	mw = multipart.NewWriter(&buf)
	_, _ = mw.CreateFormFile("face", "")
	fw, _ := mw.CreateFormFile("specs", "specs.png")
	_, _ = fw.Write([]byte("x"))
	_ = mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/specs-tryon", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, body = do(r, req)
	wantStatus(t, w, http.StatusBadRequest)
	if body["error"] != services.ErrMissingFiles.Msg {
		t.Fatalf("body: %v", body)
	}

	var n int64
	db.Model(&domain.History{}).Count(&n)
	if n != 0 {
		t.Fatalf("rows=%d want 0", n)
	}
}
