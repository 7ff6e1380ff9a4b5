// Package handlers exposes the gateway's HTTP endpoints.
//
// Handlers are transport-thin: they bind the request, call an application
// service, and translate the result (or a services.Error) into JSON. The
// services are consumed through the interfaces below so tests can stub them.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// GenerationService runs one generation pipeline per tool. Each call either
// returns a result with its freshly appended history row or an error, in
// which case nothing was written.
type GenerationService interface {
	PromptToImage(ctx context.Context, owner *uint, in services.PromptToImageInput) (*services.ImageResult, error)
	ImageToStyle(ctx context.Context, owner *uint, in services.ImageToStyleInput) (*services.ImageResult, error)
	SpecsTryOn(ctx context.Context, owner *uint, in services.SpecsTryOnInput) (*services.ImageResult, error)
	HaircutPreview(ctx context.Context, owner *uint, in services.HaircutInput) (*services.ImageResult, error)
	InstaStory(ctx context.Context, owner *uint, in services.InstaStoryInput) (*services.ImageResult, error)
	SocialPost(ctx context.Context, owner *uint, in services.SocialPostInput) (*services.SocialResult, error)
	StoryImage(ctx context.Context, owner *uint, in services.StoryImageInput) (*services.StoryResult, error)
	EnhancePrompt(ctx context.Context, owner *uint, prompt string) (*services.EnhanceResult, error)
}

// HistoryService reads and deletes history rows on behalf of a viewer
// (nil for anonymous requests).
type HistoryService interface {
	List(ctx context.Context, tool domain.Tool, viewer *domain.User, limit, max int) ([]domain.History, error)
	Stats(ctx context.Context, tool domain.Tool, viewer *domain.User) (int64, *time.Time, uint, error)
	Delete(ctx context.Context, id uint, viewer *domain.User) error
}

// AuthService registers and signs in users.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, ident, password string) (*services.Session, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints.
type Handlers struct {
	gen  GenerationService
	hist HistoryService
	auth AuthService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(gen GenerationService, hist HistoryService, auth AuthService) *Handlers {
	return &Handlers{gen: gen, hist: hist, auth: auth}
}

// formUpload reads the multipart file field. A missing field, or a body that
// is not multipart at all, yields (nil, nil) so the service can report which
// input is required.
func formUpload(c *gin.Context, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		// A file input left empty is sent as a part with filename="", which
		// the multipart reader files under Value. Report it as an upload with
		// no name so the service can say nothing was selected.
		if mf := c.Request.MultipartForm; mf != nil {
			if _, sent := mf.Value[field]; sent {
				return &services.Upload{}, nil
			}
		}
		return nil, nil
	}
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := readPart(fh)
	if err != nil {
		return nil, err
	}
	return &services.Upload{Filename: fh.Filename, Data: data}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// formUploads reads several file fields, stopping at the first read error.
func formUploads(c *gin.Context, fields ...string) ([]*services.Upload, error) {
	out := make([]*services.Upload, len(fields))
	for i, f := range fields {
		u, err := formUpload(c, f)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}
