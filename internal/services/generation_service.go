// Package services – GenerationService
//
// This file implements GenerationService, the component behind every
// generation endpoint. Each tool follows the same pipeline: validate the
// required inputs, fill optional ones from the tool's template defaults,
// store uploads, render the instruction prompt, call the Generator and
// append exactly one History row. Nothing is written when an earlier step
// fails, so a failed submission never leaves a partial row.
//
// Observability: all public methods are OpenTelemetry-instrumented; a
// Prometheus counter tracks appended rows per tool.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/gateway"
	"github.com/tbourn/go-imagegen-backend/internal/prompt"
	"github.com/tbourn/go-imagegen-backend/internal/repo"
	"github.com/tbourn/go-imagegen-backend/internal/storage"
)

const (
	// TextInput is stored as input_image for tools without an upload.
	TextInput = "Text Input"

	// MaxStoryScenes caps the number of scenes per story request.
	MaxStoryScenes = 4
	maxHashtags    = 5
)

// Uploader stores client uploads. storage.Store satisfies it.
type Uploader interface {
	SaveUpload(prefix, filename string, data []byte) (relPath, mime string, err error)
}

// Upload is one file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// GenerationService runs the per-tool generation pipelines.
type GenerationService struct {
	DB      *gorm.DB
	Prompts *prompt.Engine
	Gen     gateway.Generator
	Uploads Uploader

	// Now is optional and only overridden in tests.
	Now func() time.Time
}

// ImageResult is returned by tools producing a single image.
type ImageResult struct {
	URL     string
	History *domain.History
}

// SocialResult is returned by SocialPost.
type SocialResult struct {
	ImageURL string
	Caption  string
	Hashtags string
	Tips     string
	History  *domain.History
}

// Scene is one generated frame of a story.
type Scene struct {
	Number   int    `json:"scene"`
	ImageURL string `json:"image_url"`
}

// StoryResult is returned by StoryImage.
type StoryResult struct {
	Scenes  []Scene
	History *domain.History
}

// EnhanceResult is returned by EnhancePrompt.
type EnhanceResult struct {
	Original string
	Enhanced string
	History  *domain.History
}

type PromptToImageInput struct {
	Prompt string
	Style  string
	Aspect string
}

type ImageToStyleInput struct {
	Image       *Upload
	Style       string
	Instruction string
	Aspect      string
}

type SpecsTryOnInput struct {
	Face   *Upload
	Specs  *Upload
	Prompt string
}

type HaircutInput struct {
	Photo  *Upload
	Sample *Upload
	Prompt string
}

type InstaStoryInput struct {
	OverlayText string
	Style       string
}

type SocialPostInput struct {
	Prompt   string
	Platform string
}

type StoryImageInput struct {
	Prompt string
	Style  string
	// Scenes is the number of frames; 0 means MaxStoryScenes.
	Scenes int
}

func (s *GenerationService) tracer() trace.Tracer { return otel.Tracer("services/GenerationService") }

// PromptToImage generates an image from a text description.
func (s *GenerationService) PromptToImage(ctx context.Context, owner *uint, in PromptToImageInput) (*ImageResult, error) {
	const tool = domain.ToolPromptToImage
	ctx, span := s.tracer().Start(ctx, "PromptToImage")
	defer span.End()

	p := strings.TrimSpace(in.Prompt)
	if p == "" {
		return nil, ErrPromptRequired
	}
	style := s.field(tool, "style", in.Style)
	aspect := s.field(tool, "aspect", in.Aspect)

	final, err := s.render(tool, map[string]string{"prompt": p, "style": style, "aspect": aspect})
	if err != nil {
		return nil, err
	}
	url, err := s.generateImage(ctx, final, nil)
	if err != nil {
		return nil, err
	}
	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:   domain.StrPtr(fmt.Sprintf("[Aspect Ratio: %s] | Prompt: %s", aspect, p)),
		OutputText:  domain.StrPtr(final),
		OutputImage: domain.StrPtr(url),
	})
	if err != nil {
		return nil, err
	}
	return &ImageResult{URL: url, History: h}, nil
}

// ImageToStyle redraws an uploaded image in another style.
func (s *GenerationService) ImageToStyle(ctx context.Context, owner *uint, in ImageToStyleInput) (*ImageResult, error) {
	const tool = domain.ToolImageToStyle
	ctx, span := s.tracer().Start(ctx, "ImageToStyle")
	defer span.End()

	if in.Image == nil {
		return nil, ErrImageRequired
	}
	if strings.TrimSpace(in.Image.Filename) == "" {
		return nil, ErrNoImageSelected
	}
	style := s.field(tool, "style", in.Style)
	aspect := s.field(tool, "aspect", in.Aspect)
	instruction := strings.TrimSpace(in.Instruction)

	path, ref, err := s.saveUpload("style", in.Image)
	if err != nil {
		return nil, err
	}
	final, err := s.render(tool, map[string]string{"style": style, "instruction": instruction, "aspect": aspect})
	if err != nil {
		return nil, err
	}
	url, err := s.generateImage(ctx, final, []gateway.InlineImage{ref})
	if err != nil {
		return nil, err
	}

	output := instruction
	if output == "" {
		output = "Stylized as " + style
	}
	h, err := s.record(ctx, tool, owner, domain.History{
		InputText: domain.StrPtr(fmt.Sprintf("[Aspect ratio : %s] | Style: %s | Prompt : (File: %s)",
			aspect, style, storage.SecureFilename(in.Image.Filename))),
		InputImage:  domain.StrPtr(path),
		OutputText:  domain.StrPtr(output),
		OutputImage: domain.StrPtr(url),
	})
	if err != nil {
		return nil, err
	}
	return &ImageResult{URL: url, History: h}, nil
}

// SpecsTryOn places the glasses from one photo onto the face in another.
func (s *GenerationService) SpecsTryOn(ctx context.Context, owner *uint, in SpecsTryOnInput) (*ImageResult, error) {
	ctx, span := s.tracer().Start(ctx, "SpecsTryOn")
	defer span.End()
	return s.twoImage(ctx, domain.ToolSpecsTryOn, owner, in.Prompt,
		namedUpload{role: "face", prefix: "face", file: in.Face},
		namedUpload{role: "specs", prefix: "specs", file: in.Specs},
	)
}

// HaircutPreview applies the haircut from a sample photo to the user's photo.
func (s *GenerationService) HaircutPreview(ctx context.Context, owner *uint, in HaircutInput) (*ImageResult, error) {
	ctx, span := s.tracer().Start(ctx, "HaircutPreview")
	defer span.End()
	return s.twoImage(ctx, domain.ToolHaircutPreview, owner, in.Prompt,
		namedUpload{role: "face", prefix: "user", file: in.Photo},
		namedUpload{role: "sample", prefix: "hair", file: in.Sample},
	)
}

type namedUpload struct {
	role   string // key in the stored input_image object
	prefix string // file name prefix in the upload dir
	file   *Upload
}

func (s *GenerationService) twoImage(ctx context.Context, tool domain.Tool, owner *uint, userPrompt string, a, b namedUpload) (*ImageResult, error) {
	for _, u := range []namedUpload{a, b} {
		if u.file == nil || strings.TrimSpace(u.file.Filename) == "" {
			return nil, ErrMissingFiles
		}
	}
	p := s.field(tool, "prompt", userPrompt)

	paths := make(map[string]string, 2)
	refs := make([]gateway.InlineImage, 0, 2)
	for _, u := range []namedUpload{a, b} {
		path, ref, err := s.saveUpload(u.prefix, u.file)
		if err != nil {
			return nil, err
		}
		paths[u.role] = path
		refs = append(refs, ref)
	}
	inputImage, err := json.Marshal(paths)
	if err != nil {
		return nil, Internal(err)
	}

	final, err := s.render(tool, map[string]string{"prompt": p})
	if err != nil {
		return nil, err
	}
	url, err := s.generateImage(ctx, final, refs)
	if err != nil {
		return nil, err
	}
	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:   domain.StrPtr(p),
		InputImage:  domain.StrPtr(string(inputImage)),
		OutputText:  domain.StrPtr(final),
		OutputImage: domain.StrPtr(url),
	})
	if err != nil {
		return nil, err
	}
	return &ImageResult{URL: url, History: h}, nil
}

// InstaStory produces a vertical story template around an overlay text.
func (s *GenerationService) InstaStory(ctx context.Context, owner *uint, in InstaStoryInput) (*ImageResult, error) {
	const tool = domain.ToolInstaStory
	ctx, span := s.tracer().Start(ctx, "InstaStory")
	defer span.End()

	text := s.field(tool, "prompt", in.OverlayText)
	style := s.field(tool, "style", in.Style)

	final, err := s.render(tool, map[string]string{"prompt": text, "style": style})
	if err != nil {
		return nil, err
	}
	url, err := s.generateImage(ctx, final, nil)
	if err != nil {
		return nil, err
	}
	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:   domain.StrPtr("Prompt : " + text),
		InputImage:  domain.StrPtr(TextInput),
		OutputText:  domain.StrPtr(final),
		OutputImage: domain.StrPtr(url),
	})
	if err != nil {
		return nil, err
	}
	return &ImageResult{URL: url, History: h}, nil
}

// SocialPost produces a post image plus caption, hashtags and posting tips.
func (s *GenerationService) SocialPost(ctx context.Context, owner *uint, in SocialPostInput) (*SocialResult, error) {
	const tool = domain.ToolSocialPost
	ctx, span := s.tracer().Start(ctx, "SocialPost")
	defer span.End()

	platform := s.field(tool, "platform", in.Platform)
	p := s.field(tool, "prompt", in.Prompt)
	span.SetAttributes(attribute.String("social.platform", platform))
	fields := map[string]string{"platform": platform, "prompt": p}

	final, err := s.render(tool, fields)
	if err != nil {
		return nil, err
	}
	captionPrompt, err := s.render(prompt.SocialCaption, fields)
	if err != nil {
		return nil, err
	}
	url, err := s.generateImage(ctx, final, nil)
	if err != nil {
		return nil, err
	}
	caption, err := s.Gen.GenerateText(ctx, captionPrompt)
	if err != nil {
		return nil, Upstream(MsgTextGenerationErr, err)
	}

	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:   domain.StrPtr(fmt.Sprintf("Platform: %s | Prompt: %s", platform, p)),
		InputImage:  domain.StrPtr(TextInput),
		OutputText:  domain.StrPtr(caption),
		OutputImage: domain.StrPtr(url),
	})
	if err != nil {
		return nil, err
	}
	return &SocialResult{
		ImageURL: url,
		Caption:  caption,
		Hashtags: Hashtags(p),
		Tips:     PlatformTips(platform),
		History:  h,
	}, nil
}

// StoryImage generates 1..MaxStoryScenes consistent frames for a story and
// records them as one row.
func (s *GenerationService) StoryImage(ctx context.Context, owner *uint, in StoryImageInput) (*StoryResult, error) {
	const tool = domain.ToolStoryImage
	ctx, span := s.tracer().Start(ctx, "StoryImage")
	defer span.End()

	n := in.Scenes
	if n == 0 {
		n = MaxStoryScenes
	}
	if n < 1 || n > MaxStoryScenes {
		return nil, ErrSceneCount
	}
	span.SetAttributes(attribute.Int("story.scenes", n))
	p := s.field(tool, "prompt", in.Prompt)
	style := s.field(tool, "style", in.Style)

	scenes := make([]Scene, 0, n)
	urls := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		final, err := s.render(tool, map[string]string{
			"prompt": p, "style": style,
			"scene": fmt.Sprint(i), "scenes": fmt.Sprint(n),
		})
		if err != nil {
			return nil, err
		}
		url, err := s.generateImage(ctx, final, nil)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, Scene{Number: i, ImageURL: url})
		urls = append(urls, url)
	}
	list, err := json.Marshal(urls)
	if err != nil {
		return nil, Internal(err)
	}

	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:   domain.StrPtr(fmt.Sprintf("Style: %s | Prompt: %s", style, p)),
		InputImage:  domain.StrPtr(TextInput),
		OutputText:  domain.StrPtr(string(list)),
		OutputImage: domain.StrPtr(urls[0]),
	})
	if err != nil {
		return nil, err
	}
	return &StoryResult{Scenes: scenes, History: h}, nil
}

// EnhancePrompt rewrites a short prompt into a detailed one.
func (s *GenerationService) EnhancePrompt(ctx context.Context, owner *uint, simple string) (*EnhanceResult, error) {
	const tool = domain.ToolPromptEnhancer
	ctx, span := s.tracer().Start(ctx, "EnhancePrompt")
	defer span.End()

	simple = strings.TrimSpace(simple)
	if simple == "" {
		return nil, ErrPromptEmpty
	}
	instruction, err := s.render(tool, map[string]string{"prompt": simple})
	if err != nil {
		return nil, err
	}
	enhanced, err := s.Gen.GenerateText(ctx, instruction)
	if err != nil {
		return nil, Upstream(MsgTextGenerationErr, err)
	}
	h, err := s.record(ctx, tool, owner, domain.History{
		InputText:  domain.StrPtr(simple),
		OutputText: domain.StrPtr(enhanced),
	})
	if err != nil {
		return nil, err
	}
	return &EnhanceResult{Original: simple, Enhanced: enhanced, History: h}, nil
}

// --- pipeline steps ---

// field returns the trimmed value, or the tool template's default for key.
func (s *GenerationService) field(tool domain.Tool, key, value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	if tpl, ok := s.Prompts.Template(tool); ok {
		return tpl.Defaults[key]
	}
	return ""
}

func (s *GenerationService) render(tool domain.Tool, fields map[string]string) (string, error) {
	out, err := s.Prompts.Render(tool, fields)
	if err != nil {
		return "", Internal(err)
	}
	return out, nil
}

func (s *GenerationService) saveUpload(prefix string, u *Upload) (string, gateway.InlineImage, error) {
	path, mime, err := s.Uploads.SaveUpload(prefix, u.Filename, u.Data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", gateway.InlineImage{}, ErrUnsupportedImage
		}
		return "", gateway.InlineImage{}, Internal(err)
	}
	return path, gateway.InlineImage{MIMEType: mime, Data: u.Data}, nil
}

func (s *GenerationService) generateImage(ctx context.Context, final string, refs []gateway.InlineImage) (string, error) {
	url, err := s.Gen.GenerateImage(ctx, final, refs)
	if err != nil {
		return "", Upstream(MsgGenerationFailed, err)
	}
	return url, nil
}

func (s *GenerationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// record appends the row for a finished generation.
func (s *GenerationService) record(ctx context.Context, tool domain.Tool, owner *uint, h domain.History) (*domain.History, error) {
	h.ToolName = string(tool)
	h.UserID = owner
	h.CreatedAt = s.now().UTC()
	if err := repo.CreateHistory(ctx, s.DB, &h); err != nil {
		return nil, Internal(err)
	}
	historyRows.WithLabelValues(string(tool)).Inc()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("history.id", int64(h.ID)))
	return &h, nil
}

// --- social extras ---

// Hashtags builds up to five hashtags from the distinct words of p. Words
// are runs of letters and digits in any script; those shorter than three
// runes are skipped, and "#AI" is used when nothing is left.
func Hashtags(p string) string {
	title := cases.Title(language.English) // Casers are stateful; one per call
	seen := map[string]bool{}
	tags := make([]string, 0, maxHashtags)
	for _, w := range strings.FieldsFunc(p, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		key := strings.ToLower(w)
		if utf8.RuneCountInString(key) < 3 || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, "#"+title.String(key))
		if len(tags) == maxHashtags {
			break
		}
	}
	if len(tags) == 0 {
		return "#AI"
	}
	return strings.Join(tags, " ")
}

var platformTips = map[string]string{
	"instagram": "Post between 10 AM and 1 PM and keep the first line of the caption short.",
	"facebook":  "Post early afternoon and ask a question to invite comments.",
	"linkedin":  "Post on weekday mornings and add a professional takeaway.",
	"twitter":   "Post around noon and keep the caption under 200 characters.",
	"x":         "Post around noon and keep the caption under 200 characters.",
	"tiktok":    "Post in the evening and pair the image with a trending sound.",
	"pinterest": "Use a vertical crop and a keyword-rich description.",
}

// PlatformTips returns posting advice for platform.
func PlatformTips(platform string) string {
	if t, ok := platformTips[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return t
	}
	return "Post this at 10 AM."
}
