// Package gateway talks to the remote generative model.
//
// Client calls the Gemini generateContent REST endpoint with resty. Placeholder
// returns a fixed asset without any network traffic. Both satisfy Generator.
//
// Observability: each call opens an OpenTelemetry span and updates the
// gateway_* Prometheus collectors.
package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrUpstream wraps transport failures (DNS, TLS, timeouts, cancellation).
	ErrUpstream = errors.New("upstream request failed")
	// ErrUpstreamStatus is returned for non-2xx responses; see StatusError.
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	// ErrNoImage is returned when a response carries no inline image part.
	ErrNoImage = errors.New("upstream response contained no image")
	// ErrNoText is returned when a text response is empty.
	ErrNoText = errors.New("upstream response contained no text")
)

// StatusError carries the HTTP status of a failed upstream call.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUpstreamStatus, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUpstreamStatus }

// InlineImage is a reference image sent alongside the prompt.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Generator produces images and text from prompts.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, refs []InlineImage) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageSink persists a generated image and returns its public URL.
type ImageSink interface {
	SaveGenerated(data []byte, mime string) (string, error)
}

// Config configures a live Client.
type Config struct {
	APIKey     string
	BaseURL    string
	ImageModel string
	TextModel  string
	Timeout    time.Duration // per call; 0 disables
}

// Client is the live Generator.
type Client struct {
	http *resty.Client
	cfg  Config
	sink ImageSink
}

var _ Generator = (*Client)(nil)

const generatePath = "/v1beta/models/{model}:generateContent"

// NewClient returns a Client writing images to sink.
func NewClient(cfg Config, sink ImageSink) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: hc, cfg: cfg, sink: sink}
}

// --- wire types ---

type blob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type reqPart struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inline_data,omitempty"`
}

type reqContent struct {
	Parts []reqPart `json:"parts"`
}

type generateRequest struct {
	Contents []reqContent `json:"contents"`
}

// respBlob accepts both the snake_case and camelCase spellings the API uses.
type respBlob struct {
	MIMEType      string `json:"mimeType"`
	MIMETypeSnake string `json:"mime_type"`
	Data          string `json:"data"`
}

func (b *respBlob) mime() string {
	if b.MIMEType != "" {
		return b.MIMEType
	}
	return b.MIMETypeSnake
}

type respPart struct {
	Text            string    `json:"text"`
	InlineData      *respBlob `json:"inlineData"`
	InlineDataSnake *respBlob `json:"inline_data"`
}

func (p respPart) blob() *respBlob {
	if p.InlineData != nil {
		return p.InlineData
	}
	return p.InlineDataSnake
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []respPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) parts() []respPart {
	var out []respPart
	for _, c := range r.Candidates {
		out = append(out, c.Content.Parts...)
	}
	return out
}

// GenerateImage sends prompt and refs to the image model and stores the first
// returned image through the sink.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refs []InlineImage) (url string, err error) {
	ctx, span := otel.Tracer("gateway/Client").Start(ctx, "GenerateImage",
		trace.WithAttributes(
			attribute.String("gateway.model", c.cfg.ImageModel),
			attribute.Int("gateway.refs", len(refs)),
		),
	)
	defer span.End()
	defer observe(kindImage, time.Now(), &err)
	defer recordSpan(span, &err)

	parts := []reqPart{{Text: prompt}}
	for _, r := range refs {
		parts = append(parts, reqPart{InlineData: &blob{
			MIMEType: r.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(r.Data),
		}})
	}

	resp, err := c.generate(ctx, c.cfg.ImageModel, parts)
	if err != nil {
		return "", err
	}
	for _, p := range resp.parts() {
		b := p.blob()
		if b == nil || b.Data == "" {
			continue
		}
		data, derr := base64.StdEncoding.DecodeString(b.Data)
		if derr != nil {
			return "", fmt.Errorf("%w: decode image: %v", ErrUpstream, derr)
		}
		return c.sink.SaveGenerated(data, b.mime())
	}
	return "", ErrNoImage
}

// GenerateText sends prompt to the text model and joins the returned text parts.
func (c *Client) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	ctx, span := otel.Tracer("gateway/Client").Start(ctx, "GenerateText",
		trace.WithAttributes(attribute.String("gateway.model", c.cfg.TextModel)),
	)
	defer span.End()
	defer observe(kindText, time.Now(), &err)
	defer recordSpan(span, &err)

	resp, err := c.generate(ctx, c.cfg.TextModel, []reqPart{{Text: prompt}})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range resp.parts() {
		b.WriteString(p.Text)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}

func (c *Client) generate(ctx context.Context, model string, parts []reqPart) (*generateResponse, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var out generateResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", model).
		SetBody(generateRequest{Contents: []reqContent{{Parts: parts}}}).
		SetResult(&out).
		Post(generatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !res.IsSuccess() {
		return nil, &StatusError{Code: res.StatusCode(), Body: truncate(res.String(), 512)}
	}
	return &out, nil
}

func recordSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
