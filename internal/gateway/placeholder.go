package gateway

import (
	"context"
	"strings"
	"time"
)

// Placeholder is a Generator that never calls out. Image requests return URL
// and text requests echo the prompt. It backs local development and demos.
type Placeholder struct {
	URL string
}

var _ Generator = Placeholder{}

// GenerateImage returns the fixed URL.
func (p Placeholder) GenerateImage(ctx context.Context, _ string, _ []InlineImage) (url string, err error) {
	defer observe(kindImage, time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.URL, nil
}

// GenerateText returns the trimmed prompt.
func (p Placeholder) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	defer observe(kindText, time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out := strings.TrimSpace(prompt)
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}
