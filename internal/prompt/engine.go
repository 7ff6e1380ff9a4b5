// Package prompt renders the per-tool instruction templates sent to the image
// model. Templates use {name} placeholders; rendering is pure and never
// touches the network or the database.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
)

var (
	// ErrUnknownTool is returned when no template is registered for a tool.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrMalformedTemplate is returned for templates with unbalanced braces.
	ErrMalformedTemplate = errors.New("malformed template")
)

// Template is an instruction text plus the values used for placeholders the
// caller leaves missing or blank.
type Template struct {
	Text     string
	Defaults map[string]string
}

// Engine maps tools to templates. The zero value has no templates; use New
// for the built-in set.
type Engine struct {
	templates map[domain.Tool]Template
}

// NewEngine builds an engine over the given templates. The map is copied.
func NewEngine(templates map[domain.Tool]Template) *Engine {
	m := make(map[domain.Tool]Template, len(templates))
	for k, v := range templates {
		m[k] = v
	}
	return &Engine{templates: m}
}

// New returns an engine loaded with the built-in templates.
func New() *Engine { return NewEngine(Builtin()) }

// Template returns the template registered for tool.
func (e *Engine) Template(tool domain.Tool) (Template, bool) {
	t, ok := e.templates[tool]
	return t, ok
}

// Check verifies that every registered template renders.
func (e *Engine) Check() error {
	for tool := range e.templates {
		if _, err := e.Render(tool, nil); err != nil {
			return err
		}
	}
	return nil
}

// Render fills the template registered for tool. A placeholder takes the
// trimmed field value, falling back to the template default when the field is
// missing or blank. Placeholders with neither are left as literal text.
func (e *Engine) Render(tool domain.Tool, fields map[string]string) (string, error) {
	tpl, ok := e.templates[tool]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
	out, err := substitute(tpl, fields)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, tool)
	}
	return strings.TrimSpace(out), nil
}

func substitute(tpl Template, fields map[string]string) (string, error) {
	src := tpl.Text
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '}':
			return "", ErrMalformedTemplate
		case '{':
			end := strings.IndexAny(src[i+1:], "{}")
			if end < 0 || src[i+1+end] == '{' {
				return "", ErrMalformedTemplate
			}
			name := src[i+1 : i+1+end]
			if v, ok := lookup(tpl, fields, name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(src[i : i+2+end])
			}
			i += end + 1
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String(), nil
}

func lookup(tpl Template, fields map[string]string, name string) (string, bool) {
	v, inFields := fields[name]
	v = strings.TrimSpace(v)
	if v != "" {
		return v, true
	}
	if d, ok := tpl.Defaults[name]; ok {
		return d, true
	}
	return v, inFields
}
