package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
)

func TestRender_SocialPost(t *testing.T) {
	e := New()

	got, err := e.Render(domain.ToolSocialPost, map[string]string{"platform": "Instagram", "prompt": "sunset"})
	require.NoError(t, err)
	assert.Equal(t, "A Instagram post: sunset", got)

	got, err = e.Render(domain.ToolSocialPost, map[string]string{"platform": "LinkedIn", "prompt": "  "})
	require.NoError(t, err)
	assert.Equal(t, "A LinkedIn post: Aesthetic visual", got)
}

func TestRender_Defaults(t *testing.T) {
	e := New()
	cases := []struct {
		tool domain.Tool
		want []string
	}{
		{domain.ToolPromptToImage, []string{"in clean style", "Final Aspect Ratio: 1:1."}},
		{domain.ToolImageToStyle, []string{"strictly in Cinematic style"}},
		{domain.ToolSpecsTryOn, []string{"Prompt: natural fit"}},
		{domain.ToolHaircutPreview, []string{"Prompt: seamless blend with natural lighting"}},
		{domain.ToolInstaStory, []string{"minimal aesthetics", "'New Story'"}},
		{domain.ToolStoryImage, []string{"storybook style"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.tool), func(t *testing.T) {
			got, err := e.Render(tc.tool, nil)
			require.NoError(t, err)
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
			assert.NotContains(t, got, "{")
		})
	}
}

func TestRender_FieldsOverrideDefaults(t *testing.T) {
	got, err := New().Render(domain.ToolPromptToImage, map[string]string{
		"prompt": "a cat", "style": "anime", "aspect": "16:9",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "in anime style based on the following user description: a cat.")
	assert.True(t, strings.HasSuffix(got, "Final Aspect Ratio: 16:9."))
}

func TestRender_UnknownPlaceholderLeftLiteral(t *testing.T) {
	e := NewEngine(map[domain.Tool]Template{
		domain.ToolSocialPost: {Text: "  {greeting}, {name}!  "},
	})
	got, err := e.Render(domain.ToolSocialPost, map[string]string{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "{greeting}, Ana!", got)
}

func TestRender_Errors(t *testing.T) {
	_, err := New().Render(domain.Tool("nope"), nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	for _, text := range []string{"open {prompt", "close prompt}", "nested {a{b}}"} {
		e := NewEngine(map[domain.Tool]Template{domain.ToolInstaStory: {Text: text}})
		_, err := e.Render(domain.ToolInstaStory, nil)
		assert.ErrorIs(t, err, ErrMalformedTemplate, text)
		assert.Contains(t, err.Error(), "insta-story")
		assert.Error(t, e.Check())
	}
}

func TestBuiltin_CoversEveryTool(t *testing.T) {
	e := New()
	require.NoError(t, e.Check())
	for _, tl := range domain.Tools() {
		_, ok := e.Template(tl)
		assert.True(t, ok, "missing template for %s", tl)
	}
	_, ok := e.Template(SocialCaption)
	assert.True(t, ok)
}

func TestNewEngine_CopiesMap(t *testing.T) {
	src := map[domain.Tool]Template{domain.ToolSocialPost: {Text: "x"}}
	e := NewEngine(src)
	delete(src, domain.ToolSocialPost)
	_, ok := e.Template(domain.ToolSocialPost)
	assert.True(t, ok)
}
