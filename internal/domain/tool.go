package domain

// Tool names one generation feature. The string value is the wire name the
// frontend uses when it queries history, and it is stored verbatim in
// History.ToolName.
type Tool string

const (
	ToolPromptToImage  Tool = "prompt-to-image"
	ToolImageToStyle   Tool = "image-to-style"
	ToolSpecsTryOn     Tool = "specs-tryon"
	ToolHaircutPreview Tool = "haircut-preview"
	ToolInstaStory     Tool = "insta-story"
	ToolSocialPost     Tool = "social/generate"
	ToolStoryImage     Tool = "story-image"
	ToolPromptEnhancer Tool = "prompt-enhancer"
)

var tools = []Tool{
	ToolPromptToImage,
	ToolImageToStyle,
	ToolSpecsTryOn,
	ToolHaircutPreview,
	ToolInstaStory,
	ToolSocialPost,
	ToolStoryImage,
	ToolPromptEnhancer,
}

// Tools returns every known tool in a stable order.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	for _, k := range tools {
		if k == t {
			return true
		}
	}
	return false
}

func (t Tool) String() string { return string(t) }

// ParseTool converts a wire name into a Tool.
func ParseTool(s string) (Tool, bool) {
	t := Tool(s)
	return t, t.Valid()
}
