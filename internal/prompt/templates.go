package prompt

import "github.com/tbourn/go-imagegen-backend/internal/domain"

// SocialCaption keys the caption template used by the social post tool. It is
// not a tool of its own and never appears in history rows.
const SocialCaption domain.Tool = "social-caption"

// Builtin returns a fresh copy of the built-in templates.
func Builtin() map[domain.Tool]Template {
	return map[domain.Tool]Template{
		domain.ToolPromptToImage: {
			Text: "Act as a professional digital artist. Create a high-quality, detailed image " +
				"in {style} style based on the following user description: {prompt}. " +
				"Ensure the lighting and textures match the {style} aesthetic perfectly. " +
				"Final Aspect Ratio: {aspect}.",
			Defaults: map[string]string{"style": "clean", "aspect": "1:1"},
		},
		domain.ToolImageToStyle: {
			Text: "Maintain the original composition, objects, and structure of the uploaded image. " +
				"Redraw the entire scene strictly in {style} style. Adjust colors, shading " +
				"and artistic strokes to reflect {style} while keeping the subject recognizable. " +
				"{instruction} Final Aspect Ratio: {aspect}.",
			Defaults: map[string]string{"style": "Cinematic", "instruction": "", "aspect": "1:1"},
		},
		domain.ToolSpecsTryOn: {
			Text: "Photorealistic facial modification. Take the glasses from the 'specs' image " +
				"and place them naturally on the face in the 'face' image. Ensure the perspective, " +
				"shadows on the skin and bridge fit are anatomically correct. Prompt: {prompt}",
			Defaults: map[string]string{"prompt": "natural fit"},
		},
		domain.ToolHaircutPreview: {
			Text: "Professional AI hair stylist. Replace the hair in the user's photo with the " +
				"haircut style provided in the sample image. Seamlessly blend the hairline " +
				"and ensure the hair volume matches the head shape naturally. Prompt: {prompt}",
			Defaults: map[string]string{"prompt": "seamless blend with natural lighting"},
		},
		domain.ToolInstaStory: {
			Text: "Create a professional, high-end Instagram Story template strictly in a " +
				"9:16 vertical aspect ratio. Design the layout using {style} aesthetics. " +
				"Artistically incorporate the following overlay text: '{prompt}'. " +
				"Ensure the composition is mobile-optimized with premium typography.",
			Defaults: map[string]string{"prompt": "New Story", "style": "minimal"},
		},
		domain.ToolSocialPost: {
			Text:     "A {platform} post: {prompt}",
			Defaults: map[string]string{"platform": "Instagram", "prompt": "Aesthetic visual"},
		},
		SocialCaption: {
			Text: "Write one short, engaging {platform} caption for a post showing: {prompt}. " +
				"Respond with ONLY the caption text, no hashtags.",
			Defaults: map[string]string{"platform": "Instagram", "prompt": "Aesthetic visual"},
		},
		domain.ToolStoryImage: {
			Text: "Illustrate scene {scene} of {scenes} of a short visual story in {style} style. " +
				"Story: {prompt}. Keep characters and palette consistent across scenes.",
			Defaults: map[string]string{"style": "storybook", "prompt": "A short adventure", "scene": "1", "scenes": "4"},
		},
		domain.ToolPromptEnhancer: {
			Text: "You are an expert prompt engineer for AI image generation models.\n\n" +
				"Take this simple prompt and enhance it into a detailed, vivid and comprehensive prompt " +
				"suitable for high-quality image generation. Add details about visual style, lighting, " +
				"color palette, composition and quality indicators.\n\n" +
				"Simple prompt: {prompt}\n\n" +
				"Respond with ONLY the enhanced prompt, nothing else. Make it detailed but concise (1-2 sentences max).",
		},
	}
}
