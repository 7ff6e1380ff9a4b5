// Generation HTTP handlers.
//
// One endpoint per tool:
//   - POST /prompt-to-image    (JSON)
//   - POST /image-style        (multipart: image)
//   - POST /specs-tryon        (multipart: face, specs)
//   - POST /haircut-preview    (multipart: you, sample)
//   - POST /insta-story        (JSON)
//   - POST /social/generate    (JSON or form)
//   - POST /story-image        (JSON)
//   - POST /enhance-prompt     (JSON)
//
// Optional fields fall back to the tool's defaults inside the service, so the
// handlers only bind and forward.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/http/middleware"
	"github.com/tbourn/go-imagegen-backend/internal/services"
)

const (
	msgInvalidJSON = "invalid JSON body"
	msgInvalidForm = "invalid multipart form"
)

//
// DTOs
//

// PromptToImageRequest is the JSON payload of /prompt-to-image.
type PromptToImageRequest struct {
	Prompt   string `json:"prompt" example:"a cat sitting on a windowsill"`
	ImgStyle string `json:"imgstyle" example:"anime"`
	Aspect   string `json:"aspect" example:"1:1"`
}

// InstaStoryRequest is the JSON payload of /insta-story.
type InstaStoryRequest struct {
	OverlayText string `json:"overlay_text" example:"Summer drop"`
	Style       string `json:"style" example:"minimal"`
}

// SocialPostRequest is the JSON or form payload of /social/generate.
type SocialPostRequest struct {
	Prompt   string `json:"prompt" form:"prompt" example:"sunset"`
	Platform string `json:"platform" form:"platform" example:"Instagram"`
}

// StoryImageRequest is the JSON payload of /story-image.
type StoryImageRequest struct {
	Prompt string `json:"prompt" example:"a fox finds a golden key"`
	Style  string `json:"style" example:"storybook"`
	Scenes int    `json:"scenes" example:"4" minimum:"1" maximum:"4"`
}

// EnhancePromptRequest is the JSON payload of /enhance-prompt.
type EnhancePromptRequest struct {
	Prompt string `json:"prompt" example:"a red car"`
}

// ImageURLResponse is returned by /prompt-to-image.
type ImageURLResponse struct {
	Success  bool   `json:"success" example:"true"`
	ImageURL string `json:"image_url" example:"http://127.0.0.1:5000/generated/gen_20250101_120000_ab12cd34.png"`
}

// OutputURLResponse is returned by the image editing tools and /insta-story.
type OutputURLResponse struct {
	Success   bool   `json:"success" example:"true"`
	OutputURL string `json:"output_url" example:"http://127.0.0.1:5000/generated/gen_20250101_120000_ab12cd34.png"`
}

// SocialPostResponse is returned by /social/generate.
type SocialPostResponse struct {
	Success  bool   `json:"success" example:"true"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption" example:"Golden hour never gets old."`
	Hashtags string `json:"hashtags" example:"#Sunset"`
	Tips     string `json:"tips" example:"Post this at 10 AM."`
}

// StoryImageResponse is returned by /story-image.
type StoryImageResponse struct {
	Success bool             `json:"success" example:"true"`
	Status  string           `json:"status" example:"success"`
	Scenes  []services.Scene `json:"scenes"`
}

// EnhancePromptResponse is returned by /enhance-prompt.
type EnhancePromptResponse struct {
	Success        bool   `json:"success" example:"true"`
	OriginalPrompt string `json:"original_prompt" example:"a red car"`
	EnhancedPrompt string `json:"enhanced_prompt"`
}

// bindOptionalJSON decodes the body when there is one. An empty body leaves
// req at its zero value, so every field takes its default.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		failBind(c, err, msgInvalidJSON)
		return false
	}
	return true
}

//
// Handlers
//

// PromptToImage godoc
// @ID          promptToImage
// @Summary     Generate an image from a prompt
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.PromptToImageRequest  true  "Prompt, style and aspect ratio"
// @Success     200   {object}  handlers.ImageURLResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Prompt is required"
// @Failure     401   {object}  handlers.ErrorResponse  "Token missing or invalid"
// @Failure     500   {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /prompt-to-image [post]
func (h *Handlers) PromptToImage(c *gin.Context) {
	var req PromptToImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err, msgInvalidJSON)
		return
	}
	res, err := h.gen.PromptToImage(c.Request.Context(), middleware.OwnerID(c), services.PromptToImageInput{
		Prompt: req.Prompt,
		Style:  req.ImgStyle,
		Aspect: req.Aspect,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ImageURLResponse{Success: true, ImageURL: res.URL})
}

// ImageStyle godoc
// @ID          imageStyle
// @Summary     Redraw an uploaded image in another style
// @Tags        Generation
// @Accept      multipart/form-data
// @Produce     json
// @Param       image        formData  file    true   "Source image (png, jpeg or webp)"
// @Param       style        formData  string  false  "Target style"  default(Cinematic)
// @Param       instruction  formData  string  false  "Extra instruction"
// @Param       aspect       formData  string  false  "Aspect ratio"  default(1:1)
// @Success     200  {object}  handlers.OutputURLResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Image is required"
// @Failure     413  {object}  handlers.ErrorResponse  "Request body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /image-style [post]
func (h *Handlers) ImageStyle(c *gin.Context) {
	img, err := formUpload(c, "image")
	if err != nil {
		failBind(c, err, msgInvalidForm)
		return
	}
	res, err := h.gen.ImageToStyle(c.Request.Context(), middleware.OwnerID(c), services.ImageToStyleInput{
		Image:       img,
		Style:       c.PostForm("style"),
		Instruction: c.PostForm("instruction"),
		Aspect:      c.PostForm("aspect"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, OutputURLResponse{Success: true, OutputURL: res.URL})
}

// SpecsTryOn godoc
// @ID          specsTryOn
// @Summary     Try glasses from one photo on the face in another
// @Tags        Generation
// @Accept      multipart/form-data
// @Produce     json
// @Param       face    formData  file    true   "Face photo"
// @Param       specs   formData  file    true   "Glasses photo"
// @Param       prompt  formData  string  false  "Extra instruction"  default(natural fit)
// @Success     200  {object}  handlers.OutputURLResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing files"
// @Failure     413  {object}  handlers.ErrorResponse  "Request body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /specs-tryon [post]
func (h *Handlers) SpecsTryOn(c *gin.Context) {
	files, err := formUploads(c, "face", "specs")
	if err != nil {
		failBind(c, err, msgInvalidForm)
		return
	}
	res, err := h.gen.SpecsTryOn(c.Request.Context(), middleware.OwnerID(c), services.SpecsTryOnInput{
		Face:   files[0],
		Specs:  files[1],
		Prompt: c.PostForm("prompt"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, OutputURLResponse{Success: true, OutputURL: res.URL})
}

// HaircutPreview godoc
// @ID          haircutPreview
// @Summary     Preview a haircut from a sample photo
// @Tags        Generation
// @Accept      multipart/form-data
// @Produce     json
// @Param       you     formData  file    true   "User photo"
// @Param       sample  formData  file    true   "Haircut sample"
// @Param       prompt  formData  string  false  "Extra instruction"
// @Success     200  {object}  handlers.OutputURLResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing files"
// @Failure     413  {object}  handlers.ErrorResponse  "Request body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /haircut-preview [post]
func (h *Handlers) HaircutPreview(c *gin.Context) {
	files, err := formUploads(c, "you", "sample")
	if err != nil {
		failBind(c, err, msgInvalidForm)
		return
	}
	res, err := h.gen.HaircutPreview(c.Request.Context(), middleware.OwnerID(c), services.HaircutInput{
		Photo:  files[0],
		Sample: files[1],
		Prompt: c.PostForm("prompt"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, OutputURLResponse{Success: true, OutputURL: res.URL})
}

// InstaStory godoc
// @ID          instaStory
// @Summary     Generate a 9:16 story template around an overlay text
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.InstaStoryRequest  false  "Overlay text and style"
// @Success     200   {object}  handlers.OutputURLResponse
// @Failure     500   {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /insta-story [post]
func (h *Handlers) InstaStory(c *gin.Context) {
	var req InstaStoryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := h.gen.InstaStory(c.Request.Context(), middleware.OwnerID(c), services.InstaStoryInput{
		OverlayText: req.OverlayText,
		Style:       req.Style,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, OutputURLResponse{Success: true, OutputURL: res.URL})
}

// SocialPost godoc
// @ID          socialPost
// @Summary     Generate a social media post with caption, hashtags and tips
// @Tags        Generation
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Param       body  body      handlers.SocialPostRequest  false  "Prompt and platform"
// @Success     200   {object}  handlers.SocialPostResponse
// @Failure     500   {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /social/generate [post]
func (h *Handlers) SocialPost(c *gin.Context) {
	var req SocialPostRequest
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		if !bindOptionalJSON(c, &req) {
			return
		}
	} else if err := c.ShouldBind(&req); err != nil {
		failBind(c, err, msgInvalidForm)
		return
	}
	res, err := h.gen.SocialPost(c.Request.Context(), middleware.OwnerID(c), services.SocialPostInput{
		Prompt:   req.Prompt,
		Platform: req.Platform,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, SocialPostResponse{
		Success:  true,
		ImageURL: res.ImageURL,
		Caption:  res.Caption,
		Hashtags: res.Hashtags,
		Tips:     res.Tips,
	})
}

// StoryImage godoc
// @ID          storyImage
// @Summary     Generate up to four consistent story scenes
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.StoryImageRequest  false  "Story, style and scene count"
// @Success     200   {object}  handlers.StoryImageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Scenes must be between 1 and 4"
// @Failure     500   {object}  handlers.ErrorResponse  "Generation or storage failure"
// @Router      /story-image [post]
func (h *Handlers) StoryImage(c *gin.Context) {
	var req StoryImageRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := h.gen.StoryImage(c.Request.Context(), middleware.OwnerID(c), services.StoryImageInput{
		Prompt: req.Prompt,
		Style:  req.Style,
		Scenes: req.Scenes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, StoryImageResponse{Success: true, Status: "success", Scenes: res.Scenes})
}

// EnhancePrompt godoc
// @ID          enhancePrompt
// @Summary     Rewrite a short prompt into a detailed one
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.EnhancePromptRequest  true  "Prompt to enhance"
// @Success     200   {object}  handlers.EnhancePromptResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Prompt cannot be empty"
// @Failure     500   {object}  handlers.ErrorResponse  "Text generation failed"
// @Router      /enhance-prompt [post]
func (h *Handlers) EnhancePrompt(c *gin.Context) {
	var req EnhancePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err, msgInvalidJSON)
		return
	}
	res, err := h.gen.EnhancePrompt(c.Request.Context(), middleware.OwnerID(c), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, EnhancePromptResponse{
		Success:        true,
		OriginalPrompt: res.Original,
		EnhancedPrompt: res.Enhanced,
	})
}
