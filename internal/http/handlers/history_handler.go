// History HTTP handlers.
//
// This file exposes the history ledger:
//   - GET    /get-history?tool=          (newest rows of one tool, ETag support)
//   - GET    /prompt-enhancer/history    (newest enhancer rows)
//   - DELETE /delete-history/{id}        (remove one row)
//
// Each endpoint owns its cap (6 for get-history whatever the tool, 8 for the
// enhancer page); the optional "limit" query parameter can only lower it.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/http/middleware"
	"github.com/tbourn/go-imagegen-backend/internal/services"
	"github.com/tbourn/go-imagegen-backend/internal/utils"
)

const (
	historyDateLayout  = "2006-01-02 15:04"
	enhancerTimeLayout = "02 Jan 2006 · 03:04 PM"
)

//
// DTOs
//

// HistoryItem is one row of a tool history listing.
type HistoryItem struct {
	ID          uint    `json:"id" example:"42"`
	Input       *string `json:"input" example:"[Aspect Ratio: 1:1] | Prompt: a cat"`
	Image       *string `json:"image" example:"http://127.0.0.1:5000/generated/gen_20250101_120000_ab12cd34.png"`
	RawInputImg *string `json:"raw_input_img" example:"Text Input"`
	Date        string  `json:"date" example:"2025-01-01 12:00"`
}

// HistoryResponse wraps a tool history listing.
type HistoryResponse struct {
	Success bool          `json:"success" example:"true"`
	History []HistoryItem `json:"history"`
}

// EnhancerHistoryItem is one row of the prompt enhancer history.
type EnhancerHistoryItem struct {
	ID     uint    `json:"id" example:"7"`
	Input  *string `json:"input" example:"a red car"`
	Output *string `json:"output"`
	Time   string  `json:"time" example:"01 Jan 2025 · 12:00 PM"`
}

// EnhancerHistoryResponse wraps the prompt enhancer history.
type EnhancerHistoryResponse struct {
	Success bool                  `json:"success" example:"true"`
	History []EnhancerHistoryItem `json:"history"`
}

// notModified sets a weak ETag for the listing and answers 304 when the
// client already holds it. It is best effort: a stats error skips the check.
func (h *Handlers) notModified(c *gin.Context, tool domain.Tool, viewer *domain.User, limit int) bool {
	// limit is the effective row count, so pages with different caps over
	// the same tool never share a tag.
	count, maxAt, maxID, err := h.hist.Stats(c.Request.Context(), tool, viewer)
	if err != nil {
		return false
	}
	var ts int64
	if maxAt != nil {
		ts = maxAt.UnixNano()
	}
	var vid uint
	if viewer != nil {
		vid = viewer.ID
	}
	etag := fmt.Sprintf(`W/"history:%s:%d:%d:%d:%d:%d"`, tool, vid, limit, count, ts, maxID)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

//
// Handlers
//

// GetHistory godoc
// @ID          getHistory
// @Summary     List the newest history rows of a tool
// @Description Returns at most 6 rows of any tool, newest first.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        History
// @Produce     json
//
// @Param       tool           query   string  true   "Tool name"  Enums(prompt-to-image, image-to-style, specs-tryon, haircut-preview, insta-story, social/generate, story-image, prompt-enhancer)
// @Param       limit          query   int     false  "Lower the listing cap"  minimum(1)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.HistoryResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "tool required"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /get-history [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	tool, err := services.ParseTool(c.Query("tool"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	viewer := middleware.UserFrom(c)

	if h.notModified(c, tool, viewer, services.EffectiveLimit(limit, services.DefaultHistoryLimit)) {
		return
	}

	rows, err := h.hist.List(c.Request.Context(), tool, viewer, limit, services.DefaultHistoryLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, HistoryItem{
			ID:          r.ID,
			Input:       r.InputText,
			Image:       r.OutputImage,
			RawInputImg: r.InputImage,
			Date:        r.CreatedAt.UTC().Format(historyDateLayout),
		})
	}
	ok(c, http.StatusOK, HistoryResponse{Success: true, History: items})
}

// EnhancerHistory godoc
// @ID          enhancerHistory
// @Summary     List the newest prompt enhancements
// @Tags        History
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.EnhancerHistoryResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /prompt-enhancer/history [get]
func (h *Handlers) EnhancerHistory(c *gin.Context) {
	viewer := middleware.UserFrom(c)
	if h.notModified(c, domain.ToolPromptEnhancer, viewer, services.EnhancerHistoryLimit) {
		return
	}

	rows, err := h.hist.List(c.Request.Context(), domain.ToolPromptEnhancer, viewer, 0, services.EnhancerHistoryLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]EnhancerHistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, EnhancerHistoryItem{
			ID:     r.ID,
			Input:  r.InputText,
			Output: r.OutputText,
			Time:   r.CreatedAt.UTC().Format(enhancerTimeLayout),
		})
	}
	ok(c, http.StatusOK, EnhancerHistoryResponse{Success: true, History: items})
}

// DeleteHistory godoc
// @ID          deleteHistory
// @Summary     Delete one history row
// @Tags        History
// @Produce     json
// @Param       id   path      int  true  "History row id"  minimum(1)
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Record not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /delete-history/{id} [delete]
func (h *Handlers) DeleteHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		respondError(c, services.ErrInvalidID)
		return
	}
	if err := h.hist.Delete(c.Request.Context(), uint(id), middleware.UserFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Success: true})
}
