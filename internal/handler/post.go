package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List godoc
// @Summary List published posts
// @Tags posts
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} model.Envelope
// @Router /api/v1/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), true, queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

// ListAll includes drafts; admin only.
func (h *PostHandler) ListAll(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), false, queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

// Get godoc
// @Summary Get a published post
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.svc.Get(c.Request.Context(), id, false)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", post)
}

// GetAny returns a post regardless of its published flag; admin only.
func (h *PostHandler) GetAny(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.svc.Get(c.Request.Context(), id, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", post)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req model.PostUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	post, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "post created", post)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.PostUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	post, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "post updated", post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "post deleted", model.StatusResponse{Status: "deleted"})
}
