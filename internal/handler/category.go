package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Tree godoc
// @Summary Get the category tree
// @Tags categories
// @Produce json
// @Success 200 {object} model.Envelope
// @Router /api/v1/categories/tree [get]
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", tree)
}

// List returns the flat category list.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CategoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "category created", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.CategoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	category, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "category updated", category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "category deleted", model.StatusResponse{Status: "deleted"})
}
