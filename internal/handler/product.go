package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List godoc
// @Summary List products
// @Description Token search: every whitespace-separated token must match the product name.
// @Tags products
// @Produce json
// @Param search query string false "Search tokens"
// @Param categoryId query int false "Category filter"
// @Param onSale query bool false "Only on-sale products"
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} model.Envelope
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	query := model.ProductListQuery{
		Search:     c.Query("search"),
		CategoryID: queryInt64(c, "categoryId"),
		OnSaleOnly: c.Query("onSale") == "true",
		Page:       queryInt(c, "page"),
		PageSize:   queryInt(c, "pageSize"),
	}

	page, err := h.svc.List(c.Request.Context(), query)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product id"
// @Success 200 {object} model.Envelope
// @Failure 404 {object} model.Envelope
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", product)
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProductUpsertRequest true "Product payload"
// @Success 200 {object} model.Envelope
// @Router /api/v1/admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.ProductUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "product created", product)
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Param request body model.ProductUpsertRequest true "Product payload"
// @Success 200 {object} model.Envelope
// @Router /api/v1/admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.ProductUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	product, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "product updated", product)
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product id"
// @Success 200 {object} model.Envelope
// @Router /api/v1/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "product deleted", model.StatusResponse{Status: "deleted"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	val, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return val
}

func queryInt64(c *gin.Context, name string) int64 {
	val, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return val
}
