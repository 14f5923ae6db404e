package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create godoc
// @Summary Place an order
// @Description Prices items from the catalog, applies an optional coupon and decrements stock.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.OrderCreateRequest true "Order lines and optional coupon code"
// @Success 200 {object} model.Envelope
// @Failure 409 {object} model.Envelope
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	var req model.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	order, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "order placed", order)
}

// List returns the caller's orders.
func (h *OrderHandler) List(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	page, err := h.svc.List(c.Request.Context(), user.ID, queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

// ListAll is the admin view across every user.
func (h *OrderHandler) ListAll(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), 0, queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

func (h *OrderHandler) Get(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id, user)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", order)
}

// Cancel is the customer-facing cancellation of a pending order.
func (h *OrderHandler) Cancel(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.svc.Cancel(c.Request.Context(), id, user)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "order cancelled", order)
}

// SetStatus moves an order along the pending→paid→shipped→completed chain.
func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	order, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "order updated", order)
}
