package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type CouponHandler struct {
	svc *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

// List godoc
// @Summary List coupons
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Envelope
// @Router /api/v1/admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	coupons, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", coupons)
}

// Create godoc
// @Summary Create a coupon
// @Description Generates a random code when none is supplied.
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CouponUpsertRequest true "Coupon payload"
// @Success 200 {object} model.Envelope
// @Router /api/v1/admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req model.CouponUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	coupon, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "coupon created", coupon)
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.CouponUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	coupon, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "coupon updated", coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "coupon deleted", model.StatusResponse{Status: "deleted"})
}
