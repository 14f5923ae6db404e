package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type AdvertisementHandler struct {
	svc *service.AdvertisementService
}

func NewAdvertisementHandler(svc *service.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{svc: svc}
}

// ListActive godoc
// @Summary List active advertisements
// @Description Returns ads whose display window covers the current time, optionally filtered by position.
// @Tags advertisements
// @Produce json
// @Param position query string false "Placement slot"
// @Success 200 {object} model.Envelope
// @Router /api/v1/advertisements [get]
func (h *AdvertisementHandler) ListActive(c *gin.Context) {
	ads, err := h.svc.ListActive(c.Request.Context(), c.Query("position"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", ads)
}

// List returns every advertisement; admin only.
func (h *AdvertisementHandler) List(c *gin.Context) {
	ads, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", ads)
}

func (h *AdvertisementHandler) Create(c *gin.Context) {
	var req model.AdvertisementUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	ad, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "advertisement created", ad)
}

func (h *AdvertisementHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.AdvertisementUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	ad, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "advertisement updated", ad)
}

func (h *AdvertisementHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "advertisement deleted", model.StatusResponse{Status: "deleted"})
}
