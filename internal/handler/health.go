package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} model.Envelope
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	respondOK(c, "modushop api", model.StatusResponse{Status: "ok"})
}

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}
