package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, model.Envelope{Message: message, Data: data})
}

// respondFailure keeps HTTP 200 and reports through errorCode, so form flows
// can render inline errors without tripping HTTP error handling.
func respondFailure(c *gin.Context, code, message string) {
	c.JSON(http.StatusOK, model.Envelope{Message: message, ErrorCode: code})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, model.Envelope{Message: message, ErrorCode: code})
}

// writeServiceError maps service sentinels onto HTTP statuses and envelope
// codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid input")
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, model.CodeForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, model.CodeNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusConflict, model.CodeConflict, "already exists")
	case errors.Is(err, service.ErrOutOfStock):
		respondError(c, http.StatusConflict, model.CodeOutOfStock, "insufficient stock")
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(c, http.StatusBadRequest, model.CodeCouponInvalid, "coupon not applicable")
	case errors.Is(err, service.ErrOrderState):
		respondError(c, http.StatusConflict, model.CodeOrderStateInvalid, "invalid status transition")
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, http.StatusConflict, model.CodeCategoryInUse, "category still in use")
	default:
		respondError(c, http.StatusInternalServerError, model.CodeServerError, "server error")
	}
}
