package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdateRequest true "Profile fields"
// @Success 200 {object} model.Envelope
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "profile updated", profile)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Description Requires the current password; the new one must meet the strength rules.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PasswordChangeRequest true "Current and new password"
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	var req model.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "password changed", model.StatusResponse{Status: "updated"})
}

// List returns a page of user profiles; admin only.
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "pageSize"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", page)
}

// SetRoles replaces a user's role set; admin only.
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.RolesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	if err := h.svc.SetRoles(c.Request.Context(), id, req.Roles); err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "roles updated", model.StatusResponse{Status: "updated"})
}
