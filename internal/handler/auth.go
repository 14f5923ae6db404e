package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
)

type AuthHandler struct {
	svc   *service.AuthService
	users *service.UserService
}

func NewAuthHandler(svc *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

// Captcha godoc
// @Summary Issue a captcha challenge
// @Description Returns a challenge id and question; the answer expires after the captcha TTL and is single-use.
// @Tags auth
// @Produce json
// @Success 200 {object} model.Envelope
// @Router /api/v1/auth/captcha [get]
func (h *AuthHandler) Captcha(c *gin.Context) {
	resp, err := h.svc.Captcha(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", resp)
}

// Login godoc
// @Summary Login
// @Description Form-flow failures (captcha, lockout, bad credentials) come back as HTTP 200 with an errorCode.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials and captcha answer"
// @Success 200 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	pair, fail, err := h.svc.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if fail != nil {
		respondFailure(c, fail.Code, fail.Message)
		return
	}

	h.setAuthCookies(c, pair)
	respondOK(c, "login successful", pair)
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration payload with captcha answer"
// @Success 200 {object} model.Envelope
// @Failure 400 {object} model.Envelope
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, model.CodeInvalidRequest, "invalid request")
		return
	}

	pair, fail, err := h.svc.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if fail != nil {
		respondFailure(c, fail.Code, fail.Message)
		return
	}

	h.setAuthCookies(c, pair)
	respondOK(c, "registration successful", pair)
}

// Refresh godoc
// @Summary Refresh the token pair
// @Description Reads the refresh token cookie; responds 401 on an invalid, expired or revoked session.
// @Tags auth
// @Produce json
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.RefreshCookieName())
	pair, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respondOK(c, "token refreshed", pair)
}

// Logout godoc
// @Summary Logout
// @Description Marks the session expired (if any) and clears both auth cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} model.Envelope
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.RefreshCookieName())
	_ = h.svc.Logout(c.Request.Context(), refreshToken)
	h.clearAuthCookies(c)
	respondOK(c, "logged out", model.StatusResponse{Status: "logged_out"})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Envelope
// @Failure 401 {object} model.Envelope
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respondOK(c, "ok", model.AuthMeResponse{
		UserID: profile.ID,
		Email:  profile.Email,
		Name:   profile.Name,
		Roles:  profile.Roles,
	})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *model.TokenPair) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(h.svc.AccessCookieName(), pair.AccessToken, h.svc.AccessMaxAge(), cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(h.svc.RefreshCookieName(), pair.RefreshToken, h.svc.RefreshMaxAge(), cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(h.svc.AccessCookieName(), "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(h.svc.RefreshCookieName(), "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
