package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modushop/backend/internal/config"
	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// at least 8 chars with both a letter and a digit
	passwordLetterRx = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitRx  = regexp.MustCompile(`[0-9]`)
)

// AuthFailure is the structured, user-facing outcome of a login/register
// attempt. Form flows return it inside a 200 envelope instead of an HTTP
// error; only guard-protected flows (refresh, logout) use sentinel errors.
type AuthFailure struct {
	Code      string
	Message   string
	LockUntil *time.Time
	LockCount int
}

type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type authStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string, roles []string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	RefreshSession(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error
	ExpireSession(ctx context.Context, sessionID string) error
}

type AuthService struct {
	store       authStore
	tokens      *TokenIssuer
	throttle    *Throttler
	captcha     *CaptchaService
	allowSignup bool
	cookieCfg   CookieConfig
}

func NewAuthService(store authStore, tokens *TokenIssuer, throttle *Throttler, captcha *CaptchaService, cfg config.AuthConfig) (*AuthService, error) {
	allowSignup, err := parseBool(cfg.AllowSignup, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ALLOW_SIGNUP", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	return &AuthService{
		store:       store,
		tokens:      tokens,
		throttle:    throttle,
		captcha:     captcha,
		allowSignup: allowSignup,
		cookieCfg: CookieConfig{
			Path:     "/",
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig { return s.cookieCfg }

func (s *AuthService) AccessCookieName() string  { return accessCookieName }
func (s *AuthService) RefreshCookieName() string { return refreshCookieName }

func (s *AuthService) AccessMaxAge() int  { return int(s.tokens.AccessTTL().Seconds()) }
func (s *AuthService) RefreshMaxAge() int { return int(s.tokens.RefreshTTL().Seconds()) }

func (s *AuthService) AllowSignup() bool { return s.allowSignup }

// Captcha issues a new challenge for the login/register forms.
func (s *AuthService) Captcha(ctx context.Context) (model.CaptchaResponse, error) {
	return s.captcha.New(ctx)
}

// Login walks the throttled authentication sequence: captcha lock, captcha,
// format, password lock, user lookup, credential check. Lock checks never
// count as attempts themselves.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, ip string) (*model.TokenPair, *AuthFailure, error) {
	email := NormalizeEmail(req.Email)

	fail, err := s.passCaptcha(ctx, email, ip, req.CaptchaID, req.CaptchaCode)
	if err != nil || fail != nil {
		return nil, fail, err
	}

	if !emailRx.MatchString(email) || strings.TrimSpace(req.Password) == "" {
		// format-only failures are not counted
		return nil, &AuthFailure{Code: model.CodeInvalidFormat, Message: "invalid email or empty password"}, nil
	}

	status, err := s.throttle.CheckLock(ctx, email, ip, model.LockReasonPassword)
	if err != nil {
		return nil, nil, err
	}
	if status.Locked {
		return nil, lockedFailure(status), nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			// counted so probing unknown emails locks the same way
			if err := s.throttle.RegisterFailure(ctx, email, ip, model.LockReasonPassword); err != nil {
				return nil, nil, err
			}
			return nil, &AuthFailure{Code: model.CodeUserNotFound, Message: "email is not registered"}, nil
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if err := s.throttle.RegisterFailure(ctx, email, ip, model.LockReasonPassword); err != nil {
			return nil, nil, err
		}
		return nil, &AuthFailure{Code: model.CodeInvalidCredentials, Message: "invalid email or password"}, nil
	}

	if err := s.throttle.ResetLock(ctx, email, ip); err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, nil, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, ip string) (*model.TokenPair, *AuthFailure, error) {
	if !s.allowSignup {
		return nil, &AuthFailure{Code: model.CodeSignupDisabled, Message: "signup is disabled"}, nil
	}

	email := NormalizeEmail(req.Email)

	fail, err := s.passCaptcha(ctx, email, ip, req.CaptchaID, req.CaptchaCode)
	if err != nil || fail != nil {
		return nil, fail, err
	}

	if !emailRx.MatchString(email) {
		return nil, &AuthFailure{Code: model.CodeInvalidFormat, Message: "invalid email"}, nil
	}
	if !passwordStrong(req.Password) {
		return nil, &AuthFailure{Code: model.CodeWeakPassword, Message: "password must be at least 8 characters with letters and digits"}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.CreateUser(ctx, email, string(hash), strings.TrimSpace(req.Name), []string{RoleUser})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, &AuthFailure{Code: model.CodeEmailTaken, Message: "email is already registered"}, nil
		}
		return nil, nil, err
	}

	if err := s.throttle.ResetLock(ctx, email, ip); err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, nil, nil
}

// passCaptcha runs the shared captcha-lock + captcha-validate prefix of both
// login and register.
func (s *AuthService) passCaptcha(ctx context.Context, email, ip, captchaID, captchaCode string) (*AuthFailure, error) {
	status, err := s.throttle.CheckLock(ctx, email, ip, model.LockReasonCaptcha)
	if err != nil {
		return nil, err
	}
	if status.Locked {
		return lockedFailure(status), nil
	}

	ok, err := s.captcha.Verify(ctx, captchaID, captchaCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.throttle.RegisterFailure(ctx, email, ip, model.LockReasonCaptcha); err != nil {
			return nil, err
		}
		return &AuthFailure{Code: model.CodeCaptchaInvalid, Message: "captcha is wrong or expired"}, nil
	}
	return nil, nil
}

// Refresh rotates the session's refresh token and issues a fresh pair.
// Every failure path is ErrUnauthorized; nothing is mutated before the
// session checks pass.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrUnauthorized
	}

	sessionID, userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	now := time.Now()
	if session.Expired || now.After(session.ExpiresAt) || session.UserID != userID {
		return nil, ErrUnauthorized
	}
	if session.RefreshTokenHash != HashToken(refreshToken) {
		// token was already rotated; treat the stale copy as revoked
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	newRefresh, expiresAt, err := s.tokens.IssueRefreshToken(user.ID, session.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.RefreshSession(ctx, session.ID, HashToken(newRefresh), expiresAt); err != nil {
		return nil, err
	}

	access, expiresIn, err := s.tokens.IssueAccessToken(user, session.ID)
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// Logout marks the session expired. Invalid tokens are ignored; logging out
// twice is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	sessionID, _, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.store.ExpireSession(ctx, sessionID)
}

func (s *AuthService) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	return s.tokens.ParseAccessToken(tokenStr)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ADMIN_EMAIL/ADMIN_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	if !emailRx.MatchString(email) || !passwordStrong(password) {
		return ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.store.CreateUser(ctx, email, string(hash), "admin", []string{RoleAdmin, RoleUser})
	return err
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	sessionID := uuid.NewString()

	refresh, expiresAt, err := s.tokens.IssueRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.store.CreateSession(ctx, &model.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: HashToken(refresh),
		IssuedAt:         now,
		RefreshedAt:      now,
		ExpiresAt:        expiresAt,
	}); err != nil {
		return nil, err
	}

	access, expiresIn, err := s.tokens.IssueAccessToken(user, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

func lockedFailure(status model.LockStatus) *AuthFailure {
	until := status.LockUntil
	return &AuthFailure{
		Code:      model.CodeAuthLocked,
		Message:   status.Message,
		LockUntil: &until,
		LockCount: status.LockCount,
	}
}

func passwordStrong(password string) bool {
	if len(password) < 8 || len(password) > 128 {
		return false
	}
	return passwordLetterRx.MatchString(password) && passwordDigitRx.MatchString(password)
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}
