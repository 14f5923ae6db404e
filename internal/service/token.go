package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/modushop/backend/internal/config"
	"github.com/modushop/backend/internal/model"
)

// TokenIssuer signs and verifies access and refresh tokens with independent
// secrets and expiries. Verification has no side effects.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type accessClaims struct {
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	SessionID string   `json:"sid"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%w: JWT_ACCESS_SECRET is required", ErrMisconfigured)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: JWT_REFRESH_SECRET is required", ErrMisconfigured)
	}

	accessTTL, err := ParseExpiry(cfg.AccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_EXPIRY", ErrMisconfigured)
	}
	refreshTTL, err := ParseExpiry(cfg.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_EXPIRY", ErrMisconfigured)
	}

	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// ParseExpiry reads expiry strings like "15m", "12h" or "7d". The day suffix
// is handled here because time.ParseDuration stops at hours.
func ParseExpiry(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty expiry")
	}

	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid expiry: %q", value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid expiry: %q", value)
	}
	return d, nil
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

func (t *TokenIssuer) IssueAccessToken(user *model.User, sessionID string) (string, int64, error) {
	now := time.Now()
	claims := accessClaims{
		Email:     user.Email,
		Roles:     user.Roles,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.accessSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(t.accessTTL.Seconds()), nil
}

func (t *TokenIssuer) IssueRefreshToken(userID int64, sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.refreshTTL)
	claims := refreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.refreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (t *TokenIssuer) ParseAccessToken(tokenStr string) (*model.AuthUser, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return t.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return &model.AuthUser{
		ID:        userID,
		Email:     claims.Email,
		Roles:     claims.Roles,
		SessionID: claims.SessionID,
	}, nil
}

// ParseRefreshToken returns the session id and user id carried by a valid
// refresh token.
func (t *TokenIssuer) ParseRefreshToken(tokenStr string) (string, int64, error) {
	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return t.refreshSecret, nil
	})
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", 0, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", 0, ErrUnauthorized
	}
	return claims.SessionID, userID, nil
}

// HashToken stores refresh tokens hashed so a leaked sessions table cannot be
// replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
