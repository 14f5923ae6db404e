package model

import "time"

type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CaptchaID   string `json:"captchaId"`
	CaptchaCode string `json:"captchaCode"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CaptchaID   string `json:"captchaId"`
	CaptchaCode string `json:"captchaCode"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type CaptchaResponse struct {
	CaptchaID string `json:"captchaId"`
	Question  string `json:"question"`
}

type AuthMeResponse struct {
	UserID int64    `json:"userId"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

// AuthUser is the identity extracted from a verified access token.
type AuthUser struct {
	ID        int64
	Email     string
	Roles     []string
	SessionID string
}

func (u *AuthUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProfile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Profile() UserProfile {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

type ProfileUpdateRequest struct {
	Name string `json:"name" binding:"required"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type RolesUpdateRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

type UserPage struct {
	Items    []UserProfile `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// Session is one authenticated login. A user may hold several concurrent
// sessions (multi-device); each carries its own refresh token.
type Session struct {
	ID               string
	UserID           int64
	RefreshTokenHash string
	IssuedAt         time.Time
	RefreshedAt      time.Time
	ExpiresAt        time.Time
	Expired          bool
}
