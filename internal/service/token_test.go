package service

import (
	"errors"
	"testing"
	"time"

	"github.com/modushop/backend/internal/config"
	"github.com/modushop/backend/internal/model"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  "15m",
		RefreshExpiry: "7d",
	}
}

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"15m", 15 * time.Minute, false},
		{"12h", 12 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{" 30d ", 30 * 24 * time.Hour, false},
		{"", 0, true},
		{"0d", 0, true},
		{"-5m", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseExpiry(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseExpiry(%q): want error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExpiry(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseExpiry(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewTokenIssuerRequiresSecrets(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessSecret = ""
	if _, err := NewTokenIssuer(cfg); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("missing access secret: got %v, want ErrMisconfigured", err)
	}

	cfg = testAuthConfig()
	cfg.RefreshSecret = ""
	if _, err := NewTokenIssuer(cfg); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("missing refresh secret: got %v, want ErrMisconfigured", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	user := &model.User{ID: 42, Email: "user@example.com", Roles: []string{"user", "admin"}}
	signed, expiresIn, err := tokens.IssueAccessToken(user, "session-1")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if expiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("expiresIn = %d, want 900", expiresIn)
	}

	parsed, err := tokens.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if parsed.ID != 42 || parsed.Email != "user@example.com" || parsed.SessionID != "session-1" {
		t.Fatalf("parsed = %+v", parsed)
	}
	if !parsed.HasRole("admin") {
		t.Fatal("admin role lost in round trip")
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	other := testAuthConfig()
	other.AccessSecret = "a-different-secret"
	otherTokens, err := NewTokenIssuer(other)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	signed, _, err := tokens.IssueAccessToken(&model.User{ID: 1, Email: "a@b.co"}, "s")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := otherTokens.ParseAccessToken(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong secret: got %v, want ErrUnauthorized", err)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	refresh, _, err := tokens.IssueRefreshToken(7, "session-7")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	if _, err := tokens.ParseAccessToken(refresh); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	sid, userID, err := tokens.ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
	if sid != "session-7" || userID != 7 {
		t.Fatalf("sid=%q userID=%d", sid, userID)
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	if a != HashToken("token-a") {
		t.Fatal("HashToken is not deterministic")
	}
	if a == HashToken("token-b") {
		t.Fatal("distinct tokens hash equal")
	}
	if a == "token-a" {
		t.Fatal("token stored in the clear")
	}
}
