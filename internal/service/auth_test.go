package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/modushop/backend/internal/config"
	"github.com/modushop/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthStore struct {
	users      map[string]*model.User
	sessions   map[string]*model.Session
	nextUserID int64
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		users:    make(map[string]*model.User),
		sessions: make(map[string]*model.Session),
	}
}

func (f *fakeAuthStore) CreateUser(_ context.Context, email, passwordHash, name string, roles []string) (*model.User, error) {
	if _, exists := f.users[email]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	f.nextUserID++
	user := &model.User{
		ID:           f.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
	f.users[email] = user
	copied := *user
	return &copied, nil
}

func (f *fakeAuthStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeAuthStore) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAuthStore) CreateSession(_ context.Context, s *model.Session) error {
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeAuthStore) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (f *fakeAuthStore) RefreshSession(_ context.Context, sessionID, newTokenHash string, expiresAt time.Time) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return pgx.ErrNoRows
	}
	session.RefreshTokenHash = newTokenHash
	session.RefreshedAt = time.Now()
	session.ExpiresAt = expiresAt
	return nil
}

func (f *fakeAuthStore) ExpireSession(_ context.Context, sessionID string) error {
	if session, ok := f.sessions[sessionID]; ok {
		session.Expired = true
	}
	return nil
}

type authFixture struct {
	svc        *AuthService
	store      *fakeAuthStore
	lockouts   *fakeLockouts
	attempts   *fakeAttempts
	captchas   *fakeCaptchaStore
	throttle   *Throttler
	captchaSeq int
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	store := newFakeAuthStore()
	lockouts := newFakeLockouts()
	attempts := newFakeAttempts()
	captchas := newFakeCaptchaStore()

	throttle := NewThrottler(lockouts, attempts, 5)
	captcha := NewCaptchaService(captchas, time.Minute)

	svc, err := NewAuthService(store, tokens, throttle, captcha, config.AuthConfig{})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return &authFixture{
		svc:      svc,
		store:    store,
		lockouts: lockouts,
		attempts: attempts,
		captchas: captchas,
		throttle: throttle,
	}
}

func (fx *authFixture) seedUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user, err := fx.store.CreateUser(context.Background(), email, string(hash), "Test User", []string{RoleUser})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// seedCaptcha plants a solvable challenge and returns a login request wired to
// it. Each call produces a fresh single-use challenge.
func (fx *authFixture) seedCaptcha(t *testing.T) (string, string) {
	t.Helper()
	fx.captchaSeq++
	id := fmt.Sprintf("captcha-%d", fx.captchaSeq)
	fx.captchas.answers[id] = "7"
	return id, "7"
}

func (fx *authFixture) loginReq(t *testing.T, email, password string) model.LoginRequest {
	t.Helper()
	id, code := fx.seedCaptcha(t)
	return model.LoginRequest{Email: email, Password: password, CaptchaID: id, CaptchaCode: code}
}

func TestLoginSuccess(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	pair, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "User@Example.com ", "password1"), "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail != nil {
		t.Fatalf("Login failure: %+v", fail)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}
	if len(fx.store.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(fx.store.sessions))
	}

	user, err := fx.svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
}

func TestLoginWrongPasswordLocksAfterFive(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "wrong-pass"), "10.0.0.1")
		if err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
		if fail == nil || fail.Code != model.CodeInvalidCredentials {
			t.Fatalf("Login %d failure = %+v, want INVALID_CREDENTIALS", i, fail)
		}
	}

	// even the correct password is refused while the lock holds
	_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeAuthLocked {
		t.Fatalf("failure = %+v, want AUTH_LOCKED", fail)
	}
	if fail.LockCount != 0 {
		t.Fatalf("LockCount = %d, want 0 on first lock", fail.LockCount)
	}
	if fail.LockUntil == nil {
		t.Fatal("LockUntil missing on lock failure")
	}
	if !strings.Contains(fail.Message, "try again in") {
		t.Fatalf("message = %q", fail.Message)
	}
	if len(fx.store.sessions) != 0 {
		t.Fatal("a session was opened while locked")
	}
}

func TestLoginUnknownEmailCountsTowardsLock(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "ghost@example.com", "whatever1"), "10.0.0.1")
		if err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
		if fail == nil || fail.Code != model.CodeUserNotFound {
			t.Fatalf("Login %d failure = %+v, want USER_NOT_FOUND", i, fail)
		}
	}

	_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "ghost@example.com", "whatever1"), "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeAuthLocked {
		t.Fatalf("failure = %+v, want AUTH_LOCKED after probing", fail)
	}
}

func TestLoginInvalidFormatNotCounted(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "not-an-email", "password1"), "10.0.0.1")
		if err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
		if fail == nil || fail.Code != model.CodeInvalidFormat {
			t.Fatalf("Login %d failure = %+v, want INVALID_FORMAT", i, fail)
		}
	}
	if len(fx.lockouts.records) != 0 {
		t.Fatal("format failures created a lockout")
	}
}

func TestLoginBadCaptchaCountsSeparately(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := model.LoginRequest{
			Email:       "user@example.com",
			Password:    "password1",
			CaptchaID:   "missing",
			CaptchaCode: "7",
		}
		_, fail, err := fx.svc.Login(ctx, req, "10.0.0.1")
		if err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
		if fail == nil || fail.Code != model.CodeCaptchaInvalid {
			t.Fatalf("Login %d failure = %+v, want CAPTCHA_INVALID", i, fail)
		}
	}

	// captcha lock now blocks the flow before credentials are seen
	_, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeAuthLocked {
		t.Fatalf("failure = %+v, want AUTH_LOCKED from captcha reason", fail)
	}
}

func TestLoginCaptchaSingleUseAcrossAttempts(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	id, code := fx.seedCaptcha(t)
	req := model.LoginRequest{Email: "user@example.com", Password: "wrong-pass", CaptchaID: id, CaptchaCode: code}
	_, fail, err := fx.svc.Login(ctx, req, "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeInvalidCredentials {
		t.Fatalf("failure = %+v, want INVALID_CREDENTIALS", fail)
	}

	// replaying the consumed captcha fails even with the right password
	req.Password = "password1"
	_, fail, err = fx.svc.Login(ctx, req, "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeCaptchaInvalid {
		t.Fatalf("failure = %+v, want CAPTCHA_INVALID on replay", fail)
	}
}

func TestLoginSuccessClearsLockButKeepsTier(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx.throttle.now = func() time.Time { return base }

	for i := 0; i < 5; i++ {
		if _, _, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "wrong-pass"), "10.0.0.1"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}

	// lock expires, user logs in, lock state is cleared
	fx.throttle.now = func() time.Time { return base.Add(2 * time.Minute) }
	pair, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil || fail != nil || pair == nil {
		t.Fatalf("Login after expiry = (%v, %+v, %v)", pair, fail, err)
	}

	// next escalation starts at tier 1 (5 minutes), not tier 0
	for i := 0; i < 5; i++ {
		if _, _, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "wrong-pass"), "10.0.0.1"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	_, fail, err = fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if fail == nil || fail.Code != model.CodeAuthLocked {
		t.Fatalf("failure = %+v, want AUTH_LOCKED", fail)
	}
	if fail.LockCount != 1 {
		t.Fatalf("LockCount = %d, want 1 on second lock", fail.LockCount)
	}
	want := base.Add(2 * time.Minute).Add(5 * time.Minute)
	if fail.LockUntil == nil || !fail.LockUntil.Equal(want) {
		t.Fatalf("LockUntil = %v, want %v", fail.LockUntil, want)
	}
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	id, code := fx.seedCaptcha(t)
	pair, fail, err := fx.svc.Register(ctx, model.RegisterRequest{
		Email:       "new@example.com",
		Password:    "password1",
		Name:        "New User",
		CaptchaID:   id,
		CaptchaCode: code,
	}, "10.0.0.1")
	if err != nil || fail != nil {
		t.Fatalf("Register = (%+v, %v)", fail, err)
	}
	if pair.AccessToken == "" {
		t.Fatal("no access token after registration")
	}

	user, err := fx.store.GetUserByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != RoleUser {
		t.Fatalf("roles = %v, want [user]", user.Roles)
	}

	id, code = fx.seedCaptcha(t)
	_, fail, err = fx.svc.Register(ctx, model.RegisterRequest{
		Email:       "new@example.com",
		Password:    "password1",
		CaptchaID:   id,
		CaptchaCode: code,
	}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if fail == nil || fail.Code != model.CodeEmailTaken {
		t.Fatalf("failure = %+v, want EMAIL_TAKEN", fail)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	cases := []string{"short1", "allletters", "12345678", "        "}
	for _, password := range cases {
		id, code := fx.seedCaptcha(t)
		_, fail, err := fx.svc.Register(ctx, model.RegisterRequest{
			Email:       "new@example.com",
			Password:    password,
			CaptchaID:   id,
			CaptchaCode: code,
		}, "10.0.0.1")
		if err != nil {
			t.Fatalf("Register(%q): %v", password, err)
		}
		if fail == nil || fail.Code != model.CodeWeakPassword {
			t.Fatalf("Register(%q) failure = %+v, want WEAK_PASSWORD", password, fail)
		}
	}
}

func TestRegisterDisabled(t *testing.T) {
	fx := newAuthFixture(t)
	fx.svc.allowSignup = false
	ctx := context.Background()

	_, fail, err := fx.svc.Register(ctx, model.RegisterRequest{Email: "x@y.co", Password: "password1"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if fail == nil || fail.Code != model.CodeSignupDisabled {
		t.Fatalf("failure = %+v, want SIGNUP_DISABLED", fail)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	pair, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil || fail != nil {
		t.Fatalf("Login = (%+v, %v)", fail, err)
	}

	next, err := fx.svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// the superseded token is revoked
	if _, err := fx.svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stale refresh: got %v, want ErrUnauthorized", err)
	}

	// the rotated token still works
	if _, err := fx.svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("rotated refresh: %v", err)
	}
}

func TestRefreshRejectsGarbageAndExpiredSession(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	if _, err := fx.svc.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token: got %v, want ErrUnauthorized", err)
	}
	if _, err := fx.svc.Refresh(ctx, "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token: got %v, want ErrUnauthorized", err)
	}

	pair, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil || fail != nil {
		t.Fatalf("Login = (%+v, %v)", fail, err)
	}
	if err := fx.svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := fx.svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh after logout: got %v, want ErrUnauthorized", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedUser(t, "user@example.com", "password1")
	ctx := context.Background()

	pair, fail, err := fx.svc.Login(ctx, fx.loginReq(t, "user@example.com", "password1"), "10.0.0.1")
	if err != nil || fail != nil {
		t.Fatalf("Login = (%+v, %v)", fail, err)
	}

	if err := fx.svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := fx.svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := fx.svc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("Logout with garbage: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	if err := fx.svc.EnsureAdmin(ctx, "admin@example.com", "adminpass1"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	admin, err := fx.store.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	hasAdmin := false
	for _, role := range admin.Roles {
		if role == RoleAdmin {
			hasAdmin = true
		}
	}
	if !hasAdmin {
		t.Fatalf("roles = %v, want admin", admin.Roles)
	}

	// second call is a no-op, not a duplicate
	if err := fx.svc.EnsureAdmin(ctx, "admin@example.com", "adminpass1"); err != nil {
		t.Fatalf("EnsureAdmin repeat: %v", err)
	}

	if err := fx.svc.EnsureAdmin(ctx, "", ""); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("EnsureAdmin with empty creds: got %v, want ErrMisconfigured", err)
	}
}

func TestPasswordStrong(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"password1", true},
		{"a1b2c3d4", true},
		{"short1a", false},
		{"onlyletters", false},
		{"123456789", false},
		{strings.Repeat("a1", 65), false},
	}
	for _, tc := range cases {
		if got := passwordStrong(tc.password); got != tc.want {
			t.Errorf("passwordStrong(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}

func TestParseSameSiteValidation(t *testing.T) {
	cfg := config.AuthConfig{CookieSameSite: "none", CookieSecure: "false"}
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	_, err = NewAuthService(newFakeAuthStore(), tokens, NewThrottler(newFakeLockouts(), newFakeAttempts(), 5), NewCaptchaService(newFakeCaptchaStore(), time.Minute), cfg)
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("SameSite=None without Secure: got %v, want ErrMisconfigured", err)
	}
}
