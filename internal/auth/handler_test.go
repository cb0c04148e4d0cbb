package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/donorhub/donorhub/internal/auth"
	"github.com/donorhub/donorhub/internal/shared"
	"github.com/donorhub/donorhub/internal/view"
	_ "github.com/donorhub/donorhub/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	handler := auth.NewHandler(nil, auth.NewService(repo), templates, sessionManager)
	return handler, sessionManager
}

func testUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: 1, Email: "donor@test.local", Username: "Test Donor", PasswordHash: hash}
}

func postLogin(t *testing.T, handler *auth.Handler, sessions *shared.SessionManager, email, password string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sess, err := sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	if err := sessions.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res, sess
}

func TestLoginPage(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
}

func TestLoginSuccessIssuesSession(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: testUser(t, "correctpass")})

	res, sess := postLogin(t, handler, sessions, "donor@test.local", "correctpass")

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/home" {
		t.Fatalf("expected redirect to /home, got %q", loc)
	}
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session after login")
	}

	// The committed token must recover the identity on a later request.
	followUp := httptest.NewRequest(http.MethodGet, "/profile-data", nil)
	followUp.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: sess.ID})
	loaded, err := sessions.Load(context.Background(), followUp)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.Email() != "donor@test.local" || loaded.Username() != "Test Donor" {
		t.Fatalf("unexpected identity: %q / %q", loaded.Email(), loaded.Username())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: testUser(t, "correctpass")})

	res, sess := postLogin(t, handler, sessions, "donor@test.local", "wrongpass")

	if res.Code != http.StatusOK {
		t.Fatalf("expected flash render with 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Wrong password") {
		t.Fatalf("expected wrong password message in body")
	}
	if sess.Authenticated() {
		t.Fatalf("failed login must not issue a session identity")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{})

	res, sess := postLogin(t, handler, sessions, "nobody@test.local", "whatever")

	if res.Code != http.StatusOK {
		t.Fatalf("expected flash render with 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "User not found") {
		t.Fatalf("expected user not found message in body")
	}
	if sess.Authenticated() {
		t.Fatalf("failed login must not issue a session identity")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: testUser(t, "correctpass")})

	_, sess := postLogin(t, handler, sessions, "donor@test.local", "correctpass")
	token := sess.ID

	logoutReq := httptest.NewRequest(http.MethodGet, "/logout", nil)
	logoutReq.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: token})
	logoutSess, err := sessions.Load(context.Background(), logoutReq)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(logoutReq.Context(), logoutSess)
	logoutReq = logoutReq.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, logoutReq)
	if err := sessions.Commit(ctx, res, logoutReq, logoutSess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after logout, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	// The old token must be permanently invalid.
	replay := httptest.NewRequest(http.MethodGet, "/profile-data", nil)
	replay.AddCookie(&http.Cookie{Name: sessions.CookieName(), Value: token})
	replayed, err := sessions.Load(context.Background(), replay)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if replayed.Authenticated() {
		t.Fatalf("destroyed token must not authenticate")
	}
}
