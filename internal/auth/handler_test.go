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
	"golang.org/x/crypto/bcrypt"

	"github.com/sohaibsultan43/pos-software/internal/auth"
	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/internal/view"
	_ "github.com/sohaibsultan43/pos-software/testing"
)

type stubRepo struct {
	user        *auth.User
	newPassword string
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	s.newPassword = passwordHash
	return nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	handler := auth.NewHandler(nil, auth.NewService(repo), templates, sessionManager, csrfManager)
	return handler, sessionManager
}

func primedSession(t *testing.T, sessionManager *shared.SessionManager, handler func(http.ResponseWriter, *http.Request), path string) *shared.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	res := httptest.NewRecorder()
	handler(res, req.WithContext(ctx))
	if err := sessionManager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return sess
}

func TestLoginPage(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.ShowLogin(res, req)
	if err := sessionManager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: &auth.User{ID: 1, Email: "user@test.local", PasswordHash: string(hashed), IsActive: true}})

	sess := primedSession(t, sessionManager, handler.ShowLogin, "/login")

	postData := url.Values{}
	postData.Set("email", "user@test.local")
	postData.Set("password", "wrongpass")
	postData.Set("csrf_token", sess.Get(shared.CSRFSessionKey))

	postReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(postData.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postReq.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})

	loadedSess, err := sessionManager.Load(context.Background(), postReq)
	if err != nil {
		t.Fatalf("load session for post: %v", err)
	}
	postCtx := shared.ContextWithSession(postReq.Context(), loadedSess)
	postReq = postReq.WithContext(postCtx)

	res := httptest.NewRecorder()
	handler.HandleLogin(res, postReq)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Email atau password tidak valid") {
		t.Fatalf("expected error message in response")
	}
}

func TestLoginSuccessRedirectsToSales(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: &auth.User{ID: 7, Email: "user@test.local", PasswordHash: string(hashed), IsActive: true}})

	sess := primedSession(t, sessionManager, handler.ShowLogin, "/login")

	postData := url.Values{}
	postData.Set("email", "user@test.local")
	postData.Set("password", "correctpass")
	postData.Set("csrf_token", sess.Get(shared.CSRFSessionKey))

	postReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(postData.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postReq.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})

	loadedSess, err := sessionManager.Load(context.Background(), postReq)
	if err != nil {
		t.Fatalf("load session for post: %v", err)
	}
	postCtx := shared.ContextWithSession(postReq.Context(), loadedSess)
	postReq = postReq.WithContext(postCtx)

	res := httptest.NewRecorder()
	handler.HandleLogin(res, postReq)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/sales" {
		t.Fatalf("expected redirect to /sales, got %q", loc)
	}
	if loadedSess.User() != "7" {
		t.Fatalf("expected session user 7, got %q", loadedSess.User())
	}
}

func TestChangePasswordMismatch(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 3, Email: "user@test.local", IsActive: true}}
	handler, sessionManager := newAuthHandler(t, repo)

	sess := primedSession(t, sessionManager, handler.ShowLogin, "/login")
	sess.SetUser("3")

	postData := url.Values{}
	postData.Set("password", "newpassword1")
	postData.Set("confirm", "different1")
	postData.Set("csrf_token", sess.Get(shared.CSRFSessionKey))

	postReq := httptest.NewRequest(http.MethodPost, "/change-password", strings.NewReader(postData.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postCtx := shared.ContextWithSession(postReq.Context(), sess)

	res := httptest.NewRecorder()
	handler.HandleChangePassword(res, postReq.WithContext(postCtx))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if repo.newPassword != "" {
		t.Fatalf("password must not be updated on mismatch")
	}
	if !strings.Contains(res.Body.String(), "Konfirmasi password tidak sama") {
		t.Fatalf("expected mismatch message in response")
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 3, Email: "user@test.local", IsActive: true}}
	handler, sessionManager := newAuthHandler(t, repo)

	sess := primedSession(t, sessionManager, handler.ShowLogin, "/login")
	sess.SetUser("3")

	postData := url.Values{}
	postData.Set("password", "newpassword1")
	postData.Set("confirm", "newpassword1")
	postData.Set("csrf_token", sess.Get(shared.CSRFSessionKey))

	postReq := httptest.NewRequest(http.MethodPost, "/change-password", strings.NewReader(postData.Encode()))
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	postCtx := shared.ContextWithSession(postReq.Context(), sess)

	res := httptest.NewRecorder()
	handler.HandleChangePassword(res, postReq.WithContext(postCtx))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if repo.newPassword == "" {
		t.Fatalf("expected password hash to be stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.newPassword), []byte("newpassword1")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}
