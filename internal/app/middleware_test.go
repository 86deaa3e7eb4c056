package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sohaibsultan43/pos-software/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loggedInRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	sess := &shared.Session{}
	sess.SetUser("7")
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := httptest.NewRecorder()

	RequireUser(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	rec := httptest.NewRecorder()

	RequireUser(okHandler()).ServeHTTP(rec, loggedInRequest(t, "/sales"))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRedirectAuthenticatedSendsToSales(t *testing.T) {
	rec := httptest.NewRecorder()

	RedirectAuthenticated(okHandler()).ServeHTTP(rec, loggedInRequest(t, "/login"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/sales", rec.Header().Get("Location"))
}

func TestRedirectAuthenticatedPassesAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()

	RedirectAuthenticated(okHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
