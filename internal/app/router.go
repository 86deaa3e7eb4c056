package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sohaibsultan43/pos-software/internal/auth"
	"github.com/sohaibsultan43/pos-software/internal/customers"
	"github.com/sohaibsultan43/pos-software/internal/ledger"
	"github.com/sohaibsultan43/pos-software/internal/observability"
	"github.com/sohaibsultan43/pos-software/internal/products"
	"github.com/sohaibsultan43/pos-software/internal/sales"
	"github.com/sohaibsultan43/pos-software/internal/shared"
	"github.com/sohaibsultan43/pos-software/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	CustomersHandler *customers.Handler
	ProductsHandler  *products.Handler
	SalesHandler     *sales.Handler
	LedgerHandler    *ledger.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Login page stays reachable without a session; authenticated users are
	// sent to the sales screen instead.
	r.Group(func(r chi.Router) {
		r.Use(RedirectAuthenticated)
		r.Get("/login", params.AuthHandler.ShowLogin)
		r.Post("/login", params.AuthHandler.HandleLogin)
	})
	r.Post("/logout", params.AuthHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/sales", http.StatusSeeOther)
		})

		r.Get("/change-password", params.AuthHandler.ShowChangePassword)
		r.Post("/change-password", params.AuthHandler.HandleChangePassword)

		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/ledger", params.LedgerHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
