package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cuentas/internal/accounts"
	"cuentas/internal/auth"
	"cuentas/internal/core"
	applog "cuentas/internal/log"
	"cuentas/internal/middleware/ratelimit"
	"cuentas/internal/middleware/security"
	"cuentas/internal/middleware/trace"
	appweb "cuentas/web"
)

// PinFetcher retrieves the current dynamic PIN code.
type PinFetcher interface {
	Fetch(ctx context.Context) (core.PinResponse, error)
}

const sessionCookie = "cuentas_session"

type Server struct {
	http.Server
	templates *template.Template
	repo      *accounts.Repository
	gate      *auth.Gate
	pins      PinFetcher

	limiter      *ratelimit.Limiter
	ips          *security.IPExtractor
	logs         *applog.StructuredLogger
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, repo *accounts.Repository, gate *auth.Gate, pins PinFetcher, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		repo:    repo,
		gate:    gate,
		pins:    pins,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		ips:     security.NewIPExtractor(),
		logs:    applog.NewStructuredLogger(logger),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/", s.requireSession(s.handleIndex, false))

	// UI partials
	mux.HandleFunc("/ui/accounts", s.requireSession(s.handleAccountsPartial, false))
	mux.HandleFunc("/ui/stats", s.requireSession(s.handleStatsPartial, false))
	mux.HandleFunc("/ui/categories", s.requireSession(s.handleCategoriesPartial, false))
	mux.HandleFunc("/ui/pin", s.requireSession(s.handlePinPartial, false))

	// JSON API
	mux.HandleFunc("/api/accounts", s.requireSession(s.handleAccountsCollection, true))
	mux.HandleFunc("/api/accounts/", s.requireSession(s.handleAccountByID, true))

	tracer := trace.NewMiddleware(s.ips.ExtractClientIP, logger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	handler := headers.Middleware(tracer.Middleware(s.rateLimitWrites(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// rateLimitWrites applies the per-IP limit to mutating requests only; page
// loads and partial refreshes stay unthrottled.
func (s *Server) rateLimitWrites(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.ips.ExtractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// requireSession gates a handler behind a live session. API handlers answer
// 401; page handlers redirect to the login form.
func (s *Server) requireSession(next http.HandlerFunc, api bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authenticated(r) {
			next(w, r)
			return
		}
		if api {
			writeJSONError(w, http.StatusUnauthorized, "sesión no válida")
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (s *Server) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	return s.gate.Authenticated(cookie.Value)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
