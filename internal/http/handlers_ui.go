package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"cuentas/internal/core"
)

const msgInvalidPassword = "Contraseña incorrecta"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Suggestions []core.CategorySuggestion
	}{
		Suggestions: core.Suggestions,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, r, "")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderLogin(w, r, msgInvalidPassword)
			return
		}
		token, ok := s.gate.Login(r.Form.Get("password"))
		if !ok {
			slog.WarnContext(r.Context(), "Login rejected", "client_ip", s.ips.ExtractClientIP(r))
			w.WriteHeader(http.StatusUnauthorized)
			s.renderLoginBody(w, r, msgInvalidPassword)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.renderLoginBody(w, r, errMsg)
}

func (s *Server) renderLoginBody(w http.ResponseWriter, r *http.Request, errMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errMsg}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.gate.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// accountRow carries one account prepared for template rendering.
type accountRow struct {
	ID                 string
	Name               string
	URL                string
	Username           string
	Password           string
	Category           string
	RequiresDynamicPin bool
	CreatedAt          string
}

func toRows(list []core.Account) []accountRow {
	rows := make([]accountRow, 0, len(list))
	for _, a := range list {
		created := a.CreatedAt
		if t, err := core.ParseCreatedAt(a.CreatedAt); err == nil {
			created = t.Format("02/01/2006")
		}
		rows = append(rows, accountRow{
			ID:                 a.ID,
			Name:               a.Name,
			URL:                a.URL,
			Username:           a.Username,
			Password:           a.Password,
			Category:           a.Category,
			RequiresDynamicPin: a.RequiresDynamicPin,
			CreatedAt:          created,
		})
	}
	return rows
}

// handleAccountsPartial renders the filtered account list partial.
func (s *Server) handleAccountsPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !s.repo.Refresh(r.Context()) {
		if msg := s.repo.Err(); msg != "" {
			_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
			return
		}
	}

	params := ParseFilterParams(r.URL.Query())
	all := s.repo.Accounts()
	filtered := core.FilterAccounts(all, core.Filter{
		Category:   params.Category,
		SearchTerm: params.SearchTerm,
	})

	data := struct {
		Accounts []accountRow
		Category string
		Search   string
		Empty    bool
	}{
		Accounts: toRows(filtered),
		Category: params.Category,
		Search:   params.SearchTerm,
		Empty:    len(filtered) == 0,
	}

	if err := s.templates.ExecuteTemplate(w, "accounts.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "accounts.html")
		_, _ = w.Write([]byte(`<div class="error">Error al cargar las cuentas</div>`))
	}
}

// handleStatsPartial renders the vault statistics partial.
func (s *Server) handleStatsPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	params := ParseFilterParams(r.URL.Query())
	all := s.repo.Accounts()
	filtered := core.FilterAccounts(all, core.Filter{
		Category:   params.Category,
		SearchTerm: params.SearchTerm,
	})
	stats := core.Stats(all, filtered)

	if err := s.templates.ExecuteTemplate(w, "stats.html", stats); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "stats.html")
		_, _ = w.Write([]byte(`<div class="error">Error al cargar las estadísticas</div>`))
	}
}

// handleCategoriesPartial renders the category inventory and ranking.
func (s *Server) handleCategoriesPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	all := s.repo.Accounts()

	type categoryRow struct {
		Name  string
		Count int
	}
	existing := core.ExistingCategories(all)
	rows := make([]categoryRow, 0, len(existing))
	for _, name := range existing {
		rows = append(rows, categoryRow{Name: name, Count: core.CategoryCount(all, name)})
	}

	data := struct {
		Categories  []categoryRow
		MostUsed    []core.CategoryUsage
		Suggestions []core.CategorySuggestion
	}{
		Categories:  rows,
		MostUsed:    core.MostUsedCategories(all, 5),
		Suggestions: core.Suggestions,
	}

	if err := s.templates.ExecuteTemplate(w, "categories.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "categories.html")
		_, _ = w.Write([]byte(`<div class="error">Error al cargar las categorías</div>`))
	}
}

// handlePinPartial fetches the current dynamic PIN and renders it with an
// advisory staleness flag.
func (s *Server) handlePinPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if s.pins == nil {
		_, _ = w.Write([]byte(`<div class="error">Servicio PIN no configurado</div>`))
		return
	}

	code, err := s.pins.Fetch(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "PIN fetch error", "error", err)
		_, _ = w.Write([]byte(`<div class="error">Error al obtener el PIN</div>`))
		return
	}

	data := struct {
		Codigo      int64
		GeneratedAt string
		Stale       bool
	}{
		Codigo:      code.Codigo,
		GeneratedAt: code.GeneratedAt().Format("15:04:05"),
		Stale:       code.Stale(time.Now()),
	}

	if err := s.templates.ExecuteTemplate(w, "pin.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "pin.html")
		_, _ = w.Write([]byte(`<div class="error">Error al mostrar el PIN</div>`))
	}
}
