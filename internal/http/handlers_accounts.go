package http

import (
	"net/http"
	"strings"

	"cuentas/internal/core"
	applog "cuentas/internal/log"
)

// handleAccountsCollection serves GET (list) and POST (create) on
// /api/accounts.
func (s *Server) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListAccounts(w, r)
	case http.MethodPost:
		s.handleCreateAccount(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleAccountByID serves PUT (update) and DELETE on /api/accounts/{id}.
func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusNotFound, "cuenta no encontrada")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleUpdateAccount(w, r, id)
	case http.MethodDelete:
		s.handleDeleteAccount(w, r, id)
	default:
		MethodNotAllowedError("PUT, DELETE").Write(w)
	}
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	if !s.repo.Refresh(r.Context()) {
		if msg := s.repo.Err(); msg != "" {
			writeJSONError(w, http.StatusBadGateway, msg)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.repo.Accounts())
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.writeMutationError(w, parser.IsJSON(), http.StatusBadRequest, "formato de la solicitud no válido")
		return
	}

	if !s.repo.Create(r.Context(), parser.AccountPayload()) {
		s.writeMutationError(w, parser.IsJSON(), http.StatusUnprocessableEntity, s.repo.Err())
		return
	}

	created := newestAccount(s.repo.Accounts())
	s.logs.LogAccountMutation(r.Context(), applog.OpCreate, created.ID, created.Name, created.Category, created.RequiresDynamicPin)
	if parser.IsJSON() {
		w.Header().Set("HX-Trigger", `{"account:created": {}}`)
		writeJSON(w, http.StatusCreated, s.repo.Accounts())
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerAccountCreated(created.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Cuenta guardada").
		BodyHTML(`<div class="success">Cuenta guardada</div>`).
		Write(w)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, id string) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.writeMutationError(w, parser.IsJSON(), http.StatusBadRequest, "formato de la solicitud no válido")
		return
	}

	payload := parser.AccountPayload()
	account := core.Account{
		ID:                 id,
		Name:               payload.Name,
		URL:                payload.URL,
		Username:           payload.Username,
		Password:           payload.Password,
		RequiresDynamicPin: payload.RequiresDynamicPin,
		Category:           payload.Category,
	}

	if !s.repo.Update(r.Context(), account) {
		s.writeMutationError(w, parser.IsJSON(), http.StatusUnprocessableEntity, s.repo.Err())
		return
	}

	s.logs.LogAccountMutation(r.Context(), applog.OpUpdate, account.ID, account.Name, account.Category, account.RequiresDynamicPin)
	if parser.IsJSON() {
		w.Header().Set("HX-Trigger", `{"account:updated": {}}`)
		writeJSON(w, http.StatusOK, s.repo.Accounts())
		return
	}
	NewHTMXResponse().
		TriggerAccountUpdated(id).
		TriggerSuccessNotification("Cuenta actualizada").
		BodyHTML(`<div class="success">Cuenta actualizada</div>`).
		Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	isJSON := !strings.Contains(r.Header.Get("Accept"), "text/html")

	if !s.repo.Delete(r.Context(), id) {
		s.writeMutationError(w, isJSON, http.StatusUnprocessableEntity, s.repo.Err())
		return
	}

	s.logs.LogAccountMutation(r.Context(), applog.OpDelete, id, "", "", false)
	if isJSON {
		w.Header().Set("HX-Trigger", `{"account:deleted": {}}`)
		writeJSON(w, http.StatusOK, s.repo.Accounts())
		return
	}
	NewHTMXResponse().
		TriggerAccountDeleted(id).
		TriggerSuccessNotification("Cuenta eliminada").
		BodyHTML(`<div class="success">Cuenta eliminada</div>`).
		Write(w)
}

func (s *Server) writeMutationError(w http.ResponseWriter, isJSON bool, statusCode int, message string) {
	if message == "" {
		message = "Error al guardar la cuenta"
	}
	if isJSON {
		writeJSONError(w, statusCode, message)
		return
	}
	ErrorResponse(statusCode, message).
		TriggerErrorNotification(message).
		Write(w)
}

// newestAccount returns the first account in the refreshed collection, which
// the stores keep ordered newest first.
func newestAccount(list []core.Account) core.Account {
	if len(list) == 0 {
		return core.Account{}
	}
	return list[0]
}
