package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trade-docs-api/internal/application/account"
	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/pkg/validate"
)

// AdminHandler handles reviewer account administration.
type AdminHandler struct {
	svc account.Service
}

func NewAdminHandler(svc account.Service) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) CreateDCA(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDCARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.CreateDCA(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) DeleteDCA(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDCA(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "DCA deleted"})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		httpError(w, err)
		return
	}
	users, err := h.svc.ListByRole(r.Context(), role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
