package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	applifecycle "github.com/trade-docs-api/internal/application/application"
	"github.com/trade-docs-api/internal/application/document"
	"github.com/trade-docs-api/internal/domain"
	"github.com/trade-docs-api/internal/pkg/validate"
	"github.com/trade-docs-api/internal/transport/http/middleware"
)

// maxUploadBytes caps the multipart form size for document submissions.
const maxUploadBytes = 32 << 20

// ApplicationHandler handles submission, review and listing of applications.
type ApplicationHandler struct {
	apps applifecycle.Service
	docs document.Service
}

func NewApplicationHandler(apps applifecycle.Service, docs document.Service) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, docs: docs}
}

// Create ingests a document upload and opens its PENDING application.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close()

	doc, app, err := h.docs.Ingest(r.Context(), document.IngestInput{
		Reader:       f,
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		DocumentType: r.FormValue("documentType"),
		UserID:       claims.UserID,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"document":    doc,
		"application": app,
	})
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	apps, err := h.apps.List(r.Context(), claims.Role, claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "applications": apps})
}

// Modify lets the owner edit the details of a PENDING application.
func (h *ApplicationHandler) Modify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ModifyApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	app, err := h.apps.Modify(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.NewDetails)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "application": app})
}

// Decide records a reviewer's APPROVED/DECLINED decision with its comment.
func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.DecideApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	app, err := h.apps.Decide(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Decision, req.Comment)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "application": app})
}

func (h *ApplicationHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.apps.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "comments": comments})
}
