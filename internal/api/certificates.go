package api

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/gift-certs/internal/service"
)

// certificatesAPIHandler provides REST handlers for the certificate catalog.
type certificatesAPIHandler struct {
	certs       *service.CertificateService
	maxPageSize int
}

// registerCertificateRoutes registers certificate routes on r.
func registerCertificateRoutes(r chi.Router, certs *service.CertificateService, maxPageSize int) {
	h := &certificatesAPIHandler{certs: certs, maxPageSize: maxPageSize}
	r.Get("/certificates", h.List)
	r.Post("/certificates", h.Create)
	r.Get("/certificates/tag/{tag}", h.ListByTag)
	r.Get("/certificates/name/{name}", h.ListByName)
	r.Get("/certificates/{id}", h.Get)
	r.Put("/certificates/{id}", h.Update)
	r.Patch("/certificates/{id}", h.Patch)
	r.Delete("/certificates/{id}", h.Delete)
}

// List returns certificates after the requested filter and sort chain.
// GET /certificates
func (h *certificatesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r)
}

// ListByTag is List with a leading tag filter taken from the path.
// GET /certificates/tag/{tag}
func (h *certificatesAPIHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.Operation{Name: "tag", Value: chi.URLParam(r, "tag")})
}

// ListByName is List with a leading name-part filter taken from the path.
// GET /certificates/name/{name}
func (h *certificatesAPIHandler) ListByName(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.Operation{Name: "name", Value: chi.URLParam(r, "name")})
}

// list runs leading before the operations named in the query.
func (h *certificatesAPIHandler) list(w http.ResponseWriter, r *http.Request, leading ...service.Operation) {
	opts, err := parseListOptions(r, h.maxPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}
	opts.Operations = slices.Concat(leading, opts.Operations)

	certs, err := h.certs.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := CertificateListResponse{
		Certificates: make([]CertificateResponse, 0, len(certs)),
		Page:         opts.Page,
		Size:         opts.Size,
	}
	for _, c := range certs {
		resp.Certificates = append(resp.Certificates, toCertificateResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a certificate.
// POST /certificates
func (h *certificatesAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	c, err := h.certs.Add(r.Context(), req.toCertificate())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/certificates/"+formatID(c.ID))
	writeJSON(w, http.StatusCreated, toCertificateResponse(c))
}

// Get returns a single certificate.
// GET /certificates/{id}
func (h *certificatesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid certificate id", "BAD_REQUEST")
		return
	}

	c, err := h.certs.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCertificateResponse(c))
}

// Update replaces a certificate. An empty or missing tags list keeps the
// current tags.
// PUT /certificates/{id}
func (h *certificatesAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid certificate id", "BAD_REQUEST")
		return
	}

	var req CertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	c, err := h.certs.Update(r.Context(), id, req.toCertificate())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCertificateResponse(c))
}

// Patch merges the supplied fields onto a certificate.
// PATCH /certificates/{id}
func (h *certificatesAPIHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid certificate id", "BAD_REQUEST")
		return
	}

	var req PatchCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	c, err := h.certs.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCertificateResponse(c))
}

// Delete removes a certificate and its tag links.
// DELETE /certificates/{id}
func (h *certificatesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid certificate id", "BAD_REQUEST")
		return
	}

	if err := h.certs.Remove(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
