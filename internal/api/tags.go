package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/gift-certs/internal/service"
)

type tagsAPIHandler struct {
	tags *service.TagService
}

// registerTagRoutes registers tag routes on r.
func registerTagRoutes(r chi.Router, tags *service.TagService) {
	h := &tagsAPIHandler{tags: tags}
	r.Get("/tags", h.List)
	r.Post("/tags", h.Create)
	r.Get("/tags/{name}", h.Get)
}

// List returns every tag ordered by name.
// GET /tags
func (h *tagsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := TagListResponse{Tags: make([]TagResponse, 0, len(tags))}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, TagResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create returns the named tag, creating it when it does not exist yet.
// POST /tags
func (h *tagsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	t, err := h.tags.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, TagResponse{ID: t.ID, Name: t.Name})
}

// Get returns a tag by exact name.
// GET /tags/{name}
func (h *tagsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tags.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TagResponse{ID: t.ID, Name: t.Name})
}
