package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// Handler exposes the settings over HTTP.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Get("/", h.get)  // GET /api/v1/settings
		r.Put("/", h.save) // PUT /api/v1/settings
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Current())
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	saved, err := h.service.Save(r.Context(), req)
	if err != nil {
		respond(w, errs.StatusCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, saved)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
