package app

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// Handler exposes maintenance endpoints.
type Handler struct{ app *App }

func NewHandler(app *App) *Handler { return &Handler{app: app} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/admin/reset", h.reset)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Reset(r.Context()); err != nil {
		respond(w, errs.StatusCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]int{
		"products": len(h.app.Catalog.List()),
		"cart":     h.app.Cart.LineCount(),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
