package catalog

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// maxImportBytes bounds the body accepted by the import endpoint.
const maxImportBytes = 8 << 20

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Delete("/products", h.deleteAll)
		r.Get("/products/{id}", h.getProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Get("/categories", h.categories)
		r.Get("/export", h.export)
		r.Post("/import", h.importProducts)
		r.Post("/sample", h.loadSample)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Text:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Sort:     Sort(r.URL.Query().Get("sort")),
	}
	respond(w, http.StatusOK, h.service.Search(q))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.service.Find(id)
	if !ok {
		fail(w, errs.NotFound("product", id))
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.service.Categories())
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.ExportSnapshot()
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, snapshot)
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.Import(r.Context(), payload)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) loadSample(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.LoadSample(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func fail(w http.ResponseWriter, err error) {
	respond(w, errs.StatusCode(err), map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
