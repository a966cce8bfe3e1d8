package media

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// Handler exposes the upload endpoint.
type Handler struct{ converter *Converter }

func NewHandler(converter *Converter) *Handler { return &Handler{converter: converter} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/media/data-uri", h.dataURI)
}

// dataURI converts the multipart "file" field. The optional "target" field
// names the form slot; a newer upload to the same slot supersedes this one.
func (h *Handler) dataURI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.converter.MaxBytes()+1<<20)
	file, _, err := r.FormFile("file")
	if err != nil {
		fail(w, errs.Required("file"))
		return
	}
	defer file.Close()

	target := r.FormValue("target")
	if target == "" {
		target = TargetProductImage
	}

	results := make(chan Result, 1)
	ticket := h.converter.Convert(target, file, func(res Result) { results <- res })

	select {
	case <-r.Context().Done():
		h.converter.CancelTicket(ticket)
		<-ticket.Done()
		return
	case <-ticket.Done():
	}

	select {
	case res := <-results:
		if res.Err != nil {
			fail(w, res.Err)
			return
		}
		respond(w, http.StatusOK, res)
	default:
		respond(w, http.StatusConflict, map[string]string{"error": "upload superseded by a newer one"})
	}
}

func fail(w http.ResponseWriter, err error) {
	respond(w, errs.StatusCode(err), map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
