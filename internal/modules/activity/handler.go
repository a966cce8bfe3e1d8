package activity

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sse"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// streamBuffer is how many events a slow client may lag behind before new
// ones are dropped for it.
const streamBuffer = 32

var errSubscriberBehind = errors.New("event stream subscriber is behind, event dropped")

// Handler streams bus events to browsers as server-sent events.
type Handler struct {
	bus    *Bus
	logger *zap.Logger
}

func NewHandler(bus *Bus, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{bus: bus, logger: logger}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/events", h.stream)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events := make(chan Event, streamBuffer)
	unsubscribe := h.bus.Subscribe(HookFunc(func(_ context.Context, e Event) error {
		select {
		case events <- e:
			return nil
		default:
			return errSubscriberBehind
		}
	}))
	defer unsubscribe()
	h.logger.Debug("event stream opened", zap.Int("subscribers", h.bus.Len()))

	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var seq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			seq++
			if err := sse.Encode(w, sse.Event{
				Id:    strconv.FormatUint(seq, 10),
				Event: e.Topic,
				Data:  e,
			}); err != nil {
				h.logger.Debug("event stream closed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}
