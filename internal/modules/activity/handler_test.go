package activity

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerStreamsEvents(t *testing.T) {
	bus := NewBus()
	r := chi.NewRouter()
	NewHandler(bus, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return bus.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, bus.Emit(ctx, Event{Topic: TopicCartChanged, Verb: "added", ObjectID: "p1"}))

	reader := bufio.NewReader(resp.Body)
	var frame []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" && len(frame) > 0 {
			break
		}
		if line != "" {
			frame = append(frame, line)
		}
	}
	joined := strings.Join(frame, "\n")
	assert.Contains(t, joined, "id:1")
	assert.Contains(t, joined, "event:"+TopicCartChanged)
	assert.Contains(t, joined, `"object_id":"p1"`)

	cancel()
	assert.Eventually(t, func() bool { return bus.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
