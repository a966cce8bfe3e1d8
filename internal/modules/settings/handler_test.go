package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/shoestore/internal/errs"
)

func serve(r http.Handler, method, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, "/api/v1/settings", strings.NewReader(body)))
	return rec
}

func TestHandlerGetAndPut(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Load(context.Background())
	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)

	rec := serve(r, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Defaults(), got)

	rec = serve(r, http.MethodPut, `{"title":"Sole Mates","bg":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Sole Mates", got.Title)
	assert.Equal(t, Defaults().BG, got.BG)
	assert.Equal(t, got, store.Current())

	rec = serve(r, http.MethodPut, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerReportsStorageFailure(t *testing.T) {
	store := NewStore(failingRepo{saveErr: &errs.StorageError{Op: "set", Key: "settings", Err: errors.New("read-only")}}, nil, nil)
	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)

	rec := serve(r, http.MethodPut, `{"title":"X"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, Defaults(), store.Current())
}
