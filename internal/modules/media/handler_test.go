package media

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, target string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if target != "" {
		require.NoError(t, mw.WriteField("target", target))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", "logo.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandlerConvertsUpload(t *testing.T) {
	c := NewConverter(nil)
	r := chi.NewRouter()
	NewHandler(c).RegisterRoutes(r)

	body, contentType := multipartBody(t, TargetSettingsLogo, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/data-uri", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	c.Wait()

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, TargetSettingsLogo, res.Target)
	assert.Equal(t, "image/png", res.MIME)
	assert.Contains(t, res.DataURI, "data:image/png;base64,")
}

func TestHandlerRejectsMissingAndOversizedFiles(t *testing.T) {
	c := NewConverter(nil, WithMaxBytes(4))
	r := chi.NewRouter()
	NewHandler(c).RegisterRoutes(r)

	body, contentType := multipartBody(t, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/data-uri", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, contentType = multipartBody(t, "", pngHeader)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/media/data-uri", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	c.Wait()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds")
}
