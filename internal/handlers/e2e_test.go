package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/uploadgateway/internal/auth"
	"github.com/example/uploadgateway/internal/storage"
	"github.com/example/uploadgateway/internal/upload"
)

// newGateway wires a real service against a local object store and a real
// HTTP fetcher, routed the same way the server binary routes it.
func newGateway(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewLocalStore()
	require.NoError(t, store.Initialize(map[string]string{
		"basePath": t.TempDir(),
		"baseURL":  "http://objects.test",
	}))

	svc := upload.NewService(store, upload.NewHTTPFetcher(5*time.Second), nil, 2)
	h := NewUploadHandler(svc, nil)

	verifier := auth.NewVerifier("e2e-secret", "HS256", "upload-service")

	router := mux.NewRouter()
	uploads := router.PathPrefix("/upload/oaas").Subrouter()
	uploads.HandleFunc("/folder", h.UploadFolder).Methods(http.MethodPost)
	uploads.HandleFunc("/files", h.UploadFiles).Methods(http.MethodPost)
	uploads.HandleFunc("/files/v2", h.UploadProductBytes).Methods(http.MethodPost)
	uploads.Use(verifier.Middleware)
	return router
}

func e2eToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "upload-service",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("e2e-secret"))
	require.NoError(t, err)
	return signed
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	gateway := newGateway(t)

	req := httptest.NewRequest(http.MethodPost, "/upload/oaas/files", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	gateway.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGatewayFilesUpload(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer origin.Close()

	gateway := newGateway(t)

	body := `{
		"user": {"mobile_no": "9999999999"},
		"product": {"tmp_code": "P1", "images": [{"image_type": "image/jpeg", "url": "` + origin.URL + `/img.jpg"}]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/upload/oaas/files", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+e2eToken(t))
	rr := httptest.NewRecorder()
	gateway.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		S3URLs upload.GroupResult `json:"s3_urls"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	urls, ok := resp.S3URLs.Get("P1")
	require.True(t, ok)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "http://objects.test/placeorder/")
	assert.Contains(t, urls[0], "/P1/img.jpg")
	// The hashed user segment never leaks the identifier.
	assert.NotContains(t, urls[0], "9999999999")
}

func TestGatewayFolderUpload(t *testing.T) {
	var archiveBuf bytes.Buffer
	zw := zip.NewWriter(&archiveBuf)
	for _, name := range []string{"shoes/left.jpg", "shoes/right.jpg", "hats/cap.png"} {
		fw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archiveBuf.Bytes())
	}))
	defer origin.Close()

	gateway := newGateway(t)

	body := `{"user": {"mobile_no": "9999999999"}, "zip_folder": {"url": "` + origin.URL + `/folders.zip"}}`
	req := httptest.NewRequest(http.MethodPost, "/upload/oaas/folder", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+e2eToken(t))
	rr := httptest.NewRecorder()
	gateway.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		S3URLs upload.GroupResult `json:"s3_urls"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"shoes", "hats"}, resp.S3URLs.Groups())

	shoes, _ := resp.S3URLs.Get("shoes")
	assert.Len(t, shoes, 2)
}

func TestGatewayFolderUploadCorruptArchiveIs500(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not a zip"))
	}))
	defer origin.Close()

	gateway := newGateway(t)

	body := `{"user": {"mobile_no": "9999999999"}, "zip_folder": {"url": "` + origin.URL + `/bad.zip"}}`
	req := httptest.NewRequest(http.MethodPost, "/upload/oaas/folder", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+e2eToken(t))
	rr := httptest.NewRecorder()
	gateway.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid zip archive")
}
