// Package handlers provides HTTP handlers for the upload endpoints
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/uploadgateway/internal/models"
	"github.com/example/uploadgateway/internal/upload"
)

// UploadService is the orchestration boundary the handlers call into.
type UploadService interface {
	SaveFolder(ctx context.Context, req models.FolderRequest) (*upload.GroupResult, error)
	SaveFiles(ctx context.Context, req models.FileRequest) (*upload.GroupResult, error)
	SaveProductBytes(ctx context.Context, req models.BytesRequest) (*upload.GroupResult, error)
}

// UploadHandler handles the three upload request shapes.
type UploadHandler struct {
	svc UploadService
	log *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(svc UploadService, log *slog.Logger) *UploadHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UploadHandler{svc: svc, log: log}
}

// uploadResponse is the success envelope shared by all three endpoints.
type uploadResponse struct {
	S3URLs *upload.GroupResult `json:"s3_urls"`
}

// UploadFolder handles POST /upload/oaas/folder: one ZIP archive whose inner
// folders become result groups. Any failure before group structure exists is
// fatal and surfaces as a 500 with the failure message as detail.
func (h *UploadHandler) UploadFolder(w http.ResponseWriter, r *http.Request) {
	var req models.FolderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.svc.SaveFolder(r.Context(), req)
	if err != nil {
		h.log.Error("folder upload failed", "url", req.ZipFolder.URL, "err", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{S3URLs: result})
}

// UploadFiles handles POST /upload/oaas/files: URL-sourced images for one
// product. Item failures are folded into the result list, so a validated
// request always yields 200.
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	var req models.FileRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.svc.SaveFiles(r.Context(), req)
	if err != nil {
		h.log.Error("file upload failed", "product", req.Product.TmpCode, "err", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{S3URLs: result})
}

// UploadProductBytes handles POST /upload/oaas/files/v2: inline base64
// images for multiple products.
func (h *UploadHandler) UploadProductBytes(w http.ResponseWriter, r *http.Request) {
	var req models.BytesRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.svc.SaveProductBytes(r.Context(), req)
	if err != nil {
		h.log.Error("bytes upload failed", "err", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{S3URLs: result})
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Upload Gateway"})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
