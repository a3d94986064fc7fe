package v1

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"showcase-backend/pkg/logger"
	"showcase-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

// Uploader stores processed images and returns their public URL.
type Uploader interface {
	UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error)
}

type UploadHandler struct {
	storage       Uploader
	maxUploadSize int64
}

// NewUploadHandler accepts a nil Uploader when no bucket is configured;
// uploads then answer 503.
func NewUploadHandler(s Uploader, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context())

	if h.storage == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn().Err(err).Msg("Upload rejected: multipart parse failed")
		writeFailure(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("Upload rejected: no file field")
		writeFailure(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	log.Debug().Str("file", header.Filename).Str("content_type", contentType).Int64("size", header.Size).Msg("Upload received")
	if !allowedMimeTypes[contentType] {
		writeFailure(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeFailure(w, http.StatusBadRequest, "Invalid file extension")
		return
	}

	processed, newContentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Image processing failed")
		writeFailure(w, http.StatusUnprocessableEntity, "Failed to process image")
		return
	}

	url, err := h.storage.UploadBuffer(r.Context(), processed, newContentType)
	if err != nil {
		log.Error().Err(err).Msg("Object upload failed")
		writeFailure(w, http.StatusBadGateway, "Failed to upload file")
		return
	}

	writeData(w, http.StatusOK, map[string]string{"url": url}, "File uploaded successfully")
}
