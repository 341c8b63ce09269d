package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"promptdeck/internal/config"
	"promptdeck/internal/httputil"
	"promptdeck/internal/upload"
)

// UploadHandler handles attachment uploads
type UploadHandler struct {
	service *upload.Service
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *upload.Service, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger,
	}
}

// Upload stores a multipart batch of attachments
// POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Bound the whole request body: max files times max size, plus slack
	// for multipart framing.
	limit := int64(config.MaxUploadFiles)*config.MaxUploadFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]upload.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Unreadable file in request")
			return
		}
		opened = append(opened, f)
		files = append(files, upload.File{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Reader:      f,
		})
	}

	metas, err := h.service.Store(files)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"files": metas})
}
