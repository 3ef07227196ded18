package handler

import (
	"log/slog"
	"net/http"

	"keepsafe/internal/config"
	"keepsafe/internal/domain/services"
	"keepsafe/internal/httputil"
)

// UploadHandler handles multipart upload batches
type UploadHandler struct {
	uploadService services.UploadService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService services.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// Upload ingests a multipart batch.
// POST /api/uploads
//
// Form layout: one or more "files" parts; an optional "folder_id" field
// naming the destination; an optional "paths" field per file carried as
// repeated "paths" values aligned with the "files" parts (the browser's
// webkitRelativePath, directory part only). A missing or short paths list
// means the remaining files land directly in the destination.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadFormMemory); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "no files in upload")
		return
	}

	h.logger.Info("upload batch received",
		"user_id", httputil.GetUserID(r),
		"files", len(fileHeaders),
	)

	var destFolderID *string
	if v := r.FormValue("folder_id"); v != "" {
		destFolderID = &v
	}
	paths := r.MultipartForm.Value["paths"]

	items := make([]services.UploadItem, 0, len(fileHeaders))
	opened := make([]interface{ Close() error }, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for i, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "unreadable file part: "+fh.Filename)
			return
		}
		opened = append(opened, f)

		relPath := ""
		if i < len(paths) {
			relPath = paths[i]
		}

		items = append(items, services.UploadItem{
			Filename:     fh.Filename,
			RelativePath: relPath,
			ContentType:  fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Content:      f,
		})
	}

	result, err := h.uploadService.UploadBatch(r.Context(), destFolderID, items, func(p services.Progress) {
		h.logger.Debug("upload progress", "current", p.Current, "total", p.Total, "name", p.Name)
	})
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusCreated
	if len(result.Errors) > 0 {
		// Partial success: some items uploaded, some failed.
		status = http.StatusMultiStatus
	}
	httputil.RespondJSON(w, status, result)
}
