package handler

import (
	"log/slog"
	"net/http"

	"keepsafe/internal/domain/services"
	"keepsafe/internal/httputil"
)

// BulkHandler handles mixed-selection operations
type BulkHandler struct {
	bulkService services.BulkService
	logger      *slog.Logger
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(bulkService services.BulkService, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
		logger:      logger,
	}
}

// Trash soft-deletes a selection
// POST /api/bulk/trash
func (h *BulkHandler) Trash(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.parseSelection(w, r)
	if !ok {
		return
	}
	if err := h.bulkService.TrashSelection(r.Context(), sel); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Purge permanently deletes a trashed selection
// POST /api/bulk/purge
func (h *BulkHandler) Purge(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.parseSelection(w, r)
	if !ok {
		return
	}
	if err := h.bulkService.PurgeSelection(r.Context(), sel); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Download issues per-file download links for a selection
// POST /api/bulk/download
func (h *BulkHandler) Download(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.parseSelection(w, r)
	if !ok {
		return
	}
	links, err := h.bulkService.DownloadLinks(r.Context(), sel)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"links": links})
}

// Share reports that bulk sharing is unsupported
// POST /api/bulk/share
func (h *BulkHandler) Share(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.parseSelection(w, r)
	if !ok {
		return
	}
	if err := h.bulkService.ShareSelection(r.Context(), sel); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BulkHandler) parseSelection(w http.ResponseWriter, r *http.Request) (services.Selection, bool) {
	var sel services.Selection
	if err := httputil.ParseJSON(w, r, &sel); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return sel, false
	}
	return sel, true
}
