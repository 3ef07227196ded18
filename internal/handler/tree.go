package handler

import (
	"context"
	"log/slog"
	"net/http"

	"keepsafe/internal/domain/services"
	"keepsafe/internal/httputil"
)

// TreeHandler handles trash and restore HTTP requests
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// ListTrash lists all trashed folders and files
// GET /api/trash
func (h *TreeHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	trash, err := h.treeService.ListTrash(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, trash)
}

// TrashFolder moves a folder subtree to trash
// POST /api/folders/{id}/trash
func (h *TreeHandler) TrashFolder(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.SoftDeleteFolder)
}

// RestoreFolder restores a folder subtree from trash
// POST /api/folders/{id}/restore
func (h *TreeHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.RestoreFolder)
}

// PurgeFolder permanently deletes a trashed folder subtree
// DELETE /api/folders/{id}
func (h *TreeHandler) PurgeFolder(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.PurgeFolder)
}

// TrashFile moves a file to trash
// POST /api/files/{id}/trash
func (h *TreeHandler) TrashFile(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.SoftDeleteFile)
}

// RestoreFile restores a file from trash
// POST /api/files/{id}/restore
func (h *TreeHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.RestoreFile)
}

// PurgeFile permanently deletes a trashed file
// DELETE /api/files/{id}
func (h *TreeHandler) PurgeFile(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.treeService.PurgeFile)
}

func (h *TreeHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := op(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
