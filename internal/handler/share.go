package handler

import (
	"context"
	"log/slog"
	"net/http"

	"keepsafe/internal/domain/services"
	"keepsafe/internal/httputil"
)

// ShareHandler handles signed links and folder ACL grants
type ShareHandler struct {
	shareService services.ShareService
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService services.ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		logger:       logger,
	}
}

// PreviewLink issues a short-lived inline URL for a file
// GET /api/files/{id}/preview
func (h *ShareHandler) PreviewLink(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.shareService.PreviewLink)
}

// DownloadLink issues a short-lived attachment URL for a file
// GET /api/files/{id}/download
func (h *ShareHandler) DownloadLink(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.shareService.DownloadLink)
}

// ShareLink issues a long-lived URL for handing out
// POST /api/files/{id}/share-link
func (h *ShareHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
	h.link(w, r, h.shareService.ShareLink)
}

type shareFolderRequest struct {
	Email string `json:"email"`
}

// ShareFolder grants email access to a folder
// POST /api/folders/{id}/shares
func (h *ShareHandler) ShareFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req shareFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	share, err := h.shareService.ShareFolder(r.Context(), id, req.Email)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("folder share granted",
		"user_id", httputil.GetUserID(r),
		"folder_id", id,
		"email", req.Email,
	)

	httputil.RespondJSON(w, http.StatusCreated, share)
}

// ListShares lists active grants on a folder
// GET /api/folders/{id}/shares
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	shares, err := h.shareService.ListShares(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"shares": shares})
}

func (h *ShareHandler) link(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, fileID string) (*services.SignedLink, error)) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	link, err := op(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, link)
}
