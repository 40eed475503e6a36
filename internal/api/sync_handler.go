package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seqnotes/seqnotes-sync/internal/syncer"
)

// SyncHandler serves the sync status endpoints.
type SyncHandler struct {
	syncer *syncer.Syncer
	logger *slog.Logger
}

// NewSyncHandler creates a SyncHandler over the given syncer.
func NewSyncHandler(s *syncer.Syncer, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: s,
		logger: logger.With("component", "sync_handler"),
	}
}

// Routes mounts the sync endpoints on a fresh router.
func (h *SyncHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.GetStatus)
	r.Post("/retry", h.Retry)
	r.Delete("/mutations/{id}", h.Dismiss)
	return r
}

// GetStatus returns the queue and connectivity snapshot the sync
// indicator renders.
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.syncer.Status(r.Context())
	if err != nil {
		h.logger.Error("failed to read sync status", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	RespondWithJSON(w, http.StatusOK, status)
}

// Retry triggers an immediate drain that ignores the retry limit, then
// returns the resulting status.
func (h *SyncHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.RetryAll(r.Context()); err != nil {
		h.logger.Error("manual retry failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "retry failed")
		return
	}

	status, err := h.syncer.Status(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	RespondWithJSON(w, http.StatusOK, status)
}

// Dismiss drops a pending mutation without replaying it.
func (h *SyncHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		RespondWithError(w, http.StatusBadRequest, "mutation id is required")
		return
	}

	if err := h.syncer.Dismiss(r.Context(), id); err != nil {
		h.logger.Error("failed to dismiss mutation", "mutation_id", id, "error", err)
		RespondWithError(w, http.StatusInternalServerError, "failed to dismiss mutation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NewRouter assembles the full HTTP surface: health probe plus the
// sync endpoints.
func NewRouter(h *SyncHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/sync", h.Routes())
	return r
}
