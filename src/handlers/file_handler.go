package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/storage"
	"github.com/username/tradejournal/backend/src/utils"
)

type FileHandler struct {
	store *storage.LocalStore
}

func NewFileHandler(store *storage.LocalStore) *FileHandler {
	return &FileHandler{
		store: store,
	}
}

// HandleGetFile serves GET /files/* — the target of signed display
// URLs. The exp/sig query values must match the signature issued by
// the object store; no session is required, the signature is the
// authorization.
func (h *FileHandler) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	exp := r.URL.Query().Get("exp")
	sig := r.URL.Query().Get("sig")

	if !h.store.VerifyURL(key, exp, sig) {
		logger.FromContext(r.Context()).Warn("Rejected file request with bad or expired signature", "key", key)
		utils.SendJSONError(w, "URL is invalid or has expired", http.StatusForbidden)
		return
	}

	f, err := h.store.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			utils.SendJSONError(w, "File not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to open stored file", "key", key, "error", err)
		utils.SendJSONError(w, "Failed to serve file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, filepath.Base(key), time.Time{}, f)
}
