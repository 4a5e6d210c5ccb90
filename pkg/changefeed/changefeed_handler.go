package changefeed

import (
	"encoding/json"
	"net/http"
)

type RevisionDTO struct {
	Revision uint64 `json:"revision"`
}

type Handler struct {
	tracker *Tracker
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker}
}

func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	revision, err := h.tracker.Revision(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(RevisionDTO{Revision: revision}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
