package api

import (
	"net/http"
	"time"

	"github.com/nestquest/homescout/internal/events"
	"github.com/nestquest/homescout/internal/store"
)

type AdminHandler struct {
	store  store.Store
	events events.Client
}

func NewAdminHandler(s store.Store, ev events.Client) *AdminHandler {
	return &AdminHandler{store: s, events: ev}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if h.events != nil {
		_ = h.events.Publish(r.Context(), events.SubjectStats, events.StatsEvent{
			Profiles:  stats.Profiles,
			Listings:  stats.Listings,
			Timestamp: time.Now().UTC(),
		})
	}
	writeJSON(w, http.StatusOK, stats)
}
