package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nestquest/homescout/internal/catalog"
	"github.com/nestquest/homescout/internal/events"
	"github.com/nestquest/homescout/internal/scoring"
	"github.com/nestquest/homescout/internal/store"
)

type ListingsHandler struct {
	store       store.Store
	events      events.Client
	catalogOpts catalog.Options
}

func NewListingsHandler(s store.Store, ev events.Client, opts catalog.Options) *ListingsHandler {
	return &ListingsHandler{store: s, events: ev, catalogOpts: opts}
}

type CreateListingRequest struct {
	Address  string               `json:"address"`
	Priority string               `json:"priority,omitempty"`
	Source   string               `json:"source,omitempty"`
	Raw      scoring.RawInput     `json:"raw"`
	Quality  scoring.QualityInput `json:"quality,omitempty"`
}

func (h *ListingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "address required"})
		return
	}
	if req.Raw == nil {
		req.Raw = scoring.RawInput{}
	}

	l := &store.Listing{
		Address:  req.Address,
		Priority: req.Priority,
		Source:   req.Source,
		Raw:      req.Raw,
		Quality:  req.Quality,
	}
	if err := h.store.CreateListing(r.Context(), l); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ListingFilter{Source: r.URL.Query().Get("source")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	listings, err := h.store.ListListings(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if listings == nil {
		listings = []*store.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid listing id"})
		return
	}
	l, err := h.store.GetListing(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if l == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "listing not found"})
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid listing id"})
		return
	}
	if err := h.store.DeleteListing(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Import ingests a CSV catalog posted as the request body and stores
// one listing per row. The column mapping comes from server config.
// POST /api/v1/listings/import?source=penny2
func (h *ListingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	if len(h.catalogOpts.Columns) == 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no catalog columns configured"})
		return
	}

	entries, err := catalog.Load(r.Body, h.catalogOpts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	source := r.URL.Query().Get("source")
	imported := make([]*store.Listing, 0, len(entries))
	for _, e := range entries {
		l := &store.Listing{
			Address:  e.Address,
			Priority: e.Priority,
			Source:   source,
			Raw:      e.Raw,
			Quality:  e.Quality,
		}
		if err := h.store.CreateListing(r.Context(), l); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if h.events != nil {
			_ = h.events.Publish(r.Context(), events.SubjectListingImported(l.ID.String()), events.ListingImportedEvent{
				ListingID: l.ID.String(),
				Address:   l.Address,
				Source:    source,
			})
		}
		imported = append(imported, l)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"imported": len(imported),
		"listings": imported,
	})
}
