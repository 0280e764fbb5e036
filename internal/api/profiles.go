package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nestquest/homescout/internal/events"
	"github.com/nestquest/homescout/internal/scoring"
	"github.com/nestquest/homescout/internal/store"
)

type ProfilesHandler struct {
	store         store.Store
	events        events.Client
	defaultParams scoring.Params
}

func NewProfilesHandler(s store.Store, ev events.Client, defaults scoring.Params) *ProfilesHandler {
	return &ProfilesHandler{store: s, events: ev, defaultParams: defaults}
}

type ProfileRequest struct {
	Name    string          `json:"name"`
	Factors scoring.Profile `json:"factors"`
	Params  *scoring.Params `json:"params,omitempty"`
}

func (h *ProfilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || len(req.Factors) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and factors required"})
		return
	}

	params := h.defaultParams
	if req.Params != nil {
		params = *req.Params
	}
	normalized, err := scoring.NormalizeProfile(req.Factors, params)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	p := &store.ScoreProfile{Name: req.Name, Factors: normalized, Params: params}
	if err := h.store.CreateProfile(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r.Context(), events.SubjectProfileCreated(p.ID.String()), p)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListProfiles(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if profiles == nil {
		profiles = []*store.ScoreProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile id"})
		return
	}
	p, err := h.store.GetProfile(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile id"})
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetProfile(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Params != nil {
		existing.Params = *req.Params
	}
	if req.Factors != nil {
		normalized, err := scoring.NormalizeProfile(req.Factors, existing.Params)
		if err != nil {
			writeConfigError(w, err)
			return
		}
		existing.Factors = normalized
	}

	if err := h.store.UpdateProfile(r.Context(), existing); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.publish(r.Context(), events.SubjectProfileUpdated(id.String()), existing)
	writeJSON(w, http.StatusOK, existing)
}

func (h *ProfilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile id"})
		return
	}
	if err := h.store.DeleteProfile(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.publish(r.Context(), events.SubjectProfileDeleted(id.String()), map[string]string{"profile_id": id.String()})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ProfilesHandler) publish(ctx context.Context, subject string, p interface{}) {
	if h.events == nil {
		return
	}
	if prof, ok := p.(*store.ScoreProfile); ok {
		_ = h.events.Publish(ctx, subject, events.ProfileEvent{
			ProfileID: prof.ID.String(),
			Name:      prof.Name,
			Factors:   len(prof.Factors),
		})
		return
	}
	_ = h.events.Publish(ctx, subject, p)
}

// writeConfigError maps a scoring.ConfigError to 422; anything else is
// an unexpected server error.
func writeConfigError(w http.ResponseWriter, err error) {
	var cfgErr *scoring.ConfigError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid profile",
			"factor": cfgErr.Factor,
			"issues": cfgErr.Issues,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
