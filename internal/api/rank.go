package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nestquest/homescout/internal/events"
	"github.com/nestquest/homescout/internal/scoring"
	"github.com/nestquest/homescout/internal/store"
)

// RankHandler scores every stored listing against a stored profile and
// returns them best first.
type RankHandler struct {
	store  store.Store
	events events.Client
}

func NewRankHandler(s store.Store, ev events.Client) *RankHandler {
	return &RankHandler{store: s, events: ev}
}

type RankRequest struct {
	ProfileID string `json:"profile_id"`
	Source    string `json:"source,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Verbose   bool   `json:"verbose,omitempty"`
}

type RankedListing struct {
	Listing *store.Listing `json:"listing"`
	Score   float64        `json:"score"`
	Trace   *scoring.Trace `json:"trace,omitempty"`
}

type RankResponse struct {
	ProfileID string           `json:"profile_id"`
	Ranked    []*RankedListing `json:"ranked"`
	VetoCount int              `json:"veto_count"`
}

// POST /api/v1/rank
func (h *RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile id"})
		return
	}

	profile, err := h.store.GetProfile(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	engine, err := scoring.NewEngine(profile.Factors, profile.Params)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	listings, err := h.store.ListListings(r.Context(), store.ListingFilter{Source: req.Source})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now()
	ranked := make([]*RankedListing, 0, len(listings))
	vetoes := 0
	for _, l := range listings {
		score, trace := engine.ScorePropertyTrace(l.Raw, l.Quality)
		scoresComputed.Inc()
		scoreDistribution.Observe(score)
		if n := len(trace.Factors); n > 0 && trace.Factors[n-1].Veto {
			mustHaveVetoes.Inc()
			vetoes++
		}
		rl := &RankedListing{Listing: l, Score: score}
		if req.Verbose {
			rl.Trace = trace
		}
		ranked = append(ranked, rl)
	}
	rankDuration.Observe(time.Since(start).Seconds())

	// ties keep catalog order, which ListListings already sorts by priority
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	h.publishCompleted(r, profileID.String(), ranked, len(listings), vetoes)
	writeJSON(w, http.StatusOK, RankResponse{
		ProfileID: profileID.String(),
		Ranked:    ranked,
		VetoCount: vetoes,
	})
}

func (h *RankHandler) publishCompleted(r *http.Request, profileID string, ranked []*RankedListing, count, vetoes int) {
	if h.events == nil {
		return
	}
	ev := events.ScoringCompletedEvent{
		ProfileID:    profileID,
		ListingCount: count,
		VetoCount:    vetoes,
		Timestamp:    time.Now().UTC(),
	}
	if len(ranked) > 0 {
		ev.TopScore = ranked[0].Score
		ev.TopListingID = ranked[0].Listing.ID.String()
	}
	_ = h.events.Publish(r.Context(), events.SubjectScoringCompleted(profileID), ev)
}
