package api

import (
	"encoding/json"
	"net/http"

	"github.com/nestquest/homescout/internal/scoring"
)

// ScoreHandler scores ad-hoc inputs without touching the store: the
// request carries the whole profile plus one property's measurements.
type ScoreHandler struct {
	defaultParams scoring.Params
}

func NewScoreHandler(defaults scoring.Params) *ScoreHandler {
	return &ScoreHandler{defaultParams: defaults}
}

type ScoreRequest struct {
	Factors scoring.Profile      `json:"factors"`
	Params  *scoring.Params      `json:"params,omitempty"`
	Raw     scoring.RawInput     `json:"raw"`
	Quality scoring.QualityInput `json:"quality,omitempty"`
	Verbose bool                 `json:"verbose,omitempty"`
}

type ScoreResponse struct {
	Score float64        `json:"score"`
	Trace *scoring.Trace `json:"trace,omitempty"`
}

// POST /api/v1/score
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Factors) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "factors required"})
		return
	}

	params := h.defaultParams
	if req.Params != nil {
		params = *req.Params
	}
	engine, err := scoring.NewEngine(req.Factors, params)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	score, trace := engine.ScorePropertyTrace(req.Raw, req.Quality)
	resp := ScoreResponse{Score: score}
	if req.Verbose {
		resp.Trace = trace
	}

	scoresComputed.Inc()
	scoreDistribution.Observe(score)
	if n := len(trace.Factors); n > 0 && trace.Factors[n-1].Veto {
		mustHaveVetoes.Inc()
	}

	writeJSON(w, http.StatusOK, resp)
}
