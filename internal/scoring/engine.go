package scoring

import (
	"math"
	"sort"
)

// Engine scores properties against a validated profile. It holds no
// mutable state after construction, so a single instance may be shared
// across goroutines.
type Engine struct {
	profile Profile
	params  Params
	keys    []string // sorted for deterministic evaluation order
}

// NewEngine normalizes the profile once and returns an engine bound to
// it. A *ConfigError is returned for an invalid profile.
func NewEngine(profile Profile, params Params) (*Engine, error) {
	normalized, err := NormalizeProfile(profile, params)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Engine{
		profile: normalized,
		params:  params.normalized(),
		keys:    keys,
	}, nil
}

// Profile returns the normalized profile the engine scores against.
func (e *Engine) Profile() Profile { return e.profile }

// Params returns the engine's effective parameters.
func (e *Engine) Params() Params { return e.params }

// ScoreProperty computes the blended score in [0,1] for one property.
func (e *Engine) ScoreProperty(raw RawInput, quality QualityInput) float64 {
	score, _ := e.score(raw, quality, nil)
	return score
}

// ScorePropertyTrace is ScoreProperty plus a per-factor diagnostic
// trace. The trace is informational only; the score is identical to
// the untraced call.
func (e *Engine) ScorePropertyTrace(raw RawInput, quality QualityInput) (float64, *Trace) {
	tr := &Trace{}
	score, _ := e.score(raw, quality, tr)
	tr.Score = score
	return score, tr
}

func (e *Engine) score(raw RawInput, quality QualityInput, tr *Trace) (float64, bool) {
	var weightedSum, totalWeight float64

	for _, key := range e.keys {
		cfg := e.profile[key]
		if cfg.Mode == ModeIrrelevant {
			tr.skip(key, "irrelevant")
			continue
		}

		in, ok := raw[key]
		if !ok {
			tr.skip(key, "no raw value")
			continue
		}

		var (
			x        float64
			hasValue bool
		)
		if cfg.Multi {
			if !in.IsMulti() {
				tr.skip(key, "expected a value collection")
				continue
			}
			x, hasValue = aggregate(in.Values, cfg)
		} else {
			if in.IsMulti() {
				tr.skip(key, "expected a single value")
				continue
			}
			x, hasValue = in.Value, true
		}

		// an empty in-band set is complete non-satisfaction, not a skip
		r := 0.0
		if hasValue {
			r = rawMatch(x, cfg, e.params)
		}

		if cfg.Mode == ModeMustHave && r == 0 {
			tr.veto(key, x, hasValue, cfg.Weight)
			return 0, true
		}

		fs := r
		var qn *float64
		if q, rated := quality[key]; rated {
			v := qualityScore(q, e.params)
			qn = &v
			fs = blend(r, v, e.params.QualityWeight)
		}

		weightedSum += cfg.Weight * fs
		totalWeight += cfg.Weight
		tr.record(FactorTrace{
			Factor:      key,
			Value:       x,
			HasValue:    hasValue,
			RawMatch:    r,
			Quality:     qn,
			Blended:     fs,
			Weight:      cfg.Weight,
			RunningSum:  weightedSum,
			TotalWeight: totalWeight,
		})
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// blend combines raw-match and quality as a weighted geometric mean.
// The geometric form (rather than a linear mix) guarantees that a
// zero raw-match cannot be rescued by a high rating.
func blend(r, qn, qualityWeight float64) float64 {
	if r == 0 {
		return 0
	}
	return math.Pow(r, 1-qualityWeight) * math.Pow(qn, qualityWeight)
}
