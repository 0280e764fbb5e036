package scoring

import (
	"fmt"
	"strings"
)

// FactorTrace captures the intermediate values behind one factor's
// contribution to a property score.
type FactorTrace struct {
	Factor      string   `json:"factor"`
	Skipped     bool     `json:"skipped,omitempty"`
	Veto        bool     `json:"veto,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Value       float64  `json:"value"`
	HasValue    bool     `json:"has_value"`
	RawMatch    float64  `json:"raw_match"`
	Quality     *float64 `json:"quality,omitempty"`
	Blended     float64  `json:"blended"`
	Weight      float64  `json:"weight"`
	RunningSum  float64  `json:"running_sum"`
	TotalWeight float64  `json:"total_weight"`
}

// Trace is the optional diagnostic record of one ScoreProperty call.
// A nil *Trace is a valid no-op sink.
type Trace struct {
	Factors []FactorTrace `json:"factors"`
	Score   float64       `json:"score"`
}

func (t *Trace) skip(factor, reason string) {
	if t == nil {
		return
	}
	t.Factors = append(t.Factors, FactorTrace{Factor: factor, Skipped: true, Reason: reason})
}

func (t *Trace) veto(factor string, value float64, hasValue bool, weight float64) {
	if t == nil {
		return
	}
	reason := "must-have failed"
	if !hasValue {
		reason = "must-have failed: no values in band"
	}
	t.Factors = append(t.Factors, FactorTrace{
		Factor:   factor,
		Veto:     true,
		Reason:   reason,
		Value:    value,
		HasValue: hasValue,
		Weight:   weight,
	})
}

func (t *Trace) record(ft FactorTrace) {
	if t == nil {
		return
	}
	t.Factors = append(t.Factors, ft)
}

// String renders the trace for logs: one line per factor plus the
// final score.
func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, f := range t.Factors {
		switch {
		case f.Skipped:
			fmt.Fprintf(&b, "%s: skip (%s)\n", f.Factor, f.Reason)
		case f.Veto:
			if f.HasValue {
				fmt.Fprintf(&b, "%s: x=%.3f -> %s -> total=0\n", f.Factor, f.Value, f.Reason)
			} else {
				fmt.Fprintf(&b, "%s: %s -> total=0\n", f.Factor, f.Reason)
			}
		case f.Quality != nil:
			fmt.Fprintf(&b, "%s: x=%.3f r=%.3f qn=%.3f -> fs=%.3f (w=%g, sum=%.3f/%.3f)\n",
				f.Factor, f.Value, f.RawMatch, *f.Quality, f.Blended, f.Weight, f.RunningSum, f.TotalWeight)
		case !f.HasValue:
			fmt.Fprintf(&b, "%s: no values in band -> r=0 (w=%g, sum=%.3f/%.3f)\n",
				f.Factor, f.Weight, f.RunningSum, f.TotalWeight)
		default:
			fmt.Fprintf(&b, "%s: x=%.3f r=%.3f -> fs=%.3f raw-only (w=%g, sum=%.3f/%.3f)\n",
				f.Factor, f.Value, f.RawMatch, f.Blended, f.Weight, f.RunningSum, f.TotalWeight)
		}
	}
	fmt.Fprintf(&b, "final score = %.3f\n", t.Score)
	return b.String()
}
