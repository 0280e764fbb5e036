package scoring

import (
	"encoding/json"
	"fmt"
)

// Mode classifies how a factor participates in the final score.
type Mode string

const (
	ModeMustHave   Mode = "must_have"
	ModeNiceToHave Mode = "nice_to_have"
	ModeIrrelevant Mode = "irrelevant"
)

// Aggregation selects how a multi-value factor collapses to one number.
type Aggregation string

const (
	AggMean       Aggregation = "mean"
	AggMedian     Aggregation = "median"
	AggMin        Aggregation = "min"
	AggMax        Aggregation = "max"
	AggKNearest   Aggregation = "k_nearest"
	AggKFarthest  Aggregation = "k_farthest"
	AggPercentile Aggregation = "percentile"
)

// DecayFunc selects the distance-weighting law used when a multi-value
// factor aggregates by decay instead of a flat statistic.
type DecayFunc string

const (
	DecayLinear    DecayFunc = "linear"
	DecayExp       DecayFunc = "exp"
	DecayQuadratic DecayFunc = "quadratic"
)

// FactorConfig describes one scoring dimension of a profile.
// Target, Lower, Upper and Percentile are pointers so that an absent
// field can be told apart from an explicit zero; NormalizeProfile fills
// every optional field, so a normalized config has no nil pointers
// except Percentile on non-percentile factors.
type FactorConfig struct {
	Mode      Mode     `json:"mode" yaml:"mode"`
	Target    *float64 `json:"target" yaml:"target"`
	Lower     *float64 `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper     *float64 `json:"upper,omitempty" yaml:"upper,omitempty"`
	Direction int      `json:"direction" yaml:"direction"`
	Weight    float64  `json:"weight" yaml:"weight"`

	Multi       bool        `json:"multi,omitempty" yaml:"multi,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	NearestK    int         `json:"nearest_k,omitempty" yaml:"nearest_k,omitempty"`
	FarthestK   int         `json:"farthest_k,omitempty" yaml:"farthest_k,omitempty"`
	Percentile  *float64    `json:"percentile,omitempty" yaml:"percentile,omitempty"`

	DecayFunc DecayFunc `json:"decay_function,omitempty" yaml:"decay_function,omitempty"`
	DecayRate float64   `json:"decay_rate,omitempty" yaml:"decay_rate,omitempty"`
}

// Profile maps factor key to its configuration.
type Profile map[string]FactorConfig

// Params holds the engine-wide scoring parameters.
type Params struct {
	MaxQuality        float64 `json:"max_quality" yaml:"max_quality"`
	QualityFloor      float64 `json:"quality_floor" yaml:"quality_floor"`
	QualityWeight     float64 `json:"quality_weight" yaml:"quality_weight"`
	QualExp           float64 `json:"qual_exp" yaml:"qual_exp"`
	RawFloor          float64 `json:"raw_floor" yaml:"raw_floor"`
	MustHaveTolerance float64 `json:"must_have_tolerance" yaml:"must_have_tolerance"`
	MarginEpsilon     float64 `json:"margin_epsilon" yaml:"margin_epsilon"`
}

// DefaultParams returns the stock parameter set.
func DefaultParams() Params {
	return Params{
		MaxQuality:        5,
		QualityFloor:      0.10,
		QualityWeight:     0.80,
		QualExp:           1.0,
		RawFloor:          0.05,
		MustHaveTolerance: 0,
		MarginEpsilon:     1e-6,
	}
}

// normalized clamps every parameter into its legal range and fills
// unusable zero values with defaults.
func (p Params) normalized() Params {
	if p.MaxQuality <= 1 {
		p.MaxQuality = 5
	}
	p.QualityFloor = clamp01(p.QualityFloor)
	p.QualityWeight = clamp01(p.QualityWeight)
	if p.QualExp < 0 {
		p.QualExp = 0
	}
	p.RawFloor = clamp01(p.RawFloor)
	if p.MustHaveTolerance < 0 {
		p.MustHaveTolerance = 0
	}
	if p.MarginEpsilon <= 0 {
		p.MarginEpsilon = 1e-6
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Raw carries one factor's raw measurement for a property: a scalar for
// single-value factors, a slice for multi-POI factors. Absence of a key
// in RawInput means the factor is skipped for that property.
type Raw struct {
	Value  float64
	Values []float64
}

// Scalar wraps a single measurement.
func Scalar(v float64) Raw { return Raw{Value: v} }

// Multi wraps a collection of measurements.
func Multi(vs ...float64) Raw { return Raw{Values: vs} }

// IsMulti reports whether the input carries a collection.
func (r Raw) IsMulti() bool { return r.Values != nil }

// MarshalJSON renders a scalar as a bare number and a collection as an
// array, matching the tabular import format.
func (r Raw) MarshalJSON() ([]byte, error) {
	if r.IsMulti() {
		return json.Marshal(r.Values)
	}
	return json.Marshal(r.Value)
}

func (r *Raw) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		r.Values = []float64{}
		return json.Unmarshal(data, &r.Values)
	}
	r.Values = nil
	if err := json.Unmarshal(data, &r.Value); err != nil {
		return fmt.Errorf("raw value must be a number or an array of numbers: %w", err)
	}
	return nil
}

// RawInput maps factor key to the property's raw measurement.
type RawInput map[string]Raw

// QualityInput maps factor key to a subjective rating in [1, MaxQuality].
type QualityInput map[string]float64
