package scoring

import (
	"math"
	"sort"
)

// aggregateFn collapses an in-band, non-empty value set to one number.
// Implementations may assume len(vals) > 0 and a normalized cfg.
type aggregateFn func(vals []float64, cfg FactorConfig) float64

var aggregators = map[Aggregation]aggregateFn{
	AggMean:   func(vals []float64, _ FactorConfig) float64 { return mean(vals) },
	AggMedian: func(vals []float64, _ FactorConfig) float64 { return median(vals) },
	AggMin: func(vals []float64, _ FactorConfig) float64 {
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Min(m, v)
		}
		return m
	},
	AggMax: func(vals []float64, _ FactorConfig) float64 {
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Max(m, v)
		}
		return m
	},
	AggKNearest: func(vals []float64, cfg FactorConfig) float64 {
		s := sortedCopy(vals)
		k := cfg.NearestK
		if k > len(s) {
			k = len(s)
		}
		return mean(s[:k])
	},
	AggKFarthest: func(vals []float64, cfg FactorConfig) float64 {
		s := sortedCopy(vals)
		k := cfg.FarthestK
		if k > len(s) {
			k = len(s)
		}
		return mean(s[len(s)-k:])
	},
	AggPercentile: func(vals []float64, cfg FactorConfig) float64 {
		return percentile(sortedCopy(vals), *cfg.Percentile)
	},
}

// aggregate filters vals to the factor's [lower, upper] band and
// reduces the survivors to one representative value. The second return
// is false when nothing remains in band; the caller treats that as a
// raw-match of zero, not as a skip.
func aggregate(vals []float64, cfg FactorConfig) (float64, bool) {
	lower, upper := *cfg.Lower, *cfg.Upper
	inBand := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v >= lower && v <= upper {
			inBand = append(inBand, v)
		}
	}
	if len(inBand) == 0 {
		return 0, false
	}

	if cfg.DecayFunc != "" {
		return decayAverage(inBand, cfg), true
	}

	fn, ok := aggregators[cfg.Aggregation]
	if !ok {
		fn = aggregators[AggMean]
	}
	return fn(inBand, cfg), true
}

// decayAverage weights each value by its normalized distance from the
// target under the configured decay law, then averages. Falls back to
// the plain mean when every weight decays to zero.
func decayAverage(vals []float64, cfg FactorConfig) float64 {
	target := *cfg.Target
	span := math.Max(*cfg.Upper-*cfg.Lower, 1e-12)
	rate := cfg.DecayRate
	if rate == 0 {
		rate = 1
	}

	var weightedSum, totalWeight float64
	for _, v := range vals {
		d := math.Abs(v-target) / span
		var w float64
		switch cfg.DecayFunc {
		case DecayExp:
			w = math.Exp(-rate * d)
		case DecayQuadratic:
			w = math.Max(0, 1-(rate*d)*(rate*d))
		default:
			w = math.Max(0, 1-rate*d)
		}
		weightedSum += v * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return mean(vals)
	}
	return weightedSum / totalWeight
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	s := sortedCopy(vals)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// percentile takes a sorted slice and p in [0,1], interpolating
// linearly between ranks.
func percentile(sorted []float64, p float64) float64 {
	p = clamp01(p)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

func sortedCopy(vals []float64) []float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	return s
}
