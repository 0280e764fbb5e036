package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigError reports everything wrong with a single factor's
// configuration. It is fatal: a profile that fails normalization never
// reaches scoring.
type ConfigError struct {
	Factor string
	Issues []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("factor %q: %s", e.Factor, strings.Join(e.Issues, "; "))
}

var allowedAggregations = map[Aggregation]bool{
	AggMean:       true,
	AggMedian:     true,
	AggMin:        true,
	AggMax:        true,
	AggKNearest:   true,
	AggKFarthest:  true,
	AggPercentile: true,
}

// NormalizeProfile validates a profile and returns a normalized copy.
// The input is never mutated. Normalization fills lower/upper from the
// target when absent, nudges nice-to-have bounds off the target by
// params.MarginEpsilon, and fills aggregation parameter defaults
// (nearest_k=1, farthest_k=1, percentile=0.5) for multi factors.
// The first invalid factor (in key order) yields a *ConfigError.
func NormalizeProfile(profile Profile, params Params) (Profile, error) {
	params = params.normalized()

	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Profile, len(profile))
	for _, key := range keys {
		cfg, err := normalizeFactor(key, profile[key], params)
		if err != nil {
			return nil, err
		}
		out[key] = cfg
	}
	return out, nil
}

func normalizeFactor(key string, cfg FactorConfig, params Params) (FactorConfig, error) {
	var issues []string

	if cfg.Mode == "" {
		issues = append(issues, "missing mode")
	}
	if cfg.Target == nil {
		issues = append(issues, "missing target")
	}
	if cfg.Direction == 0 {
		issues = append(issues, "missing direction")
	}
	if cfg.Weight == 0 {
		issues = append(issues, "missing weight")
	}
	if len(issues) > 0 {
		return cfg, &ConfigError{Factor: key, Issues: issues}
	}

	switch cfg.Mode {
	case ModeMustHave, ModeNiceToHave, ModeIrrelevant:
	default:
		issues = append(issues, fmt.Sprintf("invalid mode %q", cfg.Mode))
	}
	if cfg.Direction != -1 && cfg.Direction != 1 {
		issues = append(issues, fmt.Sprintf("direction must be -1 or +1, got %d", cfg.Direction))
	}
	if cfg.Weight <= 0 {
		issues = append(issues, fmt.Sprintf("weight must be > 0, got %g", cfg.Weight))
	}
	if len(issues) > 0 {
		return cfg, &ConfigError{Factor: key, Issues: issues}
	}

	target := *cfg.Target
	lower := target
	if cfg.Lower != nil {
		lower = *cfg.Lower
	}
	upper := target
	if cfg.Upper != nil {
		upper = *cfg.Upper
	}

	if cfg.Mode == ModeNiceToHave {
		if upper <= target {
			upper = target + params.MarginEpsilon
		}
		if lower >= target {
			lower = target - params.MarginEpsilon
		}
	}
	if !(lower <= target && target <= upper) {
		return cfg, &ConfigError{Factor: key, Issues: []string{
			fmt.Sprintf("require lower <= target <= upper, got (%g, %g, %g)", lower, target, upper),
		}}
	}
	cfg.Lower = &lower
	cfg.Upper = &upper

	if cfg.Multi {
		if !allowedAggregations[cfg.Aggregation] {
			return cfg, &ConfigError{Factor: key, Issues: []string{
				fmt.Sprintf("invalid aggregation %q", cfg.Aggregation),
			}}
		}
		if cfg.NearestK <= 0 {
			cfg.NearestK = 1
		}
		if cfg.FarthestK <= 0 {
			cfg.FarthestK = 1
		}
		if cfg.Percentile == nil {
			p := 0.5
			cfg.Percentile = &p
		}
	}

	return cfg, nil
}
