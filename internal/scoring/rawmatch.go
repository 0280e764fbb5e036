package scoring

import "math"

// rawMatch converts one representative value into a match score in
// [0,1]. Must-have factors pass outright on the good side of the
// target, decay linearly inside the soft tolerance zone, and fail to
// zero past it. Nice-to-have factors cut hard to zero outside
// [lower, upper] and otherwise decay linearly from the target toward
// the far bound, floored at params.RawFloor while in band.
func rawMatch(x float64, cfg FactorConfig, params Params) float64 {
	target := *cfg.Target

	if cfg.Mode == ModeMustHave {
		tol := params.MustHaveTolerance
		if cfg.Direction < 0 {
			if x <= target {
				return 1
			}
			if tol > 0 && x <= target+tol {
				return 1 - (x-target)/tol
			}
			return 0
		}
		if x >= target {
			return 1
		}
		if tol > 0 && x >= target-tol {
			return 1 - (target-x)/tol
		}
		return 0
	}

	// nice_to_have
	lower, upper := *cfg.Lower, *cfg.Upper
	if x < lower || x > upper {
		return 0
	}

	var r float64
	if cfg.Direction < 0 {
		if x <= target {
			r = 1
		} else {
			r = 1 - (x-target)/(upper-target)
		}
	} else {
		if x >= target {
			r = 1
		} else {
			r = 1 - (target-x)/(target-lower)
		}
	}
	return math.Max(params.RawFloor, r)
}
