package scoring

import "math"

// qualityScore maps a subjective rating in [1, MaxQuality] onto
// [QualityFloor, 1]. With QualExp != 1 the normalized rating is warped
// through (e^(k*n) - 1)/(e^k - 1) first, which for k > 1 rewards only
// the highest ratings.
func qualityScore(q float64, params Params) float64 {
	qc := math.Min(math.Max(q, 1), params.MaxQuality)
	norm := (qc - 1) / (params.MaxQuality - 1)
	// the warp degenerates to linear as the exponent approaches 0
	if params.QualExp != 1 && params.QualExp != 0 {
		norm = (math.Exp(params.QualExp*norm) - 1) / (math.Exp(params.QualExp) - 1)
	}
	return params.QualityFloor + (1-params.QualityFloor)*norm
}
