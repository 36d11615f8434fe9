// Package calibration loads and caches the model's externally supplied
// parameter sets. Every set is optional: consumers fall back to hardcoded
// defaults whenever a document is absent or fails to parse.
package calibration

// Document names resolved against the configured source.
const (
	DocAgeGroup     = "age_group_parameters.json"
	DocProbability  = "probability_parameters.json"
	DocMarginV2     = "margin_parameters_v2.json"
	DocConfidenceV2 = "confidence_parameters_v2.json"
)

// AgeGroupEntry holds per-age-bracket scoring characteristics.
type AgeGroupEntry struct {
	AvgGoals         float64 `json:"avg_goals"`
	MarginMultiplier float64 `json:"margin_multiplier"`
	BlowoutFrequency float64 `json:"blowout_frequency"`
}

// AgeGroupParams maps age bracket labels (e.g. "U12") to their entries.
type AgeGroupParams struct {
	Groups map[string]AgeGroupEntry `json:"groups"`
}

// Entry returns the entry for an age group label, if present.
func (p *AgeGroupParams) Entry(ageGroup string) (AgeGroupEntry, bool) {
	e, ok := p.Groups[ageGroup]
	return e, ok
}

// ProbabilityParams tunes the win-probability sigmoid. CalibrationError and
// Accuracy are diagnostics from the fitting run and play no part in
// computation.
type ProbabilityParams struct {
	Sensitivity      float64 `json:"sensitivity"`
	CalibrationError float64 `json:"calibration_error"`
	Accuracy         float64 `json:"accuracy"`
}

// MarginGroupEntry holds per-age-bracket margin fitting results.
type MarginGroupEntry struct {
	MarginMultiplier float64 `json:"margin_multiplier"`
	MeanAbsError     float64 `json:"mean_abs_error"`
}

// MarginParamsV2 is the second-generation margin model: a global scale plus
// per-age-bracket multipliers.
type MarginParamsV2 struct {
	GlobalScale float64                     `json:"global_scale"`
	Groups      map[string]MarginGroupEntry `json:"groups"`
}

// Entry returns the margin entry for an age group label, if present.
func (p *MarginParamsV2) Entry(ageGroup string) (MarginGroupEntry, bool) {
	e, ok := p.Groups[ageGroup]
	return e, ok
}

// ConfidenceParamsV2 holds the fitted confidence regression. The variance
// weight's sign already encodes its relationship to confidence; it must be
// applied as-is, not negated to match the fallback formula.
type ConfidenceParamsV2 struct {
	WeightCompositeDiff  float64 `json:"weight_composite_diff"`
	WeightVariance       float64 `json:"weight_variance"`
	WeightSampleStrength float64 `json:"weight_sample_strength"`
	Intercept            float64 `json:"intercept"`
	HighThreshold        float64 `json:"high_threshold"`
	MediumThreshold      float64 `json:"medium_threshold"`
}
