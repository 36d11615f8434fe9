// Package engine implements the match prediction engine: recent form,
// head-to-head analysis, the calibrated match predictor, confidence
// estimation, and explanation generation. All computation is pure and
// CPU-only; the only I/O in the engine's lifetime is the one-time
// calibration load performed by the calibration provider.
package engine

// Every tuning constant lives here so a recalibration never touches
// computation logic. Calibration documents override the subset they cover.

// Recent form.
const (
	DefaultFormWindow = 5

	// Opponent-quality multiplier is 0.6 + opponent power: a result against
	// a 0.7-power team counts ~1.3x. Unknown opponents count at exactly 1.0.
	formOpponentBaseMultiplier = 0.6
)

// Head-to-head.
const (
	DefaultH2HMinGames = 2

	h2hConfidenceCapGames = 5
	h2hScalingFactor      = 0.1
	h2hBoostCap           = 0.03
)

// Adaptive feature weights. Between the two |powerDiff| thresholds the
// weights interpolate linearly from base to blowout.
const (
	weightPowerBase   = 0.58
	weightSOSBase     = 0.18
	weightFormBase    = 0.20
	weightMatchupBase = 0.04

	weightPowerBlowout   = 0.78
	weightSOSBlowout     = 0.10
	weightFormBlowout    = 0.08
	weightMatchupBlowout = 0.04

	blowoutLowThreshold  = 0.05
	blowoutHighThreshold = 0.10
)

// Composite differential.
const (
	formSigmoidScale = 0.5

	// Hard ceiling on form's contribution to the composite, applied after
	// weighting. Without it short hot streaks were able to flip season-long
	// rank gaps.
	formContributionCap = 0.05
)

// Win probability and margin.
const (
	defaultSensitivity = 4.5

	marginCoefficient = 8.0

	marginRampLowDiff  = 0.08
	marginRampHighDiff = 0.12
	marginRampMax      = 2.5

	defaultGlobalMarginScale = 1.0
)

// League-average goals per team by age bracket, used when no calibrated
// value exists.
const (
	avgGoalsU11     = 2.0
	avgGoalsU14     = 2.5
	avgGoalsU18     = 2.8
	avgGoalsDefault = 3.0
)

// Confidence estimation.
const (
	varianceMaxUncertainty = 1.0
	minGamesForVariance    = 2

	sampleStrengthSaturationGames = 30

	fallbackWeightCompositeDiff  = 1.6
	fallbackWeightVariance       = -1.0
	fallbackWeightSampleStrength = 0.6

	defaultHighConfidenceThreshold   = 0.68
	defaultMediumConfidenceThreshold = 0.52
)

// Explanation generation.
const (
	closeMatchThreshold  = 0.05
	closeMatchImportance = 1.5

	powerSignificantThreshold = 0.15
	powerModerateThreshold    = 0.08
	sosSignificantThreshold   = 0.20
	sosModerateThreshold      = 0.10
	formSignificantThreshold  = 3.0
	formModerateThreshold     = 1.5

	// Matchup asymmetry spans roughly [-2, 2]; thresholds mirror SOS.
	matchupSignificantThreshold = 0.20
	matchupModerateThreshold    = 0.10

	powerImportanceWeight   = 2.0
	sosImportanceWeight     = 1.5
	formImportanceWeight    = 1.2
	matchupImportanceWeight = 0.8

	maxExplanationFactors = 4

	// Below this favored-side probability the summary calls the game too
	// close to call.
	tooCloseToCallProbability = 0.55
)
