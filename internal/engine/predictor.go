package engine

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/calibration"
	"github.com/yourusername/matchup-engine/internal/models"
)

// featureWeights is one profile of the adaptive weighting scheme.
type featureWeights struct {
	power   float64
	sos     float64
	form    float64
	matchup float64
}

var (
	baseWeights    = featureWeights{power: weightPowerBase, sos: weightSOSBase, form: weightFormBase, matchup: weightMatchupBase}
	blowoutWeights = featureWeights{power: weightPowerBlowout, sos: weightSOSBlowout, form: weightFormBlowout, matchup: weightMatchupBlowout}
)

// adaptiveWeights shifts the feature weights toward the blowout profile as
// the skill gap grows: base weights below the low threshold, blowout weights
// above the high threshold, linear interpolation in between. A small gap
// lets form and schedule strength matter; a large gap lets raw power
// dominate so a hot streak cannot flip a mismatch.
func adaptiveWeights(absPowerDiff float64) featureWeights {
	if absPowerDiff <= blowoutLowThreshold {
		return baseWeights
	}
	if absPowerDiff >= blowoutHighThreshold {
		return blowoutWeights
	}

	t := (absPowerDiff - blowoutLowThreshold) / (blowoutHighThreshold - blowoutLowThreshold)
	return featureWeights{
		power:   baseWeights.power + t*(blowoutWeights.power-baseWeights.power),
		sos:     baseWeights.sos + t*(blowoutWeights.sos-baseWeights.sos),
		form:    baseWeights.form + t*(blowoutWeights.form-baseWeights.form),
		matchup: baseWeights.matchup + t*(blowoutWeights.matchup-baseWeights.matchup),
	}
}

// Predictor combines ranking attributes, recent form, and head-to-head
// history into a win probability, expected scoreline, and confidence rating.
// Deterministic given identical inputs and identical loaded calibration
// state; never errors, degrading to neutral defaults for any missing field.
type Predictor struct {
	calib      *calibration.Provider
	estimator  *Estimator
	logger     *logrus.Logger
	formWindow int
}

// NewPredictor creates a predictor. calib may be nil, in which case every
// computation path uses its hardcoded defaults.
func NewPredictor(calib *calibration.Provider, logger *logrus.Logger) *Predictor {
	return &Predictor{
		calib:      calib,
		estimator:  NewEstimator(calib),
		logger:     logger,
		formWindow: DefaultFormWindow,
	}
}

// SetFormWindow overrides the number of recent scored games considered for
// form. Values below 1 are ignored.
func (p *Predictor) SetFormWindow(window int) {
	if window > 0 {
		p.formWindow = window
	}
}

// Predict produces a complete match prediction for team A versus team B over
// the supplied game history. An empty history still yields a full result
// driven by power, SOS, and matchup alone.
func (p *Predictor) Predict(ctx context.Context, teamA, teamB *models.TeamRanking, games []*models.Game) *models.MatchPrediction {
	powerDiff := teamA.PowerScore - teamB.PowerScore
	weights := adaptiveWeights(math.Abs(powerDiff))

	sosDiff := teamA.SOS - teamB.SOS

	powerLookup := map[uuid.UUID]float64{
		teamA.ID: teamA.PowerScore,
		teamB.ID: teamB.PowerScore,
	}
	formA := RecentForm(teamA.ID, games, p.formWindow, powerLookup)
	formB := RecentForm(teamB.ID, games, p.formWindow, powerLookup)
	formDiffRaw := formA - formB

	// Bound the raw goal-differential signal to roughly [-0.5, 0.5].
	formDiffNormalized := sigmoid(formDiffRaw*formSigmoidScale) - 0.5

	matchupAsym := (teamA.OffenseOrNeutral() - teamB.DefenseOrNeutral()) -
		(teamB.OffenseOrNeutral() - teamA.DefenseOrNeutral())

	h2hBoost := HeadToHeadBoost(teamA.ID, teamB.ID, games, DefaultH2HMinGames)

	// Form may never contribute more than the fixed ceiling, independent of
	// its nominal weight.
	formContribution := clamp(weights.form*formDiffNormalized, -formContributionCap, formContributionCap)

	compositeDiff := weights.power*powerDiff +
		weights.sos*sosDiff +
		formContribution +
		weights.matchup*matchupAsym +
		h2hBoost

	probA := sigmoid(p.sensitivity(ctx) * compositeDiff)
	probB := 1.0 - probA

	// The favored side always takes the win; a 45-55% draw zone measurably
	// hurt calibration. Ties on exactly 0.5 go to team A.
	winner := models.WinnerTeamA
	if probA < 0.5 {
		winner = models.WinnerTeamB
	}

	margin := compositeDiff * marginCoefficient * p.marginMultiplier(ctx, teamA.AgeGroup, compositeDiff)

	avgGoals := leagueAvgGoals(ctx, p.calib, teamA)
	scoreA := roundScore(math.Max(0, avgGoals+margin/2))
	scoreB := roundScore(math.Max(0, avgGoals-margin/2))

	confidence := p.estimator.Estimate(ctx, teamA, teamB, compositeDiff, games)

	prediction := &models.MatchPrediction{
		ID:              uuid.New(),
		TeamAID:         teamA.ID,
		TeamBID:         teamB.ID,
		PredictedWinner: winner,
		WinProbabilityA: probA,
		WinProbabilityB: probB,
		ExpectedScoreA:  scoreA,
		ExpectedScoreB:  scoreB,
		ExpectedMargin:  margin,
		Confidence:      confidence,
		Breakdown: models.PredictionBreakdown{
			PowerDiff:          powerDiff,
			SOSDiff:            sosDiff,
			FormDiffRaw:        formDiffRaw,
			FormDiffNormalized: formDiffNormalized,
			MatchupAsymmetry:   matchupAsym,
			HeadToHeadBoost:    h2hBoost,
			CompositeDiff:      compositeDiff,
		},
		PredictedAt: time.Now().UTC(),
	}

	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"team_a":         teamA.ID,
			"team_b":         teamB.ID,
			"composite_diff": compositeDiff,
			"win_prob_a":     probA,
			"confidence":     confidence.Label,
		}).Debug("Match prediction computed")
	}

	return prediction
}

// sensitivity returns the sigmoid sensitivity scalar, calibrated when
// available.
func (p *Predictor) sensitivity(ctx context.Context) float64 {
	if p.calib != nil {
		if params := p.calib.Probability(ctx); params != nil && params.Sensitivity > 0 {
			return params.Sensitivity
		}
	}
	return defaultSensitivity
}

// marginMultiplier combines the age-bracket multiplier with a
// magnitude-based scaling curve and the global margin scale. The curve is
// flat at 1.0 below |compositeDiff| 0.08, ramps linearly to 2.5 by 0.12, and
// stays flat beyond: lopsided composites produce proportionally wider
// expected margins.
func (p *Predictor) marginMultiplier(ctx context.Context, ageGroup string, compositeDiff float64) float64 {
	ageMultiplier := 1.0
	globalScale := defaultGlobalMarginScale

	if p.calib != nil {
		if v2 := p.calib.Margin(ctx); v2 != nil {
			if v2.GlobalScale > 0 {
				globalScale = v2.GlobalScale
			}
			if entry, ok := v2.Entry(ageGroup); ok && entry.MarginMultiplier > 0 {
				ageMultiplier = entry.MarginMultiplier
			} else if legacy := p.calib.AgeGroup(ctx); legacy != nil {
				if entry, ok := legacy.Entry(ageGroup); ok && entry.MarginMultiplier > 0 {
					ageMultiplier = entry.MarginMultiplier
				}
			}
		} else if legacy := p.calib.AgeGroup(ctx); legacy != nil {
			if entry, ok := legacy.Entry(ageGroup); ok && entry.MarginMultiplier > 0 {
				ageMultiplier = entry.MarginMultiplier
			}
		}
	}

	abs := math.Abs(compositeDiff)
	magnitude := 1.0
	switch {
	case abs >= marginRampHighDiff:
		magnitude = marginRampMax
	case abs > marginRampLowDiff:
		t := (abs - marginRampLowDiff) / (marginRampHighDiff - marginRampLowDiff)
		magnitude = 1.0 + t*(marginRampMax-1.0)
	}

	return ageMultiplier * magnitude * globalScale
}

// leagueAvgGoals returns the expected goals per team for the team's age
// bracket, calibrated when available.
func leagueAvgGoals(ctx context.Context, calib *calibration.Provider, team *models.TeamRanking) float64 {
	if calib != nil {
		if params := calib.AgeGroup(ctx); params != nil {
			if entry, ok := params.Entry(team.AgeGroup); ok && entry.AvgGoals > 0 {
				return entry.AvgGoals
			}
		}
	}

	age := team.AgeNumber()
	switch {
	case age <= 0:
		return avgGoalsDefault
	case age <= 11:
		return avgGoalsU11
	case age <= 14:
		return avgGoalsU14
	case age <= 18:
		return avgGoalsU18
	default:
		return avgGoalsDefault
	}
}
