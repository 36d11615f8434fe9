package engine

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/matchup-engine/internal/calibration"
	"github.com/yourusername/matchup-engine/internal/models"
)

// confidenceScorer is one of the two confidence formulas. The calibrated and
// fallback paths use opposite sign conventions for the variance term (the
// fitted weight already internalizes the relationship), so they stay
// separate strategies and are never unified.
type confidenceScorer interface {
	score(absCompositeDiff, combinedVariance, sampleStrength float64) float64
	thresholds() (high, medium float64)
}

// calibratedScorer applies the fitted regression weights and intercept.
type calibratedScorer struct {
	params *calibration.ConfidenceParamsV2
}

func (s *calibratedScorer) score(absDiff, combinedVariance, sampleStrength float64) float64 {
	return sigmoid(s.params.WeightCompositeDiff*absDiff +
		s.params.WeightVariance*combinedVariance +
		s.params.WeightSampleStrength*sampleStrength +
		s.params.Intercept)
}

func (s *calibratedScorer) thresholds() (float64, float64) {
	high := s.params.HighThreshold
	if high <= 0 {
		high = defaultHighConfidenceThreshold
	}
	medium := s.params.MediumThreshold
	if medium <= 0 {
		medium = defaultMediumConfidenceThreshold
	}
	return high, medium
}

// fallbackScorer is the hardcoded formula used when no calibration is
// present. Here higher variance explicitly reduces confidence via the
// negative weight.
type fallbackScorer struct{}

func (fallbackScorer) score(absDiff, combinedVariance, sampleStrength float64) float64 {
	return sigmoid(fallbackWeightCompositeDiff*absDiff +
		fallbackWeightVariance*combinedVariance +
		fallbackWeightSampleStrength*sampleStrength)
}

func (fallbackScorer) thresholds() (float64, float64) {
	return defaultHighConfidenceThreshold, defaultMediumConfidenceThreshold
}

// Estimator scores how trustworthy a prediction is, independent of the
// prediction itself. Results depend on the call-specific composite
// differential and are recomputed every call.
type Estimator struct {
	calib *calibration.Provider
}

// NewEstimator creates a confidence estimator. calib may be nil.
func NewEstimator(calib *calibration.Provider) *Estimator {
	return &Estimator{calib: calib}
}

// Estimate computes a confidence score and label for a prediction with the
// given composite differential over the supplied game history.
func (e *Estimator) Estimate(ctx context.Context, teamA, teamB *models.TeamRanking, compositeDiff float64, games []*models.Game) models.ConfidenceResult {
	varA := goalVariance(teamA.ID, games)
	varB := goalVariance(teamB.ID, games)

	// Root-sum combination keeps two independently noisy teams from
	// multiplying uncertainty linearly.
	combinedVariance := math.Sqrt(varA + varB)

	minGames := teamA.GamesPlayed
	if teamB.GamesPlayed < minGames {
		minGames = teamB.GamesPlayed
	}
	sampleStrength := math.Min(1.0, float64(minGames)/float64(sampleStrengthSaturationGames))

	scorer := e.scorer(ctx)
	score := scorer.score(math.Abs(compositeDiff), combinedVariance, sampleStrength)
	high, medium := scorer.thresholds()

	label := models.ConfidenceLow
	switch {
	case score >= high:
		label = models.ConfidenceHigh
	case score >= medium:
		label = models.ConfidenceMedium
	}

	return models.ConfidenceResult{Score: score, Label: label}
}

// scorer selects the calibrated strategy when fitted weights are available,
// the fallback otherwise.
func (e *Estimator) scorer(ctx context.Context) confidenceScorer {
	if e.calib != nil {
		if params := e.calib.Confidence(ctx); params != nil {
			return &calibratedScorer{params: params}
		}
	}
	return fallbackScorer{}
}

// goalVariance sums the population variances of a team's goals-for and
// goals-against over its fully-scored games. Fewer than two such games means
// maximal uncertainty (1.0), never false certainty (0).
func goalVariance(teamID uuid.UUID, games []*models.Game) float64 {
	var goalsFor, goalsAgainst []float64
	for _, g := range games {
		if !g.Involves(teamID) {
			continue
		}
		gf, ok := g.GoalsFor(teamID)
		if !ok {
			continue
		}
		ga, _ := g.GoalsAgainst(teamID)
		goalsFor = append(goalsFor, float64(gf))
		goalsAgainst = append(goalsAgainst, float64(ga))
	}

	if len(goalsFor) < minGamesForVariance {
		return varianceMaxUncertainty
	}

	return populationVariance(goalsFor) + populationVariance(goalsAgainst)
}
