package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/matchup-engine/internal/calibration"
	"github.com/yourusername/matchup-engine/internal/models"
)

// Explainer turns a prediction's numeric components into ranked
// natural-language factors and a summary. It performs no new numeric
// derivation beyond threshold classification.
type Explainer struct {
	calib *calibration.Provider
}

// NewExplainer creates an explainer. calib may be nil.
func NewExplainer(calib *calibration.Provider) *Explainer {
	return &Explainer{calib: calib}
}

// Explain builds the human-readable companion to a prediction.
func (e *Explainer) Explain(ctx context.Context, teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction) *models.MatchExplanation {
	factors := e.buildFactors(teamA, teamB, prediction)

	return &models.MatchExplanation{
		Factors:     factors,
		Summary:     e.buildSummary(teamA, teamB, prediction),
		KeyInsights: e.buildKeyInsights(ctx, teamA, teamB, prediction, factors),
		Reliability: reliabilityNarrative(prediction.Confidence),
	}
}

// buildFactors classifies each candidate signal, drops anything below its
// moderate threshold, and keeps the top factors by importance. The
// close-match factor carries a fixed importance that outranks everything
// else: a near-even game is itself the most useful thing to tell the user.
func (e *Explainer) buildFactors(teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction) []models.ExplanationFactor {
	b := prediction.Breakdown
	var factors []models.ExplanationFactor

	if math.Abs(b.CompositeDiff) <= closeMatchThreshold {
		factors = append(factors, models.ExplanationFactor{
			Category:    models.FactorCloseMatch,
			Favors:      models.SideNeither,
			Magnitude:   models.MagnitudeSignificant,
			Description: fmt.Sprintf("%s and %s are very evenly matched across every signal.", teamA.Name, teamB.Name),
			Icon:        "⚖️",
			Importance:  closeMatchImportance,
		})
	}

	if f, ok := classifyFactor(b.PowerDiff, powerSignificantThreshold, powerModerateThreshold); ok {
		favored := favoredName(teamA, teamB, b.PowerDiff)
		desc := fmt.Sprintf("%s holds a stronger overall power rating.", favored)
		if f == models.MagnitudeSignificant {
			desc = fmt.Sprintf("%s is rated substantially stronger overall this season.", favored)
		}
		factors = append(factors, models.ExplanationFactor{
			Category:    models.FactorPower,
			Favors:      sideOf(b.PowerDiff),
			Magnitude:   f,
			Description: desc,
			Icon:        "💪",
			Importance:  math.Abs(b.PowerDiff) * powerImportanceWeight,
		})
	}

	if f, ok := classifyFactor(b.SOSDiff, sosSignificantThreshold, sosModerateThreshold); ok {
		favored := favoredName(teamA, teamB, b.SOSDiff)
		desc := fmt.Sprintf("%s has faced a tougher schedule.", favored)
		if f == models.MagnitudeSignificant {
			desc = fmt.Sprintf("%s has been battle-tested against a much tougher schedule.", favored)
		}
		factors = append(factors, models.ExplanationFactor{
			Category:    models.FactorSchedule,
			Favors:      sideOf(b.SOSDiff),
			Magnitude:   f,
			Description: desc,
			Icon:        "📅",
			Importance:  math.Abs(b.SOSDiff) * sosImportanceWeight,
		})
	}

	// Form classifies on the raw goal differential, which is not a [0,1]
	// quantity; importance uses the bounded normalized value so a hot streak
	// cannot outrank the close-match factor.
	if f, ok := classifyFactor(b.FormDiffRaw, formSignificantThreshold, formModerateThreshold); ok {
		favored := favoredName(teamA, teamB, b.FormDiffRaw)
		desc := fmt.Sprintf("%s comes in with better recent results.", favored)
		if f == models.MagnitudeSignificant {
			desc = fmt.Sprintf("%s is on a clear hot streak in its last few games.", favored)
		}
		factors = append(factors, models.ExplanationFactor{
			Category:    models.FactorForm,
			Favors:      sideOf(b.FormDiffRaw),
			Magnitude:   f,
			Description: desc,
			Icon:        "📈",
			Importance:  math.Abs(b.FormDiffNormalized) * formImportanceWeight,
		})
	}

	if f, ok := classifyFactor(b.MatchupAsymmetry, matchupSignificantThreshold, matchupModerateThreshold); ok {
		favored := favoredName(teamA, teamB, b.MatchupAsymmetry)
		opponent := teamB.Name
		if b.MatchupAsymmetry < 0 {
			opponent = teamA.Name
		}
		desc := fmt.Sprintf("%s's offense matches up well against %s's defense.", favored, opponent)
		if f == models.MagnitudeSignificant {
			desc = fmt.Sprintf("%s's attacking strength is a bad stylistic matchup for %s's defense.", favored, opponent)
		}
		factors = append(factors, models.ExplanationFactor{
			Category:    models.FactorMatchup,
			Favors:      sideOf(b.MatchupAsymmetry),
			Magnitude:   f,
			Description: desc,
			Icon:        "🎯",
			Importance:  math.Abs(b.MatchupAsymmetry) * matchupImportanceWeight,
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Importance > factors[j].Importance
	})
	if len(factors) > maxExplanationFactors {
		factors = factors[:maxExplanationFactors]
	}
	return factors
}

// buildSummary names the favored team and its rounded win probability, or
// calls the game too close to call when the favored side sits near 50%.
func (e *Explainer) buildSummary(teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction) string {
	favored, probability := favoredTeamAndProbability(teamA, teamB, prediction)
	percent := int(math.Round(probability * 100))

	if probability < tooCloseToCallProbability {
		return fmt.Sprintf("This matchup is too close to call, with %s holding the slimmest of edges at %d%%.", favored.Name, percent)
	}
	return fmt.Sprintf("%s is favored to win with a %d%% chance.", favored.Name, percent)
}

// buildKeyInsights composes 4-6 standalone sentences in fixed order: the
// headline, a confidence narrative, a data-quality narrative, an
// expected-margin narrative, an optional scoring-environment narrative, and
// the top factor when it is significant.
func (e *Explainer) buildKeyInsights(ctx context.Context, teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction, factors []models.ExplanationFactor) []string {
	insights := make([]string, 0, 6)

	favored, probability := favoredTeamAndProbability(teamA, teamB, prediction)
	insights = append(insights, fmt.Sprintf("The model gives %s a %d%% chance of winning this matchup.",
		favored.Name, int(math.Round(probability*100))))

	insights = append(insights, confidenceNarrative(prediction.Confidence))
	insights = append(insights, dataQualityNarrative(teamA, teamB))
	insights = append(insights, marginNarrative(prediction.ExpectedMargin))

	if scoring := e.scoringNarrative(ctx, teamA, prediction); scoring != "" {
		insights = append(insights, scoring)
	}

	if len(factors) > 0 && factors[0].Magnitude == models.MagnitudeSignificant {
		insights = append(insights, factors[0].Description)
	}

	return insights
}

// confidenceNarrative has two sub-tiers per label so a 0.69 and a 0.85 read
// differently.
func confidenceNarrative(c models.ConfidenceResult) string {
	switch c.Label {
	case models.ConfidenceHigh:
		if c.Score >= 0.80 {
			return "This prediction carries very high confidence backed by consistent results from both teams."
		}
		return "This prediction carries high confidence, with both teams showing stable scoring patterns."
	case models.ConfidenceMedium:
		if c.Score >= 0.60 {
			return "This prediction carries moderate confidence and should hold in most cases."
		}
		return "This prediction carries moderate confidence, so an upset would not be shocking."
	default:
		if c.Score >= 0.40 {
			return "Confidence in this prediction is low because the teams' results have been volatile."
		}
		return "Confidence in this prediction is very low, so treat the numbers as a rough guide only."
	}
}

// dataQualityNarrative describes how much history backs the prediction.
func dataQualityNarrative(teamA, teamB *models.TeamRanking) string {
	minGames := teamA.GamesPlayed
	if teamB.GamesPlayed < minGames {
		minGames = teamB.GamesPlayed
	}

	switch {
	case minGames < 10:
		return fmt.Sprintf("With only %d games on record for one side, there is limited data behind this comparison.", minGames)
	case minGames < 20:
		return "Both teams have a reasonable body of results, though more games would sharpen the picture."
	default:
		return "Both teams have deep season histories, giving the model plenty of data to work with."
	}
}

// marginNarrative buckets the expected margin into four magnitude tiers.
func marginNarrative(margin float64) string {
	abs := math.Abs(margin)
	switch {
	case abs < 0.5:
		return "The expected margin is razor thin, so this game could swing on a single play."
	case abs < 1.5:
		return "Expect a one-goal game that stays competitive to the final whistle."
	case abs < 3.0:
		return fmt.Sprintf("The model projects a comfortable margin of about %.1f goals.", abs)
	default:
		return fmt.Sprintf("The model projects a lopsided result by around %.1f goals.", abs)
	}
}

// scoringNarrative fires only when total expected goals cross the age
// bracket's high or low scoring thresholds.
func (e *Explainer) scoringNarrative(ctx context.Context, teamA *models.TeamRanking, prediction *models.MatchPrediction) string {
	avg := leagueAvgGoals(ctx, e.calib, teamA)
	expected := 2 * avg
	total := prediction.ExpectedScoreA + prediction.ExpectedScoreB

	switch {
	case total >= expected*1.25:
		return fmt.Sprintf("Goals should come easily here: the combined projection of %.1f is well above the %s norm.", total, teamA.AgeGroup)
	case total <= expected*0.75:
		return fmt.Sprintf("Expect a defensive struggle: the combined projection of %.1f is well below the %s norm.", total, teamA.AgeGroup)
	default:
		return ""
	}
}

// reliabilityNarrative is a one-line standalone statement of trust.
func reliabilityNarrative(c models.ConfidenceResult) string {
	switch c.Label {
	case models.ConfidenceHigh:
		return fmt.Sprintf("Reliability: high (%.0f%%). The inputs to this prediction are stable and well sampled.", c.Score*100)
	case models.ConfidenceMedium:
		return fmt.Sprintf("Reliability: medium (%.0f%%). The prediction is sound but the underlying data leaves room for surprises.", c.Score*100)
	default:
		return fmt.Sprintf("Reliability: low (%.0f%%). Thin or noisy game history makes this matchup hard to model.", c.Score*100)
	}
}

// classifyFactor buckets a signed differential. The ok return is false below
// the moderate threshold: weak factors are dropped, never padded.
func classifyFactor(value, significant, moderate float64) (models.FactorMagnitude, bool) {
	abs := math.Abs(value)
	switch {
	case abs >= significant:
		return models.MagnitudeSignificant, true
	case abs >= moderate:
		return models.MagnitudeModerate, true
	default:
		return "", false
	}
}

func sideOf(diff float64) models.FactorSide {
	if diff > 0 {
		return models.SideTeamA
	}
	return models.SideTeamB
}

func favoredName(teamA, teamB *models.TeamRanking, diff float64) string {
	if diff > 0 {
		return teamA.Name
	}
	return teamB.Name
}

func favoredTeamAndProbability(teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction) (*models.TeamRanking, float64) {
	if prediction.PredictedWinner == models.WinnerTeamB {
		return teamB, prediction.WinProbabilityB
	}
	return teamA, prediction.WinProbabilityA
}
