package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchup-engine/internal/models"
)

func predictionWith(teamA, teamB *models.TeamRanking, winner models.PredictedWinner, probA float64, breakdown models.PredictionBreakdown, confidence models.ConfidenceResult) *models.MatchPrediction {
	return &models.MatchPrediction{
		ID:              uuid.New(),
		TeamAID:         teamA.ID,
		TeamBID:         teamB.ID,
		PredictedWinner: winner,
		WinProbabilityA: probA,
		WinProbabilityB: 1 - probA,
		ExpectedScoreA:  2.5,
		ExpectedScoreB:  2.5,
		ExpectedMargin:  0.4,
		Confidence:      confidence,
		Breakdown:       breakdown,
	}
}

func TestExplainCloseMatchFactorRanksFirst(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("Thunder", "U12", 0.62, 0.55, 20)
	teamB := newTeam("Lightning", "U12", 0.60, 0.50, 20)

	// Near-even composite alongside a significant power edge: the close-match
	// factor still outranks it.
	breakdown := models.PredictionBreakdown{
		PowerDiff:          0.20,
		FormDiffRaw:        4.0,
		FormDiffNormalized: 0.45,
		CompositeDiff:      0.03,
	}
	pred := predictionWith(teamA, teamB, models.WinnerTeamA, 0.53, breakdown,
		models.ConfidenceResult{Score: 0.45, Label: models.ConfidenceLow})

	explanation := e.Explain(context.Background(), teamA, teamB, pred)

	require.NotEmpty(t, explanation.Factors)
	assert.Equal(t, models.FactorCloseMatch, explanation.Factors[0].Category)
	assert.Equal(t, models.SideNeither, explanation.Factors[0].Favors)
	for _, f := range explanation.Factors[1:] {
		assert.Less(t, f.Importance, explanation.Factors[0].Importance)
	}
}

func TestExplainDropsWeakFactors(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("A", "U12", 0.52, 0.50, 20)
	teamB := newTeam("B", "U12", 0.50, 0.50, 20)

	// Every differential below its moderate threshold, composite outside the
	// close-match band: nothing qualifies.
	breakdown := models.PredictionBreakdown{
		PowerDiff:        0.02,
		SOSDiff:          0.05,
		FormDiffRaw:      0.5,
		MatchupAsymmetry: 0.05,
		CompositeDiff:    0.06,
	}
	pred := predictionWith(teamA, teamB, models.WinnerTeamA, 0.62, breakdown,
		models.ConfidenceResult{Score: 0.55, Label: models.ConfidenceMedium})

	explanation := e.Explain(context.Background(), teamA, teamB, pred)

	assert.Empty(t, explanation.Factors)
	assert.NotEmpty(t, explanation.Summary)
	assert.NotEmpty(t, explanation.KeyInsights)
}

func TestExplainCapsFactorCount(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("A", "U12", 0.90, 0.80, 25)
	teamB := newTeam("B", "U12", 0.40, 0.40, 25)

	// Five qualifying candidates (close match plus all four signals) must be
	// trimmed to four.
	breakdown := models.PredictionBreakdown{
		PowerDiff:          0.50,
		SOSDiff:            0.40,
		FormDiffRaw:        5.0,
		FormDiffNormalized: 0.45,
		MatchupAsymmetry:   0.60,
		CompositeDiff:      0.04,
	}
	pred := predictionWith(teamA, teamB, models.WinnerTeamA, 0.54, breakdown,
		models.ConfidenceResult{Score: 0.50, Label: models.ConfidenceLow})

	explanation := e.Explain(context.Background(), teamA, teamB, pred)

	assert.Len(t, explanation.Factors, 4)
}

func TestExplainFactorSides(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("Favored", "U12", 0.80, 0.50, 25)
	teamB := newTeam("Other", "U12", 0.50, 0.70, 25)

	// Power favors A, schedule favors B.
	breakdown := models.PredictionBreakdown{
		PowerDiff:     0.30,
		SOSDiff:       -0.20,
		CompositeDiff: 0.15,
	}
	pred := predictionWith(teamA, teamB, models.WinnerTeamA, 0.70, breakdown,
		models.ConfidenceResult{Score: 0.70, Label: models.ConfidenceHigh})

	explanation := e.Explain(context.Background(), teamA, teamB, pred)

	require.Len(t, explanation.Factors, 2)
	byCategory := map[models.FactorCategory]models.ExplanationFactor{}
	for _, f := range explanation.Factors {
		byCategory[f.Category] = f
	}

	power := byCategory[models.FactorPower]
	assert.Equal(t, models.SideTeamA, power.Favors)
	assert.Contains(t, power.Description, "Favored")

	sos := byCategory[models.FactorSchedule]
	assert.Equal(t, models.SideTeamB, sos.Favors)
	assert.Contains(t, sos.Description, "Other")
}

func TestExplainSummaryTooCloseToCall(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("A", "U12", 0.51, 0.50, 20)
	teamB := newTeam("B", "U12", 0.50, 0.50, 20)

	tight := predictionWith(teamA, teamB, models.WinnerTeamA, 0.52, models.PredictionBreakdown{CompositeDiff: 0.01},
		models.ConfidenceResult{Score: 0.40, Label: models.ConfidenceLow})
	assert.Contains(t, e.buildSummary(teamA, teamB, tight), "too close to call")

	decisive := predictionWith(teamA, teamB, models.WinnerTeamA, 0.75, models.PredictionBreakdown{CompositeDiff: 0.15},
		models.ConfidenceResult{Score: 0.70, Label: models.ConfidenceHigh})
	summary := e.buildSummary(teamA, teamB, decisive)
	assert.Contains(t, summary, "favored to win")
	assert.Contains(t, summary, "75%")
}

func TestExplainSummaryNamesFavoredSide(t *testing.T) {
	e := NewExplainer(nil)
	teamA := newTeam("Alpha", "U12", 0.40, 0.50, 20)
	teamB := newTeam("Bravo", "U12", 0.70, 0.50, 20)

	pred := predictionWith(teamA, teamB, models.WinnerTeamB, 0.30, models.PredictionBreakdown{CompositeDiff: -0.20},
		models.ConfidenceResult{Score: 0.70, Label: models.ConfidenceHigh})

	summary := e.buildSummary(teamA, teamB, pred)
	assert.Contains(t, summary, "Bravo")
	assert.Contains(t, summary, "70%")
}

func TestExplainInsightCount(t *testing.T) {
	e := NewExplainer(nil)

	cases := []struct {
		name      string
		teamA     *models.TeamRanking
		teamB     *models.TeamRanking
		breakdown models.PredictionBreakdown
	}{
		{
			name:      "quiet matchup",
			teamA:     newTeam("A", "U12", 0.52, 0.50, 25),
			teamB:     newTeam("B", "U12", 0.50, 0.50, 25),
			breakdown: models.PredictionBreakdown{PowerDiff: 0.02, CompositeDiff: 0.06},
		},
		{
			name:      "lopsided matchup",
			teamA:     newTeam("A", "U12", 0.90, 0.80, 5),
			teamB:     newTeam("B", "U12", 0.30, 0.40, 5),
			breakdown: models.PredictionBreakdown{PowerDiff: 0.60, SOSDiff: 0.40, CompositeDiff: 0.50},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pred := predictionWith(tc.teamA, tc.teamB, models.WinnerTeamA, 0.70, tc.breakdown,
				models.ConfidenceResult{Score: 0.55, Label: models.ConfidenceMedium})

			explanation := e.Explain(context.Background(), tc.teamA, tc.teamB, pred)

			assert.GreaterOrEqual(t, len(explanation.KeyInsights), 4)
			assert.LessOrEqual(t, len(explanation.KeyInsights), 6)
			for _, insight := range explanation.KeyInsights {
				assert.NotEmpty(t, insight)
			}
		})
	}
}

func TestConfidenceNarrativeSubTiers(t *testing.T) {
	veryHigh := confidenceNarrative(models.ConfidenceResult{Score: 0.85, Label: models.ConfidenceHigh})
	high := confidenceNarrative(models.ConfidenceResult{Score: 0.70, Label: models.ConfidenceHigh})
	assert.NotEqual(t, veryHigh, high)
	assert.True(t, strings.Contains(veryHigh, "very high"))

	upper := confidenceNarrative(models.ConfidenceResult{Score: 0.62, Label: models.ConfidenceMedium})
	lower := confidenceNarrative(models.ConfidenceResult{Score: 0.55, Label: models.ConfidenceMedium})
	assert.NotEqual(t, upper, lower)

	low := confidenceNarrative(models.ConfidenceResult{Score: 0.45, Label: models.ConfidenceLow})
	veryLow := confidenceNarrative(models.ConfidenceResult{Score: 0.30, Label: models.ConfidenceLow})
	assert.NotEqual(t, low, veryLow)
}

func TestMarginNarrativeTiers(t *testing.T) {
	assert.Contains(t, marginNarrative(0.2), "razor thin")
	assert.Contains(t, marginNarrative(1.0), "one-goal game")
	assert.Contains(t, marginNarrative(2.2), "comfortable margin")
	assert.Contains(t, marginNarrative(5.0), "lopsided")

	// Sign never matters for the narrative.
	assert.Equal(t, marginNarrative(2.2), marginNarrative(-2.2))
}

func TestReliabilityNarrativeIncludesScore(t *testing.T) {
	high := reliabilityNarrative(models.ConfidenceResult{Score: 0.72, Label: models.ConfidenceHigh})
	assert.Contains(t, high, "72%")
	assert.Contains(t, high, "high")

	low := reliabilityNarrative(models.ConfidenceResult{Score: 0.31, Label: models.ConfidenceLow})
	assert.Contains(t, low, "31%")
	assert.Contains(t, low, "low")
}
