package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchup-engine/internal/models"
)

func newTeam(name, ageGroup string, power, sos float64, gamesPlayed int) *models.TeamRanking {
	return &models.TeamRanking{
		ID:          uuid.New(),
		Name:        name,
		AgeGroup:    ageGroup,
		PowerScore:  power,
		SOS:         sos,
		GamesPlayed: gamesPlayed,
		UpdatedAt:   time.Now(),
	}
}

func TestAdaptiveWeightsProfiles(t *testing.T) {
	// Below the low threshold: base profile.
	assert.Equal(t, baseWeights, adaptiveWeights(0.0))
	assert.Equal(t, baseWeights, adaptiveWeights(0.05))

	// At and above the high threshold: blowout profile.
	assert.Equal(t, blowoutWeights, adaptiveWeights(0.10))
	assert.Equal(t, blowoutWeights, adaptiveWeights(0.60))

	// Midpoint interpolates each weight halfway.
	mid := adaptiveWeights(0.075)
	assert.InDelta(t, (weightPowerBase+weightPowerBlowout)/2, mid.power, 1e-9)
	assert.InDelta(t, (weightSOSBase+weightSOSBlowout)/2, mid.sos, 1e-9)
	assert.InDelta(t, (weightFormBase+weightFormBlowout)/2, mid.form, 1e-9)
	assert.InDelta(t, (weightMatchupBase+weightMatchupBlowout)/2, mid.matchup, 1e-9)
}

func TestAdaptiveWeightsContinuousAtThresholds(t *testing.T) {
	eps := 1e-9

	justAbove := adaptiveWeights(blowoutLowThreshold + eps)
	assert.InDelta(t, baseWeights.power, justAbove.power, 1e-6)

	justBelow := adaptiveWeights(blowoutHighThreshold - eps)
	assert.InDelta(t, blowoutWeights.power, justBelow.power, 1e-6)
}

func TestPredictProbabilitiesAreSymmetric(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("Thunder", "U12", 0.72, 0.55, 20)
	teamB := newTeam("Lightning", "U12", 0.61, 0.48, 18)

	ab := p.Predict(context.Background(), teamA, teamB, nil)
	ba := p.Predict(context.Background(), teamB, teamA, nil)

	assert.InDelta(t, ab.WinProbabilityA, ba.WinProbabilityB, 1e-9)
	assert.InDelta(t, ab.WinProbabilityB, ba.WinProbabilityA, 1e-9)
	assert.InDelta(t, ab.Breakdown.CompositeDiff, -ba.Breakdown.CompositeDiff, 1e-9)
	assert.Equal(t, models.WinnerTeamA, ab.PredictedWinner)
	assert.Equal(t, models.WinnerTeamB, ba.PredictedWinner)
}

func TestPredictNeverDraws(t *testing.T) {
	p := NewPredictor(nil, nil)

	// Perfectly identical teams: the composite is exactly zero and the tie
	// goes to team A.
	teamA := newTeam("Alpha", "U14", 0.50, 0.50, 15)
	teamB := newTeam("Beta", "U14", 0.50, 0.50, 15)

	pred := p.Predict(context.Background(), teamA, teamB, nil)

	assert.InDelta(t, 0.5, pred.WinProbabilityA, 1e-9)
	assert.Equal(t, models.WinnerTeamA, pred.PredictedWinner)
	assert.InDelta(t, 1.0, pred.WinProbabilityA+pred.WinProbabilityB, 1e-9)
}

func TestPredictFormContributionIsCapped(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("Hot", "U12", 0.50, 0.50, 20)
	teamB := newTeam("Cold", "U12", 0.50, 0.50, 20)

	// Each team has five scored games against outside opponents: team A all
	// blowout wins, team B all blowout losses. No mutual games, so no
	// head-to-head boost.
	var games []*models.Game
	for i := 0; i < 5; i++ {
		games = append(games, scoredGame(teamA.ID, uuid.New(), 10, 0, i+1))
		games = append(games, scoredGame(teamB.ID, uuid.New(), 0, 10, i+1))
	}

	pred := p.Predict(context.Background(), teamA, teamB, games)

	// Every other differential is zero, so the composite is exactly the
	// capped form contribution.
	assert.InDelta(t, formContributionCap, pred.Breakdown.CompositeDiff, 1e-6)
	assert.Zero(t, pred.Breakdown.HeadToHeadBoost)
	assert.Equal(t, models.WinnerTeamA, pred.PredictedWinner)
}

func TestPredictMismatchScenario(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("Juggernaut", "U14", 0.90, 0.50, 8)
	teamB := newTeam("Underdog", "U14", 0.30, 0.50, 8)

	pred := p.Predict(context.Background(), teamA, teamB, nil)

	require.Equal(t, models.WinnerTeamA, pred.PredictedWinner)
	assert.Greater(t, pred.WinProbabilityA, 0.85)

	// Thin histories keep confidence low despite the lopsided probability.
	assert.Equal(t, models.ConfidenceLow, pred.Confidence.Label)
}

func TestPredictHeadToHeadBreaksTies(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("Rivals A", "U16", 0.50, 0.50, 25)
	teamB := newTeam("Rivals B", "U16", 0.50, 0.50, 25)

	// Two direct meetings, both won by team A.
	games := []*models.Game{
		scoredGame(teamA.ID, teamB.ID, 2, 1, 30),
		scoredGame(teamA.ID, teamB.ID, 3, 2, 60),
	}

	pred := p.Predict(context.Background(), teamA, teamB, games)

	assert.InDelta(t, 0.02, pred.Breakdown.HeadToHeadBoost, 1e-9)
	assert.Equal(t, models.WinnerTeamA, pred.PredictedWinner)
	assert.Greater(t, pred.WinProbabilityA, 0.5)
}

func TestPredictExpectedScoresFromAgeBracket(t *testing.T) {
	p := NewPredictor(nil, nil)

	cases := []struct {
		ageGroup string
		avgGoals float64
	}{
		{"U10", 2.0},
		{"U12", 2.5},
		{"U16", 2.8},
		{"U19", 3.0},
		{"Open", 3.0},
	}

	for _, tc := range cases {
		teamA := newTeam("A", tc.ageGroup, 0.50, 0.50, 15)
		teamB := newTeam("B", tc.ageGroup, 0.50, 0.50, 15)

		pred := p.Predict(context.Background(), teamA, teamB, nil)

		// Identical teams: zero margin, both scores at the bracket average.
		assert.InDelta(t, tc.avgGoals, pred.ExpectedScoreA, 1e-9, "age group %s", tc.ageGroup)
		assert.InDelta(t, tc.avgGoals, pred.ExpectedScoreB, 1e-9, "age group %s", tc.ageGroup)
	}
}

func TestPredictExpectedScoresNeverNegative(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("Steamroller", "U10", 1.0, 1.0, 30)
	teamB := newTeam("Flattened", "U10", 0.0, 0.0, 30)

	pred := p.Predict(context.Background(), teamA, teamB, nil)

	assert.GreaterOrEqual(t, pred.ExpectedScoreB, 0.0)
	assert.Greater(t, pred.ExpectedScoreA, pred.ExpectedScoreB)
}

func TestMarginMultiplierRamp(t *testing.T) {
	p := NewPredictor(nil, nil)
	ctx := context.Background()

	// Flat at 1.0 through the low threshold.
	assert.InDelta(t, 1.0, p.marginMultiplier(ctx, "U12", 0.0), 1e-9)
	assert.InDelta(t, 1.0, p.marginMultiplier(ctx, "U12", 0.08), 1e-9)

	// Midpoint of the ramp.
	assert.InDelta(t, 1.75, p.marginMultiplier(ctx, "U12", 0.10), 1e-9)

	// Saturates at the max.
	assert.InDelta(t, 2.5, p.marginMultiplier(ctx, "U12", 0.12), 1e-9)
	assert.InDelta(t, 2.5, p.marginMultiplier(ctx, "U12", 0.50), 1e-9)

	// Sign of the composite is irrelevant.
	assert.InDelta(t, 2.5, p.marginMultiplier(ctx, "U12", -0.12), 1e-9)
}

func TestPredictIsDeterministic(t *testing.T) {
	p := NewPredictor(nil, nil)

	teamA := newTeam("A", "U12", 0.64, 0.51, 22)
	teamB := newTeam("B", "U12", 0.58, 0.47, 19)
	games := []*models.Game{
		scoredGame(teamA.ID, teamB.ID, 2, 1, 10),
		scoredGame(teamA.ID, teamB.ID, 1, 1, 40),
	}

	first := p.Predict(context.Background(), teamA, teamB, games)
	second := p.Predict(context.Background(), teamA, teamB, games)

	assert.Equal(t, first.PredictedWinner, second.PredictedWinner)
	assert.Equal(t, first.WinProbabilityA, second.WinProbabilityA)
	assert.Equal(t, first.ExpectedScoreA, second.ExpectedScoreA)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func TestSigmoidProperties(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-9)
	assert.InDelta(t, 1.0, sigmoid(0.3)+sigmoid(-0.3), 1e-9)
	assert.True(t, sigmoid(10) > 0.99)
	assert.True(t, sigmoid(-10) < 0.01)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 2.5, roundScore(2.49999))
	assert.Equal(t, 2.5, roundScore(2.54))
	assert.Equal(t, 0.0, roundScore(math.Max(0, -1.2)))
}
