package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictedWinner identifies which side of a matchup is favored. There is no
// draw value: ties on the composite differential go to team A.
type PredictedWinner string

const (
	WinnerTeamA PredictedWinner = "team_a"
	WinnerTeamB PredictedWinner = "team_b"
)

// ConfidenceLabel buckets a confidence score for display.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "high"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceLow    ConfidenceLabel = "low"
)

// ConfidenceResult is the output of the confidence estimator. It is
// recomputed on every prediction and never cached on its own.
type ConfidenceResult struct {
	Score float64         `json:"score" validate:"gt=0,lt=1"`
	Label ConfidenceLabel `json:"label" validate:"required,oneof=high medium low"`
}

// PredictionBreakdown records every component differential that fed the
// composite. The explanation generator is its only required consumer.
type PredictionBreakdown struct {
	PowerDiff          float64 `json:"power_diff"`
	SOSDiff            float64 `json:"sos_diff"`
	FormDiffRaw        float64 `json:"form_diff_raw"`
	FormDiffNormalized float64 `json:"form_diff_normalized"`
	MatchupAsymmetry   float64 `json:"matchup_asymmetry"`
	HeadToHeadBoost    float64 `json:"head_to_head_boost"`
	CompositeDiff      float64 `json:"composite_diff"`
}

// MatchPrediction is the immutable result of comparing two ranked teams.
type MatchPrediction struct {
	ID              uuid.UUID           `json:"id"`
	TeamAID         uuid.UUID           `json:"team_a_id"`
	TeamBID         uuid.UUID           `json:"team_b_id"`
	PredictedWinner PredictedWinner     `json:"predicted_winner"`
	WinProbabilityA float64             `json:"win_probability_a" validate:"gte=0,lte=1"`
	WinProbabilityB float64             `json:"win_probability_b" validate:"gte=0,lte=1"`
	ExpectedScoreA  float64             `json:"expected_score_a" validate:"gte=0"`
	ExpectedScoreB  float64             `json:"expected_score_b" validate:"gte=0"`
	ExpectedMargin  float64             `json:"expected_margin"`
	Confidence      ConfidenceResult    `json:"confidence"`
	Breakdown       PredictionBreakdown `json:"breakdown"`
	PredictedAt     time.Time           `json:"predicted_at"`
}

// FavoredTeamID returns the ID of the predicted winner.
func (p *MatchPrediction) FavoredTeamID() uuid.UUID {
	if p.PredictedWinner == WinnerTeamB {
		return p.TeamBID
	}
	return p.TeamAID
}
