// Package logger provides prediction audit logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/models"
)

// PredictionLogger provides a dedicated audit trail for served predictions.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction audit logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction_audit"),
	}
}

// LogPrediction records a served prediction with its full breakdown.
func (pl *PredictionLogger) LogPrediction(prediction *models.MatchPrediction, cached bool) {
	pl.WithFields(logrus.Fields{
		"prediction_id":    prediction.ID,
		"team_a":           prediction.TeamAID,
		"team_b":           prediction.TeamBID,
		"predicted_winner": prediction.PredictedWinner,
		"win_prob_a":       prediction.WinProbabilityA,
		"expected_margin":  prediction.ExpectedMargin,
		"composite_diff":   prediction.Breakdown.CompositeDiff,
		"h2h_boost":        prediction.Breakdown.HeadToHeadBoost,
		"confidence":       prediction.Confidence.Label,
		"confidence_score": prediction.Confidence.Score,
		"cached":           cached,
	}).Info("Match prediction served")
}

// LogComparisonRejected records a comparison request that never reached the
// engine.
func (pl *PredictionLogger) LogComparisonRejected(teamAID, teamBID string, reason string) {
	pl.WithFields(logrus.Fields{
		"team_a": teamAID,
		"team_b": teamBID,
		"reason": reason,
	}).Warn("Comparison request rejected")
}
