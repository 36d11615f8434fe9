package engine

import (
	"github.com/google/uuid"

	"github.com/yourusername/matchup-engine/internal/models"
)

// HeadToHeadBoost derives a bounded historical bias from direct matchups
// between the two teams, from team A's perspective. It is a tiebreaker, not
// a primary signal: the result is clamped to ±0.03 and is exactly 0 when
// fewer than minGames fully-scored meetings exist.
func HeadToHeadBoost(teamAID, teamBID uuid.UUID, games []*models.Game, minGames int) float64 {
	if minGames <= 0 {
		minGames = DefaultH2HMinGames
	}

	var meetings, winsA int
	for _, g := range games {
		if !g.HasScores() {
			continue
		}
		if !g.Involves(teamAID) || !g.Involves(teamBID) {
			continue
		}
		meetings++
		if g.WonBy(teamAID) {
			winsA++
		}
	}

	if meetings < minGames {
		return 0
	}

	winRateDiff := float64(winsA)/float64(meetings) - 0.5

	// Confidence in the signal grows with meetings but saturates at 5.
	capped := meetings
	if capped > h2hConfidenceCapGames {
		capped = h2hConfidenceCapGames
	}
	confidence := float64(capped) / float64(h2hConfidenceCapGames)

	boost := winRateDiff * confidence * h2hScalingFactor
	return clamp(boost, -h2hBoostCap, h2hBoostCap)
}
