package engine

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yourusername/matchup-engine/internal/models"
)

// RecentForm derives a team's short-term trajectory from its own game log:
// the weighted mean goal differential over its most recent fully-scored
// games, discounted by sample size so a thin window cannot produce a
// confident signal.
//
// powerLookup optionally maps opponent IDs to power scores; when supplied,
// each game's differential is scaled by (0.6 + opponent power), so results
// against strong opponents count for more. Opponents missing from the lookup
// are weighted 1.0. Returns 0 when no qualifying games exist.
func RecentForm(teamID uuid.UUID, games []*models.Game, windowSize int, powerLookup map[uuid.UUID]float64) float64 {
	if windowSize <= 0 {
		windowSize = DefaultFormWindow
	}

	recent := recentScoredGames(teamID, games, windowSize)
	if len(recent) == 0 {
		return 0
	}

	var weightedSum, totalWeight float64
	for _, g := range recent {
		diff, ok := g.GoalDiffFor(teamID)
		if !ok {
			continue
		}

		multiplier := 1.0
		if powerLookup != nil {
			if power, ok := powerLookup[g.OpponentOf(teamID)]; ok {
				multiplier = formOpponentBaseMultiplier + power
			}
		}

		weightedSum += float64(diff) * multiplier
		totalWeight += multiplier
	}

	if totalWeight == 0 {
		return 0
	}

	// Sample-size discount: 2 of 5 possible games keeps 40% of the raw value.
	discount := float64(len(recent)) / float64(windowSize)
	return (weightedSum / totalWeight) * discount
}

// recentScoredGames selects up to windowSize of the team's most recent games
// with both scores present, newest first.
func recentScoredGames(teamID uuid.UUID, games []*models.Game, windowSize int) []*models.Game {
	var involved []*models.Game
	for _, g := range games {
		if g.Involves(teamID) && g.HasScores() {
			involved = append(involved, g)
		}
	}

	sort.SliceStable(involved, func(i, j int) bool {
		return involved[i].PlayedAt.After(involved[j].PlayedAt)
	})

	if len(involved) > windowSize {
		involved = involved[:windowSize]
	}
	return involved
}
