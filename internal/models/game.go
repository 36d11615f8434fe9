package models

import (
	"time"

	"github.com/google/uuid"
)

// Game is a single historical game between two teams. Scores are nil until a
// result is recorded; a game missing either score still counts for ordering
// but never for goal-based computation.
type Game struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	HomeTeamID uuid.UUID `db:"home_team_id" json:"home_team_id" validate:"required,uuid4"`
	AwayTeamID uuid.UUID `db:"away_team_id" json:"away_team_id" validate:"required,uuid4"`
	HomeScore  *int      `db:"home_score" json:"home_score,omitempty"`
	AwayScore  *int      `db:"away_score" json:"away_score,omitempty"`
	PlayedAt   time.Time `db:"played_at" json:"played_at" validate:"required"`
}

// HasScores reports whether both sides have a recorded score.
func (g *Game) HasScores() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Involves reports whether the team played in this game.
func (g *Game) Involves(teamID uuid.UUID) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// OpponentOf returns the other team's ID. The caller must ensure teamID
// played in this game.
func (g *Game) OpponentOf(teamID uuid.UUID) uuid.UUID {
	if g.HomeTeamID == teamID {
		return g.AwayTeamID
	}
	return g.HomeTeamID
}

// GoalDiffFor returns the signed goal differential from teamID's
// perspective. The second return is false when either score is missing.
func (g *Game) GoalDiffFor(teamID uuid.UUID) (int, bool) {
	if !g.HasScores() {
		return 0, false
	}
	if g.HomeTeamID == teamID {
		return *g.HomeScore - *g.AwayScore, true
	}
	return *g.AwayScore - *g.HomeScore, true
}

// GoalsFor returns the goals scored by teamID in this game.
func (g *Game) GoalsFor(teamID uuid.UUID) (int, bool) {
	if !g.HasScores() {
		return 0, false
	}
	if g.HomeTeamID == teamID {
		return *g.HomeScore, true
	}
	return *g.AwayScore, true
}

// GoalsAgainst returns the goals conceded by teamID in this game.
func (g *Game) GoalsAgainst(teamID uuid.UUID) (int, bool) {
	if !g.HasScores() {
		return 0, false
	}
	if g.HomeTeamID == teamID {
		return *g.AwayScore, true
	}
	return *g.HomeScore, true
}

// WonBy reports whether teamID won this game outright.
func (g *Game) WonBy(teamID uuid.UUID) bool {
	diff, ok := g.GoalDiffFor(teamID)
	return ok && diff > 0
}
