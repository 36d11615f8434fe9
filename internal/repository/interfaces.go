// Package repository provides read access to the ranking pipeline's
// published team snapshots and game logs.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/matchup-engine/internal/models"
)

// TeamRankingRepository reads team ranking snapshots.
type TeamRankingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TeamRanking, error)
	GetByAgeGroup(ctx context.Context, ageGroup string, limit int) ([]*models.TeamRanking, error)
}

// GameRepository reads game histories, always ordered by date.
type GameRepository interface {
	// GetByTeams returns every game involving either team, newest last.
	GetByTeams(ctx context.Context, teamAID, teamBID uuid.UUID) ([]*models.Game, error)
	// GetByTeam returns the team's games, newest last, capped at limit.
	GetByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]*models.Game, error)
}
