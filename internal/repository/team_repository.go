package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/matchup-engine/internal/database"
	"github.com/yourusername/matchup-engine/internal/models"
)

const errScanTeam = "failed to scan team ranking: %w"

// PostgresTeamRankingRepository implements TeamRankingRepository for PostgreSQL
type PostgresTeamRankingRepository struct {
	db *database.DB
}

// NewPostgresTeamRankingRepository creates a new team ranking repository
func NewPostgresTeamRankingRepository(db *database.DB) TeamRankingRepository {
	return &PostgresTeamRankingRepository{db: db}
}

// GetByID retrieves a team's current ranking snapshot
func (r *PostgresTeamRankingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TeamRanking, error) {
	query := `
		SELECT id, name, age_group, power_score, sos, offense, defense, games_played, updated_at
		FROM team_rankings WHERE id = $1
	`

	team := &models.TeamRanking{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.AgeGroup, &team.PowerScore, &team.SOS,
		&team.Offense, &team.Defense, &team.GamesPlayed, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team ranking: %w", err)
	}

	return team, nil
}

// GetByAgeGroup retrieves ranked teams in an age group, strongest first
func (r *PostgresTeamRankingRepository) GetByAgeGroup(ctx context.Context, ageGroup string, limit int) ([]*models.TeamRanking, error) {
	query := `
		SELECT id, name, age_group, power_score, sos, offense, defense, games_played, updated_at
		FROM team_rankings
		WHERE age_group = $1
		ORDER BY power_score DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, ageGroup, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by age group: %w", err)
	}
	defer rows.Close()

	var teams []*models.TeamRanking
	for rows.Next() {
		team := &models.TeamRanking{}
		err := rows.Scan(
			&team.ID, &team.Name, &team.AgeGroup, &team.PowerScore, &team.SOS,
			&team.Offense, &team.Defense, &team.GamesPlayed, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}
