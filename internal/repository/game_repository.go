package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/matchup-engine/internal/database"
	"github.com/yourusername/matchup-engine/internal/models"
)

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// GetByTeams retrieves every game involving either team, oldest first. This
// single query covers both recent-form and head-to-head needs for one
// comparison.
func (r *PostgresGameRepository) GetByTeams(ctx context.Context, teamAID, teamBID uuid.UUID) ([]*models.Game, error) {
	query := `
		SELECT id, home_team_id, away_team_id, home_score, away_score, played_at
		FROM games
		WHERE home_team_id = ANY($1) OR away_team_id = ANY($1)
		ORDER BY played_at ASC
	`

	ids := []uuid.UUID{teamAID, teamBID}
	rows, err := r.db.GetPool().Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by teams: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByTeam retrieves a single team's games, oldest first, capped at limit.
func (r *PostgresGameRepository) GetByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]*models.Game, error) {
	query := `
		SELECT id, home_team_id, away_team_id, home_score, away_score, played_at
		FROM (
			SELECT id, home_team_id, away_team_id, home_score, away_score, played_at
			FROM games
			WHERE home_team_id = $1 OR away_team_id = $1
			ORDER BY played_at DESC
			LIMIT $2
		) recent
		ORDER BY played_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by team: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanGames(rows pgxRows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.HomeTeamID, &game.AwayTeamID,
			&game.HomeScore, &game.AwayScore, &game.PlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
